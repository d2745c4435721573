package report

// Severity classifies how a diagnostic affects the run verdict.
type Severity string

const (
	// SeverityFail marks a blocking violation. Any fail diagnostic makes
	// the whole run fail.
	SeverityFail Severity = "fail"

	// SeverityWarn marks an advisory finding. Warnings never affect the
	// exit status.
	SeverityWarn Severity = "warn"
)

// rank orders severities for sorting (lower sorts first).
func (s Severity) rank() int {
	if s == SeverityFail {
		return 0
	}
	return 1
}

// Diagnostic is the single output unit of the engine. Per-file diagnostics
// carry a File; cross-file diagnostics additionally carry the ordered Chain
// of modules involved. Diagnostics are never mutated after creation.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	RuleID   string   `json:"ruleId"`
	File     string   `json:"file"`
	Chain    []string `json:"chain,omitempty"`
	Message  string   `json:"message"`
}
