package report

import (
	"encoding/json"
	"sort"
)

// Report is the merged, ordered result set of one engine run.
type Report struct {
	Diagnostics []Diagnostic `json:"diagnostics"`

	// HasBlockingFailure is true when at least one diagnostic carries
	// SeverityFail. It is the only input to the exit-status contract.
	HasBlockingFailure bool `json:"hasBlockingFailure"`
}

// Aggregate merges the per-file and cross-file diagnostic streams into a
// single Report. The result is stable-sorted by (severity desc, file path,
// rule id) so that two runs over the same tree produce byte-identical output.
func Aggregate(perFile, crossFile []Diagnostic) *Report {
	merged := make([]Diagnostic, 0, len(perFile)+len(crossFile))
	merged = append(merged, perFile...)
	merged = append(merged, crossFile...)

	sort.SliceStable(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if a.Severity != b.Severity {
			return a.Severity.rank() < b.Severity.rank()
		}
		if a.File != b.File {
			return a.File < b.File
		}
		return a.RuleID < b.RuleID
	})

	blocking := false
	for _, d := range merged {
		if d.Severity == SeverityFail {
			blocking = true
			break
		}
	}

	return &Report{
		Diagnostics:        merged,
		HasBlockingFailure: blocking,
	}
}

// Counts returns the number of fail and warn diagnostics.
func (r *Report) Counts() (fails, warns int) {
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityFail {
			fails++
		} else {
			warns++
		}
	}
	return fails, warns
}

// JSON renders the report as indented JSON for machine consumers.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
