package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	failLabel = color.New(color.FgRed, color.Bold).SprintFunc()
	warnLabel = color.New(color.FgYellow, color.Bold).SprintFunc()
	ruleLabel = color.New(color.FgCyan).SprintFunc()
	chainStep = color.New(color.Faint).SprintFunc()
)

// Render writes the human-readable form of the report to w. Cross-file
// diagnostics print their witness chain one module per line.
func (r *Report) Render(w io.Writer) {
	for _, d := range r.Diagnostics {
		label := warnLabel("WARN")
		if d.Severity == SeverityFail {
			label = failLabel("FAIL")
		}
		fmt.Fprintf(w, "%s %s %s\n", label, ruleLabel("["+d.RuleID+"]"), d.Message)
		if len(d.Chain) > 1 {
			for i, step := range d.Chain {
				fmt.Fprintf(w, "      %s\n", chainStep(strings.Repeat("  ", i)+step))
			}
		}
	}

	fails, warns := r.Counts()
	if fails == 0 && warns == 0 {
		fmt.Fprintln(w, "no violations found")
		return
	}
	fmt.Fprintf(w, "\n%d failure(s), %d warning(s)\n", fails, warns)
}
