package analysis

import (
	"github.com/dusk-indust/archgate/internal/graph"
	"github.com/dusk-indust/archgate/internal/report"
	"github.com/dusk-indust/archgate/internal/rules"
)

// Evaluate dispatches one cross-file rule to its algorithm. The graph is
// never mutated; every analysis is an independent read-only pass.
func Evaluate(g *graph.ModuleGraph, rule *rules.Rule, grouper Grouper) []report.Diagnostic {
	if rule.Analysis == nil {
		return nil
	}
	switch rule.Analysis.Kind {
	case "cycles":
		return DetectCycles(g, rule, grouper)
	case "reachability":
		return TraceReachability(g, rule)
	case "coupling":
		return CouplingMetrics(g, rule, grouper)
	}
	return nil
}
