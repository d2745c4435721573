package rules

import (
	"strconv"
	"strings"

	"github.com/dusk-indust/archgate/internal/graph"
	"github.com/dusk-indust/archgate/internal/report"
)

// Evaluate runs every per-file rule of the set against one module. It is a
// pure function of the module and the static rule set: no cross-module
// state, so modules can be evaluated in parallel with no coordination.
//
// All matching rules fire independently; diagnostics are additive, never
// exclusive, because distinct violations of distinct invariants must all
// surface.
func Evaluate(m *graph.Module, set *Set) []report.Diagnostic {
	var diags []report.Diagnostic

	for i := range set.Rules {
		r := &set.Rules[i]
		if r.Mechanism != MechanismPerFile || r.Match == nil {
			continue
		}
		if !r.InScope(m.Path) {
			continue
		}

		for _, edge := range m.Edges {
			if !r.Match.eligible(edge) {
				continue
			}
			if !r.Match.eval(edgeContext{module: m, edge: edge}) {
				continue
			}
			if r.Allowed(m.Path, edge.Target) {
				continue
			}

			diags = append(diags, report.Diagnostic{
				Severity: r.Severity(),
				RuleID:   r.ID,
				File:     m.Path,
				Message:  renderMessage(r.Message, m, edge),
			})
		}
	}

	return diags
}

// renderMessage substitutes the rule's message-template placeholders from
// the violating module and edge.
func renderMessage(template string, m *graph.Module, e graph.Edge) string {
	target := e.Target
	if target == "" {
		target = e.Specifier
	}
	return strings.NewReplacer(
		"{{file}}", m.Path,
		"{{layer}}", m.Layer,
		"{{target}}", target,
		"{{targetLayer}}", e.TargetLayer,
		"{{specifier}}", e.Specifier,
		"{{line}}", strconv.Itoa(e.Line),
	).Replace(template)
}
