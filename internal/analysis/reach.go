package analysis

import (
	"strings"

	"github.com/dusk-indust/archgate/internal/graph"
	"github.com/dusk-indust/archgate/internal/report"
	"github.com/dusk-indust/archgate/internal/rules"
)

// defaultMaxDepth bounds a reachability trace when the rule does not set
// its own limit, keeping pathological traces cheap.
const defaultMaxDepth = 6

// TraceReachability determines whether any of the rule's entry modules
// transitively reaches a forbidden target through runtime edges. A module
// matched by a boundary pattern truncates the trace: the DFS does not
// recurse past it, modeling an RPC or serialization boundary. Each module is
// re-expanded only when reached through a strictly shorter chain, which
// guarantees termination independent of the depth limit.
//
// Every violation carries the full witness chain from entry to target.
func TraceReachability(g *graph.ModuleGraph, rule *rules.Rule) []report.Diagnostic {
	a := rule.Analysis
	maxDepth := a.MaxDepth
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}

	isBoundary := func(p string) bool { return matchesAny(a.Boundaries, p) }
	forbiddenPkg := func(pkg string) bool { return matchesAny(a.ForbiddenPackages, pkg) }
	forbiddenLayer := func(layer string) bool {
		for _, l := range a.ForbiddenLayers {
			if l == layer {
				return true
			}
		}
		return false
	}

	var diags []report.Diagnostic
	for _, entryPath := range g.Paths() {
		if !matchesAny(a.Entries, entryPath) {
			continue
		}

		t := &trace{
			graph:          g,
			isBoundary:     isBoundary,
			forbiddenPkg:   forbiddenPkg,
			forbiddenLayer: forbiddenLayer,
			maxDepth:       maxDepth,
			shallowest:     make(map[string]int),
			reported:       make(map[string]bool),
		}
		t.walk(entryPath, []string{entryPath})

		for _, v := range t.violations {
			diags = append(diags, report.Diagnostic{
				Severity: rule.Severity(),
				RuleID:   rule.ID,
				File:     entryPath,
				Chain:    v.chain,
				Message:  renderTraceMessage(rule.Message, entryPath, v),
			})
		}
	}
	return diags
}

type violation struct {
	target string
	chain  []string
}

// trace holds the per-entry DFS state. Nothing here outlives one entry.
type trace struct {
	graph          *graph.ModuleGraph
	isBoundary     func(string) bool
	forbiddenPkg   func(string) bool
	forbiddenLayer func(string) bool
	maxDepth       int
	shallowest     map[string]int  // shortest chain length seen per module
	reported       map[string]bool // dedup by final target
	violations     []violation
}

// walk expands one module. chain is the path from the entry to and
// including the current module; its length doubles as the depth bound.
func (t *trace) walk(current string, chain []string) {
	// Skip only when an equally short or shorter chain already expanded
	// this module. A module abandoned at the depth bound must stay
	// expandable from a shorter path.
	if prev, ok := t.shallowest[current]; ok && prev <= len(chain) {
		return
	}
	t.shallowest[current] = len(chain)

	// A boundary truncates the trace before any of its edges are
	// examined.
	if t.isBoundary(current) {
		return
	}
	if len(chain) > t.maxDepth {
		return
	}

	m := t.graph.Module(current)
	if m == nil {
		return
	}

	for _, e := range m.Edges {
		// Type-only edges are erased at compile time and never
		// appear in a runtime witness chain.
		if !e.Runtime() {
			continue
		}

		switch e.Kind {
		case graph.TargetExternal:
			if t.forbiddenPkg(e.Target) {
				t.report(e.Target, append(append([]string{}, chain...), e.Target))
			}

		case graph.TargetInternal:
			if t.forbiddenLayer(e.TargetLayer) {
				t.report(e.Target, append(append([]string{}, chain...), e.Target))
				continue
			}
			t.walk(e.Target, append(chain, e.Target))
		}
		// Unresolved and opaque edges are dead: nothing to follow.
	}
}

func (t *trace) report(target string, chain []string) {
	if t.reported[target] {
		return
	}
	t.reported[target] = true
	t.violations = append(t.violations, violation{target: target, chain: chain})
}

func renderTraceMessage(template, entry string, v violation) string {
	return strings.NewReplacer(
		"{{entry}}", entry,
		"{{target}}", v.target,
		"{{chain}}", strings.Join(v.chain, " -> "),
	).Replace(template)
}

func matchesAny(patterns []string, p string) bool {
	for _, pattern := range patterns {
		if rules.MatchPath(pattern, p) {
			return true
		}
	}
	return false
}
