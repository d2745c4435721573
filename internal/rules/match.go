package rules

import (
	"strings"

	"github.com/dusk-indust/archgate/internal/graph"
)

// edgeContext carries the facts a matcher is evaluated against: one edge
// plus its owning module.
type edgeContext struct {
	module *graph.Module
	edge   graph.Edge
}

// eval interprets the matcher tree over a single edge. An empty node
// matches nothing.
func (m *Matcher) eval(c edgeContext) bool {
	switch {
	case len(m.All) > 0:
		for _, sub := range m.All {
			if !sub.eval(c) {
				return false
			}
		}
		return true

	case len(m.Any) > 0:
		for _, sub := range m.Any {
			if sub.eval(c) {
				return true
			}
		}
		return false

	case m.Not != nil:
		return !m.Not.eval(c)

	case len(m.TargetLayerIn) > 0:
		if c.edge.Kind != graph.TargetInternal {
			return false
		}
		return contains(m.TargetLayerIn, c.edge.TargetLayer)

	case len(m.SourceLayerIn) > 0:
		return contains(m.SourceLayerIn, c.module.Layer)

	case m.TargetPrefix != "":
		if c.edge.Kind != graph.TargetInternal {
			return false
		}
		return strings.HasPrefix(c.edge.Target, m.TargetPrefix)

	case m.SpecifierIs != "":
		return c.edge.Specifier == m.SpecifierIs

	case m.SpecifierMatches != "":
		if m.specifierRe == nil {
			return false
		}
		return m.specifierRe.MatchString(c.edge.Specifier)

	case m.TypeOnly != nil:
		return c.edge.TypeOnly == *m.TypeOnly

	case m.Dynamic != nil:
		return c.edge.Dynamic == *m.Dynamic

	case m.ExternalPackage != "":
		if c.edge.Kind != graph.TargetExternal {
			return false
		}
		return MatchPath(m.ExternalPackage, c.edge.Target)
	}

	return false
}

// usesExternalPackage reports whether any leaf of the matcher tree matches
// on external package names. External-package edges only participate in
// rules that explicitly do: a layer can't violate direction against
// something outside the project.
func (m *Matcher) usesExternalPackage() bool {
	if m == nil {
		return false
	}
	if m.ExternalPackage != "" {
		return true
	}
	for _, sub := range m.All {
		if sub.usesExternalPackage() {
			return true
		}
	}
	for _, sub := range m.Any {
		if sub.usesExternalPackage() {
			return true
		}
	}
	return m.Not.usesExternalPackage()
}

// usesTarget reports whether any leaf depends on a resolved target.
// Unresolved edges are dead: they only participate in rules that match pure
// specifier facts.
func (m *Matcher) usesTarget() bool {
	if m == nil {
		return false
	}
	if len(m.TargetLayerIn) > 0 || m.TargetPrefix != "" || m.ExternalPackage != "" {
		return true
	}
	for _, sub := range m.All {
		if sub.usesTarget() {
			return true
		}
	}
	for _, sub := range m.Any {
		if sub.usesTarget() {
			return true
		}
	}
	return m.Not.usesTarget()
}

// eligible reports whether an edge participates in this matcher at all,
// based on the edge's resolution kind.
func (m *Matcher) eligible(e graph.Edge) bool {
	switch e.Kind {
	case graph.TargetInternal:
		return true
	case graph.TargetExternal:
		return m.usesExternalPackage()
	case graph.TargetUnresolved, graph.TargetOpaque:
		return !m.usesTarget()
	}
	return false
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
