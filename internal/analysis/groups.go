// Package analysis implements the cross-file graph algorithms: cycle
// detection, transitive reachability tracing, and coupling metrics. All
// three are read-only passes over a completed module graph, runnable in any
// order or in parallel.
package analysis

import (
	"sort"
	"strings"

	"github.com/dusk-indust/archgate/internal/config"
	"github.com/dusk-indust/archgate/internal/graph"
)

// Grouper maps a module to its analysis group. Cycles and coupling are
// meaningful at the module-group level rather than per file.
type Grouper func(m *graph.Module) string

// GrouperFor builds a Grouper from the project's grouping config: "layer"
// groups by classified layer tag, "dir" (the default) groups by the leading
// path segments of the module's directory.
func GrouperFor(cfg config.Grouping) Grouper {
	if cfg.Mode == "layer" {
		return func(m *graph.Module) string { return m.Layer }
	}
	depth := cfg.Depth
	if depth <= 0 {
		depth = 1
	}
	return GroupByDir(depth)
}

// GroupByDir groups modules by their first depth directory segments. A
// module at the project root forms its own group named after the file stem.
func GroupByDir(depth int) Grouper {
	return func(m *graph.Module) string {
		segments := strings.Split(m.Path, "/")
		if len(segments) == 1 {
			name := segments[0]
			if idx := strings.LastIndex(name, "."); idx > 0 {
				name = name[:idx]
			}
			return name
		}
		dirs := segments[:len(segments)-1]
		if len(dirs) > depth {
			dirs = dirs[:depth]
		}
		return strings.Join(dirs, "/")
	}
}

// groupedEdge is one file-level witness of a group-to-group dependency.
type groupedEdge struct {
	fromGroup string
	toGroup   string
	fromFile  string
	toFile    string
}

// groupEdges projects the graph's internal edges onto groups, dropping
// self-group edges. Unresolved and opaque edges cannot participate: an
// unresolved target cannot be part of a real cycle. Type-only edges are
// dropped when excludeTypeOnly is set.
func groupEdges(g *graph.ModuleGraph, grouper Grouper, excludeTypeOnly bool) []groupedEdge {
	var out []groupedEdge
	for _, m := range g.Modules() {
		from := grouper(m)
		for _, e := range m.Edges {
			if e.Kind != graph.TargetInternal {
				continue
			}
			if excludeTypeOnly && e.TypeOnly {
				continue
			}
			target := g.Module(e.Target)
			if target == nil {
				continue
			}
			to := grouper(target)
			if to == from {
				continue
			}
			out = append(out, groupedEdge{
				fromGroup: from,
				toGroup:   to,
				fromFile:  m.Path,
				toFile:    target.Path,
			})
		}
	}
	return out
}

// sortedGroups returns the distinct group names of the given edges in
// lexicographic order, matching the scanner's ordering for reproducible
// reports.
func sortedGroups(edges []groupedEdge) []string {
	set := make(map[string]bool)
	for _, e := range edges {
		set[e.fromGroup] = true
		set[e.toGroup] = true
	}
	out := make([]string, 0, len(set))
	for gname := range set {
		out = append(out, gname)
	}
	sort.Strings(out)
	return out
}
