package graph

import "sort"

// --- Enums ---

// TargetKind classifies where a resolved import edge points.
type TargetKind string

const (
	// TargetInternal points at another module inside the project root.
	TargetInternal TargetKind = "internal"

	// TargetExternal points at a third-party or builtin package outside
	// the project root.
	TargetExternal TargetKind = "external-package"

	// TargetUnresolved marks a specifier that failed every resolution
	// probe. Unresolved edges are reported and then treated as dead:
	// they never participate in reachability or cycle analysis.
	TargetUnresolved TargetKind = "unresolved"

	// TargetOpaque marks a dynamic import whose argument is not a string
	// literal. It cannot be resolved statically and is surfaced as a
	// low-severity diagnostic rather than silently dropped.
	TargetOpaque TargetKind = "opaque"
)

// LayerUnclassified is the layer tag for modules no layer rule matches.
const LayerUnclassified = "unclassified"

// --- Models ---

// RawImport is one import occurrence as written in the source, before
// resolution.
type RawImport struct {
	// Specifier is the literal module specifier text, e.g. "./util" or
	// "react". Empty for opaque dynamic imports.
	Specifier string `json:"specifier"`

	// TypeOnly is true for `import type` / `export type ... from` forms,
	// which are erased at compile time and carry no runtime dependency.
	TypeOnly bool `json:"typeOnly,omitempty"`

	// Dynamic is true for `import(...)` call expressions.
	Dynamic bool `json:"dynamic,omitempty"`

	// Opaque is true for dynamic imports whose argument is not a string
	// literal.
	Opaque bool `json:"opaque,omitempty"`

	// Line is the 1-based source line of the import.
	Line int `json:"line"`
}

// Edge is a directed, resolved import relationship from one module to its
// target.
type Edge struct {
	// From is the project-relative path of the importing module.
	From string `json:"from"`

	// Target is the project-relative path of the imported module for
	// internal edges, or the package name for external edges. Empty for
	// opaque edges.
	Target string `json:"target"`

	// Specifier is the literal specifier text that produced this edge.
	Specifier string `json:"specifier"`

	// TargetLayer is the layer tag of the target module for internal
	// edges. Layer classification is path-pure, so recording it here
	// keeps per-file rule evaluation free of cross-module state.
	TargetLayer string `json:"targetLayer,omitempty"`

	Kind     TargetKind `json:"kind"`
	TypeOnly bool       `json:"typeOnly,omitempty"`
	Dynamic  bool       `json:"dynamic,omitempty"`
	Line     int        `json:"line"`
}

// Runtime reports whether the edge carries a runtime dependency: type-only
// edges are erased at compile time and never participate in runtime
// reachability.
func (e Edge) Runtime() bool {
	return !e.TypeOnly
}

// Module is one source file in the graph. Modules are immutable after the
// build completes for a given run.
type Module struct {
	// Path is the canonical project-relative path, slash-separated.
	Path string `json:"path"`

	// Layer is the logical layer tag derived from the path.
	Layer string `json:"layer"`

	// Imports are the raw import specifiers as written.
	Imports []RawImport `json:"imports,omitempty"`

	// Edges are the resolved import edges.
	Edges []Edge `json:"edges,omitempty"`
}

// ModuleGraph is the full set of modules and edges for one run. It is built
// once, treated as immutable by every subsequent stage, and discarded when
// the run completes. No graph state is ever persisted across invocations.
type ModuleGraph struct {
	Root    string
	modules map[string]*Module
	paths   []string // lexicographically sorted module paths
}

// NewModuleGraph assembles a graph from already-built modules, indexing them
// by path. Callers must not mutate the modules afterwards.
func NewModuleGraph(root string, modules []*Module) *ModuleGraph {
	g := &ModuleGraph{
		Root:    root,
		modules: make(map[string]*Module, len(modules)),
	}
	for _, m := range modules {
		g.modules[m.Path] = m
	}
	g.paths = make([]string, 0, len(g.modules))
	for p := range g.modules {
		g.paths = append(g.paths, p)
	}
	sort.Strings(g.paths)
	return g
}

// Module returns the module at the given project-relative path, or nil.
func (g *ModuleGraph) Module(path string) *Module {
	return g.modules[path]
}

// Paths returns all module paths in lexicographic order. Callers must not
// mutate the returned slice.
func (g *ModuleGraph) Paths() []string {
	return g.paths
}

// Modules returns all modules in lexicographic path order.
func (g *ModuleGraph) Modules() []*Module {
	out := make([]*Module, 0, len(g.paths))
	for _, p := range g.paths {
		out = append(out, g.modules[p])
	}
	return out
}

// Len returns the number of modules in the graph.
func (g *ModuleGraph) Len() int {
	return len(g.paths)
}

// Stats summarizes the graph for CLI and MCP consumers.
func (g *ModuleGraph) Stats() GraphStats {
	var s GraphStats
	s.ModuleCount = len(g.paths)
	for _, p := range g.paths {
		for _, e := range g.modules[p].Edges {
			s.EdgeCount++
			switch e.Kind {
			case TargetExternal:
				s.ExternalCount++
			case TargetUnresolved:
				s.UnresolvedCount++
			case TargetOpaque:
				s.OpaqueCount++
			}
			if e.TypeOnly {
				s.TypeOnlyCount++
			}
		}
	}
	return s
}

// GraphStats summarizes a built module graph.
type GraphStats struct {
	ModuleCount     int `json:"moduleCount"`
	EdgeCount       int `json:"edgeCount"`
	ExternalCount   int `json:"externalCount"`
	UnresolvedCount int `json:"unresolvedCount"`
	OpaqueCount     int `json:"opaqueCount"`
	TypeOnlyCount   int `json:"typeOnlyCount"`
}
