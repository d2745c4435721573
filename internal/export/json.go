// Package export renders a built module graph for outside consumers: JSON
// for tooling, Mermaid for humans, Kuzu for ad-hoc graph queries.
package export

import (
	"encoding/json"
	"io"

	"github.com/dusk-indust/archgate/internal/graph"
	"github.com/dusk-indust/archgate/internal/report"
)

// GraphExport is the top-level JSON export structure.
type GraphExport struct {
	Root    string           `json:"root"`
	Stats   graph.GraphStats `json:"stats"`
	Modules []*graph.Module  `json:"modules"`
	Report  *report.Report   `json:"report,omitempty"`
}

// BuildExport assembles the export form of a graph and an optional report.
// Modules are already in lexicographic order, so the output is stable.
func BuildExport(g *graph.ModuleGraph, r *report.Report) *GraphExport {
	return &GraphExport{
		Root:    g.Root,
		Stats:   g.Stats(),
		Modules: g.Modules(),
		Report:  r,
	}
}

// WriteJSON writes the export as indented JSON.
func WriteJSON(w io.Writer, e *GraphExport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}
