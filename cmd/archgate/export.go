package main

import (
	"fmt"
	"os"

	"github.com/dusk-indust/archgate/internal/analysis"
	"github.com/dusk-indust/archgate/internal/export"
	"github.com/dusk-indust/archgate/internal/graph"
	"github.com/dusk-indust/archgate/internal/report"
)

// runExports writes any export artifacts requested on the command line.
func runExports(flags cliFlags, g *graph.ModuleGraph, rep *report.Report, grouper analysis.Grouper) error {
	if flags.ExportJSON != "" {
		f, err := os.Create(flags.ExportJSON)
		if err != nil {
			return fmt.Errorf("creating %s: %w", flags.ExportJSON, err)
		}
		defer f.Close()
		if err := export.WriteJSON(f, export.BuildExport(g, rep)); err != nil {
			return fmt.Errorf("writing %s: %w", flags.ExportJSON, err)
		}
	}

	if flags.ExportMermaid != "" {
		diagram := export.GenerateMermaid(g, grouper)
		if err := os.WriteFile(flags.ExportMermaid, []byte(diagram), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", flags.ExportMermaid, err)
		}
	}

	if flags.ExportKuzu != "" {
		if err := export.ExportKuzu(g, flags.ExportKuzu); err != nil {
			return err
		}
	}

	return nil
}
