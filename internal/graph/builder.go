package graph

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/dusk-indust/archgate/internal/config"
	"github.com/dusk-indust/archgate/internal/report"
)

// Builder diagnostic identifiers.
const (
	RuleParseFailure  = "graph/parse-failure"
	RuleUnresolved    = "graph/unresolved-import"
	RuleOpaqueDynamic = "graph/opaque-dynamic-import"
)

// BuildOptions configures one graph build.
type BuildOptions struct {
	Root     string
	Includes []string
	Excludes []string
	Aliases  map[string]string
	Layers   []config.LayerRule
}

// Build scans the tree under opts.Root, parses every candidate file, and
// resolves all imports into a ModuleGraph. A file that cannot be read or
// parsed is excluded from the graph and reported as a diagnostic; partial
// results are always produced. The returned diagnostics also cover
// unresolved and opaque imports.
func Build(ctx context.Context, opts BuildOptions) (*ModuleGraph, []report.Diagnostic, error) {
	files, err := Scan(opts.Root, opts.Includes, opts.Excludes)
	if err != nil {
		return nil, nil, fmt.Errorf("scanning %s: %w", opts.Root, err)
	}

	type parseOutcome struct {
		imports []RawImport
		err     error
	}

	// Parse in parallel; outcomes are indexed by file position so the
	// result is deterministic regardless of scheduling.
	outcomes := make([]parseOutcome, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, rel := range files {
		g.Go(func() error {
			source, err := ReadSource(opts.Root, rel)
			if err != nil {
				outcomes[i] = parseOutcome{err: err}
				return nil
			}
			parser := NewImportParser()
			imports, err := parser.ParseImports(gctx, rel, source)
			outcomes[i] = parseOutcome{imports: imports, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	// Files that parsed successfully form the resolvable set.
	var known []string
	for i, rel := range files {
		if outcomes[i].err == nil {
			known = append(known, rel)
		}
	}
	resolver := NewResolver(known, opts.Aliases)

	var diags []report.Diagnostic
	modules := make(map[string]*Module, len(known))

	for i, rel := range files {
		if outcomes[i].err != nil {
			diags = append(diags, report.Diagnostic{
				Severity: report.SeverityWarn,
				RuleID:   RuleParseFailure,
				File:     rel,
				Message:  fmt.Sprintf("%s could not be parsed and was excluded from the graph: %v", rel, outcomes[i].err),
			})
			continue
		}

		m := &Module{
			Path:    rel,
			Layer:   ClassifyLayer(rel, opts.Layers),
			Imports: outcomes[i].imports,
		}

		for _, imp := range m.Imports {
			edge := Edge{
				From:      rel,
				Specifier: imp.Specifier,
				TypeOnly:  imp.TypeOnly,
				Dynamic:   imp.Dynamic,
				Line:      imp.Line,
			}
			if imp.Opaque {
				edge.Kind = TargetOpaque
				diags = append(diags, report.Diagnostic{
					Severity: report.SeverityWarn,
					RuleID:   RuleOpaqueDynamic,
					File:     rel,
					Message:  fmt.Sprintf("%s:%d dynamic import with a non-literal argument cannot be resolved statically", rel, imp.Line),
				})
			} else {
				edge.Target, edge.Kind = resolver.Resolve(rel, imp.Specifier)
				if edge.Kind == TargetInternal {
					edge.TargetLayer = ClassifyLayer(edge.Target, opts.Layers)
				}
				if edge.Kind == TargetUnresolved {
					diags = append(diags, report.Diagnostic{
						Severity: report.SeverityWarn,
						RuleID:   RuleUnresolved,
						File:     rel,
						Message:  fmt.Sprintf("%s:%d import %q does not resolve to any module", rel, imp.Line, imp.Specifier),
					})
				}
			}
			m.Edges = append(m.Edges, edge)
		}

		modules[rel] = m
	}

	ordered := make([]*Module, 0, len(modules))
	for _, m := range modules {
		ordered = append(ordered, m)
	}
	return NewModuleGraph(opts.Root, ordered), diags, nil
}
