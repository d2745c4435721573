// Package orchestrator sequences one engine run: build the module graph,
// evaluate per-file rules and cross-file analyses, aggregate the report.
package orchestrator

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/dusk-indust/archgate/internal/analysis"
	"github.com/dusk-indust/archgate/internal/config"
	"github.com/dusk-indust/archgate/internal/graph"
	"github.com/dusk-indust/archgate/internal/report"
	"github.com/dusk-indust/archgate/internal/rules"
)

// Options configures one run.
type Options struct {
	Root    string
	Project *config.Project
	Rules   *rules.Set

	// Grouper overrides the grouping derived from the project config.
	// Mostly a testing seam.
	Grouper analysis.Grouper
}

// Run executes the full pipeline. The module graph is owned by this call
// for its duration and discarded on return; no state survives across
// invocations, so the verdict can never go stale relative to the working
// tree.
//
// Configuration problems are the only fatal errors. Everything else
// (unparseable files, unresolved imports, rule violations) degrades to
// diagnostics in the returned report. The context cancels the run between
// stages, never mid-algorithm, so partial results stay consistent.
//
// The built graph is returned alongside the report for export surfaces;
// callers that keep it keep it only for the remainder of the invocation.
func Run(ctx context.Context, opts Options) (*report.Report, *graph.ModuleGraph, error) {
	project := opts.Project
	if project == nil {
		project = &config.Project{}
	}
	if err := project.Validate(); err != nil {
		return nil, nil, err
	}

	ruleSet := opts.Rules
	if ruleSet == nil {
		ruleSet = rules.DefaultSet()
	}
	if err := ruleSet.Validate(); err != nil {
		return nil, nil, err
	}

	grouper := opts.Grouper
	if grouper == nil {
		grouper = analysis.GrouperFor(project.Grouping)
	}

	// Stage 1: build. Hard barrier: the cross-file analyses need the
	// complete graph.
	g, builderDiags, err := graph.Build(ctx, graph.BuildOptions{
		Root:     opts.Root,
		Includes: project.Includes,
		Excludes: project.Excludes,
		Aliases:  project.Aliases,
		Layers:   project.Layers,
	})
	if err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	// Stage 2: per-file rules and cross-file analyses. Per-file
	// evaluation is a pure function per module; the analyses are
	// read-only passes over the immutable graph. All of it runs on one
	// errgroup with no coordination beyond the final fan-in.
	modules := g.Modules()
	perFileResults := make([][]report.Diagnostic, len(modules))

	crossRules := ruleSet.CrossFile()
	crossResults := make([][]report.Diagnostic, len(crossRules))

	eg, _ := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))

	for i, m := range modules {
		eg.Go(func() error {
			perFileResults[i] = rules.Evaluate(m, ruleSet)
			return nil
		})
	}
	for i := range crossRules {
		eg.Go(func() error {
			crossResults[i] = analysis.Evaluate(g, &crossRules[i], grouper)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	// Stage 3: aggregate. Fan-in preserves module order before the
	// reporter's stable sort so output is reproducible.
	perFile := builderDiags
	for _, diags := range perFileResults {
		perFile = append(perFile, diags...)
	}
	var crossFile []report.Diagnostic
	for _, diags := range crossResults {
		crossFile = append(crossFile, diags...)
	}

	return report.Aggregate(perFile, crossFile), g, nil
}

// ExitCode maps a report to the process exit contract: 0 when no blocking
// diagnostic exists, 1 otherwise. Warnings never affect the exit status.
func ExitCode(r *report.Report) int {
	if r.HasBlockingFailure {
		return 1
	}
	return 0
}
