package mcptools

import (
	"context"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dusk-indust/archgate/internal/analysis"
	"github.com/dusk-indust/archgate/internal/config"
	"github.com/dusk-indust/archgate/internal/graph"
	"github.com/dusk-indust/archgate/internal/orchestrator"
	"github.com/dusk-indust/archgate/internal/rules"
)

// BoundaryService backs the MCP tool handlers. It holds no graph state:
// every call re-scans the tree, so a verdict can never go stale relative to
// the working copy.
type BoundaryService struct{}

// NewBoundaryService creates a BoundaryService.
func NewBoundaryService() *BoundaryService {
	return &BoundaryService{}
}

// checkRoot validates that a tool input names an existing directory.
func checkRoot(root string) error {
	if root == "" {
		return fmt.Errorf("projectRoot is required")
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("cannot access projectRoot: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("projectRoot is not a directory: %s", root)
	}
	return nil
}

// loadProject reads archgate.yml from the root and the effective rule set.
func loadProject(root, rulesFile string) (*config.Project, *rules.Set, error) {
	project, err := config.Load(root)
	if err != nil {
		return nil, nil, err
	}
	if rulesFile == "" {
		rulesFile = project.RulesFile
	}
	if rulesFile == "" {
		return project, rules.DefaultSet(), nil
	}
	set, err := rules.LoadSet(rulesFile)
	if err != nil {
		return nil, nil, err
	}
	return project, set, nil
}

// CheckBoundaries runs the full pipeline and returns the report plus the
// pass/fail verdict.
func (s *BoundaryService) CheckBoundaries(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CheckBoundariesInput,
) (*mcp.CallToolResult, CheckBoundariesOutput, error) {
	if err := checkRoot(input.ProjectRoot); err != nil {
		return nil, CheckBoundariesOutput{}, err
	}
	project, set, err := loadProject(input.ProjectRoot, input.RulesFile)
	if err != nil {
		return nil, CheckBoundariesOutput{}, err
	}

	rep, _, err := orchestrator.Run(ctx, orchestrator.Options{
		Root:    input.ProjectRoot,
		Project: project,
		Rules:   set,
	})
	if err != nil {
		return nil, CheckBoundariesOutput{}, err
	}

	return nil, CheckBoundariesOutput{
		Report: rep,
		Passed: !rep.HasBlockingFailure,
	}, nil
}

// GraphStats builds the module graph and returns its summary.
func (s *BoundaryService) GraphStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GraphStatsInput,
) (*mcp.CallToolResult, GraphStatsOutput, error) {
	if err := checkRoot(input.ProjectRoot); err != nil {
		return nil, GraphStatsOutput{}, err
	}
	project, _, err := loadProject(input.ProjectRoot, "")
	if err != nil {
		return nil, GraphStatsOutput{}, err
	}

	g, _, err := graph.Build(ctx, graph.BuildOptions{
		Root:     input.ProjectRoot,
		Includes: project.Includes,
		Excludes: project.Excludes,
		Aliases:  project.Aliases,
		Layers:   project.Layers,
	})
	if err != nil {
		return nil, GraphStatsOutput{}, err
	}

	return nil, GraphStatsOutput{Stats: g.Stats()}, nil
}

// DetectCycles builds the graph and runs cycle detection with the project's
// grouping.
func (s *BoundaryService) DetectCycles(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DetectCyclesInput,
) (*mcp.CallToolResult, DetectCyclesOutput, error) {
	if err := checkRoot(input.ProjectRoot); err != nil {
		return nil, DetectCyclesOutput{}, err
	}
	project, _, err := loadProject(input.ProjectRoot, "")
	if err != nil {
		return nil, DetectCyclesOutput{}, err
	}

	g, _, err := graph.Build(ctx, graph.BuildOptions{
		Root:     input.ProjectRoot,
		Includes: project.Includes,
		Excludes: project.Excludes,
		Aliases:  project.Aliases,
		Layers:   project.Layers,
	})
	if err != nil {
		return nil, DetectCyclesOutput{}, err
	}

	rule := &rules.Rule{
		ID:        "cycles",
		Mechanism: rules.MechanismCrossFile,
		Blocking:  true,
		Analysis:  &rules.Analysis{Kind: "cycles", ExcludeTypeOnly: true},
		Message:   "import cycle between {{groups}}",
	}
	diags := analysis.DetectCycles(g, rule, analysis.GrouperFor(project.Grouping))

	return nil, DetectCyclesOutput{Cycles: diags}, nil
}

// TraceReachability builds the graph and runs a reachability trace with the
// given parameters.
func (s *BoundaryService) TraceReachability(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TraceReachabilityInput,
) (*mcp.CallToolResult, TraceReachabilityOutput, error) {
	if err := checkRoot(input.ProjectRoot); err != nil {
		return nil, TraceReachabilityOutput{}, err
	}
	if len(input.Entries) == 0 {
		return nil, TraceReachabilityOutput{}, fmt.Errorf("entries is required")
	}
	if len(input.ForbiddenPackages) == 0 && len(input.ForbiddenLayers) == 0 {
		return nil, TraceReachabilityOutput{}, fmt.Errorf("forbiddenPackages or forbiddenLayers is required")
	}
	project, _, err := loadProject(input.ProjectRoot, "")
	if err != nil {
		return nil, TraceReachabilityOutput{}, err
	}

	g, _, err := graph.Build(ctx, graph.BuildOptions{
		Root:     input.ProjectRoot,
		Includes: project.Includes,
		Excludes: project.Excludes,
		Aliases:  project.Aliases,
		Layers:   project.Layers,
	})
	if err != nil {
		return nil, TraceReachabilityOutput{}, err
	}

	rule := &rules.Rule{
		ID:        "reachability",
		Mechanism: rules.MechanismCrossFile,
		Blocking:  true,
		Analysis: &rules.Analysis{
			Kind:              "reachability",
			Entries:           input.Entries,
			ForbiddenPackages: input.ForbiddenPackages,
			ForbiddenLayers:   input.ForbiddenLayers,
			Boundaries:        input.Boundaries,
			MaxDepth:          input.MaxDepth,
		},
		Message: "{{entry}} reaches {{target}} via {{chain}}",
	}
	diags := analysis.TraceReachability(g, rule)

	return nil, TraceReachabilityOutput{Violations: diags}, nil
}
