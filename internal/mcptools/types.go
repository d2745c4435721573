package mcptools

import (
	"github.com/dusk-indust/archgate/internal/graph"
	"github.com/dusk-indust/archgate/internal/report"
)

// --- MCP Tool Input Types ---
// These structs define the JSON schema for each MCP tool's input.
// The MCP Go SDK auto-generates JSON schemas from struct tags.

// CheckBoundariesInput is the input for the check_boundaries MCP tool.
type CheckBoundariesInput struct {
	ProjectRoot string `json:"projectRoot" jsonschema:"absolute path to the project to check"`
	RulesFile   string `json:"rulesFile,omitempty" jsonschema:"path to a rule-set YAML file (default: rulesFile from archgate.yml, else the built-in catalog)"`
}

// CheckBoundariesOutput is the result of the check_boundaries MCP tool.
type CheckBoundariesOutput struct {
	Report *report.Report `json:"report"`
	Passed bool           `json:"passed"`
}

// GraphStatsInput is the input for the graph_stats MCP tool.
type GraphStatsInput struct {
	ProjectRoot string `json:"projectRoot" jsonschema:"absolute path to the project to index"`
}

// GraphStatsOutput is the result of the graph_stats MCP tool.
type GraphStatsOutput struct {
	Stats graph.GraphStats `json:"stats"`
}

// DetectCyclesInput is the input for the detect_cycles MCP tool.
type DetectCyclesInput struct {
	ProjectRoot string `json:"projectRoot" jsonschema:"absolute path to the project to check"`
}

// DetectCyclesOutput is the result of the detect_cycles MCP tool.
type DetectCyclesOutput struct {
	Cycles []report.Diagnostic `json:"cycles"`
}

// TraceReachabilityInput is the input for the trace_reachability MCP tool.
type TraceReachabilityInput struct {
	ProjectRoot       string   `json:"projectRoot" jsonschema:"absolute path to the project to check"`
	Entries           []string `json:"entries" jsonschema:"path patterns selecting the public entry modules"`
	ForbiddenPackages []string `json:"forbiddenPackages,omitempty" jsonschema:"package-name patterns the entries must not reach"`
	ForbiddenLayers   []string `json:"forbiddenLayers,omitempty" jsonschema:"layer tags the entries must not reach"`
	Boundaries        []string `json:"boundaries,omitempty" jsonschema:"path patterns marking modules that truncate a trace"`
	MaxDepth          int      `json:"maxDepth,omitempty" jsonschema:"maximum trace depth (default: 6)"`
}

// TraceReachabilityOutput is the result of the trace_reachability MCP tool.
type TraceReachabilityOutput struct {
	Violations []report.Diagnostic `json:"violations"`
}
