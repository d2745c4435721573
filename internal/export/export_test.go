package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/archgate/internal/analysis"
	"github.com/dusk-indust/archgate/internal/graph"
	"github.com/dusk-indust/archgate/internal/report"
)

func exportGraph() *graph.ModuleGraph {
	return graph.NewModuleGraph("/proj", []*graph.Module{
		{
			Path:  "features/cart.ts",
			Layer: "feature",
			Edges: []graph.Edge{
				{From: "features/cart.ts", Target: "shared/util.ts", Specifier: "../shared/util", Kind: graph.TargetInternal},
				{From: "features/cart.ts", Target: "shared/types.ts", Specifier: "../shared/types", Kind: graph.TargetInternal, TypeOnly: true},
				{From: "features/cart.ts", Target: "react", Specifier: "react", Kind: graph.TargetExternal},
			},
		},
		{Path: "shared/util.ts", Layer: "shared"},
		{Path: "shared/types.ts", Layer: "shared"},
	})
}

func TestWriteJSON_RoundTrip(t *testing.T) {
	rep := report.Aggregate([]report.Diagnostic{
		{Severity: report.SeverityFail, RuleID: "r", File: "features/cart.ts", Message: "m"},
	}, nil)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, BuildExport(exportGraph(), rep)))

	var decoded GraphExport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "/proj", decoded.Root)
	assert.Equal(t, 3, decoded.Stats.ModuleCount)
	assert.Equal(t, 3, decoded.Stats.EdgeCount)
	require.Len(t, decoded.Modules, 3)
	assert.Equal(t, "features/cart.ts", decoded.Modules[0].Path)
	require.NotNil(t, decoded.Report)
	assert.True(t, decoded.Report.HasBlockingFailure)
}

func TestGenerateMermaid(t *testing.T) {
	out := GenerateMermaid(exportGraph(), analysis.GroupByDir(1))

	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.Contains(t, out, `["features/cart.ts"]`)
	assert.Contains(t, out, `subgraph`)
	assert.Contains(t, out, "-->", "runtime edges are solid")
	assert.Contains(t, out, "-.->", "type-only edges are dashed")
	assert.NotContains(t, out, "react", "external packages stay out of the diagram")

	// Deterministic for a fixed graph.
	assert.Equal(t, out, GenerateMermaid(exportGraph(), analysis.GroupByDir(1)))
}
