//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/archgate/internal/analysis"
	"github.com/dusk-indust/archgate/internal/config"
	"github.com/dusk-indust/archgate/internal/export"
	"github.com/dusk-indust/archgate/internal/orchestrator"
)

func fixtureRoot() string {
	return filepath.Join("..", "..", "testdata", "fixtures", "ts_project")
}

// TestPipeline_E2E runs the whole engine over the fixture project and
// exercises every export surface on the resulting graph.
func TestPipeline_E2E(t *testing.T) {
	project, err := config.Load(fixtureRoot())
	require.NoError(t, err)

	rep, g, err := orchestrator.Run(context.Background(), orchestrator.Options{
		Root:    fixtureRoot(),
		Project: project,
	})
	require.NoError(t, err)

	require.Equal(t, 8, g.Len(), "every fixture source file becomes a module")
	assert.True(t, rep.HasBlockingFailure)
	assert.Equal(t, 1, orchestrator.ExitCode(rep))

	// JSON export decodes back into the export schema.
	var buf bytes.Buffer
	require.NoError(t, export.WriteJSON(&buf, export.BuildExport(g, rep)))
	var decoded export.GraphExport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 8, decoded.Stats.ModuleCount)
	require.NotNil(t, decoded.Report)
	assert.True(t, decoded.Report.HasBlockingFailure)

	// Mermaid export covers every module.
	grouper := analysis.GrouperFor(project.Grouping)
	diagram := export.GenerateMermaid(g, grouper)
	for _, p := range g.Paths() {
		assert.Contains(t, diagram, p)
	}

	// Mermaid written to disk round-trips unchanged.
	out := filepath.Join(t.TempDir(), "graph.mmd")
	require.NoError(t, os.WriteFile(out, []byte(diagram), 0o644))
	onDisk, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, diagram, string(onDisk))
}
