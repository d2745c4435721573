package graph

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree materializes a set of files (with trivial content) under a
// temp directory and returns its path.
func writeTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		full := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("export {};\n"), 0o644))
	}
	return root
}

func TestScan_DefaultExcludes(t *testing.T) {
	root := writeTree(t,
		"src/app.ts",
		"src/panel.tsx",
		"src/app.test.ts",
		"src/panel.spec.tsx",
		"src/types.d.ts",
		"src/api.gen.ts",
		"src/__tests__/helper.ts",
		"node_modules/react/index.ts",
		"dist/app.ts",
		"scripts/migrate.ts",
		"README.md",
	)

	files, err := Scan(root, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/app.ts", "src/panel.tsx"}, files)
}

func TestScan_IncludesRestrict(t *testing.T) {
	root := writeTree(t,
		"src/app.ts",
		"src/lib/util.ts",
		"tools/gen.ts",
	)

	files, err := Scan(root, []string{"src/"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/app.ts", "src/lib/util.ts"}, files)
}

func TestScan_ExtraExcludes(t *testing.T) {
	root := writeTree(t,
		"src/app.ts",
		"src/legacy/old.ts",
	)

	files, err := Scan(root, nil, []string{"src/legacy/"})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/app.ts"}, files)
}

func TestScan_SortedOutput(t *testing.T) {
	root := writeTree(t,
		"zebra/z.ts",
		"alpha/a.ts",
		"mid/m.ts",
	)

	files, err := Scan(root, nil, nil)
	require.NoError(t, err)
	assert.True(t, sort.StringsAreSorted(files), "scan output must be lexicographically sorted")
	assert.Len(t, files, 3)
}
