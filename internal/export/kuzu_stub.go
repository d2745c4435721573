//go:build !cgo

package export

import (
	"fmt"

	"github.com/dusk-indust/archgate/internal/graph"
)

// ExportKuzu requires CGO because the go-kuzu driver wraps KuzuDB's C
// library.
func ExportKuzu(_ *graph.ModuleGraph, _ string) error {
	return fmt.Errorf("kuzu export requires a build with CGO enabled")
}
