//go:build cgo

package export

import (
	"fmt"
	"os"
	"path/filepath"

	kuzu "github.com/kuzudb/go-kuzu"

	"github.com/dusk-indust/archgate/internal/graph"
)

// kuzuDDL defines the export schema. Node tables must precede relationship
// tables. External packages get their own node table so Cypher queries can
// distinguish project modules from third-party dependencies.
var kuzuDDL = []string{
	`CREATE NODE TABLE IF NOT EXISTS Module(
		path STRING,
		layer STRING,
		PRIMARY KEY(path)
	)`,
	`CREATE NODE TABLE IF NOT EXISTS Package(
		name STRING,
		PRIMARY KEY(name)
	)`,
	`CREATE REL TABLE IF NOT EXISTS IMPORTS(
		FROM Module TO Module,
		specifier STRING,
		type_only BOOLEAN,
		dynamic BOOLEAN,
		line INT64
	)`,
	`CREATE REL TABLE IF NOT EXISTS DEPENDS_ON(
		FROM Module TO Package,
		specifier STRING,
		type_only BOOLEAN,
		line INT64
	)`,
}

// ExportKuzu materializes the module graph into a KuzuDB database at dbPath
// for ad-hoc Cypher querying. The database is a throwaway query surface, not
// engine state: the engine itself never reads graph data back from disk.
func ExportKuzu(g *graph.ModuleGraph, dbPath string) error {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("kuzu: create parent directory: %w", err)
	}

	cfg := kuzu.DefaultSystemConfig()
	db, err := kuzu.OpenDatabase(dbPath, cfg)
	if err != nil {
		return fmt.Errorf("kuzu: open database: %w", err)
	}
	defer db.Close()

	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		return fmt.Errorf("kuzu: open connection: %w", err)
	}
	defer conn.Close()

	for _, stmt := range kuzuDDL {
		res, err := conn.Query(stmt)
		if err != nil {
			return fmt.Errorf("kuzu: init schema: %w", err)
		}
		res.Close()
	}

	exec := func(cypher string, params map[string]any) error {
		stmt, err := conn.Prepare(cypher)
		if err != nil {
			return fmt.Errorf("kuzu: prepare: %w", err)
		}
		defer stmt.Close()
		res, err := conn.Execute(stmt, params)
		if err != nil {
			return fmt.Errorf("kuzu: execute: %w", err)
		}
		res.Close()
		return nil
	}

	// Insert modules first, then packages, then edges.
	for _, m := range g.Modules() {
		err := exec("CREATE (m:Module {path: $path, layer: $layer})", map[string]any{
			"path":  m.Path,
			"layer": m.Layer,
		})
		if err != nil {
			return err
		}
	}

	packages := make(map[string]bool)
	for _, m := range g.Modules() {
		for _, e := range m.Edges {
			if e.Kind != graph.TargetExternal || packages[e.Target] {
				continue
			}
			packages[e.Target] = true
			if err := exec("CREATE (p:Package {name: $name})", map[string]any{"name": e.Target}); err != nil {
				return err
			}
		}
	}

	for _, m := range g.Modules() {
		for _, e := range m.Edges {
			switch e.Kind {
			case graph.TargetInternal:
				err := exec(
					`MATCH (a:Module {path: $src}), (b:Module {path: $dst})
					 CREATE (a)-[:IMPORTS {specifier: $spec, type_only: $to, dynamic: $dyn, line: $line}]->(b)`,
					map[string]any{
						"src":  e.From,
						"dst":  e.Target,
						"spec": e.Specifier,
						"to":   e.TypeOnly,
						"dyn":  e.Dynamic,
						"line": int64(e.Line),
					},
				)
				if err != nil {
					return err
				}
			case graph.TargetExternal:
				err := exec(
					`MATCH (a:Module {path: $src}), (b:Package {name: $dst})
					 CREATE (a)-[:DEPENDS_ON {specifier: $spec, type_only: $to, line: $line}]->(b)`,
					map[string]any{
						"src":  e.From,
						"dst":  e.Target,
						"spec": e.Specifier,
						"to":   e.TypeOnly,
						"line": int64(e.Line),
					},
				)
				if err != nil {
					return err
				}
			}
		}
	}

	return nil
}
