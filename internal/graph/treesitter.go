package graph

import (
	"context"
	"fmt"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// ImportParser extracts import occurrences from TypeScript source files.
// A new tree-sitter parser is created per Parse call, so this type is safe
// for sequential use but individual Parse calls are not thread-safe with a
// shared receiver; the builder creates one parser per worker.
type ImportParser struct {
	tsLang  *tree_sitter.Language
	tsxLang *tree_sitter.Language
}

// NewImportParser creates an ImportParser with the TypeScript and TSX
// grammars registered.
func NewImportParser() *ImportParser {
	return &ImportParser{
		tsLang:  tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
		tsxLang: tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTSX()),
	}
}

// ParseImports extracts every static import/export-from statement and every
// dynamic import(...) call from the given source. Dynamic imports with a
// non-literal argument are recorded as opaque, never silently dropped.
// The grammar is chosen by the file's extension (.tsx uses the TSX dialect).
func (p *ImportParser) ParseImports(_ context.Context, path string, source []byte) ([]RawImport, error) {
	lang := p.tsLang
	if strings.HasSuffix(path, ".tsx") {
		lang = p.tsxLang
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("set language for %s: %w", path, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("tree-sitter returned nil tree for %s", path)
	}
	defer tree.Close()

	var imports []RawImport
	cursor := tree.RootNode().Walk()
	defer cursor.Close()

	walkImports(cursor, source, &imports)
	return imports, nil
}

func walkImports(cursor *tree_sitter.TreeCursor, source []byte, imports *[]RawImport) {
	node := cursor.Node()

	switch node.Kind() {
	case "import_statement":
		if imp := extractStatic(node, source); imp != nil {
			*imports = append(*imports, *imp)
		}

	case "export_statement":
		// Only `export ... from "x"` forms create edges; plain exports
		// have no source field.
		if node.ChildByFieldName("source") != nil {
			if imp := extractStatic(node, source); imp != nil {
				*imports = append(*imports, *imp)
			}
		}

	case "call_expression":
		if imp := extractDynamic(node, source); imp != nil {
			*imports = append(*imports, *imp)
		}
	}

	if cursor.GotoFirstChild() {
		walkImports(cursor, source, imports)
		for cursor.GotoNextSibling() {
			walkImports(cursor, source, imports)
		}
		cursor.GotoParent()
	}
}

// extractStatic handles `import ... from "x"`, bare `import "x"`, and
// `export ... from "x"` statements.
func extractStatic(node *tree_sitter.Node, source []byte) *RawImport {
	sourceNode := node.ChildByFieldName("source")
	if sourceNode == nil {
		// Bare side-effect import: `import "./polyfill"`.
		for i := uint(0); i < node.ChildCount(); i++ {
			child := node.Child(i)
			if child != nil && child.Kind() == "string" {
				sourceNode = child
				break
			}
		}
	}
	if sourceNode == nil {
		return nil
	}

	specifier := trimQuotes(sourceNode.Utf8Text(source))
	if specifier == "" {
		return nil
	}

	return &RawImport{
		Specifier: specifier,
		TypeOnly:  isTypeOnly(node, source),
		Line:      int(node.StartPosition().Row) + 1,
	}
}

// extractDynamic handles `import(...)` call expressions. A string-literal
// argument yields a dynamic import; anything else is opaque.
func extractDynamic(node *tree_sitter.Node, source []byte) *RawImport {
	fnNode := node.ChildByFieldName("function")
	if fnNode == nil || fnNode.Kind() != "import" {
		return nil
	}

	line := int(node.StartPosition().Row) + 1

	args := node.ChildByFieldName("arguments")
	if args != nil {
		for i := uint(0); i < args.NamedChildCount(); i++ {
			arg := args.NamedChild(i)
			if arg == nil {
				continue
			}
			if arg.Kind() == "string" {
				specifier := trimQuotes(arg.Utf8Text(source))
				if specifier != "" {
					return &RawImport{
						Specifier: specifier,
						Dynamic:   true,
						Line:      line,
					}
				}
			}
			break
		}
	}

	// Computed or non-literal argument: cannot be resolved statically.
	return &RawImport{
		Dynamic: true,
		Opaque:  true,
		Line:    line,
	}
}

// isTypeOnly checks for the statement-level `type` keyword in
// `import type { T } from "x"` and `export type { T } from "x"`. Such edges
// are erased at compile time.
func isTypeOnly(node *tree_sitter.Node, source []byte) bool {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		kind := child.Kind()
		if kind == "import_clause" || kind == "export_clause" || kind == "string" {
			break
		}
		if kind == "type" || child.Utf8Text(source) == "type" {
			return true
		}
	}
	return false
}

func trimQuotes(s string) string {
	return strings.Trim(s, "\"'`")
}
