package graph

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// defaultExcludePatterns are always excluded in addition to caller-supplied
// patterns: dependency trees, build output, tests, generated files, and
// scripts.
var defaultExcludePatterns = []string{
	".git/",
	"node_modules/",
	"dist/",
	"build/",
	"out/",
	"coverage/",
	".next/",
	"scripts/",
	"__tests__/",
	"__mocks__/",
	"*.test.ts",
	"*.test.tsx",
	"*.spec.ts",
	"*.spec.tsx",
	"*.stories.tsx",
	"*.d.ts",
	"*.gen.ts",
	"*.generated.ts",
}

// sourceExtensions are the file extensions the scanner considers.
var sourceExtensions = map[string]bool{
	".ts":  true,
	".tsx": true,
}

// Scan enumerates candidate source files under root. includes and excludes
// are gitignore-style patterns; excludes extend the defaults, and a
// non-empty includes list restricts the result to matching files. The
// returned paths are project-relative, slash-separated, and sorted
// lexicographically so that downstream diagnostics are reproducible across
// runs.
func Scan(root string, includes, excludes []string) ([]string, error) {
	excludeMatcher := buildMatcher(append(append([]string{}, defaultExcludePatterns...), excludes...))

	var includeMatcher gitignore.Matcher
	if len(includes) > 0 {
		includeMatcher = buildMatcher(includes)
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Inaccessible paths are skipped, not fatal: partial
			// results are always produced.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		parts := strings.Split(rel, "/")

		if d.IsDir() {
			if excludeMatcher.Match(parts, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if !sourceExtensions[filepath.Ext(rel)] {
			return nil
		}
		if excludeMatcher.Match(parts, false) {
			return nil
		}
		if includeMatcher != nil && !includeMatcher.Match(parts, false) {
			return nil
		}

		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// buildMatcher parses gitignore-style patterns into a matcher.
func buildMatcher(patterns []string) gitignore.Matcher {
	parsed := make([]gitignore.Pattern, 0, len(patterns))
	for _, p := range patterns {
		if p == "" {
			continue
		}
		parsed = append(parsed, gitignore.ParsePattern(p, nil))
	}
	return gitignore.NewMatcher(parsed)
}

// ReadSource reads a candidate file. Kept as a seam so the builder reports
// unreadable files as parse failures instead of aborting the walk.
func ReadSource(root, rel string) ([]byte, error) {
	return os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
}
