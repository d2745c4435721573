package graph

import (
	"path"
	"sort"
	"strings"
)

// Resolver rewrites raw import specifiers into project-relative module paths
// that match Module.Path values. It is built once per run from the scanned
// file set and the configured alias map; no filesystem I/O happens during
// resolution.
type Resolver struct {
	fileSet map[string]bool
	aliases []alias // sorted by prefix length, longest first
}

type alias struct {
	prefix string
	target string
}

// tsProbeExtensions is the resolution order after an exact-path miss:
// extension probing, then directory-index probing.
var tsProbeExtensions = []string{".ts", ".tsx", "/index.ts", "/index.tsx"}

// NewResolver builds a Resolver from the set of known project-relative file
// paths and a configured alias map (prefix -> project-relative target, e.g.
// "@/" -> "src/").
func NewResolver(knownFiles []string, aliasMap map[string]string) *Resolver {
	r := &Resolver{
		fileSet: make(map[string]bool, len(knownFiles)),
	}
	for _, f := range knownFiles {
		r.fileSet[f] = true
	}

	for prefix, target := range aliasMap {
		r.aliases = append(r.aliases, alias{prefix: prefix, target: target})
	}
	// Longest prefix wins; ties broken lexicographically for determinism.
	sort.Slice(r.aliases, func(i, j int) bool {
		a, b := r.aliases[i], r.aliases[j]
		if len(a.prefix) != len(b.prefix) {
			return len(a.prefix) > len(b.prefix)
		}
		return a.prefix < b.prefix
	})

	return r
}

// Resolve maps one raw specifier from the given source file to a target and
// kind. Relative specifiers resolve against the source file's directory;
// alias specifiers are rewritten to a project path before the same probing.
// Specifiers that escape the project root or name a bare package are tagged
// external; specifiers that fail every probe are tagged unresolved.
func (r *Resolver) Resolve(fromFile, specifier string) (string, TargetKind) {
	if specifier == "" {
		return "", TargetOpaque
	}

	// Relative imports.
	if strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../") {
		joined := path.Join(path.Dir(fromFile), specifier)
		if strings.HasPrefix(joined, "../") {
			// Escapes the project root.
			return specifier, TargetExternal
		}
		if resolved, ok := r.probe(joined); ok {
			return resolved, TargetInternal
		}
		return specifier, TargetUnresolved
	}

	// Alias imports.
	for _, a := range r.aliases {
		if !strings.HasPrefix(specifier, a.prefix) {
			continue
		}
		rewritten := path.Join(a.target, strings.TrimPrefix(specifier, a.prefix))
		if resolved, ok := r.probe(rewritten); ok {
			return resolved, TargetInternal
		}
		return specifier, TargetUnresolved
	}

	// Alias-form specifiers ("@/..." or "~/...") with no configured alias
	// cannot be package imports; without the alias map they fail
	// gracefully instead of masquerading as external packages.
	if strings.HasPrefix(specifier, "@/") || strings.HasPrefix(specifier, "~/") {
		return specifier, TargetUnresolved
	}

	// Bare specifier: a third-party or builtin package.
	return packageName(specifier), TargetExternal
}

// probe checks the exact path first, then the extension and index probes.
func (r *Resolver) probe(base string) (string, bool) {
	if r.fileSet[base] {
		return base, true
	}
	for _, ext := range tsProbeExtensions {
		candidate := base + ext
		if r.fileSet[candidate] {
			return candidate, true
		}
	}
	return "", false
}

// packageName trims a bare specifier down to its package name:
// "react-dom/client" -> "react-dom", "@scope/pkg/sub" -> "@scope/pkg",
// "node:crypto" -> "node:crypto".
func packageName(specifier string) string {
	if strings.HasPrefix(specifier, "node:") {
		return specifier
	}
	parts := strings.Split(specifier, "/")
	if strings.HasPrefix(specifier, "@") && len(parts) >= 2 {
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}
