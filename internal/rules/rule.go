// Package rules implements the declarative boundary-rule engine. Rules are
// data, not code: a closed predicate algebra over a module's static facts,
// loaded from configuration and interpreted generically.
package rules

import (
	"path"
	"regexp"
	"strings"

	"github.com/dusk-indust/archgate/internal/report"
)

// Mechanism distinguishes rules evaluated per module from rules evaluated
// over the whole graph.
type Mechanism string

const (
	MechanismPerFile   Mechanism = "per-file"
	MechanismCrossFile Mechanism = "cross-file"
)

// Category separates hard structural invariants from shallow syntactic
// heuristics. Heuristic diagnostics default to non-blocking; confidence
// levels are never conflated.
type Category string

const (
	CategoryStructural Category = "structural"
	CategoryHeuristic  Category = "heuristic"
)

// AllowPair exempts a specific (source-pattern, target-pattern) combination
// from a rule. Carve-outs are expressed here, not by special-casing the
// engine.
type AllowPair struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

// Matcher is one node of the predicate algebra. Exactly one field may be
// set per node; conjunction, disjunction, and negation are expressed with
// All, Any, and Not.
type Matcher struct {
	All []*Matcher `yaml:"all,omitempty"`
	Any []*Matcher `yaml:"any,omitempty"`
	Not *Matcher   `yaml:"not,omitempty"`

	// TargetLayerIn matches edges whose resolved target module belongs to
	// one of the named layers.
	TargetLayerIn []string `yaml:"targetLayerIn,omitempty"`

	// SourceLayerIn matches modules whose own layer is in the set.
	SourceLayerIn []string `yaml:"sourceLayerIn,omitempty"`

	// TargetPrefix matches edges whose resolved target path starts with
	// the given prefix.
	TargetPrefix string `yaml:"targetPrefix,omitempty"`

	// SpecifierIs matches the literal specifier text exactly.
	SpecifierIs string `yaml:"specifierIs,omitempty"`

	// SpecifierMatches matches the specifier against a regular expression.
	SpecifierMatches string `yaml:"specifierMatches,omitempty"`

	// TypeOnly matches edges by whether they are type-only (erased at
	// compile time).
	TypeOnly *bool `yaml:"typeOnly,omitempty"`

	// Dynamic matches edges by whether they come from an import(...)
	// call expression.
	Dynamic *bool `yaml:"dynamic,omitempty"`

	// ExternalPackage matches external-package edges whose package name
	// matches the given pattern. This is the only leaf that makes a rule
	// apply to external edges at all.
	ExternalPackage string `yaml:"externalPackage,omitempty"`

	specifierRe *regexp.Regexp `yaml:"-"`
}

// Analysis configures a cross-file rule. Kind selects the algorithm; the
// remaining fields parameterize it.
type Analysis struct {
	// Kind is "cycles", "reachability", or "coupling".
	Kind string `yaml:"kind"`

	// ExcludeTypeOnly drops type-only edges before cycle detection.
	ExcludeTypeOnly bool `yaml:"excludeTypeOnly,omitempty"`

	// Entries are path patterns selecting the public entry modules for
	// reachability tracing.
	Entries []string `yaml:"entries,omitempty"`

	// ForbiddenPackages are package-name patterns that entries must not
	// reach through runtime edges.
	ForbiddenPackages []string `yaml:"forbiddenPackages,omitempty"`

	// ForbiddenLayers are layer tags that entries must not reach.
	ForbiddenLayers []string `yaml:"forbiddenLayers,omitempty"`

	// Boundaries are path patterns marking modules that truncate a trace
	// (an RPC or serialization boundary).
	Boundaries []string `yaml:"boundaries,omitempty"`

	// MaxDepth bounds the reachability DFS. Defaults to 6.
	MaxDepth int `yaml:"maxDepth,omitempty"`

	// Coupling thresholds; zero disables the corresponding metric.
	MaxGroupPairs int `yaml:"maxGroupPairs,omitempty"`
	MaxSaturation int `yaml:"maxSaturation,omitempty"`
	MaxFanOut     int `yaml:"maxFanOut,omitempty"`
}

// Rule is one declarative boundary check. Loaded once per run, immutable
// afterwards.
type Rule struct {
	ID        string      `yaml:"id"`
	Mechanism Mechanism   `yaml:"mechanism"`
	Category  Category    `yaml:"category,omitempty"`
	Blocking  bool        `yaml:"blocking,omitempty"`
	Scope     []string    `yaml:"scope,omitempty"`
	Match     *Matcher    `yaml:"match,omitempty"`
	Analysis  *Analysis   `yaml:"analysis,omitempty"`
	Allow     []AllowPair `yaml:"allow,omitempty"`
	Message   string      `yaml:"message"`
}

// Severity maps the blocking flag to a diagnostic severity.
func (r *Rule) Severity() report.Severity {
	if r.Blocking {
		return report.SeverityFail
	}
	return report.SeverityWarn
}

// InScope reports whether a module path falls under the rule's file-pattern
// scope. An empty scope means every module.
func (r *Rule) InScope(modulePath string) bool {
	if len(r.Scope) == 0 {
		return true
	}
	for _, pattern := range r.Scope {
		if MatchPath(pattern, modulePath) {
			return true
		}
	}
	return false
}

// Allowed reports whether a (source, target) pair is exempted by the rule's
// allowlist.
func (r *Rule) Allowed(source, target string) bool {
	for _, pair := range r.Allow {
		if MatchPath(pair.Source, source) && MatchPath(pair.Target, target) {
			return true
		}
	}
	return false
}

// Set is an immutable rule catalog for one run.
type Set struct {
	Rules []Rule `yaml:"rules"`
}

// PerFile returns the per-file rules of the set.
func (s *Set) PerFile() []Rule {
	var out []Rule
	for _, r := range s.Rules {
		if r.Mechanism == MechanismPerFile {
			out = append(out, r)
		}
	}
	return out
}

// CrossFile returns the cross-file rules of the set.
func (s *Set) CrossFile() []Rule {
	var out []Rule
	for _, r := range s.Rules {
		if r.Mechanism == MechanismCrossFile {
			out = append(out, r)
		}
	}
	return out
}

// MatchPath matches a project-relative path against a pattern. Patterns
// containing glob metacharacters use path.Match semantics; everything else
// is an exact match or a path-prefix match.
func MatchPath(pattern, p string) bool {
	if pattern == "" {
		return false
	}
	if strings.ContainsAny(pattern, "*?[") {
		ok, err := path.Match(pattern, p)
		return err == nil && ok
	}
	if p == pattern {
		return true
	}
	return strings.HasPrefix(p, strings.TrimSuffix(pattern, "/")+"/")
}
