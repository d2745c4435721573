package rules

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/dusk-indust/archgate/internal/config"
)

// analysisKinds are the valid cross-file analysis kinds.
var analysisKinds = map[string]bool{
	"cycles":       true,
	"reachability": true,
	"coupling":     true,
}

// LoadSet reads a rule-set YAML file, validates it, and compiles every
// specifier regex. A malformed rule set is a configuration error: fatal to
// the run, reported before graph construction.
func LoadSet(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &config.Error{Field: path, Reason: err.Error()}
	}
	return ParseSet(data, path)
}

// ParseSet parses and validates rule-set YAML. source names the origin for
// error messages.
func ParseSet(data []byte, source string) (*Set, error) {
	var set Set
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, &config.Error{Field: source, Reason: err.Error()}
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return &set, nil
}

// Validate checks the whole set and compiles matcher regexes in place.
func (s *Set) Validate() error {
	seen := make(map[string]bool, len(s.Rules))

	for i := range s.Rules {
		r := &s.Rules[i]
		field := fmt.Sprintf("rules[%d]", i)

		if r.ID == "" {
			return &config.Error{Field: field + ".id", Reason: "rule id is required"}
		}
		if seen[r.ID] {
			return &config.Error{Field: field + ".id", Reason: fmt.Sprintf("duplicate rule id %q", r.ID)}
		}
		seen[r.ID] = true

		if r.Message == "" {
			return &config.Error{Field: field + ".message", Reason: "message template is required"}
		}

		switch r.Category {
		case "", CategoryStructural, CategoryHeuristic:
		default:
			return &config.Error{Field: field + ".category", Reason: fmt.Sprintf("unknown category %q", r.Category)}
		}
		if r.Category == "" {
			r.Category = CategoryStructural
		}

		switch r.Mechanism {
		case MechanismPerFile:
			if r.Match == nil {
				return &config.Error{Field: field + ".match", Reason: "per-file rule needs a matcher"}
			}
			if r.Analysis != nil {
				return &config.Error{Field: field + ".analysis", Reason: "per-file rule cannot carry an analysis"}
			}
			if err := r.Match.compile(field + ".match"); err != nil {
				return err
			}
		case MechanismCrossFile:
			if r.Analysis == nil {
				return &config.Error{Field: field + ".analysis", Reason: "cross-file rule needs an analysis"}
			}
			if r.Match != nil {
				return &config.Error{Field: field + ".match", Reason: "cross-file rule cannot carry a matcher"}
			}
			if err := r.Analysis.validate(field + ".analysis"); err != nil {
				return err
			}
		default:
			return &config.Error{Field: field + ".mechanism", Reason: fmt.Sprintf("unknown mechanism %q (want per-file or cross-file)", r.Mechanism)}
		}
	}

	return nil
}

// compile validates the matcher tree shape (exactly one field per node) and
// compiles specifier regexes.
func (m *Matcher) compile(field string) error {
	set := 0
	if len(m.All) > 0 {
		set++
	}
	if len(m.Any) > 0 {
		set++
	}
	if m.Not != nil {
		set++
	}
	if len(m.TargetLayerIn) > 0 {
		set++
	}
	if len(m.SourceLayerIn) > 0 {
		set++
	}
	if m.TargetPrefix != "" {
		set++
	}
	if m.SpecifierIs != "" {
		set++
	}
	if m.SpecifierMatches != "" {
		set++
	}
	if m.TypeOnly != nil {
		set++
	}
	if m.Dynamic != nil {
		set++
	}
	if m.ExternalPackage != "" {
		set++
	}

	if set == 0 {
		return &config.Error{Field: field, Reason: "empty matcher node"}
	}
	if set > 1 {
		return &config.Error{Field: field, Reason: "matcher node must set exactly one predicate (use all/any/not to combine)"}
	}

	if m.SpecifierMatches != "" {
		re, err := regexp.Compile(m.SpecifierMatches)
		if err != nil {
			return &config.Error{Field: field + ".specifierMatches", Reason: err.Error()}
		}
		m.specifierRe = re
	}

	for i, sub := range m.All {
		if err := sub.compile(fmt.Sprintf("%s.all[%d]", field, i)); err != nil {
			return err
		}
	}
	for i, sub := range m.Any {
		if err := sub.compile(fmt.Sprintf("%s.any[%d]", field, i)); err != nil {
			return err
		}
	}
	if m.Not != nil {
		if err := m.Not.compile(field + ".not"); err != nil {
			return err
		}
	}

	return nil
}

func (a *Analysis) validate(field string) error {
	if !analysisKinds[a.Kind] {
		return &config.Error{Field: field + ".kind", Reason: fmt.Sprintf("unknown analysis kind %q", a.Kind)}
	}
	if a.MaxDepth < 0 {
		return &config.Error{Field: field + ".maxDepth", Reason: "must be >= 0"}
	}
	if a.MaxGroupPairs < 0 || a.MaxSaturation < 0 || a.MaxFanOut < 0 {
		return &config.Error{Field: field, Reason: "coupling thresholds must be >= 0"}
	}
	if a.Kind == "reachability" {
		if len(a.Entries) == 0 {
			return &config.Error{Field: field + ".entries", Reason: "reachability needs at least one entry pattern"}
		}
		if len(a.ForbiddenPackages) == 0 && len(a.ForbiddenLayers) == 0 {
			return &config.Error{Field: field, Reason: "reachability needs forbiddenPackages or forbiddenLayers"}
		}
	}
	return nil
}
