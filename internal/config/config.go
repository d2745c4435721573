package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Error is a configuration error. It is the only error category that is
// fatal to a run: the engine aborts before graph construction and names the
// offending field.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// LayerRule maps a path prefix to a logical layer tag. Rules are evaluated
// in order; the first matching prefix wins.
type LayerRule struct {
	Prefix string `yaml:"prefix"`
	Tag    string `yaml:"tag"`
}

// Grouping controls how modules are grouped for cross-file analyses.
type Grouping struct {
	// Mode is "dir" (group by leading path segments) or "layer" (group by
	// the module's classified layer tag). Defaults to "dir".
	Mode string `yaml:"mode,omitempty"`

	// Depth is the number of leading path segments used in "dir" mode.
	// Defaults to 1.
	Depth int `yaml:"depth,omitempty"`
}

// Project holds project-level settings loaded from archgate.yml.
type Project struct {
	Includes  []string          `yaml:"includes,omitempty"`
	Excludes  []string          `yaml:"excludes,omitempty"`
	Aliases   map[string]string `yaml:"aliases,omitempty"`
	Layers    []LayerRule       `yaml:"layers,omitempty"`
	Grouping  Grouping          `yaml:"grouping,omitempty"`
	RulesFile string            `yaml:"rulesFile,omitempty"`
}

// Load attempts to read archgate.yml or archgate.yaml from the given
// directory. Returns a zero-value config (not an error) if no config file
// exists.
func Load(dir string) (*Project, error) {
	for _, name := range []string{"archgate.yml", "archgate.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg Project
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, &Error{Field: name, Reason: err.Error()}
		}
		return &cfg, nil
	}
	return &Project{}, nil
}

// Validate checks the project config for mistakes that would make the graph
// or verdict meaningless.
func (p *Project) Validate() error {
	switch p.Grouping.Mode {
	case "", "dir", "layer":
	default:
		return &Error{Field: "grouping.mode", Reason: fmt.Sprintf("unknown mode %q (want dir or layer)", p.Grouping.Mode)}
	}
	if p.Grouping.Depth < 0 {
		return &Error{Field: "grouping.depth", Reason: "must be >= 0"}
	}
	for prefix, target := range p.Aliases {
		if prefix == "" {
			return &Error{Field: "aliases", Reason: "empty alias prefix"}
		}
		if target == "" {
			return &Error{Field: "aliases." + prefix, Reason: "empty alias target"}
		}
	}
	for i, lr := range p.Layers {
		if lr.Tag == "" {
			return &Error{Field: fmt.Sprintf("layers[%d].tag", i), Reason: "empty layer tag"}
		}
	}
	return nil
}
