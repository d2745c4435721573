package rules

import "github.com/dusk-indust/archgate/internal/ruledata"

// DefaultSet returns the built-in rule catalog used when no rule file is
// configured. The catalog ships embedded in the binary as ordinary rule-set
// YAML, so it exercises exactly the same loading path as user rules.
func DefaultSet() *Set {
	set, err := ParseSet(ruledata.Defaults, "builtin catalog")
	if err != nil {
		// The embedded catalog is part of the build; failing to parse it
		// is a programming error, not a user error.
		panic(err)
	}
	return set
}
