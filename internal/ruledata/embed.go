// Package ruledata embeds the built-in rule catalog for distribution inside
// the archgate binary. The catalog is plain rule-set YAML, identical in
// format to a user-supplied rules file.
package ruledata

import _ "embed"

// Defaults contains the built-in layered-architecture rule catalog.
//
//go:embed defaults.yml
var Defaults []byte
