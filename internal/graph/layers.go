package graph

import (
	"strings"

	"github.com/dusk-indust/archgate/internal/config"
)

// ClassifyLayer maps a project-relative path to a logical layer tag using an
// ordered list of (prefix, tag) pairs. The first matching prefix wins; a
// path no rule matches yields LayerUnclassified.
func ClassifyLayer(p string, rules []config.LayerRule) string {
	for _, r := range rules {
		if strings.HasPrefix(p, r.Prefix) {
			return r.Tag
		}
	}
	return LayerUnclassified
}
