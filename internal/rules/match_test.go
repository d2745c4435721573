package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/archgate/internal/graph"
)

func boolPtr(b bool) *bool { return &b }

func ctxFor(m *graph.Module, e graph.Edge) edgeContext {
	return edgeContext{module: m, edge: e}
}

func TestMatcher_Leaves(t *testing.T) {
	mod := &graph.Module{Path: "features/checkout/cart.ts", Layer: "feature"}
	internal := graph.Edge{
		From:        mod.Path,
		Target:      "shared/ui/button.tsx",
		Specifier:   "../../shared/ui/button",
		TargetLayer: "shared",
		Kind:        graph.TargetInternal,
		Line:        3,
	}
	external := graph.Edge{
		From:      mod.Path,
		Target:    "node:fs",
		Specifier: "node:fs",
		Kind:      graph.TargetExternal,
	}

	tests := []struct {
		name    string
		matcher *Matcher
		edge    graph.Edge
		want    bool
	}{
		{"target layer hit", &Matcher{TargetLayerIn: []string{"shared", "domain"}}, internal, true},
		{"target layer miss", &Matcher{TargetLayerIn: []string{"domain"}}, internal, false},
		{"target layer ignores external", &Matcher{TargetLayerIn: []string{"shared"}}, external, false},
		{"source layer hit", &Matcher{SourceLayerIn: []string{"feature"}}, internal, true},
		{"source layer miss", &Matcher{SourceLayerIn: []string{"app"}}, internal, false},
		{"target prefix hit", &Matcher{TargetPrefix: "shared/"}, internal, true},
		{"target prefix miss", &Matcher{TargetPrefix: "domain/"}, internal, false},
		{"specifier exact", &Matcher{SpecifierIs: "../../shared/ui/button"}, internal, true},
		{"type-only false matches runtime edge", &Matcher{TypeOnly: boolPtr(false)}, internal, true},
		{"dynamic false", &Matcher{Dynamic: boolPtr(false)}, internal, true},
		{"external package glob", &Matcher{ExternalPackage: "node:*"}, external, true},
		{"external package exact miss", &Matcher{ExternalPackage: "fs-extra"}, external, false},
		{"external leaf ignores internal", &Matcher{ExternalPackage: "node:*"}, internal, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.matcher.eval(ctxFor(mod, tt.edge)))
		})
	}
}

func TestMatcher_SpecifierRegex(t *testing.T) {
	m := &Matcher{SpecifierMatches: `^\.\./\.\./features/[^/]+/.+`}
	require.NoError(t, m.compile("test"))

	mod := &graph.Module{Path: "shared/data/client.ts", Layer: "shared"}
	hit := graph.Edge{Specifier: "../../features/checkout/api", Kind: graph.TargetInternal}
	miss := graph.Edge{Specifier: "../../features/checkout", Kind: graph.TargetInternal}

	assert.True(t, m.eval(ctxFor(mod, hit)))
	assert.False(t, m.eval(ctxFor(mod, miss)))
}

func TestMatcher_Combinators(t *testing.T) {
	mod := &graph.Module{Path: "shared/ui/button.tsx", Layer: "shared"}
	edge := graph.Edge{
		Target:      "features/checkout/api.ts",
		Specifier:   "../../features/checkout/api",
		TargetLayer: "feature",
		Kind:        graph.TargetInternal,
	}

	all := &Matcher{All: []*Matcher{
		{SourceLayerIn: []string{"shared"}},
		{TargetLayerIn: []string{"feature"}},
	}}
	assert.True(t, all.eval(ctxFor(mod, edge)))

	allMiss := &Matcher{All: []*Matcher{
		{SourceLayerIn: []string{"shared"}},
		{TargetLayerIn: []string{"domain"}},
	}}
	assert.False(t, allMiss.eval(ctxFor(mod, edge)))

	anyHit := &Matcher{Any: []*Matcher{
		{TargetPrefix: "domain/"},
		{TargetPrefix: "features/"},
	}}
	assert.True(t, anyHit.eval(ctxFor(mod, edge)))

	not := &Matcher{Not: &Matcher{TargetPrefix: "domain/"}}
	assert.True(t, not.eval(ctxFor(mod, edge)))

	nested := &Matcher{All: []*Matcher{
		{SourceLayerIn: []string{"shared"}},
		{Not: &Matcher{Any: []*Matcher{
			{TargetPrefix: "shared/"},
			{TargetPrefix: "domain/"},
		}}},
	}}
	assert.True(t, nested.eval(ctxFor(mod, edge)))
}

func TestMatcher_Eligibility(t *testing.T) {
	layerMatcher := &Matcher{TargetLayerIn: []string{"feature"}}
	pkgMatcher := &Matcher{ExternalPackage: "lodash"}
	specMatcher := &Matcher{SpecifierIs: "./x"}

	internal := graph.Edge{Kind: graph.TargetInternal}
	external := graph.Edge{Kind: graph.TargetExternal}
	unresolved := graph.Edge{Kind: graph.TargetUnresolved}
	opaque := graph.Edge{Kind: graph.TargetOpaque}

	// Internal edges participate in everything.
	assert.True(t, layerMatcher.eligible(internal))
	assert.True(t, pkgMatcher.eligible(internal))

	// External edges only participate in rules that name packages.
	assert.False(t, layerMatcher.eligible(external))
	assert.True(t, pkgMatcher.eligible(external))
	assert.False(t, specMatcher.eligible(external))

	// Unresolved and opaque edges are dead for target-addressed rules but
	// still participate in pure specifier rules.
	assert.False(t, layerMatcher.eligible(unresolved))
	assert.True(t, specMatcher.eligible(unresolved))
	assert.True(t, specMatcher.eligible(opaque))
	assert.False(t, pkgMatcher.eligible(opaque))
}

func TestMatchPath(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"shared/", "shared/util.ts", true},
		{"shared", "shared/util.ts", true},
		{"shared/", "shared-extras/util.ts", false},
		{"shared/util.ts", "shared/util.ts", true},
		{"shared/*.ts", "shared/util.ts", true},
		{"shared/*.ts", "shared/deep/util.ts", false},
		{"node:*", "node:crypto", true},
		{"", "anything.ts", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchPath(tt.pattern, tt.path), "MatchPath(%q, %q)", tt.pattern, tt.path)
	}
}
