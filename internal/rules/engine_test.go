package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/archgate/internal/graph"
	"github.com/dusk-indust/archgate/internal/report"
)

func sharedClientModule() *graph.Module {
	return &graph.Module{
		Path:  "shared/data/client.ts",
		Layer: "shared",
		Edges: []graph.Edge{
			{
				From:        "shared/data/client.ts",
				Target:      "features/checkout/api.ts",
				Specifier:   "../../features/checkout/api",
				TargetLayer: "feature",
				Kind:        graph.TargetInternal,
				Line:        2,
			},
		},
	}
}

func TestEvaluate_SingleViolation(t *testing.T) {
	set := &Set{Rules: []Rule{{
		ID:        "shared-no-feature",
		Mechanism: MechanismPerFile,
		Blocking:  true,
		Scope:     []string{"shared/"},
		Match:     &Matcher{TargetPrefix: "features/"},
		Message:   "{{file}}:{{line}} imports {{target}}",
	}}}
	require.NoError(t, set.Validate())

	diags := Evaluate(sharedClientModule(), set)
	require.Len(t, diags, 1)
	assert.Equal(t, report.SeverityFail, diags[0].Severity)
	assert.Equal(t, "shared-no-feature", diags[0].RuleID)
	assert.Equal(t, "shared/data/client.ts", diags[0].File)
	assert.Equal(t, "shared/data/client.ts:2 imports features/checkout/api.ts", diags[0].Message)
}

func TestEvaluate_DiagnosticsAreAdditive(t *testing.T) {
	// One import that violates two independent rules yields two
	// diagnostics; rules never mask each other.
	set := &Set{Rules: []Rule{
		{
			ID:        "shared-no-feature",
			Mechanism: MechanismPerFile,
			Blocking:  true,
			Scope:     []string{"shared/"},
			Match:     &Matcher{TargetPrefix: "features/"},
			Message:   "layer violation at {{target}}",
		},
		{
			ID:        "no-deep-feature-import",
			Mechanism: MechanismPerFile,
			Blocking:  false,
			Match:     &Matcher{SpecifierMatches: `^\.\./\.\./features/[^/]+/.+`},
			Message:   "deep import via {{specifier}}",
		},
	}}
	require.NoError(t, set.Validate())

	diags := Evaluate(sharedClientModule(), set)
	require.Len(t, diags, 2)

	ids := []string{diags[0].RuleID, diags[1].RuleID}
	assert.Contains(t, ids, "shared-no-feature")
	assert.Contains(t, ids, "no-deep-feature-import")
	assert.NotEqual(t, diags[0].Severity, diags[1].Severity)
}

func TestEvaluate_LayerRuleFiresOnlyOnMatchingTarget(t *testing.T) {
	set := &Set{Rules: []Rule{{
		ID:        "ui-no-feature",
		Mechanism: MechanismPerFile,
		Blocking:  true,
		Scope:     []string{"shared/ui/"},
		Match:     &Matcher{TargetLayerIn: []string{"feature"}},
		Message:   "{{file}} imports {{target}} from layer {{targetLayer}}",
	}}}
	require.NoError(t, set.Validate())

	widget := &graph.Module{
		Path:  "shared/ui/Widget.tsx",
		Layer: "shared",
		Edges: []graph.Edge{
			{
				From:        "shared/ui/Widget.tsx",
				Target:      "features/billing/index.ts",
				Specifier:   "../../features/billing",
				TargetLayer: "feature",
				Kind:        graph.TargetInternal,
			},
			{
				From:        "shared/ui/Widget.tsx",
				Target:      "shared/format.ts",
				Specifier:   "../format",
				TargetLayer: "shared",
				Kind:        graph.TargetInternal,
			},
		},
	}

	diags := Evaluate(widget, set)
	require.Len(t, diags, 1, "only the feature-layer edge violates")
	assert.Contains(t, diags[0].Message, "features/billing/index.ts")
}

func TestEvaluate_ScopeFilters(t *testing.T) {
	set := &Set{Rules: []Rule{{
		ID:        "shared-no-feature",
		Mechanism: MechanismPerFile,
		Blocking:  true,
		Scope:     []string{"shared/"},
		Match:     &Matcher{TargetPrefix: "features/"},
		Message:   "violation",
	}}}
	require.NoError(t, set.Validate())

	outOfScope := sharedClientModule()
	outOfScope.Path = "app/main.ts"
	assert.Empty(t, Evaluate(outOfScope, set))
}

func TestEvaluate_Allowlist(t *testing.T) {
	set := &Set{Rules: []Rule{{
		ID:        "shared-no-feature",
		Mechanism: MechanismPerFile,
		Blocking:  true,
		Scope:     []string{"shared/"},
		Match:     &Matcher{TargetPrefix: "features/"},
		Allow: []AllowPair{
			{Source: "shared/data/", Target: "features/checkout/"},
		},
		Message: "violation",
	}}}
	require.NoError(t, set.Validate())

	assert.Empty(t, Evaluate(sharedClientModule(), set), "allowlisted pair must be exempt")

	// A different target under the same rule still fires.
	other := sharedClientModule()
	other.Edges[0].Target = "features/auth/session.ts"
	assert.Len(t, Evaluate(other, set), 1)
}

func TestEvaluate_Idempotent(t *testing.T) {
	set := &Set{Rules: []Rule{{
		ID:        "shared-no-feature",
		Mechanism: MechanismPerFile,
		Blocking:  true,
		Match:     &Matcher{TargetPrefix: "features/"},
		Message:   "{{file}} -> {{target}}",
	}}}
	require.NoError(t, set.Validate())

	m := sharedClientModule()
	first := Evaluate(m, set)
	second := Evaluate(m, set)
	assert.Equal(t, first, second, "evaluation must be a pure function of module and rules")
}

func TestEvaluate_CrossFileRulesSkipped(t *testing.T) {
	set := &Set{Rules: []Rule{{
		ID:        "cycles",
		Mechanism: MechanismCrossFile,
		Blocking:  true,
		Analysis:  &Analysis{Kind: "cycles"},
		Message:   "cycle",
	}}}
	require.NoError(t, set.Validate())

	assert.Empty(t, Evaluate(sharedClientModule(), set))
}

func TestRenderMessage_UnresolvedFallsBackToSpecifier(t *testing.T) {
	m := &graph.Module{Path: "src/app.ts", Layer: "app"}
	e := graph.Edge{Specifier: "./missing", Kind: graph.TargetUnresolved, Line: 7}
	got := renderMessage("{{file}}:{{line}} cannot use {{target}}", m, e)
	assert.Equal(t, "src/app.ts:7 cannot use ./missing", got)
}
