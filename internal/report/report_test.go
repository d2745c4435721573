package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_Ordering(t *testing.T) {
	perFile := []Diagnostic{
		{Severity: SeverityWarn, RuleID: "w-rule", File: "b.ts", Message: "warn b"},
		{Severity: SeverityFail, RuleID: "f-rule", File: "z.ts", Message: "fail z"},
	}
	crossFile := []Diagnostic{
		{Severity: SeverityFail, RuleID: "cycles", File: "a.ts", Message: "fail a"},
		{Severity: SeverityWarn, RuleID: "coupling", File: "a.ts", Message: "warn a"},
	}

	r := Aggregate(perFile, crossFile)
	require.Len(t, r.Diagnostics, 4)

	// Failures first, then by file path, then by rule id.
	assert.Equal(t, "cycles", r.Diagnostics[0].RuleID)
	assert.Equal(t, "f-rule", r.Diagnostics[1].RuleID)
	assert.Equal(t, "coupling", r.Diagnostics[2].RuleID)
	assert.Equal(t, "w-rule", r.Diagnostics[3].RuleID)
}

func TestAggregate_TieBreakByRuleID(t *testing.T) {
	r := Aggregate([]Diagnostic{
		{Severity: SeverityFail, RuleID: "beta", File: "a.ts"},
		{Severity: SeverityFail, RuleID: "alpha", File: "a.ts"},
	}, nil)

	assert.Equal(t, "alpha", r.Diagnostics[0].RuleID)
	assert.Equal(t, "beta", r.Diagnostics[1].RuleID)
}

func TestAggregate_BlockingFlag(t *testing.T) {
	warnOnly := Aggregate([]Diagnostic{
		{Severity: SeverityWarn, RuleID: "w", File: "a.ts"},
	}, nil)
	assert.False(t, warnOnly.HasBlockingFailure)

	withFail := Aggregate(nil, []Diagnostic{
		{Severity: SeverityFail, RuleID: "f", File: "a.ts"},
	})
	assert.True(t, withFail.HasBlockingFailure)

	empty := Aggregate(nil, nil)
	assert.False(t, empty.HasBlockingFailure)
	assert.Empty(t, empty.Diagnostics)
}

func TestReport_Counts(t *testing.T) {
	r := Aggregate([]Diagnostic{
		{Severity: SeverityFail, RuleID: "f", File: "a.ts"},
		{Severity: SeverityWarn, RuleID: "w1", File: "a.ts"},
		{Severity: SeverityWarn, RuleID: "w2", File: "b.ts"},
	}, nil)

	fails, warns := r.Counts()
	assert.Equal(t, 1, fails)
	assert.Equal(t, 2, warns)
}

func TestAggregate_Deterministic(t *testing.T) {
	perFile := []Diagnostic{
		{Severity: SeverityWarn, RuleID: "w", File: "m.ts"},
		{Severity: SeverityFail, RuleID: "f", File: "m.ts"},
	}
	crossFile := []Diagnostic{
		{Severity: SeverityFail, RuleID: "cycles", File: "a", Chain: []string{"a", "b"}},
	}

	first, err := Aggregate(perFile, crossFile).JSON()
	require.NoError(t, err)
	for range 5 {
		again, err := Aggregate(perFile, crossFile).JSON()
		require.NoError(t, err)
		assert.True(t, bytes.Equal(first, again), "identical inputs must serialize identically")
	}
}

func TestReport_Render(t *testing.T) {
	r := Aggregate([]Diagnostic{
		{Severity: SeverityFail, RuleID: "shared-no-feature", File: "shared/c.ts", Message: "bad import"},
		{Severity: SeverityWarn, RuleID: "coupling", File: "hub", Message: "too coupled", Chain: []string{"hub", "dep"}},
	}, nil)

	var buf bytes.Buffer
	r.Render(&buf)
	out := buf.String()

	assert.Contains(t, out, "shared-no-feature")
	assert.Contains(t, out, "bad import")
	assert.Contains(t, out, "1 failure(s), 1 warning(s)")
}
