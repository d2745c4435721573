package analysis

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dusk-indust/archgate/internal/graph"
	"github.com/dusk-indust/archgate/internal/report"
	"github.com/dusk-indust/archgate/internal/rules"
)

// CouplingMetrics compares three coupling signals against the rule's
// thresholds: total distinct group-pair edges project-wide, per-pair
// saturation (distinct source files contributing to a pair), and per-group
// fan-out (distinct groups depended on). A zero threshold disables its
// metric. These are signals, not hard invariants: the rule's blocking flag
// decides whether exceeding one fails the run.
func CouplingMetrics(g *graph.ModuleGraph, rule *rules.Rule, grouper Grouper) []report.Diagnostic {
	a := rule.Analysis
	edges := groupEdges(g, grouper, false)

	// pair -> set of contributing source files
	contributors := make(map[[2]string]map[string]bool)
	// group -> set of target groups
	fanOut := make(map[string]map[string]bool)

	for _, e := range edges {
		key := [2]string{e.fromGroup, e.toGroup}
		if contributors[key] == nil {
			contributors[key] = make(map[string]bool)
		}
		contributors[key][e.fromFile] = true

		if fanOut[e.fromGroup] == nil {
			fanOut[e.fromGroup] = make(map[string]bool)
		}
		fanOut[e.fromGroup][e.toGroup] = true
	}

	var diags []report.Diagnostic

	if a.MaxGroupPairs > 0 && len(contributors) > a.MaxGroupPairs {
		diags = append(diags, couplingDiagnostic(rule, "group-pair edges", "project", len(contributors), a.MaxGroupPairs, nil))
	}

	if a.MaxSaturation > 0 {
		pairs := make([][2]string, 0, len(contributors))
		for key := range contributors {
			pairs = append(pairs, key)
		}
		sort.Slice(pairs, func(i, j int) bool {
			if pairs[i][0] != pairs[j][0] {
				return pairs[i][0] < pairs[j][0]
			}
			return pairs[i][1] < pairs[j][1]
		})
		for _, key := range pairs {
			if n := len(contributors[key]); n > a.MaxSaturation {
				subject := key[0] + " -> " + key[1]
				files := sortedKeys(contributors[key])
				diags = append(diags, couplingDiagnostic(rule, "saturation", subject, n, a.MaxSaturation, files))
			}
		}
	}

	if a.MaxFanOut > 0 {
		for _, gname := range sortedFanOutGroups(fanOut) {
			if n := len(fanOut[gname]); n > a.MaxFanOut {
				targets := sortedKeys(fanOut[gname])
				diags = append(diags, couplingDiagnostic(rule, "fan-out", gname, n, a.MaxFanOut, targets))
			}
		}
	}

	return diags
}

func couplingDiagnostic(rule *rules.Rule, metric, subject string, value, threshold int, detail []string) report.Diagnostic {
	msg := strings.NewReplacer(
		"{{metric}}", metric,
		"{{subject}}", subject,
		"{{value}}", strconv.Itoa(value),
		"{{threshold}}", strconv.Itoa(threshold),
	).Replace(rule.Message)
	if len(detail) > 0 {
		msg += fmt.Sprintf(" [%s]", strings.Join(detail, ", "))
	}
	return report.Diagnostic{
		Severity: rule.Severity(),
		RuleID:   rule.ID,
		File:     subject,
		Message:  msg,
	}
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedFanOutGroups(fanOut map[string]map[string]bool) []string {
	out := make([]string, 0, len(fanOut))
	for k := range fanOut {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
