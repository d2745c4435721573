package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dusk-indust/archgate/internal/graph"
	"github.com/dusk-indust/archgate/internal/report"
	"github.com/dusk-indust/archgate/internal/rules"
)

// DetectCycles runs Tarjan's strongly-connected-components algorithm over
// the grouped import graph. Every SCC with more than one group is a cycle
// and yields one diagnostic listing the groups and a concrete file-level
// edge witnessing each pairwise connection.
func DetectCycles(g *graph.ModuleGraph, rule *rules.Rule, grouper Grouper) []report.Diagnostic {
	edges := groupEdges(g, grouper, rule.Analysis.ExcludeTypeOnly)

	adj, witnesses := buildGroupGraph(edges)
	sccs := tarjan(adj)

	var diags []report.Diagnostic
	for _, scc := range sccs {
		if len(scc) < 2 {
			continue
		}
		sort.Strings(scc)
		diags = append(diags, cycleDiagnostic(rule, scc, adj, witnesses))
	}

	// Cycles are already discovered in deterministic order, but sort by
	// first group to be explicit about the contract.
	sort.Slice(diags, func(i, j int) bool { return diags[i].File < diags[j].File })
	return diags
}

// buildGroupGraph collapses file-level edges to a group adjacency map and
// remembers one witness (the lexicographically smallest) per ordered group
// pair.
func buildGroupGraph(edges []groupedEdge) (map[string][]string, map[[2]string]groupedEdge) {
	adjSet := make(map[string]map[string]bool)
	witnesses := make(map[[2]string]groupedEdge)

	for _, e := range edges {
		if adjSet[e.fromGroup] == nil {
			adjSet[e.fromGroup] = make(map[string]bool)
		}
		adjSet[e.fromGroup][e.toGroup] = true
		if adjSet[e.toGroup] == nil {
			adjSet[e.toGroup] = make(map[string]bool)
		}

		key := [2]string{e.fromGroup, e.toGroup}
		if w, ok := witnesses[key]; !ok || e.fromFile < w.fromFile || (e.fromFile == w.fromFile && e.toFile < w.toFile) {
			witnesses[key] = e
		}
	}

	adj := make(map[string][]string, len(adjSet))
	for gname, targets := range adjSet {
		sorted := make([]string, 0, len(targets))
		for t := range targets {
			sorted = append(sorted, t)
		}
		sort.Strings(sorted)
		adj[gname] = sorted
	}
	return adj, witnesses
}

// tarjan computes strongly connected components. Nodes are visited in
// lexicographic order so the output is deterministic for a fixed graph.
func tarjan(adj map[string][]string) [][]string {
	nodes := make([]string, 0, len(adj))
	for n := range adj {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)

	index := make(map[string]int, len(nodes))
	lowlink := make(map[string]int, len(nodes))
	onStack := make(map[string]bool, len(nodes))
	var stack []string
	var sccs [][]string
	next := 0

	var strongconnect func(v string)
	strongconnect = func(v string) {
		index[v] = next
		lowlink[v] = next
		next++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range adj[v] {
			if _, seen := index[w]; !seen {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] && index[w] < lowlink[v] {
				lowlink[v] = index[w]
			}
		}

		if lowlink[v] == index[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, n := range nodes {
		if _, seen := index[n]; !seen {
			strongconnect(n)
		}
	}
	return sccs
}

// cycleDiagnostic renders one diagnostic for an SCC, listing every
// intra-SCC group pair with its witness edge.
func cycleDiagnostic(rule *rules.Rule, scc []string, adj map[string][]string, witnesses map[[2]string]groupedEdge) report.Diagnostic {
	inSCC := make(map[string]bool, len(scc))
	for _, gname := range scc {
		inSCC[gname] = true
	}

	var pairs []string
	for _, from := range scc {
		for _, to := range adj[from] {
			if !inSCC[to] {
				continue
			}
			w := witnesses[[2]string{from, to}]
			pairs = append(pairs, fmt.Sprintf("%s -> %s (%s imports %s)", from, to, w.fromFile, w.toFile))
		}
	}

	msg := strings.ReplaceAll(rule.Message, "{{groups}}", strings.Join(scc, ", "))
	msg += "; " + strings.Join(pairs, "; ")

	return report.Diagnostic{
		Severity: rule.Severity(),
		RuleID:   rule.ID,
		File:     scc[0],
		Chain:    scc,
		Message:  msg,
	}
}
