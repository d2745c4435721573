package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dusk-indust/archgate/internal/analysis"
	"github.com/dusk-indust/archgate/internal/graph"
)

// GenerateMermaid produces a Mermaid graph TD diagram of the module graph.
// Modules are grouped into subgraphs by the given grouper; internal import
// edges become arrows between modules.
func GenerateMermaid(g *graph.ModuleGraph, grouper analysis.Grouper) string {
	// Stable alphanumeric IDs for Mermaid nodes.
	nodeIDs := make(map[string]string)
	nextID := 0
	getID := func(path string) string {
		if id, ok := nodeIDs[path]; ok {
			return id
		}
		id := fmt.Sprintf("N%d", nextID)
		nextID++
		nodeIDs[path] = id
		return id
	}

	// Group membership, deterministic ordering.
	groups := make(map[string][]string)
	for _, m := range g.Modules() {
		gname := grouper(m)
		groups[gname] = append(groups[gname], m.Path)
	}
	groupNames := make([]string, 0, len(groups))
	for gname := range groups {
		groupNames = append(groupNames, gname)
	}
	sort.Strings(groupNames)

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, gname := range groupNames {
		members := groups[gname]
		sort.Strings(members)
		sb.WriteString(fmt.Sprintf("  subgraph %s[\"%.40s\"]\n", getID("group:"+gname), gname))
		for _, member := range members {
			sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", getID(member), member))
		}
		sb.WriteString("  end\n")
	}

	for _, m := range g.Modules() {
		for _, e := range m.Edges {
			if e.Kind != graph.TargetInternal {
				continue
			}
			arrow := "-->"
			if e.TypeOnly {
				// Type-only edges are dashed: no runtime dependency.
				arrow = "-.->"
			}
			sb.WriteString(fmt.Sprintf("  %s %s %s\n", getID(m.Path), arrow, getID(e.Target)))
		}
	}

	return sb.String()
}
