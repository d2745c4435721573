// Package mcptools exposes the boundary engine as MCP tools so coding
// agents can check a project without shelling out to the CLI.
package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewBoundaryMCPServer creates an MCP server with all boundary tools
// registered. The version is the binary's, passed through from main.
func NewBoundaryMCPServer(svc *BoundaryService, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "archgate",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_boundaries",
		Description: "Run the full import-boundary check: build the module graph, evaluate the rule set, run cycle detection, reachability traces and coupling metrics, and return the aggregated report with a pass/fail verdict.",
	}, svc.CheckBoundaries)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "graph_stats",
		Description: "Scan a project, build its import graph, and return summary statistics (modules, edges, external packages, unresolved imports).",
	}, svc.GraphStats)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "detect_cycles",
		Description: "Build the import graph and report strongly connected components among module groups, with a concrete witness edge per group pair.",
	}, svc.DetectCycles)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "trace_reachability",
		Description: "Trace runtime imports from entry modules to check whether they reach forbidden packages or layers, honoring boundary modules that truncate the trace.",
	}, svc.TraceReachability)

	return server
}

// RunMCPServer starts an HTTP server exposing the boundary MCP tools.
func RunMCPServer(ctx context.Context, svc *BoundaryService, addr, version string) error {
	server := NewBoundaryMCPServer(svc, version)

	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
