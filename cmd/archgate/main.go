package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dusk-indust/archgate/internal/mcptools"
)

// cliFlags are parsed from the command line.
type cliFlags struct {
	ProjectRoot   string
	RulesFile     string
	Format        string
	ExportJSON    string
	ExportMermaid string
	ExportKuzu    string
	ServeMCP      bool
	MCPAddr       string
	Version       bool
}

// version is set by goreleaser at build time.
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var flags cliFlags

	fs := flag.NewFlagSet("archgate", flag.ContinueOnError)
	fs.StringVar(&flags.ProjectRoot, "project-root", ".", "path to the target project")
	fs.StringVar(&flags.RulesFile, "rules", "", "path to a rule-set YAML file (default: rulesFile from archgate.yml, else the built-in catalog)")
	fs.StringVar(&flags.Format, "format", "text", "report format: text or json")
	fs.StringVar(&flags.ExportJSON, "export-json", "", "write the module graph and report as JSON to the given file")
	fs.StringVar(&flags.ExportMermaid, "export-mermaid", "", "write a Mermaid diagram of the grouped graph to the given file")
	fs.StringVar(&flags.ExportKuzu, "export-kuzu", "", "materialize the module graph into a Kuzu database at the given path")
	fs.BoolVar(&flags.ServeMCP, "serve-mcp", false, "run as an MCP server instead of checking once")
	fs.StringVar(&flags.MCPAddr, "mcp-addr", "localhost:8417", "address for the MCP server")
	fs.BoolVar(&flags.Version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if flags.Version {
		fmt.Println(version)
		return 0
	}

	if flags.Format != "text" && flags.Format != "json" {
		fmt.Fprintf(os.Stderr, "error: unknown format %q (want text or json)\n", flags.Format)
		return 2
	}

	// Cancellation aborts between pipeline stages, keeping partial
	// results consistent.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if flags.ServeMCP {
		svc := mcptools.NewBoundaryService()
		if err := mcptools.RunMCPServer(ctx, svc, flags.MCPAddr, version); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		return 0
	}

	code, err := runCheck(ctx, flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	return code
}
