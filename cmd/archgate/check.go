package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dusk-indust/archgate/internal/analysis"
	"github.com/dusk-indust/archgate/internal/config"
	"github.com/dusk-indust/archgate/internal/orchestrator"
	"github.com/dusk-indust/archgate/internal/rules"
)

// runCheck executes one full check of the project and prints the report.
// The returned int is the process exit code: 0 when no blocking diagnostic
// exists, 1 otherwise. Warnings never affect it.
func runCheck(ctx context.Context, flags cliFlags) (int, error) {
	project, err := config.Load(flags.ProjectRoot)
	if err != nil {
		return 0, err
	}

	rulesFile := flags.RulesFile
	if rulesFile == "" {
		rulesFile = project.RulesFile
	}
	set := rules.DefaultSet()
	if rulesFile != "" {
		set, err = rules.LoadSet(rulesFile)
		if err != nil {
			return 0, err
		}
	}

	rep, g, err := orchestrator.Run(ctx, orchestrator.Options{
		Root:    flags.ProjectRoot,
		Project: project,
		Rules:   set,
	})
	if err != nil {
		return 0, err
	}

	// The format value is validated before the pipeline runs.
	if flags.Format == "json" {
		data, err := rep.JSON()
		if err != nil {
			return 0, err
		}
		fmt.Println(string(data))
	} else {
		rep.Render(os.Stdout)
	}

	grouper := analysis.GrouperFor(project.Grouping)
	if err := runExports(flags, g, rep, grouper); err != nil {
		return 0, err
	}

	return orchestrator.ExitCode(rep), nil
}
