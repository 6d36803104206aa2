package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"vidseg/internal/deps"
	"vidseg/internal/preflight"
)

type statusReport struct {
	Dependencies []deps.Status      `json:"dependencies"`
	Checks       []preflight.Result `json:"checks"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check external tools, directories and services",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			report := statusReport{
				Dependencies: preflight.CheckSystemDeps(cfg),
				Checks:       preflight.RunAll(cmd.Context(), cfg),
			}
			if jsonOutput {
				return writeJSON(cmd, report)
			}

			out := cmd.OutOrStdout()
			colorize := isTerminal(out)
			lines := renderSectionHeader("Dependencies", colorize)
			for _, dep := range report.Dependencies {
				kind, message := statusOK, dep.Command
				if !dep.Available {
					kind, message = statusError, dep.Detail
					if dep.Optional {
						kind = statusWarn
					}
				}
				lines = append(lines, renderStatusLine(dep.Name, kind, message, colorize))
			}
			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Checks", colorize)...)
			failed := 0
			for _, check := range report.Checks {
				kind := statusOK
				if !check.Passed {
					kind = statusError
					failed++
				}
				lines = append(lines, renderStatusLine(check.Name, kind, check.Detail, colorize))
			}
			for _, line := range lines {
				fmt.Fprintln(out, line)
			}

			if missing := deps.Missing(report.Dependencies); len(missing) > 0 || failed > 0 {
				return errors.New("status: one or more required checks failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the report as JSON")
	return cmd
}
