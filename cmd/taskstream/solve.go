package main

import (
	"context"

	"github.com/aretw0/taskstream/internal/cli"
	"github.com/spf13/cobra"
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve a scenario and store the run",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, env *cli.Env) error {
			return cli.Solve(ctx, env, cmd.OutOrStdout(), pipelineOptions(cmd))
		})
	},
}

func init() {
	rootCmd.AddCommand(solveCmd)
	addProblemFlags(solveCmd)
	solveCmd.Flags().StringP("format", "f", cli.FormatMarkdown, "Output format: markdown or json")
}
