package main

import (
	"context"

	"github.com/aretw0/taskstream/internal/cli"
	"github.com/spf13/cobra"
)

var assembleCmd = &cobra.Command{
	Use:   "assemble",
	Short: "Assemble the planning problem of a scenario",
	Long: `Classifies the world entities, collects the initial facts and the goal
and prints the problem handed to the solver.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, env *cli.Env) error {
			return cli.Assemble(ctx, env, cmd.OutOrStdout(), pipelineOptions(cmd))
		})
	},
}

func init() {
	rootCmd.AddCommand(assembleCmd)
	addProblemFlags(assembleCmd)
	assembleCmd.Flags().StringP("format", "f", cli.FormatMarkdown, "Output format: markdown or json")
}
