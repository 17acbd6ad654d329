package main

import (
	"context"
	"fmt"

	"github.com/aretw0/taskstream/internal/cli"
	"github.com/spf13/cobra"
)

var translateCmd = &cobra.Command{
	Use:   "translate [run-id]",
	Short: "Translate a plan into robot commands",
	Long: `Translates a stored run, or a plan file (JSON, YAML or a PDDL plan), into
the command sequence a robot executes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := pipelineOptions(cmd)
		opts.PlanFile, _ = cmd.Flags().GetString("plan")
		if len(args) > 0 {
			opts.RunID = args[0]
		}
		if (opts.RunID == "") == (opts.PlanFile == "") {
			return fmt.Errorf("give either a run ID or --plan")
		}
		return withEnv(cmd, func(ctx context.Context, env *cli.Env) error {
			return cli.Translate(ctx, env, cmd.OutOrStdout(), opts)
		})
	},
}

func init() {
	rootCmd.AddCommand(translateCmd)
	translateCmd.Flags().StringP("plan", "p", "", "Plan file to translate")
	translateCmd.Flags().StringP("format", "f", cli.FormatMarkdown, "Output format: markdown, json or mermaid")
}
