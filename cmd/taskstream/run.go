package main

import (
	"context"
	"os"

	"github.com/aretw0/taskstream/internal/cli"
	"github.com/aretw0/taskstream/pkg/adapters/file"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Assemble, solve, translate and execute a scenario",
	Long: `Runs the whole pipeline once. With --emit the translated commands are
written as JSON lines to the given file ("-" for stdout).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		headless, _ := cmd.Flags().GetBool("headless")
		emit, _ := cmd.Flags().GetString("emit")

		return withEnv(cmd, func(ctx context.Context, env *cli.Env) error {
			switch emit {
			case "":
			case "-":
				env.Executor = file.NewExecutor(cmd.OutOrStdout())
			default:
				f, err := os.Create(emit)
				if err != nil {
					return err
				}
				defer f.Close()
				env.Executor = file.NewExecutor(f)
			}
			_, err := cli.Run(ctx, env, cmd.OutOrStdout(), pipelineOptions(cmd), headless)
			return err
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	addProblemFlags(runCmd)

	runCmd.Flags().Bool("headless", false, "Do not print reports")
	runCmd.Flags().String("emit", "", "Write the commands as JSON lines to this file")
}
