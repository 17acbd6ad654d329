package main

import (
	"context"
	"fmt"

	"github.com/aretw0/taskstream/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check scenarios against their descriptions",
	Long: `Checks that every bound stream is declared in the stream description, that
every action has a handler of the right arity and that stored instances name
known scenarios.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("scenario")
		return withEnv(cmd, func(ctx context.Context, env *cli.Env) error {
			if err := cli.Validate(ctx, env, cmd.OutOrStdout(), name); err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Scenarios are valid! ✅")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
