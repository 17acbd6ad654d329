package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/taskstream/internal/cli"
	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage stored runs",
	Long:  `List, inspect and remove the solver runs kept in the configured store.`,
}

var runsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, env *cli.Env) error {
			ids, err := env.Store.List(ctx)
			if err != nil {
				return fmt.Errorf("listing runs: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(ids) == 0 {
				fmt.Fprintln(out, "No stored runs found.")
				return nil
			}
			fmt.Fprintln(out, "Stored Runs:")
			for _, id := range ids {
				fmt.Fprintln(out, "- "+id)
			}
			return nil
		})
	},
}

var runsInspectCmd = &cobra.Command{
	Use:   "inspect <run-id>",
	Short: "Print a stored run as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, env *cli.Env) error {
			run, err := env.Store.Load(ctx, args[0])
			if err != nil {
				return fmt.Errorf("loading run '%s': %w", args[0], err)
			}
			data, err := json.MarshalIndent(run, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		})
	},
}

var runsRmCmd = &cobra.Command{
	Use:   "rm <run-id>...",
	Short: "Remove one or more runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		if !all && len(args) == 0 {
			return fmt.Errorf("give at least one run ID or --all")
		}
		return withEnv(cmd, func(ctx context.Context, env *cli.Env) error {
			ids := args
			if all {
				var err error
				if ids, err = env.Store.List(ctx); err != nil {
					return err
				}
			}
			var errs []error
			for _, id := range ids {
				if err := env.Store.Delete(ctx, id); err != nil {
					errs = append(errs, fmt.Errorf("removing '%s': %w", id, err))
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed run '%s'\n", id)
			}
			return errors.Join(errs...)
		})
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsLsCmd)
	runsCmd.AddCommand(runsInspectCmd)
	runsCmd.AddCommand(runsRmCmd)

	runsRmCmd.Flags().Bool("all", false, "Remove every stored run")
}
