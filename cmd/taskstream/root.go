package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/taskstream/internal/cli"
	"github.com/aretw0/taskstream/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "taskstream",
	Short: "Taskstream builds planning problems and turns plans into robot commands",
	Long: `Taskstream assembles task-and-motion planning problems from typed world
entities, hands them to an external solver and translates the resulting plans
into attach, detach and trajectory commands.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Configuration file (YAML, JSON or TOML)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringP("scenario", "s", "", "Scenario to use (defaults to the configured one)")
}

// withEnv loads the configuration, opens its backends and runs fn. The
// context is cancelled on SIGINT or SIGTERM.
func withEnv(cmd *cobra.Command, fn func(ctx context.Context, env *cli.Env) error) error {
	path, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	logger, err := cli.NewLogger(cfg, os.Stderr, debug)
	if err != nil {
		return err
	}

	ctx := cli.NewSignalContext(cmd.Context())
	defer ctx.Cancel()

	env, err := cli.NewEnv(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := env.Close(); cerr != nil {
			logger.Warn("closing backends failed", "error", cerr)
		}
	}()

	err = fn(ctx, env)
	if sig := ctx.Signal(); sig != nil {
		logger.Info("interrupted", "signal", sig)
	}
	return err
}

// pipelineOptions reads the flags shared by the pipeline commands.
func pipelineOptions(cmd *cobra.Command) cli.Options {
	var opts cli.Options
	opts.Scenario, _ = cmd.Flags().GetString("scenario")
	if f := cmd.Flags().Lookup("instance"); f != nil {
		opts.Instance = f.Value.String()
	}
	if f := cmd.Flags().Lookup("entities"); f != nil {
		opts.EntitiesFile = f.Value.String()
	}
	if f := cmd.Flags().Lookup("format"); f != nil {
		opts.Format = f.Value.String()
	}
	return opts
}

func addProblemFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("instance", "i", "", "Stored scenario instance to assemble")
	cmd.Flags().StringP("entities", "e", "", "YAML or JSON file with the world entities")
}
