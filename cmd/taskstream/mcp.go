package main

import (
	"context"
	"fmt"

	"github.com/aretw0/taskstream/internal/cli"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes scenario assembly and plan translation as MCP tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		return withEnv(cmd, func(ctx context.Context, env *cli.Env) error {
			switch transport {
			case "stdio":
				env.Logger.Info("starting MCP server", "transport", transport)
				return cli.ServeMCP(ctx, env, 0)
			case "sse":
				env.Logger.Info("starting MCP server", "transport", transport, "port", port)
				return cli.ServeMCP(ctx, env, port)
			default:
				return fmt.Errorf("unknown transport %q, supported: stdio, sse", transport)
			}
		})
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
