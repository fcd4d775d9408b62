/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/josephgoksu/planwing/internal/config"
	"github.com/josephgoksu/planwing/internal/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for AI tool integration",
	Long: `Start a Model Context Protocol (MCP) server so AI assistants can plan
with planwing. The server runs over stdin/stdout and provides tools for:
- Generating tasks from a goal
- Previewing tasks with proposed relationships
- Confirming a preview into a project

Logs are written to stderr. The server runs until the client disconnects.`,
	Args: cobra.NoArgs,
	RunE: runMCPServer,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	// MCP server inherits verbose flag from root command
}

func runMCPServer(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()
	defer func() { _ = a.Logger.Sync() }()

	config.Watch(viper.GetViper(), func(path string) {
		a.Logger.Warn("config file changed; restart the MCP server to apply", zap.String("path", path))
	})

	server := mcp.NewServer(a.Generator, a.Relationships, GetVersion(), a.Logger.Named("mcp"))
	a.Logger.Info("MCP server starting", zap.String("version", GetVersion()))
	return mcp.Serve(ctx, server)
}
