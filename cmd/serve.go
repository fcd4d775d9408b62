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
	"github.com/josephgoksu/planwing/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API exposing task generation and relationship preview/confirm.

Endpoints:
  POST /api/ai/tasks/generate
  POST /api/ai/relationships/preview
  POST /api/ai/relationships/confirm
  GET  /api/ai/info
  GET  /metrics
  GET  /healthz

The caller identity is read from the X-User-ID header.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (default from server.addr)")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()
	defer func() { _ = a.Logger.Sync() }()

	config.Watch(viper.GetViper(), func(path string) {
		a.Logger.Warn("config file changed; restart to apply", zap.String("path", path))
	})

	srv := server.New(server.Options{
		Addr:           a.Config.Server.Addr,
		Version:        GetVersion(),
		AllowedOrigins: a.Config.Server.AllowedOrigins,
	}, a.Generator, a.Relationships, a.Logger.Named("http"))

	return srv.ListenAndServe(ctx, a.Config.Server.ShutdownTimeout)
}
