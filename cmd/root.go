/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/josephgoksu/planwing/internal/app"
	"github.com/josephgoksu/planwing/internal/config"
	"github.com/josephgoksu/planwing/internal/logger"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// version is the application version.
	version = "0.1.0"
)

// newApp builds the service container. Tests replace it to inject a provider.
var newApp = func(ctx context.Context, cfg *config.AppConfig, l *zap.Logger) (*app.Context, error) {
	return app.New(ctx, cfg, l)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "planwing",
	Short: "Planwing - AI task planning for projects",
	Long: `Planwing turns a free-text goal into a short list of actionable tasks,
proposes dependencies between them and persists the result.

It runs as a CLI, as an MCP server over stdio and as an HTTP API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.InitViper(viper.GetViper(), cfgFile); err != nil {
			return err
		}
		_, err := parseFormat(viper.GetString("format"))
		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	start := time.Now()
	cmd, err := rootCmd.ExecuteC()
	trackCommand(cmd, time.Since(start), err)
	return err
}

// GetVersion returns the application version.
func GetVersion() string {
	return version
}

func init() {
	rootCmd.Version = version

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $HOME/.planwing/.planwing.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringP("format", "f", string(formatPretty), "Output format: pretty, json or yaml")
	rootCmd.PersistentFlags().String("store", "", "Path to the SQLite database")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("store.path", rootCmd.PersistentFlags().Lookup("store"))
}

// loadRuntime validates configuration and builds the logger for a command.
func loadRuntime() (*config.AppConfig, *zap.Logger, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, nil, err
	}
	l, err := logger.New(cfg.Env, cfg.Verbose)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, l, nil
}

// openApp loads configuration and wires the services. The caller must Close it.
func openApp(ctx context.Context) (*app.Context, error) {
	cfg, l, err := loadRuntime()
	if err != nil {
		return nil, err
	}
	a, err := newApp(ctx, cfg, l)
	if err != nil {
		_ = l.Sync()
		return nil, err
	}
	return a, nil
}
