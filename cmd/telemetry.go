/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/josephgoksu/planwing/internal/config"
	"github.com/josephgoksu/planwing/internal/telemetry"
	"github.com/josephgoksu/planwing/internal/ui"
)

// telemetryAPIKey is injected at build time with -ldflags; telemetry.apiKey overrides it.
var telemetryAPIKey = ""

var (
	telemetryOnce   sync.Once
	telemetryClient telemetry.Client = telemetry.NoopClient{}
)

var telemetryCmd = &cobra.Command{
	Use:   "telemetry",
	Short: "Manage anonymous usage telemetry (disabled by default)",
	Long: `Planwing can send anonymous usage events: command name, duration, success,
error category, task and link counts, provider name, OS and architecture.
Prompts, task titles, project IDs and user IDs are never sent.

Telemetry is off until enabled here. DO_NOT_TRACK=1 always disables it.`,
}

var telemetryStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether telemetry is enabled",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadTelemetryConfig()
		if err != nil {
			return err
		}
		status := struct {
			Enabled     bool   `json:"enabled" yaml:"enabled"`
			AnonymousID string `json:"anonymousId" yaml:"anonymousId"`
		}{cfg.IsEnabled(), cfg.AnonymousID}
		return render(cmd, status, func() string {
			return fmt.Sprintf("Telemetry %s %s\n", enabledLabel(status.Enabled), ui.StyleSubtle.Render(status.AnonymousID))
		})
	},
}

var telemetryEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Opt in to anonymous usage telemetry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTelemetry(cmd, true)
	},
}

var telemetryDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Opt out of anonymous usage telemetry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTelemetry(cmd, false)
	},
}

func init() {
	rootCmd.AddCommand(telemetryCmd)
	telemetryCmd.AddCommand(telemetryStatusCmd, telemetryEnableCmd, telemetryDisableCmd)
}

func loadTelemetryConfig() (*telemetry.Config, string, error) {
	dir, err := config.GetGlobalConfigDir()
	if err != nil {
		return nil, "", err
	}
	cfg, err := telemetry.Load(dir)
	if err != nil {
		return nil, "", err
	}
	return cfg, dir, nil
}

func setTelemetry(cmd *cobra.Command, enabled bool) error {
	cfg, dir, err := loadTelemetryConfig()
	if err != nil {
		return err
	}
	cfg.Enabled = enabled
	if err := cfg.Save(dir); err != nil {
		return err
	}
	return render(cmd, cfg, func() string {
		return fmt.Sprintf("%s Telemetry %s\n", ui.Icon("✓", ui.StyleSuccess), enabledLabel(enabled))
	})
}

// tracker returns the process telemetry client, built on first use.
// Failures fall back to the no-op client: telemetry never breaks a command.
func tracker() telemetry.Client {
	telemetryOnce.Do(func() {
		cfg, _, err := loadTelemetryConfig()
		if err != nil {
			return
		}
		key := viper.GetString("telemetry.apiKey")
		if key == "" {
			key = telemetryAPIKey
		}
		c, err := telemetry.New(telemetry.ClientConfig{
			APIKey:   key,
			Endpoint: viper.GetString("telemetry.endpoint"),
			Version:  GetVersion(),
			Config:   cfg,
		})
		if err == nil {
			telemetryClient = c
		}
	})
	return telemetryClient
}

// trackCommand records the executed command and flushes pending events.
func trackCommand(cmd *cobra.Command, elapsed time.Duration, err error) {
	if cmd == nil || cmd == rootCmd {
		return
	}
	t := tracker()
	t.Track(telemetry.EventCommandExecuted, telemetry.CommandProps(cmd.CommandPath(), elapsed.Milliseconds(), err))
	_ = t.Close()
}
