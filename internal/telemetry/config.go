package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ConfigFileName is the name of the telemetry consent file.
const ConfigFileName = "telemetry.json"

// Config holds the telemetry consent, stored next to the main config
// (~/.planwing/telemetry.json) so editing .planwing.yaml never flips it.
type Config struct {
	// Enabled is false until the user runs "planwing telemetry enable".
	Enabled bool `json:"enabled"`

	// AnonymousID is a random UUID generated once. It is not tied to any user ID.
	AnonymousID string `json:"anonymous_id"`
}

// Load reads the consent file from dir.
// A missing file yields a disabled config with a fresh anonymous ID.
func Load(dir string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(filepath.Join(dir, ConfigFileName))
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read telemetry config: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse telemetry config: %w", err)
		}
	}

	if cfg.AnonymousID == "" {
		cfg.AnonymousID = uuid.New().String()
	}
	return cfg, nil
}

// Save writes the consent file with owner-only permissions.
func (c *Config) Save(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal telemetry config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), data, 0600); err != nil {
		return fmt.Errorf("write telemetry config: %w", err)
	}
	return nil
}

// IsEnabled reports whether events may be sent. DO_NOT_TRACK always wins.
func (c *Config) IsEnabled() bool {
	if c == nil || !c.Enabled {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv("DO_NOT_TRACK"))) {
	case "1", "true", "yes":
		return false
	}
	return true
}
