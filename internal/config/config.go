package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"helpdesk/internal/domain"
)

const FileName = "helpdesk.yml"

// Storage drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// ValidDriver reports whether driver names a persistent storage driver.
func ValidDriver(driver string) bool {
	return driver == DriverFile || driver == DriverSQLite
}

// Config models helpdesk.yml.
type Config struct {
	Storage struct {
		Driver string `yaml:"driver" json:"driver"`
		Path   string `yaml:"path" json:"path"`
	} `yaml:"storage" json:"storage"`
	SLA    SLA `yaml:"sla" json:"sla"`
	Policy struct {
		RestrictDispatch bool `yaml:"restrict_dispatch" json:"restrict_dispatch"`
	} `yaml:"policy" json:"policy"`
	Log struct {
		Level string `yaml:"level" json:"level"`
	} `yaml:"log" json:"log"`
}

// SLA holds the target resolution time per priority tier.
type SLA struct {
	High   time.Duration `yaml:"high" json:"high"`
	Medium time.Duration `yaml:"medium" json:"medium"`
	Low    time.Duration `yaml:"low" json:"low"`
}

// MarshalJSON writes thresholds as duration strings such as "4h0m0s".
func (s SLA) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		High   string `json:"high"`
		Medium string `json:"medium"`
		Low    string `json:"low"`
	}{s.High.String(), s.Medium.String(), s.Low.String()})
}

// Threshold returns the target for p, or zero for an unknown priority.
func (s SLA) Threshold(p domain.Priority) time.Duration {
	switch p {
	case domain.PriorityHigh:
		return s.High
	case domain.PriorityMedium:
		return s.Medium
	case domain.PriorityLow:
		return s.Low
	}
	return 0
}

// Load reads and validates config from workspace.
func Load(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config %s not found; create one with helpdesk config init", path)
		}
		return nil, err
	}
	return FromYAML(data)
}

// LoadOptional returns Default() if the config file does not exist.
func LoadOptional(workspace string) (*Config, error) {
	data, err := os.ReadFile(Path(workspace))
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if !ValidDriver(c.Storage.Driver) {
		return fmt.Errorf("config.storage.driver must be one of file, sqlite; got %q", c.Storage.Driver)
	}
	if c.Storage.Driver == DriverFile && c.Storage.Path == "" {
		return fmt.Errorf("config.storage.path is required for the file driver")
	}
	for _, p := range domain.Priorities {
		if c.SLA.Threshold(p) <= 0 {
			return fmt.Errorf("config.sla.%s must be a positive duration", p)
		}
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config.log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	return nil
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, FileName)
}

// GenerateDefault returns default config YAML.
func GenerateDefault() string {
	return defaultTemplate
}

// Default returns the built-in configuration.
func Default() *Config {
	var cfg Config
	_ = yaml.NewDecoder(bytes.NewBufferString(defaultTemplate)).Decode(&cfg)
	return &cfg
}

// FromYAML parses and validates config from raw YAML bytes. Keys left out
// of the document keep their default values.
func FromYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromFile reads YAML config from the given path.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

const defaultTemplate = `storage:
  # file keeps one JSON document; sqlite keeps a snapshot row plus a save journal.
  driver: file
  path: helpdesk_state.json

# Target resolution time per priority. Open tickets older than this count as breaches.
sla:
  high: 4h
  medium: 24h
  low: 72h

policy:
  # When true, process and undo require the admin role.
  restrict_dispatch: false

log:
  level: warn
`
