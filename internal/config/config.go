package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/branchlaunch/internal/foundation/errors"
)

// DefaultPath is the configuration file looked up when no --config flag is given.
const DefaultPath = "branchlaunch.yaml"

// Config represents the launcher configuration. Every field has a default that
// reproduces the stock Branch Messaging App layout, so the file is optional.
type Config struct {
	Version       string         `yaml:"version,omitempty"`
	Prerequisites []string       `yaml:"prerequisites"`
	StartupDelay  *time.Duration `yaml:"startup_delay"`
	StateDir      string         `yaml:"state_dir"`
	Backend       BackendConfig  `yaml:"backend"`
	Frontend      FrontendConfig `yaml:"frontend"`
	Logging       LoggingConfig  `yaml:"logging"`
	Journal       JournalConfig  `yaml:"journal"`
	Metrics       MetricsConfig  `yaml:"metrics"`
	Monitor       MonitorConfig  `yaml:"monitor"`
	Watch         WatchConfig    `yaml:"watch"`
	Notify        NotifyConfig   `yaml:"notify"`
}

// BackendConfig describes the Python API subsystem.
type BackendConfig struct {
	Dir          string            `yaml:"dir"`
	Python       string            `yaml:"python"`
	VenvDir      string            `yaml:"venv_dir"`
	Requirements string            `yaml:"requirements"`
	Database     string            `yaml:"database"`
	SeedScript   string            `yaml:"seed_script"`
	App          string            `yaml:"app"`
	Host         string            `yaml:"host"`
	Port         int               `yaml:"port"`
	Env          map[string]string `yaml:"env,omitempty"`
}

// FrontendConfig describes the JavaScript dev server subsystem.
type FrontendConfig struct {
	Dir            string            `yaml:"dir"`
	PackageManager string            `yaml:"package_manager"`
	ModulesDir     string            `yaml:"modules_dir"`
	Script         string            `yaml:"script"`
	Port           int               `yaml:"port"`
	Env            map[string]string `yaml:"env,omitempty"`
}

// LoggingConfig controls the launcher's own slog output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// JournalConfig controls the SQLite run journal kept in the state directory.
type JournalConfig struct {
	Disabled bool   `yaml:"disabled"`
	File     string `yaml:"file"`
}

// MetricsConfig exposes Prometheus metrics when Listen is set (e.g. "127.0.0.1:9464").
type MetricsConfig struct {
	Listen string `yaml:"listen"`
	Path   string `yaml:"path"`
}

// MonitorConfig enables periodic liveness reports for managed processes.
type MonitorConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// WatchConfig re-runs dependency installation when a manifest changes.
type WatchConfig struct {
	Manifests bool          `yaml:"manifests"`
	Debounce  time.Duration `yaml:"debounce"`
}

// NotifyConfig publishes lifecycle events to NATS when URL is set.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// Load reads the configuration file, applies defaults and validates the result.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, ferrors.ConfigError("configuration file not found").
			WithContext(ferrors.ContextPath, configPath).
			Build()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read config file").
			WithContext(ferrors.ContextPath, configPath).
			Build()
	}

	return Parse(data)
}

// LoadOptional behaves like Load but returns defaults when the file does not exist.
func LoadOptional(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		loadEnvFiles()
		cfg := Defaults()
		return cfg, cfg.Validate()
	}
	return Load(configPath)
}

// Parse decodes YAML content with environment variable expansion.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to parse config").Build()
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
