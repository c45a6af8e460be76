package config

import "time"

// Defaults mirroring the original bootstrap script.
const (
	DefaultBackendDir     = "backend"
	DefaultFrontendDir    = "frontend"
	DefaultPython         = "python3"
	DefaultVenvDir        = "venv"
	DefaultRequirements   = "requirements.txt"
	DefaultDatabase       = "branch_messaging.db"
	DefaultSeedScript     = "seed_data.py"
	DefaultApp            = "app.main:app"
	DefaultBackendHost    = "0.0.0.0"
	DefaultBackendPort    = 8000
	DefaultPackageManager = "npm"
	DefaultModulesDir     = "node_modules"
	DefaultScript         = "dev"
	DefaultFrontendPort   = 3000
	DefaultStartupDelay   = 3 * time.Second
	DefaultStateDir       = ".branchlaunch"
	DefaultJournalFile    = "events.db"
	DefaultMetricsPath    = "/metrics"
	DefaultWatchDebounce  = 2 * time.Second
	DefaultNotifySubject  = "branchlaunch.events"
)

// Defaults returns a fully populated configuration.
func Defaults() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills unset values. An explicit zero StartupDelay disables the delay.
func applyDefaults(cfg *Config) {
	if cfg.Version == "" {
		cfg.Version = "1"
	}
	if cfg.StartupDelay == nil {
		delay := DefaultStartupDelay
		cfg.StartupDelay = &delay
	}
	if cfg.StateDir == "" {
		cfg.StateDir = DefaultStateDir
	}
	applyBackendDefaults(&cfg.Backend)
	applyFrontendDefaults(&cfg.Frontend)
	if len(cfg.Prerequisites) == 0 {
		cfg.Prerequisites = []string{cfg.Backend.Python, "node", cfg.Frontend.PackageManager}
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = string(LogLevelInfo)
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = string(LogFormatText)
	}
	if cfg.Journal.File == "" {
		cfg.Journal.File = DefaultJournalFile
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}
	if cfg.Notify.Subject == "" {
		cfg.Notify.Subject = DefaultNotifySubject
	}
}

func applyBackendDefaults(b *BackendConfig) {
	if b.Dir == "" {
		b.Dir = DefaultBackendDir
	}
	if b.Python == "" {
		b.Python = DefaultPython
	}
	if b.VenvDir == "" {
		b.VenvDir = DefaultVenvDir
	}
	if b.Requirements == "" {
		b.Requirements = DefaultRequirements
	}
	if b.Database == "" {
		b.Database = DefaultDatabase
	}
	if b.SeedScript == "" {
		b.SeedScript = DefaultSeedScript
	}
	if b.App == "" {
		b.App = DefaultApp
	}
	if b.Host == "" {
		b.Host = DefaultBackendHost
	}
	if b.Port == 0 {
		b.Port = DefaultBackendPort
	}
}

func applyFrontendDefaults(f *FrontendConfig) {
	if f.Dir == "" {
		f.Dir = DefaultFrontendDir
	}
	if f.PackageManager == "" {
		f.PackageManager = DefaultPackageManager
	}
	if f.ModulesDir == "" {
		f.ModulesDir = DefaultModulesDir
	}
	if f.Script == "" {
		f.Script = DefaultScript
	}
	if f.Port == 0 {
		f.Port = DefaultFrontendPort
	}
}
