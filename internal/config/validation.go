package config

import (
	"fmt"
	"strings"

	ferrors "git.home.luguber.info/inful/branchlaunch/internal/foundation/errors"
)

// Validate checks the configuration for values the launcher cannot act on.
func (c *Config) Validate() error {
	var problems []string

	if c.StartupDelay != nil && *c.StartupDelay < 0 {
		problems = append(problems, "startup_delay must not be negative")
	}
	if c.Backend.Dir == "" || c.Frontend.Dir == "" {
		problems = append(problems, "backend.dir and frontend.dir are required")
	}
	if c.Backend.Dir != "" && c.Backend.Dir == c.Frontend.Dir {
		problems = append(problems, "backend.dir and frontend.dir must differ")
	}
	if !validPort(c.Backend.Port) {
		problems = append(problems, fmt.Sprintf("backend.port %d out of range", c.Backend.Port))
	}
	if !validPort(c.Frontend.Port) {
		problems = append(problems, fmt.Sprintf("frontend.port %d out of range", c.Frontend.Port))
	}
	for _, field := range []struct{ key, value string }{
		{"backend.python", c.Backend.Python},
		{"backend.app", c.Backend.App},
		{"frontend.package_manager", c.Frontend.PackageManager},
		{"frontend.script", c.Frontend.Script},
	} {
		if strings.TrimSpace(field.value) == "" {
			problems = append(problems, field.key+" must not be blank")
		}
	}
	for i, tool := range c.Prerequisites {
		if strings.TrimSpace(tool) == "" {
			problems = append(problems, fmt.Sprintf("prerequisites[%d] is empty", i))
		}
	}
	if _, err := logLevelNormalizer.NormalizeWithError(c.Logging.Level); err != nil {
		problems = append(problems, "logging.level: "+err.Error())
	}
	if _, err := logFormatNormalizer.NormalizeWithError(c.Logging.Format); err != nil {
		problems = append(problems, "logging.format: "+err.Error())
	}
	if c.Monitor.Interval < 0 {
		problems = append(problems, "monitor.interval must not be negative")
	}
	if c.Metrics.Path != "" && !strings.HasPrefix(c.Metrics.Path, "/") {
		problems = append(problems, "metrics.path must start with /")
	}

	if len(problems) == 0 {
		return nil
	}
	return ferrors.ValidationError("invalid configuration: " + strings.Join(problems, "; ")).Build()
}

func validPort(p int) bool {
	return p > 0 && p <= 65535
}
