package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// CLIErrorAdapter handles error presentation and exit code determination for CLI applications.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
}

// NewCLIErrorAdapter creates an adapter that logs to logger and prints
// diagnostics to out. Nil arguments select slog.Default and os.Stderr.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger, out io.Writer) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	if out == nil {
		out = os.Stderr
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
		out:     out,
	}
}

// ExitCodeFor determines the process status for err. Unclassified errors exit 1.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	if classified, ok := AsClassified(err); ok {
		return classified.ExitCode()
	}
	return 1
}

// FormatError formats an error as a short labeled diagnostic.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	if classified, ok := AsClassified(err); ok {
		return a.formatClassified(classified)
	}

	return fmt.Sprintf("Error: %v", err)
}

func (a *CLIErrorAdapter) formatClassified(err *ClassifiedError) string {
	if a.verbose {
		return err.Error()
	}

	var b strings.Builder
	b.WriteString(labelFor(err.Category()))
	b.WriteString(": ")
	b.WriteString(err.Message())
	if tool, ok := err.Context().GetString(ContextTool); ok {
		fmt.Fprintf(&b, " (%s)", tool)
	}
	if dir, ok := err.Context().GetString(ContextDir); ok {
		fmt.Fprintf(&b, " (%s)", dir)
	}
	if step, ok := err.Context().GetString(ContextStep); ok {
		fmt.Fprintf(&b, " [step %s]", step)
	}
	if hint, ok := err.Context().GetString(ContextHint); ok {
		b.WriteString("\n  hint: ")
		b.WriteString(hint)
	}
	return b.String()
}

func labelFor(category ErrorCategory) string {
	switch category {
	case CategoryLayout:
		return "Wrong directory"
	case CategoryPrerequisite:
		return "Missing prerequisite"
	case CategorySetup:
		return "Setup failed"
	case CategorySpawn:
		return "Start failed"
	case CategoryConfig, CategoryValidation:
		return "Configuration error"
	default:
		return "Error"
	}
}

// Report logs the error and prints the diagnostic, returning the exit code.
func (a *CLIErrorAdapter) Report(err error) int {
	if err == nil {
		return 0
	}
	if a.shouldLog(err) {
		a.logError(err)
	}
	_, _ = fmt.Fprintln(a.out, a.FormatError(err))
	return a.ExitCodeFor(err)
}

// shouldLog determines if an error should be logged.
func (a *CLIErrorAdapter) shouldLog(err error) bool {
	if a.verbose {
		return true
	}
	if classified, ok := AsClassified(err); ok {
		return classified.Severity() != SeverityFatal
	}
	return true
}

// logError logs an error with appropriate level and context.
func (a *CLIErrorAdapter) logError(err error) {
	if classified, ok := AsClassified(err); ok {
		level := a.slogLevelFromSeverity(classified.Severity())
		attrs := []slog.Attr{
			slog.String("category", string(classified.Category())),
		}
		for k, v := range classified.Context() {
			attrs = append(attrs, slog.Any(k, v))
		}
		if classified.Cause() != nil {
			attrs = append(attrs, slog.String("cause", classified.Cause().Error()))
		}
		a.logger.LogAttrs(context.Background(), level, classified.Message(), attrs...)
		return
	}

	a.logger.Error("Unclassified error", "error", err)
}

func (a *CLIErrorAdapter) slogLevelFromSeverity(severity ErrorSeverity) slog.Level {
	if severity == SeverityWarning {
		return slog.LevelWarn
	}
	return slog.LevelError
}
