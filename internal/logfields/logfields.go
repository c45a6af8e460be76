package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyProcess    = "process"
	KeyPID        = "pid"
	KeyTool       = "tool"
	KeyStep       = "step"
	KeyDir        = "dir"
	KeyPath       = "path"
	KeyCommand    = "command"
	KeyExitCode   = "exit_code"
	KeyDurationMS = "duration_ms"
	KeyURL        = "url"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Process(name string) slog.Attr   { return slog.String(KeyProcess, name) }
func PID(pid int) slog.Attr           { return slog.Int(KeyPID, pid) }
func Tool(name string) slog.Attr      { return slog.String(KeyTool, name) }
func Step(name string) slog.Attr      { return slog.String(KeyStep, name) }
func Dir(d string) slog.Attr          { return slog.String(KeyDir, d) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Command(c string) slog.Attr      { return slog.String(KeyCommand, c) }
func ExitCode(code int) slog.Attr     { return slog.Int(KeyExitCode, code) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
