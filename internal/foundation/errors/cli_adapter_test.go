package errors

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default(), nil)

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "wrong directory", err: LayoutError("frontend directory not found").Build(), expected: 1},
		{name: "missing tool", err: PrerequisiteError("not found").WithContext(ContextTool, "node").Build(), expected: 1},
		{name: "setup propagates step status", err: SetupError("pip install failed").WithContext(ContextExitCode, 3).Build(), expected: 3},
		{name: "setup without status", err: SetupError("venv creation failed").Build(), expected: 1},
		{name: "validation error", err: ValidationError("bad port").Build(), expected: 2},
		{name: "config error", err: ConfigError("bad yaml").Build(), expected: 7},
		{name: "internal error", err: InternalError("no supervisor").Build(), expected: 10},
		{name: "wrapped setup error", err: fmt.Errorf("backend: %w", SetupError("seed failed").WithContext(ContextExitCode, 5).Build()), expected: 5},
		{name: "unclassified error", err: &customError{msg: "unknown error"}, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(tt.err); got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default(), nil)

	tests := []struct {
		name     string
		err      error
		contains []string
	}{
		{name: "nil error", err: nil},
		{
			name:     "layout error names directory",
			err:      LayoutError("expected subdirectory not found").WithContext(ContextDir, "frontend").Build(),
			contains: []string{"Wrong directory", "frontend"},
		},
		{
			name:     "missing tool names tool",
			err:      PrerequisiteError("required tool not found on PATH").WithContext(ContextTool, "npm").Build(),
			contains: []string{"Missing prerequisite", "(npm)"},
		},
		{
			name:     "hint is rendered",
			err:      LayoutError("bad dir").WithContext(ContextHint, "run from /repo").Build(),
			contains: []string{"hint: run from /repo"},
		},
		{
			name:     "unclassified error",
			err:      &customError{msg: "unknown error"},
			contains: []string{"Error: unknown error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := adapter.FormatError(tt.err)
			if len(tt.contains) == 0 && got != "" {
				t.Fatalf("FormatError() = %q, want empty string", got)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("FormatError() = %q, want to contain %q", got, want)
				}
			}
		})
	}
}

func TestCLIErrorAdapter_Report(t *testing.T) {
	var out bytes.Buffer
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), &out)

	code := adapter.Report(SetupError("seed failed").WithContext(ContextStep, "seed").WithContext(ContextExitCode, 4).Build())
	if code != 4 {
		t.Fatalf("expected exit code 4, got %d", code)
	}
	if !strings.Contains(out.String(), "Setup failed: seed failed [step seed]") {
		t.Fatalf("unexpected diagnostic %q", out.String())
	}
}

// customError is a test helper for unclassified errors
type customError struct {
	msg string
}

func (e *customError) Error() string {
	return e.msg
}
