package errors

// ErrorCategory represents the broad category of an error for classification and routing.
type ErrorCategory string

const (
	// CategoryLayout represents a launcher started from the wrong working directory.
	CategoryLayout       ErrorCategory = "layout"
	CategoryPrerequisite ErrorCategory = "prerequisite"
	CategoryConfig       ErrorCategory = "config"
	CategoryValidation   ErrorCategory = "validation"

	// CategorySetup represents dependency installation and seeding failures.
	CategorySetup      ErrorCategory = "setup"
	CategorySpawn      ErrorCategory = "spawn"
	CategoryFileSystem ErrorCategory = "filesystem"

	// CategoryEventStore represents supporting infrastructure errors.
	CategoryEventStore ErrorCategory = "eventstore"
	CategoryNotify     ErrorCategory = "notify"
	CategoryInternal   ErrorCategory = "internal"
)

// Well-known context keys.
const (
	ContextTool     = "tool"
	ContextDir      = "dir"
	ContextStep     = "step"
	ContextExitCode = "exit_code"
	ContextProcess  = "process"
	ContextHint     = "hint"
	ContextPath     = "path"
)

// ErrorSeverity tells whether an error ends the run or only degrades it.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"
	SeverityWarning ErrorSeverity = "warning"
)

// exitCodes maps categories to process status. Unlisted categories exit 1.
var exitCodes = map[ErrorCategory]int{
	CategoryValidation: 2,
	CategoryConfig:     7,
	CategoryInternal:   10,
}

// ErrorContext provides structured context for errors.
type ErrorContext map[string]any

// Set adds or updates a context value.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}

// Get retrieves a context value.
func (c ErrorContext) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	value, exists := c[key]
	return value, exists
}

// GetString retrieves a string context value.
func (c ErrorContext) GetString(key string) (string, bool) {
	if value, exists := c.Get(key); exists {
		if str, ok := value.(string); ok {
			return str, true
		}
	}
	return "", false
}

// GetInt retrieves an int context value.
func (c ErrorContext) GetInt(key string) (int, bool) {
	if value, exists := c.Get(key); exists {
		if n, ok := value.(int); ok {
			return n, true
		}
	}
	return 0, false
}
