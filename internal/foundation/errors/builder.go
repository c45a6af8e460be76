package errors

// ErrorBuilder assembles a ClassifiedError.
type ErrorBuilder struct {
	err ClassifiedError
}

// NewError starts a fatal error of category.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{err: ClassifiedError{
		category: category,
		severity: SeverityFatal,
		message:  message,
		context:  make(ErrorContext),
	}}
}

// WrapError starts an error of category caused by err.
func WrapError(err error, category ErrorCategory, message string) *ErrorBuilder {
	return NewError(category, message).WithCause(err)
}

// WithCause sets the wrapped error.
func (b *ErrorBuilder) WithCause(err error) *ErrorBuilder {
	b.err.cause = err
	return b
}

// WithContext attaches a context value.
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.err.context = b.err.context.Set(key, value)
	return b
}

// Warning marks the error as degrading a run rather than ending it.
func (b *ErrorBuilder) Warning() *ErrorBuilder {
	b.err.severity = SeverityWarning
	return b
}

// Build returns the assembled error.
func (b *ErrorBuilder) Build() *ClassifiedError {
	e := b.err
	return &e
}

// LayoutError reports a launcher started outside the project root.
func LayoutError(message string) *ErrorBuilder {
	return NewError(CategoryLayout, message)
}

// PrerequisiteError reports a required executable missing from PATH.
func PrerequisiteError(message string) *ErrorBuilder {
	return NewError(CategoryPrerequisite, message)
}

// SetupError reports a failed dependency installation or seed step.
// Attach the step's status under ContextExitCode to propagate it.
func SetupError(message string) *ErrorBuilder {
	return NewError(CategorySetup, message)
}

// SpawnError reports a subsystem process that could not be started.
func SpawnError(message string) *ErrorBuilder {
	return NewError(CategorySpawn, message)
}

// ConfigError reports an unreadable or malformed config file.
func ConfigError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message)
}

// ValidationError reports a config value that parsed but is unusable.
func ValidationError(message string) *ErrorBuilder {
	return NewError(CategoryValidation, message)
}

// FileSystemError reports a failed filesystem query.
func FileSystemError(message string) *ErrorBuilder {
	return NewError(CategoryFileSystem, message)
}

// EventStoreError creates a run journal error. Journal failures never stop a run.
func EventStoreError(message string) *ErrorBuilder {
	return NewError(CategoryEventStore, message).Warning()
}

// NotifyError creates an event publishing error.
func NotifyError(message string) *ErrorBuilder {
	return NewError(CategoryNotify, message).Warning()
}

// InternalError reports a launcher wired without a required collaborator.
func InternalError(message string) *ErrorBuilder {
	return NewError(CategoryInternal, message)
}
