package errors

// Convenience functions for common error patterns

// Config errors

func ConfigInvalid(path string, cause error) *NileError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration invalid").
		WithContext("path", path)
}

func ConfigRequired(field string) *NileError {
	return New(CategoryConfig, SeverityFatal, "required configuration missing").
		WithContext("field", field)
}

func ValidationFailed(field, reason string) *NileError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Hook errors

func HookUnresolved(point, name string, cause error) *NileError {
	return Wrap(cause, CategoryHook, SeverityFatal, "hook registration could not be resolved").
		WithContext("extension_point", point).
		WithContext("hook", name)
}

func HookFailed(hook, artifact string, cause error) *NileError {
	return Wrap(cause, CategoryHook, SeverityFatal, "hook failed").
		WithContext("hook", hook).
		WithContext("artifact", artifact)
}

// Compile pipeline errors

func CompilerUnavailable(command, artifact string, cause error) *NileError {
	return Wrap(cause, CategoryCompiler, SeverityFatal, "compiler could not be started").
		WithContext("command", command).
		WithContext("artifact", artifact)
}

func DiscoveryError(dir string, cause error) *NileError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "contract discovery failed").
		WithContext("path", dir)
}

func WorkspaceError(operation string, cause error) *NileError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "workspace operation failed").
		WithContext("operation", operation)
}

// CompileFailed signals a completed run that reported failing contracts.
func CompileFailed(failures int) *NileError {
	return New(CategoryCompiler, SeverityError, "contracts failed to compile").
		WithContext("failures", failures)
}

// Events errors

func EventPublishFailed(subject string, cause error) *NileError {
	return Wrap(cause, CategoryEvents, SeverityWarning, "run event could not be published").
		WithContext("subject", subject)
}

// Internal errors

func InternalError(message string, cause error) *NileError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
