package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *Error {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigInvalid(path string, cause error) *Error {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration invalid").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *Error {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Processing errors

func FileError(operation, path string, cause error) *Error {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, operation+" failed").
		WithContext("path", path)
}

func TemplateError(name string, cause error) *Error {
	return Wrap(cause, CategoryTemplate, SeverityFatal, "template failed").
		WithContext("template", name)
}

func RenderError(path string, cause error) *Error {
	return Wrap(cause, CategoryRender, SeverityFatal, "page render failed").
		WithContext("path", path)
}

func UnknownFilter(name string) *Error {
	return New(CategoryValidation, SeverityFatal, "unknown filter").
		WithContext("filter", name)
}

// Internal errors

func InternalError(message string, cause error) *Error {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
