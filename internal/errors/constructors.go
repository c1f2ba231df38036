package errors

// Convenience constructors for the build's error kinds.

// Config errors

func ConfigNotFound(path string) *BuildError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *BuildError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Source errors

func SourceNotFound(path string) *BuildError {
	return New(CategorySource, SeverityFatal, "source root not found").
		WithContext("path", path)
}

func SourceFetchError(url string, cause error) *BuildError {
	return Wrap(cause, CategorySource, SeverityFatal, "source fetch failed").
		WithContext("url", url)
}

// Content errors

func FrontMatterParseError(path string, cause error) *BuildError {
	return Wrap(cause, CategoryFrontMatter, SeverityFatal, "front matter parse failed").
		WithContext("path", path)
}

func RenderError(path string, cause error) *BuildError {
	return Wrap(cause, CategoryRender, SeverityFatal, "page render failed").
		WithContext("path", path)
}

func OutputPathCollision(outputPath, firstSource, secondSource string) *BuildError {
	return New(CategoryCollision, SeverityFatal, "output path collision").
		WithContext("path", outputPath).
		WithContext("first_source", firstSource).
		WithContext("second_source", secondSource)
}

// Destination errors

func DestinationWriteError(path string, cause error) *BuildError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "destination write failed").
		WithContext("path", path)
}

// Internal errors

func InternalError(message string, cause error) *BuildError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
