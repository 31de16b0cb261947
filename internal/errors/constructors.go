package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *RefgenError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigInvalid(field, reason string) *RefgenError {
	return New(CategoryConfig, SeverityFatal, "invalid configuration").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Spec document errors. Malformed shape aborts the affected document only.

func MalformedSpec(file, reason string) *RefgenError {
	return New(CategorySpec, SeverityFatal, "malformed spec document").
		WithContext("file", file).
		WithContext("reason", reason)
}

func SpecReadError(file string, cause error) *RefgenError {
	return Wrap(cause, CategorySpec, SeverityFatal, "cannot read spec document").
		WithContext("file", file)
}

// Symbol database errors

func SymbolDBMissing(typeName string) *RefgenError {
	return New(CategorySymbolDB, SeverityWarning, "no symbol database file found").
		WithContext("type", typeName)
}

func SymbolDBParseError(file string, cause error) *RefgenError {
	return Wrap(cause, CategorySymbolDB, SeverityError, "cannot parse symbol database").
		WithContext("file", file)
}

// Filesystem errors on artifact writes and sweeps are fatal for the run.

func ArtifactWriteError(path string, cause error) *RefgenError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "artifact write failed").
		WithContext("path", path)
}

func SweepError(dir string, cause error) *RefgenError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "orphan sweep failed").
		WithContext("dir", dir)
}

func InternalError(message string, cause error) *RefgenError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
