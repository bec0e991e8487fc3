package errors

import "fmt"

// Common error wrapping patterns used throughout the codebase

// WrapParseError wraps a parser failure for a file
func WrapParseError(path string, cause error) *SyntaxError {
	return &SyntaxError{
		BaseError: Wrap(SyntaxErrorCode, "failed to parse", cause).
			WithLocation(SourceLocation{File: path}),
	}
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapConfigurationError wraps configuration-related errors
func WrapConfigurationError(configType, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s configuration '%s'", operation, configType)
	return Wrap(ConfigurationErrorCode, message, cause).
		WithContext("config_type", configType).
		WithContext("operation", operation)
}

// ConfigurationError creates a configuration error
func ConfigurationError(key, message string) *BaseError {
	return New(ConfigurationErrorCode, fmt.Sprintf("invalid configuration '%s': %s", key, message)).
		WithContext("key", key)
}
