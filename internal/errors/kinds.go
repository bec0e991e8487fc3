package errors

import "fmt"

// SyntaxError is returned when a source file cannot be parsed
type SyntaxError struct {
	*BaseError
	Token string // the offending source text, if known
}

// NewSyntaxError creates a new syntax error
func NewSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		BaseError: New(SyntaxErrorCode, message),
	}
}

// WithToken sets the problematic token
func (e *SyntaxError) WithToken(token string) *SyntaxError {
	e.Token = token
	return e
}

// WithLocation adds location information to the error
func (e *SyntaxError) WithLocation(loc SourceLocation) *SyntaxError {
	e.BaseError.WithLocation(loc)
	return e
}

// GenerationError represents a failure producing or publishing the metadata artifact
type GenerationError struct {
	*BaseError
	TargetFile string // artifact being written
	Stage      string // encode, write or copy
}

// NewGenerationError creates a new generation error
func NewGenerationError(stage, target string, cause error) *GenerationError {
	return &GenerationError{
		BaseError:  Wrap(GenerationErrorCode, fmt.Sprintf("failed to %s '%s'", stage, target), cause),
		TargetFile: target,
		Stage:      stage,
	}
}
