package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *BaseError
		expected string
	}{
		{
			name:     "message only",
			err:      New(GenerationErrorCode, "nothing to emit"),
			expected: "nothing to emit",
		},
		{
			name:     "with cause",
			err:      Wrap(FileSystemErrorCode, "failed to read 'a.h'", fmt.Errorf("denied")),
			expected: "failed to read 'a.h': denied",
		},
		{
			name:     "with location",
			err:      New(SyntaxErrorCode, "syntax error").WithLocation(SourceLocation{File: "a.h", Line: 3}),
			expected: "a.h:3: syntax error",
		},
		{
			name:     "formatted",
			err:      Newf(ConfigurationErrorCode, "bad value %d", 7),
			expected: "bad value 7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestBaseError_Builders(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := New(ConfigurationErrorCode, "invalid").
		WithCause(cause).
		WithContext("key", "workers").
		WithSuggestion("use a positive number")

	assert.Equal(t, ConfigurationErrorCode, err.ErrorCode())
	assert.Equal(t, "workers", err.Context()["key"])
	assert.Equal(t, []string{"use a positive number"}, err.Suggestions())
	assert.True(t, stderrors.Is(err, cause))
	assert.NotNil(t, New(UnknownErrorCode, "x").Context())
}

func TestErrorCode_String(t *testing.T) {
	assert.Equal(t, "SyntaxError", SyntaxErrorCode.String())
	assert.Equal(t, "FileSystemError", FileSystemErrorCode.String())
	assert.Equal(t, "ConfigurationError", ConfigurationErrorCode.String())
	assert.Equal(t, "GenerationError", GenerationErrorCode.String())
	assert.Equal(t, "UnknownError", ErrorCode(99).String())
}

func TestSourceLocation_String(t *testing.T) {
	assert.Equal(t, "unknown location", SourceLocation{}.String())
	assert.Equal(t, "a.h", SourceLocation{File: "a.h"}.String())
	assert.Equal(t, "a.h:2", SourceLocation{File: "a.h", Line: 2}.String())
	assert.Equal(t, "a.h:2:5", SourceLocation{File: "a.h", Line: 2, Column: 5}.String())
	assert.True(t, SourceLocation{Line: 4}.IsEmpty())
}

func TestSyntaxError(t *testing.T) {
	err := NewSyntaxError("syntax error near 'float'").
		WithToken("float").
		WithLocation(SourceLocation{File: "Broken.h", Line: 1, Column: 30})

	assert.Equal(t, "Broken.h:1:30: syntax error near 'float'", err.Error())
	assert.Equal(t, "float", err.Token)

	var metaErr MetaError = err
	assert.Equal(t, SyntaxErrorCode, metaErr.ErrorCode())

	var target *SyntaxError
	assert.True(t, stderrors.As(fmt.Errorf("wrapped: %w", err), &target))
}

func TestGenerationError(t *testing.T) {
	cause := os.ErrPermission
	err := NewGenerationError("write", "out/metadata.json", cause)

	assert.Equal(t, "write", err.Stage)
	assert.Equal(t, "out/metadata.json", err.TargetFile)
	assert.Equal(t, GenerationErrorCode, err.ErrorCode())
	assert.Contains(t, err.Error(), "failed to write 'out/metadata.json'")
	assert.ErrorIs(t, err, os.ErrPermission)
}

func TestWrappers(t *testing.T) {
	parseErr := WrapParseError("a.h", fmt.Errorf("boom"))
	assert.Equal(t, SyntaxErrorCode, parseErr.ErrorCode())
	assert.Equal(t, "a.h", parseErr.Location().File)
	assert.Contains(t, parseErr.Error(), "boom")

	fsErr := WrapFileSystemError("read", "b.h", os.ErrNotExist)
	assert.Equal(t, FileSystemErrorCode, fsErr.ErrorCode())
	assert.Equal(t, "read", fsErr.Context()["operation"])
	assert.Equal(t, "b.h", fsErr.Context()["path"])
	assert.ErrorIs(t, fsErr, os.ErrNotExist)

	cfgErr := WrapConfigurationError("compmeta", "read", fmt.Errorf("bad yaml"))
	assert.Equal(t, "failed to read configuration 'compmeta': bad yaml", cfgErr.Error())

	keyErr := ConfigurationError("workers", "must be positive")
	assert.Equal(t, "invalid configuration 'workers': must be positive", keyErr.Error())
	assert.Equal(t, "workers", keyErr.Context()["key"])
}

func TestMultipleErrors(t *testing.T) {
	errs := NewMultipleErrors()
	assert.True(t, errs.IsEmpty())
	assert.Equal(t, "no errors", errs.Error())
	assert.NoError(t, errs.ErrOrNil())

	var nilErrs *MultipleErrors
	assert.NoError(t, nilErrs.ErrOrNil())

	first := NewSyntaxError("bad").WithLocation(SourceLocation{File: "a.h", Line: 1})
	errs.Add(first)
	assert.Equal(t, "a.h:1: bad", errs.Error())

	errs.Add(WrapFileSystemError("read", "b.h", os.ErrNotExist))
	assert.Equal(t, 2, errs.Count())
	assert.True(t, errs.HasCode(SyntaxErrorCode))
	assert.True(t, errs.HasCode(FileSystemErrorCode))
	assert.False(t, errs.HasCode(GenerationErrorCode))
	assert.Contains(t, errs.Error(), "multiple errors (2 total)")

	err := errs.ErrOrNil()
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	var syntaxErr *SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Same(t, first, syntaxErr)
}
