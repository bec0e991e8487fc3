package parser

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novaengine/compmeta/internal/models"
)

type countingParser struct {
	inner *Parser
	calls int
}

func (c *countingParser) ParseFile(ctx context.Context, path string) (*models.ParsedFile, error) {
	c.calls++
	return c.inner.ParseFile(ctx, path)
}

func TestCachingParser(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Transform.h")
	require.NoError(t, os.WriteFile(path, []byte("struct Transform : IComponent { float x; };\n"), 0644))

	counter := &countingParser{inner: NewParser(Options{})}
	cached := NewCachingParser(counter)

	first, err := cached.ParseFile(context.Background(), path)
	require.NoError(t, err)
	second, err := cached.ParseFile(context.Background(), path)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, counter.calls)
	assert.Equal(t, 1, cached.Stats().Hits)

	require.NoError(t, os.WriteFile(path, []byte("struct Transform : IComponent { float x; int y; };\n"), 0644))
	third, err := cached.ParseFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, counter.calls)
	require.Len(t, third.Types, 1)
	assert.Len(t, third.Types[0].PublicMembers, 2)
}

func TestCachingParser_SameSizeEditIsReparsed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Tag.h")
	require.NoError(t, os.WriteFile(path, []byte("struct Aaa : IComponent { int x; };\n"), 0644))
	info, err := os.Stat(path)
	require.NoError(t, err)

	cached := NewCachingParser(NewParser(Options{}))
	first, err := cached.ParseFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, first.Types, 1)
	assert.Equal(t, "Aaa", first.Types[0].Name)

	require.NoError(t, os.WriteFile(path, []byte("struct Bbb : IComponent { int x; };\n"), 0644))
	require.NoError(t, os.Chtimes(path, info.ModTime(), info.ModTime()))

	second, err := cached.ParseFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, second.Types, 1)
	assert.Equal(t, "Bbb", second.Types[0].Name)
	assert.Equal(t, 0, cached.Stats().Hits)
}

func TestCachingParser_FailuresAreNotCached(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Broken.h")
	require.NoError(t, os.WriteFile(path, []byte("struct Broken : IComponent { float x \n"), 0644))

	counter := &countingParser{inner: NewParser(Options{})}
	cached := NewCachingParser(counter)

	_, err := cached.ParseFile(context.Background(), path)
	require.Error(t, err)
	_, err = cached.ParseFile(context.Background(), path)
	require.Error(t, err)

	assert.Equal(t, 2, counter.calls)
	assert.Equal(t, 0, cached.Stats().Entries)
}

func TestCachingParser_MissingFile(t *testing.T) {
	cached := NewCachingParser(NewParser(Options{}))
	_, err := cached.ParseFile(context.Background(), filepath.Join(t.TempDir(), "absent.h"))
	assert.Error(t, err)
}
