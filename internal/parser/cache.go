package parser

import (
	"context"

	"github.com/novaengine/compmeta/internal/errors"
	"github.com/novaengine/compmeta/internal/models"
	"github.com/novaengine/compmeta/internal/utils"
)

// sourceParser is implemented by parsers that accept already-read source
type sourceParser interface {
	Parse(ctx context.Context, path string, src []byte) (*models.ParsedFile, error)
}

// CachingParser reuses parse results for files whose contents have not
// changed since they were last parsed. Entries are keyed by a digest of the
// file bytes, so edits that keep size and timestamp are still seen. Failed
// parses are not cached.
//
// A cache only pays off when the same CachingParser sees a tree more than
// once, as when a Generator is kept and Run repeatedly by an embedding tool.
type CachingParser struct {
	next  DeclarationParser
	cache *utils.FileCache[*models.ParsedFile]
}

// NewCachingParser wraps next with a content-keyed cache
func NewCachingParser(next DeclarationParser) *CachingParser {
	return &CachingParser{
		next:  next,
		cache: utils.NewFileCache[*models.ParsedFile](),
	}
}

// ParseFile returns the cached result for path or parses it
func (c *CachingParser) ParseFile(ctx context.Context, path string) (*models.ParsedFile, error) {
	src, stamp, err := utils.StampFile(path)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", path, err)
	}
	if file, ok := c.cache.Get(path, stamp); ok {
		return file, nil
	}

	var file *models.ParsedFile
	if sp, ok := c.next.(sourceParser); ok {
		file, err = sp.Parse(ctx, path, src)
	} else {
		file, err = c.next.ParseFile(ctx, path)
	}
	if err != nil {
		return nil, err
	}
	c.cache.Put(path, stamp, file)
	return file, nil
}

// Stats returns the cache statistics
func (c *CachingParser) Stats() utils.CacheStats {
	return c.cache.Stats()
}
