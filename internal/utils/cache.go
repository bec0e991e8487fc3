package utils

import (
	"os"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// FileStamp identifies one version of a file's contents. Two stamps are equal
// only when the bytes are, whatever the file's modification time says.
type FileStamp struct {
	Size   int64
	Digest [blake2b.Size256]byte
}

// StampBytes returns the stamp of data
func StampBytes(data []byte) FileStamp {
	return FileStamp{Size: int64(len(data)), Digest: blake2b.Sum256(data)}
}

// StampFile reads path and returns its contents with their stamp
func StampFile(path string) ([]byte, FileStamp, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, FileStamp{}, err
	}
	return data, StampBytes(data), nil
}

type cacheItem[V any] struct {
	value V
	stamp FileStamp
}

// FileCache memoizes values derived from file contents. An entry is only
// returned while the file still has the stamp it was stored with.
type FileCache[V any] struct {
	mutex  sync.RWMutex
	items  map[string]cacheItem[V]
	hits   int
	misses int
}

// NewFileCache creates a new file cache
func NewFileCache[V any]() *FileCache[V] {
	return &FileCache[V]{
		items: make(map[string]cacheItem[V]),
	}
}

// Get returns the value stored for path if it was stored with stamp.
// Stale entries are evicted.
func (c *FileCache[V]) Get(path string, stamp FileStamp) (V, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	item, exists := c.items[path]
	if exists && item.stamp == stamp {
		c.hits++
		return item.value, true
	}
	if exists {
		delete(c.items, path)
	}
	c.misses++

	var zero V
	return zero, false
}

// Put stores value for path at stamp
func (c *FileCache[V]) Put(path string, stamp FileStamp, value V) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.items[path] = cacheItem[V]{value: value, stamp: stamp}
}

// Clear removes all items from the cache
func (c *FileCache[V]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.items = make(map[string]cacheItem[V])
}

// Stats returns cache statistics
func (c *FileCache[V]) Stats() CacheStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return CacheStats{
		Entries: len(c.items),
		Hits:    c.hits,
		Misses:  c.misses,
	}
}

// CacheStats provides cache statistics
type CacheStats struct {
	Entries int
	Hits    int
	Misses  int
}
