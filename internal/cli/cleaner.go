package cli

import (
	"os"
	"path/filepath"

	"github.com/novaengine/compmeta/internal/errors"
)

// Cleaner removes the artifacts a previous run produced
type Cleaner struct {
	config *Config
}

// NewCleaner creates a new cleaner
func NewCleaner(config *Config) *Cleaner {
	return &Cleaner{config: config}
}

// Targets returns the output file followed by its copy in every copy_to directory
func (c *Cleaner) Targets() []string {
	targets := []string{c.config.Output}
	base := filepath.Base(c.config.Output)
	for _, dir := range c.config.CopyTo {
		targets = append(targets, filepath.Join(dir, base))
	}
	return targets
}

// Clean removes every target that exists and returns the removed paths.
// Missing targets are not an error.
func (c *Cleaner) Clean() ([]string, error) {
	var removed []string
	for _, target := range c.Targets() {
		ok, err := removeIfExists(target)
		if err != nil {
			return removed, err
		}
		if ok {
			removed = append(removed, target)
		}
	}
	return removed, nil
}

func removeIfExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.WrapFileSystemError("check", path, err)
	}
	if info.IsDir() {
		return false, errors.WrapFileSystemError("remove", path, os.ErrInvalid).
			WithSuggestion("The output path points at a directory; refusing to remove it")
	}
	if err := os.Remove(path); err != nil {
		return false, errors.WrapFileSystemError("remove", path, err)
	}
	return true, nil
}
