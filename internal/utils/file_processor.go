package utils

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/novaengine/compmeta/internal/errors"
)

// FileProcessor provides utilities for common file processing operations
type FileProcessor struct{}

// NewFileProcessor creates a new file processor
func NewFileProcessor() *FileProcessor {
	return &FileProcessor{}
}

// FileFilter defines a function that determines whether a file should be processed.
// rel is the path relative to the walk root.
type FileFilter func(rel string, info fs.DirEntry) bool

// DirectoryFilter defines a function that determines whether a directory should be entered
type DirectoryFilter func(rel string, info fs.DirEntry) bool

// FileWalkOptions configures file walking behavior
type FileWalkOptions struct {
	FileFilter      FileFilter
	DirectoryFilter DirectoryFilter
	SkipErrors      bool
}

// ExtensionFilter matches regular files whose extension is one of exts (case-insensitive)
func ExtensionFilter(exts ...string) FileFilter {
	set := make(map[string]bool, len(exts))
	for _, ext := range exts {
		set[strings.ToLower(ext)] = true
	}
	return func(rel string, info fs.DirEntry) bool {
		if info.IsDir() {
			return false
		}
		return set[strings.ToLower(filepath.Ext(info.Name()))]
	}
}

// DefaultDirectoryFilter skips hidden and version control directories
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		".git": true,
		".svn": true,
		".hg":  true,
	}

	return func(rel string, info fs.DirEntry) bool {
		name := info.Name()
		if rel == "." {
			return true
		}
		if strings.HasPrefix(name, ".") {
			return false
		}
		return !skipDirs[name]
	}
}

// HasPathComponent reports whether any element of the slash- or
// backslash-separated path equals name
func HasPathComponent(path, name string) bool {
	if name == "" {
		return false
	}
	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == name {
			return true
		}
	}
	return false
}

// WalkFiles walks through files in a directory tree with filtering. Returned
// paths are joined onto rootDir and appear in lexical walk order.
func (fp *FileProcessor) WalkFiles(rootDir string, options FileWalkOptions) ([]string, error) {
	var matchedFiles []string

	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if options.SkipErrors {
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			return err
		}

		rel, relErr := filepath.Rel(rootDir, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if options.DirectoryFilter != nil && !options.DirectoryFilter(rel, d) {
				return filepath.SkipDir
			}
			return nil
		}

		if options.FileFilter == nil || options.FileFilter(rel, d) {
			matchedFiles = append(matchedFiles, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapFileSystemError("walk", rootDir, err)
	}

	return matchedFiles, nil
}

// WriteFile writes data to path through a temporary file in the same
// directory so readers never observe a partially written artifact
func (fp *FileProcessor) WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.WrapFileSystemError("create directory", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.WrapFileSystemError("create", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.WrapFileSystemError("write", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.WrapFileSystemError("write", path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return errors.WrapFileSystemError("chmod", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.WrapFileSystemError("rename", path, err)
	}
	return nil
}

// CopyToDir copies src into dstDir, keeping its base name, and returns the destination path
func (fp *FileProcessor) CopyToDir(src, dstDir string) (string, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return "", errors.WrapFileSystemError("read", src, err)
	}

	dst := filepath.Join(dstDir, filepath.Base(src))
	if err := fp.WriteFile(dst, data); err != nil {
		return "", err
	}
	return dst, nil
}
