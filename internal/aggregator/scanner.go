package aggregator

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/novaengine/compmeta/internal/errors"
	"github.com/novaengine/compmeta/internal/utils"
)

// ScanPolicy decides which files under a source tree are parsed
type ScanPolicy struct {
	// PackagesDir names dependency directories that are never scanned.
	PackagesDir string
	// SharedDir names directories whose headers are skipped. Implementation
	// files below it are still scanned.
	SharedDir string

	HeaderExts []string
	SourceExts []string
}

// DefaultScanPolicy returns the engine's source layout policy
func DefaultScanPolicy() ScanPolicy {
	return ScanPolicy{
		PackagesDir: "packages",
		SharedDir:   "Shared",
		HeaderExts:  []string{".h", ".hh", ".hpp", ".hxx", ".inl"},
		SourceExts:  []string{".c", ".cc", ".cpp", ".cxx"},
	}
}

// Scanner discovers C++ files under one or more roots
type Scanner struct {
	policy        ScanPolicy
	fileProcessor *utils.FileProcessor
}

// NewScanner creates a new scanner
func NewScanner(policy ScanPolicy) *Scanner {
	return &Scanner{
		policy:        policy,
		fileProcessor: utils.NewFileProcessor(),
	}
}

// Scan returns the absolute, sorted, de-duplicated list of files to parse.
// A trailing "/..." on a root is accepted and ignored; every walk is recursive.
func (s *Scanner) Scan(roots ...string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, root := range roots {
		root = strings.TrimSuffix(root, "/...")
		if root == "" {
			root = "."
		}
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, errors.WrapFileSystemError("resolve", root, err)
		}

		matched, err := s.fileProcessor.WalkFiles(abs, utils.FileWalkOptions{
			FileFilter:      s.fileFilter(),
			DirectoryFilter: s.directoryFilter(),
		})
		if err != nil {
			return nil, err
		}

		for _, path := range matched {
			if !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

func (s *Scanner) fileFilter() utils.FileFilter {
	isHeader := utils.ExtensionFilter(s.policy.HeaderExts...)
	isSource := utils.ExtensionFilter(s.policy.SourceExts...)

	return func(rel string, info fs.DirEntry) bool {
		switch {
		case isHeader(rel, info):
			return !utils.HasPathComponent(rel, s.policy.SharedDir)
		case isSource(rel, info):
			return true
		default:
			return false
		}
	}
}

func (s *Scanner) directoryFilter() utils.DirectoryFilter {
	base := utils.DefaultDirectoryFilter()
	return func(rel string, info fs.DirEntry) bool {
		if rel != "." && s.policy.PackagesDir != "" && info.Name() == s.policy.PackagesDir {
			return false
		}
		return base(rel, info)
	}
}
