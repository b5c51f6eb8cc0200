package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ScanOptions selects the files a scan returns.
type ScanOptions struct {
	Include       []string // doublestar globs on the root-relative slash path, e.g. "screens/**/*.c"
	Extensions    []string // ".c", "h", ".CPP"; empty accepts every extension
	Recursive     bool
	ExcludeDirs   []string // directory names pruned anywhere in the tree
	IncludeHidden bool     // descend into dot directories
	MaxDepth      int      // 0 unlimited, 1 root only
}

// ScanResult lists matched files as absolute paths (Files) and as paths
// relative to the scan root (Rel), index for index. Errors collects the
// entries that could not be read; the walk skips past them.
type ScanResult struct {
	Files  []string
	Rel    []string
	Errors []error
}

// ScanDirectory walks dir and returns the regular files that pass opts,
// sorted by absolute path.
func ScanDirectory(dir string, opts ScanOptions) (*ScanResult, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan %s: not a directory", dir)
	}

	for _, pattern := range opts.Include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid include pattern %q", pattern)
		}
	}

	wantExt := make(map[string]bool, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		wantExt["."+strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}
	pruned := make(map[string]bool, len(opts.ExcludeDirs))
	for _, name := range opts.ExcludeDirs {
		pruned[name] = true
	}

	type match struct{ abs, rel string }
	var matches []match
	result := &ScanResult{Files: []string{}, Rel: []string{}, Errors: []error{}}

	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("read %s: %w", path, err))
			return nil
		}
		if path == dir {
			return nil
		}

		relPath, err := filepath.Rel(dir, path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("failed to relativize %s: %w", path, err))
			return nil
		}

		if d.IsDir() {
			hidden := !opts.IncludeHidden && strings.HasPrefix(d.Name(), ".")
			tooDeep := opts.MaxDepth > 0 && strings.Count(relPath, string(filepath.Separator))+1 >= opts.MaxDepth
			if pruned[d.Name()] || hidden || !opts.Recursive || tooDeep {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		if len(wantExt) > 0 && !wantExt[strings.ToLower(filepath.Ext(d.Name()))] {
			return nil
		}

		if len(opts.Include) > 0 && !matchesAny(opts.Include, relPath) {
			return nil
		}

		absPath, err := filepath.Abs(path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("resolve %s: %w", path, err))
			return nil
		}

		matches = append(matches, match{abs: absPath, rel: relPath})
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].abs < matches[j].abs })
	for _, m := range matches {
		result.Files = append(result.Files, m.abs)
		result.Rel = append(result.Rel, m.rel)
	}

	return result, nil
}

// matchesAny reports whether rel matches one of the doublestar patterns.
func matchesAny(patterns []string, rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}
