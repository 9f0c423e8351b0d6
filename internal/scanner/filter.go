package scanner

import (
	"sort"
	"strings"
)

// FilterOptions defines criteria for including or excluding corpus files.
type FilterOptions struct {
	// ExcludeDirs is a list of directory names to exclude.
	// Matching is segment-aware: "harness" excludes "harness/a.js" and
	// "test/harness/b.js", but not "harness-extra/c.js".
	ExcludeDirs []string

	// IncludeExtensions is a list of extensions to include (e.g., ".js").
	// If empty, all extensions are included.
	IncludeExtensions []string

	// ExcludeSuffixes drops files whose name ends with one of the suffixes
	// (e.g., "_FIXTURE.js" for module fixtures that are not tests).
	ExcludeSuffixes []string
}

// DefaultExcludeDirs returns the directories that never hold runnable tests.
// A corpus "harness" directory is not among them: the tests of the harness
// helpers live there and are selected like any other test.
func DefaultExcludeDirs() []string {
	return []string{
		"node_modules",
		".git",
		".conform",
	}
}

// TestFileOptions is the filter used for corpus test discovery.
func TestFileOptions() FilterOptions {
	return FilterOptions{
		ExcludeDirs:       DefaultExcludeDirs(),
		IncludeExtensions: []string{".js"},
		ExcludeSuffixes:   []string{"_FIXTURE.js"},
	}
}

// FilterFiles applies the filter options to a list of slash-separated
// relative paths. It returns a new slice, sorted deterministically.
func FilterFiles(paths []string, opts FilterOptions) []string {
	if len(paths) == 0 {
		return nil
	}

	var filtered []string
	for _, path := range paths {
		if shouldExclude(path, opts.ExcludeDirs) {
			continue
		}
		if !shouldIncludeExtension(path, opts.IncludeExtensions) {
			continue
		}
		if hasSuffix(path, opts.ExcludeSuffixes) {
			continue
		}
		filtered = append(filtered, path)
	}

	sort.Strings(filtered)
	return filtered
}

// shouldExclude returns true if any directory segment of path is excluded.
func shouldExclude(path string, excludes []string) bool {
	if len(excludes) == 0 {
		return false
	}
	parts := strings.Split(path, "/")
	for _, part := range parts[:len(parts)-1] {
		for _, exclude := range excludes {
			if part == exclude {
				return true
			}
		}
	}
	return false
}

// shouldIncludeExtension returns true if extensions is empty OR path matches one.
func shouldIncludeExtension(path string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	for _, ext := range extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func hasSuffix(path string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(path, s) {
			return true
		}
	}
	return false
}
