package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Scanner lists the files of a corpus directory tree.
type Scanner struct {
	root string

	mu        sync.Mutex
	fileCache []string
	single    bool
}

// New creates a new Scanner rooted at dir. A root naming a single file is
// accepted and yields just that file.
func New(root string) *Scanner {
	return &Scanner{
		root: root,
	}
}

// Root returns the directory (or file) the scanner walks.
func (s *Scanner) Root() string {
	return s.root
}

// Files returns every regular file under the root as a slash-separated path
// relative to the root, caching the result for the instance lifetime.
func (s *Scanner) Files(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fileCache != nil {
		return s.fileCache, nil
	}

	info, err := os.Stat(s.root)
	if err != nil {
		return nil, fmt.Errorf("stat corpus root: %w", err)
	}
	if !info.IsDir() {
		s.single = true
		s.fileCache = []string{filepath.Base(s.root)}
		return s.fileCache, nil
	}

	files := []string{}
	err = filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking corpus %s: %w", s.root, err)
	}

	s.fileCache = files
	return s.fileCache, nil
}

// FilesFiltered returns corpus files matching the filter options.
func (s *Scanner) FilesFiltered(ctx context.Context, opts FilterOptions) ([]string, error) {
	all, err := s.Files(ctx)
	if err != nil {
		return nil, err
	}
	return FilterFiles(all, opts), nil
}

// TestFiles returns candidate test sources, applying default excludes.
func (s *Scanner) TestFiles(ctx context.Context) ([]string, error) {
	return s.FilesFiltered(ctx, TestFileOptions())
}

// Abs joins a relative path returned by Files back onto the root.
func (s *Scanner) Abs(rel string) string {
	s.mu.Lock()
	single := s.single
	s.mu.Unlock()
	if single {
		return s.root
	}
	return filepath.Join(s.root, filepath.FromSlash(rel))
}
