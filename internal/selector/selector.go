// Package selector walks a test corpus and keeps the tests that belong to
// the target edition.
package selector

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bartekus/conform/internal/edition"
	"github.com/bartekus/conform/internal/logging"
	"github.com/bartekus/conform/internal/metadata"
	"github.com/bartekus/conform/internal/scanner"
)

// SelectedTest is a test file chosen for execution. Identity is Path.
type SelectedTest struct {
	// Path locates the file on disk (corpus root joined with Rel).
	Path string
	// Rel is the slash-separated path relative to the corpus root.
	Rel      string
	Metadata metadata.Metadata
}

// Selection is the ordered result of one corpus walk.
type Selection struct {
	Root     string
	Target   edition.Edition
	Scanned  int
	Tests    []SelectedTest
	Excluded map[Reason]int
}

// Paths returns the on-disk paths of the selected tests, in order.
func (s Selection) Paths() []string {
	paths := make([]string, len(s.Tests))
	for i, t := range s.Tests {
		paths[i] = t.Path
	}
	return paths
}

// ExcludedTotal sums the exclusion counts.
func (s Selection) ExcludedTotal() int {
	n := 0
	for _, c := range s.Excluded {
		n += c
	}
	return n
}

// Selector applies the decision rules over a corpus.
type Selector struct {
	classifier edition.Classifier
	logger     logging.Logger
}

// New returns a selector for the classifier's target edition.
func New(c edition.Classifier, logger logging.Logger) *Selector {
	if logger == nil {
		logger = logging.Null()
	}
	return &Selector{classifier: c, logger: logger}
}

// Select walks root in lexical depth-first order and returns the included
// tests. Two calls over an unchanged corpus return identical selections.
func (s *Selector) Select(ctx context.Context, root string) (Selection, error) {
	sc := scanner.New(root)
	files, err := sc.TestFiles(ctx)
	if err != nil {
		return Selection{}, err
	}

	sel := Selection{
		Root:     root,
		Target:   s.classifier.Target,
		Scanned:  len(files),
		Excluded: make(map[Reason]int),
	}
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return Selection{}, err
		}
		path := sc.Abs(rel)
		md, err := load(path)
		if err != nil {
			return Selection{}, err
		}
		d := Decide(md, s.classifier)
		if !d.Include {
			sel.Excluded[d.Reason]++
			if d.Detail != "" {
				s.logger.Printf("excluded %s (%s: %s)", rel, d.Reason, d.Detail)
			}
			continue
		}
		sel.Tests = append(sel.Tests, SelectedTest{Path: path, Rel: rel, Metadata: md})
	}
	s.logger.Printf("selected %d of %d files under %s for %s", len(sel.Tests), sel.Scanned, root, sel.Target)
	return sel, nil
}

// Load re-reads the metadata of already selected paths, keeping their order.
// It is used when the selection comes from the cache.
func Load(root string, target edition.Edition, rels []string) (Selection, error) {
	info, err := os.Stat(root)
	if err != nil {
		return Selection{}, fmt.Errorf("stat corpus root: %w", err)
	}
	sel := Selection{
		Root:     root,
		Target:   target,
		Scanned:  len(rels),
		Excluded: make(map[Reason]int),
	}
	for _, rel := range rels {
		path := root
		if info.IsDir() {
			path = filepath.Join(root, filepath.FromSlash(rel))
		}
		md, err := load(path)
		if err != nil {
			return Selection{}, err
		}
		sel.Tests = append(sel.Tests, SelectedTest{Path: path, Rel: rel, Metadata: md})
	}
	return sel, nil
}

func load(path string) (metadata.Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return metadata.Metadata{}, fmt.Errorf("reading test %s: %w", path, err)
	}
	return metadata.Extract(string(data)), nil
}
