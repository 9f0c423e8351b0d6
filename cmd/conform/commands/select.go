package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bartekus/conform/internal/config"
	"github.com/bartekus/conform/internal/console"
	"github.com/bartekus/conform/internal/edition"
	"github.com/bartekus/conform/internal/engine"
	"github.com/bartekus/conform/internal/logging"
	"github.com/bartekus/conform/internal/runner"
	"github.com/bartekus/conform/internal/selector"
)

func newSelectCmd(g *globalOptions) *cobra.Command {
	var asJSON, list bool

	cmd := &cobra.Command{
		Use:   "select [path]",
		Short: "Select the tests of the target edition and refresh the selection cache",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load(cmd)
			if err != nil {
				return err
			}
			corpus := corpusArg(cfg, args)
			if err := checkCorpus(corpus); err != nil {
				return err
			}
			logger := g.logger(cmd.ErrOrStderr())
			store := runner.NewStateStore(cfg.StateDir)

			sel, err := selectTests(cmd.Context(), cfg, corpus, store, true, logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case asJSON:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(selectionJSON(sel))
			case list:
				for _, t := range sel.Tests {
					fmt.Fprintln(out, t.Path)
				}
				return nil
			default:
				console.New(out, cmd.ErrOrStderr()).Selection(sel)
				return nil
			}
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the selection as JSON")
	cmd.Flags().BoolVar(&list, "list", false, "print one selected path per line")
	cmd.MarkFlagsMutuallyExclusive("json", "list")
	return cmd
}

type selectionDoc struct {
	Root     string         `json:"root"`
	Target   string         `json:"target"`
	Scanned  int            `json:"scanned"`
	Tests    []string       `json:"tests"`
	Excluded map[string]int `json:"excluded"`
}

func selectionJSON(sel selector.Selection) selectionDoc {
	doc := selectionDoc{
		Root:     sel.Root,
		Target:   sel.Target.String(),
		Scanned:  sel.Scanned,
		Tests:    make([]string, 0, len(sel.Tests)),
		Excluded: make(map[string]int),
	}
	for _, t := range sel.Tests {
		doc.Tests = append(doc.Tests, t.Rel)
	}
	for r, n := range sel.Excluded {
		doc.Excluded[string(r)] = n
	}
	return doc
}

func checkCorpus(corpus string) error {
	if _, err := os.Stat(corpus); err != nil {
		return &engine.FatalError{Op: "corpus", Path: corpus, Err: err}
	}
	return nil
}

// selectTests returns the selection, from the cache when it matches the
// corpus and target and rescan is not set. A fresh selection replaces the
// cache.
func selectTests(ctx context.Context, cfg *config.Config, corpus string, store *runner.StateStore, rescan bool, logger logging.Logger) (selector.Selection, error) {
	target := targetOf(cfg)

	if rescan {
		if err := store.ClearSelection(); err != nil {
			return selector.Selection{}, fmt.Errorf("clearing selection cache: %w", err)
		}
	} else {
		cached, err := store.ReadSelection()
		if err != nil {
			logger.Printf("ignoring selection cache: %v", err)
		}
		if cached != nil && cached.Root == corpus && cached.Target == target.String() {
			sel, err := selector.Load(corpus, target, cached.Tests)
			if err == nil {
				logger.Printf("using cached selection of %d tests", len(sel.Tests))
				return sel, nil
			}
			logger.Printf("selection cache is stale: %v", err)
		}
	}

	c := edition.NewClassifier(edition.Default(), target)
	sel, err := selector.New(c, logger).Select(ctx, corpus)
	if err != nil {
		return selector.Selection{}, err
	}
	cache := runner.CachedSelection{Root: corpus, Target: target.String()}
	for _, t := range sel.Tests {
		cache.Tests = append(cache.Tests, t.Rel)
	}
	if err := store.WriteSelection(cache); err != nil {
		logger.Printf("writing selection cache: %v", err)
	}
	return sel, nil
}
