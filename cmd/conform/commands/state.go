package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/bartekus/conform/cmd/conform/internal/clierr"
	"github.com/bartekus/conform/internal/runner"
	"github.com/bartekus/conform/internal/steps"
)

func newStateCmd(g *globalOptions) *cobra.Command {
	var (
		asJSON bool
		stepID string
	)

	cmd := &cobra.Command{
		Use:   "state",
		Short: "Show last run status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load(cmd)
			if err != nil {
				return err
			}
			store := runner.NewStateStore(cfg.StateDir)
			out := cmd.OutOrStdout()
			if stepID != "" {
				return showStep(out, store, stepID, asJSON)
			}

			last, err := store.ReadLastRun()
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(last)
			}

			if last == nil {
				fmt.Fprintln(out, "No run state found.")
				return nil
			}

			fmt.Fprintf(out, "Status: %s\n", last.Status)
			fmt.Fprintf(out, "Corpus: %s (%s)\n", last.Corpus, last.Target)
			if last.Stopped {
				fmt.Fprintln(out, "Stopped by a stop policy.")
			}
			if len(last.FailedTests) > 0 {
				fmt.Fprintf(out, "Failed tests (%d):\n", len(last.FailedTests))
				for _, f := range last.FailedTests {
					fmt.Fprintf(out, "  - %s\n", f)
				}
			} else if len(last.Failed) == 0 {
				fmt.Fprintln(out, "All passed.")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output results in JSON")
	cmd.Flags().StringVar(&stepID, "step", "", "show the last result of one step (reference or candidate)")

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Clear run state and the selection cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load(cmd)
			if err != nil {
				return err
			}
			return runner.NewStateStore(cfg.StateDir).Reset()
		},
	})
	return cmd
}

func showStep(out io.Writer, store *runner.StateStore, id string, asJSON bool) error {
	if id != steps.ReferenceID && id != steps.CandidateID {
		return clierr.Newf(clierr.ExitFatal, "unknown step %q (want %s or %s)", id, steps.ReferenceID, steps.CandidateID)
	}
	res, err := store.ReadStep(id)
	if err != nil {
		return err
	}
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	if res == nil {
		fmt.Fprintf(out, "No result recorded for step %s.\n", id)
		return nil
	}

	fmt.Fprintf(out, "Step: %s\n", res.Step)
	fmt.Fprintf(out, "Status: %s (exit %d)\n", res.Status, res.ExitCode)
	if res.Note != "" {
		fmt.Fprintf(out, "Note: %s\n", res.Note)
	}
	fmt.Fprintf(out, "Passed: %d/%d\n", res.Passed, res.Total)
	if res.Stopped {
		fmt.Fprintln(out, "Stopped by a stop policy.")
	}
	for _, f := range res.Failed {
		fmt.Fprintf(out, "  - %s\n", f)
	}
	return nil
}
