// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Conform runs the edition-scoped subset of a language conformance corpus
through a candidate toolchain, or through the reference harness, and reports
which tests pass.
*/

package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bartekus/conform/internal/config"
	"github.com/bartekus/conform/internal/edition"
	"github.com/bartekus/conform/internal/logging"
)

// globalOptions are shared by every subcommand.
type globalOptions struct {
	configPath string
	verbose    bool
	target     string
	stateDir   string
}

// NewRootCmd constructs the conform root command. Without a subcommand it
// runs the selected tests.
func NewRootCmd() *cobra.Command {
	version := os.Getenv("CONFORM_VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}

	g := &globalOptions{}
	cmd := newRunCmd(g)
	cmd.Use = "conform [path]"
	cmd.Short = "Run the edition-scoped conformance subset against a toolchain"
	cmd.Long = `conform selects the tests of a conformance corpus that belong to the target
edition and runs them through the reference harness, the candidate toolchain,
or both. The exit status is 0 only when every test passed.`
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	// Global flags
	pf := cmd.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "configuration file (default "+config.DefaultPath+" if present)")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "enable verbose output")
	pf.StringVar(&g.target, "target", "", "target edition (default "+config.DefaultTargetEdition+")")
	pf.StringVar(&g.stateDir, "state-dir", "", "directory holding run state and the selection cache (default "+config.DefaultStateDir+")")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of conform",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "conform version %s\n", version)
		},
	})
	cmd.AddCommand(newSelectCmd(g))
	cmd.AddCommand(newSchemaCmd())
	cmd.AddCommand(newStateCmd(g))

	return cmd
}

// load reads the configuration and applies the global flags on top.
func (g *globalOptions) load(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("target") {
		cfg.TargetEdition = g.target
	}
	if flags.Changed("state-dir") {
		cfg.StateDir = g.stateDir
	}
	if _, err := cfg.Edition(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (g *globalOptions) logger(w io.Writer) logging.Logger {
	if !g.verbose {
		return logging.Null()
	}
	return logging.New(w)
}

func corpusArg(cfg *config.Config, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Corpus
}

func targetOf(cfg *config.Config) edition.Edition {
	// load has already validated it.
	e, _ := cfg.Edition()
	return e
}
