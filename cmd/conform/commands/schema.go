package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bartekus/conform/internal/config"
	"github.com/bartekus/conform/internal/report"
)

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "schema config|report",
		Short:     "Print the JSON Schema of the configuration file or of report.json",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"config", "report"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			switch args[0] {
			case "config":
				data, err = config.Schema()
			default:
				data, err = report.Schema()
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}
