package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cloudposse/artifactor/pkg/perf"
	"github.com/cloudposse/artifactor/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Display the version of artifactor you are running",
	Example: "artifactor version",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		defer perf.Track(nil, "cmd.version.RunE")()

		_, err := fmt.Fprintln(cmd.OutOrStdout(), version.String())
		return err
	},
}
