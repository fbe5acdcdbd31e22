package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/cloudposse/artifactor/pkg/config"
	"github.com/cloudposse/artifactor/pkg/version"
)

// configFile is the --config flag shared by every command.
var configFile string

// RootCmd represents the base command. Without a subcommand it runs the pipeline.
var RootCmd = &cobra.Command{
	Use:   "artifactor",
	Short: "Version, build and publish a containerized .NET application",
	Long: `Artifactor resolves the package version with nbgv, builds the application image,
copies the build output out of the image and uploads it as a workflow artifact.

Inputs are read from flags, GitHub Actions inputs (INPUT_<NAME>), ARTIFACTOR_<NAME>
environment variables and .artifactor.yaml, in that order of precedence.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       version.Version,
	RunE:          runPipeline,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to the config file (default .artifactor.yaml)")
	RootCmd.SetVersionTemplate("{{ .Name }} {{ .Version }}\n")

	cobra.CheckErr(config.RegisterFlags(RootCmd.Flags()))

	RootCmd.AddCommand(runCmd)
	RootCmd.AddCommand(versionCmd)
}

// Execute runs the command selected by the process arguments.
func Execute(ctx context.Context) error {
	return RootCmd.ExecuteContext(ctx)
}
