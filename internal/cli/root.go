// Package cli holds the resume-analyzer commands.
package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const app = "resume-analyzer"

// Actual version can be specified in build command.
var version = "unknown"

// NewRootCommand builds the command tree. Flags are bound to v so they
// override the matching environment variables.
func NewRootCommand(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:          app,
		Short:        "resume-analyzer extracts résumé text and scores it against a job description",
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	root.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	_ = v.BindPFlag("log_debug", root.PersistentFlags().Lookup("debug"))
	_ = v.BindPFlag("log_json", root.PersistentFlags().Lookup("json"))

	root.AddCommand(
		newServeCommand(v),
		newAnalyzeCommand(v),
		newVersionCommand(),
	)
	return root
}

// Execute runs the root command against the process arguments.
func Execute() error {
	return NewRootCommand(viper.New()).Execute()
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s version: %s\n", app, version)
		},
	}
}
