package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand(a *app) *cobra.Command {
	cobra.EnableCommandSorting = false
	rootCmd := &cobra.Command{
		Use:   "wdl",
		Short: "Check WDL documents and resolve their inputs.",
		Long: `wdl analyzes Workflow Description Language documents and resolves the inputs
for their tasks and workflows. Inputs are given as JSON or YAML files and as
inline key=value pairs; later inputs override earlier ones.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&a.verbose, "verbose", "v", "increase log verbosity (repeatable)")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "only log errors")
	flags.StringVar(&a.configPath, "config", "", "path to the configuration file")
	flags.StringVar(&a.color, "color", "", "colorize output: auto, always or never")

	rootCmd.AddCommand(newCheckCommand(a))
	rootCmd.AddCommand(newValidateCommand(a))
	rootCmd.AddCommand(newRunCommand(a))
	return rootCmd
}
