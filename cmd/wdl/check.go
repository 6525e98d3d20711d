package main

import (
	"errors"

	"github.com/spf13/cobra"
)

func newCheckCommand(a *app) *cobra.Command {
	var (
		except       []string
		lint         bool
		printResults bool
	)
	cmd := &cobra.Command{
		Use:   "check [PATH or URL]...",
		Short: "Parse and analyze WDL documents.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("you must provide at least one source file, directory, or URL")
			}
			exceptions := append(append([]string(nil), a.cfg.Check.Except...), except...)
			results, err := a.analyze(cmd.Context(), args, exceptions, lint || a.cfg.Check.Lint)
			if err != nil {
				return err
			}
			if err := a.emit(results); err != nil {
				return err
			}
			if printResults {
				return results.Summary(a.stdout)
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&except, "except", nil, "disable the rule with this id (repeatable)")
	cmd.Flags().BoolVar(&lint, "lint", false, "enable lint rules")
	cmd.Flags().BoolVarP(&printResults, "print-results", "p", false, "print a summary of the analyzed documents")
	return cmd
}
