package main

import (
	"github.com/spf13/cobra"
)

func newValidateCommand(a *app) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "validate PATH_OR_URL [INPUT]...",
		Short: "Check that inputs satisfy a task or workflow.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := a.resolveInvocation(cmd.Context(), args[0], name, args[1:])
			if err != nil {
				return err
			}
			a.logger.Info("inputs are valid", "kind", inv.Kind, "name", inv.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "name of the task or workflow to validate against")
	return cmd
}
