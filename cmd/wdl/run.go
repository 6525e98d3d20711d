package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newRunCommand(a *app) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "run PATH_OR_URL [INPUT]...",
		Short: "Resolve the inputs for a task or workflow and hand them to the engine.",
		Long: `run resolves and validates the inputs for a task or workflow, then writes the
invocation as JSON on stdout for the execution engine.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := a.resolveInvocation(cmd.Context(), args[0], name, args[1:])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(a.stdout)
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			if err := enc.Encode(inv); err != nil {
				return fmt.Errorf("encode invocation: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "name of the task or workflow to run")
	return cmd
}
