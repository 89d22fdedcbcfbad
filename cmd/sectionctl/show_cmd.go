package main

import (
	"github.com/spf13/cobra"
)

func newShowCmd(e *cmdEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "show <section-id>",
		Short: "Print a section with its selected tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := e.openSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer sess.Close()
			return e.write(cmd.OutOrStdout(), newSectionOutput("show", sess.State()))
		},
	}
}
