package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iota-uz/section-editor/modules/section/services"
)

var (
	errNotConfirmed = errors.New("refusing to delete without --yes")
	errNotDeleted   = errors.New("section was not deleted")
)

func newDeleteCmd(e *cmdEnv) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <section-id>",
		Short: "Delete a section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errNotConfirmed
			}
			sess, con, err := e.openSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.OpenDelete(); err != nil {
				return err
			}
			res := sess.ConfirmDelete(cmd.Context())
			out := newSectionOutput("delete", sess.State())
			out.Result = res.String()
			out.Redirect = con.redirect
			if err := e.write(cmd.OutOrStdout(), out); err != nil {
				return err
			}
			if res != services.DeleteRemoved {
				return fmt.Errorf("%w: %s", errNotDeleted, res)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the deletion")
	return cmd
}
