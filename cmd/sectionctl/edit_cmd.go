package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iota-uz/section-editor/modules/section/services"
)

var errNotSaved = errors.New("section was not saved")

func splitAssignment(raw string) (string, string, error) {
	field, value, ok := strings.Cut(raw, "=")
	if !ok || strings.TrimSpace(field) == "" {
		return "", "", fmt.Errorf("invalid --field %q, want name=value", raw)
	}
	return field, value, nil
}

func newEditCmd(e *cmdEnv) *cobra.Command {
	var (
		fields     []string
		toggleTags []int64
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "edit <section-id>",
		Short: "Change section fields and tags, then save",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, con, err := e.openSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer sess.Close()

			for _, raw := range fields {
				field, value, err := splitAssignment(raw)
				if err != nil {
					return err
				}
				if err := sess.ChangeField(field, value); err != nil {
					return err
				}
			}
			for _, id := range toggleTags {
				if err := sess.ToggleTag(id); err != nil {
					return fmt.Errorf("toggle tag %d: %w", id, err)
				}
			}

			if dryRun || !sess.Dirty() {
				result := "unchanged"
				if dryRun {
					result = "dry-run"
				}
				out := newSectionOutput("edit", sess.State())
				out.Result = result
				return e.write(cmd.OutOrStdout(), out)
			}

			res := sess.Submit(cmd.Context())
			out := newSectionOutput("edit", sess.State())
			out.Result = res.String()
			out.Redirect = con.redirect
			if err := e.write(cmd.OutOrStdout(), out); err != nil {
				return err
			}
			if res != services.SubmitSaved {
				return fmt.Errorf("%w: %s", errNotSaved, res)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&fields, "field", nil, "Field assignment name=value (repeatable)")
	cmd.Flags().Int64SliceVar(&toggleTags, "toggle-tag", nil, "Tag id to toggle (repeatable)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show pending changes without saving")
	return cmd
}
