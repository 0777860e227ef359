package cli

import (
	"context"
	"fmt"

	"neon_quizlet/internal/model"

	"github.com/spf13/cobra"
)

func newTermCommand(state *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "term",
		Short: "Add, edit, or remove terms in a module",
	}

	add := &cobra.Command{
		Use:   "add <moduleID> <term> <definition>",
		Short: "Add a term to a module",
		Args:  exactArgs(3, "moduleID", "term", "definition"),
		RunE: withLogging(state, func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			t, err := app.Modules.AddTerm(ctx, args[0], &model.TermRequest{Term: args[1], Definition: args[2]})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %q (%s).\n", t.Term, t.ID)
			return nil
		}),
	}

	edit := &cobra.Command{
		Use:   "edit <moduleID> <termID> <term> <definition>",
		Short: "Change a term and its definition",
		Args:  exactArgs(4, "moduleID", "termID", "term", "definition"),
		RunE: withLogging(state, func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			t, err := app.Modules.UpdateTerm(ctx, args[0], args[1], &model.TermRequest{Term: args[2], Definition: args[3]})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %q.\n", t.Term)
			return nil
		}),
	}

	remove := &cobra.Command{
		Use:     "remove <moduleID> <termID>",
		Aliases: []string{"rm"},
		Short:   "Remove a term from a module",
		Args:    exactArgs(2, "moduleID", "termID"),
		RunE: withLogging(state, func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			if err := app.Modules.RemoveTerm(ctx, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Term removed.")
			return nil
		}),
	}

	cmd.AddCommand(add, edit, remove)
	return cmd
}
