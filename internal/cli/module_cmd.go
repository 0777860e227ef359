package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"neon_quizlet/internal/model"
	"neon_quizlet/internal/stats"

	"github.com/spf13/cobra"
)

func newModuleCommand(state *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "module",
		Short: "Manage study modules",
	}
	cmd.AddCommand(
		newModuleListCommand(state),
		newModuleShowCommand(state),
		newModuleCreateCommand(state),
		newModuleDeleteCommand(state),
		newModuleSearchCommand(state),
		newModuleExportCommand(state),
		newModuleImportCommand(state),
	)
	return cmd
}

func newModuleListCommand(state *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all modules",
		Args:  exactArgs(0),
		RunE: withLogging(state, func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			modules, err := app.Modules.ListModules(ctx)
			if err != nil {
				return err
			}
			return printModules(ctx, app, cmd, modules)
		}),
	}
}

func newModuleSearchCommand(state *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Find modules by title or description",
		Args:  exactArgs(1, "query"),
		RunE: withLogging(state, func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			modules, err := app.Modules.SearchModules(ctx, args[0])
			if err != nil {
				return err
			}
			return printModules(ctx, app, cmd, modules)
		}),
	}
}

func printModules(ctx context.Context, app *App, cmd *cobra.Command, modules []*model.Module) error {
	out := cmd.OutOrStdout()
	if len(modules) == 0 {
		fmt.Fprintln(out, "No modules found.")
		return nil
	}
	all, err := app.Modules.ListStats(ctx)
	if err != nil {
		return err
	}
	byModule := make(map[string]*model.StudyStats, len(all))
	for _, s := range all {
		byModule[s.ModuleID] = s
	}

	tw := newTable(out)
	fmt.Fprintln(tw, "ID\tTITLE\tTERMS\tPROGRESS\tLAST STUDIED")
	for _, m := range modules {
		progress := 0
		if s, ok := byModule[m.ID]; ok {
			progress = stats.Progress(s)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d%%\t%s\n", m.ID, m.Title, len(m.Terms), progress, formatOptionalDate(m.LastStudied))
	}
	return tw.Flush()
}

func newModuleShowCommand(state *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "show <moduleID>",
		Short: "Show a module with its terms",
		Args:  exactArgs(1, "moduleID"),
		RunE: withLogging(state, func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			m, err := app.Modules.GetModule(ctx, args[0])
			if err != nil {
				return err
			}
			s, err := app.Modules.GetStats(ctx, m.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", m.Title)
			if m.Description != "" {
				fmt.Fprintf(out, "%s\n", m.Description)
			}
			fmt.Fprintf(out, "Created: %s  Last studied: %s\n", formatDate(m.CreatedAt), formatOptionalDate(m.LastStudied))
			fmt.Fprintf(out, "Progress: %s (%d/%d learned)\n\n", progressBar(stats.Progress(s), 20), s.Learned, s.TotalTerms)

			tw := newTable(out)
			fmt.Fprintln(tw, "ID\tTERM\tDEFINITION\tLEARNED")
			for _, t := range m.Terms {
				learned := ""
				if t.Learned {
					learned = "yes"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.ID, t.Term, t.Definition, learned)
			}
			return tw.Flush()
		}),
	}
}

func newModuleCreateCommand(state *rootState) *cobra.Command {
	var title, description string
	var terms []string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a module",
		Example: `  neonquiz module create --title "Spanish" --term "hola=hello" --term "adiós=goodbye"`,
		Args: exactArgs(0),
		RunE: withLogging(state, func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			req := &model.CreateModuleRequest{Title: title, Description: description}
			for _, raw := range terms {
				t, err := parseTermFlag(raw)
				if err != nil {
					return err
				}
				req.Terms = append(req.Terms, t)
			}
			if err := checkModuleLimit(ctx, app); err != nil {
				return err
			}

			m, err := app.Modules.CreateModule(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created module %q (%s) with %d terms.\n", m.Title, m.ID, len(m.Terms))
			return nil
		}),
	}
	cmd.Flags().StringVar(&title, "title", "", "module title")
	cmd.Flags().StringVar(&description, "description", "", "module description")
	cmd.Flags().StringArrayVar(&terms, "term", nil, `term and definition as "term=definition" (repeatable)`)
	return cmd
}

// parseTermFlag は "term=definition" を分けます。最初の '=' で区切ります
func parseTermFlag(raw string) (model.TermRequest, error) {
	term, definition, ok := strings.Cut(raw, "=")
	if !ok {
		return model.TermRequest{}, usageError("--term must look like \"term=definition\", got %q", raw)
	}
	return model.TermRequest{Term: term, Definition: definition}, nil
}

func newModuleDeleteCommand(state *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <moduleID>",
		Short: "Delete a module and its statistics",
		Args:  exactArgs(1, "moduleID"),
		RunE: withLogging(state, func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			if err := app.Modules.DeleteModule(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Module deleted.")
			return nil
		}),
	}
}

func newModuleExportCommand(state *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "export <moduleID> <file.xlsx|file.csv>",
		Short: "Export a module to a spreadsheet (Premium)",
		Args:  exactArgs(2, "moduleID", "path"),
		RunE: withLogging(state, func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			if err := requirePremium(ctx, app); err != nil {
				return err
			}
			if err := app.Transfer.Export(ctx, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s.\n", args[1])
			return nil
		}),
	}
}

func newModuleImportCommand(state *rootState) *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "import <file.xlsx|file.csv>",
		Short: "Create a module from a spreadsheet (Premium)",
		Long:  "Column A is the term and column B the definition. A first row starting with \"Term\" is treated as a header.",
		Args:  exactArgs(1, "path"),
		RunE: withLogging(state, func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			if err := requirePremium(ctx, app); err != nil {
				return err
			}
			result, err := app.Transfer.Import(ctx, args[0], title)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %q (%s): %d created, %d skipped.\n", result.Module.Title, result.Module.ID, result.Created, result.Skipped)
			for _, msg := range result.Errors {
				fmt.Fprintf(out, "  %s\n", msg)
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&title, "title", "", "module title (defaults to the file name)")
	return cmd
}

// currentUser はログインしていなければ nil を返します
func currentUser(ctx context.Context, app *App) (*model.User, error) {
	user, err := app.Auth.CurrentUser(ctx)
	if errors.Is(err, model.ErrNotLoggedIn) {
		return nil, nil
	}
	return user, err
}

func checkModuleLimit(ctx context.Context, app *App) error {
	user, err := currentUser(ctx, app)
	if err != nil {
		return err
	}
	modules, err := app.Modules.ListModules(ctx)
	if err != nil {
		return err
	}
	return app.Plans.CheckModuleLimit(user, len(modules))
}

func requirePremium(ctx context.Context, app *App) error {
	user, err := currentUser(ctx, app)
	if err != nil {
		return err
	}
	return app.Plans.RequirePremium(user)
}
