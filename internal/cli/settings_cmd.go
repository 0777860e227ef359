package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"neon_quizlet/internal/model"
	"neon_quizlet/internal/service"

	"github.com/spf13/cobra"
)

func newSettingsCommand(state *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change display settings",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		Args:  exactArgs(0),
		RunE: withLogging(state, func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			settings, err := app.Settings.Get(ctx)
			if err != nil {
				return err
			}
			printSettings(cmd.OutOrStdout(), settings)
			return nil
		}),
	}

	darkMode := &cobra.Command{
		Use:       "dark-mode <on|off>",
		Short:     "Turn dark mode on or off",
		Args:      exactArgs(1, "on|off"),
		ValidArgs: []string{"on", "off"},
		RunE: withLogging(state, func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			var enabled bool
			switch strings.ToLower(args[0]) {
			case "on", "true":
				enabled = true
			case "off", "false":
			default:
				return usageError("dark-mode expects on or off, got %q", args[0])
			}
			settings, err := app.Settings.SetDarkMode(ctx, enabled)
			if err != nil {
				return err
			}
			printSettings(cmd.OutOrStdout(), settings)
			return nil
		}),
	}

	names := make([]string, 0, len(service.NeonColors))
	for name := range service.NeonColors {
		names = append(names, name)
	}
	slices.Sort(names)

	color := &cobra.Command{
		Use:   "color <name|#RRGGBB>",
		Short: "Set the primary color",
		Long:  "Set the primary color to a hex value or one of: " + strings.Join(names, ", "),
		Args:  exactArgs(1, "color"),
		RunE: withLogging(state, func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			settings, err := app.Settings.SetPrimaryColor(ctx, args[0])
			if err != nil {
				return err
			}
			printSettings(cmd.OutOrStdout(), settings)
			return nil
		}),
	}

	cmd.AddCommand(show, darkMode, color)
	return cmd
}

func printSettings(out io.Writer, settings model.UserSettings) {
	mode := "off"
	if settings.DarkMode {
		mode = "on"
	}
	fmt.Fprintf(out, "Dark mode:     %s\nPrimary color: %s\n", mode, settings.PrimaryColor)
}
