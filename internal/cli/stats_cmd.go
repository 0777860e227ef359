package cli

import (
	"context"
	"fmt"
	"io"

	"neon_quizlet/internal/model"
	"neon_quizlet/internal/stats"

	"github.com/spf13/cobra"
)

func newStatsCommand(state *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "stats [moduleID]",
		Short: "Show study statistics for all modules or one module",
		Args:  rangeArgs(0, 1),
		RunE: withLogging(state, func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return printModuleStats(ctx, app, cmd.OutOrStdout(), args[0])
			}
			all, err := app.Modules.ListStats(ctx)
			if err != nil {
				return err
			}
			modules, err := app.Modules.ListModules(ctx)
			if err != nil {
				return err
			}
			titles := make(map[string]string, len(modules))
			for _, m := range modules {
				titles[m.ID] = m.Title
			}
			printOverview(cmd.OutOrStdout(), stats.Summarize(all), titles)
			return nil
		}),
	}
}

func printOverview(out io.Writer, o stats.Overview, titles map[string]string) {
	fmt.Fprintf(out, "Overall progress: %s (%d/%d terms learned)\n", progressBar(o.Progress, 20), o.Learned, o.TotalTerms)
	fmt.Fprintf(out, "Sessions: %d  Time studied: %s\n", o.TotalSessions, stats.FormatDuration(o.TotalTimeSpent))

	if len(o.Modes) > 0 {
		fmt.Fprintln(out)
		tw := newTable(out)
		fmt.Fprintln(tw, "MODE\tSESSIONS\tAVERAGE SCORE")
		for _, m := range o.Modes {
			fmt.Fprintf(tw, "%s\t%d\t%d%%\n", m.Mode, m.Sessions, m.AverageScore)
		}
		tw.Flush()
	}

	if len(o.Recent) > 0 {
		fmt.Fprintln(out, "\nRecent sessions:")
		tw := newTable(out)
		for _, r := range o.Recent {
			title := titles[r.ModuleID]
			if title == "" {
				title = r.ModuleID
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%d%%\t%s\n", formatDate(r.Date), title, r.Mode, r.Score, stats.FormatDuration(r.TimeSpent))
		}
		tw.Flush()
	}
}

func printModuleStats(ctx context.Context, app *App, out io.Writer, moduleID string) error {
	m, err := app.Modules.GetModule(ctx, moduleID)
	if err != nil {
		return err
	}
	s, err := app.Modules.GetStats(ctx, moduleID)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s\n", m.Title)
	fmt.Fprintf(out, "Progress: %s (%d/%d learned)\n", progressBar(stats.Progress(s), 20), s.Learned, s.TotalTerms)
	if s.LastScore != nil {
		fmt.Fprintf(out, "Last score: %d%%\n", *s.LastScore)
	}
	fmt.Fprintf(out, "Last studied: %s\n", formatOptionalDate(m.LastStudied))

	if len(s.StudyHistory) == 0 {
		fmt.Fprintln(out, "No study sessions yet.")
		return nil
	}
	fmt.Fprintln(out)
	tw := newTable(out)
	fmt.Fprintln(tw, "DATE\tMODE\tSCORE\tTIME")
	for i := len(s.StudyHistory) - 1; i >= 0; i-- {
		writeSessionRow(tw, s.StudyHistory[i])
	}
	return tw.Flush()
}

func writeSessionRow(w io.Writer, session model.StudySession) {
	fmt.Fprintf(w, "%s\t%s\t%d%%\t%s\n", formatDate(session.Date), session.Mode, session.Score, stats.FormatDuration(session.TimeSpent))
}
