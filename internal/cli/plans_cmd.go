package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newPlansCommand(state *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "Show pricing plans",
		Args:  exactArgs(0),
		RunE: withLogging(state, func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			user, err := currentUser(ctx, app)
			if err != nil {
				return err
			}
			currentPlan := ""
			if user != nil {
				currentPlan = "free"
				if user.IsPremium {
					currentPlan = "premium"
				}
			}

			out := cmd.OutOrStdout()
			for _, p := range app.Plans.Plans() {
				header := p.Name
				if p.Price == 0 {
					header += " - free"
				} else {
					header += fmt.Sprintf(" - %d.%02d / %d month", p.Price/100, p.Price%100, p.Duration)
				}
				if p.IsPopular {
					header += " (popular)"
				}
				if p.ID == currentPlan {
					header += " [current]"
				}
				fmt.Fprintln(out, header)
				for _, f := range p.Features {
					fmt.Fprintf(out, "  - %s\n", f)
				}
			}
			return nil
		}),
	}
}
