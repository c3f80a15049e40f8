package cli

import (
	"context"
	"fmt"

	"github.com/docketlabs/docket/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newUpcomingCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "Show the next deadlines in urgency order",
		RunE: func(cmd *cobra.Command, args []string) error {
			deadlines, err := app.Deadlines.ListUpcoming(context.Background(), app.UserID, limit)
			if err != nil {
				return err
			}
			if len(deadlines) == 0 {
				fmt.Println("Nothing upcoming.")
				return nil
			}

			fmt.Printf("%s\n", formatter.FormatDeadlineList("Upcoming", deadlines))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum rows (default 10)")

	return cmd
}

func newAgendaCmd(app *App) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "Show deadlines due within the next days",
		RunE: func(cmd *cobra.Command, args []string) error {
			deadlines, err := app.Feed.ListDueWithinForUser(context.Background(), app.UserID, days)
			if err != nil {
				return err
			}
			if len(deadlines) == 0 {
				fmt.Printf("Nothing due in the next %d days.\n", days)
				return nil
			}

			fmt.Printf("%s\n", formatter.FormatDeadlineList(fmt.Sprintf("Due within %dd", days), deadlines))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 7, "Window size in days")

	return cmd
}

func newSweepCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Mark past-due upcoming deadlines as overdue",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := app.Deadlines.SweepOverdue(context.Background())
			if err != nil {
				return err
			}

			fmt.Printf("Marked %d deadline(s) overdue\n", n)
			return nil
		},
	}
}

func newStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show deadline counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := app.Deadlines.Stats(context.Background(), app.UserID)
			if err != nil {
				return err
			}

			fmt.Printf("%s\n", formatter.FormatStats(stats))
			return nil
		},
	}
}
