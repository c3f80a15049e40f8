package cli

import (
	"context"
	"fmt"

	"github.com/docketlabs/docket/internal/cli/formatter"
	"github.com/docketlabs/docket/internal/domain"
	"github.com/spf13/cobra"
)

func newGanttCmd(app *App) *cobra.Command {
	var caseID string

	cmd := &cobra.Command{
		Use:   "gantt",
		Short: "Show deadlines on a timeline with dependencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			var (
				title = "All deadlines"
				views []*domain.DeadlineWithDependencies
				err   error
			)
			if caseID != "" {
				c, cErr := app.Cases.GetByID(ctx, caseID)
				if cErr != nil {
					return cErr
				}
				title = c.Title
				views, err = app.Gantt.ListByCaseWithDependencies(ctx, caseID, app.UserID)
			} else {
				views, err = app.Gantt.ListByUserWithDependencies(ctx, app.UserID)
			}
			if err != nil {
				return err
			}

			fmt.Printf("%s\n", formatter.FormatGantt(title, views))
			return nil
		},
	}

	cmd.Flags().StringVar(&caseID, "case", "", "Limit to one case")

	return cmd
}
