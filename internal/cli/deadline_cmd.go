package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/docketlabs/docket/internal/cli/formatter"
	"github.com/docketlabs/docket/internal/domain"
	"github.com/spf13/cobra"
)

func newDeadlineCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deadline",
		Short: "Manage deadlines",
	}

	cmd.AddCommand(
		newDeadlineAddCmd(app),
		newDeadlineListCmd(app),
		newDeadlineInspectCmd(app),
		newDeadlineUpdateCmd(app),
		newDeadlineCompleteCmd(app),
		newDeadlineReopenCmd(app),
		newDeadlineRemoveCmd(app),
	)

	return cmd
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

func newDeadlineAddCmd(app *App) *cobra.Command {
	var caseID, title, description, due, priority string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new deadline",
		RunE: func(cmd *cobra.Command, args []string) error {
			dueDate, err := parseDate(due)
			if err != nil {
				return err
			}
			if priority != "" && !domain.ValidPriorities[priority] {
				return fmt.Errorf("invalid priority %q (low|medium|high)", priority)
			}

			d := &domain.Deadline{
				CaseID:       caseID,
				UserID:       app.UserID,
				Title:        title,
				Description:  description,
				DeadlineDate: dueDate,
				Priority:     domain.Priority(priority),
			}
			if err := app.Deadlines.Create(context.Background(), d); err != nil {
				return err
			}

			fmt.Printf("Created deadline %s [%s] due %s\n", d.Title, d.ID[:8], d.DeadlineDate.Format("2006-01-02"))
			return nil
		},
	}

	cmd.Flags().StringVar(&caseID, "case", "", "Case ID")
	cmd.Flags().StringVar(&title, "title", "", "Deadline title")
	cmd.Flags().StringVar(&description, "desc", "", "Description")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority (low|medium|high)")
	_ = cmd.MarkFlagRequired("case")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("due")

	return cmd
}

func newDeadlineListCmd(app *App) *cobra.Command {
	var caseID string
	var overdue bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List deadlines",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			switch {
			case overdue:
				deadlines, err := app.Deadlines.ListOverdue(ctx, app.UserID)
				if err != nil {
					return err
				}
				if len(deadlines) == 0 {
					fmt.Println("Nothing overdue.")
					return nil
				}
				fmt.Printf("%s\n", formatter.FormatDeadlineList("Overdue", deadlines))
			case caseID != "":
				deadlines, err := app.Deadlines.ListByCase(ctx, caseID, app.UserID)
				if err != nil {
					return err
				}
				fmt.Printf("%s\n", formatter.FormatDeadlineList("Deadlines", deadlines))
			default:
				entries, err := app.Deadlines.ListByUser(ctx, app.UserID)
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					fmt.Println("No deadlines found.")
					return nil
				}
				fmt.Printf("%s\n", formatter.FormatTimeline(entries))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&caseID, "case", "", "Limit to one case")
	cmd.Flags().BoolVar(&overdue, "overdue", false, "Show only overdue deadlines")

	return cmd
}

func newDeadlineInspectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect ID",
		Short: "Show deadline details and dependencies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveDeadlineID(ctx, app, args[0])
			if err != nil {
				return err
			}
			view, err := app.Gantt.GetWithDependencies(ctx, id)
			if err != nil {
				return err
			}

			fmt.Printf("%s\n", formatter.FormatDeadlineInspect(view.Deadline, view.Dependencies, view.Dependents))
			return nil
		},
	}
}

func newDeadlineUpdateCmd(app *App) *cobra.Command {
	var title, description, due, priority string

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a deadline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveDeadlineID(ctx, app, args[0])
			if err != nil {
				return err
			}

			var patch domain.DeadlinePatch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("desc") {
				patch.Description = &description
			}
			if cmd.Flags().Changed("due") {
				dueDate, err := parseDate(due)
				if err != nil {
					return err
				}
				patch.DeadlineDate = &dueDate
			}
			if cmd.Flags().Changed("priority") {
				if !domain.ValidPriorities[priority] {
					return fmt.Errorf("invalid priority %q (low|medium|high)", priority)
				}
				p := domain.Priority(priority)
				patch.Priority = &p
			}

			d, err := app.Deadlines.Update(ctx, id, app.UserID, patch)
			if err != nil {
				return err
			}

			fmt.Printf("Updated deadline %s [%s]\n", d.Title, d.ID[:8])
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Deadline title")
	cmd.Flags().StringVar(&description, "desc", "", "Description")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority (low|medium|high)")

	return cmd
}

func newDeadlineCompleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "complete ID",
		Short: "Mark a deadline completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveDeadlineID(ctx, app, args[0])
			if err != nil {
				return err
			}
			d, err := app.Deadlines.MarkCompleted(ctx, id, app.UserID)
			if err != nil {
				return err
			}

			fmt.Printf("Completed %s [%s]\n", d.Title, d.ID[:8])
			return nil
		},
	}
}

func newDeadlineReopenCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reopen ID",
		Short: "Reopen a completed deadline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveDeadlineID(ctx, app, args[0])
			if err != nil {
				return err
			}
			d, err := app.Deadlines.MarkUpcoming(ctx, id, app.UserID)
			if err != nil {
				return err
			}

			fmt.Printf("Reopened %s [%s]\n", d.Title, d.ID[:8])
			return nil
		},
	}
}

func newDeadlineRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a deadline and its dependency links",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveDeadlineID(ctx, app, args[0])
			if err != nil {
				return err
			}
			ok, err := app.Deadlines.Delete(ctx, id, app.UserID)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("deadline not found: %q", args[0])
			}

			fmt.Printf("Removed deadline %s\n", id[:8])
			return nil
		},
	}
}
