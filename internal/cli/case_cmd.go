package cli

import (
	"context"
	"fmt"

	"github.com/docketlabs/docket/internal/cli/formatter"
	"github.com/docketlabs/docket/internal/domain"
	"github.com/spf13/cobra"
)

func newCaseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "case",
		Short: "Manage cases",
	}

	cmd.AddCommand(
		newCaseAddCmd(app),
		newCaseShowCmd(app),
	)

	return cmd
}

func newCaseAddCmd(app *App) *cobra.Command {
	var title, status string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new case",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := &domain.Case{
				UserID: app.UserID,
				Title:  title,
				Status: domain.CaseStatus(status),
			}
			if err := app.Cases.Create(context.Background(), c); err != nil {
				return err
			}

			fmt.Printf("Created case %s [%s]\n", c.Title, c.ID[:8])
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Case title")
	cmd.Flags().StringVar(&status, "status", "", "Case status (open|pending|closed|archived)")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newCaseShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a case and its deadlines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			c, err := app.Cases.GetByID(ctx, args[0])
			if err != nil {
				return err
			}
			deadlines, err := app.Deadlines.ListByCase(ctx, c.ID, app.UserID)
			if err != nil {
				return err
			}

			fmt.Printf("%s\n", formatter.FormatDeadlineList(c.Title, deadlines))
			return nil
		},
	}
}
