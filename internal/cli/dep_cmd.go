package cli

import (
	"context"
	"fmt"

	"github.com/docketlabs/docket/internal/cli/formatter"
	"github.com/docketlabs/docket/internal/domain"
	"github.com/spf13/cobra"
)

func newDepCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dep",
		Short: "Manage deadline dependencies",
	}

	cmd.AddCommand(
		newDepAddCmd(app),
		newDepListCmd(app),
		newDepUpdateCmd(app),
		newDepRemoveCmd(app),
		newDepCheckCmd(app),
	)

	return cmd
}

func newDepAddCmd(app *App) *cobra.Command {
	var depType string
	var lagDays int

	cmd := &cobra.Command{
		Use:   "add SOURCE TARGET",
		Short: "Link two deadlines (TARGET depends on SOURCE)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sourceID, err := resolveDeadlineID(ctx, app, args[0])
			if err != nil {
				return err
			}
			targetID, err := resolveDeadlineID(ctx, app, args[1])
			if err != nil {
				return err
			}
			if depType != "" && !domain.ValidDependencyTypes[depType] {
				return fmt.Errorf("invalid dependency type %q", depType)
			}

			d := &domain.DeadlineDependency{
				SourceDeadlineID: sourceID,
				TargetDeadlineID: targetID,
				DependencyType:   domain.DependencyType(depType),
				LagDays:          lagDays,
				CreatedBy:        &app.UserID,
			}
			if err := app.Dependencies.Create(ctx, d); err != nil {
				return err
			}

			fmt.Printf("Linked %s → %s [%s]\n", sourceID[:8], targetID[:8], d.ID[:8])
			return nil
		},
	}

	cmd.Flags().StringVar(&depType, "type", "", "Dependency type (finish_to_start|start_to_start|finish_to_finish|start_to_finish)")
	cmd.Flags().IntVar(&lagDays, "lag", 0, "Lag in days (may be negative)")

	return cmd
}

func newDepListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list ID",
		Short: "List a deadline's dependency links",
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

			if view.DependenciesCount() == 0 && view.DependentsCount() == 0 {
				fmt.Println("No dependency links.")
				return nil
			}
			fmt.Printf("%s\n", formatter.FormatDeadlineInspect(view.Deadline, view.Dependencies, view.Dependents))
			return nil
		},
	}
}

func newDepUpdateCmd(app *App) *cobra.Command {
	var depType string
	var lagDays int

	cmd := &cobra.Command{
		Use:   "update EDGE",
		Short: "Update a dependency's type or lag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.DependencyPatch
			if cmd.Flags().Changed("type") {
				if !domain.ValidDependencyTypes[depType] {
					return fmt.Errorf("invalid dependency type %q", depType)
				}
				t := domain.DependencyType(depType)
				patch.DependencyType = &t
			}
			if cmd.Flags().Changed("lag") {
				patch.LagDays = &lagDays
			}

			d, err := app.Dependencies.Update(context.Background(), args[0], patch)
			if err != nil {
				return err
			}

			fmt.Printf("Updated link %s (%s, lag %+dd)\n", d.ID[:8], formatter.EdgeTypeLabel(d.DependencyType), d.LagDays)
			return nil
		},
	}

	cmd.Flags().StringVar(&depType, "type", "", "Dependency type")
	cmd.Flags().IntVar(&lagDays, "lag", 0, "Lag in days")

	return cmd
}

func newDepRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove EDGE",
		Short: "Remove a dependency link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := app.Dependencies.Delete(context.Background(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("dependency not found: %q", args[0])
			}

			fmt.Printf("Removed link %s\n", args[0])
			return nil
		},
	}
}

func newDepCheckCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check SOURCE TARGET",
		Short: "Check whether linking two deadlines would create a cycle",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sourceID, err := resolveDeadlineID(ctx, app, args[0])
			if err != nil {
				return err
			}
			targetID, err := resolveDeadlineID(ctx, app, args[1])
			if err != nil {
				return err
			}

			cyclic, err := app.Dependencies.WouldCreateCycle(ctx, sourceID, targetID)
			if err != nil {
				return err
			}
			if cyclic {
				fmt.Printf("Linking %s → %s would create a cycle\n", sourceID[:8], targetID[:8])
				return nil
			}
			fmt.Printf("Linking %s → %s is safe\n", sourceID[:8], targetID[:8])
			return nil
		},
	}
}
