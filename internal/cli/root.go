package cli

import (
	"os"

	"github.com/docketlabs/docket/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Cases        service.CaseService
	Deadlines    service.DeadlineService
	Dependencies service.DependencyService
	Gantt        service.GanttService
	Feed         service.NotificationFeed

	// UserID is the acting user every command is scoped to.
	UserID string
}

// NewRootCmd creates the top-level "docket" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "docket",
		Short: "Legal case deadline tracker",
	}

	root.PersistentFlags().StringVar(&app.UserID, "user", defaultUser(), "Acting user ID")

	root.AddCommand(
		newCaseCmd(app),
		newDeadlineCmd(app),
		newDepCmd(app),
		newGanttCmd(app),
		newUpcomingCmd(app),
		newAgendaCmd(app),
		newSweepCmd(app),
		newStatsCmd(app),
	)

	return root
}

func defaultUser() string {
	if u := os.Getenv("DOCKET_USER"); u != "" {
		return u
	}
	return "default"
}
