package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/docketlabs/docket/internal/cli"
	"github.com/docketlabs/docket/internal/db"
	"github.com/docketlabs/docket/internal/repository"
	"github.com/docketlabs/docket/internal/service"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.docket/docket.db
	dbPath := os.Getenv("DOCKET_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".docket", "docket.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Plain output when stdout is piped.
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	// Audit trail goes to stderr when DOCKET_AUDIT is set.
	var auditOut io.Writer
	if os.Getenv("DOCKET_AUDIT") != "" {
		auditOut = os.Stderr
	}
	audit := service.NewLogAuditSink(auditOut)

	// Wire repositories
	caseRepo := repository.NewSQLiteCaseRepo(database)
	deadlineRepo := repository.NewSQLiteDeadlineRepo(database)
	depRepo := repository.NewSQLiteDependencyRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	// Wire services
	deadlineSvc := service.NewDeadlineService(deadlineRepo, uow, audit)

	app := &cli.App{
		Cases:        service.NewCaseService(caseRepo),
		Deadlines:    deadlineSvc,
		Dependencies: service.NewDependencyService(depRepo, uow, audit),
		Gantt:        service.NewGanttService(deadlineRepo, depRepo),
		Feed:         deadlineSvc.(service.NotificationFeed),
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
