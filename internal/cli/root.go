// Package cli implements the tasktracker command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"task-tracker/internal/config"
	"task-tracker/internal/date"
	"task-tracker/internal/model"
	"task-tracker/internal/repository"
	"task-tracker/internal/service"
	"task-tracker/internal/taskerr"
)

// timeNow is replaced in tests.
var timeNow = time.Now

// version is set at build time via ldflags.
var version = "dev"

type options struct {
	configPath string
	dbPath     string
	json       bool
	noColor    bool
}

// app holds everything a command needs once config and storage are open.
type app struct {
	cfg         config.Config
	db          *gorm.DB
	subscribers *repository.SubscriberRepository
	tasks       *service.TaskService
	urgency     *service.UrgencyService
	search      *service.SearchService
	reports     *service.ReportService
	reminders   *service.ReminderService
}

func (a *app) Close() {
	if sqlDB, err := a.db.DB(); err == nil {
		sqlDB.Close()
	}
}

func (a *app) today() (date.Date, error) {
	loc, err := a.cfg.Location()
	if err != nil {
		return date.Date{}, err
	}
	return date.FromTime(timeNow().In(loc)), nil
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "tasktracker",
		Short:         "Track tasks with owners, due dates and recurrence",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if opts.noColor || os.Getenv("NO_COLOR") != "" {
				DisableColor()
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file")
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "SQLite database path (overrides DATABASE_URL)")
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "output as JSON")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable color output")

	root.AddCommand(
		newAddCmd(opts),
		newStatusCmd(opts, "done", "Mark a task as completed", model.StatusCompleted),
		newStatusCmd(opts, "reopen", "Move a completed task back to pending", model.StatusPending),
		newRemoveCmd(opts),
		newListCmd(opts),
		newSearchCmd(opts),
		newUrgentCmd(opts),
		newReportCmd(opts),
		newOwnersCmd(opts),
		newServeCmd(opts),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// open loads config and the database and wires the services.
func (o *options) open() (*app, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.dbPath != "" {
		cfg.DatabaseURL = o.dbPath
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	store := repository.NewTaskRepository(db)
	urgency := service.NewUrgencyService(store)
	return &app{
		cfg:         cfg,
		db:          db,
		subscribers: repository.NewSubscriberRepository(db),
		tasks:       service.NewTaskService(store, cfg.DefaultOwner),
		urgency:     urgency,
		search:      service.NewSearchService(store),
		reports:     service.NewReportService(store),
		reminders:   service.NewReminderService(urgency, cfg.UrgentPreview),
	}, nil
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimSpace(raw), "#"), 10, 64)
	if err != nil || id == 0 {
		return 0, taskerr.Validationf("invalid task id %q", raw)
	}
	return uint(id), nil
}
