package cli

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"task-tracker/internal/bot"
	"task-tracker/internal/service"
)

// alertTimeout bounds one round of urgency alerts.
const alertTimeout = 30 * time.Second

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot and the alert scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := opts.open()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.cfg.RequireTelegram(); err != nil {
				return err
			}
			loc, err := a.cfg.Location()
			if err != nil {
				return err
			}

			telegramBot, err := bot.New(a.cfg.TelegramToken, bot.Deps{
				Subscribers: a.subscribers,
				Tasks:       a.tasks,
				Search:      a.search,
				Reports:     a.reports,
				Reminders:   a.reminders,
				Location:    loc,
			})
			if err != nil {
				return err
			}

			scheduler := service.NewSchedulerService(loc)
			if err := scheduleAlerts(scheduler, a, func() {
				jobCtx, cancel := context.WithTimeout(context.Background(), alertTimeout)
				defer cancel()
				if err := telegramBot.SendUrgentAlerts(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
					log.Printf("[warn] alerts: %v", err)
				}
			}); err != nil {
				return err
			}
			if scheduler.Entries() > 0 {
				scheduler.Start()
				defer scheduler.Stop()
			}

			log.Println("[info] task tracker bot started")
			if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			log.Println("[info] shutdown complete")
			return nil
		},
	}
}

// scheduleAlerts registers the daily and the periodic alert, each only when configured.
func scheduleAlerts(scheduler *service.SchedulerService, a *app, job func()) error {
	if a.cfg.AlertTime != "" {
		if _, err := scheduler.ScheduleDaily(a.cfg.AlertTime, job); err != nil {
			return err
		}
	}
	if interval := a.cfg.AlertInterval(); interval > 0 {
		if _, err := scheduler.ScheduleInterval(interval, job); err != nil {
			return err
		}
	}
	return nil
}
