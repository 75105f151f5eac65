package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"task-tracker/internal/date"
	"task-tracker/internal/model"
	"task-tracker/internal/service"
)

func newAddCmd(opts *options) *cobra.Command {
	var owner, due, repeat string

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Create a new task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			defer a.Close()

			today, err := a.today()
			if err != nil {
				return err
			}
			input := service.TaskInput{Title: strings.Join(args, " "), Owner: owner}
			if due != "" {
				d, err := date.ParseInput(due, today)
				if err != nil {
					return err
				}
				input.DueDate = &d
			}
			if input.Recurrence, err = model.ParseRecurrence(repeat); err != nil {
				return err
			}

			task, err := a.tasks.Create(cmd.Context(), input)
			if err != nil {
				return err
			}
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), task)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", taskLine(*task, today))
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "task owner (default from config)")
	cmd.Flags().StringVar(&due, "due", "", "due date (DD/MM/YYYY, YYYY-MM-DD, today, tomorrow)")
	cmd.Flags().StringVar(&repeat, "repeat", "none", "recurrence: none, daily, weekly, monthly, yearly")
	return cmd
}

func newStatusCmd(opts *options, use, short string, status model.Status) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := opts.open()
			if err != nil {
				return err
			}
			defer a.Close()

			change, err := a.tasks.SetStatus(cmd.Context(), id, status)
			if err != nil {
				return err
			}
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), change)
			}

			today, err := a.today()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, taskLine(change.Task, today))
			if change.Next != nil {
				fmt.Fprintf(w, "Next occurrence: %s\n", taskLine(*change.Next, today))
			}
			return nil
		},
	}
}

func newRemoveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := opts.open()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.tasks.Delete(cmd.Context(), id); err != nil {
				return err
			}
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), map[string]interface{}{"id": id, "deleted": true})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task #%d\n", id)
			return nil
		},
	}
}

func newListCmd(opts *options) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List tasks, pending first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			defer a.Close()

			var tasks []model.Task
			if status == "" || status == "all" {
				tasks, err = a.search.Search(cmd.Context(), "")
			} else {
				var st model.Status
				if st, err = model.ParseStatus(status); err != nil {
					return err
				}
				tasks, err = a.tasks.ListByStatus(cmd.Context(), st)
			}
			if err != nil {
				return err
			}
			return a.printTasks(cmd, opts, tasks)
		},
	}

	cmd.Flags().StringVar(&status, "status", "all", "filter by status: all, pending, completed")
	return cmd
}

func newSearchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "search TERM",
		Short: "Find tasks by title or owner",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			defer a.Close()

			tasks, err := a.search.Search(cmd.Context(), strings.TrimSpace(strings.Join(args, " ")))
			if err != nil {
				return err
			}
			return a.printTasks(cmd, opts, tasks)
		},
	}
}

func newUrgentCmd(opts *options) *cobra.Command {
	var todayFlag string

	cmd := &cobra.Command{
		Use:   "urgent",
		Short: "List pending tasks due today, tomorrow, or overdue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			defer a.Close()

			today, err := a.today()
			if err != nil {
				return err
			}
			if todayFlag != "" {
				if today, err = date.ParseInput(todayFlag, today); err != nil {
					return err
				}
			}

			tasks, err := a.urgency.ListUrgent(cmd.Context(), today)
			if err != nil {
				return err
			}
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), tasks)
			}
			w := cmd.OutOrStdout()
			if len(tasks) > 0 {
				fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%d task(s) due today, tomorrow, or overdue", len(tasks))))
			}
			writeTasks(w, tasks, today)
			return nil
		},
	}

	cmd.Flags().StringVar(&todayFlag, "today", "", "reference date instead of the current day")
	return cmd
}

func newReportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show total and completed tasks per owner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.reports.Report(cmd.Context())
			if err != nil {
				return err
			}
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), reportRows(report))
			}
			writeReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
}

func newOwnersCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "owners",
		Short: "List known owners",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			defer a.Close()

			owners, err := a.reports.Owners(cmd.Context())
			if err != nil {
				return err
			}
			if opts.json {
				if owners == nil {
					owners = []string{}
				}
				return writeJSON(cmd.OutOrStdout(), owners)
			}
			for _, owner := range owners {
				fmt.Fprintln(cmd.OutOrStdout(), owner)
			}
			return nil
		},
	}
}

func (a *app) printTasks(cmd *cobra.Command, opts *options, tasks []model.Task) error {
	if opts.json {
		if tasks == nil {
			tasks = []model.Task{}
		}
		return writeJSON(cmd.OutOrStdout(), tasks)
	}
	today, err := a.today()
	if err != nil {
		return err
	}
	writeTasks(cmd.OutOrStdout(), tasks, today)
	return nil
}
