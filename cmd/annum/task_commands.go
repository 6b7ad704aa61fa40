package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/annumhq/annum/internal/ui"
	"github.com/annumhq/annum/task"
	"github.com/spf13/cobra"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage today's tasks",
}

// task create
var taskCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a pending task for today",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTaskCreate,
}

// task list
var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List today's tasks",
	Args:  cobra.NoArgs,
	RunE:  runTaskList,
}

var taskListJSON bool

// task start
var taskStartCmd = &cobra.Command{
	Use:   "start <id>",
	Short: "Start timing a task, stopping any other running task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskStart,
}

// task stop
var taskStopCmd = &cobra.Command{
	Use:   "stop <id>",
	Short: "Stop timing a task and persist its duration",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskStop,
}

// task complete
var taskCompleteCmd = &cobra.Command{
	Use:   "complete <id>",
	Short: "Mark a task completed",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskComplete,
}

// task delete
var taskDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Short:   "Delete a task permanently",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE:    runTaskDelete,
}

// task log
var taskLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the daily log, completed tasks last",
	Args:  cobra.NoArgs,
	RunE:  runTaskLog,
}

var taskLogDate string

func init() {
	rootCmd.AddCommand(taskCmd)
	taskCmd.AddCommand(taskCreateCmd, taskListCmd, taskStartCmd, taskStopCmd, taskCompleteCmd, taskDeleteCmd, taskLogCmd)
	taskListCmd.Flags().BoolVar(&taskListJSON, "json", false, "emit tasks as JSON")
	taskLogCmd.Flags().StringVar(&taskLogDate, "date", "", "log date (YYYY-MM-DD, default today)")
	addDateFlagAliases(taskLogCmd)
}

func runTaskCreate(cmd *cobra.Command, args []string) error {
	application, err := newApp()
	if err != nil {
		return err
	}
	coordinator, err := application.requireUser()
	if err != nil {
		return err
	}

	created, err := coordinator.Tasks().Create(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Printf("created %s  %s\n", ui.ShortID(created.ID), created.Title)
	return nil
}

func runTaskList(cmd *cobra.Command, args []string) error {
	application, err := newApp()
	if err != nil {
		return err
	}
	tasks, err := application.loadTasks(cmd.Context())
	if err != nil {
		return err
	}

	if taskListJSON {
		return printTasksJSON(tasks)
	}
	if len(tasks) == 0 {
		fmt.Println("no tasks today")
		return nil
	}
	fmt.Print(renderTaskTable(tasks, application.coordinator.Elapsed))
	return nil
}

func runTaskStart(cmd *cobra.Command, args []string) error {
	return withTask(cmd.Context(), args[0], func(ctx context.Context, application *app, id string) error {
		started, err := application.coordinator.Start(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("started %s  %s\n", ui.ShortID(started.ID), started.Title)
		return nil
	})
}

func runTaskStop(cmd *cobra.Command, args []string) error {
	return withTask(cmd.Context(), args[0], func(ctx context.Context, application *app, id string) error {
		stopped, err := application.coordinator.Stop(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("stopped %s  %s  %s\n", ui.ShortID(stopped.ID), stopped.Title, ui.FormatHuman(stopped.DurationMS))
		return nil
	})
}

func runTaskComplete(cmd *cobra.Command, args []string) error {
	return withTask(cmd.Context(), args[0], func(ctx context.Context, application *app, id string) error {
		completed, err := application.coordinator.Complete(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("completed %s  %s  %s\n", ui.ShortID(completed.ID), completed.Title, ui.FormatHuman(completed.DurationMS))
		return nil
	})
}

func runTaskDelete(cmd *cobra.Command, args []string) error {
	return withTask(cmd.Context(), args[0], func(ctx context.Context, application *app, id string) error {
		if err := application.coordinator.Remove(ctx, id); err != nil {
			return err
		}
		fmt.Printf("deleted %s\n", ui.ShortID(id))
		return nil
	})
}

func runTaskLog(cmd *cobra.Command, args []string) error {
	application, err := newApp()
	if err != nil {
		return err
	}
	if _, err := application.requireUser(); err != nil {
		return err
	}

	date := taskLogDate
	if date == "" {
		date = task.DateOf(time.Now())
	} else if _, err := time.Parse(task.DateLayout, date); err != nil {
		return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
	}

	tasks, err := application.taskStore.DailyLog(cmd.Context(), application.userID(), date)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Printf("no tasks on %s\n", date)
		return nil
	}
	fmt.Print(renderLogTable(tasks))
	return nil
}

func printTasksJSON(tasks []task.Task) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(tasks)
}

// withTask loads today's list, resolves the id argument against it, and runs
// the operation.
func withTask(ctx context.Context, arg string, fn func(ctx context.Context, application *app, id string) error) error {
	application, err := newApp()
	if err != nil {
		return err
	}
	tasks, err := application.loadTasks(ctx)
	if err != nil {
		return err
	}
	id, err := resolveTaskID(tasks, arg)
	if err != nil {
		return err
	}
	return fn(ctx, application, id)
}

// resolveTaskID matches a full id or an unambiguous id prefix against
// today's tasks.
func resolveTaskID(tasks []task.Task, arg string) (string, error) {
	var matches []string
	for _, t := range tasks {
		if t.ID == arg {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, arg) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", task.ErrTaskNotFound, arg)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("ambiguous task id %q matches %d tasks", arg, len(matches))
	}
}
