package main

import (
	"time"

	"github.com/annumhq/annum/internal/ui"
	"github.com/annumhq/annum/task"
)

// renderTaskTable formats today's tasks with live elapsed time for the
// running task.
func renderTaskTable(tasks []task.Task, elapsed func(task.Task) int64) string {
	now := time.Now()
	builder := ui.NewTableBuilder([]string{"ID", "TITLE", "STATUS", "TIME", "AGE"}, len(tasks))
	for _, t := range tasks {
		builder.AddRow([]string{
			ui.ShortID(t.ID),
			ui.TruncateTableCell(t.Title),
			string(t.Status),
			ui.FormatHuman(elapsed(t)),
			ui.FormatTimeAgo(t.CreatedAt, now),
		})
	}
	return builder.String()
}

// renderLogTable formats a daily log, durations right in human form.
func renderLogTable(tasks []task.Task) string {
	builder := ui.NewTableBuilder([]string{"TITLE", "STATUS", "TIME"}, len(tasks))
	for _, t := range tasks {
		builder.AddRow([]string{
			ui.TruncateTableCell(t.Title),
			string(t.Status),
			ui.FormatHuman(t.DurationMS),
		})
	}
	return builder.String()
}
