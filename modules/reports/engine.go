// Package reports computes the per-user aggregate reports and the title
// similarity scan. The engine works on the user's full task list; the 50-task
// cap keeps every report a cheap in-memory pass.
package reports

import (
	"strconv"
	"time"

	domain "github.com/example/todo-backend/domain/task"
)

const dateOnly = "2006-01-02"

// Engine computes reports over a task list. The clock is injectable for
// deterministic tests.
type Engine struct {
	now func() time.Time
}

// NewEngine creates an engine using the wall clock.
func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// TotalTasks counts total, completed and remaining tasks.
func (e *Engine) TotalTasks(tasks []domain.Task) TotalTasksReport {
	completed := 0
	for _, t := range tasks {
		if t.CompletionStatus {
			completed++
		}
	}
	return TotalTasksReport{
		Total:     len(tasks),
		Completed: completed,
		Remaining: len(tasks) - completed,
	}
}

// AverageCompleted reports completed tasks per day since the account was
// created. On the account's first day the completed count is passed through
// verbatim instead of being divided, so two tasks completed on day zero read
// "2/day", not "2.0/day".
func (e *Engine) AverageCompleted(tasks []domain.Task, accountCreated time.Time) AverageCompletedReport {
	completed := 0
	for _, t := range tasks {
		if t.CompletionStatus {
			completed++
		}
	}

	days := int(e.now().UTC().Sub(accountCreated) / (24 * time.Hour))
	if days <= 0 {
		return AverageCompletedReport{Average: strconv.Itoa(completed) + "/day"}
	}

	avg := float64(completed) / float64(days)
	return AverageCompletedReport{Average: strconv.FormatFloat(avg, 'f', -1, 64) + "/day"}
}

// OverdueTasks counts tasks finished late or still open past their due date.
// A completed task without a completion date counts as on time.
func (e *Engine) OverdueTasks(tasks []domain.Task) OverdueReport {
	now := e.now().UTC()
	overdue := 0
	for _, t := range tasks {
		if t.CompletionStatus {
			if t.CompletionDate != nil && t.CompletionDate.After(t.DueDate) {
				overdue++
			}
		} else if now.After(t.DueDate) {
			overdue++
		}
	}

	if overdue == 0 {
		return OverdueReport{Message: "no tasks overdue"}
	}
	return OverdueReport{Count: strconv.Itoa(overdue)}
}

// MaxDate finds the calendar date with the most completed tasks. Ties go to
// the date reached first in list order.
func (e *Engine) MaxDate(tasks []domain.Task) MaxDateReport {
	counts := make(map[string]int)
	var order []string
	for _, t := range tasks {
		if !t.CompletionStatus || t.CompletionDate == nil {
			continue
		}
		date := t.CompletionDate.Format(dateOnly)
		if _, seen := counts[date]; !seen {
			order = append(order, date)
		}
		counts[date]++
	}

	report := MaxDateReport{}
	for _, date := range order {
		if counts[date] > report.Count {
			d := date
			report.Date = &d
			report.Count = counts[date]
		}
	}
	return report
}

// CountOpened builds a histogram of creation weekdays. Returns nil when the
// user has no tasks, distinguishing "no data" from an all-zero week.
func (e *Engine) CountOpened(tasks []domain.Task) CountOpenedReport {
	if len(tasks) == 0 {
		return nil
	}

	histogram := make(CountOpenedReport)
	for _, t := range tasks {
		histogram[t.CreatedAt.Weekday().String()]++
	}
	return histogram
}
