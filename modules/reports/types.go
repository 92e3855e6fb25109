package reports

// TotalTasksReport counts a user's tasks by completion state.
type TotalTasksReport struct {
	Total     int `json:"total_tasks"`
	Completed int `json:"completed_tasks"`
	Remaining int `json:"remaining_tasks"`
}

// AverageCompletedReport holds the completed-per-day figure, formatted as
// "<value>/day".
type AverageCompletedReport struct {
	Average string `json:"average_completed"`
}

// OverdueReport carries the overdue count as a string, or a sentinel message
// when nothing is overdue.
type OverdueReport struct {
	Count   string `json:"overdue_tasks,omitempty"`
	Message string `json:"response,omitempty"`
}

// MaxDateReport names the date with the most completed tasks. Date is nil
// when the user has no completed tasks.
type MaxDateReport struct {
	Date  *string `json:"max_completion_date"`
	Count int     `json:"tasks_completed"`
}

// CountOpenedReport is a histogram of task creation weekdays. Only weekdays
// with at least one task appear; a user with no tasks gets a nil report.
type CountOpenedReport map[string]int

// SimilarPair is a pair of task titles judged similar, in store list order.
type SimilarPair [2]string
