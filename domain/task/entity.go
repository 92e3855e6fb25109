package task

import (
	"errors"
	"time"
)

// MaxTasksPerOwner is the hard cap on tasks a single user may own.
const MaxTasksPerOwner = 50

var (
	// ErrNotFound is returned when no task matches the owner/title pair.
	ErrNotFound = errors.New("task does not exist")
	// ErrDuplicateTitle is returned when a sibling task already uses the title.
	ErrDuplicateTitle = errors.New("task with this title already exists")
	// ErrTaskLimit is returned when the owner already holds MaxTasksPerOwner tasks.
	ErrTaskLimit = errors.New("cannot add more tasks, maximum limit of 50 reached")
	// ErrMissingFields is returned when a required field is absent from the payload.
	ErrMissingFields = errors.New("missing required field(s)")
	// ErrInvalidDate is returned when a date field does not parse.
	ErrInvalidDate = errors.New("invalid date-time value")
)

// Task is a todo item owned by exactly one user. Titles are unique within
// an owner's task set, enforced by the composite index.
type Task struct {
	ID               string     `gorm:"primarykey;size:36" json:"id"`
	UserID           string     `gorm:"size:36;not null;uniqueIndex:idx_owner_title" json:"user_id"`
	Title            string     `gorm:"size:50;not null;uniqueIndex:idx_owner_title" json:"title"`
	Description      string     `gorm:"size:500" json:"description"`
	Attachment       string     `gorm:"size:255;not null" json:"attachment"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	DueDate          time.Time  `gorm:"not null" json:"due_date"`
	CompletionDate   *time.Time `json:"completion_date,omitempty"`
	CompletionStatus bool       `gorm:"not null;default:false" json:"completion_status"`
}

// TableName returns the table name for the Task model.
func (Task) TableName() string {
	return "tasks"
}
