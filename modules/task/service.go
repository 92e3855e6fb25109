// Package task implements the task store: owner-scoped CRUD with a 50-task
// cap, per-owner title uniqueness and attachment lifecycle handling.
package task

import (
	"context"
	"strings"
	"time"

	domain "github.com/example/todo-backend/domain/task"
	"github.com/google/uuid"
)

// dateLayouts are the accepted date-time formats for dueDate and
// completionDate form fields, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Service enforces task invariants on top of the repository.
type Service struct {
	repo        *Repository
	attachments AttachmentStore
}

// NewService creates a new task service.
func NewService(repo *Repository, attachments AttachmentStore) *Service {
	return &Service{
		repo:        repo,
		attachments: attachments,
	}
}

// Create validates the payload and inserts a new task for the owner. The cap
// and uniqueness checks run in the same transaction as the insert so two
// concurrent creates cannot both slip past them.
func (s *Service) Create(ctx context.Context, ownerID string, in Input) (*domain.Task, error) {
	if in.Title == "" || in.DueDate == "" || in.Attachment == nil {
		return nil, domain.ErrMissingFields
	}

	due, err := parseDateTime(in.DueDate)
	if err != nil {
		return nil, domain.ErrInvalidDate
	}

	status, completion, err := resolveCompletion(in.CompletionStatus, in.CompletionDate, false, nil)
	if err != nil {
		return nil, err
	}

	// The blob is keyed by the new task's identity, so a rejected create can
	// only ever clean up a blob no other task references.
	id := uuid.New().String()
	key, err := s.attachments.Store(ctx, ownerID, id, in.Attachment.Filename, in.Attachment.Data, in.Attachment.ContentType)
	if err != nil {
		return nil, err
	}

	t := &domain.Task{
		ID:               id,
		UserID:           ownerID,
		Title:            in.Title,
		Description:      in.Description,
		Attachment:       key,
		DueDate:          due,
		CompletionDate:   completion,
		CompletionStatus: status,
	}

	err = s.repo.Transaction(func(r *Repository) error {
		count, err := r.CountByOwner(ctx, ownerID)
		if err != nil {
			return err
		}
		if count >= domain.MaxTasksPerOwner {
			return domain.ErrTaskLimit
		}

		taken, err := r.TitleTaken(ctx, ownerID, in.Title, "")
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrDuplicateTitle
		}

		return r.Create(ctx, t)
	})
	if err != nil {
		// The blob was written before the row; reclaim it so a rejected
		// create leaves no trace.
		_ = s.attachments.Release(ctx, key)
		return nil, err
	}

	return t, nil
}

// Update replaces the task identified by its current title. Full-replace
// semantics: title, dueDate and attachment must all be present again;
// completionStatus alone falls back to the stored value when absent.
func (s *Service) Update(ctx context.Context, ownerID, title string, in Input) (*domain.Task, error) {
	existing, err := s.repo.FindByTitle(ctx, ownerID, title)
	if err != nil {
		return nil, err
	}

	if in.Title == "" || in.DueDate == "" || in.Attachment == nil {
		return nil, domain.ErrMissingFields
	}

	due, err := parseDateTime(in.DueDate)
	if err != nil {
		return nil, domain.ErrInvalidDate
	}

	status, completion, err := resolveCompletion(in.CompletionStatus, in.CompletionDate, existing.CompletionStatus, existing.CompletionDate)
	if err != nil {
		return nil, err
	}

	key, err := s.attachments.Store(ctx, ownerID, existing.ID, in.Attachment.Filename, in.Attachment.Data, in.Attachment.ContentType)
	if err != nil {
		return nil, err
	}

	oldKey := existing.Attachment
	updated := *existing
	updated.Title = in.Title
	updated.Description = in.Description
	updated.Attachment = key
	updated.DueDate = due
	updated.CompletionDate = completion
	updated.CompletionStatus = status

	err = s.repo.Transaction(func(r *Repository) error {
		// Renaming onto a different sibling's title is a conflict; keeping
		// the task's own title is not.
		taken, err := r.TitleTaken(ctx, ownerID, in.Title, existing.ID)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrDuplicateTitle
		}

		return r.Save(ctx, &updated)
	})
	if err != nil {
		// Same filename means the upload landed on the task's current key;
		// releasing it would strand the row.
		if key != oldKey {
			_ = s.attachments.Release(ctx, key)
		}
		return nil, err
	}

	if oldKey != key {
		_ = s.attachments.Release(ctx, oldKey)
	}

	return &updated, nil
}

// Delete removes the owner's task with the given title. The attachment blob
// is released after the row is gone; a failed release is logged by the
// attachment layer and never undoes the delete.
func (s *Service) Delete(ctx context.Context, ownerID, title string) error {
	t, err := s.repo.FindByTitle(ctx, ownerID, title)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, t.ID); err != nil {
		return err
	}

	_ = s.attachments.Release(ctx, t.Attachment)
	return nil
}

// Get returns the owner's task with the given title.
func (s *Service) Get(ctx context.Context, ownerID, title string) (*domain.Task, error) {
	return s.repo.FindByTitle(ctx, ownerID, title)
}

// List returns all tasks of the owner, open tasks first, then by due date.
// An empty list is not an error.
func (s *Service) List(ctx context.Context, ownerID string) ([]domain.Task, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// resolveCompletion normalizes the completionStatus/completionDate pair.
// An absent status keeps the stored status, but a supplied date is stored
// either way. A status of "true" (any case) without an explicit date is
// stamped with the current UTC time.
func resolveCompletion(statusRaw, dateRaw string, prevStatus bool, prevDate *time.Time) (bool, *time.Time, error) {
	if statusRaw == "" {
		if dateRaw == "" {
			return prevStatus, prevDate, nil
		}
		parsed, err := parseDateTime(dateRaw)
		if err != nil {
			return false, nil, domain.ErrInvalidDate
		}
		return prevStatus, &parsed, nil
	}

	status := strings.ToLower(statusRaw) == "true"

	var completion *time.Time
	if dateRaw != "" {
		parsed, err := parseDateTime(dateRaw)
		if err != nil {
			return false, nil, domain.ErrInvalidDate
		}
		completion = &parsed
	} else if status {
		now := time.Now().UTC()
		completion = &now
	}

	return status, completion, nil
}

// parseDateTime parses a form date-time value, trying each accepted layout.
func parseDateTime(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
