package task

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/example/todo-backend/domain/task"
	"gorm.io/gorm"
)

// Repository provides database operations for tasks.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new task repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Transaction runs fn against a transactional repository. The cap and
// uniqueness checks must observe the same snapshot as the write, so every
// check-and-write path goes through here.
func (r *Repository) Transaction(fn func(*Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

// Create inserts a new task row.
func (r *Repository) Create(ctx context.Context, t *domain.Task) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateTitle
		}
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindByTitle retrieves the owner's task with the given title.
func (r *Repository) FindByTitle(ctx context.Context, ownerID, title string) (*domain.Task, error) {
	var t domain.Task
	err := r.db.WithContext(ctx).First(&t, "user_id = ? AND title = ?", ownerID, title).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &t, nil
}

// CountByOwner returns how many tasks the owner currently holds.
func (r *Repository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Task{}).Where("user_id = ?", ownerID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}

// TitleTaken reports whether a sibling task other than excludeID already uses
// the title. Comparison is exact and case-sensitive.
func (r *Repository) TitleTaken(ctx context.Context, ownerID, title, excludeID string) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&domain.Task{}).
		Where("user_id = ? AND title = ?", ownerID, title)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check title: %w", err)
	}
	return count > 0, nil
}

// Save writes back a fully populated task row.
func (r *Repository) Save(ctx context.Context, t *domain.Task) error {
	if err := r.db.WithContext(ctx).Save(t).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateTitle
		}
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

// Delete removes a task row by ID.
func (r *Repository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&domain.Task{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByOwner returns the owner's tasks in the default order: open tasks
// first, then nearest due date.
func (r *Repository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Task, error) {
	var tasks []domain.Task
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("completion_status ASC, due_date ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Migrate runs database migrations for the task table.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&domain.Task{})
}
