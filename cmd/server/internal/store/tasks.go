package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Task list status filters.
const (
	StatusAll       = "all"
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// TaskUpdate is a partial task mutation; nil fields are left untouched.
type TaskUpdate struct {
	Title       *string
	Description *string
	Completed   *bool
}

// TaskStore provides owner-scoped access to task records. Every operation
// that names a task id treats a foreign owner's task exactly like a missing
// one.
type TaskStore struct {
	db *gorm.DB
}

// NewTaskStore creates a task store on db.
func NewTaskStore(db *gorm.DB) *TaskStore {
	return &TaskStore{db: db}
}

// Create saves a new task for owner.
func (s *TaskStore) Create(ctx context.Context, owner, title, description string) (*Task, error) {
	task := &Task{
		OwnerID:     owner,
		Title:       title,
		Description: description,
		Completed:   false,
	}
	if err := s.db.WithContext(ctx).Create(task).Error; err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// List returns owner's tasks, optionally filtered by completion status
// (StatusAll, StatusPending, StatusCompleted), ordered by creation time.
func (s *TaskStore) List(ctx context.Context, owner, status string) ([]Task, error) {
	q := s.db.WithContext(ctx).Where("owner_id = ?", owner)

	switch status {
	case StatusPending:
		q = q.Where("completed = ?", false)
	case StatusCompleted:
		q = q.Where("completed = ?", true)
	}

	var tasks []Task
	if err := q.Order("created_at asc, id asc").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Get returns owner's task with the given id, or ErrNotFound.
func (s *TaskStore) Get(ctx context.Context, owner string, id uint) (*Task, error) {
	var task Task
	err := s.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, owner).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &task, nil
}

// Update applies the non-nil fields of upd to owner's task. Completing a
// pending task stamps CompletedAt once; setting Completed false clears it
// unconditionally. UpdatedAt is refreshed on success. Runs as a single
// transaction so concurrent writers on the same record serialize.
func (s *TaskStore) Update(ctx context.Context, owner string, id uint, upd TaskUpdate) (*Task, error) {
	var out *Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task Task
		if err := tx.Where("id = ? AND owner_id = ?", id, owner).First(&task).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load task: %w", err)
		}

		if upd.Title != nil {
			task.Title = *upd.Title
		}
		if upd.Description != nil {
			task.Description = *upd.Description
		}
		if upd.Completed != nil {
			applyCompletion(&task, *upd.Completed)
		}

		task.UpdatedAt = time.Now().UTC()
		if err := tx.Save(&task).Error; err != nil {
			return fmt.Errorf("save task: %w", err)
		}
		out = &task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SetCompleted flips owner's task completion state, maintaining the
// CompletedAt invariant.
func (s *TaskStore) SetCompleted(ctx context.Context, owner string, id uint, completed bool) (*Task, error) {
	var out *Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task Task
		if err := tx.Where("id = ? AND owner_id = ?", id, owner).First(&task).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load task: %w", err)
		}

		applyCompletion(&task, completed)
		task.UpdatedAt = time.Now().UTC()
		if err := tx.Save(&task).Error; err != nil {
			return fmt.Errorf("save task: %w", err)
		}
		out = &task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes owner's task permanently (hard delete).
func (s *TaskStore) Delete(ctx context.Context, owner string, id uint) error {
	res := s.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, owner).Delete(&Task{})
	if res.Error != nil {
		return fmt.Errorf("delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// applyCompletion keeps CompletedAt consistent with the completed flag:
// stamped once on a false→true transition, cleared whenever the flag is
// false.
func applyCompletion(task *Task, completed bool) {
	if completed && !task.Completed {
		now := time.Now().UTC()
		task.CompletedAt = &now
	} else if !completed {
		task.CompletedAt = nil
	}
	task.Completed = completed
}
