package gormstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"taskflow/internal/service"
)

var _ service.Store = (*Store)(nil)

// ownerScope matches a single task by id within one owner's tasks.
const ownerScope = "id = ? AND owner_id = ?"

// ListTasks implements service.Store.
func (s *Store) ListTasks(ctx context.Context, owner string, filter service.ListFilter) ([]service.Task, error) {
	q := s.db.WithContext(ctx).Where("owner_id = ?", owner)

	if filter.Completed != nil {
		q = q.Where("completed = ?", *filter.Completed)
	}
	if filter.Priority != "" {
		q = q.Where("priority = ?", string(filter.Priority))
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		like := "%" + escapeLike(strings.ToLower(filter.Search)) + "%"
		q = q.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, like, like)
	}
	if !filter.From.IsZero() {
		q = q.Where("date >= ?", filter.From.UTC())
	}
	if !filter.To.IsZero() {
		q = q.Where("date <= ?", filter.To.UTC())
	}

	var records []taskRecord
	if err := q.Order("created_at DESC").Order("id DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]service.Task, len(records))
	for i, r := range records {
		tasks[i] = r.toTask()
	}
	return tasks, nil
}

// FindTask implements service.Store.
func (s *Store) FindTask(ctx context.Context, owner, id string) (service.Task, error) {
	var rec taskRecord
	if err := s.db.WithContext(ctx).First(&rec, ownerScope, id, owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return service.Task{}, service.ErrNotFound
		}
		return service.Task{}, fmt.Errorf("failed to find task: %w", err)
	}
	return rec.toTask(), nil
}

// InsertTask implements service.Store.
func (s *Store) InsertTask(ctx context.Context, task service.Task) (service.Task, error) {
	rec := taskToRecord(task)
	rec.ID = ""
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return service.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	return rec.toTask(), nil
}

// UpdateTask implements service.Store.
func (s *Store) UpdateTask(ctx context.Context, task service.Task) (service.Task, error) {
	now := s.now()
	rec := taskToRecord(task)

	result := s.db.WithContext(ctx).
		Model(&taskRecord{}).
		Where(ownerScope, task.ID, task.Owner).
		Updates(map[string]any{
			"title":       rec.Title,
			"description": rec.Description,
			"priority":    rec.Priority,
			"category":    rec.Category,
			"date":        rec.Date,
			"completed":   rec.Completed,
			"updated_at":  now,
		})
	if err := result.Error; err != nil {
		return service.Task{}, fmt.Errorf("failed to update task: %w", err)
	}
	if result.RowsAffected == 0 {
		return service.Task{}, service.ErrNotFound
	}

	task.UpdatedAt = now
	return task, nil
}

// DeleteTask implements service.Store.
func (s *Store) DeleteTask(ctx context.Context, owner, id string) error {
	result := s.db.WithContext(ctx).Where(ownerScope, id, owner).Delete(&taskRecord{})
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected == 0 {
		return service.ErrNotFound
	}
	return nil
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
