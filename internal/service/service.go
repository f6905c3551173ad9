package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Store defines the persistence operations for tasks.
// Every lookup, update and delete is scoped to an owner in a single query;
// implementations return ErrNotFound when no row matches both id and owner.
type Store interface {
	// ListTasks returns the owner's tasks matching filter, newest first.
	ListTasks(ctx context.Context, owner string, filter ListFilter) ([]Task, error)

	// FindTask returns the task with id owned by owner.
	FindTask(ctx context.Context, owner, id string) (Task, error)

	// InsertTask persists a new task. The store assigns ID and CreatedAt.
	InsertTask(ctx context.Context, task Task) (Task, error)

	// UpdateTask writes the mutable fields of task, matched on ID and Owner.
	UpdateTask(ctx context.Context, task Task) (Task, error)

	// DeleteTask permanently removes the task with id owned by owner.
	DeleteTask(ctx context.Context, owner, id string) error
}

// PrincipalStore persists principals created by the identity provider.
type PrincipalStore interface {
	// UpsertPrincipal creates or refreshes the principal for profile.Subject.
	UpsertPrincipal(ctx context.Context, profile Profile) (Principal, error)

	// FindPrincipal returns the principal with the internal id.
	// Returns ErrPrincipalNotFound if there is none.
	FindPrincipal(ctx context.Context, id string) (Principal, error)
}

// TaskService enforces task invariants and ownership scoping.
// It is the only reader and writer of tasks.
type TaskService struct {
	store Store
}

// NewTaskService creates a TaskService backed by store.
func NewTaskService(store Store) *TaskService {
	return &TaskService{store: store}
}

// ListTasks returns the principal's tasks, newest first.
func (s *TaskService) ListTasks(ctx context.Context, p Principal, filter ListFilter) ([]Task, error) {
	tasks, err := s.store.ListTasks(ctx, p.ID, filter)
	if err != nil {
		return nil, storeErr("list tasks", err)
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}

// GetTask returns the principal's task with id.
func (s *TaskService) GetTask(ctx context.Context, p Principal, id string) (Task, error) {
	task, err := s.store.FindTask(ctx, p.ID, id)
	if err != nil {
		return Task{}, storeErr("find task", err)
	}
	return task, nil
}

// CreateTask validates in, applies defaults and stores a new task owned by p.
func (s *TaskService) CreateTask(ctx context.Context, p Principal, in TaskInput) (Task, error) {
	title, ok := in.Title.Get()
	if !ok || strings.TrimSpace(title) == "" {
		return Task{}, fmt.Errorf("%w: title is required", ErrInvalidTask)
	}
	date, ok := in.Date.Get()
	if !ok || date.IsZero() {
		return Task{}, fmt.Errorf("%w: date is required", ErrInvalidTask)
	}

	task := Task{
		Owner:       p.ID,
		Title:       title,
		Description: in.Description.Value,
		Priority:    in.Priority.Value,
		Category:    in.Category.Value,
		Date:        date,
		Completed:   false,
	}
	if task.Priority == "" {
		task.Priority = DefaultPriority
	}
	if task.Category == "" {
		task.Category = DefaultCategory
	}
	if err := validate(task); err != nil {
		return Task{}, err
	}

	created, err := s.store.InsertTask(ctx, task)
	if err != nil {
		return Task{}, storeErr("insert task", err)
	}
	return created, nil
}

// UpdateTask applies the supplied fields of in to the principal's task.
func (s *TaskService) UpdateTask(ctx context.Context, p Principal, id string, in TaskInput) (Task, error) {
	task, err := s.store.FindTask(ctx, p.ID, id)
	if err != nil {
		return Task{}, storeErr("find task", err)
	}

	if v, ok := in.Title.Get(); ok {
		task.Title = v
	}
	if v, ok := in.Description.Get(); ok {
		task.Description = v
	}
	if v, ok := in.Priority.Get(); ok {
		task.Priority = v
	}
	if v, ok := in.Category.Get(); ok {
		task.Category = v
	}
	if v, ok := in.Date.Get(); ok {
		task.Date = v
	}
	if v, ok := in.Completed.Get(); ok {
		task.Completed = v
	}
	if err := validate(task); err != nil {
		return Task{}, err
	}

	updated, err := s.store.UpdateTask(ctx, task)
	if err != nil {
		return Task{}, storeErr("update task", err)
	}
	return updated, nil
}

// DeleteTask permanently removes the principal's task and returns its last state.
func (s *TaskService) DeleteTask(ctx context.Context, p Principal, id string) (Task, error) {
	task, err := s.store.FindTask(ctx, p.ID, id)
	if err != nil {
		return Task{}, storeErr("find task", err)
	}
	if err := s.store.DeleteTask(ctx, p.ID, id); err != nil {
		return Task{}, storeErr("delete task", err)
	}
	return task, nil
}

// ToggleTask flips the completion state of the principal's task.
func (s *TaskService) ToggleTask(ctx context.Context, p Principal, id string) (Task, error) {
	task, err := s.store.FindTask(ctx, p.ID, id)
	if err != nil {
		return Task{}, storeErr("find task", err)
	}
	task.Completed = !task.Completed

	updated, err := s.store.UpdateTask(ctx, task)
	if err != nil {
		return Task{}, storeErr("update task", err)
	}
	return updated, nil
}

// validate checks the invariants every stored task must hold.
func validate(t Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidTask)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidTask)
	}
	if !t.Priority.Valid() {
		return fmt.Errorf("%w: priority must be low, medium or high", ErrInvalidTask)
	}
	return nil
}

// storeErr passes ErrNotFound through and marks everything else as a store failure.
func storeErr(op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %s: %w", ErrStoreFailure, op, err)
}
