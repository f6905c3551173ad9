// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"taskflow/internal/service"
)

// FakeStore is an in-memory implementation of service.Store and
// service.PrincipalStore for testing.
type FakeStore struct {
	mu         sync.RWMutex
	tasks      map[string]service.Task // id -> task
	principals map[string]service.Principal
	seq        int
	now        time.Time

	// Error injection for testing
	ListTasksErr       error
	FindTaskErr        error
	InsertTaskErr      error
	UpdateTaskErr      error
	DeleteTaskErr      error
	UpsertPrincipalErr error
	FindPrincipalErr   error

	// Calls counts every task operation, for asserting the store was not reached.
	Calls int
}

// NewFakeStore creates an empty FakeStore. Its clock starts at a fixed
// instant and advances one second per inserted task so ordering is stable.
func NewFakeStore() *FakeStore {
	return &FakeStore{
		tasks:      make(map[string]service.Task),
		principals: make(map[string]service.Principal),
		now:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// AddPrincipal registers a principal and returns it.
func (f *FakeStore) AddPrincipal(id, name string) service.Principal {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := service.Principal{
		ID:       id,
		GoogleID: "google-" + id,
		Name:     name,
		Email:    id + "@example.com",
	}
	f.principals[id] = p
	return p
}

// Len returns the number of stored tasks.
func (f *FakeStore) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.tasks)
}

// ListTasks implements service.Store.
func (f *FakeStore) ListTasks(ctx context.Context, owner string, filter service.ListFilter) ([]service.Task, error) {
	f.mu.Lock()
	f.Calls++
	f.mu.Unlock()
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	var result []service.Task
	for _, t := range f.tasks {
		if t.Owner == owner && filter.Match(t) {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// FindTask implements service.Store.
func (f *FakeStore) FindTask(ctx context.Context, owner, id string) (service.Task, error) {
	f.mu.Lock()
	f.Calls++
	f.mu.Unlock()
	if f.FindTaskErr != nil {
		return service.Task{}, f.FindTaskErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	t, ok := f.tasks[id]
	if !ok || t.Owner != owner {
		return service.Task{}, service.ErrNotFound
	}
	return t, nil
}

// InsertTask implements service.Store.
func (f *FakeStore) InsertTask(ctx context.Context, task service.Task) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.InsertTaskErr != nil {
		return service.Task{}, f.InsertTaskErr
	}

	f.seq++
	f.now = f.now.Add(time.Second)
	task.ID = fmt.Sprintf("task-%d", f.seq)
	task.CreatedAt = f.now
	task.UpdatedAt = f.now
	f.tasks[task.ID] = task
	return task, nil
}

// UpdateTask implements service.Store.
func (f *FakeStore) UpdateTask(ctx context.Context, task service.Task) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}

	existing, ok := f.tasks[task.ID]
	if !ok || existing.Owner != task.Owner {
		return service.Task{}, service.ErrNotFound
	}
	task.CreatedAt = existing.CreatedAt
	task.UpdatedAt = f.now
	f.tasks[task.ID] = task
	return task, nil
}

// DeleteTask implements service.Store.
func (f *FakeStore) DeleteTask(ctx context.Context, owner, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}

	t, ok := f.tasks[id]
	if !ok || t.Owner != owner {
		return service.ErrNotFound
	}
	delete(f.tasks, id)
	return nil
}

// UpsertPrincipal implements service.PrincipalStore.
func (f *FakeStore) UpsertPrincipal(ctx context.Context, profile service.Profile) (service.Principal, error) {
	if f.UpsertPrincipalErr != nil {
		return service.Principal{}, f.UpsertPrincipalErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for id, p := range f.principals {
		if p.GoogleID == profile.Subject {
			p.Name, p.Email, p.Avatar = profile.Name, profile.Email, profile.Avatar
			f.principals[id] = p
			return p, nil
		}
	}
	p := service.Principal{
		ID:        "user-" + profile.Subject,
		GoogleID:  profile.Subject,
		Name:      profile.Name,
		Email:     profile.Email,
		Avatar:    profile.Avatar,
		CreatedAt: f.now,
	}
	f.principals[p.ID] = p
	return p, nil
}

// FindPrincipal implements service.PrincipalStore.
func (f *FakeStore) FindPrincipal(ctx context.Context, id string) (service.Principal, error) {
	if f.FindPrincipalErr != nil {
		return service.Principal{}, f.FindPrincipalErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	p, ok := f.principals[id]
	if !ok {
		return service.Principal{}, service.ErrPrincipalNotFound
	}
	return p, nil
}
