// Package service implements the task lifecycle and its ownership rules.
package service

import (
	"encoding/json"
	"strings"
	"time"
)

// Priority is the urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

const (
	// DefaultPriority is applied when a task is created without a priority.
	DefaultPriority = PriorityMedium

	// DefaultCategory is applied when a task is created without a category.
	DefaultCategory = "Other"
)

// Task represents a single task owned by one principal.
type Task struct {
	ID          string    `json:"id"`
	Owner       string    `json:"owner"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    Priority  `json:"priority"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MarshalJSON writes the task with its id repeated under "_id", the key
// the web client indexes tasks by. "_id" is ignored when decoding.
func (t Task) MarshalJSON() ([]byte, error) {
	type plain Task
	return json.Marshal(struct {
		plain
		LegacyID string `json:"_id"`
	}{plain: plain(t), LegacyID: t.ID})
}

// Principal is an authenticated user as known to this service.
// Tasks reference it by ID only.
type Principal struct {
	ID        string
	GoogleID  string
	Name      string
	Email     string
	Avatar    string
	CreatedAt time.Time
}

// Profile is the identity reported by the OAuth provider after login.
type Profile struct {
	Subject string
	Name    string
	Email   string
	Avatar  string
}

// TaskInput carries the client-supplied fields of a create or update.
// Fields that are not Set are left alone on update and defaulted on create.
type TaskInput struct {
	Title       Optional[string]
	Description Optional[string]
	Priority    Optional[Priority]
	Category    Optional[string]
	Date        Optional[time.Time]
	Completed   Optional[bool]
}

// ListFilter narrows ListTasks. The zero value matches every task.
type ListFilter struct {
	Completed *bool
	Priority  Priority
	Category  string
	Search    string // case-insensitive match on title or description
	From      time.Time
	To        time.Time
}

// Match reports whether t passes the filter. Stores that cannot express
// the filter natively use it to post-filter.
func (f ListFilter) Match(t Task) bool {
	if f.Completed != nil && t.Completed != *f.Completed {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(t.Title), q) &&
			!strings.Contains(strings.ToLower(t.Description), q) {
			return false
		}
	}
	if !f.From.IsZero() && t.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && t.Date.After(f.To) {
		return false
	}
	return true
}
