package gormstore

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskflow/internal/service"
)

// taskRecord is the database row for a task. There is no DeletedAt:
// deletes are permanent.
type taskRecord struct {
	ID          string    `gorm:"primarykey;size:36"`
	OwnerID     string    `gorm:"size:36;not null;index:idx_tasks_owner_created,priority:1"`
	Title       string    `gorm:"not null"`
	Description string    `gorm:"not null"`
	Priority    string    `gorm:"size:10;not null"`
	Category    string    `gorm:"size:100;not null"`
	Date        time.Time `gorm:"not null;index"`
	Completed   bool      `gorm:"not null"`
	CreatedAt   time.Time `gorm:"index:idx_tasks_owner_created,priority:2"`
	UpdatedAt   time.Time
}

// TableName returns the table name for taskRecord.
func (taskRecord) TableName() string {
	return "tasks"
}

// BeforeCreate assigns a UUID if the record has none.
func (r *taskRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func taskToRecord(t service.Task) taskRecord {
	return taskRecord{
		ID:          t.ID,
		OwnerID:     t.Owner,
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		Category:    t.Category,
		Date:        t.Date.UTC(),
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
	}
}

func (r taskRecord) toTask() service.Task {
	return service.Task{
		ID:          r.ID,
		Owner:       r.OwnerID,
		Title:       r.Title,
		Description: r.Description,
		Priority:    service.Priority(r.Priority),
		Category:    r.Category,
		Date:        r.Date.UTC(),
		Completed:   r.Completed,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

// userRecord is the database row for a principal.
type userRecord struct {
	ID        string `gorm:"primarykey;size:36"`
	GoogleID  string `gorm:"size:64;not null;uniqueIndex"`
	Name      string
	Email     string
	Avatar    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for userRecord.
func (userRecord) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID if the record has none.
func (r *userRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (r userRecord) toPrincipal() service.Principal {
	return service.Principal{
		ID:        r.ID,
		GoogleID:  r.GoogleID,
		Name:      r.Name,
		Email:     r.Email,
		Avatar:    r.Avatar,
		CreatedAt: r.CreatedAt.UTC(),
	}
}
