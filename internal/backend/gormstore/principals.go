package gormstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskflow/internal/service"
)

var _ service.PrincipalStore = (*Store)(nil)

// UpsertPrincipal implements service.PrincipalStore.
// The profile fields are refreshed on every login; the internal id never changes.
func (s *Store) UpsertPrincipal(ctx context.Context, profile service.Profile) (service.Principal, error) {
	if profile.Subject == "" {
		return service.Principal{}, errors.New("profile has no subject")
	}

	rec := userRecord{
		GoogleID: profile.Subject,
		Name:     profile.Name,
		Email:    profile.Email,
		Avatar:   profile.Avatar,
	}
	db := s.db.WithContext(ctx)

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "google_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "avatar", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return service.Principal{}, fmt.Errorf("failed to upsert user: %w", err)
	}

	var stored userRecord
	if err := db.First(&stored, "google_id = ?", profile.Subject).Error; err != nil {
		return service.Principal{}, fmt.Errorf("failed to load user: %w", err)
	}
	return stored.toPrincipal(), nil
}

// FindPrincipal implements service.PrincipalStore.
func (s *Store) FindPrincipal(ctx context.Context, id string) (service.Principal, error) {
	var rec userRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return service.Principal{}, service.ErrPrincipalNotFound
		}
		return service.Principal{}, fmt.Errorf("failed to find user: %w", err)
	}
	return rec.toPrincipal(), nil
}
