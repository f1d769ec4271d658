// Package service implements the contact operations behind the CRUD API and
// the store adapter consumed by the funnel.
package service

import (
	"context"
	"time"

	contacts "funnel_backend/internal/contacts/domain"
	"funnel_backend/internal/contacts/repository"
	"funnel_backend/platform/apperr"
	"funnel_backend/platform/logger"
	"funnel_backend/platform/phone"
)

// Service wraps the contacts repository with phone canonicalization and the
// housekeeping rules.
type Service struct {
	repo      repository.Repository
	retention time.Duration
	log       *logger.Logger
}

// New creates the contacts service.
func New(repo repository.Repository, retention time.Duration, log *logger.Logger) *Service {
	return &Service{repo: repo, retention: retention, log: log}
}

// Get returns a single contact by any phone spelling.
func (s *Service) Get(ctx context.Context, rawPhone string) (contacts.Contact, error) {
	key := phone.CanonicalChatID(rawPhone)
	if key == "" {
		return contacts.Contact{}, apperr.BadRequest("phone is required")
	}
	return s.repo.FindByPhone(ctx, key)
}

// List returns all contacts.
func (s *Service) List(ctx context.Context) ([]contacts.Contact, error) {
	return s.repo.List(ctx)
}

// Create inserts a new contact with a canonical phone key.
func (s *Service) Create(ctx context.Context, params repository.UpsertParams) (contacts.Contact, error) {
	key := phone.CanonicalChatID(params.Phone)
	if key == "" {
		return contacts.Contact{}, apperr.Validation("phone is required")
	}
	params.Phone = key
	return s.repo.Create(ctx, params)
}

// Upsert inserts or updates a contact with a canonical phone key.
func (s *Service) Upsert(ctx context.Context, params repository.UpsertParams) (contacts.Contact, error) {
	key := phone.CanonicalChatID(params.Phone)
	if key == "" {
		return contacts.Contact{}, apperr.Validation("phone is required")
	}
	params.Phone = key
	return s.repo.UpsertByPhone(ctx, params)
}

// Delete removes a contact; apperr.NotFound when no row matched.
func (s *Service) Delete(ctx context.Context, rawPhone string) error {
	key := phone.CanonicalChatID(rawPhone)
	if key == "" {
		return apperr.BadRequest("phone is required")
	}

	deleted, err := s.repo.Delete(ctx, key)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return apperr.NotFound("contact not found")
	}
	return nil
}

// Block marks a contact as blocked, creating the row when the phone was
// never seen. Blocked contacts are silently ignored by the funnel.
func (s *Service) Block(ctx context.Context, rawPhone, name string) (contacts.Contact, error) {
	key := phone.CanonicalChatID(rawPhone)
	if key == "" {
		return contacts.Contact{}, apperr.Validation("phone is required")
	}

	blocked := true
	if name == "" {
		name = "Desconhecido"
	}

	contact, err := s.repo.UpsertByPhone(ctx, repository.UpsertParams{
		Phone:   key,
		Name:    name,
		Status:  contacts.StatusBlocked,
		Blocked: &blocked,
	})
	if err != nil {
		return contacts.Contact{}, err
	}

	s.log.Info("contact blocked", "phone", key)
	return contact, nil
}

// CleanupStale removes non-blocked contacts older than the retention window.
func (s *Service) CleanupStale(ctx context.Context) ([]string, error) {
	cutoff := time.Now().Add(-s.retention)
	phones, err := s.repo.DeleteStale(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	if len(phones) > 0 {
		s.log.Info("stale contacts removed", "count", len(phones), "cutoff", cutoff)
	}
	return phones, nil
}
