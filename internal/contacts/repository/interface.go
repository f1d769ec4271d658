package repository

import (
	"context"
	"time"

	contacts "funnel_backend/internal/contacts/domain"
)

// UpsertParams carries the mutable fields of a contact for upserts.
// Nil pointer fields are left untouched on existing rows.
type UpsertParams struct {
	Phone   string
	Name    string
	Status  string
	Service *string
	Form    *string
	BoardID *string
	GroupID *string
	Blocked *bool
}

// Repository is the contact store contract consumed by the funnel and
// escalation services.
type Repository interface {
	// FindByPhone returns the contact keyed by the canonical phone, or an
	// apperr.NotFound error.
	FindByPhone(ctx context.Context, phone string) (contacts.Contact, error)

	// Create inserts a new contact. Duplicate phones surface apperr.Conflict.
	Create(ctx context.Context, params UpsertParams) (contacts.Contact, error)

	// UpsertByPhone atomically inserts or updates the contact in one
	// statement. Used wherever read-then-write would race.
	UpsertByPhone(ctx context.Context, params UpsertParams) (contacts.Contact, error)

	// List returns every contact, newest first.
	List(ctx context.Context) ([]contacts.Contact, error)

	// Delete removes the contact; returns the number of rows removed.
	Delete(ctx context.Context, phone string) (int64, error)

	// DeleteStale removes non-blocked contacts not updated since the cutoff
	// and returns the phones removed.
	DeleteStale(ctx context.Context, cutoff time.Time) ([]string, error)
}
