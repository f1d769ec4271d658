package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	contacts "funnel_backend/internal/contacts/domain"
	"funnel_backend/platform/apperr"
)

const contactNotFoundMessage = "contact not found"

const contactColumns = `id, phone, whatsapp_name, status, service, form, board_id, group_id, blocked, created_at, updated_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new contacts repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// FindByPhone retrieves a contact by its canonical phone key.
func (r *Repo) FindByPhone(ctx context.Context, phone string) (contacts.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM funnel_contacts
		WHERE phone = $1`

	row := r.pool.QueryRow(ctx, query, phone)
	contact, err := scanContact(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return contacts.Contact{}, apperr.NotFound(contactNotFoundMessage)
		}
		return contacts.Contact{}, fmt.Errorf("find contact by phone: %w", err)
	}

	return contact, nil
}

// Create inserts a new contact row.
func (r *Repo) Create(ctx context.Context, params UpsertParams) (contacts.Contact, error) {
	query := `
		INSERT INTO funnel_contacts (id, phone, whatsapp_name, status, service, form, board_id, group_id, blocked)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + contactColumns

	blocked := false
	if params.Blocked != nil {
		blocked = *params.Blocked
	}

	row := r.pool.QueryRow(ctx, query,
		uuid.New(), params.Phone, params.Name, params.Status,
		params.Service, params.Form, params.BoardID, params.GroupID, blocked,
	)
	contact, err := scanContact(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return contacts.Contact{}, apperr.Conflict("contact already exists")
		}
		return contacts.Contact{}, fmt.Errorf("create contact: %w", err)
	}

	return contact, nil
}

// UpsertByPhone inserts or updates a contact in a single statement.
// COALESCE keeps existing values where the caller passed nil, so a partial
// update never wipes a field another writer set.
func (r *Repo) UpsertByPhone(ctx context.Context, params UpsertParams) (contacts.Contact, error) {
	query := `
		INSERT INTO funnel_contacts (id, phone, whatsapp_name, status, service, form, board_id, group_id, blocked)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, false))
		ON CONFLICT (phone) DO UPDATE SET
			whatsapp_name = CASE WHEN EXCLUDED.whatsapp_name <> '' THEN EXCLUDED.whatsapp_name ELSE funnel_contacts.whatsapp_name END,
			status        = CASE WHEN EXCLUDED.status <> '' THEN EXCLUDED.status ELSE funnel_contacts.status END,
			service       = COALESCE($5, funnel_contacts.service),
			form          = COALESCE($6, funnel_contacts.form),
			board_id      = COALESCE($7, funnel_contacts.board_id),
			group_id      = COALESCE($8, funnel_contacts.group_id),
			blocked       = COALESCE($9, funnel_contacts.blocked),
			updated_at    = now()
		RETURNING ` + contactColumns

	row := r.pool.QueryRow(ctx, query,
		uuid.New(), params.Phone, params.Name, params.Status,
		params.Service, params.Form, params.BoardID, params.GroupID, params.Blocked,
	)
	contact, err := scanContact(row)
	if err != nil {
		return contacts.Contact{}, fmt.Errorf("upsert contact: %w", err)
	}

	return contact, nil
}

// List returns all contacts ordered by most recent activity.
func (r *Repo) List(ctx context.Context) ([]contacts.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM funnel_contacts
		ORDER BY updated_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var result []contacts.Contact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		result = append(result, contact)
	}

	return result, rows.Err()
}

// Delete removes a contact by phone.
func (r *Repo) Delete(ctx context.Context, phone string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM funnel_contacts WHERE phone = $1`, phone)
	if err != nil {
		return 0, fmt.Errorf("delete contact: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteStale removes non-blocked contacts whose last activity predates the
// cutoff. Blocked contacts survive cleanup so the block list persists.
func (r *Repo) DeleteStale(ctx context.Context, cutoff time.Time) ([]string, error) {
	query := `
		DELETE FROM funnel_contacts
		WHERE blocked = false AND updated_at < $1
		RETURNING phone`

	rows, err := r.pool.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("delete stale contacts: %w", err)
	}
	defer rows.Close()

	var phones []string
	for rows.Next() {
		var phone string
		if err := rows.Scan(&phone); err != nil {
			return nil, fmt.Errorf("scan stale phone: %w", err)
		}
		phones = append(phones, phone)
	}

	return phones, rows.Err()
}

func scanContact(row pgx.Row) (contacts.Contact, error) {
	var c contacts.Contact
	err := row.Scan(
		&c.ID, &c.Phone, &c.Name, &c.Status, &c.Service, &c.Form,
		&c.BoardID, &c.GroupID, &c.Blocked, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}
