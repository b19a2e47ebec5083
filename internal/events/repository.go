package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sponsorlane/backend/internal/models"
	"github.com/sponsorlane/backend/pkg/apperr"
)

// Repository is the PostgreSQL-backed event store.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an event repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert stores a new event. A dangling organizer reference surfaces as a
// ConstraintViolation rather than a raw FK error.
func (r *Repository) Insert(ctx context.Context, ev *models.Event) error {
	const q = `INSERT INTO events (id, name, event_type, amount_cents, city, description, event_date, organizer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.pool.Exec(ctx, q, ev.ID, ev.Name, ev.EventType, ev.AmountCents, ev.City, ev.Description, ev.Date, ev.OrganizerID, ev.CreatedAt, ev.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return apperr.Violation("organizer_id", "referenced profile does not exist")
	}
	return err
}

// Get returns an event by ID.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	const q = `SELECT id, name, event_type, amount_cents, city, description, event_date, organizer_id, created_at, updated_at
		FROM events WHERE id = $1`
	var ev models.Event
	err := r.pool.QueryRow(ctx, q, id).Scan(&ev.ID, &ev.Name, &ev.EventType, &ev.AmountCents, &ev.City, &ev.Description, &ev.Date, &ev.OrganizerID, &ev.CreatedAt, &ev.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// List returns events matching the filter, newest first.
func (r *Repository) List(ctx context.Context, f Filter) ([]models.Event, error) {
	q := `SELECT id, name, event_type, amount_cents, city, description, event_date, organizer_id, created_at, updated_at FROM events`
	var args []interface{}
	var cond string
	add := func(clause string, v interface{}) {
		args = append(args, v)
		if cond == "" {
			cond = " WHERE "
		} else {
			cond += " AND "
		}
		cond += fmt.Sprintf(clause, len(args))
	}
	if f.OrganizerID != nil {
		add("organizer_id = $%d", *f.OrganizerID)
	}
	if f.EventType != "" {
		add("event_type = $%d", f.EventType)
	}
	if f.City != "" {
		add("city = $%d", f.City)
	}
	rows, err := r.pool.Query(ctx, q+cond+" ORDER BY event_date DESC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Event
	for rows.Next() {
		var ev models.Event
		if err := rows.Scan(&ev.ID, &ev.Name, &ev.EventType, &ev.AmountCents, &ev.City, &ev.Description, &ev.Date, &ev.OrganizerID, &ev.CreatedAt, &ev.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, ev)
	}
	return list, rows.Err()
}

// UpdateOwned writes the mutable columns conditionally on the owner, so
// the ownership re-check and the mutation are one atomic statement. Zero
// rows affected means the row is gone or no longer owned by owner.
func (r *Repository) UpdateOwned(ctx context.Context, ev *models.Event, owner uuid.UUID) error {
	const q = `UPDATE events SET name = $1, event_type = $2, amount_cents = $3, city = $4, description = $5, event_date = $6, updated_at = $7
		WHERE id = $8 AND organizer_id = $9`
	tag, err := r.pool.Exec(ctx, q, ev.Name, ev.EventType, ev.AmountCents, ev.City, ev.Description, ev.Date, ev.UpdatedAt, ev.ID, owner)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
