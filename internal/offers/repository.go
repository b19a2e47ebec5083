package offers

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sponsorlane/backend/internal/models"
	"github.com/sponsorlane/backend/pkg/apperr"
)

// Repository is the PostgreSQL-backed sponsor-offer store.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a sponsor-offer repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert stores a new sponsor offer.
func (r *Repository) Insert(ctx context.Context, o *models.SponsorOffer) error {
	const q = `INSERT INTO sponsor_offers (id, profile_id, amount_cents, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.pool.Exec(ctx, q, o.ID, o.ProfileID, o.AmountCents, o.Description, o.CreatedAt, o.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return apperr.Violation("profile_id", "referenced profile does not exist")
	}
	return err
}

// Get returns a sponsor offer by ID.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*models.SponsorOffer, error) {
	const q = `SELECT id, profile_id, amount_cents, description, created_at, updated_at
		FROM sponsor_offers WHERE id = $1`
	var o models.SponsorOffer
	err := r.pool.QueryRow(ctx, q, id).Scan(&o.ID, &o.ProfileID, &o.AmountCents, &o.Description, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// List returns sponsor offers, optionally filtered by owning profile.
func (r *Repository) List(ctx context.Context, f Filter) ([]models.SponsorOffer, error) {
	q := `SELECT id, profile_id, amount_cents, description, created_at, updated_at FROM sponsor_offers`
	var args []interface{}
	if f.ProfileID != nil {
		q += ` WHERE profile_id = $1`
		args = append(args, *f.ProfileID)
	}
	rows, err := r.pool.Query(ctx, q+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.SponsorOffer
	for rows.Next() {
		var o models.SponsorOffer
		if err := rows.Scan(&o.ID, &o.ProfileID, &o.AmountCents, &o.Description, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// UpdateOwned writes the mutable columns conditionally on the owner in a
// single statement. Zero rows affected means the offer is gone or owned
// by someone else.
func (r *Repository) UpdateOwned(ctx context.Context, o *models.SponsorOffer, owner uuid.UUID) error {
	const q = `UPDATE sponsor_offers SET amount_cents = $1, description = $2, updated_at = $3
		WHERE id = $4 AND profile_id = $5`
	tag, err := r.pool.Exec(ctx, q, o.AmountCents, o.Description, o.UpdatedAt, o.ID, owner)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// InsertEventTypeOwned appends an event-type tag, guarded by transitive
// ownership: the insert only happens when the referenced offer's
// profile_id is owner, checked in the same statement.
func (r *Repository) InsertEventTypeOwned(ctx context.Context, t *models.SponsorEventType, owner uuid.UUID) error {
	const q = `INSERT INTO sponsor_event_types (id, sponsor_offer_id, event_type, created_at)
		SELECT $1, $2, $3, $4
		WHERE EXISTS (SELECT 1 FROM sponsor_offers WHERE id = $2 AND profile_id = $5)`
	tag, err := r.pool.Exec(ctx, q, t.ID, t.SponsorOfferID, t.EventType, t.CreatedAt, owner)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// ListEventTypes returns the tags on an offer, oldest first.
func (r *Repository) ListEventTypes(ctx context.Context, offerID uuid.UUID) ([]models.SponsorEventType, error) {
	const q = `SELECT id, sponsor_offer_id, event_type, created_at
		FROM sponsor_event_types WHERE sponsor_offer_id = $1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, q, offerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.SponsorEventType
	for rows.Next() {
		var t models.SponsorEventType
		if err := rows.Scan(&t.ID, &t.SponsorOfferID, &t.EventType, &t.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
