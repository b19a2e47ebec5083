package profiles

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

// Repository is the PostgreSQL-backed profile store.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a profile repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert stores a new profile. The ID is the principal identifier, so a
// duplicate key means the principal is already provisioned.
func (r *Repository) Insert(ctx context.Context, p *models.Profile) error {
	const q = `INSERT INTO profiles (id, name, company_name, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.pool.Exec(ctx, q, p.ID, p.Name, p.CompanyName, string(p.Role), p.CreatedAt, p.UpdatedAt)
	if isUniqueViolation(err) {
		return apperr.Violation("id", "profile already provisioned")
	}
	return err
}

// Get returns a profile by ID.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	const q = `SELECT id, name, company_name, role, created_at, updated_at
		FROM profiles WHERE id = $1`
	var p models.Profile
	err := r.pool.QueryRow(ctx, q, id).Scan(&p.ID, &p.Name, &p.CompanyName, &p.Role, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Update writes the mutable columns. Role and ID are never touched here,
// which keeps them immutable at the storage layer as well.
func (r *Repository) Update(ctx context.Context, p *models.Profile) error {
	const q = `UPDATE profiles SET name = $1, company_name = $2, updated_at = $3 WHERE id = $4`
	tag, err := r.pool.Exec(ctx, q, p.Name, p.CompanyName, p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
