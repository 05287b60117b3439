package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gstdesk/internal/domain"
	"gstdesk/internal/port"
)

type businessRepo struct {
	db *sqlx.DB
}

// NewBusinessRepo creates a new PostgreSQL-backed BusinessRepository.
func NewBusinessRepo(db *sqlx.DB) port.BusinessRepository {
	return &businessRepo{db: db}
}

func (r *businessRepo) Create(ctx context.Context, b *domain.Business) error {
	b.ID = uuid.New()
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now

	query := `INSERT INTO businesses (id, name, slug, gstin, state_code, is_composition,
		contact_email, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.Name, b.Slug, b.GSTIN, b.StateCode, b.IsComposition,
		b.ContactEmail, b.IsActive, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "businesses_slug_key") {
			return domain.ErrDuplicateBusinessSlug
		}
		return fmt.Errorf("businessRepo.Create: %w", err)
	}
	return nil
}

func (r *businessRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Business, error) {
	var b domain.Business
	err := r.db.GetContext(ctx, &b, "SELECT * FROM businesses WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("businessRepo.GetByID: %w", err)
	}
	return &b, nil
}

func (r *businessRepo) GetBySlug(ctx context.Context, slug string) (*domain.Business, error) {
	var b domain.Business
	err := r.db.GetContext(ctx, &b, "SELECT * FROM businesses WHERE slug = $1", slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("businessRepo.GetBySlug: %w", err)
	}
	return &b, nil
}

func (r *businessRepo) List(ctx context.Context, offset, limit int) ([]domain.Business, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM businesses"); err != nil {
		return nil, 0, fmt.Errorf("businessRepo.List count: %w", err)
	}

	var businesses []domain.Business
	err := r.db.SelectContext(ctx, &businesses,
		"SELECT * FROM businesses ORDER BY created_at DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("businessRepo.List: %w", err)
	}
	return businesses, total, nil
}

func (r *businessRepo) Update(ctx context.Context, b *domain.Business) error {
	b.UpdatedAt = time.Now().UTC()
	query := `UPDATE businesses SET name = $1, gstin = $2, state_code = $3, is_composition = $4,
		contact_email = $5, is_active = $6, updated_at = $7 WHERE id = $8`
	result, err := r.db.ExecContext(ctx, query,
		b.Name, b.GSTIN, b.StateCode, b.IsComposition, b.ContactEmail, b.IsActive, b.UpdatedAt, b.ID)
	if err != nil {
		return fmt.Errorf("businessRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *businessRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM businesses WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("businessRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
