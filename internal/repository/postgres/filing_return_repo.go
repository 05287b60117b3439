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
	"gstdesk/internal/gst"
	"gstdesk/internal/port"
)

type filingReturnRepo struct {
	db *sqlx.DB
}

// NewFilingReturnRepo creates a new PostgreSQL-backed FilingReturnRepository.
func NewFilingReturnRepo(db *sqlx.DB) port.FilingReturnRepository {
	return &filingReturnRepo{db: db}
}

func (r *filingReturnRepo) Create(ctx context.Context, fr *domain.FilingReturn) error {
	fr.ID = uuid.New()
	now := time.Now().UTC()
	fr.CreatedAt = now
	fr.UpdatedAt = now

	query := `INSERT INTO filing_returns (
		id, business_id, return_type, period, due_date, status, filed_date, filing_mode,
		tax_liability, itc_claimed, liability_snapshot, arn, created_by, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.db.ExecContext(ctx, query,
		fr.ID, fr.BusinessID, fr.ReturnType, fr.Period, fr.DueDate, fr.Status, fr.FiledDate, fr.FilingMode,
		fr.TaxLiability, fr.ITCClaimed, fr.Snapshot, fr.ARN, fr.CreatedBy, fr.CreatedAt, fr.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "filing_returns_business_id_return_type_period_key") {
			return domain.ErrDuplicateReturn
		}
		return fmt.Errorf("filingReturnRepo.Create: %w", err)
	}
	return nil
}

func (r *filingReturnRepo) GetByID(ctx context.Context, businessID, returnID uuid.UUID) (*domain.FilingReturn, error) {
	var fr domain.FilingReturn
	err := r.db.GetContext(ctx, &fr,
		"SELECT * FROM filing_returns WHERE id = $1 AND business_id = $2", returnID, businessID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("filingReturnRepo.GetByID: %w", err)
	}
	return &fr, nil
}

func (r *filingReturnRepo) List(ctx context.Context, businessID uuid.UUID, offset, limit int) ([]domain.FilingReturn, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM filing_returns WHERE business_id = $1", businessID)
	if err != nil {
		return nil, 0, fmt.Errorf("filingReturnRepo.List count: %w", err)
	}

	var returns []domain.FilingReturn
	err = r.db.SelectContext(ctx, &returns,
		`SELECT * FROM filing_returns WHERE business_id = $1
		 ORDER BY due_date DESC, return_type LIMIT $2 OFFSET $3`,
		businessID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("filingReturnRepo.List: %w", err)
	}
	return returns, total, nil
}

func (r *filingReturnRepo) ListAll(ctx context.Context, businessID uuid.UUID) ([]domain.FilingReturn, error) {
	var returns []domain.FilingReturn
	err := r.db.SelectContext(ctx, &returns,
		"SELECT * FROM filing_returns WHERE business_id = $1 ORDER BY due_date", businessID)
	if err != nil {
		return nil, fmt.Errorf("filingReturnRepo.ListAll: %w", err)
	}
	return returns, nil
}

func (r *filingReturnRepo) ListFiled(ctx context.Context, businessID uuid.UUID, period string, types []gst.ReturnType) ([]domain.FilingReturn, error) {
	if len(types) == 0 {
		return nil, nil
	}
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	query, args, err := sqlx.In(
		`SELECT * FROM filing_returns
		 WHERE business_id = ? AND period = ? AND status = ? AND return_type IN (?)`,
		businessID, period, gst.FilingFiled, names)
	if err != nil {
		return nil, fmt.Errorf("filingReturnRepo.ListFiled build: %w", err)
	}

	var returns []domain.FilingReturn
	if err := r.db.SelectContext(ctx, &returns, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("filingReturnRepo.ListFiled: %w", err)
	}
	return returns, nil
}

func (r *filingReturnRepo) ListPendingDueBetween(ctx context.Context, from, to time.Time) ([]domain.FilingReturn, error) {
	var returns []domain.FilingReturn
	err := r.db.SelectContext(ctx, &returns,
		`SELECT fr.* FROM filing_returns fr
		 JOIN businesses b ON b.id = fr.business_id
		 WHERE fr.status = $1 AND fr.due_date >= $2 AND fr.due_date <= $3 AND b.is_active
		 ORDER BY fr.due_date, fr.business_id`,
		gst.FilingPending, from, to)
	if err != nil {
		return nil, fmt.Errorf("filingReturnRepo.ListPendingDueBetween: %w", err)
	}
	return returns, nil
}

func (r *filingReturnRepo) MarkFiled(ctx context.Context, fr *domain.FilingReturn) error {
	fr.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE filing_returns SET status = $1, filed_date = $2, filing_mode = $3,
			tax_liability = $4, itc_claimed = $5, liability_snapshot = $6, arn = $7, updated_at = $8
		 WHERE id = $9 AND business_id = $10 AND status = $11`,
		gst.FilingFiled, fr.FiledDate, fr.FilingMode,
		fr.TaxLiability, fr.ITCClaimed, fr.Snapshot, fr.ARN, fr.UpdatedAt,
		fr.ID, fr.BusinessID, gst.FilingPending)
	if err != nil {
		return fmt.Errorf("filingReturnRepo.MarkFiled: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		var status gst.FilingStatus
		err := r.db.GetContext(ctx, &status,
			"SELECT status FROM filing_returns WHERE id = $1 AND business_id = $2", fr.ID, fr.BusinessID)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("filingReturnRepo.MarkFiled lookup: %w", err)
		}
		return domain.ErrReturnAlreadyFiled
	}
	fr.Status = gst.FilingFiled
	return nil
}
