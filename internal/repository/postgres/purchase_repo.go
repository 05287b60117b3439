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

type purchaseRepo struct {
	db *sqlx.DB
}

// NewPurchaseRepo creates a new PostgreSQL-backed PurchaseRepository.
func NewPurchaseRepo(db *sqlx.DB) port.PurchaseRepository {
	return &purchaseRepo{db: db}
}

func (r *purchaseRepo) Create(ctx context.Context, p *domain.Purchase) error {
	p.ID = uuid.New()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	query := `INSERT INTO purchases (
		id, business_id, bill_number, bill_date, supplier_name, supplier_gstin, supplier_state_code,
		itc_eligible, items, subtotal, total_cgst, total_sgst, total_igst, grand_total,
		notes, created_by, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.BusinessID, p.BillNumber, p.BillDate, p.SupplierName, p.SupplierGSTIN, p.SupplierStateCode,
		p.ITCEligible, p.Items, p.Subtotal, p.TotalCGST, p.TotalSGST, p.TotalIGST, p.GrandTotal,
		p.Notes, p.CreatedBy, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "purchases_business_id_supplier_gstin_bill_number_key") {
			return domain.ErrDuplicateDocument
		}
		return fmt.Errorf("purchaseRepo.Create: %w", err)
	}
	return nil
}

func (r *purchaseRepo) GetByID(ctx context.Context, businessID, purchaseID uuid.UUID) (*domain.Purchase, error) {
	var p domain.Purchase
	err := r.db.GetContext(ctx, &p,
		"SELECT * FROM purchases WHERE id = $1 AND business_id = $2", purchaseID, businessID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("purchaseRepo.GetByID: %w", err)
	}
	return &p, nil
}

func (r *purchaseRepo) List(ctx context.Context, businessID uuid.UUID, filter port.DocumentFilter) ([]domain.Purchase, int, error) {
	where, args := documentWhere("bill_date", businessID, filter.From, filter.To)

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM purchases "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("purchaseRepo.List count: %w", err)
	}

	n := len(args)
	query := fmt.Sprintf("SELECT * FROM purchases %s ORDER BY bill_date DESC, created_at DESC LIMIT $%d OFFSET $%d",
		where, n+1, n+2)
	var purchases []domain.Purchase
	if err := r.db.SelectContext(ctx, &purchases, query, append(args, filter.Limit, filter.Offset)...); err != nil {
		return nil, 0, fmt.Errorf("purchaseRepo.List: %w", err)
	}
	return purchases, total, nil
}

func (r *purchaseRepo) ListInRange(ctx context.Context, businessID uuid.UUID, from, to time.Time) ([]domain.Purchase, error) {
	var purchases []domain.Purchase
	err := r.db.SelectContext(ctx, &purchases,
		`SELECT * FROM purchases WHERE business_id = $1 AND bill_date >= $2 AND bill_date <= $3
		 ORDER BY bill_date, bill_number`,
		businessID, from, to)
	if err != nil {
		return nil, fmt.Errorf("purchaseRepo.ListInRange: %w", err)
	}
	return purchases, nil
}

func (r *purchaseRepo) Update(ctx context.Context, p *domain.Purchase) error {
	p.UpdatedAt = time.Now().UTC()
	query := `UPDATE purchases SET
		bill_number = $1, bill_date = $2, supplier_name = $3, supplier_gstin = $4,
		supplier_state_code = $5, itc_eligible = $6, items = $7,
		subtotal = $8, total_cgst = $9, total_sgst = $10, total_igst = $11, grand_total = $12,
		notes = $13, updated_at = $14
		WHERE id = $15 AND business_id = $16`
	result, err := r.db.ExecContext(ctx, query,
		p.BillNumber, p.BillDate, p.SupplierName, p.SupplierGSTIN,
		p.SupplierStateCode, p.ITCEligible, p.Items,
		p.Subtotal, p.TotalCGST, p.TotalSGST, p.TotalIGST, p.GrandTotal,
		p.Notes, p.UpdatedAt,
		p.ID, p.BusinessID)
	if err != nil {
		if isUniqueViolation(err, "purchases_business_id_supplier_gstin_bill_number_key") {
			return domain.ErrDuplicateDocument
		}
		return fmt.Errorf("purchaseRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *purchaseRepo) Delete(ctx context.Context, businessID, purchaseID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM purchases WHERE id = $1 AND business_id = $2", purchaseID, businessID)
	if err != nil {
		return fmt.Errorf("purchaseRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
