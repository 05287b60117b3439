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

type paymentRepo struct {
	db *sqlx.DB
}

// NewPaymentRepo creates a new PostgreSQL-backed PaymentRepository.
func NewPaymentRepo(db *sqlx.DB) port.PaymentRepository {
	return &paymentRepo{db: db}
}

func (r *paymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now().UTC()

	query := `INSERT INTO payments (
		id, business_id, return_id, period, challan_number, payment_date,
		cgst, sgst, igst, cess, interest, late_fee,
		itc_utilized_cgst, itc_utilized_sgst, itc_utilized_igst, total_amount,
		created_by, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.BusinessID, p.ReturnID, p.Period, p.ChallanNumber, p.PaymentDate,
		p.CGST, p.SGST, p.IGST, p.Cess, p.Interest, p.LateFee,
		p.ITCUtilizedCGST, p.ITCUtilizedSGST, p.ITCUtilizedIGST, p.TotalAmount,
		p.CreatedBy, p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "payments_business_id_challan_number_key") {
			return domain.ErrDuplicateDocument
		}
		return fmt.Errorf("paymentRepo.Create: %w", err)
	}
	return nil
}

func (r *paymentRepo) GetByID(ctx context.Context, businessID, paymentID uuid.UUID) (*domain.Payment, error) {
	var p domain.Payment
	err := r.db.GetContext(ctx, &p,
		"SELECT * FROM payments WHERE id = $1 AND business_id = $2", paymentID, businessID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("paymentRepo.GetByID: %w", err)
	}
	return &p, nil
}

func (r *paymentRepo) List(ctx context.Context, businessID uuid.UUID, offset, limit int) ([]domain.Payment, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM payments WHERE business_id = $1", businessID)
	if err != nil {
		return nil, 0, fmt.Errorf("paymentRepo.List count: %w", err)
	}

	var payments []domain.Payment
	err = r.db.SelectContext(ctx, &payments,
		`SELECT * FROM payments WHERE business_id = $1
		 ORDER BY payment_date DESC, created_at DESC LIMIT $2 OFFSET $3`,
		businessID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("paymentRepo.List: %w", err)
	}
	return payments, total, nil
}
