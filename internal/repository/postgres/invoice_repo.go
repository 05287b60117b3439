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

type invoiceRepo struct {
	db *sqlx.DB
}

// NewInvoiceRepo creates a new PostgreSQL-backed InvoiceRepository.
func NewInvoiceRepo(db *sqlx.DB) port.InvoiceRepository {
	return &invoiceRepo{db: db}
}

func (r *invoiceRepo) Create(ctx context.Context, inv *domain.Invoice) error {
	inv.ID = uuid.New()
	now := time.Now().UTC()
	inv.CreatedAt = now
	inv.UpdatedAt = now

	query := `INSERT INTO invoices (
		id, business_id, invoice_number, invoice_type, export_mode, invoice_date,
		customer_name, customer_gstin, customer_state_code, place_of_supply, reverse_charge,
		original_invoice_id, items, subtotal, total_cgst, total_sgst, total_igst, grand_total,
		notes, created_by, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5, $6,
		$7, $8, $9, $10, $11,
		$12, $13, $14, $15, $16, $17, $18,
		$19, $20, $21, $22
	)`

	_, err := r.db.ExecContext(ctx, query,
		inv.ID, inv.BusinessID, inv.InvoiceNumber, inv.InvoiceType, inv.ExportMode, inv.InvoiceDate,
		inv.CustomerName, inv.CustomerGSTIN, inv.CustomerStateCode, inv.PlaceOfSupply, inv.ReverseCharge,
		inv.OriginalInvoiceID, inv.Items, inv.Subtotal, inv.TotalCGST, inv.TotalSGST, inv.TotalIGST, inv.GrandTotal,
		inv.Notes, inv.CreatedBy, inv.CreatedAt, inv.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "invoices_business_id_invoice_number_key") {
			return domain.ErrDuplicateDocument
		}
		return fmt.Errorf("invoiceRepo.Create: %w", err)
	}
	return nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, businessID, invoiceID uuid.UUID) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := r.db.GetContext(ctx, &inv,
		"SELECT * FROM invoices WHERE id = $1 AND business_id = $2", invoiceID, businessID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.GetByID: %w", err)
	}
	return &inv, nil
}

func (r *invoiceRepo) List(ctx context.Context, businessID uuid.UUID, filter port.DocumentFilter) ([]domain.Invoice, int, error) {
	where, args := documentWhere("invoice_date", businessID, filter.From, filter.To)

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM invoices "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.List count: %w", err)
	}

	n := len(args)
	query := fmt.Sprintf("SELECT * FROM invoices %s ORDER BY invoice_date DESC, created_at DESC LIMIT $%d OFFSET $%d",
		where, n+1, n+2)
	var invoices []domain.Invoice
	if err := r.db.SelectContext(ctx, &invoices, query, append(args, filter.Limit, filter.Offset)...); err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.List: %w", err)
	}
	return invoices, total, nil
}

func (r *invoiceRepo) ListInRange(ctx context.Context, businessID uuid.UUID, from, to time.Time) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	err := r.db.SelectContext(ctx, &invoices,
		`SELECT * FROM invoices WHERE business_id = $1 AND invoice_date >= $2 AND invoice_date <= $3
		 ORDER BY invoice_date, invoice_number`,
		businessID, from, to)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.ListInRange: %w", err)
	}
	return invoices, nil
}

func (r *invoiceRepo) Update(ctx context.Context, inv *domain.Invoice) error {
	inv.UpdatedAt = time.Now().UTC()
	query := `UPDATE invoices SET
		invoice_number = $1, invoice_type = $2, export_mode = $3, invoice_date = $4,
		customer_name = $5, customer_gstin = $6, customer_state_code = $7, place_of_supply = $8,
		reverse_charge = $9, original_invoice_id = $10, items = $11,
		subtotal = $12, total_cgst = $13, total_sgst = $14, total_igst = $15, grand_total = $16,
		notes = $17, updated_at = $18
		WHERE id = $19 AND business_id = $20`
	result, err := r.db.ExecContext(ctx, query,
		inv.InvoiceNumber, inv.InvoiceType, inv.ExportMode, inv.InvoiceDate,
		inv.CustomerName, inv.CustomerGSTIN, inv.CustomerStateCode, inv.PlaceOfSupply,
		inv.ReverseCharge, inv.OriginalInvoiceID, inv.Items,
		inv.Subtotal, inv.TotalCGST, inv.TotalSGST, inv.TotalIGST, inv.GrandTotal,
		inv.Notes, inv.UpdatedAt,
		inv.ID, inv.BusinessID)
	if err != nil {
		if isUniqueViolation(err, "invoices_business_id_invoice_number_key") {
			return domain.ErrDuplicateDocument
		}
		return fmt.Errorf("invoiceRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *invoiceRepo) Delete(ctx context.Context, businessID, invoiceID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM invoices WHERE id = $1 AND business_id = $2", invoiceID, businessID)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
