package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gstdesk/internal/domain"
)

// DocumentFilter narrows invoice and purchase listings. From and To are
// inclusive calendar dates.
type DocumentFilter struct {
	From   *time.Time
	To     *time.Time
	Offset int
	Limit  int
}

// InvoiceRepository defines the contract for outward supply persistence.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *domain.Invoice) error
	GetByID(ctx context.Context, businessID, invoiceID uuid.UUID) (*domain.Invoice, error)
	List(ctx context.Context, businessID uuid.UUID, filter DocumentFilter) ([]domain.Invoice, int, error)
	ListInRange(ctx context.Context, businessID uuid.UUID, from, to time.Time) ([]domain.Invoice, error)
	Update(ctx context.Context, inv *domain.Invoice) error
	Delete(ctx context.Context, businessID, invoiceID uuid.UUID) error
}

// PurchaseRepository defines the contract for inward supply persistence.
type PurchaseRepository interface {
	Create(ctx context.Context, p *domain.Purchase) error
	GetByID(ctx context.Context, businessID, purchaseID uuid.UUID) (*domain.Purchase, error)
	List(ctx context.Context, businessID uuid.UUID, filter DocumentFilter) ([]domain.Purchase, int, error)
	ListInRange(ctx context.Context, businessID uuid.UUID, from, to time.Time) ([]domain.Purchase, error)
	Update(ctx context.Context, p *domain.Purchase) error
	Delete(ctx context.Context, businessID, purchaseID uuid.UUID) error
}
