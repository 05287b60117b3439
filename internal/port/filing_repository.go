package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gstdesk/internal/domain"
	"gstdesk/internal/gst"
)

// FilingReturnRepository defines the contract for return persistence.
type FilingReturnRepository interface {
	Create(ctx context.Context, r *domain.FilingReturn) error
	GetByID(ctx context.Context, businessID, returnID uuid.UUID) (*domain.FilingReturn, error)
	List(ctx context.Context, businessID uuid.UUID, offset, limit int) ([]domain.FilingReturn, int, error)
	ListAll(ctx context.Context, businessID uuid.UUID) ([]domain.FilingReturn, error)
	// ListFiled returns the filed returns of the given types for one period.
	ListFiled(ctx context.Context, businessID uuid.UUID, period string, types []gst.ReturnType) ([]domain.FilingReturn, error)
	// ListPendingDueBetween returns pending returns across all businesses due in [from, to].
	ListPendingDueBetween(ctx context.Context, from, to time.Time) ([]domain.FilingReturn, error)
	// MarkFiled moves a pending return to filed. It returns
	// domain.ErrReturnAlreadyFiled when the return is no longer pending.
	MarkFiled(ctx context.Context, r *domain.FilingReturn) error
}

// PaymentRepository defines the contract for challan persistence.
type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	GetByID(ctx context.Context, businessID, paymentID uuid.UUID) (*domain.Payment, error)
	List(ctx context.Context, businessID uuid.UUID, offset, limit int) ([]domain.Payment, int, error)
}
