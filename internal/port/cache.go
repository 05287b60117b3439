package port

import (
	"context"

	"github.com/google/uuid"

	"gstdesk/internal/gst"
)

// LiabilityCache caches reconciled period liabilities per business.
type LiabilityCache interface {
	// Fetch returns the cached liability or computes and stores it with load.
	Fetch(ctx context.Context, businessID uuid.UUID, period string, load func(context.Context) (gst.Liability, error)) (gst.Liability, error)
	// Invalidate drops every cached liability of the business.
	Invalidate(ctx context.Context, businessID uuid.UUID) error
}
