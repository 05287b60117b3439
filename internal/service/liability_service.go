package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gstdesk/internal/gst"
	"gstdesk/internal/port"
)

// LiabilityService reconciles the tax position of a period.
type LiabilityService interface {
	Reconcile(ctx context.Context, businessID uuid.UUID, period gst.Period) (gst.Liability, error)
}

type liabilityService struct {
	invoiceRepo  port.InvoiceRepository
	purchaseRepo port.PurchaseRepository
	cache        port.LiabilityCache
}

// NewLiabilityService creates a new LiabilityService implementation.
func NewLiabilityService(invoiceRepo port.InvoiceRepository, purchaseRepo port.PurchaseRepository, cache port.LiabilityCache) LiabilityService {
	return &liabilityService{invoiceRepo: invoiceRepo, purchaseRepo: purchaseRepo, cache: cache}
}

func (s *liabilityService) Reconcile(ctx context.Context, businessID uuid.UUID, period gst.Period) (gst.Liability, error) {
	return s.cache.Fetch(ctx, businessID, period.String(), func(ctx context.Context) (gst.Liability, error) {
		return s.compute(ctx, businessID, period)
	})
}

// compute nets the period's outward supplies against credit from ITC-eligible
// purchases. Credit notes reduce output tax.
func (s *liabilityService) compute(ctx context.Context, businessID uuid.UUID, period gst.Period) (gst.Liability, error) {
	from, to := period.Bounds(time.UTC)

	invoices, err := s.invoiceRepo.ListInRange(ctx, businessID, from, to)
	if err != nil {
		return gst.Liability{}, fmt.Errorf("liabilityService.Reconcile: %w", err)
	}
	purchases, err := s.purchaseRepo.ListInRange(ctx, businessID, from, to)
	if err != nil {
		return gst.Liability{}, fmt.Errorf("liabilityService.Reconcile: %w", err)
	}

	outputs := make([]gst.Totals, 0, len(invoices))
	for i := range invoices {
		outputs = append(outputs, invoices[i].ReconcileTotals())
	}
	inputs := make([]gst.Totals, 0, len(purchases))
	for i := range purchases {
		if purchases[i].ITCEligible {
			inputs = append(inputs, purchases[i].Totals())
		}
	}
	return gst.Reconcile(outputs, inputs), nil
}
