package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"gstdesk/internal/gst"
	"gstdesk/internal/port"
)

// ComplianceService rates a business's filing discipline.
type ComplianceService interface {
	Score(ctx context.Context, businessID uuid.UUID) (*gst.ComplianceScore, error)
}

type complianceService struct {
	returnRepo port.FilingReturnRepository
	weights    gst.Weights
	cal        Calendar
}

// NewComplianceService creates a new ComplianceService implementation.
func NewComplianceService(returnRepo port.FilingReturnRepository, weights gst.Weights, cal Calendar) ComplianceService {
	return &complianceService{returnRepo: returnRepo, weights: weights, cal: cal}
}

func (s *complianceService) Score(ctx context.Context, businessID uuid.UUID) (*gst.ComplianceScore, error) {
	returns, err := s.returnRepo.ListAll(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("complianceService.Score: %w", err)
	}
	records := make([]gst.FilingRecord, len(returns))
	for i := range returns {
		records[i] = returns[i].Record()
	}
	score := gst.Score(records, s.cal.Today(), s.weights)
	return &score, nil
}
