package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gstdesk/internal/domain"
	"gstdesk/internal/gst"
	"gstdesk/internal/port"
)

// PaymentInput is the DTO for recording a challan.
type PaymentInput struct {
	ReturnID        *uuid.UUID      `json:"return_id"`
	Period          string          `json:"period" binding:"required,period"`
	ChallanNumber   string          `json:"challan_number" binding:"required"`
	PaymentDate     string          `json:"payment_date" binding:"required"`
	CGST            decimal.Decimal `json:"cgst"`
	SGST            decimal.Decimal `json:"sgst"`
	IGST            decimal.Decimal `json:"igst"`
	Cess            decimal.Decimal `json:"cess"`
	Interest        decimal.Decimal `json:"interest"`
	LateFee         decimal.Decimal `json:"late_fee"`
	ITCUtilizedCGST decimal.Decimal `json:"itc_utilized_cgst"`
	ITCUtilizedSGST decimal.Decimal `json:"itc_utilized_sgst"`
	ITCUtilizedIGST decimal.Decimal `json:"itc_utilized_igst"`
}

// PaymentService defines the challan contract.
type PaymentService interface {
	Create(ctx context.Context, businessID, userID uuid.UUID, input PaymentInput) (*domain.Payment, error)
	GetByID(ctx context.Context, businessID, paymentID uuid.UUID) (*domain.Payment, error)
	List(ctx context.Context, businessID uuid.UUID, offset, limit int) ([]domain.Payment, int, error)
}

type paymentService struct {
	repo       port.PaymentRepository
	returnRepo port.FilingReturnRepository
}

// NewPaymentService creates a new PaymentService implementation.
func NewPaymentService(repo port.PaymentRepository, returnRepo port.FilingReturnRepository) PaymentService {
	return &paymentService{repo: repo, returnRepo: returnRepo}
}

func (s *paymentService) Create(ctx context.Context, businessID, userID uuid.UUID, input PaymentInput) (*domain.Payment, error) {
	period, err := gst.ParsePeriod(input.Period)
	if err != nil {
		return nil, err
	}
	date, err := parseDate("payment_date", input.PaymentDate)
	if err != nil {
		return nil, err
	}

	amounts := map[string]decimal.Decimal{
		"cgst": input.CGST, "sgst": input.SGST, "igst": input.IGST, "cess": input.Cess,
		"interest": input.Interest, "late_fee": input.LateFee,
		"itc_utilized_cgst": input.ITCUtilizedCGST, "itc_utilized_sgst": input.ITCUtilizedSGST,
		"itc_utilized_igst": input.ITCUtilizedIGST,
	}
	for name, amt := range amounts {
		if amt.IsNegative() {
			return nil, fmt.Errorf("%w: %s must not be negative", domain.ErrInvalidDocument, name)
		}
	}

	if input.ReturnID != nil {
		r, err := s.returnRepo.GetByID(ctx, businessID, *input.ReturnID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: linked return not found", domain.ErrInvalidDocument)
			}
			return nil, fmt.Errorf("paymentService.Create: %w", err)
		}
		if r.Period != period.String() {
			return nil, fmt.Errorf("%w: payment period %s does not match return period %s", domain.ErrInvalidDocument, period, r.Period)
		}
	}

	p := &domain.Payment{
		BusinessID:      businessID,
		ReturnID:        input.ReturnID,
		Period:          period.String(),
		ChallanNumber:   input.ChallanNumber,
		PaymentDate:     date,
		CGST:            gst.RoundMoney(input.CGST),
		SGST:            gst.RoundMoney(input.SGST),
		IGST:            gst.RoundMoney(input.IGST),
		Cess:            gst.RoundMoney(input.Cess),
		Interest:        gst.RoundMoney(input.Interest),
		LateFee:         gst.RoundMoney(input.LateFee),
		ITCUtilizedCGST: gst.RoundMoney(input.ITCUtilizedCGST),
		ITCUtilizedSGST: gst.RoundMoney(input.ITCUtilizedSGST),
		ITCUtilizedIGST: gst.RoundMoney(input.ITCUtilizedIGST),
		CreatedBy:       userID,
	}
	p.ComputeTotal()

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *paymentService) GetByID(ctx context.Context, businessID, paymentID uuid.UUID) (*domain.Payment, error) {
	return s.repo.GetByID(ctx, businessID, paymentID)
}

func (s *paymentService) List(ctx context.Context, businessID uuid.UUID, offset, limit int) ([]domain.Payment, int, error) {
	return s.repo.List(ctx, businessID, offset, limit)
}
