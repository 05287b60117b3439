package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"gstdesk/internal/domain"
	"gstdesk/internal/gst"
	"gstdesk/internal/port"
)

// PurchaseInput is the DTO for creating or replacing a purchase bill.
type PurchaseInput struct {
	BillNumber        string          `json:"bill_number" binding:"required"`
	BillDate          string          `json:"bill_date" binding:"required"`
	SupplierName      string          `json:"supplier_name" binding:"required"`
	SupplierGSTIN     string          `json:"supplier_gstin"`
	SupplierStateCode string          `json:"supplier_state_code" binding:"omitempty,statecode"`
	ITCEligible       *bool           `json:"itc_eligible"`
	Items             []LineItemInput `json:"items" binding:"required,min=1,dive"`
	Notes             string          `json:"notes"`
}

// PurchaseService defines the inward supply contract.
type PurchaseService interface {
	Create(ctx context.Context, businessID, userID uuid.UUID, input PurchaseInput) (*domain.Purchase, error)
	GetByID(ctx context.Context, businessID, purchaseID uuid.UUID) (*domain.Purchase, error)
	List(ctx context.Context, businessID uuid.UUID, period *gst.Period, offset, limit int) ([]domain.Purchase, int, error)
	Update(ctx context.Context, businessID, purchaseID uuid.UUID, input PurchaseInput) (*domain.Purchase, error)
	Delete(ctx context.Context, businessID, purchaseID uuid.UUID) error
}

type purchaseService struct {
	repo         port.PurchaseRepository
	businessRepo port.BusinessRepository
	lock         periodLock
	cache        port.LiabilityCache
	hsn          HSNService
	log          *logrus.Logger
}

// NewPurchaseService creates a new PurchaseService implementation.
func NewPurchaseService(
	repo port.PurchaseRepository,
	businessRepo port.BusinessRepository,
	returnRepo port.FilingReturnRepository,
	cache port.LiabilityCache,
	hsn HSNService,
	log *logrus.Logger,
) PurchaseService {
	return &purchaseService{
		repo:         repo,
		businessRepo: businessRepo,
		lock:         periodLock{returns: returnRepo, types: purchaseLockingReturns},
		cache:        cache,
		hsn:          hsn,
		log:          log,
	}
}

func (s *purchaseService) Create(ctx context.Context, businessID, userID uuid.UUID, input PurchaseInput) (*domain.Purchase, error) {
	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("purchaseService.Create: %w", err)
	}

	p := &domain.Purchase{BusinessID: businessID, CreatedBy: userID}
	if err := s.build(ctx, business, p, input); err != nil {
		return nil, err
	}
	if err := s.lock.check(ctx, businessID, p.Period()); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, businessID)

	s.log.WithFields(logrus.Fields{
		"business_id":  businessID,
		"purchase_id":  p.ID,
		"period":       p.Period().String(),
		"itc_eligible": p.ITCEligible,
	}).Info("purchase recorded")
	return p, nil
}

func (s *purchaseService) GetByID(ctx context.Context, businessID, purchaseID uuid.UUID) (*domain.Purchase, error) {
	return s.repo.GetByID(ctx, businessID, purchaseID)
}

func (s *purchaseService) List(ctx context.Context, businessID uuid.UUID, period *gst.Period, offset, limit int) ([]domain.Purchase, int, error) {
	filter := port.DocumentFilter{Offset: offset, Limit: limit}
	if period != nil {
		from, to := period.Bounds(time.UTC)
		filter.From, filter.To = &from, &to
	}
	return s.repo.List(ctx, businessID, filter)
}

func (s *purchaseService) Update(ctx context.Context, businessID, purchaseID uuid.UUID, input PurchaseInput) (*domain.Purchase, error) {
	p, err := s.repo.GetByID(ctx, businessID, purchaseID)
	if err != nil {
		return nil, err
	}
	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("purchaseService.Update: %w", err)
	}

	oldPeriod := p.Period()
	if err := s.build(ctx, business, p, input); err != nil {
		return nil, err
	}
	if err := s.lock.check(ctx, businessID, oldPeriod, p.Period()); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, businessID)
	return p, nil
}

func (s *purchaseService) Delete(ctx context.Context, businessID, purchaseID uuid.UUID) error {
	p, err := s.repo.GetByID(ctx, businessID, purchaseID)
	if err != nil {
		return err
	}
	if err := s.lock.check(ctx, businessID, p.Period()); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, businessID, purchaseID); err != nil {
		return err
	}
	s.invalidate(ctx, businessID)
	return nil
}

func (s *purchaseService) invalidate(ctx context.Context, businessID uuid.UUID) {
	if err := s.cache.Invalidate(ctx, businessID); err != nil {
		s.log.WithError(err).WithField("business_id", businessID).Error("invalidating liability cache")
	}
}

// build computes a purchase bill. The supplier state defaults to the one
// encoded in the supplier's GSTIN, and ITC eligibility defaults to true.
func (s *purchaseService) build(ctx context.Context, business *domain.Business, p *domain.Purchase, input PurchaseInput) error {
	date, err := parseDate("bill_date", input.BillDate)
	if err != nil {
		return err
	}

	gstin := strings.ToUpper(strings.TrimSpace(input.SupplierGSTIN))
	if gstin != "" && !gst.ValidGSTIN(gstin) {
		return domain.ErrInvalidGSTIN
	}
	state := input.SupplierStateCode
	if state == "" {
		state = gst.GSTINState(gstin)
	}
	if !gst.ValidStateCode(state) {
		return fmt.Errorf("%w: supplier state %q", domain.ErrInvalidStateCode, state)
	}

	items, err := toLineItems(ctx, s.hsn, input.Items)
	if err != nil {
		return err
	}
	if err := items.Validate(); err != nil {
		return err
	}
	totals := items.Compute(gst.PurchaseTreatment(business.StateCode, state))

	eligible := true
	if input.ITCEligible != nil {
		eligible = *input.ITCEligible
	}

	p.BillNumber = input.BillNumber
	p.BillDate = date
	p.SupplierName = input.SupplierName
	p.SupplierGSTIN = gstin
	p.SupplierStateCode = state
	p.ITCEligible = eligible
	p.Items = items
	p.DocumentTotals = domain.NewDocumentTotals(totals)
	p.Notes = input.Notes
	return nil
}
