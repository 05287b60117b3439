package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"gstdesk/internal/domain"
	"gstdesk/internal/gst"
	"gstdesk/internal/port"
)

// StartReturnInput is the DTO for opening a return for a period.
type StartReturnInput struct {
	ReturnType gst.ReturnType `json:"return_type" binding:"required,oneof=GSTR1 GSTR3B GSTR4 GSTR9 CMP08"`
	Period     string         `json:"period" binding:"required,period"`
	// DueDate overrides the statutory due date, e.g. after a notified extension.
	DueDate string `json:"due_date"`
}

// FileReturnInput is the DTO for filing a pending return.
type FileReturnInput struct {
	ARN       string `json:"arn"`
	FiledDate string `json:"filed_date"`
}

// LateFeeInput is the DTO for the ad-hoc late fee calculator.
type LateFeeInput struct {
	ReturnType  gst.ReturnType  `json:"return_type" binding:"required,oneof=GSTR1 GSTR3B GSTR4 GSTR9 CMP08"`
	DueDate     string          `json:"due_date" binding:"required"`
	Outstanding decimal.Decimal `json:"outstanding_tax"`
	AsOf        string          `json:"as_of"`
}

// FilingService manages the lifecycle of statutory returns.
type FilingService interface {
	Start(ctx context.Context, businessID, userID uuid.UUID, input StartReturnInput) (*domain.FilingReturn, error)
	GetByID(ctx context.Context, businessID, returnID uuid.UUID) (*domain.FilingReturn, error)
	List(ctx context.Context, businessID uuid.UUID, offset, limit int) ([]domain.FilingReturn, int, error)
	AutoPopulate(ctx context.Context, businessID, returnID uuid.UUID, input FileReturnInput) (*domain.FilingReturn, error)
	FileNil(ctx context.Context, businessID, returnID uuid.UUID, input FileReturnInput) (*domain.FilingReturn, error)
	LateFee(ctx context.Context, businessID, returnID uuid.UUID) (*gst.Penalty, error)
	CalculateLateFee(input LateFeeInput) (*gst.Penalty, error)
}

type filingService struct {
	repo         port.FilingReturnRepository
	businessRepo port.BusinessRepository
	liability    LiabilityService
	cal          Calendar
	log          *logrus.Logger
}

// NewFilingService creates a new FilingService implementation.
func NewFilingService(
	repo port.FilingReturnRepository,
	businessRepo port.BusinessRepository,
	liability LiabilityService,
	cal Calendar,
	log *logrus.Logger,
) FilingService {
	return &filingService{
		repo:         repo,
		businessRepo: businessRepo,
		liability:    liability,
		cal:          cal,
		log:          log,
	}
}

// applicableReturns lists the returns each kind of registration files.
func applicableReturns(composition bool) map[gst.ReturnType]bool {
	if composition {
		return map[gst.ReturnType]bool{gst.ReturnCMP08: true, gst.ReturnGSTR4: true}
	}
	return map[gst.ReturnType]bool{gst.ReturnGSTR1: true, gst.ReturnGSTR3B: true, gst.ReturnGSTR9: true}
}

func (s *filingService) Start(ctx context.Context, businessID, userID uuid.UUID, input StartReturnInput) (*domain.FilingReturn, error) {
	if !input.ReturnType.Valid() {
		return nil, domain.ErrInvalidReturnType
	}
	period, err := gst.ParsePeriod(input.Period)
	if err != nil {
		return nil, err
	}

	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("filingService.Start: %w", err)
	}
	if !applicableReturns(business.IsComposition)[input.ReturnType] {
		return nil, fmt.Errorf("%w: %s", domain.ErrReturnNotApplicable, input.ReturnType)
	}

	due := gst.DefaultDueDate(input.ReturnType, period, nil)
	if input.DueDate != "" {
		if due, err = parseDate("due_date", input.DueDate); err != nil {
			return nil, err
		}
	}

	r := &domain.FilingReturn{
		BusinessID:   businessID,
		ReturnType:   input.ReturnType,
		Period:       period.String(),
		DueDate:      due,
		Status:       gst.FilingPending,
		TaxLiability: decimal.Zero,
		ITCClaimed:   decimal.Zero,
		Snapshot:     domain.LiabilitySnapshot(gst.Reconcile(nil, nil)),
		CreatedBy:    userID,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *filingService) GetByID(ctx context.Context, businessID, returnID uuid.UUID) (*domain.FilingReturn, error) {
	return s.repo.GetByID(ctx, businessID, returnID)
}

func (s *filingService) List(ctx context.Context, businessID uuid.UUID, offset, limit int) ([]domain.FilingReturn, int, error) {
	return s.repo.List(ctx, businessID, offset, limit)
}

// AutoPopulate files a return with the period's reconciled liability. GSTR-1
// reports outward tax only; the other returns report the net payable and the
// credit set off against output tax.
func (s *filingService) AutoPopulate(ctx context.Context, businessID, returnID uuid.UUID, input FileReturnInput) (*domain.FilingReturn, error) {
	r, period, err := s.pending(ctx, businessID, returnID)
	if err != nil {
		return nil, err
	}

	l, err := s.returnLiability(ctx, businessID, r.ReturnType, period)
	if err != nil {
		return nil, fmt.Errorf("filingService.AutoPopulate: %w", err)
	}

	if r.ReturnType == gst.ReturnGSTR1 {
		r.TaxLiability = l.OutputTax()
		r.ITCClaimed = decimal.Zero
	} else {
		r.TaxLiability = l.TotalPayable
		r.ITCClaimed = l.OutputTax().Sub(l.TotalPayable)
	}
	r.Snapshot = domain.LiabilitySnapshot(l)
	r.FilingMode = domain.FilingModeAuto
	return s.file(ctx, r, input)
}

// FileNil files a return declaring no activity for the period.
func (s *filingService) FileNil(ctx context.Context, businessID, returnID uuid.UUID, input FileReturnInput) (*domain.FilingReturn, error) {
	r, period, err := s.pending(ctx, businessID, returnID)
	if err != nil {
		return nil, err
	}

	l, err := s.returnLiability(ctx, businessID, r.ReturnType, period)
	if err != nil {
		return nil, fmt.Errorf("filingService.FileNil: %w", err)
	}
	if !l.OutputTax().IsZero() {
		return nil, fmt.Errorf("%w: output tax %s in %s", domain.ErrNilReturnHasActivity, l.OutputTax().StringFixed(2), period)
	}

	r.TaxLiability = decimal.Zero
	r.ITCClaimed = decimal.Zero
	r.Snapshot = domain.LiabilitySnapshot(gst.Reconcile(nil, nil))
	r.FilingMode = domain.FilingModeNil
	return s.file(ctx, r, input)
}

// LateFee returns the penalty on a return. A filed return is assessed as of its
// filed date on the liability it was filed with; a pending return is assessed
// as of today on the period's current liability.
func (s *filingService) LateFee(ctx context.Context, businessID, returnID uuid.UUID) (*gst.Penalty, error) {
	r, err := s.repo.GetByID(ctx, businessID, returnID)
	if err != nil {
		return nil, err
	}

	if r.IsFiled() {
		asOf := s.cal.Today()
		if r.FiledDate != nil {
			asOf = calendarDate(*r.FiledDate)
		}
		p := gst.CalculatePenalty(r.ReturnType, calendarDate(r.DueDate), r.Snapshot.TotalPayable, asOf)
		return &p, nil
	}

	period, err := gst.ParsePeriod(r.Period)
	if err != nil {
		return nil, fmt.Errorf("filingService.LateFee: %w", err)
	}
	l, err := s.returnLiability(ctx, businessID, r.ReturnType, period)
	if err != nil {
		return nil, fmt.Errorf("filingService.LateFee: %w", err)
	}
	outstanding := l.TotalPayable
	if r.ReturnType == gst.ReturnGSTR1 {
		outstanding = decimal.Zero
	}
	p := gst.CalculatePenalty(r.ReturnType, calendarDate(r.DueDate), outstanding, s.cal.Today())
	return &p, nil
}

func (s *filingService) CalculateLateFee(input LateFeeInput) (*gst.Penalty, error) {
	if !input.ReturnType.Valid() {
		return nil, domain.ErrInvalidReturnType
	}
	due, err := parseDate("due_date", input.DueDate)
	if err != nil {
		return nil, err
	}
	asOf := s.cal.Today()
	if input.AsOf != "" {
		if asOf, err = parseDate("as_of", input.AsOf); err != nil {
			return nil, err
		}
	}
	if input.Outstanding.IsNegative() {
		return nil, fmt.Errorf("%w: outstanding_tax must not be negative", domain.ErrInvalidDocument)
	}
	p := gst.CalculatePenalty(input.ReturnType, due, input.Outstanding, asOf)
	return &p, nil
}

// returnLiability totals the monthly liabilities of every month the return covers.
func (s *filingService) returnLiability(ctx context.Context, businessID uuid.UUID, rt gst.ReturnType, period gst.Period) (gst.Liability, error) {
	total := gst.Reconcile(nil, nil)
	for _, p := range gst.CoveredPeriods(rt, period) {
		l, err := s.liability.Reconcile(ctx, businessID, p)
		if err != nil {
			return gst.Liability{}, err
		}
		total = total.Add(l)
	}
	return total, nil
}

func (s *filingService) pending(ctx context.Context, businessID, returnID uuid.UUID) (*domain.FilingReturn, gst.Period, error) {
	r, err := s.repo.GetByID(ctx, businessID, returnID)
	if err != nil {
		return nil, gst.Period{}, err
	}
	if r.IsFiled() {
		return nil, gst.Period{}, domain.ErrReturnAlreadyFiled
	}
	period, err := gst.ParsePeriod(r.Period)
	if err != nil {
		return nil, gst.Period{}, fmt.Errorf("filingService: stored period: %w", err)
	}
	return r, period, nil
}

func (s *filingService) file(ctx context.Context, r *domain.FilingReturn, input FileReturnInput) (*domain.FilingReturn, error) {
	filed := s.cal.Today()
	if input.FiledDate != "" {
		d, err := parseDate("filed_date", input.FiledDate)
		if err != nil {
			return nil, err
		}
		if d.After(s.cal.Today()) {
			return nil, fmt.Errorf("%w: filed_date is in the future", domain.ErrInvalidDocument)
		}
		filed = d
	}
	r.FiledDate = &filed
	r.ARN = input.ARN

	if err := s.repo.MarkFiled(ctx, r); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"business_id":   r.BusinessID,
		"return_id":     r.ID,
		"return_type":   r.ReturnType,
		"period":        r.Period,
		"filing_mode":   r.FilingMode,
		"tax_liability": r.TaxLiability.StringFixed(2),
		"days_late":     gst.DaysLate(calendarDate(r.DueDate), filed),
	}).Info("return filed")
	return r, nil
}
