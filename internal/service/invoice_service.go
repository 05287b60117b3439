package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"gstdesk/internal/domain"
	"gstdesk/internal/gst"
	"gstdesk/internal/port"
)

// InvoiceInput is the DTO for creating or replacing an invoice.
type InvoiceInput struct {
	InvoiceNumber     string          `json:"invoice_number" binding:"required,max=16"`
	InvoiceType       gst.InvoiceType `json:"invoice_type" binding:"required,oneof=tax_invoice bill_of_supply export_invoice debit_note credit_note"`
	ExportMode        gst.ExportMode  `json:"export_mode" binding:"omitempty,oneof=with_payment under_lut"`
	InvoiceDate       string          `json:"invoice_date" binding:"required"`
	CustomerName      string          `json:"customer_name" binding:"required"`
	CustomerGSTIN     string          `json:"customer_gstin"`
	CustomerStateCode string          `json:"customer_state_code" binding:"omitempty,statecode"`
	PlaceOfSupply     string          `json:"place_of_supply" binding:"omitempty,statecode"`
	ReverseCharge     bool            `json:"reverse_charge"`
	OriginalInvoiceID *uuid.UUID      `json:"original_invoice_id"`
	Items             []LineItemInput `json:"items" binding:"required,min=1,dive"`
	Notes             string          `json:"notes"`
}

// InvoiceService defines the outward supply contract.
type InvoiceService interface {
	Create(ctx context.Context, businessID, userID uuid.UUID, input InvoiceInput) (*domain.Invoice, error)
	GetByID(ctx context.Context, businessID, invoiceID uuid.UUID) (*domain.Invoice, error)
	List(ctx context.Context, businessID uuid.UUID, period *gst.Period, offset, limit int) ([]domain.Invoice, int, error)
	Update(ctx context.Context, businessID, invoiceID uuid.UUID, input InvoiceInput) (*domain.Invoice, error)
	Delete(ctx context.Context, businessID, invoiceID uuid.UUID) error
}

type invoiceService struct {
	repo         port.InvoiceRepository
	businessRepo port.BusinessRepository
	lock         periodLock
	cache        port.LiabilityCache
	hsn          HSNService
	log          *logrus.Logger
}

// NewInvoiceService creates a new InvoiceService implementation.
func NewInvoiceService(
	repo port.InvoiceRepository,
	businessRepo port.BusinessRepository,
	returnRepo port.FilingReturnRepository,
	cache port.LiabilityCache,
	hsn HSNService,
	log *logrus.Logger,
) InvoiceService {
	return &invoiceService{
		repo:         repo,
		businessRepo: businessRepo,
		lock:         periodLock{returns: returnRepo, types: invoiceLockingReturns},
		cache:        cache,
		hsn:          hsn,
		log:          log,
	}
}

func (s *invoiceService) Create(ctx context.Context, businessID, userID uuid.UUID, input InvoiceInput) (*domain.Invoice, error) {
	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("invoiceService.Create: %w", err)
	}

	inv := &domain.Invoice{BusinessID: businessID, CreatedBy: userID}
	if err := s.build(ctx, business, inv, input); err != nil {
		return nil, err
	}
	if err := s.lock.check(ctx, businessID, inv.Period()); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, err
	}
	s.invalidate(ctx, businessID)

	s.log.WithFields(logrus.Fields{
		"business_id": businessID,
		"invoice_id":  inv.ID,
		"period":      inv.Period().String(),
		"grand_total": inv.GrandTotal.StringFixed(2),
	}).Info("invoice created")
	return inv, nil
}

func (s *invoiceService) GetByID(ctx context.Context, businessID, invoiceID uuid.UUID) (*domain.Invoice, error) {
	return s.repo.GetByID(ctx, businessID, invoiceID)
}

func (s *invoiceService) List(ctx context.Context, businessID uuid.UUID, period *gst.Period, offset, limit int) ([]domain.Invoice, int, error) {
	filter := port.DocumentFilter{Offset: offset, Limit: limit}
	if period != nil {
		from, to := period.Bounds(time.UTC)
		filter.From, filter.To = &from, &to
	}
	return s.repo.List(ctx, businessID, filter)
}

// Update replaces an invoice and recomputes it. Both the old and the new
// period must be open.
func (s *invoiceService) Update(ctx context.Context, businessID, invoiceID uuid.UUID, input InvoiceInput) (*domain.Invoice, error) {
	inv, err := s.repo.GetByID(ctx, businessID, invoiceID)
	if err != nil {
		return nil, err
	}
	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("invoiceService.Update: %w", err)
	}

	oldPeriod := inv.Period()
	if err := s.build(ctx, business, inv, input); err != nil {
		return nil, err
	}
	if err := s.lock.check(ctx, businessID, oldPeriod, inv.Period()); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, err
	}
	s.invalidate(ctx, businessID)
	return inv, nil
}

func (s *invoiceService) Delete(ctx context.Context, businessID, invoiceID uuid.UUID) error {
	inv, err := s.repo.GetByID(ctx, businessID, invoiceID)
	if err != nil {
		return err
	}
	if err := s.lock.check(ctx, businessID, inv.Period()); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, businessID, invoiceID); err != nil {
		return err
	}
	s.invalidate(ctx, businessID)
	return nil
}

// build validates input against the issuing business and writes the computed
// invoice into inv.
func (s *invoiceService) build(ctx context.Context, business *domain.Business, inv *domain.Invoice, input InvoiceInput) error {
	if !input.InvoiceType.Valid() {
		return fmt.Errorf("%w: unknown invoice type %q", domain.ErrInvalidDocument, input.InvoiceType)
	}
	if business.IsComposition && input.InvoiceType == gst.InvoiceTypeTax {
		return fmt.Errorf("%w: composition dealers issue bills of supply", domain.ErrInvalidDocument)
	}

	date, err := parseDate("invoice_date", input.InvoiceDate)
	if err != nil {
		return err
	}

	mode := input.ExportMode
	pos := input.PlaceOfSupply
	switch input.InvoiceType {
	case gst.InvoiceTypeExport:
		if mode == "" {
			mode = gst.ExportWithPayment
		}
		if pos == "" {
			pos = "97"
		}
	default:
		if mode != "" {
			return fmt.Errorf("%w: export_mode applies to export invoices only", domain.ErrInvalidDocument)
		}
		if pos == "" {
			pos = input.CustomerStateCode
		}
	}
	if !gst.ValidStateCode(pos) {
		return fmt.Errorf("%w: place of supply %q", domain.ErrInvalidStateCode, pos)
	}
	if input.CustomerStateCode != "" && !gst.ValidStateCode(input.CustomerStateCode) {
		return fmt.Errorf("%w: customer state %q", domain.ErrInvalidStateCode, input.CustomerStateCode)
	}

	gstin := strings.ToUpper(strings.TrimSpace(input.CustomerGSTIN))
	if gstin != "" && !gst.ValidGSTIN(gstin) {
		return domain.ErrInvalidGSTIN
	}

	if err := s.checkOriginal(ctx, business.ID, input); err != nil {
		return err
	}

	items, err := toLineItems(ctx, s.hsn, input.Items)
	if err != nil {
		return err
	}
	if err := items.Validate(); err != nil {
		return err
	}
	treatment := gst.DetermineTreatment(input.InvoiceType, mode, business.StateCode, pos)
	totals := items.Compute(treatment)

	inv.InvoiceNumber = input.InvoiceNumber
	inv.InvoiceType = input.InvoiceType
	inv.ExportMode = mode
	inv.InvoiceDate = date
	inv.CustomerName = input.CustomerName
	inv.CustomerGSTIN = gstin
	inv.CustomerStateCode = input.CustomerStateCode
	inv.PlaceOfSupply = pos
	inv.ReverseCharge = input.ReverseCharge
	inv.OriginalInvoiceID = input.OriginalInvoiceID
	inv.Items = items
	inv.DocumentTotals = domain.NewDocumentTotals(totals)
	inv.Notes = input.Notes
	return nil
}

// checkOriginal requires debit and credit notes to reference an invoice of the
// same business, and forbids the reference on other types.
func (s *invoiceService) checkOriginal(ctx context.Context, businessID uuid.UUID, input InvoiceInput) error {
	isNote := input.InvoiceType == gst.InvoiceTypeDebitNote || input.InvoiceType == gst.InvoiceTypeCreditNote
	switch {
	case !isNote && input.OriginalInvoiceID != nil:
		return fmt.Errorf("%w: original_invoice_id applies to debit and credit notes only", domain.ErrInvalidDocument)
	case isNote && input.OriginalInvoiceID == nil:
		return fmt.Errorf("%w: %s requires original_invoice_id", domain.ErrInvalidDocument, input.InvoiceType)
	case !isNote:
		return nil
	}

	orig, err := s.repo.GetByID(ctx, businessID, *input.OriginalInvoiceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: original invoice not found", domain.ErrInvalidDocument)
		}
		return fmt.Errorf("invoiceService.checkOriginal: %w", err)
	}
	if orig.InvoiceType == gst.InvoiceTypeDebitNote || orig.InvoiceType == gst.InvoiceTypeCreditNote {
		return fmt.Errorf("%w: a note cannot reference another note", domain.ErrInvalidDocument)
	}
	return nil
}

func (s *invoiceService) invalidate(ctx context.Context, businessID uuid.UUID) {
	if err := s.cache.Invalidate(ctx, businessID); err != nil {
		s.log.WithError(err).WithField("business_id", businessID).Error("invalidating liability cache")
	}
}
