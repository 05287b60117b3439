package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"gstdesk/internal/config"
	"gstdesk/internal/domain"
	"gstdesk/internal/export"
	"gstdesk/internal/gst"
	"gstdesk/internal/port"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ExportResult points at an archived export.
type ExportResult struct {
	Format    domain.ExportFormat `json:"format"`
	Period    string              `json:"period"`
	Filename  string              `json:"filename"`
	Key       string              `json:"key"`
	URL       string              `json:"url"`
	ExpiresAt time.Time           `json:"expires_at"`
}

// ExportService renders period exports and archives them to object storage.
type ExportService interface {
	Export(ctx context.Context, businessID uuid.UUID, period gst.Period, format domain.ExportFormat) (*ExportResult, error)
}

type exportService struct {
	businessRepo port.BusinessRepository
	invoiceRepo  port.InvoiceRepository
	purchaseRepo port.PurchaseRepository
	liability    LiabilityService
	storage      port.ObjectStorage
	cfg          *config.S3Config
	log          *logrus.Logger
}

// NewExportService creates a new ExportService implementation.
func NewExportService(
	businessRepo port.BusinessRepository,
	invoiceRepo port.InvoiceRepository,
	purchaseRepo port.PurchaseRepository,
	liability LiabilityService,
	storage port.ObjectStorage,
	cfg *config.S3Config,
	log *logrus.Logger,
) ExportService {
	return &exportService{
		businessRepo: businessRepo,
		invoiceRepo:  invoiceRepo,
		purchaseRepo: purchaseRepo,
		liability:    liability,
		storage:      storage,
		cfg:          cfg,
		log:          log,
	}
}

func (s *exportService) Export(ctx context.Context, businessID uuid.UUID, period gst.Period, format domain.ExportFormat) (*ExportResult, error) {
	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("exportService.Export: %w", err)
	}
	from, to := period.Bounds(time.UTC)
	invoices, err := s.invoiceRepo.ListInRange(ctx, businessID, from, to)
	if err != nil {
		return nil, fmt.Errorf("exportService.Export: %w", err)
	}

	var (
		buf         bytes.Buffer
		filename    string
		contentType string
	)
	switch format {
	case domain.ExportInvoiceRegister:
		filename = export.BuildFilename(business.Name, "invoices", period, "csv")
		contentType = contentTypeCSV
		buf.Write(export.BOM)
		w := export.NewRegisterWriter(&buf)
		if err := w.WriteHeader(); err != nil {
			return nil, fmt.Errorf("exportService.Export: %w", err)
		}
		if err := w.WriteInvoices(invoices); err != nil {
			return nil, fmt.Errorf("exportService.Export: %w", err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, fmt.Errorf("exportService.Export: %w", err)
		}
	case domain.ExportGSTR3BWorkbook:
		purchases, err := s.purchaseRepo.ListInRange(ctx, businessID, from, to)
		if err != nil {
			return nil, fmt.Errorf("exportService.Export: %w", err)
		}
		l, err := s.liability.Reconcile(ctx, businessID, period)
		if err != nil {
			return nil, fmt.Errorf("exportService.Export: %w", err)
		}
		filename = export.BuildFilename(business.Name, "GSTR3B", period, "xlsx")
		contentType = contentTypeXLSX
		summary := export.SummarizeGSTR3B(business, period, invoices, purchases, l)
		if err := export.WriteGSTR3B(&buf, summary); err != nil {
			return nil, fmt.Errorf("exportService.Export: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", domain.ErrInvalidDocument, format)
	}

	key := fmt.Sprintf("exports/%s/%s/%s/%s", businessID, period, uuid.New(), filename)
	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:             s.cfg.Bucket,
		Key:                key,
		Body:               &buf,
		ContentType:        contentType,
		ContentDisposition: fmt.Sprintf(`attachment; filename="%s"`, filename),
	}); err != nil {
		s.log.WithError(err).WithField("key", key).Error("uploading export")
		return nil, domain.ErrUploadFailed
	}

	url, err := s.storage.GetPresignedURL(ctx, s.cfg.Bucket, key, s.cfg.PresignExpiry)
	if err != nil {
		return nil, fmt.Errorf("exportService.Export presign: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"business_id": businessID,
		"period":      period.String(),
		"format":      format,
		"key":         key,
	}).Info("export archived")

	return &ExportResult{
		Format:    format,
		Period:    period.String(),
		Filename:  filename,
		Key:       key,
		URL:       url,
		ExpiresAt: time.Now().Add(time.Duration(s.cfg.PresignExpiry) * time.Second).UTC(),
	}, nil
}
