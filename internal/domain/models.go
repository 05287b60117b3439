package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gstdesk/internal/gst"
)

// Business is a GST-registered business and the unit of data isolation.
type Business struct {
	ID            uuid.UUID `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Slug          string    `db:"slug" json:"slug"`
	GSTIN         string    `db:"gstin" json:"gstin"`
	StateCode     string    `db:"state_code" json:"state_code"`
	IsComposition bool      `db:"is_composition" json:"is_composition"`
	ContactEmail  string    `db:"contact_email" json:"contact_email"`
	IsActive      bool      `db:"is_active" json:"is_active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// User is an authenticated user belonging to a business.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	BusinessID   uuid.UUID `db:"business_id" json:"business_id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// DocumentTotals holds the stored aggregate of a sales or purchase document.
type DocumentTotals struct {
	Subtotal   decimal.Decimal `db:"subtotal" json:"subtotal"`
	TotalCGST  decimal.Decimal `db:"total_cgst" json:"total_cgst"`
	TotalSGST  decimal.Decimal `db:"total_sgst" json:"total_sgst"`
	TotalIGST  decimal.Decimal `db:"total_igst" json:"total_igst"`
	GrandTotal decimal.Decimal `db:"grand_total" json:"grand_total"`
}

// Totals converts the stored amounts back to engine totals.
func (t DocumentTotals) Totals() gst.Totals {
	return gst.Totals{
		Subtotal:   t.Subtotal,
		CGST:       t.TotalCGST,
		SGST:       t.TotalSGST,
		IGST:       t.TotalIGST,
		GrandTotal: t.GrandTotal,
	}
}

// NewDocumentTotals converts engine totals to their stored form.
func NewDocumentTotals(t gst.Totals) DocumentTotals {
	return DocumentTotals{
		Subtotal:   t.Subtotal,
		TotalCGST:  t.CGST,
		TotalSGST:  t.SGST,
		TotalIGST:  t.IGST,
		GrandTotal: t.GrandTotal,
	}
}

// Invoice is an outward supply document: a tax invoice, bill of supply, export
// invoice or a debit/credit note against an earlier invoice.
type Invoice struct {
	ID                uuid.UUID       `db:"id" json:"id"`
	BusinessID        uuid.UUID       `db:"business_id" json:"business_id"`
	InvoiceNumber     string          `db:"invoice_number" json:"invoice_number"`
	InvoiceType       gst.InvoiceType `db:"invoice_type" json:"invoice_type"`
	ExportMode        gst.ExportMode  `db:"export_mode" json:"export_mode,omitempty"`
	InvoiceDate       time.Time       `db:"invoice_date" json:"invoice_date"`
	CustomerName      string          `db:"customer_name" json:"customer_name"`
	CustomerGSTIN     string          `db:"customer_gstin" json:"customer_gstin"`
	CustomerStateCode string          `db:"customer_state_code" json:"customer_state_code"`
	PlaceOfSupply     string          `db:"place_of_supply" json:"place_of_supply"`
	ReverseCharge     bool            `db:"reverse_charge" json:"reverse_charge"`
	OriginalInvoiceID *uuid.UUID      `db:"original_invoice_id" json:"original_invoice_id,omitempty"`
	Items             LineItems       `db:"items" json:"items"`
	DocumentTotals
	Notes     string    `db:"notes" json:"notes"`
	CreatedBy uuid.UUID `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Period returns the filing period the invoice falls in.
func (i *Invoice) Period() gst.Period {
	return gst.PeriodOf(i.InvoiceDate)
}

// Purchase is an inward supply recorded for input tax credit.
type Purchase struct {
	ID                uuid.UUID `db:"id" json:"id"`
	BusinessID        uuid.UUID `db:"business_id" json:"business_id"`
	BillNumber        string    `db:"bill_number" json:"bill_number"`
	BillDate          time.Time `db:"bill_date" json:"bill_date"`
	SupplierName      string    `db:"supplier_name" json:"supplier_name"`
	SupplierGSTIN     string    `db:"supplier_gstin" json:"supplier_gstin"`
	SupplierStateCode string    `db:"supplier_state_code" json:"supplier_state_code"`
	ITCEligible       bool      `db:"itc_eligible" json:"itc_eligible"`
	Items             LineItems `db:"items" json:"items"`
	DocumentTotals
	Notes     string    `db:"notes" json:"notes"`
	CreatedBy uuid.UUID `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Period returns the filing period the purchase falls in.
func (p *Purchase) Period() gst.Period {
	return gst.PeriodOf(p.BillDate)
}

// FilingReturn tracks one statutory return for one period. A return moves from
// pending to filed exactly once; filed is terminal.
type FilingReturn struct {
	ID           uuid.UUID         `db:"id" json:"id"`
	BusinessID   uuid.UUID         `db:"business_id" json:"business_id"`
	ReturnType   gst.ReturnType    `db:"return_type" json:"return_type"`
	Period       string            `db:"period" json:"period"`
	DueDate      time.Time         `db:"due_date" json:"due_date"`
	Status       gst.FilingStatus  `db:"status" json:"status"`
	FiledDate    *time.Time        `db:"filed_date" json:"filed_date,omitempty"`
	FilingMode   FilingMode        `db:"filing_mode" json:"filing_mode,omitempty"`
	TaxLiability decimal.Decimal   `db:"tax_liability" json:"tax_liability"`
	ITCClaimed   decimal.Decimal   `db:"itc_claimed" json:"itc_claimed"`
	Snapshot     LiabilitySnapshot `db:"liability_snapshot" json:"liability_snapshot"`
	ARN          string            `db:"arn" json:"arn,omitempty"`
	CreatedBy    uuid.UUID         `db:"created_by" json:"created_by"`
	CreatedAt    time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time         `db:"updated_at" json:"updated_at"`
}

// IsFiled reports whether the return has reached its terminal state.
func (r *FilingReturn) IsFiled() bool {
	return r.Status == gst.FilingFiled
}

// Record returns the fields the compliance score looks at.
func (r *FilingReturn) Record() gst.FilingRecord {
	return gst.FilingRecord{DueDate: r.DueDate, Status: r.Status, FiledDate: r.FiledDate}
}

// Payment is a tax payment challan.
type Payment struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	BusinessID      uuid.UUID       `db:"business_id" json:"business_id"`
	ReturnID        *uuid.UUID      `db:"return_id" json:"return_id,omitempty"`
	Period          string          `db:"period" json:"period"`
	ChallanNumber   string          `db:"challan_number" json:"challan_number"`
	PaymentDate     time.Time       `db:"payment_date" json:"payment_date"`
	CGST            decimal.Decimal `db:"cgst" json:"cgst"`
	SGST            decimal.Decimal `db:"sgst" json:"sgst"`
	IGST            decimal.Decimal `db:"igst" json:"igst"`
	Cess            decimal.Decimal `db:"cess" json:"cess"`
	Interest        decimal.Decimal `db:"interest" json:"interest"`
	LateFee         decimal.Decimal `db:"late_fee" json:"late_fee"`
	ITCUtilizedCGST decimal.Decimal `db:"itc_utilized_cgst" json:"itc_utilized_cgst"`
	ITCUtilizedSGST decimal.Decimal `db:"itc_utilized_sgst" json:"itc_utilized_sgst"`
	ITCUtilizedIGST decimal.Decimal `db:"itc_utilized_igst" json:"itc_utilized_igst"`
	TotalAmount     decimal.Decimal `db:"total_amount" json:"total_amount"`
	CreatedBy       uuid.UUID       `db:"created_by" json:"created_by"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

// ITCUtilized is the credit set off across all heads.
func (p *Payment) ITCUtilized() decimal.Decimal {
	return p.ITCUtilizedCGST.Add(p.ITCUtilizedSGST).Add(p.ITCUtilizedIGST)
}

// ComputeTotal sets TotalAmount to the cash paid across all heads. Credit
// utilized per head is recorded but not part of the cash total.
func (p *Payment) ComputeTotal() {
	p.TotalAmount = p.CGST.Add(p.SGST).Add(p.IGST).Add(p.Cess).Add(p.Interest).Add(p.LateFee)
}

// ReconcileTotals returns the totals the invoice contributes to its period's
// output tax. Credit notes contribute negatively.
func (i *Invoice) ReconcileTotals() gst.Totals {
	t := i.Totals()
	if i.InvoiceType.ReducesLiability() {
		return t.Negate()
	}
	return t
}
