package gst

// InvoiceType tags an outward supply document.
type InvoiceType string

const (
	InvoiceTypeTax          InvoiceType = "tax_invoice"
	InvoiceTypeBillOfSupply InvoiceType = "bill_of_supply"
	InvoiceTypeExport       InvoiceType = "export_invoice"
	InvoiceTypeDebitNote    InvoiceType = "debit_note"
	InvoiceTypeCreditNote   InvoiceType = "credit_note"
)

// Valid reports whether t is a known invoice type.
func (t InvoiceType) Valid() bool {
	switch t {
	case InvoiceTypeTax, InvoiceTypeBillOfSupply, InvoiceTypeExport, InvoiceTypeDebitNote, InvoiceTypeCreditNote:
		return true
	}
	return false
}

// ReducesLiability reports whether the document type reverses an earlier supply.
func (t InvoiceType) ReducesLiability() bool {
	return t == InvoiceTypeCreditNote
}

// ExportMode distinguishes exports that pay IGST from zero-rated exports under a
// Letter of Undertaking. It only applies to export invoices.
type ExportMode string

const (
	ExportWithPayment ExportMode = "with_payment"
	ExportUnderLUT    ExportMode = "under_lut"
)

// Treatment is the tax treatment of a whole document. Exactly one applies, so a
// line can never carry both CGST/SGST and IGST.
type Treatment int

const (
	TreatmentIntraState Treatment = iota
	TreatmentInterState
	TreatmentSuppressed
)

func (t Treatment) String() string {
	switch t {
	case TreatmentIntraState:
		return "intra_state"
	case TreatmentInterState:
		return "inter_state"
	case TreatmentSuppressed:
		return "suppressed"
	default:
		return "unknown"
	}
}

// IsInterState reports whether the supply crosses a state boundary.
func IsInterState(ownState, placeOfSupply string) bool {
	return ownState != placeOfSupply
}

// DetermineTreatment derives the tax treatment of an outward supply.
func DetermineTreatment(docType InvoiceType, mode ExportMode, ownState, placeOfSupply string) Treatment {
	switch docType {
	case InvoiceTypeBillOfSupply:
		return TreatmentSuppressed
	case InvoiceTypeExport:
		if mode == ExportUnderLUT {
			return TreatmentSuppressed
		}
		return TreatmentInterState
	}
	if IsInterState(ownState, placeOfSupply) {
		return TreatmentInterState
	}
	return TreatmentIntraState
}

// PurchaseTreatment derives the treatment of an inward supply from the supplier's state.
func PurchaseTreatment(ownState, supplierState string) Treatment {
	if IsInterState(ownState, supplierState) {
		return TreatmentInterState
	}
	return TreatmentIntraState
}
