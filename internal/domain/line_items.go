package domain

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"gstdesk/internal/gst"
)

// LineItemsSchemaVersion is the current version of the persisted line item envelope.
const LineItemsSchemaVersion = 1

// LineItem is one row of an invoice or purchase. The derived amounts are
// written by the tax engine and are never taken from client input.
type LineItem struct {
	Description   string           `json:"description"`
	HSNSAC        string           `json:"hsn_sac"`
	Quantity      decimal.Decimal  `json:"quantity"`
	Unit          string           `json:"unit,omitempty"`
	Rate          decimal.Decimal  `json:"rate"`
	Discount      decimal.Decimal  `json:"discount"`
	DiscountType  gst.DiscountType `json:"discount_type"`
	GSTRate       gst.Rate         `json:"gst_rate"`
	TaxableAmount decimal.Decimal  `json:"taxable_amount"`
	CGST          decimal.Decimal  `json:"cgst"`
	SGST          decimal.Decimal  `json:"sgst"`
	IGST          decimal.Decimal  `json:"igst"`
	Total         decimal.Decimal  `json:"total"`
}

// Input returns the engine input of the line.
func (li *LineItem) Input() gst.LineInput {
	return gst.LineInput{
		Quantity:     li.Quantity,
		Rate:         li.Rate,
		Discount:     li.Discount,
		DiscountType: li.DiscountType,
		GSTRate:      li.GSTRate,
	}
}

// Apply copies computed amounts onto the line.
func (li *LineItem) Apply(r gst.LineResult) {
	li.TaxableAmount = r.TaxableAmount
	li.CGST = r.CGST
	li.SGST = r.SGST
	li.IGST = r.IGST
	li.Total = r.Total
}

// Validate checks the user-entered fields of the line.
func (li *LineItem) Validate() error {
	switch {
	case li.Description == "":
		return fmt.Errorf("%w: line item description is required", ErrInvalidDocument)
	case !li.Quantity.IsPositive():
		return fmt.Errorf("%w: line item quantity must be positive", ErrInvalidDocument)
	case li.Rate.IsNegative():
		return fmt.Errorf("%w: line item rate must not be negative", ErrInvalidDocument)
	case li.Discount.IsNegative():
		return fmt.Errorf("%w: line item discount must not be negative", ErrInvalidDocument)
	case li.DiscountType != gst.DiscountAmount && li.DiscountType != gst.DiscountPercentage:
		return fmt.Errorf("%w: unknown discount type %q", ErrInvalidDocument, li.DiscountType)
	case !li.GSTRate.Valid():
		return fmt.Errorf("%w: %d", ErrInvalidGSTRate, li.GSTRate)
	}
	return nil
}

// LineItems is the ordered item list of a document, persisted as a versioned
// JSONB envelope {"version":1,"items":[...]}.
type LineItems []LineItem

type lineItemsEnvelope struct {
	Version int        `json:"version"`
	Items   []LineItem `json:"items"`
}

// Inputs returns the engine inputs of every line in order.
func (items LineItems) Inputs() []gst.LineInput {
	out := make([]gst.LineInput, len(items))
	for i := range items {
		out[i] = items[i].Input()
	}
	return out
}

// Validate checks every line and rejects an empty list.
func (items LineItems) Validate() error {
	if len(items) == 0 {
		return fmt.Errorf("%w: at least one line item is required", ErrInvalidDocument)
	}
	for i := range items {
		if err := items[i].Validate(); err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
	}
	return nil
}

// Compute runs the tax engine over every line, writes the results back and
// returns the document totals.
func (items LineItems) Compute(treatment gst.Treatment) gst.Totals {
	results, totals := gst.ComputeDocument(items.Inputs(), treatment)
	for i := range results {
		items[i].Apply(results[i])
	}
	return totals
}

// Value implements driver.Valuer.
func (items LineItems) Value() (driver.Value, error) {
	env := lineItemsEnvelope{Version: LineItemsSchemaVersion, Items: items}
	if env.Items == nil {
		env.Items = []LineItem{}
	}
	b, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encoding line items: %w", err)
	}
	return b, nil
}

// Scan implements sql.Scanner. Unknown versions, unknown fields and invalid
// lines are rejected.
func (items *LineItems) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*items = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scanning line items: unsupported type %T", src)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var env lineItemsEnvelope
	if err := dec.Decode(&env); err != nil {
		return fmt.Errorf("decoding line items: %w", err)
	}
	if env.Version != LineItemsSchemaVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedLineItems, env.Version)
	}
	for i := range env.Items {
		if err := env.Items[i].Validate(); err != nil {
			return fmt.Errorf("stored line %d: %w", i+1, err)
		}
	}
	*items = env.Items
	return nil
}

// LiabilitySnapshot is the reconciled liability captured when a return is filed.
type LiabilitySnapshot gst.Liability

// Value implements driver.Valuer.
func (s LiabilitySnapshot) Value() (driver.Value, error) {
	b, err := json.Marshal(gst.Liability(s))
	if err != nil {
		return nil, fmt.Errorf("encoding liability snapshot: %w", err)
	}
	return b, nil
}

// Scan implements sql.Scanner.
func (s *LiabilitySnapshot) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = LiabilitySnapshot{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scanning liability snapshot: unsupported type %T", src)
	}
	var l gst.Liability
	if err := json.Unmarshal(raw, &l); err != nil {
		return fmt.Errorf("decoding liability snapshot: %w", err)
	}
	*s = LiabilitySnapshot(l)
	return nil
}
