package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"gstdesk/internal/domain"
	"gstdesk/internal/gst"
)

// LineItemInput is the client-entered part of a line item. GSTRate may be
// omitted when HSNSAC names a code in the HSN master.
type LineItemInput struct {
	Description  string           `json:"description" binding:"required"`
	HSNSAC       string           `json:"hsn_sac"`
	Quantity     decimal.Decimal  `json:"quantity"`
	Unit         string           `json:"unit"`
	Rate         decimal.Decimal  `json:"rate"`
	Discount     decimal.Decimal  `json:"discount"`
	DiscountType gst.DiscountType `json:"discount_type" binding:"omitempty,oneof=amount percentage"`
	GSTRate      *gst.Rate        `json:"gst_rate" binding:"omitempty,gstrate"`
}

// toLineItems converts client lines, filling omitted rates from the HSN master.
func toLineItems(ctx context.Context, hsn HSNService, in []LineItemInput) (domain.LineItems, error) {
	items := make(domain.LineItems, len(in))
	for i := range in {
		rate, err := lineRate(ctx, hsn, i, in[i])
		if err != nil {
			return nil, err
		}
		dt := in[i].DiscountType
		if dt == "" {
			dt = gst.DiscountAmount
		}
		items[i] = domain.LineItem{
			Description:  in[i].Description,
			HSNSAC:       in[i].HSNSAC,
			Quantity:     in[i].Quantity,
			Unit:         in[i].Unit,
			Rate:         in[i].Rate,
			Discount:     in[i].Discount,
			DiscountType: dt,
			GSTRate:      rate,
		}
	}
	return items, nil
}

func lineRate(ctx context.Context, hsn HSNService, i int, in LineItemInput) (gst.Rate, error) {
	if in.GSTRate != nil {
		return *in.GSTRate, nil
	}
	if in.HSNSAC == "" {
		return 0, fmt.Errorf("%w: item %d needs gst_rate or hsn_sac", domain.ErrInvalidGSTRate, i+1)
	}
	rate, err := hsn.DefaultRate(ctx, in.HSNSAC)
	if errors.Is(err, domain.ErrNotFound) {
		return 0, fmt.Errorf("%w: item %d has no gst_rate and HSN %s is not in the master",
			domain.ErrInvalidGSTRate, i+1, in.HSNSAC)
	}
	if err != nil {
		return 0, fmt.Errorf("resolving rate for HSN %s: %w", in.HSNSAC, err)
	}
	return rate, nil
}
