package service_test

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"gstdesk/internal/domain"
	"gstdesk/internal/gst"
	"gstdesk/internal/service"
)

const (
	karnatakaGSTIN   = "29ABCDE1234F1Z5"
	maharashtraGSTIN = "27AAPFU0939F1ZV"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func fixedCalendar(y int, m time.Month, d int) service.Calendar {
	return service.Calendar{
		Location: time.UTC,
		Now:      func() time.Time { return time.Date(y, m, d, 10, 30, 0, 0, time.UTC) },
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertMoney(t assert.TestingT, expected string, actual decimal.Decimal, msgAndArgs ...interface{}) {
	assert.Equal(t, expected, actual.StringFixed(2), msgAndArgs...)
}

func regularBusiness() *domain.Business {
	return &domain.Business{
		ID:        uuid.New(),
		Name:      "Acme Traders",
		Slug:      "acme",
		GSTIN:     karnatakaGSTIN,
		StateCode: "29",
		IsActive:  true,
	}
}

func compositionBusiness() *domain.Business {
	b := regularBusiness()
	b.IsComposition = true
	return b
}

// consultingLine is 2 x 1000 at 18%.
func consultingLine() service.LineItemInput {
	return service.LineItemInput{
		Description: "Consulting",
		HSNSAC:      "998314",
		Quantity:    decimal.NewFromInt(2),
		Rate:        decimal.NewFromInt(1000),
		GSTRate:     rate(gst.Rate18),
	}
}

func rate(r gst.Rate) *gst.Rate {
	return &r
}

func filedReturn(rt gst.ReturnType, period string) domain.FilingReturn {
	filed := day(2026, time.May, 10)
	return domain.FilingReturn{ID: uuid.New(), ReturnType: rt, Period: period, Status: gst.FilingFiled, FiledDate: &filed}
}
