// Command backfill recomputes the stored line amounts and document totals of
// invoices and purchases, for example after a change to the rounding rules.
// Documents in periods locked by a filed return are left untouched.
//
// Usage: go run ./cmd/backfill -from 042025 [-to 032026] [-dry-run]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"gstdesk/internal/cache"
	"gstdesk/internal/config"
	"gstdesk/internal/domain"
	"gstdesk/internal/gst"
	"gstdesk/internal/logging"
	"gstdesk/internal/port"
	"gstdesk/internal/repository/postgres"
)

const batchSize = 100

type backfill struct {
	businesses port.BusinessRepository
	invoices   port.InvoiceRepository
	purchases  port.PurchaseRepository
	returns    port.FilingReturnRepository
	cache      port.LiabilityCache
	dryRun     bool
	log        *logrus.Logger
}

type counts struct {
	invoices, purchases, locked int
}

func main() {
	from := flag.String("from", "", "first period to recompute (MMYYYY)")
	to := flag.String("to", "", "last period to recompute (MMYYYY, defaults to -from)")
	dryRun := flag.Bool("dry-run", false, "report drift without writing")
	flag.Parse()

	if err := run(*from, *to, *dryRun); err != nil {
		logrus.WithError(err).Fatal("backfill failed")
	}
}

func run(fromKey, toKey string, dryRun bool) error {
	if fromKey == "" {
		flag.Usage()
		os.Exit(2)
	}
	if toKey == "" {
		toKey = fromKey
	}
	first, err := gst.ParsePeriod(fromKey)
	if err != nil {
		return fmt.Errorf("-from: %w", err)
	}
	last, err := gst.ParsePeriod(toKey)
	if err != nil {
		return fmt.Errorf("-to: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log := logging.New(cfg.Log)

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer func() { _ = rdb.Close() }()
	}

	b := &backfill{
		businesses: postgres.NewBusinessRepo(db),
		invoices:   postgres.NewInvoiceRepo(db),
		purchases:  postgres.NewPurchaseRepo(db),
		returns:    postgres.NewFilingReturnRepo(db),
		cache:      cache.NewLiabilityCache(rdb, cfg.Redis.TTL, nil, log),
		dryRun:     dryRun,
		log:        log,
	}

	ctx := context.Background()
	var total counts
	for offset := 0; ; offset += batchSize {
		businesses, _, err := b.businesses.List(ctx, offset, batchSize)
		if err != nil {
			return fmt.Errorf("listing businesses at offset %d: %w", offset, err)
		}
		if len(businesses) == 0 {
			break
		}
		for i := range businesses {
			c, err := b.business(ctx, &businesses[i], first, last)
			if err != nil {
				log.WithError(err).WithField("business_id", businesses[i].ID).Warn("skipping business")
				continue
			}
			total.invoices += c.invoices
			total.purchases += c.purchases
			total.locked += c.locked
		}
	}

	log.WithFields(logrus.Fields{
		"invoices":       total.invoices,
		"purchases":      total.purchases,
		"locked_periods": total.locked,
		"dry_run":        dryRun,
	}).Info("backfill complete")
	return nil
}

func (b *backfill) business(ctx context.Context, biz *domain.Business, first, last gst.Period) (counts, error) {
	var c counts
	for p := first; !after(p, last); p = p.Next() {
		from, to := p.Bounds(nil)

		invLocked, err := b.locked(ctx, biz.ID, p, gst.ReturnGSTR1, gst.ReturnGSTR3B)
		if err != nil {
			return c, err
		}
		if invLocked {
			c.locked++
		} else {
			invoices, err := b.invoices.ListInRange(ctx, biz.ID, from, to)
			if err != nil {
				return c, err
			}
			for i := range invoices {
				inv := &invoices[i]
				treatment := gst.DetermineTreatment(inv.InvoiceType, inv.ExportMode, biz.StateCode, inv.PlaceOfSupply)
				if !recompute(inv.Items, &inv.DocumentTotals, treatment) {
					continue
				}
				b.log.WithFields(logrus.Fields{"invoice_id": inv.ID, "period": p.String()}).Info("invoice totals drifted")
				if !b.dryRun {
					if err := b.invoices.Update(ctx, inv); err != nil {
						return c, err
					}
				}
				c.invoices++
			}
		}

		purLocked, err := b.locked(ctx, biz.ID, p, gst.ReturnGSTR3B)
		if err != nil {
			return c, err
		}
		if purLocked {
			continue
		}
		purchases, err := b.purchases.ListInRange(ctx, biz.ID, from, to)
		if err != nil {
			return c, err
		}
		for i := range purchases {
			pur := &purchases[i]
			if !recompute(pur.Items, &pur.DocumentTotals, gst.PurchaseTreatment(biz.StateCode, pur.SupplierStateCode)) {
				continue
			}
			b.log.WithFields(logrus.Fields{"purchase_id": pur.ID, "period": p.String()}).Info("purchase totals drifted")
			if !b.dryRun {
				if err := b.purchases.Update(ctx, pur); err != nil {
					return c, err
				}
			}
			c.purchases++
		}
	}

	if !b.dryRun && c.invoices+c.purchases > 0 {
		if err := b.cache.Invalidate(ctx, biz.ID); err != nil {
			b.log.WithError(err).WithField("business_id", biz.ID).Warn("liability cache invalidation failed")
		}
	}
	return c, nil
}

func (b *backfill) locked(ctx context.Context, businessID uuid.UUID, p gst.Period, types ...gst.ReturnType) (bool, error) {
	filed, err := b.returns.ListFiled(ctx, businessID, p.String(), types)
	if err != nil {
		return false, err
	}
	return len(filed) > 0, nil
}

// recompute reruns the engine over items and reports whether the stored
// totals differed. items and totals are updated in place.
func recompute(items domain.LineItems, totals *domain.DocumentTotals, treatment gst.Treatment) bool {
	before := *totals
	*totals = domain.NewDocumentTotals(items.Compute(treatment))
	return !before.Subtotal.Equal(totals.Subtotal) ||
		!before.TotalCGST.Equal(totals.TotalCGST) ||
		!before.TotalSGST.Equal(totals.TotalSGST) ||
		!before.TotalIGST.Equal(totals.TotalIGST) ||
		!before.GrandTotal.Equal(totals.GrandTotal)
}

func after(a, b gst.Period) bool {
	return a.Year > b.Year || (a.Year == b.Year && a.Month > b.Month)
}
