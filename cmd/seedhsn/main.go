// Command seedhsn converts the CBIC HSN/SAC rate workbook into a SQL seed for
// the hsn_codes table. Goods come from the first sheet, services from SAC_Master.
// Rates outside the GST schedule (cess-only or special rates) are skipped.
//
// Usage: go run ./cmd/seedhsn -in rates.xlsx -out db/seeds/hsn_codes.sql
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"gstdesk/internal/config"
	"gstdesk/internal/gst"
	"gstdesk/internal/logging"
)

const batchSize = 500

type seedRow struct {
	gst.HSNEntry
	parent string
}

// sheet layout of the goods master: column indexes of each code level and its
// description, and the rate column.
var goodsLevels = []struct{ code, desc int }{{10, 12}, {8, 9}, {5, 7}}

const (
	goodsRateCol  = 13
	goodsFirstRow = 5
	sacFirstRow   = 3
	sacSheet      = "SAC_Master"
)

func main() {
	in := flag.String("in", "hsn_rates.xlsx", "CBIC rate workbook")
	out := flag.String("out", "db/seeds/hsn_codes.sql", "SQL seed to write")
	flag.Parse()

	log := logging.New(config.LogConfig{Level: "info", Format: "text"})
	if err := run(*in, *out, log); err != nil {
		log.WithError(err).Fatal("seedhsn failed")
	}
}

func run(inPath, outPath string, log *logrus.Logger) error {
	f, err := excelize.OpenFile(inPath)
	if err != nil {
		return fmt.Errorf("opening workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	c := newCollector()
	if err := c.readGoods(f); err != nil {
		return fmt.Errorf("reading goods sheet: %w", err)
	}
	goods := len(c.rows)
	if err := c.readServices(f); err != nil {
		return fmt.Errorf("reading %s: %w", sacSheet, err)
	}
	log.WithFields(logrus.Fields{
		"goods":    goods,
		"services": len(c.rows) - goods,
		"skipped":  c.skipped,
	}).Info("workbook parsed")

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	fh, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating seed file: %w", err)
	}
	defer func() { _ = fh.Close() }()

	w := bufio.NewWriter(fh)
	if err := writeSeed(w, c.rows); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{"rows": len(c.rows), "out": outPath}).Info("seed written")
	return nil
}

type collector struct {
	rows    []seedRow
	seen    map[string]bool
	skipped int
}

func newCollector() *collector {
	return &collector{seen: make(map[string]bool)}
}

func (c *collector) readGoods(f *excelize.File) error {
	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return err
	}
	for i := goodsFirstRow; i < len(rows); i++ {
		row := rows[i]
		rate, ok := scheduleRate(strings.TrimSuffix(cell(row, goodsRateCol), "%"))
		if !ok {
			c.skipped++
			continue
		}
		for _, lvl := range goodsLevels {
			c.add(cell(row, lvl.code), cell(row, lvl.desc), rate)
		}
	}
	return nil
}

func (c *collector) readServices(f *excelize.File) error {
	rows, err := f.GetRows(sacSheet)
	if err != nil {
		return err
	}
	for i := sacFirstRow; i < len(rows); i++ {
		row := rows[i]
		rates := sacRates(cell(row, 4))
		if len(rates) == 0 {
			c.skipped++
			continue
		}
		for _, rate := range rates {
			c.add(cell(row, 2), cell(row, 3), rate)
			c.add(cell(row, 0), cell(row, 1), rate)
		}
	}
	return nil
}

func (c *collector) add(code, desc string, rate gst.Rate) {
	if !isDigits(code) {
		return
	}
	key := fmt.Sprintf("%s|%d", code, rate)
	if c.seen[key] {
		return
	}
	c.seen[key] = true

	r := seedRow{HSNEntry: gst.HSNEntry{Code: code, Description: desc, Rate: rate}}
	if len(code) > 4 {
		r.parent = code[:4]
	}
	c.rows = append(c.rows, r)
}

// scheduleRate parses a percentage and keeps it only when it is a GST slab.
func scheduleRate(s string) (gst.Rate, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	r, err := gst.ParseRate(d)
	return r, err == nil
}

var percentPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)%`)

// sacRates extracts the slab rates from the free-text SAC rate column, e.g.
// "18%", "Exempt", "12%-18%" or "5% (with ITC restriction) or 18%".
func sacRates(s string) []gst.Rate {
	switch strings.ToLower(s) {
	case "":
		return nil
	case "exempt", "nil":
		return []gst.Rate{gst.Rate0}
	}

	var rates []gst.Rate
	seen := make(map[gst.Rate]bool)
	for _, m := range percentPattern.FindAllStringSubmatch(s, -1) {
		r, ok := scheduleRate(m[1])
		if ok && !seen[r] {
			seen[r] = true
			rates = append(rates, r)
		}
	}
	return rates
}

func writeSeed(w *bufio.Writer, rows []seedRow) error {
	fmt.Fprintf(w, "-- HSN/SAC seed generated by cmd/seedhsn: %d rows.\n", len(rows))
	fmt.Fprintln(w, "BEGIN;")
	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		writeBatch(w, rows[start:end])
	}
	_, err := fmt.Fprintln(w, "COMMIT;")
	return err
}

func writeBatch(w *bufio.Writer, batch []seedRow) {
	fmt.Fprintln(w, "INSERT INTO hsn_codes (code, description, gst_rate, parent_code) VALUES")
	for i := range batch {
		parent := "NULL"
		if batch[i].parent != "" {
			parent = quote(batch[i].parent)
		}
		sep := ","
		if i == len(batch)-1 {
			sep = ""
		}
		fmt.Fprintf(w, "  (%s, %s, %d, %s)%s\n",
			quote(batch[i].Code), quote(batch[i].Description), int(batch[i].Rate), parent, sep)
	}
	fmt.Fprintln(w, "ON CONFLICT (code, gst_rate, condition_desc, effective_from) DO NOTHING;")
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
