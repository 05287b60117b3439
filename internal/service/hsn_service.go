package service

import (
	"context"
	"fmt"
	"sync"

	"gstdesk/internal/domain"
	"gstdesk/internal/gst"
	"gstdesk/internal/port"
)

// HSNService resolves HSN/SAC codes to their default GST rate.
type HSNService interface {
	Lookup(ctx context.Context, code string) (*gst.HSNEntry, error)
	DefaultRate(ctx context.Context, code string) (gst.Rate, error)
}

type hsnService struct {
	repo port.HSNRepository

	mu     sync.Mutex
	lookup *gst.HSNLookup
}

// NewHSNService creates a new HSNService. The master is loaded on first use
// and kept in memory; a failed load is retried on the next call.
func NewHSNService(repo port.HSNRepository) HSNService {
	return &hsnService{repo: repo}
}

func (s *hsnService) Lookup(ctx context.Context, code string) (*gst.HSNEntry, error) {
	lookup, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	e, ok := lookup.Find(code)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &e, nil
}

// DefaultRate returns the rate a line takes when the client omits one.
func (s *hsnService) DefaultRate(ctx context.Context, code string) (gst.Rate, error) {
	lookup, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	rate, ok := lookup.DefaultRate(code)
	if !ok {
		return 0, domain.ErrNotFound
	}
	return rate, nil
}

func (s *hsnService) load(ctx context.Context) (*gst.HSNLookup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lookup != nil {
		return s.lookup, nil
	}

	rows, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("hsnService.load: %w", err)
	}
	entries := make([]gst.HSNEntry, 0, len(rows))
	for i := range rows {
		rate, err := gst.ParseRate(rows[i].GSTRate)
		if err != nil {
			// Cess-bearing and special rates are outside the standard schedule.
			continue
		}
		entries = append(entries, gst.HSNEntry{Code: rows[i].Code, Description: rows[i].Description, Rate: rate})
	}
	s.lookup = gst.NewHSNLookup(entries)
	return s.lookup, nil
}
