package gst

// HSNEntry is one row of the HSN/SAC master with its default rate.
type HSNEntry struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Rate        Rate   `json:"gst_rate"`
}

// HSNLookup resolves HSN/SAC codes to their default GST rate.
// It is immutable after construction and safe for concurrent access.
type HSNLookup struct {
	byCode map[string]HSNEntry
}

// NewHSNLookup builds a lookup from master entries. When a code appears more
// than once the first entry wins.
func NewHSNLookup(entries []HSNEntry) *HSNLookup {
	m := make(map[string]HSNEntry, len(entries))
	for i := range entries {
		if _, ok := m[entries[i].Code]; ok {
			continue
		}
		m[entries[i].Code] = entries[i]
	}
	return &HSNLookup{byCode: m}
}

// Find returns the entry for code, falling back from 8 to 6 to 4 digit prefixes.
func (h *HSNLookup) Find(code string) (HSNEntry, bool) {
	if h == nil || len(h.byCode) == 0 || code == "" {
		return HSNEntry{}, false
	}
	if e, ok := h.byCode[code]; ok {
		return e, true
	}
	for _, n := range []int{6, 4} {
		if len(code) > n {
			if e, ok := h.byCode[code[:n]]; ok {
				return e, true
			}
		}
	}
	return HSNEntry{}, false
}

// DefaultRate returns the default rate for code.
func (h *HSNLookup) DefaultRate(code string) (Rate, bool) {
	e, ok := h.Find(code)
	return e.Rate, ok
}

// Len returns the number of distinct codes loaded.
func (h *HSNLookup) Len() int {
	if h == nil {
		return 0
	}
	return len(h.byCode)
}
