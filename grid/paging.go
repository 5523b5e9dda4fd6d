package grid

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
)

// Sort is the single active sort. Order is "asc", "desc", or "" for none.
type Sort struct {
	By    string
	Order string
}

// QueryState is the grid's full interaction state. SearchFilters hold
// case-insensitive substring terms; FilterValues hold exact matches. Both are
// ANDed across keys.
type QueryState struct {
	Page          int
	PageSize      int
	SearchFilters map[string]string
	FilterValues  map[string]string
	Sort          Sort
}

// Clone deep-copies the state so listeners cannot mutate the controller.
func (s QueryState) Clone() QueryState {
	out := s
	out.SearchFilters = make(map[string]string, len(s.SearchFilters))
	for k, v := range s.SearchFilters {
		out.SearchFilters[k] = v
	}
	out.FilterValues = make(map[string]string, len(s.FilterValues))
	for k, v := range s.FilterValues {
		out.FilterValues[k] = v
	}
	return out
}

// PagingStrategy computes the visible window for the current state.
type PagingStrategy interface {
	// Apply returns the rows to display and the filtered total.
	Apply(rows []Row, state QueryState, collator *collate.Collator) ([]Row, int)
}

// ClientPaging filters, sorts, and slices the full row set in memory.
type ClientPaging struct{}

func (ClientPaging) Apply(rows []Row, state QueryState, collator *collate.Collator) ([]Row, int) {
	filtered := make([]Row, 0, len(rows))
	for _, row := range rows {
		if matchesSearch(row, state.SearchFilters) && matchesFilters(row, state.FilterValues) {
			filtered = append(filtered, row)
		}
	}

	if state.Sort.By != "" && state.Sort.Order != "" {
		sortRows(filtered, state.Sort, collator)
	}

	total := len(filtered)
	start := (state.Page - 1) * state.PageSize
	if start >= total {
		return nil, total
	}
	end := start + state.PageSize
	if end > total {
		end = total
	}
	return filtered[start:end], total
}

// ServerPaging trusts the server: rows are displayed as-is and the total comes
// from the response envelope. Interactions only update state and emit events.
type ServerPaging struct{}

func (ServerPaging) Apply(rows []Row, state QueryState, collator *collate.Collator) ([]Row, int) {
	return rows, -1
}

func matchesSearch(row Row, terms map[string]string) bool {
	for key, term := range terms {
		if term == "" {
			continue
		}
		cell := strings.ToLower(plainString(row.Lookup(key)))
		if !strings.Contains(cell, strings.ToLower(term)) {
			return false
		}
	}
	return true
}

func matchesFilters(row Row, filters map[string]string) bool {
	for key, want := range filters {
		if want == "" {
			continue
		}
		if plainString(row.Lookup(key)) != want {
			return false
		}
	}
	return true
}

// sortRows orders by the single sort key. Nil values sink to the end whatever
// the direction; strings compare through the collator, numbers numerically.
func sortRows(rows []Row, s Sort, collator *collate.Collator) {
	desc := s.Order == "desc"
	sort.SliceStable(rows, func(i, j int) bool {
		a := rows[i].Lookup(s.By)
		b := rows[j].Lookup(s.By)
		if a == nil && b == nil {
			return false
		}
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}

		cmp := compareValues(a, b, collator)
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})
}

func compareValues(a, b interface{}, collator *collate.Collator) int {
	na, aNum := toFloat(a)
	nb, bNum := toFloat(b)
	if aNum && bNum {
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		default:
			return 0
		}
	}
	sa, sb := plainString(a), plainString(b)
	if collator != nil {
		return collator.CompareString(sa, sb)
	}
	return strings.Compare(sa, sb)
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func plainString(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
