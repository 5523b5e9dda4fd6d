package models

// ListFilters carries the canonical list query state parsed from the wire:
// page/pageSize, per-column substring searches (`<field>_search`), exact-match
// filters, and a single sort key with lowercase order.
type ListFilters struct {
	Page      int               `json:"page"`
	PageSize  int               `json:"pageSize"`
	Search    map[string]string `json:"search,omitempty"`
	Filters   map[string]string `json:"filters,omitempty"`
	SortBy    string            `json:"sort_by,omitempty"`
	SortOrder string            `json:"order,omitempty"`
}

// Offset returns the SQL offset for the current page.
func (f ListFilters) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}
