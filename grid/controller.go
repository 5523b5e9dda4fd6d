package grid

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ChangeListener receives the grid state after every interaction. The By key
// of the delivered state is already converted to snake_case, ready for the
// wire. Delivery is synchronous.
type ChangeListener func(QueryState)

// Controller owns one grid's interaction state and visible window.
type Controller struct {
	columns  []Column
	byKey    map[string]Column
	strategy PagingStrategy
	collator *collate.Collator
	rowKey   func(Row) interface{}
	noData   string
	listener ChangeListener

	state   QueryState
	rows    []Row
	visible []Row
	total   int
}

// ControllerOption configures a Controller at construction.
type ControllerOption func(*Controller)

// WithServerPaging makes the grid trust server-side filtering and paging.
func WithServerPaging() ControllerOption {
	return func(c *Controller) { c.strategy = ServerPaging{} }
}

// WithRowKey overrides the default "id" row identity lookup.
func WithRowKey(fn func(Row) interface{}) ControllerOption {
	return func(c *Controller) { c.rowKey = fn }
}

// WithNoDataText sets the placeholder shown for an empty row set.
func WithNoDataText(text string) ControllerOption {
	return func(c *Controller) { c.noData = text }
}

// WithLocale sets the collation locale used for string sorting.
func WithLocale(tag language.Tag) ControllerOption {
	return func(c *Controller) { c.collator = collate.New(tag, collate.IgnoreCase) }
}

// WithListener registers the change listener.
func WithListener(fn ChangeListener) ControllerOption {
	return func(c *Controller) { c.listener = fn }
}

// New builds a Controller over the column set. Column keys must be unique.
func New(columns []Column, opts ...ControllerOption) (*Controller, error) {
	byKey := make(map[string]Column, len(columns))
	for _, col := range columns {
		if col.Key == "" {
			return nil, fmt.Errorf("column with empty key")
		}
		if _, dup := byKey[col.Key]; dup {
			return nil, fmt.Errorf("duplicate column key %q", col.Key)
		}
		byKey[col.Key] = col
	}

	c := &Controller{
		columns:  columns,
		byKey:    byKey,
		strategy: ClientPaging{},
		collator: collate.New(language.Und, collate.IgnoreCase),
		noData:   "No data",
		state: QueryState{
			Page:          1,
			PageSize:      25,
			SearchFilters: make(map[string]string),
			FilterValues:  make(map[string]string),
		},
	}
	c.rowKey = func(r Row) interface{} { return r.Lookup("id") }
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Columns returns the declared column set in order.
func (c *Controller) Columns() []Column { return c.columns }

// State returns a copy of the interaction state with the internal sort key.
func (c *Controller) State() QueryState { return c.state.Clone() }

// SetRows supplies the full row set for client paging, or the current page for
// server paging.
func (c *Controller) SetRows(rows []Row) {
	c.rows = rows
	c.recompute()
}

// SetServerData supplies one page of rows plus the server-reported total.
func (c *Controller) SetServerData(rows []Row, total int) {
	c.rows = rows
	c.total = total
	c.recompute()
}

// Rows is the visible window after filtering, sorting, and paging.
func (c *Controller) Rows() []Row { return c.visible }

// NoData reports the placeholder text when nothing is visible.
func (c *Controller) NoData() (string, bool) {
	if len(c.visible) == 0 {
		return c.noData, true
	}
	return "", false
}

// RowKey returns the identity value for a row.
func (c *Controller) RowKey(r Row) interface{} { return c.rowKey(r) }

// Total is the filtered row count (server-reported under server paging).
func (c *Controller) Total() int { return c.total }

// TotalPages never reports less than one page.
func (c *Controller) TotalPages() int {
	if c.state.PageSize <= 0 {
		return 1
	}
	pages := (c.total + c.state.PageSize - 1) / c.state.PageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}

// SetSearch sets a substring search term on a searchable column; an empty term
// clears it. Terms on different columns are ANDed.
func (c *Controller) SetSearch(key, term string) {
	col, ok := c.byKey[key]
	if !ok || !col.Searchable {
		return
	}
	if term == "" {
		delete(c.state.SearchFilters, key)
	} else {
		c.state.SearchFilters[key] = term
	}
	c.state.Page = 1
	c.recompute()
	c.emit()
}

// SetFilter sets an exact-match filter on a filterable column; empty clears.
func (c *Controller) SetFilter(key, value string) {
	col, ok := c.byKey[key]
	if !ok || !col.Filterable {
		return
	}
	if value == "" {
		delete(c.state.FilterValues, key)
	} else {
		c.state.FilterValues[key] = value
	}
	c.state.Page = 1
	c.recompute()
	c.emit()
}

// SetSort cycles the column through asc, desc, none. Sorting one column clears
// any other column's sort.
func (c *Controller) SetSort(key string) {
	col, ok := c.byKey[key]
	if !ok || !col.Sortable {
		return
	}
	switch {
	case c.state.Sort.By != key:
		c.state.Sort = Sort{By: key, Order: "asc"}
	case c.state.Sort.Order == "asc":
		c.state.Sort.Order = "desc"
	default:
		c.state.Sort = Sort{}
	}
	c.recompute()
	c.emit()
}

// SetPage clamps the requested page into the valid range.
func (c *Controller) SetPage(page int) {
	c.state.Page = clamp(page, 1, c.TotalPages())
	c.recompute()
	c.emit()
}

// SetPageSize resets to the first page; non-positive sizes are ignored.
func (c *Controller) SetPageSize(size int) {
	if size <= 0 {
		return
	}
	c.state.PageSize = size
	c.state.Page = 1
	c.recompute()
	c.emit()
}

// GoToPage parses free-form page input, silently ignoring non-numeric text.
func (c *Controller) GoToPage(text string) {
	page, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return
	}
	c.SetPage(page)
}

// StickOffsets maps each stick column to its cumulative left offset, summing
// the widths of the stick columns declared before it.
func (c *Controller) StickOffsets() map[string]int {
	offsets := make(map[string]int)
	left := 0
	for _, col := range c.columns {
		if !col.Stick {
			continue
		}
		offsets[col.Key] = left
		left += col.Width
	}
	return offsets
}

func (c *Controller) recompute() {
	visible, total := c.strategy.Apply(c.rows, c.state, c.collator)
	if total >= 0 {
		c.total = total
	}

	// Page can fall out of range when the filtered total or page size shrank.
	clamped := clamp(c.state.Page, 1, c.TotalPages())
	if clamped != c.state.Page {
		c.state.Page = clamped
		visible, _ = c.strategy.Apply(c.rows, c.state, c.collator)
	}
	c.visible = visible
}

func (c *Controller) emit() {
	if c.listener == nil {
		return
	}
	out := c.state.Clone()
	out.Sort.By = toSnakeCase(out.Sort.By)
	c.listener(out)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
