package grid

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testColumns() []Column {
	return []Column{
		{Key: "id", Title: "ID", Width: 10, Stick: true},
		{Key: "name", Title: "Name", Width: 20, Searchable: true, Sortable: true, Stick: true},
		{Key: "severity", Title: "Severity", Width: 10, Filterable: true, Sortable: true},
		{Key: "score", Title: "Score", Width: 8, Sortable: true},
	}
}

func testRows() []Row {
	return []Row{
		{"id": "1", "name": "Alpha", "severity": "high", "score": 9.1},
		{"id": "2", "name": "beta", "severity": "low", "score": 2.0},
		{"id": "3", "name": "Gamma", "severity": "high", "score": nil},
		{"id": "4", "name": "alphabet", "severity": "medium", "score": 5.5},
	}
}

func newTestGrid(t *testing.T, opts ...ControllerOption) *Controller {
	t.Helper()
	c, err := New(testColumns(), opts...)
	require.NoError(t, err)
	c.SetRows(testRows())
	return c
}

func TestNewRejectsDuplicateColumnKeys(t *testing.T) {
	_, err := New([]Column{{Key: "a"}, {Key: "a"}})
	assert.Error(t, err)
}

func TestSearchIsCaseInsensitiveSubstring(t *testing.T) {
	c := newTestGrid(t)
	c.SetSearch("name", "ALPHA")

	rows := c.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "Alpha", rows[0]["name"])
	assert.Equal(t, "alphabet", rows[1]["name"])
	assert.Equal(t, 2, c.Total())
}

func TestSearchTermsAreANDed(t *testing.T) {
	c := newTestGrid(t)
	c.SetSearch("name", "a")
	c.SetFilter("severity", "high")

	rows := c.Rows()
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, "high", r["severity"])
	}
}

func TestSearchOnNonSearchableColumnIsIgnored(t *testing.T) {
	c := newTestGrid(t)
	c.SetSearch("severity", "high")
	assert.Equal(t, 4, c.Total())
}

func TestFilterExactMatchAndClear(t *testing.T) {
	c := newTestGrid(t)
	c.SetFilter("severity", "high")
	assert.Equal(t, 2, c.Total())

	c.SetFilter("severity", "")
	assert.Equal(t, 4, c.Total())
}

func TestSortCyclesAscDescNone(t *testing.T) {
	c := newTestGrid(t)

	c.SetSort("name")
	assert.Equal(t, Sort{By: "name", Order: "asc"}, c.State().Sort)

	c.SetSort("name")
	assert.Equal(t, Sort{By: "name", Order: "desc"}, c.State().Sort)

	c.SetSort("name")
	assert.Equal(t, Sort{}, c.State().Sort)
}

func TestSortingAnotherColumnClearsPrevious(t *testing.T) {
	c := newTestGrid(t)
	c.SetSort("name")
	c.SetSort("score")
	assert.Equal(t, Sort{By: "score", Order: "asc"}, c.State().Sort)
}

func TestSortNilValuesLastBothDirections(t *testing.T) {
	c := newTestGrid(t)

	c.SetSort("score") // asc
	rows := c.Rows()
	require.Len(t, rows, 4)
	assert.Equal(t, "3", rows[3]["id"])
	assert.Equal(t, "2", rows[0]["id"])

	c.SetSort("score") // desc
	rows = c.Rows()
	assert.Equal(t, "3", rows[3]["id"])
	assert.Equal(t, "1", rows[0]["id"])
}

func TestSortIsIdempotent(t *testing.T) {
	c := newTestGrid(t)
	c.SetSort("name")
	first := fmt.Sprint(c.Rows())

	c.SetRows(testRows())
	assert.Equal(t, first, fmt.Sprint(c.Rows()))
}

func TestStringSortUsesCollation(t *testing.T) {
	c := newTestGrid(t)
	c.SetSort("name")
	rows := c.Rows()
	// Case-insensitive collation interleaves upper and lower case.
	assert.Equal(t, "Alpha", rows[0]["name"])
	assert.Equal(t, "alphabet", rows[1]["name"])
	assert.Equal(t, "beta", rows[2]["name"])
	assert.Equal(t, "Gamma", rows[3]["name"])
}

func TestPaginationWindowInvariant(t *testing.T) {
	rows := make([]Row, 25)
	for i := range rows {
		rows[i] = Row{"id": fmt.Sprintf("%02d", i), "name": fmt.Sprintf("row-%02d", i)}
	}
	c, err := New(testColumns())
	require.NoError(t, err)
	c.SetRows(rows)
	c.SetPageSize(10)

	c.SetPage(3)
	assert.Len(t, c.Rows(), 5)
	assert.Equal(t, 25, c.Total())
	assert.Equal(t, 3, c.TotalPages())
}

func TestPageClampsToValidRange(t *testing.T) {
	c := newTestGrid(t)
	c.SetPageSize(2)

	c.SetPage(99)
	assert.Equal(t, 2, c.State().Page)

	c.SetPage(-5)
	assert.Equal(t, 1, c.State().Page)
}

func TestPageClampsWhenFilterShrinksTotal(t *testing.T) {
	c := newTestGrid(t)
	c.SetPageSize(1)
	c.SetPage(4)
	require.Equal(t, 4, c.State().Page)

	c.SetFilter("severity", "medium")
	assert.Equal(t, 1, c.State().Page)
	assert.Len(t, c.Rows(), 1)
}

func TestPageSizeChangeResetsToFirstPage(t *testing.T) {
	c := newTestGrid(t)
	c.SetPageSize(1)
	c.SetPage(3)
	c.SetPageSize(2)
	assert.Equal(t, 1, c.State().Page)
}

func TestGoToPageIgnoresNonNumericInput(t *testing.T) {
	c := newTestGrid(t)
	c.SetPageSize(1)
	c.SetPage(2)

	c.GoToPage("abc")
	assert.Equal(t, 2, c.State().Page)

	c.GoToPage(" 3 ")
	assert.Equal(t, 3, c.State().Page)
}

func TestListenerReceivesSnakeCaseSortKey(t *testing.T) {
	var got QueryState
	c, err := New([]Column{
		{Key: "createdAt", Title: "Created", Sortable: true},
	}, WithListener(func(s QueryState) { got = s }))
	require.NoError(t, err)

	c.SetSort("createdAt")
	assert.Equal(t, "created_at", got.Sort.By)
	assert.Equal(t, "asc", got.Sort.Order)
}

func TestServerPagingEmitsWithoutLocalFiltering(t *testing.T) {
	events := 0
	c, err := New(testColumns(), WithServerPaging(),
		WithListener(func(QueryState) { events++ }))
	require.NoError(t, err)

	c.SetServerData(testRows(), 40)
	c.SetSearch("name", "zzz") // server's job; rows stay as delivered
	assert.Len(t, c.Rows(), 4)
	assert.Equal(t, 40, c.Total())
	assert.Equal(t, 1, events)
}

func TestNoDataPlaceholder(t *testing.T) {
	c, err := New(testColumns(), WithNoDataText("nothing here"))
	require.NoError(t, err)
	c.SetRows(nil)

	text, empty := c.NoData()
	assert.True(t, empty)
	assert.Equal(t, "nothing here", text)
}

func TestStickOffsetsAccumulateDeclarationOrder(t *testing.T) {
	c := newTestGrid(t)
	offsets := c.StickOffsets()
	assert.Equal(t, map[string]int{"id": 0, "name": 10}, offsets)
}

func TestRowLookupNestedPaths(t *testing.T) {
	row := Row{
		"tenant": map[string]interface{}{"name": "acme"},
		"id":     "x",
	}
	assert.Equal(t, "acme", row.Lookup("tenant.name"))
	assert.Equal(t, "acme", row.Lookup("tenant__name"))
	assert.Nil(t, row.Lookup("tenant.missing"))
	assert.Nil(t, row.Lookup("missing.deeper.path"))
}

func TestRowKeyDefaultsToID(t *testing.T) {
	c := newTestGrid(t)
	assert.Equal(t, "7", c.RowKey(Row{"id": "7"}))

	custom, err := New(testColumns(), WithRowKey(func(r Row) interface{} { return r.Lookup("name") }))
	require.NoError(t, err)
	assert.Equal(t, "n", custom.RowKey(Row{"name": "n"}))
}
