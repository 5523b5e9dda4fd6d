package database

import (
	"fmt"
	"strings"

	"cspmconsole/models"
)

// ListSpec describes how one resource table maps onto the canonical list
// contract: which wire fields are searchable/filterable/sortable and how they
// translate to SQL columns. Every list endpoint shares this one query builder
// instead of reimplementing filter/sort/paginate per resource.
type ListSpec struct {
	Table        string
	Select       string
	Joins        string
	BaseWhere    string            // static predicate, e.g. soft-delete guard
	SearchCols   map[string]string // wire field -> SQL column (substring search)
	FilterCols   map[string]string // wire field -> SQL column (exact match)
	SortCols     map[string]string // wire sort_by -> SQL column
	DefaultSort  string
	DefaultOrder string
}

// dataQueryByID builds a single-record SELECT sharing the list projection, so
// detail endpoints return the same joined shape as list rows.
func (s ListSpec) dataQueryByID(idCol string) string {
	base := "FROM " + s.Table
	if s.Joins != "" {
		base += " " + s.Joins
	}
	return fmt.Sprintf("SELECT %s %s WHERE %s = ?", s.Select, base, idCol)
}

// BuildListQuery assembles the COUNT and data queries for a list request.
// Searches are ANDed case-insensitive substring matches; filters are ANDed
// exact matches; sort keys outside the whitelist fall back to the default.
func BuildListQuery(spec ListSpec, f models.ListFilters) (countQuery, dataQuery string, countArgs, dataArgs []interface{}) {
	whereClauses := []string{}
	args := []interface{}{}

	if spec.BaseWhere != "" {
		whereClauses = append(whereClauses, spec.BaseWhere)
	}

	for field, value := range f.Search {
		col, ok := spec.SearchCols[field]
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		whereClauses = append(whereClauses, fmt.Sprintf("LOWER(%s) LIKE ?", col))
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(value))+"%")
	}

	for field, value := range f.Filters {
		col, ok := spec.FilterCols[field]
		if !ok || value == "" {
			continue
		}
		whereClauses = append(whereClauses, fmt.Sprintf("%s = ?", col))
		args = append(args, value)
	}

	base := "FROM " + spec.Table
	if spec.Joins != "" {
		base += " " + spec.Joins
	}
	if len(whereClauses) > 0 {
		base += " WHERE " + strings.Join(whereClauses, " AND ")
	}

	countQuery = "SELECT COUNT(*) " + base
	countArgs = args

	orderBy := spec.DefaultSort
	if f.SortBy != "" {
		if col, ok := spec.SortCols[f.SortBy]; ok {
			orderBy = col
		}
	}
	sortOrder := strings.ToUpper(spec.DefaultOrder)
	if sortOrder == "" {
		sortOrder = "ASC"
	}
	switch strings.ToLower(f.SortOrder) {
	case "asc":
		sortOrder = "ASC"
	case "desc":
		sortOrder = "DESC"
	}

	dataQuery = fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT ? OFFSET ?", spec.Select, base, orderBy, sortOrder)
	dataArgs = append(append([]interface{}{}, args...), f.PageSize, f.Offset())
	return countQuery, dataQuery, countArgs, dataArgs
}

// CountAndQuery runs the COUNT query, short-circuits on zero rows, then runs
// the data query and hands each row to scanFn.
func CountAndQuery(spec ListSpec, f models.ListFilters, scanFn func(scan func(dest ...interface{}) error) error) (int, error) {
	countQuery, dataQuery, countArgs, dataArgs := BuildListQuery(spec, f)

	var totalRecords int
	if err := DB.QueryRow(countQuery, countArgs...).Scan(&totalRecords); err != nil {
		return 0, fmt.Errorf("counting %s records: %w", spec.Table, err)
	}
	if totalRecords == 0 {
		return 0, nil
	}

	rows, err := DB.Query(dataQuery, dataArgs...)
	if err != nil {
		return 0, fmt.Errorf("querying %s records: %w", spec.Table, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scanFn(rows.Scan); err != nil {
			return 0, fmt.Errorf("scanning %s row: %w", spec.Table, err)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterating %s rows: %w", spec.Table, err)
	}
	return totalRecords, nil
}
