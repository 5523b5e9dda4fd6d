// Package grid implements the data grid controller behind the console's
// resource tables: column declarations, filtering, sorting, paging, and
// change-event emission for server-driven grids.
package grid

import (
	"strings"
	"unicode"
)

// Option is one entry of a column's fixed filter choice list.
type Option struct {
	Label string
	Value string
}

// RenderFunc formats a cell. It must be pure: same value and row, same output.
type RenderFunc func(value interface{}, row Row) string

// Column declares one grid column. Key addresses the row field, optionally as
// a dotted or double-underscore nested path.
type Column struct {
	Key           string
	Title         string
	Width         int
	MaxWidth      int
	Searchable    bool
	Filterable    bool
	Sortable      bool
	Stick         bool
	FilterOptions []Option
	Render        RenderFunc
}

// Row is a single record. Values may themselves be nested maps.
type Row map[string]interface{}

// Lookup resolves a column key against the row, walking dotted and
// double-underscore path segments. Missing segments yield nil, never a panic.
func (r Row) Lookup(key string) interface{} {
	if r == nil {
		return nil
	}
	if v, ok := r[key]; ok {
		return v
	}

	segments := splitPath(key)
	var current interface{} = map[string]interface{}(r)
	for _, seg := range segments {
		m, ok := current.(map[string]interface{})
		if !ok {
			if rm, ok := current.(Row); ok {
				m = map[string]interface{}(rm)
			} else {
				return nil
			}
		}
		current, ok = m[seg]
		if !ok {
			return nil
		}
	}
	return current
}

func splitPath(key string) []string {
	key = strings.ReplaceAll(key, "__", ".")
	return strings.Split(key, ".")
}

// CellText renders the cell for display, applying the column's RenderFunc when
// present, else a plain string conversion with nil as empty.
func (c Column) CellText(row Row) string {
	value := row.Lookup(c.Key)
	if c.Render != nil {
		return c.Render(value, row)
	}
	return plainString(value)
}

// toSnakeCase converts a camelCase column key to the wire's snake_case form.
// Keys already in snake_case pass through unchanged.
func toSnakeCase(key string) string {
	var b strings.Builder
	for i, r := range key {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
