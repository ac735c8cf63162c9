package persistence

import (
	"strings"

	"gorm.io/gorm/clause"
)

// ordering whitelists the columns a listing may be sorted by so request
// input never reaches ORDER BY verbatim.
type ordering struct {
	columns  map[string]bool
	fallback string
}

var methodOrder = ordering{
	columns: map[string]bool{
		"identifier": true,
		"name":       true,
		"kind":       true,
		"status":     true,
		"created_at": true,
		"updated_at": true,
	},
	fallback: "name",
}

// clause orders by column, or ascending by the fallback when column is
// empty or unknown.
func (o ordering) clause(column string, desc bool) clause.OrderByColumn {
	column = strings.ToLower(strings.TrimSpace(column))
	if !o.columns[column] {
		return clause.OrderByColumn{Column: clause.Column{Name: o.fallback}}
	}
	return clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc}
}
