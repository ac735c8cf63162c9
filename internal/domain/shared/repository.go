package shared

// Filter holds the paging, ordering and search options of a list query.
// Without both Page and PageSize every matching row is returned.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string // column name, checked by the repository
	Desc     bool
	Search   string
	Filters  map[string]any // column equality conditions
}

// Paged reports whether the query is limited to one page
func (f Filter) Paged() bool {
	return f.Page > 0 && f.PageSize > 0
}

// Offset returns the row offset of the requested page
func (f Filter) Offset() int {
	if !f.Paged() {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}
