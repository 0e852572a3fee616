package garden

// Page is a pagination envelope. It is computed per request and never
// persisted.
type Page[T any] struct {
	// Items holds the entities on this page, in query order.
	Items []T `json:"items"`
	// Total is the number of entities across all pages.
	Total int `json:"total"`
	// Offset of the first item in this page.
	Offset int `json:"offset"`
	// Limit is the maximum page size the query asked for.
	Limit int `json:"limit"`
}

// NewPage assembles a page from a query result.
func NewPage[T any](items []T, total, offset, limit int) Page[T] {
	return Page[T]{Items: items, Total: total, Offset: offset, Limit: limit}
}

// HasNext reports whether more items exist past this page.
func (p Page[T]) HasNext() bool {
	return p.Offset+len(p.Items) < p.Total
}

// HasPrev reports whether pages exist before this one.
func (p Page[T]) HasPrev() bool {
	return p.Offset > 0
}

// PageNumber returns the zero-based index of this page.
func (p Page[T]) PageNumber() int {
	if p.Limit == 0 {
		return 0
	}
	return p.Offset / p.Limit
}

// TotalPages returns the number of pages the full result spans.
func (p Page[T]) TotalPages() int {
	if p.Limit == 0 {
		return 1
	}
	return (p.Total + p.Limit - 1) / p.Limit
}
