package kernel

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PaginationOptions carries 1-based page selection for list queries.
type PaginationOptions struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// Normalized clamps the options into usable bounds.
func (p PaginationOptions) Normalized() PaginationOptions {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset returns the SQL offset for the current page.
func (p PaginationOptions) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type Page struct {
	Number int `json:"number"`
	Size   int `json:"size"`
	Total  int `json:"total"`
	Pages  int `json:"pages"`
}

// Paginated wraps a page of results with its page metadata.
type Paginated[T any] struct {
	Items []T  `json:"items"`
	Page  Page `json:"page"`
	Empty bool `json:"empty"`
}

// NewPaginated builds the envelope from a page of items and a total count.
func NewPaginated[T any](items []T, pagination PaginationOptions, total int) Paginated[T] {
	pages := 0
	if pagination.PageSize > 0 {
		pages = (total + pagination.PageSize - 1) / pagination.PageSize
	}
	return Paginated[T]{
		Items: items,
		Page: Page{
			Number: pagination.Page,
			Size:   pagination.PageSize,
			Total:  total,
			Pages:  pages,
		},
		Empty: len(items) == 0,
	}
}
