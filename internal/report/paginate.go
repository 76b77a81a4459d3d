package report

// PageSize is the number of rows per report page.
const PageSize = 10

type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	TotalPages int `json:"total_pages"`
	TotalItems int `json:"total_items"`
}

// Paginate slices items into the 1-based page. TotalPages is at least 1, and
// a page outside 1..TotalPages yields no items rather than an error.
func Paginate[T any](items []T, page int) Page[T] {
	total := len(items)
	totalPages := (total + PageSize - 1) / PageSize
	if totalPages < 1 {
		totalPages = 1
	}

	p := Page[T]{Items: []T{}, Page: page, TotalPages: totalPages, TotalItems: total}
	if page < 1 || page > totalPages {
		return p
	}

	start := (page - 1) * PageSize
	end := start + PageSize
	if end > total {
		end = total
	}
	p.Items = items[start:end]
	return p
}
