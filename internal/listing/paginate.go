package listing

import "meddir/internal/domain"

// DefaultPageSize matches the listing grid.
const DefaultPageSize = 6

// Paginate returns the 1-based page of items. Out-of-range pages are empty.
func Paginate(items []domain.Institution, pageSize, page int) []domain.Institution {
	if pageSize <= 0 || page < 1 {
		return []domain.Institution{}
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []domain.Institution{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// TotalPages is ceil(n/pageSize), with an empty result counted as one empty page.
func TotalPages(n, pageSize int) int {
	if pageSize <= 0 || n == 0 {
		return 1
	}
	return (n + pageSize - 1) / pageSize
}
