package listing

import (
	"time"

	"meddir/internal/domain"
)

// Result is one rendered page of the listing.
type Result struct {
	Items      []domain.Institution `json:"items"`
	TotalCount int                  `json:"totalCount"`
	TotalPages int                  `json:"totalPages"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"pageSize"`
}

// Filter keeps the institutions matching spec, preserving input order.
func Filter(src []domain.Institution, spec domain.FilterSpec, now time.Time) []domain.Institution {
	out := make([]domain.Institution, 0, len(src))
	for _, inst := range src {
		if Matches(inst, spec, now) {
			out = append(out, inst)
		}
	}
	return out
}

// Run filters, sorts and paginates src. src itself is never reordered.
func Run(src []domain.Institution, spec domain.FilterSpec, page, pageSize int, now time.Time) Result {
	spec = spec.Normalize()
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	filtered := Filter(src, spec, now)
	Sort(filtered, spec.SortBy)
	return Result{
		Items:      Paginate(filtered, pageSize, page),
		TotalCount: len(filtered),
		TotalPages: TotalPages(len(filtered), pageSize),
		Page:       page,
		PageSize:   pageSize,
	}
}
