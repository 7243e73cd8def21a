package listing

import (
	"time"

	"meddir/internal/domain"
)

// View is the listing state of one browsing session: the active filter and the current page.
type View struct {
	spec     domain.FilterSpec
	page     int
	pageSize int
}

func NewView(pageSize int) *View {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &View{spec: domain.DefaultFilter(), page: 1, pageSize: pageSize}
}

func (v *View) Filter() domain.FilterSpec { return v.spec }
func (v *View) Page() int                 { return v.page }

// SetFilter replaces the active filter. Any change sends the view back to page 1.
func (v *View) SetFilter(spec domain.FilterSpec) {
	spec = spec.Normalize()
	if spec != v.spec {
		v.page = 1
	}
	v.spec = spec
}

// Clear restores the default filter.
func (v *View) Clear() { v.SetFilter(domain.DefaultFilter()) }

func (v *View) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	v.page = page
}

// Result renders the current page over src.
func (v *View) Result(src []domain.Institution, now time.Time) Result {
	return Run(src, v.spec, v.page, v.pageSize, now)
}
