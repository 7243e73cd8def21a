package listing

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"meddir/internal/domain"
)

// Locale drives alphabetical ordering.
var Locale = language.Russian

// Sort orders items in place by mode. Ties keep their input order.
func Sort(items []domain.Institution, mode domain.SortMode) {
	switch mode {
	case domain.SortPrice:
		sort.SliceStable(items, func(i, j int) bool { return !items[i].Paid && items[j].Paid })
	case domain.SortRating:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Rating > items[j].Rating })
	default:
		// collate.Collator keeps scratch buffers, so each call gets its own.
		c := collate.New(Locale)
		sort.SliceStable(items, func(i, j int) bool {
			return c.CompareString(items[i].Name, items[j].Name) < 0
		})
	}
}
