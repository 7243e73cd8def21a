// Package listing implements the search, filter, sort and pagination pipeline
// behind the institution listing.
package listing

import (
	"strings"
	"time"

	"meddir/internal/domain"
)

// Matches reports whether inst satisfies every active predicate of spec.
// now is the caller's local time and is only consulted when spec.WorkingNow is set.
func Matches(inst domain.Institution, spec domain.FilterSpec, now time.Time) bool {
	return matchesQuery(inst, spec.Query) &&
		matchesPrice(inst, spec.PriceType) &&
		matchesSpecialization(inst, spec.Specialization) &&
		matchesDistrict(inst, spec.District) &&
		(!spec.WorkingNow || OpenAt(inst.Schedule, now))
}

// SearchText is the lower-cased text a query is matched against.
func SearchText(inst domain.Institution) string {
	parts := make([]string, 0, 3+len(inst.Services)+len(inst.Doctors))
	parts = append(parts, inst.Name, inst.Description, inst.Address)
	parts = append(parts, inst.Services...)
	for _, d := range inst.Doctors {
		parts = append(parts, d.Name+" "+d.Specialization)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func matchesQuery(inst domain.Institution, q string) bool {
	if q == "" {
		return true
	}
	return strings.Contains(SearchText(inst), strings.ToLower(q))
}

func matchesPrice(inst domain.Institution, mode domain.PriceMode) bool {
	switch mode {
	case domain.PriceFree:
		return !inst.Paid
	case domain.PricePaid:
		return inst.Paid
	default:
		return true
	}
}

func matchesSpecialization(inst domain.Institution, spec string) bool {
	if spec == "" || spec == domain.None {
		return true
	}
	needle := strings.ToLower(spec)
	for _, s := range inst.Services {
		if strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	for _, d := range inst.Doctors {
		if strings.Contains(strings.ToLower(d.Specialization), needle) {
			return true
		}
	}
	return false
}

func matchesDistrict(inst domain.Institution, district string) bool {
	if district == "" || district == domain.None {
		return true
	}
	return inst.Location.District == district
}

// OpenAt reports whether the schedule has the weekday of now marked as working
// and now's HH:MM falls within [open, close]. A missing day counts as closed.
func OpenAt(s domain.Schedule, now time.Time) bool {
	day, ok := s[strings.ToLower(now.Weekday().String())]
	if !ok || !day.IsWorking {
		return false
	}
	hm := now.Format("15:04")
	return hm >= day.Open && hm <= day.Close
}
