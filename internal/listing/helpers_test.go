package listing_test

import (
	"time"

	"meddir/internal/domain"
)

// monday is 2024-01-01, a Monday.
func monday(hm string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", "2024-01-01 "+hm, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func weekdays(open, close string) domain.Schedule {
	s := domain.Schedule{}
	for _, d := range domain.Weekdays[:5] {
		s[d] = domain.DaySchedule{Open: open, Close: close, IsWorking: true}
	}
	s["saturday"] = domain.DaySchedule{Open: "00:00", Close: "00:00"}
	return s
}

func inst(id, name string, paid bool, rating float64) domain.Institution {
	return domain.Institution{ID: id, Name: name, Paid: paid, Rating: rating}
}

func ids(items []domain.Institution) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}
