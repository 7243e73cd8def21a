package domain

type PriceMode string

const (
	PriceAll  PriceMode = "all"
	PriceFree PriceMode = "free"
	PricePaid PriceMode = "paid"
)

type SortMode string

const (
	SortAlphabetical SortMode = "alphabetical"
	SortPrice        SortMode = "price"
	SortRating       SortMode = "rating"
)

// None disables the specialization and district filters.
const None = "none"

type FilterSpec struct {
	Query          string    `json:"query"`
	PriceType      PriceMode `json:"priceType"`
	Specialization string    `json:"specialization"`
	District       string    `json:"district"`
	WorkingNow     bool      `json:"workingNow"`
	SortBy         SortMode  `json:"sortBy"`
}

// DefaultFilter is the cleared filter state.
func DefaultFilter() FilterSpec {
	return FilterSpec{
		PriceType:      PriceAll,
		Specialization: None,
		District:       None,
		SortBy:         SortAlphabetical,
	}
}

// Normalize maps unrecognized or empty values to their neutral defaults
// instead of rejecting the spec.
func (f FilterSpec) Normalize() FilterSpec {
	switch f.PriceType {
	case PriceAll, PriceFree, PricePaid:
	default:
		f.PriceType = PriceAll
	}
	switch f.SortBy {
	case SortAlphabetical, SortPrice, SortRating:
	default:
		f.SortBy = SortAlphabetical
	}
	if f.Specialization == "" {
		f.Specialization = None
	}
	if f.District == "" {
		f.District = None
	}
	return f
}

// ActiveCount counts the narrowing filters in use; query and sort are not counted.
func (f FilterSpec) ActiveCount() int {
	n := 0
	if f.PriceType != PriceAll {
		n++
	}
	if f.Specialization != None {
		n++
	}
	if f.District != None {
		n++
	}
	if f.WorkingNow {
		n++
	}
	return n
}

// Specializations offered by the search form.
var Specializations = []string{
	"Терапия", "Кардиология", "Хирургия", "Педиатрия", "Стоматология", "Неврология",
	"Офтальмология", "Гинекология", "Дерматология", "Эндокринология", "Урология",
	"Онкология", "Психиатрия", "Ортопедия", "Травматология", "Ревматология",
	"Инфекционные заболевания", "Лабораторная диагностика", "Скорая помощь",
}

type DistrictOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Districts offered by the search form; Value is matched exactly against Location.District.
var Districts = []DistrictOption{
	{"Ленинский", "Ленинский"},
	{"Октябрьский", "Октябрьский"},
	{"Центр", "Центр города"},
	{"Северный", "Северный микрорайон"},
	{"Южный", "Южный микрорайон"},
	{"Девятовка", "Девятовка"},
	{"Грандичи", "Грандичи"},
	{"Вишневец", "Вишневец"},
}
