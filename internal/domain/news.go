package domain

type NewsCategory string

const (
	NewsHealth       NewsCategory = "health"
	NewsAnnouncement NewsCategory = "announcement"
	NewsPrevention   NewsCategory = "prevention"
	NewsResearch     NewsCategory = "research"
	NewsEvents       NewsCategory = "events"
)

func (c NewsCategory) Valid() bool {
	switch c {
	case NewsHealth, NewsAnnouncement, NewsPrevention, NewsResearch, NewsEvents:
		return true
	}
	return false
}

type News struct {
	ID       string       `json:"id" yaml:"id"`
	Title    string       `json:"title" yaml:"title" validate:"required"`
	Summary  string       `json:"summary" yaml:"summary"`
	Content  string       `json:"content" yaml:"content" validate:"required"`
	Category NewsCategory `json:"category" yaml:"category"`
	Date     string       `json:"date" yaml:"date"`
	ImageURL *string      `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`
	Source   *string      `json:"source,omitempty" yaml:"source,omitempty"`
}
