package domain

type Review struct {
	ID            string `json:"id" yaml:"id"`
	InstitutionID string `json:"institutionId" yaml:"institutionId"`
	AuthorName    string `json:"authorName" yaml:"authorName"`
	Rating        int    `json:"rating" yaml:"rating"`
	Comment       string `json:"comment" yaml:"comment"`
	Date          string `json:"date" yaml:"date"` // YYYY-MM-DD
	Approved      bool   `json:"isApproved" yaml:"isApproved"`
}

// NewReview is what a visitor submits; id, date and moderation state are set by the store.
type NewReview struct {
	InstitutionID string `json:"institutionId" validate:"required"`
	AuthorName    string `json:"authorName" validate:"required"`
	Rating        int    `json:"rating" validate:"min=1,max=5"`
	Comment       string `json:"comment" validate:"required"`
}

// ModerationItem is a review as shown in the admin panel.
type ModerationItem struct {
	Review
	InstitutionName string `json:"institutionName"`
}

// UnknownInstitution labels reviews whose institution no longer exists.
const UnknownInstitution = "Неизвестное учреждение"
