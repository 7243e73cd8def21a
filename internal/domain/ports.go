package domain

import "context"

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Admin is a registered administrator profile.
type Admin struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	FullName     string `json:"fullName"`
	Position     string `json:"position"`
	RegisteredAt string `json:"registeredAt"`
}

// CredentialStore persists admin profiles and password hashes.
// Get returns ErrNotFound for unknown usernames; Create returns ErrConflict for taken ones.
type CredentialStore interface {
	Create(ctx context.Context, a Admin, passwordHash []byte) error
	Get(ctx context.Context, username string) (Admin, []byte, error)
}

// Fixtures is the initial directory state.
type Fixtures struct {
	Institutions []Institution `json:"institutions" yaml:"institutions"`
	Reviews      []Review      `json:"reviews" yaml:"reviews"`
	News         []News        `json:"news" yaml:"news"`
}

// SeedSource provides the initial directory state.
type SeedSource interface {
	Load(ctx context.Context) (Fixtures, error)
}

// Stats backs the public statistics block.
type Stats struct {
	Institutions    int `json:"institutions"`
	Free            int `json:"free"`
	Paid            int `json:"paid"`
	ApprovedReviews int `json:"approvedReviews"`
}

// AdminStats backs the admin dashboard.
type AdminStats struct {
	Institutions    int `json:"institutions"`
	Doctors         int `json:"doctors"`
	Services        int `json:"services"`
	ApprovedReviews int `json:"approvedReviews"`
	PendingReviews  int `json:"pendingReviews"`
	Districts       int `json:"districts"`
}

// Directory is the Entity Store as seen by the application services.
type Directory interface {
	Epoch() string
	Revision() uint64

	AddInstitution(data Institution) Institution
	UpdateInstitution(id string, patch InstitutionPatch) (Institution, error)
	DeleteInstitution(id string) error
	Institution(id string) (Institution, error)
	Institutions() []Institution

	AddReview(data NewReview) Review
	ApproveReview(id string) (Review, error)
	DeleteReview(id string) (Review, error)
	Reviews() []Review
	PublicReviews(institutionID string) []Review
	PendingReviews() []Review

	AddNews(data News) News
	DeleteNews(id string) error
	News() []News

	Stats() Stats
	AdminStats() AdminStats
}
