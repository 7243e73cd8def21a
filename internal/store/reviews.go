package store

import "meddir/internal/domain"

// AddReview stores a visitor review dated today and pending moderation.
// The institution is not required to exist.
func (m *Memory) AddReview(data domain.NewReview) domain.Review {
	m.mu.Lock()
	defer m.mu.Unlock()

	r := domain.Review{
		ID:            m.newID(),
		InstitutionID: data.InstitutionID,
		AuthorName:    data.AuthorName,
		Rating:        data.Rating,
		Comment:       data.Comment,
		Date:          m.today(),
		Approved:      false,
	}
	m.reviews = append(m.reviews, r)
	m.rev++
	return r
}

func (m *Memory) ApproveReview(id string) (domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.reviewIndex(id)
	if i < 0 {
		return domain.Review{}, domain.NotFound("review %s", id)
	}
	if !m.reviews[i].Approved {
		m.reviews[i].Approved = true
		m.rev++
	}
	return m.reviews[i], nil
}

// DeleteReview removes the review and returns it.
func (m *Memory) DeleteReview(id string) (domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.reviewIndex(id)
	if i < 0 {
		return domain.Review{}, domain.NotFound("review %s", id)
	}
	r := m.reviews[i]
	m.reviews = append(m.reviews[:i:i], m.reviews[i+1:]...)
	m.rev++
	return r, nil
}

// Reviews returns every review, approved or not, in submission order.
func (m *Memory) Reviews() []domain.Review {
	return m.selectReviews(func(domain.Review) bool { return true })
}

// PublicReviews returns the approved reviews of one institution.
func (m *Memory) PublicReviews(institutionID string) []domain.Review {
	return m.selectReviews(func(r domain.Review) bool {
		return r.Approved && r.InstitutionID == institutionID
	})
}

func (m *Memory) PendingReviews() []domain.Review {
	return m.selectReviews(func(r domain.Review) bool { return !r.Approved })
}

func (m *Memory) selectReviews(keep func(domain.Review) bool) []domain.Review {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []domain.Review{}
	for _, r := range m.reviews {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func (m *Memory) reviewIndex(id string) int {
	for i := range m.reviews {
		if m.reviews[i].ID == id {
			return i
		}
	}
	return -1
}
