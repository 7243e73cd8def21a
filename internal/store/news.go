package store

import "meddir/internal/domain"

// AddNews stores data under a new id; an empty date becomes today.
func (m *Memory) AddNews(data domain.News) domain.News {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := data
	n.ID = m.newID()
	if n.Date == "" {
		n.Date = m.today()
	}
	m.news = append(m.news, n)
	m.rev++
	return n
}

func (m *Memory) DeleteNews(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.news {
		if m.news[i].ID == id {
			m.news = append(m.news[:i:i], m.news[i+1:]...)
			m.rev++
			return nil
		}
	}
	return domain.NotFound("news %s", id)
}

func (m *Memory) News() []domain.News {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.News{}, m.news...)
}
