package store

import "meddir/internal/domain"

func (m *Memory) Stats() domain.Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := domain.Stats{Institutions: len(m.institutions)}
	for _, inst := range m.institutions {
		if inst.Paid {
			s.Paid++
		} else {
			s.Free++
		}
	}
	for _, r := range m.reviews {
		if r.Approved {
			s.ApprovedReviews++
		}
	}
	return s
}

func (m *Memory) AdminStats() domain.AdminStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := domain.AdminStats{Institutions: len(m.institutions)}
	districts := map[string]struct{}{}
	for _, inst := range m.institutions {
		s.Doctors += len(inst.Doctors)
		s.Services += len(inst.Services)
		districts[inst.Location.District] = struct{}{}
	}
	s.Districts = len(districts)
	for _, r := range m.reviews {
		if r.Approved {
			s.ApprovedReviews++
		} else {
			s.PendingReviews++
		}
	}
	return s
}
