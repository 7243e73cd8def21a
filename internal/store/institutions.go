package store

import "meddir/internal/domain"

// AddInstitution stores data under a new id and returns the stored record.
func (m *Memory) AddInstitution(data domain.Institution) domain.Institution {
	m.mu.Lock()
	defer m.mu.Unlock()

	inst := data.Clone()
	inst.ID = m.newID()
	m.fillDoctorIDs(&inst)
	m.institutions = append(m.institutions, inst)
	m.rev++
	return inst.Clone()
}

// UpdateInstitution merges patch into the institution with the given id.
func (m *Memory) UpdateInstitution(id string, patch domain.InstitutionPatch) (domain.Institution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.institutionIndex(id)
	if i < 0 {
		return domain.Institution{}, domain.NotFound("institution %s", id)
	}
	inst := m.institutions[i].Clone()
	patch.Apply(&inst)
	inst.ID = id
	m.fillDoctorIDs(&inst)
	m.institutions[i] = inst
	m.rev++
	return inst.Clone(), nil
}

// DeleteInstitution removes the institution. Its reviews stay in place, orphaned.
func (m *Memory) DeleteInstitution(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.institutionIndex(id)
	if i < 0 {
		return domain.NotFound("institution %s", id)
	}
	m.institutions = append(m.institutions[:i:i], m.institutions[i+1:]...)
	m.rev++
	return nil
}

func (m *Memory) Institution(id string) (domain.Institution, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.institutionIndex(id)
	if i < 0 {
		return domain.Institution{}, domain.NotFound("institution %s", id)
	}
	return m.institutions[i].Clone(), nil
}

// Institutions returns a snapshot in insertion order.
func (m *Memory) Institutions() []domain.Institution {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Institution, len(m.institutions))
	for i, inst := range m.institutions {
		out[i] = inst.Clone()
	}
	return out
}

func (m *Memory) institutionIndex(id string) int {
	for i := range m.institutions {
		if m.institutions[i].ID == id {
			return i
		}
	}
	return -1
}
