// Package store holds the in-memory directory: institutions, reviews and news.
// It is the only place those collections are mutated.
package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"meddir/internal/domain"
)

type Option func(*Memory)

// WithIDs replaces the default UUID generator.
func WithIDs(g IDGenerator) Option { return func(m *Memory) { m.newID = g } }

// WithClock replaces time.Now for review and news dates.
func WithClock(now func() time.Time) Option { return func(m *Memory) { m.now = now } }

// Memory is the Entity Store. Lookups are linear scans by id; collections are
// expected to hold tens of records.
type Memory struct {
	mu           sync.RWMutex
	institutions []domain.Institution
	reviews      []domain.Review
	news         []domain.News
	rev          uint64
	epoch        string

	newID IDGenerator
	now   func() time.Time
}

func New(opts ...Option) *Memory {
	m := &Memory{newID: UUIDs(), now: time.Now, epoch: uuid.NewString()}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Seed replaces all collections with f. Fixture ids are kept as given; records
// without an id get a generated one.
func (m *Memory) Seed(f domain.Fixtures) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.institutions = make([]domain.Institution, 0, len(f.Institutions))
	for _, inst := range f.Institutions {
		inst = inst.Clone()
		if inst.ID == "" {
			inst.ID = m.newID()
		}
		m.fillDoctorIDs(&inst)
		m.institutions = append(m.institutions, inst)
	}
	m.reviews = make([]domain.Review, 0, len(f.Reviews))
	for _, r := range f.Reviews {
		if r.ID == "" {
			r.ID = m.newID()
		}
		m.reviews = append(m.reviews, r)
	}
	m.news = make([]domain.News, 0, len(f.News))
	for _, n := range f.News {
		if n.ID == "" {
			n.ID = m.newID()
		}
		m.news = append(m.news, n)
	}
	m.rev++
}

// Epoch identifies this store instance. Revisions are only comparable within
// one epoch, so keys shared with other processes must carry both.
func (m *Memory) Epoch() string { return m.epoch }

// Revision increases on every successful mutation.
func (m *Memory) Revision() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rev
}

func (m *Memory) today() string { return m.now().Format("2006-01-02") }

func (m *Memory) fillDoctorIDs(inst *domain.Institution) {
	for i := range inst.Doctors {
		if inst.Doctors[i].ID == "" {
			inst.Doctors[i].ID = m.newID()
		}
	}
}
