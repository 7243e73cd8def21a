package store

import (
	"context"
	"sync"

	"meddir/internal/domain"
)

// Admins is an in-process domain.CredentialStore; registrations last until restart.
type Admins struct {
	mu     sync.RWMutex
	admins map[string]adminRecord
}

type adminRecord struct {
	admin domain.Admin
	hash  []byte
}

func NewAdmins() *Admins { return &Admins{admins: map[string]adminRecord{}} }

func (a *Admins) Create(_ context.Context, adm domain.Admin, hash []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.admins[adm.Username]; ok {
		return domain.Conflict("admin %s already registered", adm.Username)
	}
	a.admins[adm.Username] = adminRecord{admin: adm, hash: append([]byte(nil), hash...)}
	return nil
}

func (a *Admins) Get(_ context.Context, username string) (domain.Admin, []byte, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	rec, ok := a.admins[username]
	if !ok {
		return domain.Admin{}, nil, domain.NotFound("admin %s", username)
	}
	return rec.admin, append([]byte(nil), rec.hash...), nil
}
