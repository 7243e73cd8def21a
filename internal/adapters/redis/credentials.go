package redisad

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"meddir/internal/domain"
)

// Credentials stores admins under admin_<user> (profile JSON) and
// admin_password_<user> (bcrypt hash), no expiry.
type Credentials struct {
	c      *redis.Client
	prefix string
}

func NewCredentials(c *redis.Client, prefix string) *Credentials {
	return &Credentials{c: c, prefix: prefix}
}

func (s *Credentials) profileKey(u string) string  { return s.prefix + "admin_" + u }
func (s *Credentials) passwordKey(u string) string { return s.prefix + "admin_password_" + u }

func (s *Credentials) Create(ctx context.Context, a domain.Admin, hash []byte) error {
	profile, err := json.Marshal(a)
	if err != nil {
		return err
	}
	// SETNX on the password key claims the username atomically.
	ok, err := s.c.SetNX(ctx, s.passwordKey(a.Username), hash, 0).Result()
	if err != nil {
		return fmt.Errorf("claim admin %s: %w", a.Username, err)
	}
	if !ok {
		return domain.Conflict("admin %s already registered", a.Username)
	}
	if err := s.c.Set(ctx, s.profileKey(a.Username), profile, 0).Err(); err != nil {
		_ = s.c.Del(ctx, s.passwordKey(a.Username)).Err()
		return fmt.Errorf("store admin %s: %w", a.Username, err)
	}
	return nil
}

func (s *Credentials) Get(ctx context.Context, username string) (domain.Admin, []byte, error) {
	vals, err := s.c.MGet(ctx, s.profileKey(username), s.passwordKey(username)).Result()
	if err != nil {
		return domain.Admin{}, nil, fmt.Errorf("load admin %s: %w", username, err)
	}
	profile, _ := vals[0].(string)
	hash, _ := vals[1].(string)
	if hash == "" {
		return domain.Admin{}, nil, domain.NotFound("admin %s", username)
	}
	var a domain.Admin
	if profile != "" {
		if err := json.Unmarshal([]byte(profile), &a); err != nil {
			return domain.Admin{}, nil, domain.Internal("decode admin profile", err)
		}
	}
	a.Username = username
	return a, []byte(hash), nil
}
