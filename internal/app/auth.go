package app

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"meddir/internal/domain"
)

// AdminRole is the only role the panel knows about.
const AdminRole = "admin"

type Registration struct {
	Username        string `json:"username" validate:"required,max=64"`
	Email           string `json:"email" validate:"required,email"`
	FullName        string `json:"fullName" validate:"required"`
	Position        string `json:"position"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
}

type AuthConfig struct {
	DemoUser     string
	DemoPassword string
	Secret       []byte
	TokenTTL     time.Duration
}

// AuthService gates the admin panel: a fixed demo account plus registered admins.
type AuthService struct {
	creds domain.CredentialStore
	cfg   AuthConfig
	now   func() time.Time
}

func NewAuthService(creds domain.CredentialStore, cfg AuthConfig) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 8 * time.Hour
	}
	return &AuthService{creds: creds, cfg: cfg, now: time.Now}
}

func (s *AuthService) Register(ctx context.Context, r Registration) (domain.Admin, error) {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
	r.FullName = strings.TrimSpace(r.FullName)
	if err := validate.Struct(r); err != nil {
		return domain.Admin{}, validationError(err)
	}
	if r.Username == s.cfg.DemoUser {
		return domain.Admin{}, domain.Conflict("admin %s already registered", r.Username)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(r.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Admin{}, domain.Internal("hash password", err)
	}
	adm := domain.Admin{
		Username:     r.Username,
		Email:        r.Email,
		FullName:     r.FullName,
		Position:     r.Position,
		RegisteredAt: s.now().UTC().Format(time.RFC3339),
	}
	if err := s.creds.Create(ctx, adm, hash); err != nil {
		return domain.Admin{}, err
	}
	log.Info().Str("username", adm.Username).Msg("admin registered")
	return adm, nil
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Username  string    `json:"username"`
}

// Login checks the demo account first, then the credential store.
func (s *AuthService) Login(ctx context.Context, username, password string) (Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return Session{}, domain.Unauthorized("invalid username or password")
	}
	if !s.checkDemo(username, password) {
		_, hash, err := s.creds.Get(ctx, username)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				return Session{}, err
			}
			log.Warn().Str("username", username).Msg("admin login rejected")
			return Session{}, domain.Unauthorized("invalid username or password")
		}
		if bcrypt.CompareHashAndPassword(hash, []byte(password)) != nil {
			log.Warn().Str("username", username).Msg("admin login rejected")
			return Session{}, domain.Unauthorized("invalid username or password")
		}
	}
	return s.issue(username)
}

func (s *AuthService) checkDemo(username, password string) bool {
	if s.cfg.DemoUser == "" || username != s.cfg.DemoUser {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.DemoPassword)) == 1
}

func (s *AuthService) issue(username string) (Session, error) {
	now := s.now()
	exp := now.Add(s.cfg.TokenTTL)
	claims := jwt.MapClaims{
		"sub":  username,
		"role": AdminRole,
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.Secret)
	if err != nil {
		return Session{}, domain.Internal("sign token", err)
	}
	log.Info().Str("username", username).Msg("admin logged in")
	return Session{Token: token, ExpiresAt: exp, Username: username}, nil
}

// Verify validates a bearer token and returns the admin username.
func (s *AuthService) Verify(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.cfg.Secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", domain.Unauthorized("invalid token")
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || claims["role"] != AdminRole {
		return "", domain.Unauthorized("invalid token")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", domain.Unauthorized("invalid token")
	}
	return sub, nil
}
