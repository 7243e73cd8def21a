package httpserver

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"meddir/internal/adapters/observability"
)

func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler { return http.TimeoutHandler(next, d, "timeout") }
}

// ---- status-recording ResponseWriter ----

type srw struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (w *srw) WriteHeader(code int) {
	if !w.wrote {
		w.status = code
		w.wrote = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *srw) Write(b []byte) (int, error) {
	if !w.wrote {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *srw) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// ---- Metrics middleware ----

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &srw{ResponseWriter: w}
		next.ServeHTTP(sw, r)
		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		observability.ObserveHTTP(route, r.Method, sw.Status(), time.Since(start))
	})
}

// ---- Structured logging middleware ----

func Logger(l zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &srw{ResponseWriter: w}
			next.ServeHTTP(sw, r)
			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = r.URL.Path
			}
			l.Info().
				Str("route", route).
				Str("method", r.Method).
				Int("status", sw.Status()).
				Dur("duration", time.Since(start)).
				Str("remote", remoteIP(r)).
				Str("ua", r.UserAgent()).
				Msg("http_request")
		})
	}
}

// remoteIP is the RemoteAddr host; behind RealIP that is the forwarded client.
func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

// PeerAddr records the socket peer before RealIP rewrites RemoteAddr from
// client-supplied headers. Register it ahead of RealIP.
func PeerAddr(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), peerKey, remoteIP(r))))
	})
}

func peerFrom(r *http.Request) string {
	if p, ok := r.Context().Value(peerKey).(string); ok && p != "" {
		return p
	}
	return remoteIP(r)
}

// ---- Admin authentication ----

type ctxKey int

const (
	adminKey ctxKey = iota
	peerKey
)

// TokenVerifier resolves a bearer token to an admin username.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

func RequireAdmin(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(h, "Bearer ")
			if !ok || token == "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
				writeProblem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
				return
			}
			user, err := v.Verify(token)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="admin", error="invalid_token"`)
				writeProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), adminKey, user)))
		})
	}
}

// AdminFrom returns the admin username set by RequireAdmin.
func AdminFrom(ctx context.Context) string {
	u, _ := ctx.Value(adminKey).(string)
	return u
}

// ---- Per-client rate limiting ----

// RateLimit allows burst requests per client and refills at perMinute.
// Clients are keyed by the socket peer, never by forwarding headers.
func RateLimit(perMinute, burst int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		perMinute = 5
	}
	if burst <= 0 {
		burst = 1
	}
	cl := newClientLimiters(rate.Every(time.Minute/time.Duration(perMinute)), burst, 10*time.Minute, time.Now)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cl.allow(peerFrom(r)) {
				w.Header().Set("Retry-After", "60")
				writeProblem(w, http.StatusTooManyRequests, "Too Many Requests", "slow down")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type clientLimiter struct {
	lim  *rate.Limiter
	seen time.Time
}

// clientLimiters drops entries untouched for idle, sweeping at most once a minute.
type clientLimiters struct {
	mu        sync.Mutex
	every     rate.Limit
	burst     int
	idle      time.Duration
	now       func() time.Time
	lastSweep time.Time
	m         map[string]*clientLimiter
}

func newClientLimiters(every rate.Limit, burst int, idle time.Duration, now func() time.Time) *clientLimiters {
	return &clientLimiters{every: every, burst: burst, idle: idle, now: now, lastSweep: now(), m: map[string]*clientLimiter{}}
}

func (c *clientLimiters) allow(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if now.Sub(c.lastSweep) >= time.Minute {
		for k, e := range c.m {
			if now.Sub(e.seen) > c.idle {
				delete(c.m, k)
			}
		}
		c.lastSweep = now
	}
	e, ok := c.m[key]
	if !ok {
		e = &clientLimiter{lim: rate.NewLimiter(c.every, c.burst)}
		c.m[key] = e
	}
	e.seen = now
	return e.lim.AllowN(now, 1)
}
