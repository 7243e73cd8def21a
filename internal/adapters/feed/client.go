// internal/adapters/feed/client.go
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"meddir/internal/adapters/observability"
	"meddir/internal/domain"
)

// Client pulls the initial directory state from a JSON feed exposing
// /institutions, /reviews and /news. It implements domain.SeedSource.
type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

func New(base, key string, rps int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("feed base URL is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 20 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

var (
	ErrNotFound     = errors.New("feed: not found")
	ErrUnauthorized = errors.New("feed: unauthorized")
)

// Load fetches the three collections concurrently. Missing reviews or news
// (404) yield empty collections; institutions are mandatory.
func (c *Client) Load(ctx context.Context) (domain.Fixtures, error) {
	var fx domain.Fixtures
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(3)

	g.Go(func() error {
		return c.get(gctx, "institutions", &fx.Institutions)
	})
	g.Go(func() error {
		return optional(c.get(gctx, "reviews", &fx.Reviews))
	})
	g.Go(func() error {
		return optional(c.get(gctx, "news", &fx.News))
	})
	if err := g.Wait(); err != nil {
		return domain.Fixtures{}, fmt.Errorf("load seed feed: %w", err)
	}
	return fx, nil
}

func optional(err error) error {
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

const attempts = 4

// get fetches one collection into out. 429 and 5xx responses and transport
// errors are retried; other statuses are final.
func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}
	var err error
	for i := 0; i < attempts; i++ {
		var wait time.Duration
		wait, err = c.fetch(ctx, endpoint, out)
		if wait < 0 {
			return err
		}
		if i == attempts-1 {
			break
		}
		if wait == 0 {
			wait = backoff(i)
		}
		if !sleepCtx(ctx, wait) {
			return ctx.Err()
		}
	}
	return err
}

// fetch makes one attempt. A negative wait means the result is final;
// otherwise the call may be retried after wait (0 picks the default backoff).
func (c *Client) fetch(ctx context.Context, endpoint string, out any) (time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/"+endpoint, nil)
	if err != nil {
		return -1, err
	}
	if c.key != "" {
		req.Header.Set("X-API-Key", c.key)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "meddir/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("feed", endpoint, 0, time.Since(start))
		if ctx.Err() != nil {
			return -1, ctx.Err()
		}
		return 0, err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("feed", endpoint, resp.StatusCode, time.Since(start))

	switch code := resp.StatusCode; {
	case code == http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return -1, fmt.Errorf("decode %s: %w", endpoint, err)
		}
		return -1, nil
	case code == http.StatusNotFound:
		return -1, ErrNotFound
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return -1, fmt.Errorf("%w (%d)", ErrUnauthorized, code)
	case code == http.StatusTooManyRequests, code >= 500:
		return retryAfter(resp), fmt.Errorf("remote %d", code)
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return -1, fmt.Errorf("bad status %d: %s", code, strings.TrimSpace(string(b)))
	}
}

// sleepCtx waits for d or returns false if ctx is done first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter reads a delay-seconds Retry-After; 0 if absent or invalid.
func retryAfter(resp *http.Response) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(resp.Header.Get("Retry-After")))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// backoff doubles from 200ms with up to 50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	return base + rand.N(base/2+1)
}
