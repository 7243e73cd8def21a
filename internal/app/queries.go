package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"meddir/internal/adapters/observability"
	"meddir/internal/domain"
	"meddir/internal/listing"
)

type QueryService struct {
	dir      domain.Directory
	cache    domain.Cache
	cacheTTL time.Duration
	pageSize int
	now      func() time.Time
}

// NewQueryService wires the read side. now must return the city's local time;
// it drives the working-now filter.
func NewQueryService(d domain.Directory, c domain.Cache, ttl time.Duration, pageSize int, now func() time.Time) *QueryService {
	if pageSize <= 0 {
		pageSize = listing.DefaultPageSize
	}
	return &QueryService{dir: d, cache: c, cacheTTL: ttl, pageSize: pageSize, now: now}
}

// List runs the listing pipeline over the current institutions.
// Results are cached per store revision; working-now results depend on the clock and are not cached.
func (s *QueryService) List(ctx context.Context, spec domain.FilterSpec, page, pageSize int) (listing.Result, error) {
	spec = spec.Normalize()
	if pageSize <= 0 {
		pageSize = s.pageSize
	}
	if page < 1 {
		page = 1
	}

	cacheable := !spec.WorkingNow && s.cache != nil
	key := listingKey(s.dir.Epoch(), s.dir.Revision(), spec, page, pageSize)
	if cacheable {
		var out listing.Result
		if ok, _ := s.cache.Get(ctx, key, &out); ok {
			return out, nil
		}
	}

	res := listing.Run(s.dir.Institutions(), spec, page, pageSize, s.now())
	observability.ObserveListing(string(spec.SortBy), res.TotalCount)

	if cacheable {
		_ = s.cache.Set(ctx, key, res, int(s.cacheTTL.Seconds()))
	}
	return res, nil
}

func (s *QueryService) GetInstitution(ctx context.Context, id string) (domain.Institution, error) {
	key := institutionKey(s.dir.Epoch(), id)
	var inst domain.Institution
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &inst); ok {
			return inst, nil
		}
	}
	inst, err := s.dir.Institution(id)
	if err != nil {
		return domain.Institution{}, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, inst, int(s.cacheTTL.Seconds()))
	}
	return inst, nil
}

// ListReviews returns the approved reviews of an existing institution.
func (s *QueryService) ListReviews(ctx context.Context, id string) ([]domain.Review, error) {
	if _, err := s.dir.Institution(id); err != nil {
		return nil, err
	}
	key := reviewsKey(s.dir.Epoch(), id)
	var out []domain.Review
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &out); ok {
			return out, nil
		}
	}
	out = s.dir.PublicReviews(id)
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	}
	return out, nil
}

func (s *QueryService) ListNews(ctx context.Context) []domain.News { return s.dir.News() }

func (s *QueryService) Stats(ctx context.Context) domain.Stats { return s.dir.Stats() }

func (s *QueryService) AdminStats(ctx context.Context) domain.AdminStats { return s.dir.AdminStats() }

type ReviewStatus string

const (
	StatusPending  ReviewStatus = "pending"
	StatusApproved ReviewStatus = "approved"
	StatusAll      ReviewStatus = "all"
)

// ModerationQueue lists reviews for the admin panel, labelled with their institution's
// name or domain.UnknownInstitution when it has been deleted.
func (s *QueryService) ModerationQueue(ctx context.Context, status ReviewStatus) []domain.ModerationItem {
	names := map[string]string{}
	for _, inst := range s.dir.Institutions() {
		names[inst.ID] = inst.Name
	}
	out := []domain.ModerationItem{}
	for _, r := range s.dir.Reviews() {
		switch status {
		case StatusPending:
			if r.Approved {
				continue
			}
		case StatusApproved:
			if !r.Approved {
				continue
			}
		}
		name, ok := names[r.InstitutionID]
		if !ok {
			name = domain.UnknownInstitution
		}
		out = append(out, domain.ModerationItem{Review: r, InstitutionName: name})
	}
	return out
}

// Keys are scoped by the store epoch: a shared cache may hold entries written
// by other processes whose ids and revisions collide with ours.
func listingKey(epoch string, rev uint64, spec domain.FilterSpec, page, size int) string {
	b, _ := json.Marshal(spec)
	sum := sha1.Sum(b)
	return fmt.Sprintf("listing:%s:%d:%s:%d:%d", epoch, rev, hex.EncodeToString(sum[:8]), page, size)
}

func institutionKey(epoch, id string) string { return "institution:" + epoch + ":" + id }

func reviewsKey(epoch, id string) string { return "reviews:" + epoch + ":" + id }
