package app_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"meddir/internal/app"
	"meddir/internal/domain"
	"meddir/internal/store"
)

// ---- fakes ----

type fakeCache struct {
	store map[string][]byte
	gets  int
	hits  int
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.gets++
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(v, dst)
}
func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}
func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	return nil
}

func noon() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) } // Monday

func seeded() *store.Memory {
	m := store.New(store.WithIDs(store.Sequence("id-")))
	m.Seed(domain.Fixtures{
		Institutions: []domain.Institution{
			{ID: "A", Name: "Аптека Центр", Type: domain.TypePharmacy, Rating: 4.0},
			{ID: "B", Name: "Больница №1", Type: domain.TypeHospital, Paid: true, Rating: 4.8},
			{ID: "C", Name: "Клиника Здоровье", Type: domain.TypeClinic, Rating: 3.5},
		},
		Reviews: []domain.Review{
			{ID: "r1", InstitutionID: "A", AuthorName: "Ана", Rating: 5, Comment: "ok", Approved: true},
			{ID: "r2", InstitutionID: "A", AuthorName: "Боб", Rating: 2, Comment: "meh"},
			{ID: "r3", InstitutionID: "gone", AuthorName: "Вера", Rating: 4, Comment: "?"},
		},
	})
	return m
}

// ---- tests ----

func TestList_FreeSortedAlphabetically(t *testing.T) {
	q := app.NewQueryService(seeded(), &fakeCache{}, 10*time.Minute, 6, noon)
	spec := domain.DefaultFilter()
	spec.PriceType = domain.PriceFree

	res, err := q.List(context.Background(), spec, 1, 0)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if res.TotalCount != 2 || len(res.Items) != 2 || res.Items[0].ID != "A" || res.Items[1].ID != "C" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.PageSize != 6 || res.TotalPages != 1 {
		t.Fatalf("unexpected paging: %+v", res)
	}
}

func TestList_CacheHitUntilStoreChanges(t *testing.T) {
	dir := seeded()
	cache := &fakeCache{}
	q := app.NewQueryService(dir, cache, 10*time.Minute, 6, noon)
	ctx := context.Background()

	if _, err := q.List(ctx, domain.DefaultFilter(), 1, 6); err != nil {
		t.Fatalf("err: %v", err)
	}
	if _, err := q.List(ctx, domain.DefaultFilter(), 1, 6); err != nil {
		t.Fatalf("err: %v", err)
	}
	if cache.hits != 1 {
		t.Fatalf("expected second read from cache, hits=%d", cache.hits)
	}

	// a mutation bumps the revision, so the next read must see the new record
	dir.AddInstitution(domain.Institution{Name: "Детская больница"})
	res, _ := q.List(ctx, domain.DefaultFilter(), 1, 6)
	if res.TotalCount != 4 {
		t.Fatalf("expected fresh listing with 4 items, got %d", res.TotalCount)
	}
}

func TestList_WorkingNowBypassesCache(t *testing.T) {
	cache := &fakeCache{}
	q := app.NewQueryService(seeded(), cache, 10*time.Minute, 6, noon)
	spec := domain.DefaultFilter()
	spec.WorkingNow = true

	res, _ := q.List(context.Background(), spec, 1, 6)
	if res.TotalCount != 0 {
		t.Fatalf("no fixture has a schedule, got %d", res.TotalCount)
	}
	if cache.gets != 0 || len(cache.store) != 0 {
		t.Fatalf("working-now listing must not touch the cache")
	}
}

func TestGetInstitution_CacheMissThenHit(t *testing.T) {
	dir := seeded()
	cache := &fakeCache{}
	q := app.NewQueryService(dir, cache, 10*time.Minute, 6, noon)
	ctx := context.Background()

	h, err := q.GetInstitution(ctx, "B")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if h.Name != "Больница №1" {
		t.Fatalf("unexpected institution: %+v", h)
	}

	// bypass the command service so nothing evicts the cached copy
	name := "SHOULD NOT SEE THIS"
	if _, err := dir.UpdateInstitution("B", domain.InstitutionPatch{Name: &name}); err != nil {
		t.Fatalf("err: %v", err)
	}
	h2, _ := q.GetInstitution(ctx, "B")
	if h2.Name != "Больница №1" {
		t.Fatalf("expected cached name, got %s", h2.Name)
	}
}

func TestListReviews_OnlyApproved(t *testing.T) {
	q := app.NewQueryService(seeded(), nil, time.Minute, 6, noon)
	out, err := q.ListReviews(context.Background(), "A")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(out) != 1 || out[0].ID != "r1" {
		t.Fatalf("unexpected reviews: %+v", out)
	}
	if _, err := q.ListReviews(context.Background(), "missing"); err == nil {
		t.Fatalf("expected not found for unknown institution")
	}
}

func TestModerationQueue_LabelsOrphans(t *testing.T) {
	q := app.NewQueryService(seeded(), nil, time.Minute, 6, noon)

	pending := q.ModerationQueue(context.Background(), app.StatusPending)
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending, got %d", len(pending))
	}
	if pending[0].InstitutionName != "Аптека Центр" {
		t.Fatalf("unexpected name %q", pending[0].InstitutionName)
	}
	if pending[1].InstitutionName != domain.UnknownInstitution {
		t.Fatalf("orphaned review should be labelled unknown, got %q", pending[1].InstitutionName)
	}
	if n := len(q.ModerationQueue(context.Background(), app.StatusAll)); n != 3 {
		t.Fatalf("expected 3 reviews in total, got %d", n)
	}
	if n := len(q.ModerationQueue(context.Background(), app.StatusApproved)); n != 1 {
		t.Fatalf("expected 1 approved review, got %d", n)
	}
}
