package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisad "meddir/internal/adapters/redis"
	"meddir/internal/app"
	"meddir/internal/domain"
)

// Two processes seeded from the same fixtures reach the same revisions and
// reuse fixture ids; a shared Redis must not let one serve the other's data.
func TestSharedRedisCache_TwoStoresDoNotMix(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rc.Close() })
	cache := redisad.NewCache(rc, "meddir:")
	ctx := context.Background()

	first, second := seeded(), seeded()
	first.AddInstitution(domain.Institution{Name: "Старая клиника", Type: domain.TypeClinic})
	second.AddInstitution(domain.Institution{Name: "Новая больница", Type: domain.TypeHospital})
	require.Equal(t, first.Revision(), second.Revision())

	q1 := app.NewQueryService(first, cache, time.Minute, 10, noon)
	q2 := app.NewQueryService(second, cache, time.Minute, 10, noon)

	spec := domain.DefaultFilter()
	spec.Query = "клиника"
	r1, err := q1.List(ctx, spec, 1, 0)
	require.NoError(t, err)
	require.Len(t, r1.Items, 2)

	spec.Query = ""
	_, err = q1.List(ctx, spec, 1, 0)
	require.NoError(t, err)
	r2, err := q2.List(ctx, spec, 1, 0)
	require.NoError(t, err)

	var names []string
	for _, in := range r2.Items {
		names = append(names, in.Name)
	}
	assert.Contains(t, names, "Новая больница")
	assert.NotContains(t, names, "Старая клиника")

	// detail entries for the same fixture id stay apart as well
	cmd1 := app.NewCommandService(first, cache, app.RatingAccept)
	_, err = q2.GetInstitution(ctx, "A")
	require.NoError(t, err)
	_, err = cmd1.UpdateInstitution(ctx, "A", domain.InstitutionPatch{Name: ptr("Аптека Первая")})
	require.NoError(t, err)
	got1, err := q1.GetInstitution(ctx, "A")
	require.NoError(t, err)
	got2, err := q2.GetInstitution(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "Аптека Первая", got1.Name)
	assert.Equal(t, "Аптека Центр", got2.Name)
}
