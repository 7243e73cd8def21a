package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meddir/internal/app"
	"meddir/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func TestRatingPolicy(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		policy  app.RatingPolicy
		in      float64
		want    float64
		wantErr bool
	}{
		{app.RatingAccept, 7.5, 7.5, false},
		{app.RatingAccept, 4.2, 4.2, false},
		{app.RatingClamp, 7.5, 5, false},
		{app.RatingClamp, -1, 0, false},
		{app.RatingClamp, 3.3, 3.3, false},
		{app.RatingReject, 5.1, 0, true},
		{app.RatingReject, 5, 5, false},
	}
	for _, tc := range cases {
		cmd := app.NewCommandService(seeded(), nil, tc.policy)
		inst, err := cmd.AddInstitution(ctx, domain.Institution{Name: "Н", Type: domain.TypeClinic, Rating: tc.in})
		if tc.wantErr {
			assert.True(t, errors.Is(err, domain.ErrValidation), "%s %.1f", tc.policy, tc.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tc.want, inst.Rating, "%s %.1f", tc.policy, tc.in)
	}
}

func TestParseRatingPolicy(t *testing.T) {
	assert.Equal(t, app.RatingClamp, app.ParseRatingPolicy(" Clamp "))
	assert.Equal(t, app.RatingReject, app.ParseRatingPolicy("reject"))
	assert.Equal(t, app.RatingAccept, app.ParseRatingPolicy(""))
	assert.Equal(t, app.RatingAccept, app.ParseRatingPolicy("whatever"))
}

func TestAddInstitution_Validation(t *testing.T) {
	cmd := app.NewCommandService(seeded(), nil, app.RatingAccept)
	ctx := context.Background()

	_, err := cmd.AddInstitution(ctx, domain.Institution{Type: domain.TypeClinic})
	assert.True(t, errors.Is(err, domain.ErrValidation), "name is required")

	_, err = cmd.AddInstitution(ctx, domain.Institution{Name: "X", Type: "spa"})
	assert.True(t, errors.Is(err, domain.ErrValidation), "type must be known")

	_, err = cmd.AddInstitution(ctx, domain.Institution{Name: "X", Type: domain.TypePharmacy, Email: "not-an-email"})
	assert.True(t, errors.Is(err, domain.ErrValidation), "email must be valid")

	_, err = cmd.AddInstitution(ctx, domain.Institution{Name: "X", Type: domain.TypeHospital,
		Doctors: []domain.Doctor{{Specialization: "Хирург"}}})
	assert.True(t, errors.Is(err, domain.ErrValidation), "doctor name is required")
}

func TestUpdateInstitution_EvictsCachedDetail(t *testing.T) {
	dir := seeded()
	cache := &fakeCache{}
	q := app.NewQueryService(dir, cache, time.Minute, 6, noon)
	cmd := app.NewCommandService(dir, cache, app.RatingAccept)
	ctx := context.Background()

	_, err := q.GetInstitution(ctx, "A")
	require.NoError(t, err)

	_, err = cmd.UpdateInstitution(ctx, "A", domain.InstitutionPatch{Name: ptr("Аптека Центральная")})
	require.NoError(t, err)

	got, err := q.GetInstitution(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "Аптека Центральная", got.Name)

	_, err = cmd.UpdateInstitution(ctx, "missing", domain.InstitutionPatch{Name: ptr("x")})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = cmd.UpdateInstitution(ctx, "A", domain.InstitutionPatch{Name: ptr("  ")})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestUpdateInstitution_ValidatesMergedRecord(t *testing.T) {
	dir := seeded()
	cmd := app.NewCommandService(dir, &fakeCache{}, app.RatingAccept)
	ctx := context.Background()

	before, err := dir.Institution("A")
	require.NoError(t, err)

	_, err = cmd.UpdateInstitution(ctx, "A", domain.InstitutionPatch{Email: ptr("not-an-email")})
	assert.True(t, errors.Is(err, domain.ErrValidation), "email must be valid")

	_, err = cmd.UpdateInstitution(ctx, "A", domain.InstitutionPatch{
		Doctors: []domain.Doctor{{Specialization: "Провизор"}},
	})
	assert.True(t, errors.Is(err, domain.ErrValidation), "doctor name is required")

	after, err := dir.Institution("A")
	require.NoError(t, err)
	assert.Equal(t, before, after, "rejected patches leave the record untouched")

	_, err = cmd.UpdateInstitution(ctx, "A", domain.InstitutionPatch{Email: ptr("info@apteka.by")})
	require.NoError(t, err)
}

func TestReviewLifecycle(t *testing.T) {
	dir := seeded()
	cache := &fakeCache{}
	q := app.NewQueryService(dir, cache, time.Minute, 6, noon)
	cmd := app.NewCommandService(dir, cache, app.RatingAccept)
	ctx := context.Background()

	before, err := q.ListReviews(ctx, "C")
	require.NoError(t, err)
	require.Empty(t, before)

	submitted, err := cmd.SubmitReview(ctx, domain.NewReview{
		InstitutionID: "C", AuthorName: " Дмитрий ", Rating: 5, Comment: "Внимательный персонал",
	})
	require.NoError(t, err)
	assert.False(t, submitted.Approved)
	assert.Equal(t, "Дмитрий", submitted.AuthorName)

	hidden, err := q.ListReviews(ctx, "C")
	require.NoError(t, err)
	assert.Empty(t, hidden)

	_, err = cmd.ApproveReview(ctx, submitted.ID)
	require.NoError(t, err)

	visible, err := q.ListReviews(ctx, "C")
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, submitted.ID, visible[0].ID)
	assert.Equal(t, submitted.Comment, visible[0].Comment)
	assert.Equal(t, submitted.AuthorName, visible[0].AuthorName)
	assert.Equal(t, submitted.Date, visible[0].Date)

	require.NoError(t, cmd.DeleteReview(ctx, submitted.ID))
	gone, err := q.ListReviews(ctx, "C")
	require.NoError(t, err)
	assert.Empty(t, gone)
}

func TestSubmitReview_Validation(t *testing.T) {
	cmd := app.NewCommandService(seeded(), nil, app.RatingAccept)
	ctx := context.Background()
	for _, r := range []domain.NewReview{
		{InstitutionID: "A", AuthorName: "x", Rating: 0, Comment: "c"},
		{InstitutionID: "A", AuthorName: "x", Rating: 6, Comment: "c"},
		{InstitutionID: "A", AuthorName: "   ", Rating: 3, Comment: "c"},
		{InstitutionID: "A", AuthorName: "x", Rating: 3, Comment: ""},
		{AuthorName: "x", Rating: 3, Comment: "c"},
	} {
		_, err := cmd.SubmitReview(ctx, r)
		assert.True(t, errors.Is(err, domain.ErrValidation), "%+v", r)
	}
}

func TestNewsCommands(t *testing.T) {
	dir := seeded()
	cmd := app.NewCommandService(dir, nil, app.RatingAccept)
	ctx := context.Background()

	_, err := cmd.AddNews(ctx, domain.News{Title: "T", Content: "C", Category: "gossip"})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	n, err := cmd.AddNews(ctx, domain.News{Title: "T", Content: "C", Category: domain.NewsResearch})
	require.NoError(t, err)
	assert.NotEmpty(t, n.Date)
	assert.Len(t, dir.News(), 1)

	require.NoError(t, cmd.DeleteNews(ctx, n.ID))
	assert.True(t, errors.Is(cmd.DeleteNews(ctx, n.ID), domain.ErrNotFound))
}

func TestDeleteInstitution(t *testing.T) {
	dir := seeded()
	cmd := app.NewCommandService(dir, &fakeCache{}, app.RatingAccept)
	ctx := context.Background()

	require.NoError(t, cmd.DeleteInstitution(ctx, "A"))
	assert.True(t, errors.Is(cmd.DeleteInstitution(ctx, "A"), domain.ErrNotFound))
	assert.Len(t, dir.Reviews(), 3, "reviews are orphaned, not deleted")
}
