package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meddir/internal/domain"
)

func TestEmbeddedFixtures(t *testing.T) {
	fx, err := Embedded().Load(context.Background())
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(fx.Institutions), 7)
	assert.NotEmpty(t, fx.Reviews)
	assert.NotEmpty(t, fx.News)

	ids := map[string]bool{}
	for _, in := range fx.Institutions {
		assert.False(t, ids[in.ID], "duplicate id %s", in.ID)
		ids[in.ID] = true
		assert.True(t, in.Type.Valid(), "%s: type %q", in.ID, in.Type)
		assert.Len(t, in.Schedule, 7, "%s: schedule", in.ID)
		assert.NotEmpty(t, in.Location.District)
	}
	for _, r := range fx.Reviews {
		assert.True(t, ids[r.InstitutionID], "review %s points at %s", r.ID, r.InstitutionID)
		assert.GreaterOrEqual(t, r.Rating, 1)
		assert.LessOrEqual(t, r.Rating, 5)
	}
	for _, n := range fx.News {
		assert.True(t, n.Category.Valid(), "news %s: %q", n.ID, n.Category)
	}
}

func TestEmbeddedScheduleShape(t *testing.T) {
	fx, err := Embedded().Load(context.Background())
	require.NoError(t, err)

	var hospital domain.Institution
	for _, in := range fx.Institutions {
		if in.ID == "1" {
			hospital = in
		}
	}
	assert.Equal(t, domain.DaySchedule{Open: "00:00", Close: "23:59", IsWorking: true}, hospital.Schedule["sunday"])
	require.NotEmpty(t, hospital.Doctors)
	assert.False(t, hospital.Doctors[0].Schedule["saturday"].IsWorking)
}

func TestUnknownFieldRejected(t *testing.T) {
	_, err := FromBytes([]byte("institutions:\n  - id: x\n    colour: red\n")).Load(context.Background())
	assert.Error(t, err)
}
