package doctor

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService() *Service {
	return NewService(NewMemRepository(), zap.NewNop())
}

func TestServiceAdd(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	d, err := svc.Add(ctx, NewDoctor{
		Name:           "John Smith",
		Specialization: "Cardiologist",
		Email:          "john.smith@example.com",
		Phone:          "1234567890",
		Experience:     15,
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, d.ID)
	assert.Equal(t, "JS", d.Avatar)

	listed, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, d.ID, listed[0].ID)
}

func TestServiceUpdate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	d, err := svc.Add(ctx, NewDoctor{
		Name:           "John Smith",
		Specialization: "Cardiologist",
		Email:          "john.smith@example.com",
		Phone:          "1234567890",
		Bio:            "Board-certified cardiologist.",
	})
	require.NoError(t, err)

	t.Run("Merge Preserves Absent Fields", func(t *testing.T) {
		specialization := "Interventional Cardiologist"
		updated, err := svc.Update(ctx, d.ID, Update{Specialization: &specialization})
		require.NoError(t, err)

		assert.Equal(t, specialization, updated.Specialization)
		assert.Equal(t, "John Smith", updated.Name)
		assert.Equal(t, "Board-certified cardiologist.", updated.Bio)
	})

	t.Run("Name Change Refreshes Avatar", func(t *testing.T) {
		name := "Jane Anne Doe"
		updated, err := svc.Update(ctx, d.ID, Update{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "JAD", updated.Avatar)
	})

	t.Run("Idempotent", func(t *testing.T) {
		phone := "9998887776"
		first, err := svc.Update(ctx, d.ID, Update{Phone: &phone})
		require.NoError(t, err)
		second, err := svc.Update(ctx, d.ID, Update{Phone: &phone})
		require.NoError(t, err)

		assert.Equal(t, first.Phone, second.Phone)
		assert.Equal(t, first.Name, second.Name)
		assert.Equal(t, first.Specialization, second.Specialization)
	})

	t.Run("Missing ID Is NotFound", func(t *testing.T) {
		name := "Nobody"
		_, err := svc.Update(ctx, uuid.New(), Update{Name: &name})
		assert.ErrorIs(t, err, ErrDoctorNotFound)
	})

	t.Run("Unavailable Dates Replace On Update", func(t *testing.T) {
		dates := []time.Time{day(2025, 8, 1), day(2025, 8, 2)}
		updated, err := svc.Update(ctx, d.ID, Update{UnavailableDates: dates})
		require.NoError(t, err)
		assert.Len(t, updated.UnavailableDates, 2)
	})
}

func TestServiceDelete(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	d, err := svc.Add(ctx, NewDoctor{Name: "John Smith"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, d.ID))

	_, err = svc.Get(ctx, d.ID)
	assert.ErrorIs(t, err, ErrDoctorNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, d.ID), ErrDoctorNotFound)
}

func TestServiceAvailability(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	monday := day(2025, 7, 14)

	d, err := svc.Add(ctx, NewDoctor{
		Name: "John Smith",
		AvailableTimes: map[Weekday][]string{
			Monday: {"9:00 AM", "9:30 AM"},
		},
		UnavailableDates: []time.Time{day(2025, 7, 21)},
	})
	require.NoError(t, err)

	slots, err := svc.Availability(ctx, d.ID, monday)
	require.NoError(t, err)
	assert.Equal(t, []string{"9:00 AM", "9:30 AM"}, slots)

	_, err = svc.Availability(ctx, d.ID, day(2025, 7, 21))
	assert.ErrorIs(t, err, ErrDoctorUnavailable)
}
