//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"dormwash/internal/domain/reservation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func slot(t *testing.T, startOffset, endOffset time.Duration) reservation.TimeSlot {
	t.Helper()
	s, err := reservation.NewTimeSlot(base.Add(startOffset), base.Add(endOffset))
	require.NoError(t, err)
	return s
}

func TestNewTimeSlot(t *testing.T) {
	t.Run("valid window", func(t *testing.T) {
		s, err := reservation.NewTimeSlot(base, base.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, base, s.Start())
		assert.Equal(t, base.Add(time.Hour), s.End())
		assert.Equal(t, time.Hour, s.Duration())
	})

	t.Run("zero-length window rejected", func(t *testing.T) {
		_, err := reservation.NewTimeSlot(base, base)
		assert.ErrorIs(t, err, reservation.ErrInvalidTimeSlot)
	})

	t.Run("inverted window rejected", func(t *testing.T) {
		_, err := reservation.NewTimeSlot(base.Add(time.Hour), base)
		assert.ErrorIs(t, err, reservation.ErrInvalidTimeSlot)
	})
}

func TestTimeSlotOverlaps(t *testing.T) {
	cases := []struct {
		name     string
		a, b     reservation.TimeSlot
		overlaps bool
	}{
		{
			name:     "identical windows",
			a:        slot(t, 0, time.Hour),
			b:        slot(t, 0, time.Hour),
			overlaps: true,
		},
		{
			name:     "partial overlap",
			a:        slot(t, 0, time.Hour),
			b:        slot(t, 30*time.Minute, 90*time.Minute),
			overlaps: true,
		},
		{
			name:     "containment",
			a:        slot(t, 0, 2*time.Hour),
			b:        slot(t, 30*time.Minute, time.Hour),
			overlaps: true,
		},
		{
			name:     "back-to-back slots share an instant",
			a:        slot(t, 0, time.Hour),
			b:        slot(t, time.Hour, 2*time.Hour),
			overlaps: false,
		},
		{
			name:     "disjoint windows",
			a:        slot(t, 0, time.Hour),
			b:        slot(t, 2*time.Hour, 3*time.Hour),
			overlaps: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.overlaps, tc.a.Overlaps(tc.b))
			assert.Equal(t, tc.overlaps, tc.b.Overlaps(tc.a), "overlap must be symmetric")
		})
	}
}

func TestTimeSlotContains(t *testing.T) {
	s := slot(t, 0, time.Hour)

	assert.True(t, s.Contains(base), "start instant is inside")
	assert.True(t, s.Contains(base.Add(30*time.Minute)))
	assert.False(t, s.Contains(s.End()), "end instant is outside the half-open window")
	assert.False(t, s.Contains(base.Add(-time.Minute)))
}

func TestReservationHasExpired(t *testing.T) {
	s := slot(t, 0, time.Hour)
	res := reservation.NewReservation(mustUUID(t), mustUUID(t), s, base)

	assert.False(t, res.HasExpired(base))
	assert.False(t, res.HasExpired(s.End().Add(-time.Second)))
	assert.True(t, res.HasExpired(s.End()), "end instant counts as expired")
	assert.True(t, res.HasExpired(s.End().Add(time.Minute)))
}

func TestReservationIsActiveAt(t *testing.T) {
	s := slot(t, 0, time.Hour)
	res := reservation.NewReservation(mustUUID(t), mustUUID(t), s, base)

	assert.True(t, res.IsActiveAt(base))
	assert.False(t, res.IsActiveAt(s.End()))
	assert.False(t, res.IsActiveAt(base.Add(-time.Nanosecond)))
}
