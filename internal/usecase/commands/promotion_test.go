//go:build unit

package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"dormwash/internal/infra/memstore"
	"dormwash/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// occupy books the machine from now for d and returns the reservation.
func occupy(t *testing.T, f *fixture, member uuid.UUID, d time.Duration) *commands.ReservationSnapshot {
	t.Helper()
	snap, err := f.ledger.Create(context.Background(), member, f.machineID, f.clock.Now(), f.clock.Now().Add(d))
	require.NoError(t, err)
	return snap
}

func join(t *testing.T, f *fixture, member uuid.UUID) {
	t.Helper()
	result, err := f.waitlist.Join(context.Background(), member, f.machineID)
	require.NoError(t, err)
	require.False(t, result.AlreadyWaiting)
}

func memberReservations(t *testing.T, f *fixture, member uuid.UUID) []commands.ReservationSnapshot {
	t.Helper()
	reads := memstore.NewReservationReadStore(f.store)
	views, err := reads.ListByMember(context.Background(), member)
	require.NoError(t, err)

	snaps := make([]commands.ReservationSnapshot, len(views))
	for i, v := range views {
		snaps[i] = commands.ReservationSnapshot{
			ID: v.ID, MemberID: v.MemberID, MachineID: v.MachineID,
			Start: v.Start, End: v.End, CreatedAt: v.CreatedAt,
		}
	}
	return snaps
}

func queueLength(t *testing.T, f *fixture) int {
	t.Helper()
	views, err := memstore.NewWaitlistReadStore(f.store).ListByMachine(context.Background(), f.machineID)
	require.NoError(t, err)
	return len(views)
}

func TestPromotionOnCancel(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	owner := uuid.New()
	waiter := uuid.New()

	snap := occupy(t, f, owner, time.Hour)
	join(t, f, waiter)

	require.NoError(t, f.ledger.Cancel(ctx, snap.ID, owner))

	promoted := memberReservations(t, f, waiter)
	require.Len(t, promoted, 1, "head of the queue gets the freed machine")
	assert.Equal(t, f.clock.Now(), promoted[0].Start)
	assert.Equal(t, f.clock.Now().Add(time.Hour), promoted[0].End, "promotion window is the configured duration")
	assert.Equal(t, 0, queueLength(t, f))
}

func TestPromotionFIFOOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	owner := uuid.New()
	first := uuid.New()
	second := uuid.New()
	third := uuid.New()

	snap := occupy(t, f, owner, time.Hour)
	join(t, f, first)
	join(t, f, second)
	join(t, f, third)

	require.NoError(t, f.ledger.Cancel(ctx, snap.ID, owner))
	require.Len(t, memberReservations(t, f, first), 1)
	assert.Empty(t, memberReservations(t, f, second))
	assert.Equal(t, 2, queueLength(t, f))

	// Free the machine again: the promoted reservation is canceled, so the
	// next in line moves up.
	firstRes := memberReservations(t, f, first)[0]
	require.NoError(t, f.ledger.Cancel(ctx, firstRes.ID, first))
	require.Len(t, memberReservations(t, f, second), 1)
	assert.Empty(t, memberReservations(t, f, third))
	assert.Equal(t, 1, queueLength(t, f))
}

func TestPromotionOnExpire(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	waiter := uuid.New()
	occupy(t, f, uuid.New(), time.Hour)
	join(t, f, waiter)

	f.clock.Add(time.Hour)
	require.NoError(t, f.ledger.Expire(ctx, f.machineID))

	promoted := memberReservations(t, f, waiter)
	require.Len(t, promoted, 1)
	assert.Equal(t, f.clock.Now(), promoted[0].Start)
}

func TestPromotionBlockedByFutureReservation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	owner := uuid.New()
	waiter := uuid.New()

	snap := occupy(t, f, owner, time.Hour)

	// A second booking begins inside the would-be promotion window.
	_, err := f.ledger.Create(ctx, uuid.New(), f.machineID, f.clock.Now().Add(90*time.Minute), f.clock.Now().Add(2*time.Hour))
	require.NoError(t, err)

	join(t, f, waiter)

	// Free the machine 50 minutes in: the promotion window would run to
	// +110m and collide with the booking starting at +90m.
	f.clock.Add(50 * time.Minute)
	require.NoError(t, f.ledger.Cancel(ctx, snap.ID, owner))

	assert.Empty(t, memberReservations(t, f, waiter), "conflicting promotion is not booked")
	assert.Equal(t, 0, queueLength(t, f), "the popped entry is not re-enqueued")
}

func TestPromotionExactlyOnceUnderConcurrentFrees(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	owner := uuid.New()
	first := uuid.New()
	second := uuid.New()

	snap := occupy(t, f, owner, time.Hour)
	join(t, f, first)
	join(t, f, second)

	const cancelers = 8
	var wg sync.WaitGroup
	for i := 0; i < cancelers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// All but one lose the race and see not-found.
			_ = f.ledger.Cancel(ctx, snap.ID, owner)
		}()
	}
	wg.Wait()

	assert.Len(t, memberReservations(t, f, first), 1, "one freeing event promotes one member")
	assert.Empty(t, memberReservations(t, f, second))
	assert.Equal(t, 1, queueLength(t, f))
}
