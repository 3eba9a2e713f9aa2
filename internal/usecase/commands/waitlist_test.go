//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"dormwash/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitlistJoin(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects a free machine", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.waitlist.Join(ctx, uuid.New(), f.machineID)
		assert.ErrorIs(t, err, commands.ErrMachineIdle)
	})

	t.Run("rejects an unknown machine", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.waitlist.Join(ctx, uuid.New(), uuid.New())
		assert.ErrorIs(t, err, commands.ErrMachineNotFound)
	})

	t.Run("queues behind an active reservation", func(t *testing.T) {
		f := newFixture(t)
		occupy(t, f, uuid.New(), time.Hour)

		member := uuid.New()
		result, err := f.waitlist.Join(ctx, member, f.machineID)
		require.NoError(t, err)
		assert.False(t, result.AlreadyWaiting)
		assert.Equal(t, member, result.Entry.MemberID)
		assert.Equal(t, f.machineID, result.Entry.MachineID)
	})

	t.Run("rejoin returns the existing entry", func(t *testing.T) {
		f := newFixture(t)
		occupy(t, f, uuid.New(), time.Hour)

		member := uuid.New()
		first, err := f.waitlist.Join(ctx, member, f.machineID)
		require.NoError(t, err)

		again, err := f.waitlist.Join(ctx, member, f.machineID)
		require.NoError(t, err)
		assert.True(t, again.AlreadyWaiting)
		assert.Equal(t, first.Entry.ID, again.Entry.ID, "same queue position, not a new one")
		assert.Equal(t, 1, queueLength(t, f))
	})

	t.Run("a future reservation does not make the machine busy now", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.ledger.Create(ctx, uuid.New(), f.machineID, testTime.Add(2*time.Hour), testTime.Add(3*time.Hour))
		require.NoError(t, err)

		_, err = f.waitlist.Join(ctx, uuid.New(), f.machineID)
		assert.ErrorIs(t, err, commands.ErrMachineIdle)
	})
}

func TestWaitlistLeave(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the entry", func(t *testing.T) {
		f := newFixture(t)
		occupy(t, f, uuid.New(), time.Hour)

		member := uuid.New()
		_, err := f.waitlist.Join(ctx, member, f.machineID)
		require.NoError(t, err)

		require.NoError(t, f.waitlist.Leave(ctx, member, f.machineID))
		assert.Equal(t, 0, queueLength(t, f))
	})

	t.Run("second leave reports not found", func(t *testing.T) {
		f := newFixture(t)
		occupy(t, f, uuid.New(), time.Hour)

		member := uuid.New()
		_, err := f.waitlist.Join(ctx, member, f.machineID)
		require.NoError(t, err)

		require.NoError(t, f.waitlist.Leave(ctx, member, f.machineID))
		assert.ErrorIs(t, f.waitlist.Leave(ctx, member, f.machineID), commands.ErrWaitEntryNotFound)
	})

	t.Run("leaving an empty queue reports not found", func(t *testing.T) {
		f := newFixture(t)
		assert.ErrorIs(t, f.waitlist.Leave(ctx, uuid.New(), f.machineID), commands.ErrWaitEntryNotFound)
	})
}
