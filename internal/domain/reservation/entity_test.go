//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"dormwash/internal/domain/reservation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustUUID(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.New()
}

func TestNewReservation(t *testing.T) {
	memberID := mustUUID(t)
	machineID := mustUUID(t)
	s := slot(t, 0, time.Hour)

	res := reservation.NewReservation(memberID, machineID, s, base)

	assert.NotEqual(t, uuid.Nil, res.ID())
	assert.Equal(t, memberID, res.MemberID())
	assert.Equal(t, machineID, res.MachineID())
	assert.Equal(t, s, res.Slot())
	assert.Equal(t, base, res.CreatedAt())
}

func TestReconstructReservation(t *testing.T) {
	id := mustUUID(t)
	s := slot(t, 0, time.Hour)

	res := reservation.ReconstructReservation(id, mustUUID(t), mustUUID(t), s, base)

	require.Equal(t, id, res.ID(), "reconstruct must keep the stored identity")
	assert.Equal(t, s, res.Slot())
}
