package waitlist

import (
	"time"

	"github.com/google/uuid"
)

// Entry is a member's position in a machine's wait queue. seq is a
// monotonic counter assigned by the store at join time; it totally orders
// entries even when wall clocks collide.
type Entry struct {
	id        uuid.UUID
	memberID  uuid.UUID
	machineID uuid.UUID
	joinedAt  time.Time
	seq       int64
}

func NewEntry(memberID, machineID uuid.UUID, joinedAt time.Time, seq int64) *Entry {
	return &Entry{
		id:        uuid.New(),
		memberID:  memberID,
		machineID: machineID,
		joinedAt:  joinedAt,
		seq:       seq,
	}
}

func ReconstructEntry(id, memberID, machineID uuid.UUID, joinedAt time.Time, seq int64) *Entry {
	return &Entry{
		id:        id,
		memberID:  memberID,
		machineID: machineID,
		joinedAt:  joinedAt,
		seq:       seq,
	}
}

// Before defines the promotion order: earlier join wins, seq breaks
// wall-clock ties.
func (e *Entry) Before(other *Entry) bool {
	if e.joinedAt.Equal(other.joinedAt) {
		return e.seq < other.seq
	}
	return e.joinedAt.Before(other.joinedAt)
}

func (e *Entry) ID() uuid.UUID        { return e.id }
func (e *Entry) MemberID() uuid.UUID  { return e.memberID }
func (e *Entry) MachineID() uuid.UUID { return e.machineID }
func (e *Entry) JoinedAt() time.Time  { return e.joinedAt }
func (e *Entry) Seq() int64           { return e.seq }
