// Package notify holds the in-process reminder scheduler. It implements the
// commands.ReminderScheduler port: events fire at or after their instant,
// at least once, with advisory cancellation.
package notify

import (
	"container/heap"
	"context"
	"log/slog"
	"sync"
	"time"

	"dormwash/internal/pkg/clock"
	"dormwash/internal/usecase/commands"

	"github.com/google/uuid"
)

const (
	maxAttempts = 3
	retryDelay  = 5 * time.Second
)

// idleWait bounds the worker's sleep when the queue is empty so a mock
// clock jump is noticed without an explicit wake.
const idleWait = time.Second

type item struct {
	ev       commands.ScheduledEvent
	attempts int
	order    int64 // insertion sequence, stabilizes equal FireAt
}

type eventHeap []*item

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	if h[i].ev.FireAt.Equal(h[j].ev.FireAt) {
		return h[i].order < h[j].order
	}
	return h[i].ev.FireAt.Before(h[j].ev.FireAt)
}
func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) { *h = append(*h, x.(*item)) }
func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return it
}

type Scheduler struct {
	mu      sync.Mutex
	pending eventHeap
	order   int64

	sender Sender
	clock  clock.Clock
	logger *slog.Logger

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

func NewScheduler(sender Sender, clk clock.Clock, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		sender: sender,
		clock:  clk,
		logger: logger,
		wake:   make(chan struct{}, 1),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Schedule enqueues the event and returns immediately; it never blocks the
// reservation path.
func (s *Scheduler) Schedule(_ context.Context, ev commands.ScheduledEvent) error {
	s.mu.Lock()
	s.order++
	heap.Push(&s.pending, &item{ev: ev, order: s.order})
	s.mu.Unlock()

	s.kick()
	return nil
}

// CancelForReservation drops the reservation's not-yet-fired events. An
// event already handed to the sender may still go out; consumers tolerate
// a stale reminder.
func (s *Scheduler) CancelForReservation(_ context.Context, reservationID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.pending[:0]
	for _, it := range s.pending {
		if it.ev.ReservationID == reservationID {
			continue
		}
		kept = append(kept, it)
	}
	for i := len(kept); i < len(s.pending); i++ {
		s.pending[i] = nil
	}
	s.pending = kept
	heap.Init(&s.pending)
	return nil
}

func (s *Scheduler) Start() {
	go s.run()
}

func (s *Scheduler) Stop() {
	close(s.stop)
	<-s.done
}

func (s *Scheduler) run() {
	defer close(s.done)

	timer := time.NewTimer(idleWait)
	defer timer.Stop()

	for {
		s.fireDue()

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(s.nextWait())

		select {
		case <-s.stop:
			return
		case <-s.wake:
		case <-timer.C:
		}
	}
}

func (s *Scheduler) nextWait() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pending) == 0 {
		return idleWait
	}
	d := s.pending[0].ev.FireAt.Sub(s.clock.Now())
	if d <= 0 {
		return time.Millisecond
	}
	if d > idleWait {
		return idleWait
	}
	return d
}

// fireDue delivers every event whose instant has arrived. Failed sends are
// re-queued with a delay until maxAttempts, keeping delivery at-least-once
// for transient sender outages.
func (s *Scheduler) fireDue() {
	now := s.clock.Now()
	for {
		it := s.takeDue(now)
		if it == nil {
			return
		}

		if err := s.sender.Send(context.Background(), it.ev); err != nil {
			it.attempts++
			if it.attempts >= maxAttempts {
				s.logger.Error("reminder dropped after retries",
					"reservation_id", it.ev.ReservationID,
					"label", it.ev.Label,
					"error", err,
				)
				continue
			}
			s.logger.Warn("reminder delivery failed, retrying",
				"reservation_id", it.ev.ReservationID,
				"label", it.ev.Label,
				"attempt", it.attempts,
				"error", err,
			)
			it.ev.FireAt = now.Add(retryDelay)
			s.mu.Lock()
			heap.Push(&s.pending, it)
			s.mu.Unlock()
		}
	}
}

func (s *Scheduler) takeDue(now time.Time) *item {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pending) == 0 || s.pending[0].ev.FireAt.After(now) {
		return nil
	}
	return heap.Pop(&s.pending).(*item)
}

func (s *Scheduler) kick() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}
