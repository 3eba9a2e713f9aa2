package notify

import (
	"context"
	"log/slog"

	"dormwash/internal/usecase/commands"
)

// Sender delivers a fired reminder. The delivery transport (push, email,
// SMS) is deliberately out of this package's hands.
type Sender interface {
	Send(ctx context.Context, ev commands.ScheduledEvent) error
}

// LogSender writes reminders to the structured log. It stands in for a real
// transport in development and keeps the scheduler exercisable in tests.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, ev commands.ScheduledEvent) error {
	s.logger.Info("reservation reminder",
		"reservation_id", ev.ReservationID,
		"member_id", ev.MemberID,
		"machine_id", ev.MachineID,
		"label", ev.Label,
		"fire_at", ev.FireAt,
	)
	return nil
}
