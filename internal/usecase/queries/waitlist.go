package queries

import (
	"context"

	"github.com/google/uuid"
)

type WaitlistQueries interface {
	PeekAll(ctx context.Context, machineID uuid.UUID) ([]*WaitEntryView, error)
}

type waitlistQueriesImpl struct {
	store WaitlistReadStore
}

func NewWaitlistQueries(store WaitlistReadStore) WaitlistQueries {
	return &waitlistQueriesImpl{store: store}
}

func (q *waitlistQueriesImpl) PeekAll(ctx context.Context, machineID uuid.UUID) ([]*WaitEntryView, error) {
	return q.store.ListByMachine(ctx, machineID)
}
