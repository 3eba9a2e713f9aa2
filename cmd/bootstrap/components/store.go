package components

import (
	"context"
	"log/slog"

	"dormwash/internal/domain/resource"
	"dormwash/internal/infra/db"
	"dormwash/internal/infra/memstore"
	"dormwash/internal/infra/postgres"
	"dormwash/internal/pkg/config"
	"dormwash/internal/usecase/commands"
	"dormwash/internal/usecase/queries"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// Stores bundles every persistence port. The binary runs against PostgreSQL
// when a database is configured and against the in-memory store otherwise.
type Stores struct {
	Machines     commands.MachineRepository
	Reservations commands.ReservationRepository
	Waitlist     commands.WaitlistRepository

	MachineReads     queries.MachineReadStore
	ReservationReads queries.ReservationReadStore
	WaitlistReads    queries.WaitlistReadStore
}

var StoreModule = fx.Module("store",
	fx.Provide(
		NewStores,
		func(s *Stores) commands.MachineRepository { return s.Machines },
		func(s *Stores) commands.ReservationRepository { return s.Reservations },
		func(s *Stores) commands.WaitlistRepository { return s.Waitlist },
		func(s *Stores) queries.MachineReadStore { return s.MachineReads },
		func(s *Stores) queries.ReservationReadStore { return s.ReservationReads },
		func(s *Stores) queries.WaitlistReadStore { return s.WaitlistReads },
	),
)

func NewStores(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (*Stores, error) {
	if !cfg.DB.Enabled() {
		logger.Info("no database configured, using in-memory store")
		return newMemStores()
	}

	pool, cleanup, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return postgres.Migrate(ctx, pool)
		},
		OnStop: func(_ context.Context) error {
			cleanup()
			return nil
		},
	})

	return &Stores{
		Machines:         postgres.NewMachineRepository(pool),
		Reservations:     postgres.NewReservationRepository(pool),
		Waitlist:         postgres.NewWaitlistRepository(pool),
		MachineReads:     postgres.NewMachineReadStore(pool),
		ReservationReads: postgres.NewReservationReadStore(pool),
		WaitlistReads:    postgres.NewWaitlistReadStore(pool),
	}, nil
}

func newMemStores() (*Stores, error) {
	store := memstore.New()

	machines, err := seedMachines()
	if err != nil {
		return nil, err
	}
	store.SeedMachines(machines...)

	return &Stores{
		Machines:         memstore.NewMachineRepository(store),
		Reservations:     memstore.NewReservationRepository(store),
		Waitlist:         memstore.NewWaitlistRepository(store),
		MachineReads:     memstore.NewMachineReadStore(store),
		ReservationReads: memstore.NewReservationReadStore(store),
		WaitlistReads:    memstore.NewWaitlistReadStore(store),
	}, nil
}

// seedMachines mirrors the SQL seed migration so both stores expose the same
// machine pool.
func seedMachines() ([]*resource.Machine, error) {
	rows := []struct {
		id       string
		name     string
		building string
		kind     resource.Kind
	}{
		{"0c6f71f1-3a3b-4f39-9d6e-111111111101", "washer-1", "A", resource.KindWasher},
		{"0c6f71f1-3a3b-4f39-9d6e-111111111102", "washer-2", "A", resource.KindWasher},
		{"0c6f71f1-3a3b-4f39-9d6e-111111111103", "dryer-1", "A", resource.KindDryer},
		{"0c6f71f1-3a3b-4f39-9d6e-111111111104", "washer-1", "B", resource.KindWasher},
		{"0c6f71f1-3a3b-4f39-9d6e-111111111105", "washer-2", "B", resource.KindWasher},
		{"0c6f71f1-3a3b-4f39-9d6e-111111111106", "dryer-1", "B", resource.KindDryer},
	}

	machines := make([]*resource.Machine, 0, len(rows))
	for _, row := range rows {
		m, err := resource.NewMachine(uuid.MustParse(row.id), row.name, row.building, row.kind)
		if err != nil {
			return nil, err
		}
		machines = append(machines, m)
	}
	return machines, nil
}
