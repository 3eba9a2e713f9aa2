package postgres

import (
	"context"
	"time"

	"dormwash/internal/infra"
	"dormwash/internal/pkg/pgconv"
	"dormwash/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MachineReadStore implements queries.MachineReadStore.
type MachineReadStore struct {
	pool *pgxpool.Pool
}

func NewMachineReadStore(pool *pgxpool.Pool) *MachineReadStore {
	return &MachineReadStore{pool: pool}
}

func (r *MachineReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.MachineView, error) {
	var view queries.MachineView
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, building, kind FROM machines WHERE id = $1`,
		id,
	).Scan(&view.ID, &view.Name, &view.Building, &view.Kind)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("machine not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find machine", err)
	}
	return &view, nil
}

func (r *MachineReadStore) List(ctx context.Context, filter queries.MachineFilter) ([]*queries.MachineView, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, building, kind FROM machines
		 WHERE ($1::text IS NULL OR building = $1)
		   AND ($2::text IS NULL OR kind = $2)
		 ORDER BY building, name`,
		filter.Building, filter.Kind,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list machines", err)
	}
	defer rows.Close()

	views := []*queries.MachineView{}
	for rows.Next() {
		var view queries.MachineView
		if err := rows.Scan(&view.ID, &view.Name, &view.Building, &view.Kind); err != nil {
			return nil, infra.WrapRepoErr("failed to scan machine", err)
		}
		views = append(views, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate machines", err)
	}
	return views, nil
}

// ReservationReadStore implements queries.ReservationReadStore.
type ReservationReadStore struct {
	pool *pgxpool.Pool
}

func NewReservationReadStore(pool *pgxpool.Pool) *ReservationReadStore {
	return &ReservationReadStore{pool: pool}
}

func (r *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	var view queries.ReservationView
	err := r.pool.QueryRow(ctx,
		`SELECT id, member_id, machine_id, starts_at, ends_at, created_at
		 FROM reservations WHERE id = $1`,
		id,
	).Scan(&view.ID, &view.MemberID, &view.MachineID, &view.Start, &view.End, &view.CreatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation", err)
	}
	return &view, nil
}

func (r *ReservationReadStore) ListByMember(ctx context.Context, memberID uuid.UUID) ([]*queries.ReservationView, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, member_id, machine_id, starts_at, ends_at, created_at
		 FROM reservations WHERE member_id = $1 ORDER BY starts_at`,
		memberID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations", err)
	}
	defer rows.Close()

	views := []*queries.ReservationView{}
	for rows.Next() {
		var view queries.ReservationView
		if err := rows.Scan(&view.ID, &view.MemberID, &view.MachineID, &view.Start, &view.End, &view.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation", err)
		}
		views = append(views, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate reservations", err)
	}
	return views, nil
}

func (r *ReservationReadStore) OccupiedAt(ctx context.Context, machineID uuid.UUID, t time.Time) (bool, error) {
	var occupied bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
		     SELECT 1 FROM reservations
		     WHERE machine_id = $1 AND starts_at <= $2 AND ends_at > $2
		 )`,
		machineID, t,
	).Scan(&occupied)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check occupancy", err)
	}
	return occupied, nil
}

// WaitlistReadStore implements queries.WaitlistReadStore.
type WaitlistReadStore struct {
	pool *pgxpool.Pool
}

func NewWaitlistReadStore(pool *pgxpool.Pool) *WaitlistReadStore {
	return &WaitlistReadStore{pool: pool}
}

func (r *WaitlistReadStore) ListByMachine(ctx context.Context, machineID uuid.UUID) ([]*queries.WaitEntryView, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, member_id, machine_id, joined_at,
		        ROW_NUMBER() OVER (ORDER BY joined_at, seq) AS position
		 FROM wait_entries WHERE machine_id = $1
		 ORDER BY joined_at, seq`,
		machineID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list wait entries", err)
	}
	defer rows.Close()

	views := []*queries.WaitEntryView{}
	for rows.Next() {
		var view queries.WaitEntryView
		if err := rows.Scan(&view.ID, &view.MemberID, &view.MachineID, &view.JoinedAt, &view.Position); err != nil {
			return nil, infra.WrapRepoErr("failed to scan wait entry", err)
		}
		views = append(views, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate wait entries", err)
	}
	return views, nil
}
