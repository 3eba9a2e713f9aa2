// Package postgres implements the command and query ports over PostgreSQL.
// The application serializes writers per machine; the exclusion constraint
// in the schema is the last line of defense against double booking.
package postgres

import (
	"context"
	"errors"
	"time"

	"dormwash/internal/domain/reservation"
	"dormwash/internal/domain/waitlist"
	"dormwash/internal/infra"
	"dormwash/internal/pkg/pgconv"
	"dormwash/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// MachineRepository implements commands.MachineRepository.
type MachineRepository struct {
	pool *pgxpool.Pool
}

func NewMachineRepository(pool *pgxpool.Pool) *MachineRepository {
	return &MachineRepository{pool: pool}
}

func (r *MachineRepository) FindByID(ctx context.Context, id uuid.UUID) (*commands.MachineSnapshot, error) {
	var snap commands.MachineSnapshot
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, building, kind FROM machines WHERE id = $1`,
		id,
	).Scan(&snap.ID, &snap.Name, &snap.Building, &snap.Kind)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("machine not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find machine", err)
	}
	return &snap, nil
}

// ReservationRepository implements commands.ReservationRepository.
type ReservationRepository struct {
	pool *pgxpool.Pool
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

func (r *ReservationRepository) Insert(ctx context.Context, res *reservation.Reservation) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO reservations (id, member_id, machine_id, starts_at, ends_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		res.ID(), res.MemberID(), res.MachineID(),
		res.Slot().Start(), res.Slot().End(), res.CreatedAt(),
	)
	if err != nil {
		switch pgErrCode(err) {
		case pgerrcode.ExclusionViolation:
			return infra.WrapRepoErr("overlapping reservation", err, infra.KindConflict)
		case pgerrcode.ForeignKeyViolation:
			return infra.WrapRepoErr("machine not found", err, infra.KindNotFound)
		}
		return infra.WrapRepoErr("failed to insert reservation", err)
	}
	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*commands.ReservationSnapshot, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, member_id, machine_id, starts_at, ends_at, created_at
		 FROM reservations WHERE id = $1`,
		id,
	)
	snap, err := scanReservation(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation", err)
	}
	return snap, nil
}

func (r *ReservationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete reservation", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ReservationRepository) Overlapping(ctx context.Context, machineID uuid.UUID, start, end time.Time) ([]commands.ReservationSnapshot, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, member_id, machine_id, starts_at, ends_at, created_at
		 FROM reservations
		 WHERE machine_id = $1 AND starts_at < $3 AND ends_at > $2
		 ORDER BY starts_at`,
		machineID, start, end,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query overlapping reservations", err)
	}
	defer rows.Close()

	var snaps []commands.ReservationSnapshot
	for rows.Next() {
		snap, err := scanReservation(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation", err)
		}
		snaps = append(snaps, *snap)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate reservations", err)
	}
	return snaps, nil
}

func (r *ReservationRepository) OccupiedAt(ctx context.Context, machineID uuid.UUID, t time.Time) (bool, error) {
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

func (r *ReservationRepository) DeleteExpired(ctx context.Context, machineID uuid.UUID, now time.Time) ([]commands.ReservationSnapshot, error) {
	rows, err := r.pool.Query(ctx,
		`DELETE FROM reservations
		 WHERE machine_id = $1 AND ends_at <= $2
		 RETURNING id, member_id, machine_id, starts_at, ends_at, created_at`,
		machineID, now,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to delete expired reservations", err)
	}
	defer rows.Close()

	var snaps []commands.ReservationSnapshot
	for rows.Next() {
		snap, err := scanReservation(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan expired reservation", err)
		}
		snaps = append(snaps, *snap)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate expired reservations", err)
	}
	return snaps, nil
}

func (r *ReservationRepository) MachinesWithExpired(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT machine_id FROM reservations WHERE ends_at <= $1`,
		now,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query expired machines", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan machine id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate machine ids", err)
	}
	return ids, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner) (*commands.ReservationSnapshot, error) {
	var snap commands.ReservationSnapshot
	if err := row.Scan(&snap.ID, &snap.MemberID, &snap.MachineID, &snap.Start, &snap.End, &snap.CreatedAt); err != nil {
		return nil, err
	}
	return &snap, nil
}

// WaitlistRepository implements commands.WaitlistRepository.
type WaitlistRepository struct {
	pool *pgxpool.Pool
}

func NewWaitlistRepository(pool *pgxpool.Pool) *WaitlistRepository {
	return &WaitlistRepository{pool: pool}
}

func (r *WaitlistRepository) Insert(ctx context.Context, entry *waitlist.Entry) (*waitlist.Entry, error) {
	var seq int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO wait_entries (id, member_id, machine_id, joined_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING seq`,
		entry.ID(), entry.MemberID(), entry.MachineID(), entry.JoinedAt(),
	).Scan(&seq)
	if err != nil {
		if pgErrCode(err) == pgerrcode.UniqueViolation {
			return nil, infra.WrapRepoErr("member already waiting", err, infra.KindDuplicateKey)
		}
		return nil, infra.WrapRepoErr("failed to insert wait entry", err)
	}
	return waitlist.ReconstructEntry(entry.ID(), entry.MemberID(), entry.MachineID(), entry.JoinedAt(), seq), nil
}

func (r *WaitlistRepository) FindByMemberAndMachine(ctx context.Context, memberID, machineID uuid.UUID) (*waitlist.Entry, error) {
	entry, err := r.scanEntry(r.pool.QueryRow(ctx,
		`SELECT id, member_id, machine_id, joined_at, seq
		 FROM wait_entries WHERE member_id = $1 AND machine_id = $2`,
		memberID, machineID,
	))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("wait entry not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find wait entry", err)
	}
	return entry, nil
}

func (r *WaitlistRepository) Delete(ctx context.Context, memberID, machineID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM wait_entries WHERE member_id = $1 AND machine_id = $2`,
		memberID, machineID,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to delete wait entry", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("wait entry not found", nil, infra.KindNotFound)
	}
	return nil
}

// PopFront relies on SKIP LOCKED so two concurrent promotions can never
// dequeue the same entry: the second either sees the next row or none.
func (r *WaitlistRepository) PopFront(ctx context.Context, machineID uuid.UUID) (*waitlist.Entry, error) {
	entry, err := r.scanEntry(r.pool.QueryRow(ctx,
		`DELETE FROM wait_entries
		 WHERE id = (
		     SELECT id FROM wait_entries
		     WHERE machine_id = $1
		     ORDER BY joined_at, seq
		     LIMIT 1
		     FOR UPDATE SKIP LOCKED
		 )
		 RETURNING id, member_id, machine_id, joined_at, seq`,
		machineID,
	))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to pop wait entry", err)
	}
	return entry, nil
}

func (r *WaitlistRepository) scanEntry(row rowScanner) (*waitlist.Entry, error) {
	var (
		id, memberID, machineID uuid.UUID
		joinedAt                time.Time
		seq                     int64
	)
	if err := row.Scan(&id, &memberID, &machineID, &joinedAt, &seq); err != nil {
		return nil, err
	}
	return waitlist.ReconstructEntry(id, memberID, machineID, joinedAt, seq), nil
}
