package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/attendance-service/internal/domain"
)

// AttendanceRepository defines persistence access for attendance state.
// SaveState commits the status row and any appended log entries in a
// single transaction so no caller can observe a partial write.
type AttendanceRepository interface {
	GetState(ctx context.Context, userID string) (*domain.AttendanceState, error)
	SaveState(ctx context.Context, userID string, status domain.AttendanceStatus, newEntries []domain.AttendanceEntry) error
	ListEntries(ctx context.Context, userID string) ([]domain.AttendanceEntry, error)
}

type attendanceRepository struct {
	pool *pgxpool.Pool
}

// NewAttendanceRepository returns a Postgres-backed implementation.
func NewAttendanceRepository(pool *pgxpool.Pool) AttendanceRepository {
	return &attendanceRepository{pool: pool}
}

func (r *attendanceRepository) GetState(ctx context.Context, userID string) (*domain.AttendanceState, error) {
	state := &domain.AttendanceState{Status: domain.AttendanceUnregistered}

	const statusQuery = `
        SELECT status FROM attendance_status WHERE user_id=$1`
	if err := r.pool.QueryRow(ctx, statusQuery, userID).Scan(&state.Status); err != nil && err != pgx.ErrNoRows {
		return nil, err
	}

	entries, err := r.ListEntries(ctx, userID)
	if err != nil {
		return nil, err
	}
	state.Entries = entries
	return state, nil
}

func (r *attendanceRepository) SaveState(ctx context.Context, userID string, status domain.AttendanceStatus, newEntries []domain.AttendanceEntry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const upsert = `
        INSERT INTO attendance_status (user_id, status, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (user_id) DO UPDATE SET status=EXCLUDED.status, updated_at=NOW()`
	if _, err := tx.Exec(ctx, upsert, userID, status); err != nil {
		return err
	}

	const insert = `
        INSERT INTO attendance_entries (user_id, kind, recorded_at)
        VALUES ($1, $2, $3)`
	for _, entry := range newEntries {
		if _, err := tx.Exec(ctx, insert, userID, entry.Kind, entry.RecordedAt); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *attendanceRepository) ListEntries(ctx context.Context, userID string) ([]domain.AttendanceEntry, error) {
	const query = `
        SELECT id, user_id, kind, recorded_at, created_at
        FROM attendance_entries WHERE user_id=$1
        ORDER BY recorded_at ASC, created_at ASC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.AttendanceEntry
	for rows.Next() {
		var entry domain.AttendanceEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Kind,
			&entry.RecordedAt,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
