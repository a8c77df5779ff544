package postgres

import (
	"context"
	"database/sql"

	"leavedocs/internal/repository"
)

// LeaveRequestPostgres reads leave requests owned by the wider leave-management schema.
type LeaveRequestPostgres struct {
	db *sql.DB
}

func NewLeaveRequestPostgres(db *sql.DB) *LeaveRequestPostgres {
	return &LeaveRequestPostgres{db: db}
}

var _ repository.LeaveRequestRepository = (*LeaveRequestPostgres)(nil)

// Exists reports whether a leave request with the given ID is stored.
func (r *LeaveRequestPostgres) Exists(ctx context.Context, id string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM leave_requests WHERE id = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
