package postgres

import (
	"context"
	"database/sql"

	"leavedocs/internal/model"
	"leavedocs/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO leave_request_documents (id, leave_request_id, external_media_id, external_media_url, uploaded_by_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, leave_request_id, external_media_id, external_media_url, uploaded_by_id, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.LeaveRequestID,
		doc.ExternalMediaID,
		doc.ExternalMediaURL,
		doc.UploadedByID,
		doc.CreatedAt,
	)
	var out model.Document
	if err := row.Scan(
		&out.ID,
		&out.LeaveRequestID,
		&out.ExternalMediaID,
		&out.ExternalMediaURL,
		&out.UploadedByID,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single document joined with its leave request.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `
		SELECT d.id, d.leave_request_id, d.external_media_id, d.external_media_url, d.uploaded_by_id, d.created_at,
		       lr.id, lr.employee_id, lr.leave_type, lr.status, lr.start_date, lr.end_date
		FROM leave_request_documents d
		LEFT JOIN leave_requests lr ON lr.id = d.leave_request_id
		WHERE d.id = $1
	`
	var (
		d          model.Document
		lrID       sql.NullString
		employeeID sql.NullString
		leaveType  sql.NullString
		status     sql.NullString
		startDate  sql.NullTime
		endDate    sql.NullTime
	)
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&d.ID,
		&d.LeaveRequestID,
		&d.ExternalMediaID,
		&d.ExternalMediaURL,
		&d.UploadedByID,
		&d.CreatedAt,
		&lrID,
		&employeeID,
		&leaveType,
		&status,
		&startDate,
		&endDate,
	); err != nil {
		return nil, err
	}
	if lrID.Valid {
		d.LeaveRequest = &model.LeaveRequestRef{
			ID:         lrID.String,
			EmployeeID: employeeID.String,
			LeaveType:  leaveType.String,
			Status:     status.String,
			StartDate:  startDate.Time,
			EndDate:    endDate.Time,
		}
	}
	return &d, nil
}

// FindByLeaveRequest lists the documents of one leave request, newest first.
func (r *DocumentPostgres) FindByLeaveRequest(ctx context.Context, leaveRequestID string) ([]model.Document, error) {
	const q = `
		SELECT id, leave_request_id, external_media_id, external_media_url, uploaded_by_id, created_at
		FROM leave_request_documents
		WHERE leave_request_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, leaveRequestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		var d model.Document
		if err := rows.Scan(
			&d.ID,
			&d.LeaveRequestID,
			&d.ExternalMediaID,
			&d.ExternalMediaURL,
			&d.UploadedByID,
			&d.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// FindOwnership walks document -> leave request -> employee -> user.
// The employee user is empty when the chain is broken.
func (r *DocumentPostgres) FindOwnership(ctx context.Context, id string) (*model.DocumentOwnership, error) {
	const q = `
		SELECT d.id, d.external_media_id, d.uploaded_by_id, d.leave_request_id, u.id
		FROM leave_request_documents d
		LEFT JOIN leave_requests lr ON lr.id = d.leave_request_id
		LEFT JOIN employees e ON e.id = lr.employee_id
		LEFT JOIN users u ON u.id = e.user_id
		WHERE d.id = $1
	`
	var (
		o      model.DocumentOwnership
		userID sql.NullString
	)
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&o.DocumentID,
		&o.ExternalMediaID,
		&o.UploadedByID,
		&o.LeaveRequestID,
		&userID,
	); err != nil {
		return nil, err
	}
	o.EmployeeUserID = userID.String
	return &o, nil
}

// Delete removes a document by ID. It does not return an error if the row does not exist.
func (r *DocumentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM leave_request_documents WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
