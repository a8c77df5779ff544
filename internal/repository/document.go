package repository

import (
	"context"

	"leavedocs/internal/model"
)

// DocumentRepository defines data access for leave request documents using SQL queries only.
// Persistence only. Missing rows surface as sql.ErrNoRows.
type DocumentRepository interface {
	// Create inserts a new document record and returns the stored row.
	// The caller provides ID and CreatedAt.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID with its leave request resolved.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// FindByLeaveRequest returns every document of a leave request, newest first.
	FindByLeaveRequest(ctx context.Context, leaveRequestID string) ([]model.Document, error)

	// FindOwnership resolves the document -> leave request -> employee -> user chain
	// in one read-only query.
	FindOwnership(ctx context.Context, id string) (*model.DocumentOwnership, error)

	// Delete removes a document by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error
}

// LeaveRequestRepository exposes the leave request lookups the document workflow needs.
type LeaveRequestRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
}
