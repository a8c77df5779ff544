package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"leavedocs/internal/model"
	"leavedocs/internal/repository"
	"leavedocs/internal/storage"
	"leavedocs/internal/upload"
)

var tracer = otel.Tracer("leavedocs/internal/service")

// DocumentService defines the use cases for leave request documents.
type DocumentService interface {
	// Upload validates file against the document profile, checks that the leave
	// request exists, stores the binary and persists the record, in that order.
	Upload(ctx context.Context, file upload.File, leaveRequestID, uploaderID string) (*model.Document, error)

	// Get returns a single document with its leave request.
	Get(ctx context.Context, id string) (*model.Document, error)

	// ListByLeaveRequest returns the documents of a leave request, newest first.
	ListByLeaveRequest(ctx context.Context, leaveRequestID string) ([]model.Document, error)

	// Delete removes a document when requesterID uploaded it or owns its leave request.
	Delete(ctx context.Context, id, requesterID string) error

	// ThumbnailURL returns a derived delivery URL for a document.
	ThumbnailURL(ctx context.Context, id string, overrides ...storage.Transformation) (string, error)

	// UploadSignature authorizes a direct client upload into folder.
	UploadSignature(ctx context.Context, folder string) (storage.Signature, error)
}

// Config tunes the document workflow.
type Config struct {
	// MediaFolder is the root folder every destination lives under.
	MediaFolder string
	// CleanupOnPersistFailure removes the stored binary when the record cannot be saved.
	// When false the binary is left orphaned and logged.
	CleanupOnPersistFailure bool
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	store         storage.MediaStore
	repo          repository.DocumentRepository
	leaveRequests repository.LeaveRequestRepository
	cfg           Config
	log           *slog.Logger
	now           func() time.Time
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(
	store storage.MediaStore,
	repo repository.DocumentRepository,
	leaveRequests repository.LeaveRequestRepository,
	cfg Config,
	log *slog.Logger,
) DocumentService {
	cfg.MediaFolder = strings.Trim(cfg.MediaFolder, "/")
	return &documentService{
		store:         store,
		repo:          repo,
		leaveRequests: leaveRequests,
		cfg:           cfg,
		log:           log.With("component", "document_service"),
		now:           time.Now,
	}
}

func (s *documentService) Upload(ctx context.Context, file upload.File, leaveRequestID, uploaderID string) (doc *model.Document, err error) {
	ctx, span := tracer.Start(ctx, "DocumentService.Upload",
		trace.WithAttributes(attribute.String("leave_request.id", leaveRequestID)))
	defer func() { endSpan(span, err) }()

	if leaveRequestID == "" || uploaderID == "" {
		return nil, fmt.Errorf("%w: leave request id and uploader id are required", ErrInvalidInput)
	}
	accepted, err := upload.Document.Accept(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	file = accepted[0]

	exists, err := s.leaveRequests.Exists(ctx, leaveRequestID)
	if err != nil {
		return nil, fmt.Errorf("check leave request: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("leave request %s: %w", leaveRequestID, ErrNotFound)
	}
	span.AddEvent("leave_request_validated")

	media, err := s.store.Upload(ctx, file.Data, file.MIMEType, storage.Documents(s.cfg.MediaFolder))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	span.AddEvent("media_stored", trace.WithAttributes(attribute.String("media.id", media.ExternalID)))

	stored, err := s.repo.Create(ctx, &model.Document{
		ID:               uuid.New().String(),
		LeaveRequestID:   leaveRequestID,
		ExternalMediaID:  media.ExternalID,
		ExternalMediaURL: media.URL,
		UploadedByID:     uploaderID,
		CreatedAt:        s.now().UTC(),
	})
	if err != nil {
		s.handleOrphan(ctx, media, err)
		return nil, fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}
	span.AddEvent("record_persisted")
	return stored, nil
}

// handleOrphan deals with a binary whose record could not be saved.
func (s *documentService) handleOrphan(ctx context.Context, media storage.UploadResult, cause error) {
	if !s.cfg.CleanupOnPersistFailure {
		s.log.WarnContext(ctx, "orphaned media after persist failure",
			"media_id", media.ExternalID,
			"error", cause.Error(),
		)
		return
	}
	if _, err := s.store.Delete(ctx, media.ExternalID, media.ResourceKind); err != nil {
		s.log.ErrorContext(ctx, "orphan cleanup failed",
			"media_id", media.ExternalID,
			"error", err.Error(),
			"cause", cause.Error(),
		)
	}
}

// Get returns a document by ID.
func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("document %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return doc, nil
}

// ListByLeaveRequest returns documents newest first. No documents is not an error.
func (s *documentService) ListByLeaveRequest(ctx context.Context, leaveRequestID string) ([]model.Document, error) {
	if leaveRequestID == "" {
		return nil, fmt.Errorf("%w: leave request id is required", ErrInvalidInput)
	}
	docs, err := s.repo.FindByLeaveRequest(ctx, leaveRequestID)
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []model.Document{}
	}
	return docs, nil
}

// Delete authorizes the requester, removes the remote binary on a best-effort
// basis, then deletes the record.
func (s *documentService) Delete(ctx context.Context, id, requesterID string) (err error) {
	ctx, span := tracer.Start(ctx, "DocumentService.Delete",
		trace.WithAttributes(attribute.String("document.id", id)))
	defer func() { endSpan(span, err) }()

	if id == "" || requesterID == "" {
		return fmt.Errorf("%w: id and requester id are required", ErrInvalidInput)
	}
	owner, err := s.repo.FindOwnership(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("document %s: %w", id, ErrNotFound)
		}
		return err
	}
	if !owner.CanBeDeletedBy(requesterID) {
		return fmt.Errorf("user %s may not delete document %s: %w", requesterID, id, ErrUnauthorized)
	}

	res, err := s.store.Delete(ctx, owner.ExternalMediaID, storage.KindAuto)
	switch {
	case err != nil:
		s.log.WarnContext(ctx, "remote delete failed, removing record anyway",
			"document_id", id,
			"media_id", owner.ExternalMediaID,
			"error", err.Error(),
		)
	case res.Outcome == storage.OutcomeNotFound:
		s.log.InfoContext(ctx, "remote media already gone",
			"document_id", id,
			"media_id", owner.ExternalMediaID,
		)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}
	return nil
}

func (s *documentService) ThumbnailURL(ctx context.Context, id string, overrides ...storage.Transformation) (string, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return s.store.TransformURL(doc.ExternalMediaID, overrides...), nil
}

// UploadSignature signs a direct upload into folder, which must sit inside the
// configured media root. An empty folder means the documents destination.
func (s *documentService) UploadSignature(ctx context.Context, folder string) (storage.Signature, error) {
	folder = strings.Trim(folder, "/")
	if folder == "" {
		folder = storage.Documents(s.cfg.MediaFolder).Folder
	}
	if !s.insideMediaRoot(folder) {
		return storage.Signature{}, fmt.Errorf("%w: folder %q is outside %q", ErrInvalidInput, folder, s.cfg.MediaFolder)
	}
	sig, err := s.store.UploadSignature(ctx, folder)
	if err != nil {
		return storage.Signature{}, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	return sig, nil
}

func (s *documentService) insideMediaRoot(folder string) bool {
	if path.Clean(folder) != folder {
		return false
	}
	root := s.cfg.MediaFolder
	return folder == root || strings.HasPrefix(folder, root+"/")
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, Reason(err))
	}
	span.End()
}
