package mocks

import (
	"context"

	"leavedocs/internal/model"
	"leavedocs/internal/storage"
	"leavedocs/internal/upload"

	"github.com/stretchr/testify/mock"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Upload(ctx context.Context, file upload.File, leaveRequestID, uploaderID string) (*model.Document, error) {
	args := m.Called(ctx, file, leaveRequestID, uploaderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, id string) (*model.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) ListByLeaveRequest(ctx context.Context, leaveRequestID string) ([]model.Document, error) {
	args := m.Called(ctx, leaveRequestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, id, requesterID string) error {
	args := m.Called(ctx, id, requesterID)
	return args.Error(0)
}

func (m *MockDocumentService) ThumbnailURL(ctx context.Context, id string, overrides ...storage.Transformation) (string, error) {
	args := m.Called(ctx, id, overrides)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentService) UploadSignature(ctx context.Context, folder string) (storage.Signature, error) {
	args := m.Called(ctx, folder)
	return args.Get(0).(storage.Signature), args.Error(1)
}
