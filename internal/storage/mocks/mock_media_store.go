package mocks

import (
	"context"

	"leavedocs/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockMediaStore struct {
	mock.Mock
}

func (m *MockMediaStore) Upload(ctx context.Context, data []byte, mimeType string, dest storage.Destination) (storage.UploadResult, error) {
	args := m.Called(ctx, data, mimeType, dest)
	return args.Get(0).(storage.UploadResult), args.Error(1)
}

func (m *MockMediaStore) Delete(ctx context.Context, externalID string, kind storage.ResourceKind) (storage.DeleteResult, error) {
	args := m.Called(ctx, externalID, kind)
	return args.Get(0).(storage.DeleteResult), args.Error(1)
}

func (m *MockMediaStore) TransformURL(externalID string, overrides ...storage.Transformation) string {
	args := m.Called(externalID, overrides)
	return args.String(0)
}

func (m *MockMediaStore) UploadSignature(ctx context.Context, folder string) (storage.Signature, error) {
	args := m.Called(ctx, folder)
	return args.Get(0).(storage.Signature), args.Error(1)
}
