package mocks

import (
	"context"

	"github.com/lorrc/coordination-backend/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

// MockSnapshotSource is a mock implementation of ports.SnapshotSource
type MockSnapshotSource struct {
	mock.Mock
}

func NewMockSnapshotSource() *MockSnapshotSource {
	return &MockSnapshotSource{}
}

func (m *MockSnapshotSource) Load(ctx context.Context) (*domain.SnapshotData, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SnapshotData), args.Error(1)
}

func (m *MockSnapshotSource) Name() string {
	args := m.Called()
	return args.String(0)
}

// MockDismissalStore is a mock implementation of ports.DismissalStore
type MockDismissalStore struct {
	mock.Mock
}

func NewMockDismissalStore() *MockDismissalStore {
	return &MockDismissalStore{}
}

func (m *MockDismissalStore) Get(ctx context.Context, sessionID string) (domain.DismissedSet, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.DismissedSet), args.Error(1)
}

func (m *MockDismissalStore) Dismiss(ctx context.Context, sessionID string, id domain.CandidateID) (domain.DismissedSet, error) {
	args := m.Called(ctx, sessionID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.DismissedSet), args.Error(1)
}

func (m *MockDismissalStore) Restore(ctx context.Context, sessionID string, id domain.CandidateID) (domain.DismissedSet, error) {
	args := m.Called(ctx, sessionID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.DismissedSet), args.Error(1)
}

func (m *MockDismissalStore) Replace(ctx context.Context, sessionID string, set domain.DismissedSet) (domain.DismissedSet, error) {
	args := m.Called(ctx, sessionID, set)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.DismissedSet), args.Error(1)
}

// MockEventBroadcaster is a mock implementation of ports.EventBroadcaster
type MockEventBroadcaster struct {
	mock.Mock
}

func NewMockEventBroadcaster() *MockEventBroadcaster {
	return &MockEventBroadcaster{}
}

func (m *MockEventBroadcaster) Broadcast(event domain.Event) error {
	args := m.Called(event)
	return args.Error(0)
}
