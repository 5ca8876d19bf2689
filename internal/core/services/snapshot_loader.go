package services

import (
	"context"
	"fmt"

	"github.com/lorrc/coordination-backend/internal/core/domain"
	apperrors "github.com/lorrc/coordination-backend/internal/core/errors"
	"github.com/lorrc/coordination-backend/internal/core/ports"
)

// LoadSnapshot reads the source once and validates the result. Integrity
// faults reject the whole snapshot and unwrap to apperrors.ErrSnapshotIntegrity.
func LoadSnapshot(ctx context.Context, source ports.SnapshotSource) (*domain.Snapshot, error) {
	data, err := source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot from %s: %w", source.Name(), err)
	}
	if data == nil {
		return nil, fmt.Errorf("load snapshot from %s: %w", source.Name(), apperrors.ErrSnapshotMissing)
	}

	snap, err := domain.NewSnapshot(*data)
	if err != nil {
		return nil, fmt.Errorf("validate snapshot from %s: %w", source.Name(), err)
	}
	return snap, nil
}
