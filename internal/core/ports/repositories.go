package ports

import (
	"context"

	"github.com/lorrc/coordination-backend/internal/core/domain"
)

// SnapshotSource supplies the raw collections a snapshot is built from.
// Sources are read once at startup; they are never written to.
type SnapshotSource interface {
	Load(ctx context.Context) (*domain.SnapshotData, error)
	Name() string
}

// DismissalStore holds each session's dismissed-candidate set outside the core.
// Implementations must return sets the caller may freely mutate.
type DismissalStore interface {
	Get(ctx context.Context, sessionID string) (domain.DismissedSet, error)
	Dismiss(ctx context.Context, sessionID string, id domain.CandidateID) (domain.DismissedSet, error)
	Restore(ctx context.Context, sessionID string, id domain.CandidateID) (domain.DismissedSet, error)
	Replace(ctx context.Context, sessionID string, set domain.DismissedSet) (domain.DismissedSet, error)
}
