// Package memory provides process-local implementations of the core's
// storage ports.
package memory

import (
	"context"
	"sync"

	"github.com/lorrc/coordination-backend/internal/core/domain"
	"github.com/lorrc/coordination-backend/internal/core/ports"
)

// DismissalStore keeps dismissed sets per session for the lifetime of the
// process. Every returned set is a copy.
type DismissalStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.DismissedSet
}

var _ ports.DismissalStore = (*DismissalStore)(nil)

func NewDismissalStore() *DismissalStore {
	return &DismissalStore{sessions: make(map[string]domain.DismissedSet)}
}

func (s *DismissalStore) Get(ctx context.Context, sessionID string) (domain.DismissedSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.sessions[sessionID]
	if !ok {
		return domain.NewDismissedSet(), nil
	}
	return set.Clone(), nil
}

func (s *DismissalStore) Dismiss(ctx context.Context, sessionID string, id domain.CandidateID) (domain.DismissedSet, error) {
	return s.update(ctx, sessionID, func(set domain.DismissedSet) {
		set.Dismiss(id)
	})
}

func (s *DismissalStore) Restore(ctx context.Context, sessionID string, id domain.CandidateID) (domain.DismissedSet, error) {
	return s.update(ctx, sessionID, func(set domain.DismissedSet) {
		set.Restore(id)
	})
}

// Replace swaps the session's set for a copy of set. A nil set clears it.
func (s *DismissalStore) Replace(ctx context.Context, sessionID string, set domain.DismissedSet) (domain.DismissedSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	next := set.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sessionID] = next
	return next.Clone(), nil
}

// Sessions reports how many sessions hold state.
func (s *DismissalStore) Sessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *DismissalStore) update(ctx context.Context, sessionID string, apply func(domain.DismissedSet)) (domain.DismissedSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.sessions[sessionID]
	if !ok {
		set = domain.NewDismissedSet()
		s.sessions[sessionID] = set
	}
	apply(set)
	return set.Clone(), nil
}
