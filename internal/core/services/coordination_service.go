package services

import (
	"context"
	"sync"

	"github.com/lorrc/coordination-backend/internal/core/analytics"
	"github.com/lorrc/coordination-backend/internal/core/domain"
	apperrors "github.com/lorrc/coordination-backend/internal/core/errors"
	"github.com/lorrc/coordination-backend/internal/core/ports"
)

// CoordinationService answers analytics queries against one validated
// snapshot and manages per-session dismissals.
type CoordinationService struct {
	snapshot    *domain.Snapshot
	dismissals  ports.DismissalStore
	broadcaster ports.EventBroadcaster

	// mu orders dismissal changes with their broadcasts, so listeners
	// receive the sets in the order the store produced them.
	mu sync.Mutex
}

var _ ports.CoordinationService = (*CoordinationService)(nil)

// NewCoordinationService creates a new coordination service
func NewCoordinationService(
	snapshot *domain.Snapshot,
	dismissals ports.DismissalStore,
	broadcaster ports.EventBroadcaster,
) ports.CoordinationService {
	return &CoordinationService{
		snapshot:    snapshot,
		dismissals:  dismissals,
		broadcaster: broadcaster,
	}
}

func (s *CoordinationService) resolve(sel domain.TeamSelection) domain.TeamSelection {
	if sel == nil {
		return domain.AllTeams(s.snapshot)
	}
	return sel
}

func (s *CoordinationService) Teams(_ context.Context) []domain.Team {
	return s.snapshot.Teams()
}

func (s *CoordinationService) Features(_ context.Context) []domain.Feature {
	return s.snapshot.Features()
}

func (s *CoordinationService) Sprints(_ context.Context) []domain.Sprint {
	return s.snapshot.Sprints()
}

// ActiveSprint returns the sprint currently in progress.
func (s *CoordinationService) ActiveSprint(_ context.Context) (domain.Sprint, error) {
	sprint, ok := s.snapshot.ActiveSprint()
	if !ok {
		return domain.Sprint{}, apperrors.ErrSprintNotFound
	}
	return sprint, nil
}

// Alignment builds the feature-by-team coverage matrix.
func (s *CoordinationService) Alignment(_ context.Context, sel domain.TeamSelection) analytics.AlignmentReport {
	return analytics.AnalyzeAlignment(s.snapshot, s.resolve(sel))
}

// FeatureCoverage drills into one feature.
func (s *CoordinationService) FeatureCoverage(_ context.Context, featureID domain.FeatureID, sel domain.TeamSelection) (analytics.FeatureCoverage, error) {
	cov, ok := analytics.FeatureDetail(s.snapshot, featureID, s.resolve(sel))
	if !ok {
		return analytics.FeatureCoverage{}, apperrors.ErrFeatureNotFound
	}
	return cov, nil
}

// Duplicates ranks candidates, hiding those the session has dismissed.
// An empty session id sees every candidate.
func (s *CoordinationService) Duplicates(ctx context.Context, sessionID string, sel domain.TeamSelection) (analytics.DuplicateReport, error) {
	var dismissed domain.DismissedSet
	if sessionID != "" {
		var err error
		dismissed, err = s.dismissals.Get(ctx, sessionID)
		if err != nil {
			return analytics.DuplicateReport{}, err
		}
	}
	return analytics.RankDuplicates(s.snapshot, s.resolve(sel), dismissed), nil
}

// DismissCandidate marks a candidate as reviewed for the session.
func (s *CoordinationService) DismissCandidate(ctx context.Context, sessionID string, id domain.CandidateID) (domain.DismissedSet, error) {
	if sessionID == "" {
		return nil, apperrors.ErrSessionRequired
	}
	if _, ok := s.snapshot.Candidate(id); !ok {
		return nil, apperrors.ErrCandidateNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.dismissals.Dismiss(ctx, sessionID, id)
	if err != nil {
		return nil, err
	}

	s.broadcastDismissal(sessionID, domain.EventDuplicateDismissed, id, set)
	return set, nil
}

// RestoreCandidate undoes a dismissal. Restoring a candidate that was not
// dismissed is a no-op.
func (s *CoordinationService) RestoreCandidate(ctx context.Context, sessionID string, id domain.CandidateID) (domain.DismissedSet, error) {
	if sessionID == "" {
		return nil, apperrors.ErrSessionRequired
	}
	if _, ok := s.snapshot.Candidate(id); !ok {
		return nil, apperrors.ErrCandidateNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.dismissals.Restore(ctx, sessionID, id)
	if err != nil {
		return nil, err
	}

	s.broadcastDismissal(sessionID, domain.EventDuplicateRestored, id, set)
	return set, nil
}

// ExportDismissals returns the session's dismissed set.
func (s *CoordinationService) ExportDismissals(ctx context.Context, sessionID string) (domain.DismissedSet, error) {
	if sessionID == "" {
		return nil, apperrors.ErrSessionRequired
	}
	return s.dismissals.Get(ctx, sessionID)
}

// ImportDismissals replaces the session's dismissed set verbatim, so that a
// previously exported set reproduces the same visible candidates.
func (s *CoordinationService) ImportDismissals(ctx context.Context, sessionID string, set domain.DismissedSet) (domain.DismissedSet, error) {
	if sessionID == "" {
		return nil, apperrors.ErrSessionRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.dismissals.Replace(ctx, sessionID, set)
	if err != nil {
		return nil, err
	}

	s.broadcastDismissal(sessionID, domain.EventDismissalsReplaced, "", stored)
	return stored, nil
}

// Dependencies builds the shared-dependency graph.
func (s *CoordinationService) Dependencies(_ context.Context, sel domain.TeamSelection) analytics.DependencyGraph {
	return analytics.GraphDependencies(s.snapshot, s.resolve(sel))
}

// DependencyDetail drills into one dependency.
func (s *CoordinationService) DependencyDetail(_ context.Context, id domain.DependencyID, sel domain.TeamSelection) (analytics.DependencyNode, error) {
	node, ok := analytics.DependencyDetail(s.snapshot, id, s.resolve(sel))
	if !ok {
		return analytics.DependencyNode{}, apperrors.ErrDependencyNotFound
	}
	return node, nil
}

// Capacity classifies team loads for one sprint.
func (s *CoordinationService) Capacity(_ context.Context, sprintID domain.SprintID, sel domain.TeamSelection) (analytics.CapacityReport, error) {
	report, ok := analytics.AnalyzeCapacity(s.snapshot, sprintID, s.resolve(sel))
	if !ok {
		return analytics.CapacityReport{}, apperrors.ErrSprintNotFound
	}
	return report, nil
}

// TeamCapacity drills into one team's sprint load.
func (s *CoordinationService) TeamCapacity(_ context.Context, sprintID domain.SprintID, teamID domain.TeamID) (analytics.TeamLoad, error) {
	return analytics.TeamCapacity(s.snapshot, sprintID, teamID)
}

// broadcastDismissal sends the session's new dismissed set to its listeners.
// Callers hold s.mu. Broadcast must not block.
func (s *CoordinationService) broadcastDismissal(sessionID string, eventType domain.EventType, id domain.CandidateID, set domain.DismissedSet) {
	if s.broadcaster == nil {
		return
	}

	_ = s.broadcaster.Broadcast(domain.Event{
		Type: eventType,
		Payload: domain.DismissalPayload{
			CandidateID: id,
			Dismissed:   set.IDs(),
		},
		SessionID: sessionID,
	})
}
