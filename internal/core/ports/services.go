package ports

import (
	"context"

	"github.com/lorrc/coordination-backend/internal/core/analytics"
	"github.com/lorrc/coordination-backend/internal/core/domain"
)

// CoordinationService defines the read-side analytics operations and the
// per-session dismissal workflow. A nil TeamSelection selects every team;
// an empty non-nil selection selects none.
type CoordinationService interface {
	Teams(ctx context.Context) []domain.Team
	Features(ctx context.Context) []domain.Feature
	Sprints(ctx context.Context) []domain.Sprint
	ActiveSprint(ctx context.Context) (domain.Sprint, error)

	Alignment(ctx context.Context, sel domain.TeamSelection) analytics.AlignmentReport
	FeatureCoverage(ctx context.Context, featureID domain.FeatureID, sel domain.TeamSelection) (analytics.FeatureCoverage, error)

	Duplicates(ctx context.Context, sessionID string, sel domain.TeamSelection) (analytics.DuplicateReport, error)
	DismissCandidate(ctx context.Context, sessionID string, id domain.CandidateID) (domain.DismissedSet, error)
	RestoreCandidate(ctx context.Context, sessionID string, id domain.CandidateID) (domain.DismissedSet, error)
	ExportDismissals(ctx context.Context, sessionID string) (domain.DismissedSet, error)
	ImportDismissals(ctx context.Context, sessionID string, set domain.DismissedSet) (domain.DismissedSet, error)

	Dependencies(ctx context.Context, sel domain.TeamSelection) analytics.DependencyGraph
	DependencyDetail(ctx context.Context, id domain.DependencyID, sel domain.TeamSelection) (analytics.DependencyNode, error)

	Capacity(ctx context.Context, sprintID domain.SprintID, sel domain.TeamSelection) (analytics.CapacityReport, error)
	TeamCapacity(ctx context.Context, sprintID domain.SprintID, teamID domain.TeamID) (analytics.TeamLoad, error)
}

// EventBroadcaster defines the port for broadcasting real-time events.
type EventBroadcaster interface {
	Broadcast(event domain.Event) error
}
