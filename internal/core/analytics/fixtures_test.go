package analytics_test

import (
	"testing"

	"github.com/lorrc/coordination-backend/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func workItem(key string, team domain.TeamID) domain.WorkItemRef {
	return domain.WorkItemRef{Key: key, Summary: key, TeamID: team, Type: "Story"}
}

func member(name string, assigned, completed int, status domain.MemberStatus) domain.MemberAllocation {
	return domain.MemberAllocation{Name: name, AssignedPoints: assigned, CompletedPoints: completed, Status: status}
}

// fixtureSnapshot is a trimmed version of the default seed: all five teams,
// the first three features, every duplicate and dependency, and two sprints.
func fixtureSnapshot(t *testing.T) *domain.Snapshot {
	t.Helper()

	data := domain.SnapshotData{
		Teams: []domain.Team{
			{ID: "orion", Name: "Team Orion", MemberCount: 6},
			{ID: "andromeda", Name: "Team Andromeda", MemberCount: 7},
			{ID: "pegasus", Name: "Team Pegasus", MemberCount: 5},
			{ID: "lyra", Name: "Team Lyra", MemberCount: 6},
			{ID: "vega", Name: "Team Vega", MemberCount: 4},
		},
		Features: []domain.Feature{
			{ID: "f-001", Key: "FEAT-001", Name: "Authentication & SSO Overhaul", Priority: domain.PriorityCritical},
			{ID: "f-002", Key: "FEAT-002", Name: "Real-time Notifications", Priority: domain.PriorityHigh},
			{ID: "f-003", Key: "FEAT-003", Name: "Payment Gateway v2", Priority: domain.PriorityCritical},
		},
		Alignment: []domain.AlignmentEntry{
			{TeamID: "orion", FeatureID: "f-001", IssueCount: 14, StoryPoints: 55, Status: domain.AlignmentOnTrack},
			{TeamID: "andromeda", FeatureID: "f-001", IssueCount: 9, StoryPoints: 34, Status: domain.AlignmentOnTrack},
			{TeamID: "pegasus", FeatureID: "f-001", IssueCount: 5, StoryPoints: 21, Status: domain.AlignmentAtRisk},
			{TeamID: "orion", FeatureID: "f-002", IssueCount: 11, StoryPoints: 42, Status: domain.AlignmentOnTrack},
			{TeamID: "andromeda", FeatureID: "f-002", IssueCount: 7, StoryPoints: 28, Status: domain.AlignmentOnTrack},
			{TeamID: "pegasus", FeatureID: "f-002", IssueCount: 6, StoryPoints: 24, Status: domain.AlignmentOnTrack},
			{TeamID: "vega", FeatureID: "f-002", IssueCount: 3, StoryPoints: 13, Status: domain.AlignmentOnTrack},
			{TeamID: "orion", FeatureID: "f-003", IssueCount: 18, StoryPoints: 72, Status: domain.AlignmentBehind},
			{TeamID: "andromeda", FeatureID: "f-003", IssueCount: 8, StoryPoints: 31, Status: domain.AlignmentAtRisk},
		},
		Duplicates: []domain.DuplicateCandidate{
			{ID: "d-001", IssueA: workItem("ORI-234", "orion"), IssueB: workItem("AND-189", "andromeda"), Score: 0.89, Reasons: []domain.ReasonTag{domain.ReasonTitle, domain.ReasonLabels, domain.ReasonEpic}},
			{ID: "d-002", IssueA: workItem("ORI-198", "orion"), IssueB: workItem("VEG-067", "vega"), Score: 0.84, Reasons: []domain.ReasonTag{domain.ReasonTitle, domain.ReasonComponents}},
			{ID: "d-003", IssueA: workItem("ORI-301", "orion"), IssueB: workItem("VEG-112", "vega"), Score: 0.82, Reasons: []domain.ReasonTag{domain.ReasonTitle, domain.ReasonLabels}},
			{ID: "d-004", IssueA: workItem("AND-244", "andromeda"), IssueB: workItem("LYR-078", "lyra"), Score: 0.77, Reasons: []domain.ReasonTag{domain.ReasonTitle, domain.ReasonComponents, domain.ReasonEpic}},
			{ID: "d-005", IssueA: workItem("PEG-156", "pegasus"), IssueB: workItem("AND-301", "andromeda"), Score: 0.73, Reasons: []domain.ReasonTag{domain.ReasonTitle, domain.ReasonEpic}},
			{ID: "d-006", IssueA: workItem("ORI-412", "orion"), IssueB: workItem("AND-378", "andromeda"), Score: 0.69, Reasons: []domain.ReasonTag{domain.ReasonTitle, domain.ReasonLabels}},
		},
		Dependencies: []domain.Dependency{
			{ID: "dep-001", Name: "Auth Service", Type: domain.DependencyService, Teams: []domain.TeamID{"orion", "andromeda", "pegasus"}, IssueCount: 28, RiskLevel: domain.RiskHigh},
			{ID: "dep-002", Name: "Notification Queue", Type: domain.DependencyQueue, Teams: []domain.TeamID{"orion", "vega", "andromeda"}, IssueCount: 17, RiskLevel: domain.RiskHigh},
			{ID: "dep-003", Name: "PostgreSQL (Primary DB)", Type: domain.DependencyDatabase, Teams: []domain.TeamID{"orion", "lyra", "vega"}, IssueCount: 24, RiskLevel: domain.RiskMedium},
			{ID: "dep-004", Name: "Redis Cache", Type: domain.DependencyDatabase, Teams: []domain.TeamID{"orion", "vega"}, IssueCount: 11, RiskLevel: domain.RiskMedium},
			{ID: "dep-005", Name: "Kafka Event Bus", Type: domain.DependencyQueue, Teams: []domain.TeamID{"orion", "lyra", "vega"}, IssueCount: 19, RiskLevel: domain.RiskHigh},
			{ID: "dep-006", Name: "React Component Library", Type: domain.DependencyLibrary, Teams: []domain.TeamID{"andromeda", "pegasus"}, IssueCount: 33, RiskLevel: domain.RiskMedium},
			{ID: "dep-007", Name: "S3 Object Storage", Type: domain.DependencyStorage, Teams: []domain.TeamID{"lyra", "vega"}, IssueCount: 8, RiskLevel: domain.RiskLow},
			{ID: "dep-008", Name: "Payment API (Stripe)", Type: domain.DependencyService, Teams: []domain.TeamID{"orion", "andromeda"}, IssueCount: 14, RiskLevel: domain.RiskHigh},
		},
		Sprints: []domain.Sprint{
			{
				ID:    42,
				Name:  "Sprint 42",
				State: domain.SprintActive,
				Allocations: []domain.TeamSprintAllocation{
					{TeamID: "orion", TotalPoints: 78, CompletedPoints: 41, MemberCount: 6, Members: []domain.MemberAllocation{
						member("Sarah Chen", 18, 10, domain.MemberOverloaded),
						member("Liam Torres", 16, 9, domain.MemberOverloaded),
						member("Ravi Krishnan", 15, 8, domain.MemberOverloaded),
						member("Mei Nakamura", 12, 7, domain.MemberOptimal),
						member("Tom Bradley", 10, 5, domain.MemberOptimal),
						member("Kat Diaz", 7, 2, domain.MemberOptimal),
					}},
					{TeamID: "andromeda", TotalPoints: 45, CompletedPoints: 28, MemberCount: 7},
					{TeamID: "pegasus", TotalPoints: 52, CompletedPoints: 22, MemberCount: 5},
					{TeamID: "lyra", TotalPoints: 28, CompletedPoints: 20, MemberCount: 6},
					{TeamID: "vega", TotalPoints: 35, CompletedPoints: 18, MemberCount: 4},
				},
			},
			{
				ID:    43,
				Name:  "Sprint 43",
				State: domain.SprintUpcoming,
				Allocations: []domain.TeamSprintAllocation{
					{TeamID: "lyra", TotalPoints: 22, MemberCount: 6},
					{TeamID: "vega", TotalPoints: 55, MemberCount: 4},
				},
			},
		},
	}

	snap, err := domain.NewSnapshot(data)
	require.NoError(t, err)
	return snap
}
