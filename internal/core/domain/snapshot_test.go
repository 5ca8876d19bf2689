package domain_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/lorrc/coordination-backend/internal/core/domain"
	apperrors "github.com/lorrc/coordination-backend/internal/core/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validData() domain.SnapshotData {
	return domain.SnapshotData{
		Teams: []domain.Team{
			{ID: "orion", Name: "Orion", MemberCount: 6},
			{ID: "vega", Name: "Vega", MemberCount: 4},
		},
		Features: []domain.Feature{
			{ID: "f-001", Key: "EPIC-100", Name: "Unified Checkout", Priority: domain.PriorityCritical},
		},
		Alignment: []domain.AlignmentEntry{
			{TeamID: "orion", FeatureID: "f-001", IssueCount: 8, StoryPoints: 34, Status: domain.AlignmentOnTrack},
		},
		Duplicates: []domain.DuplicateCandidate{
			{
				ID:      "d-001",
				IssueA:  domain.WorkItemRef{Key: "ORN-1", TeamID: "orion"},
				IssueB:  domain.WorkItemRef{Key: "VGA-1", TeamID: "vega"},
				Score:   0.9,
				Reasons: []domain.ReasonTag{domain.ReasonTitle},
			},
		},
		Dependencies: []domain.Dependency{
			{ID: "dep-001", Name: "Auth Service", Type: domain.DependencyService, Teams: []domain.TeamID{"orion", "vega"}, IssueCount: 3, RiskLevel: domain.RiskHigh},
		},
		Sprints: []domain.Sprint{
			{
				ID:        42,
				Name:      "Sprint 42",
				State:     domain.SprintActive,
				StartDate: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2024, 1, 22, 0, 0, 0, 0, time.UTC),
				Allocations: []domain.TeamSprintAllocation{
					{TeamID: "orion", TotalPoints: 78, CompletedPoints: 40, MemberCount: 6, Members: []domain.MemberAllocation{
						{Name: "Ana", AssignedPoints: 14, CompletedPoints: 8, Status: domain.MemberOverloaded},
					}},
				},
			},
		},
	}
}

func TestNewSnapshot_Valid(t *testing.T) {
	snap, err := domain.NewSnapshot(validData())
	require.NoError(t, err)

	team, ok := snap.Team("orion")
	require.True(t, ok)
	assert.Equal(t, "Orion", team.Name)

	_, ok = snap.Team("lyra")
	assert.False(t, ok)

	entry, ok := snap.Entry("orion", "f-001")
	require.True(t, ok)
	assert.Equal(t, 34, entry.StoryPoints)

	_, ok = snap.Entry("vega", "f-001")
	assert.False(t, ok, "missing entry is a gap")

	sprint, ok := snap.ActiveSprint()
	require.True(t, ok)
	assert.Equal(t, domain.SprintID(42), sprint.ID)
}

func TestNewSnapshot_IntegrityFaults(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *domain.SnapshotData)
	}{
		{"duplicate team id", func(d *domain.SnapshotData) {
			d.Teams = append(d.Teams, domain.Team{ID: "orion"})
		}},
		{"alignment references unknown team", func(d *domain.SnapshotData) {
			d.Alignment = append(d.Alignment, domain.AlignmentEntry{TeamID: "ghost", FeatureID: "f-001", Status: domain.AlignmentBehind})
		}},
		{"alignment references unknown feature", func(d *domain.SnapshotData) {
			d.Alignment = append(d.Alignment, domain.AlignmentEntry{TeamID: "vega", FeatureID: "f-999", Status: domain.AlignmentBehind})
		}},
		{"duplicate alignment key", func(d *domain.SnapshotData) {
			d.Alignment = append(d.Alignment, d.Alignment[0])
		}},
		{"unknown alignment status", func(d *domain.SnapshotData) {
			d.Alignment[0].Status = "done"
		}},
		{"score above one", func(d *domain.SnapshotData) {
			d.Duplicates[0].Score = 1.2
		}},
		{"score NaN", func(d *domain.SnapshotData) {
			d.Duplicates[0].Score = math.NaN()
		}},
		{"candidate pairs item with itself", func(d *domain.SnapshotData) {
			d.Duplicates[0].IssueB.Key = "ORN-1"
		}},
		{"unknown reason tag", func(d *domain.SnapshotData) {
			d.Duplicates[0].Reasons = []domain.ReasonTag{"assignee"}
		}},
		{"dependency references unknown team", func(d *domain.SnapshotData) {
			d.Dependencies[0].Teams = append(d.Dependencies[0].Teams, "ghost")
		}},
		{"dependency lists team twice", func(d *domain.SnapshotData) {
			d.Dependencies[0].Teams = []domain.TeamID{"orion", "orion"}
		}},
		{"dependency with no teams", func(d *domain.SnapshotData) {
			d.Dependencies[0].Teams = nil
		}},
		{"zero member count", func(d *domain.SnapshotData) {
			d.Sprints[0].Allocations[0].MemberCount = 0
		}},
		{"negative points", func(d *domain.SnapshotData) {
			d.Sprints[0].Allocations[0].TotalPoints = -1
		}},
		{"sprint ends before start", func(d *domain.SnapshotData) {
			d.Sprints[0].EndDate = d.Sprints[0].StartDate.AddDate(0, 0, -1)
		}},
		{"sprint allocation for unknown team", func(d *domain.SnapshotData) {
			d.Sprints[0].Allocations[0].TeamID = "ghost"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := validData()
			tt.mutate(&data)

			snap, err := domain.NewSnapshot(data)
			require.Error(t, err)
			assert.Nil(t, snap)
			assert.True(t, errors.Is(err, apperrors.ErrSnapshotIntegrity))

			var integrity *apperrors.IntegrityErrors
			require.True(t, errors.As(err, &integrity))
			assert.NotEmpty(t, integrity.Faults)
		})
	}
}

func TestNewSnapshot_CollectsAllFaults(t *testing.T) {
	data := validData()
	data.Duplicates[0].Score = 2
	data.Dependencies[0].Teams = []domain.TeamID{"ghost"}

	_, err := domain.NewSnapshot(data)

	var integrity *apperrors.IntegrityErrors
	require.True(t, errors.As(err, &integrity))
	assert.Len(t, integrity.Faults, 2)
}

func TestNewSnapshot_CompletedOverTotalIsNotAFault(t *testing.T) {
	data := validData()
	data.Sprints[0].Allocations[0].CompletedPoints = 100

	_, err := domain.NewSnapshot(data)
	assert.NoError(t, err)
}

func TestSnapshot_AccessorsReturnCopies(t *testing.T) {
	data := validData()
	snap, err := domain.NewSnapshot(data)
	require.NoError(t, err)

	// Mutating the input after construction must not leak in.
	data.Dependencies[0].Teams[0] = "vega"

	deps := snap.Dependencies()
	assert.Equal(t, domain.TeamID("orion"), deps[0].Teams[0])

	deps[0].Teams[0] = "changed"
	again, _ := snap.Dependency("dep-001")
	assert.Equal(t, domain.TeamID("orion"), again.Teams[0])

	sprint, _ := snap.Sprint(42)
	sprint.Allocations[0].Members[0].Name = "changed"
	fresh, _ := snap.Sprint(42)
	assert.Equal(t, "Ana", fresh.Allocations[0].Members[0].Name)
}

func TestSnapshot_SelectedTeamsKeepsSnapshotOrder(t *testing.T) {
	snap, err := domain.NewSnapshot(validData())
	require.NoError(t, err)

	teams := snap.SelectedTeams(domain.NewTeamSelection("vega", "orion", "ghost"))
	require.Len(t, teams, 2)
	assert.Equal(t, domain.TeamID("orion"), teams[0].ID)
	assert.Equal(t, domain.TeamID("vega"), teams[1].ID)

	assert.Empty(t, snap.SelectedTeams(domain.NewTeamSelection()))
	assert.Len(t, snap.SelectedTeams(domain.AllTeams(snap)), 2)
}
