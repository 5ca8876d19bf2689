package analytics_test

import (
	"testing"

	"github.com/lorrc/coordination-backend/internal/core/analytics"
	"github.com/lorrc/coordination-backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func depIDs(nodes []analytics.DependencyNode) []domain.DependencyID {
	out := make([]domain.DependencyID, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Dependency.ID)
	}
	return out
}

func TestGraphDependencies(t *testing.T) {
	snap := fixtureSnapshot(t)

	tests := []struct {
		name      string
		sel       domain.TeamSelection
		wantDeps  []domain.DependencyID
		wantEdges int
		wantRisk  analytics.RiskCounts
	}{
		{
			name:      "all teams",
			sel:       domain.AllTeams(snap),
			wantDeps:  []domain.DependencyID{"dep-001", "dep-002", "dep-003", "dep-004", "dep-005", "dep-006", "dep-007", "dep-008"},
			wantEdges: 20,
			wantRisk:  analytics.RiskCounts{High: 4, Medium: 3, Low: 1},
		},
		{
			name:      "orion and vega",
			sel:       domain.NewTeamSelection("orion", "vega"),
			wantDeps:  []domain.DependencyID{"dep-002", "dep-003", "dep-004", "dep-005"},
			wantEdges: 8,
			wantRisk:  analytics.RiskCounts{High: 2, Medium: 2},
		},
		{
			name:     "single team never shares",
			sel:      domain.NewTeamSelection("orion"),
			wantDeps: []domain.DependencyID{},
		},
		{
			name:     "empty selection",
			sel:      domain.NewTeamSelection(),
			wantDeps: []domain.DependencyID{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			graph := analytics.GraphDependencies(snap, tt.sel)

			assert.Equal(t, tt.wantDeps, depIDs(graph.Dependencies))
			assert.Equal(t, tt.wantEdges, graph.EdgeCount)
			assert.Len(t, graph.Edges, tt.wantEdges)
			assert.Equal(t, tt.wantRisk, graph.RiskCounts)

			sum := 0
			for _, n := range graph.Dependencies {
				assert.GreaterOrEqual(t, len(n.FilteredTeams), analytics.MinVisibleTeams)
				sum += len(n.FilteredTeams)
			}
			assert.Equal(t, graph.EdgeCount, sum)
		})
	}
}

func TestGraphDependencies_TeamNodes(t *testing.T) {
	snap := fixtureSnapshot(t)

	graph := analytics.GraphDependencies(snap, domain.NewTeamSelection("orion", "vega", "pegasus"))

	require.Len(t, graph.Teams, 3)
	// dep-001 becomes visible once pegasus joins orion.
	assert.Equal(t, analytics.TeamNode{TeamID: "orion", Connections: 5}, graph.Teams[0])
	assert.Equal(t, analytics.TeamNode{TeamID: "pegasus", Connections: 1}, graph.Teams[1])
	assert.Equal(t, analytics.TeamNode{TeamID: "vega", Connections: 4}, graph.Teams[2])
}

func TestGraphDependencies_DeselectingDropsPair(t *testing.T) {
	snap := fixtureSnapshot(t)
	sel := domain.NewTeamSelection("orion", "vega")

	graph := analytics.GraphDependencies(snap, sel)
	assert.Contains(t, depIDs(graph.Dependencies), domain.DependencyID("dep-004"))

	graph = analytics.GraphDependencies(snap, sel.Without("vega"))
	assert.NotContains(t, depIDs(graph.Dependencies), domain.DependencyID("dep-004"))
	assert.Zero(t, graph.EdgeCount)
}

func TestGraphDependencies_RemovingTeamsOnlyShrinks(t *testing.T) {
	snap := fixtureSnapshot(t)
	all := domain.AllTeams(snap)
	full := analytics.GraphDependencies(snap, all)

	for _, team := range snap.Teams() {
		t.Run(string(team.ID), func(t *testing.T) {
			reduced := all.Without(team.ID)
			graph := analytics.GraphDependencies(snap, reduced)

			assert.Subset(t, depIDs(full.Dependencies), depIDs(graph.Dependencies))
			assert.LessOrEqual(t, graph.EdgeCount, full.EdgeCount)

			// Removing a second team keeps shrinking from the reduced graph.
			for _, other := range snap.Teams() {
				if other.ID == team.ID {
					continue
				}
				next := analytics.GraphDependencies(snap, reduced.Without(other.ID))
				assert.Subset(t, depIDs(graph.Dependencies), depIDs(next.Dependencies),
					"removing %s after %s", other.ID, team.ID)
			}
		})
	}
}

func TestFilteredTeams_KeepsDependencyOrder(t *testing.T) {
	snap := fixtureSnapshot(t)
	dep, ok := snap.Dependency("dep-002")
	require.True(t, ok)

	got := analytics.FilteredTeams(dep, domain.NewTeamSelection("andromeda", "orion"))
	assert.Equal(t, []domain.TeamID{"orion", "andromeda"}, got)
	assert.True(t, analytics.IsVisible(dep, domain.NewTeamSelection("andromeda", "orion")))
	assert.False(t, analytics.IsVisible(dep, domain.NewTeamSelection("andromeda", "lyra")))
}

func TestDependencyDetail(t *testing.T) {
	snap := fixtureSnapshot(t)

	node, ok := analytics.DependencyDetail(snap, "dep-007", domain.NewTeamSelection("lyra"))
	require.True(t, ok)
	assert.False(t, node.Visible)
	assert.Equal(t, []domain.TeamID{"lyra"}, node.FilteredTeams)
	assert.Equal(t, domain.RiskLow, node.Dependency.RiskLevel)

	_, ok = analytics.DependencyDetail(snap, "dep-999", domain.AllTeams(snap))
	assert.False(t, ok)
}
