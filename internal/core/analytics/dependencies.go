package analytics

import "github.com/lorrc/coordination-backend/internal/core/domain"

// MinVisibleTeams is how many selected teams must share a dependency before
// it counts as a coordination risk.
const MinVisibleTeams = 2

// DependencyNode is a dependency together with its selected teams.
type DependencyNode struct {
	Dependency    domain.Dependency
	FilteredTeams []domain.TeamID
	Visible       bool
}

// TeamNode is a selected team and the number of visible dependencies it uses.
type TeamNode struct {
	TeamID      domain.TeamID
	Connections int
}

// Edge links a team to a dependency it references.
type Edge struct {
	TeamID       domain.TeamID
	DependencyID domain.DependencyID
}

// RiskCounts counts visible dependencies per authored risk level.
type RiskCounts struct {
	High   int
	Medium int
	Low    int
}

// DependencyGraph is the bipartite team/dependency graph under a selection.
// It carries no layout; positions are a rendering concern.
type DependencyGraph struct {
	Teams        []TeamNode
	Dependencies []DependencyNode
	Edges        []Edge
	EdgeCount    int
	RiskCounts   RiskCounts
}

// FilteredTeams returns dep.Teams ∩ sel in the dependency's own order.
func FilteredTeams(dep domain.Dependency, sel domain.TeamSelection) []domain.TeamID {
	out := make([]domain.TeamID, 0, len(dep.Teams))
	for _, id := range dep.Teams {
		if sel.Contains(id) {
			out = append(out, id)
		}
	}
	return out
}

// IsVisible reports whether at least MinVisibleTeams selected teams share dep.
// The authored risk level plays no part.
func IsVisible(dep domain.Dependency, sel domain.TeamSelection) bool {
	return len(FilteredTeams(dep, sel)) >= MinVisibleTeams
}

// GraphDependencies builds the filtered graph in snapshot order.
func GraphDependencies(snap *domain.Snapshot, sel domain.TeamSelection) DependencyGraph {
	teams := snap.SelectedTeams(sel)
	connections := make(map[domain.TeamID]int, len(teams))

	graph := DependencyGraph{
		Dependencies: make([]DependencyNode, 0),
		Edges:        make([]Edge, 0),
	}

	for _, dep := range snap.Dependencies() {
		node := buildNode(dep, sel)
		if !node.Visible {
			continue
		}
		graph.Dependencies = append(graph.Dependencies, node)

		for _, teamID := range node.FilteredTeams {
			graph.Edges = append(graph.Edges, Edge{TeamID: teamID, DependencyID: dep.ID})
			connections[teamID]++
		}

		switch dep.RiskLevel {
		case domain.RiskHigh:
			graph.RiskCounts.High++
		case domain.RiskMedium:
			graph.RiskCounts.Medium++
		case domain.RiskLow:
			graph.RiskCounts.Low++
		}
	}
	graph.EdgeCount = len(graph.Edges)

	graph.Teams = make([]TeamNode, 0, len(teams))
	for _, t := range teams {
		graph.Teams = append(graph.Teams, TeamNode{TeamID: t.ID, Connections: connections[t.ID]})
	}

	return graph
}

// DependencyDetail returns one dependency with its selected teams, whether
// or not it is visible under sel.
func DependencyDetail(snap *domain.Snapshot, id domain.DependencyID, sel domain.TeamSelection) (DependencyNode, bool) {
	dep, ok := snap.Dependency(id)
	if !ok {
		return DependencyNode{}, false
	}
	return buildNode(dep, sel), true
}

func buildNode(dep domain.Dependency, sel domain.TeamSelection) DependencyNode {
	filtered := FilteredTeams(dep, sel)
	return DependencyNode{
		Dependency:    dep,
		FilteredTeams: filtered,
		Visible:       len(filtered) >= MinVisibleTeams,
	}
}
