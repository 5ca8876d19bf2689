// Package dto holds the JSON shapes served by the HTTP API and printed by the
// CLI, plus the mappers from core types.
package dto

import (
	"github.com/lorrc/coordination-backend/internal/core/analytics"
	"github.com/lorrc/coordination-backend/internal/core/domain"
)

const dateLayout = "2006-01-02"

type TeamDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Lead        string `json:"lead,omitempty"`
	Color       string `json:"color,omitempty"`
	MemberCount int    `json:"memberCount"`
	ProjectKey  string `json:"projectKey,omitempty"`
	Focus       string `json:"focus,omitempty"`
}

type FeatureDTO struct {
	ID           string `json:"id"`
	Key          string `json:"key"`
	Name         string `json:"name"`
	Priority     string `json:"priority"`
	TargetPeriod string `json:"targetPeriod,omitempty"`
	Description  string `json:"description,omitempty"`
}

type SprintDTO struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	State     string   `json:"state"`
	StartDate string   `json:"startDate,omitempty"`
	EndDate   string   `json:"endDate,omitempty"`
	Teams     []string `json:"teams"`
}

type AlignmentEntryDTO struct {
	TeamID      string `json:"teamId"`
	IssueCount  int    `json:"issueCount"`
	StoryPoints int    `json:"storyPoints"`
	Status      string `json:"status"`
}

type FeatureCoverageDTO struct {
	Feature       FeatureDTO          `json:"feature"`
	CoveringTeams []string            `json:"coveringTeams"`
	GapTeams      []string            `json:"gapTeams"`
	Entries       []AlignmentEntryDTO `json:"entries"`
	IsMultiTeam   bool                `json:"isMultiTeam"`
	IssueCount    int                 `json:"issueCount"`
	StoryPoints   int                 `json:"storyPoints"`
	OffTrackCount int                 `json:"offTrackCount"`
}

type AlignmentDTO struct {
	Teams             []string             `json:"teams"`
	Features          []FeatureCoverageDTO `json:"features"`
	TotalSlots        int                  `json:"totalSlots"`
	FilledSlots       int                  `json:"filledSlots"`
	GapCount          int                  `json:"gapCount"`
	OffTrackCount     int                  `json:"offTrackCount"`
	MultiTeamFeatures int                  `json:"multiTeamFeatures"`
	CoverageRatio     float64              `json:"coverageRatio"`
}

type WorkItemDTO struct {
	Key      string `json:"key"`
	Summary  string `json:"summary"`
	TeamID   string `json:"teamId"`
	Assignee string `json:"assignee,omitempty"`
	Type     string `json:"type,omitempty"`
}

type CandidateDTO struct {
	ID        string      `json:"id"`
	IssueA    WorkItemDTO `json:"issueA"`
	IssueB    WorkItemDTO `json:"issueB"`
	Score     float64     `json:"score"`
	Reasons   []string    `json:"reasons"`
	Tier      string      `json:"tier"`
	CrossTeam bool        `json:"crossTeam"`
}

type DuplicateSummaryDTO struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Possible int `json:"possible"`
	Total    int `json:"total"`
}

type DuplicatesDTO struct {
	Candidates []CandidateDTO      `json:"candidates"`
	Summary    DuplicateSummaryDTO `json:"summary"`
	Reviewed   int                 `json:"reviewed"`
}

type DismissalsDTO struct {
	Dismissed []string `json:"dismissed"`
}

type DependencyDTO struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	Teams         []string `json:"teams"`
	FilteredTeams []string `json:"filteredTeams"`
	IssueCount    int      `json:"issueCount"`
	RiskLevel     string   `json:"riskLevel"`
	Visible       bool     `json:"visible"`
}

type TeamNodeDTO struct {
	TeamID      string `json:"teamId"`
	Connections int    `json:"connections"`
}

type EdgeDTO struct {
	TeamID       string `json:"teamId"`
	DependencyID string `json:"dependencyId"`
}

type RiskCountsDTO struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

type DependencyGraphDTO struct {
	Teams        []TeamNodeDTO   `json:"teams"`
	Dependencies []DependencyDTO `json:"dependencies"`
	Edges        []EdgeDTO       `json:"edges"`
	EdgeCount    int             `json:"edgeCount"`
	RiskCounts   RiskCountsDTO   `json:"riskCounts"`
}

type AnomalyDTO struct {
	Kind      string `json:"kind"`
	TeamID    string `json:"teamId"`
	Member    string `json:"member,omitempty"`
	Completed int    `json:"completed"`
	Expected  int    `json:"expected"`
}

type MemberLoadDTO struct {
	Name            string  `json:"name"`
	Avatar          string  `json:"avatar,omitempty"`
	AssignedPoints  int     `json:"assignedPoints"`
	CompletedPoints int     `json:"completedPoints"`
	Status          string  `json:"status"`
	Tier            string  `json:"tier"`
	Progress        float64 `json:"progress"`
}

type TeamLoadDTO struct {
	TeamID             string          `json:"teamId"`
	TotalPoints        int             `json:"totalPoints"`
	CompletedPoints    int             `json:"completedPoints"`
	MemberCount        int             `json:"memberCount"`
	PointsPerDeveloper float64         `json:"pointsPerDeveloper"`
	Tier               string          `json:"tier"`
	Progress           float64         `json:"progress"`
	Members            []MemberLoadDTO `json:"members"`
	OverloadedMembers  int             `json:"overloadedMembers"`
	OptimalMembers     int             `json:"optimalMembers"`
	AvailableMembers   int             `json:"availableMembers"`
	Anomalies          []AnomalyDTO    `json:"anomalies"`
}

type CapacityDTO struct {
	SprintID        int           `json:"sprintId"`
	SprintName      string        `json:"sprintName"`
	State           string        `json:"state"`
	Teams           []TeamLoadDTO `json:"teams"`
	OverloadedTeams []string      `json:"overloadedTeams"`
	AvailableTeams  []string      `json:"availableTeams"`
	TotalPoints     int           `json:"totalPoints"`
	CompletedPoints int           `json:"completedPoints"`
	Progress        float64       `json:"progress"`
	Anomalies       []AnomalyDTO  `json:"anomalies"`
}

func FromTeams(teams []domain.Team) []TeamDTO {
	out := make([]TeamDTO, 0, len(teams))
	for _, t := range teams {
		out = append(out, TeamDTO{
			ID:          t.ID.String(),
			Name:        t.Name,
			Lead:        t.Lead,
			Color:       t.Color,
			MemberCount: t.MemberCount,
			ProjectKey:  t.ProjectKey,
			Focus:       t.Focus,
		})
	}
	return out
}

func FromFeature(f domain.Feature) FeatureDTO {
	return FeatureDTO{
		ID:           f.ID.String(),
		Key:          f.Key,
		Name:         f.Name,
		Priority:     f.Priority.String(),
		TargetPeriod: f.TargetPeriod,
		Description:  f.Description,
	}
}

func FromFeatures(features []domain.Feature) []FeatureDTO {
	out := make([]FeatureDTO, 0, len(features))
	for _, f := range features {
		out = append(out, FromFeature(f))
	}
	return out
}

func FromSprints(sprints []domain.Sprint) []SprintDTO {
	out := make([]SprintDTO, 0, len(sprints))
	for _, s := range sprints {
		out = append(out, FromSprint(s))
	}
	return out
}

func FromSprint(s domain.Sprint) SprintDTO {
	teams := make([]string, 0, len(s.Allocations))
	for _, a := range s.Allocations {
		teams = append(teams, a.TeamID.String())
	}
	out := SprintDTO{
		ID:    int(s.ID),
		Name:  s.Name,
		State: s.State.String(),
		Teams: teams,
	}
	if !s.StartDate.IsZero() {
		out.StartDate = s.StartDate.Format(dateLayout)
	}
	if !s.EndDate.IsZero() {
		out.EndDate = s.EndDate.Format(dateLayout)
	}
	return out
}

func FromCoverage(c analytics.FeatureCoverage) FeatureCoverageDTO {
	entries := make([]AlignmentEntryDTO, 0, len(c.Entries))
	for _, e := range c.Entries {
		entries = append(entries, AlignmentEntryDTO{
			TeamID:      e.TeamID.String(),
			IssueCount:  e.IssueCount,
			StoryPoints: e.StoryPoints,
			Status:      e.Status.String(),
		})
	}
	return FeatureCoverageDTO{
		Feature:       FromFeature(c.Feature),
		CoveringTeams: teamStrings(c.CoveringTeams),
		GapTeams:      teamStrings(c.GapTeams),
		Entries:       entries,
		IsMultiTeam:   c.IsMultiTeam,
		IssueCount:    c.IssueCount,
		StoryPoints:   c.StoryPoints,
		OffTrackCount: c.OffTrackCount,
	}
}

func FromAlignment(r analytics.AlignmentReport) AlignmentDTO {
	features := make([]FeatureCoverageDTO, 0, len(r.Features))
	for _, c := range r.Features {
		features = append(features, FromCoverage(c))
	}
	return AlignmentDTO{
		Teams:             teamStrings(r.Teams),
		Features:          features,
		TotalSlots:        r.TotalSlots,
		FilledSlots:       r.FilledSlots,
		GapCount:          r.GapCount,
		OffTrackCount:     r.OffTrackCount,
		MultiTeamFeatures: r.MultiTeamFeatures,
		CoverageRatio:     r.CoverageRatio(),
	}
}

func fromWorkItem(w domain.WorkItemRef) WorkItemDTO {
	return WorkItemDTO{
		Key:      w.Key,
		Summary:  w.Summary,
		TeamID:   w.TeamID.String(),
		Assignee: w.Assignee,
		Type:     w.Type,
	}
}

func FromDuplicates(r analytics.DuplicateReport) DuplicatesDTO {
	candidates := make([]CandidateDTO, 0, len(r.Candidates))
	for _, c := range r.Candidates {
		reasons := make([]string, 0, len(c.Reasons))
		for _, reason := range c.Reasons {
			reasons = append(reasons, reason.String())
		}
		candidates = append(candidates, CandidateDTO{
			ID:        c.ID.String(),
			IssueA:    fromWorkItem(c.IssueA),
			IssueB:    fromWorkItem(c.IssueB),
			Score:     c.Score,
			Reasons:   reasons,
			Tier:      c.Tier.String(),
			CrossTeam: c.CrossTeam,
		})
	}
	return DuplicatesDTO{
		Candidates: candidates,
		Summary: DuplicateSummaryDTO{
			Critical: r.Summary.Critical,
			High:     r.Summary.High,
			Possible: r.Summary.Possible,
			Total:    r.Summary.Total,
		},
		Reviewed: r.Reviewed,
	}
}

func FromDismissed(set domain.DismissedSet) DismissalsDTO {
	ids := set.IDs()
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return DismissalsDTO{Dismissed: out}
}

// ToDismissed converts a dismissal list back to a set. Duplicate and unknown
// ids are kept as given.
func (d DismissalsDTO) ToDismissed() domain.DismissedSet {
	set := domain.NewDismissedSet()
	for _, id := range d.Dismissed {
		set.Dismiss(domain.CandidateID(id))
	}
	return set
}

func FromDependencyNode(n analytics.DependencyNode) DependencyDTO {
	return DependencyDTO{
		ID:            n.Dependency.ID.String(),
		Name:          n.Dependency.Name,
		Type:          n.Dependency.Type.String(),
		Teams:         teamStrings(n.Dependency.Teams),
		FilteredTeams: teamStrings(n.FilteredTeams),
		IssueCount:    n.Dependency.IssueCount,
		RiskLevel:     n.Dependency.RiskLevel.String(),
		Visible:       n.Visible,
	}
}

func FromDependencyGraph(g analytics.DependencyGraph) DependencyGraphDTO {
	teams := make([]TeamNodeDTO, 0, len(g.Teams))
	for _, t := range g.Teams {
		teams = append(teams, TeamNodeDTO{TeamID: t.TeamID.String(), Connections: t.Connections})
	}
	deps := make([]DependencyDTO, 0, len(g.Dependencies))
	for _, n := range g.Dependencies {
		deps = append(deps, FromDependencyNode(n))
	}
	edges := make([]EdgeDTO, 0, len(g.Edges))
	for _, e := range g.Edges {
		edges = append(edges, EdgeDTO{TeamID: e.TeamID.String(), DependencyID: e.DependencyID.String()})
	}
	return DependencyGraphDTO{
		Teams:        teams,
		Dependencies: deps,
		Edges:        edges,
		EdgeCount:    g.EdgeCount,
		RiskCounts: RiskCountsDTO{
			High:   g.RiskCounts.High,
			Medium: g.RiskCounts.Medium,
			Low:    g.RiskCounts.Low,
		},
	}
}

func fromAnomalies(anomalies []analytics.Anomaly) []AnomalyDTO {
	out := make([]AnomalyDTO, 0, len(anomalies))
	for _, a := range anomalies {
		out = append(out, AnomalyDTO{
			Kind:      string(a.Kind),
			TeamID:    a.TeamID.String(),
			Member:    a.Member,
			Completed: a.Completed,
			Expected:  a.Expected,
		})
	}
	return out
}

func FromTeamLoad(l analytics.TeamLoad) TeamLoadDTO {
	members := make([]MemberLoadDTO, 0, len(l.Members))
	for _, m := range l.Members {
		members = append(members, MemberLoadDTO{
			Name:            m.Name,
			Avatar:          m.Avatar,
			AssignedPoints:  m.AssignedPoints,
			CompletedPoints: m.CompletedPoints,
			Status:          m.Status.String(),
			Tier:            m.Tier.String(),
			Progress:        m.Progress,
		})
	}
	return TeamLoadDTO{
		TeamID:             l.TeamID.String(),
		TotalPoints:        l.TotalPoints,
		CompletedPoints:    l.CompletedPoints,
		MemberCount:        l.MemberCount,
		PointsPerDeveloper: l.PointsPerDeveloper,
		Tier:               l.Tier.String(),
		Progress:           l.Progress,
		Members:            members,
		OverloadedMembers:  l.OverloadedMembers,
		OptimalMembers:     l.OptimalMembers,
		AvailableMembers:   l.AvailableMembers,
		Anomalies:          fromAnomalies(l.Anomalies),
	}
}

func FromCapacity(r analytics.CapacityReport) CapacityDTO {
	teams := make([]TeamLoadDTO, 0, len(r.Teams))
	for _, l := range r.Teams {
		teams = append(teams, FromTeamLoad(l))
	}
	return CapacityDTO{
		SprintID:        int(r.SprintID),
		SprintName:      r.SprintName,
		State:           r.State.String(),
		Teams:           teams,
		OverloadedTeams: teamStrings(r.OverloadedTeams),
		AvailableTeams:  teamStrings(r.AvailableTeams),
		TotalPoints:     r.TotalPoints,
		CompletedPoints: r.CompletedPoints,
		Progress:        r.Progress(),
		Anomalies:       fromAnomalies(r.Anomalies),
	}
}

func teamStrings(ids []domain.TeamID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
