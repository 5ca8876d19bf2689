package analytics

import (
	"github.com/lorrc/coordination-backend/internal/core/domain"
	apperrors "github.com/lorrc/coordination-backend/internal/core/errors"
)

// Points-per-developer breakpoints. Lower bounds are inclusive.
const (
	CriticalLoadThreshold   = 12.0
	OverloadedLoadThreshold = 10.0
	OptimalLoadThreshold    = 7.0
	LightLoadThreshold      = 4.0
)

// PointsPerDeveloper is TotalPoints / MemberCount, unrounded.
// NewSnapshot rejects a member count below one; here it yields 0.
func PointsPerDeveloper(a domain.TeamSprintAllocation) float64 {
	if a.MemberCount < 1 {
		return 0
	}
	return float64(a.TotalPoints) / float64(a.MemberCount)
}

// ClassifyLoad buckets a points-per-developer value into a load tier.
func ClassifyLoad(pointsPerDev float64) domain.LoadTier {
	switch {
	case pointsPerDev >= CriticalLoadThreshold:
		return domain.LoadCritical
	case pointsPerDev >= OverloadedLoadThreshold:
		return domain.LoadOverloaded
	case pointsPerDev >= OptimalLoadThreshold:
		return domain.LoadOptimal
	case pointsPerDev >= LightLoadThreshold:
		return domain.LoadLight
	default:
		return domain.LoadAvailable
	}
}

// Progress is completed / total clamped to [0,1]; 0 when total is 0.
func Progress(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	p := float64(completed) / float64(total)
	if p > 1 {
		return 1
	}
	if p < 0 {
		return 0
	}
	return p
}

// AnomalyKind names a data-quality problem found in sprint data.
type AnomalyKind string

const (
	AnomalyTeamCompletedExceedsTotal      AnomalyKind = "team_completed_exceeds_total"
	AnomalyMemberCompletedExceedsAssigned AnomalyKind = "member_completed_exceeds_assigned"
)

// Anomaly is reported alongside results and never blocks them.
type Anomaly struct {
	Kind      AnomalyKind
	TeamID    domain.TeamID
	Member    string
	Completed int
	Expected  int
}

// MemberLoad is a member's authored status and derived load.
type MemberLoad struct {
	Name            string
	Avatar          string
	AssignedPoints  int
	CompletedPoints int
	Status          domain.MemberStatus
	Tier            domain.LoadTier
	Progress        float64
}

// TeamLoad is a team's derived sprint load.
type TeamLoad struct {
	TeamID             domain.TeamID
	TotalPoints        int
	CompletedPoints    int
	MemberCount        int
	PointsPerDeveloper float64
	Tier               domain.LoadTier
	Progress           float64
	Members            []MemberLoad
	OverloadedMembers  int
	OptimalMembers     int
	AvailableMembers   int
	Anomalies          []Anomaly
}

// CapacityReport aggregates team loads for one sprint under a selection.
type CapacityReport struct {
	SprintID        domain.SprintID
	SprintName      string
	State           domain.SprintState
	Teams           []TeamLoad
	OverloadedTeams []domain.TeamID
	AvailableTeams  []domain.TeamID
	TotalPoints     int
	CompletedPoints int
	Anomalies       []Anomaly
}

// LoadFor derives the load for one team allocation. A member's tier uses
// their assigned points as the per-developer figure.
func LoadFor(a domain.TeamSprintAllocation) TeamLoad {
	ppd := PointsPerDeveloper(a)
	load := TeamLoad{
		TeamID:             a.TeamID,
		TotalPoints:        a.TotalPoints,
		CompletedPoints:    a.CompletedPoints,
		MemberCount:        a.MemberCount,
		PointsPerDeveloper: ppd,
		Tier:               ClassifyLoad(ppd),
		Progress:           Progress(a.CompletedPoints, a.TotalPoints),
		Members:            make([]MemberLoad, 0, len(a.Members)),
		Anomalies:          make([]Anomaly, 0),
	}

	if a.CompletedPoints > a.TotalPoints {
		load.Anomalies = append(load.Anomalies, Anomaly{
			Kind:      AnomalyTeamCompletedExceedsTotal,
			TeamID:    a.TeamID,
			Completed: a.CompletedPoints,
			Expected:  a.TotalPoints,
		})
	}

	for _, m := range a.Members {
		load.Members = append(load.Members, MemberLoad{
			Name:            m.Name,
			Avatar:          m.Avatar,
			AssignedPoints:  m.AssignedPoints,
			CompletedPoints: m.CompletedPoints,
			Status:          m.Status,
			Tier:            ClassifyLoad(float64(m.AssignedPoints)),
			Progress:        Progress(m.CompletedPoints, m.AssignedPoints),
		})

		switch m.Status {
		case domain.MemberOverloaded:
			load.OverloadedMembers++
		case domain.MemberOptimal:
			load.OptimalMembers++
		case domain.MemberAvailable:
			load.AvailableMembers++
		}

		if m.CompletedPoints > m.AssignedPoints {
			load.Anomalies = append(load.Anomalies, Anomaly{
				Kind:      AnomalyMemberCompletedExceedsAssigned,
				TeamID:    a.TeamID,
				Member:    m.Name,
				Completed: m.CompletedPoints,
				Expected:  m.AssignedPoints,
			})
		}
	}

	return load
}

// AnalyzeSprint aggregates the loads of the selected teams in sprint.
// Teams are visited in the given order; selected teams without an
// allocation are skipped.
func AnalyzeSprint(sprint domain.Sprint, teams []domain.Team, sel domain.TeamSelection) CapacityReport {
	report := CapacityReport{
		SprintID:        sprint.ID,
		SprintName:      sprint.Name,
		State:           sprint.State,
		Teams:           make([]TeamLoad, 0, len(teams)),
		OverloadedTeams: make([]domain.TeamID, 0),
		AvailableTeams:  make([]domain.TeamID, 0),
		Anomalies:       make([]Anomaly, 0),
	}

	for _, t := range teams {
		if !sel.Contains(t.ID) {
			continue
		}
		alloc, ok := sprint.Allocation(t.ID)
		if !ok {
			continue
		}

		load := LoadFor(alloc)
		report.Teams = append(report.Teams, load)
		report.TotalPoints += load.TotalPoints
		report.CompletedPoints += load.CompletedPoints
		report.Anomalies = append(report.Anomalies, load.Anomalies...)

		switch {
		case load.Tier.IsOverloaded():
			report.OverloadedTeams = append(report.OverloadedTeams, t.ID)
		case load.Tier == domain.LoadAvailable:
			report.AvailableTeams = append(report.AvailableTeams, t.ID)
		}
	}

	return report
}

// AnalyzeCapacity looks up sprintID and aggregates it in snapshot team order.
func AnalyzeCapacity(snap *domain.Snapshot, sprintID domain.SprintID, sel domain.TeamSelection) (CapacityReport, bool) {
	sprint, ok := snap.Sprint(sprintID)
	if !ok {
		return CapacityReport{}, false
	}
	return AnalyzeSprint(sprint, snap.Teams(), sel), true
}

// TeamCapacity derives the load of a single team in a sprint.
func TeamCapacity(snap *domain.Snapshot, sprintID domain.SprintID, teamID domain.TeamID) (TeamLoad, error) {
	sprint, ok := snap.Sprint(sprintID)
	if !ok {
		return TeamLoad{}, apperrors.ErrSprintNotFound
	}
	if _, ok := snap.Team(teamID); !ok {
		return TeamLoad{}, apperrors.ErrTeamNotFound
	}
	alloc, ok := sprint.Allocation(teamID)
	if !ok {
		return TeamLoad{}, apperrors.ErrTeamNotInSprint
	}
	return LoadFor(alloc), nil
}

// Progress returns the sprint-wide completion ratio.
func (r CapacityReport) Progress() float64 {
	return Progress(r.CompletedPoints, r.TotalPoints)
}
