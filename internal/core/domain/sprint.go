package domain

import "time"

// SprintID identifies a sprint.
type SprintID int

// SprintState is the lifecycle state of a sprint.
type SprintState string

const (
	SprintActive   SprintState = "active"
	SprintUpcoming SprintState = "upcoming"
)

// IsValid reports whether s is a known sprint state.
func (s SprintState) IsValid() bool {
	return s == SprintActive || s == SprintUpcoming
}

func (s SprintState) String() string {
	return string(s)
}

// MemberStatus is the load status authored for a member in the tracker.
type MemberStatus string

const (
	MemberOverloaded MemberStatus = "overloaded"
	MemberOptimal    MemberStatus = "optimal"
	MemberAvailable  MemberStatus = "available"
)

// IsValid reports whether s is a known member status.
func (s MemberStatus) IsValid() bool {
	switch s {
	case MemberOverloaded, MemberOptimal, MemberAvailable:
		return true
	}
	return false
}

func (s MemberStatus) String() string {
	return string(s)
}

// LoadTier is the derived load classification of a team or a member.
type LoadTier string

const (
	LoadCritical   LoadTier = "critical"
	LoadOverloaded LoadTier = "overloaded"
	LoadOptimal    LoadTier = "optimal"
	LoadLight      LoadTier = "light"
	LoadAvailable  LoadTier = "available"
)

// IsValid reports whether t is a known load tier.
func (t LoadTier) IsValid() bool {
	switch t {
	case LoadCritical, LoadOverloaded, LoadOptimal, LoadLight, LoadAvailable:
		return true
	}
	return false
}

// Severity orders load tiers: higher is more loaded.
func (t LoadTier) Severity() int {
	switch t {
	case LoadCritical:
		return 4
	case LoadOverloaded:
		return 3
	case LoadOptimal:
		return 2
	case LoadLight:
		return 1
	default:
		return 0
	}
}

// IsOverloaded is true for critical and overloaded.
func (t LoadTier) IsOverloaded() bool {
	return t == LoadCritical || t == LoadOverloaded
}

func (t LoadTier) String() string {
	return string(t)
}

// MemberAllocation is one developer's share of a team's sprint commitment.
type MemberAllocation struct {
	Name            string
	Avatar          string
	AssignedPoints  int
	CompletedPoints int
	Status          MemberStatus
}

// TeamSprintAllocation is a team's commitment within a sprint.
// CompletedPoints may exceed TotalPoints; that is a data-quality anomaly,
// not an integrity fault.
type TeamSprintAllocation struct {
	TeamID          TeamID
	TotalPoints     int
	CompletedPoints int
	MemberCount     int
	Members         []MemberAllocation
}

// Sprint groups the per-team allocations for one iteration.
type Sprint struct {
	ID          SprintID
	Name        string
	State       SprintState
	StartDate   time.Time
	EndDate     time.Time
	Allocations []TeamSprintAllocation
}

// Allocation returns the allocation for teamID, if the team is in the sprint.
func (s Sprint) Allocation(teamID TeamID) (TeamSprintAllocation, bool) {
	for _, a := range s.Allocations {
		if a.TeamID == teamID {
			return a, true
		}
	}
	return TeamSprintAllocation{}, false
}
