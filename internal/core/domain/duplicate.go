package domain

// CandidateID identifies a duplicate-work candidate.
type CandidateID string

func (id CandidateID) String() string {
	return string(id)
}

// ReasonTag names a signal category that contributed to a similarity score.
type ReasonTag string

const (
	ReasonTitle      ReasonTag = "title"
	ReasonLabels     ReasonTag = "labels"
	ReasonComponents ReasonTag = "components"
	ReasonEpic       ReasonTag = "epic"
)

// IsValid reports whether r belongs to the fixed reason vocabulary.
func (r ReasonTag) IsValid() bool {
	switch r {
	case ReasonTitle, ReasonLabels, ReasonComponents, ReasonEpic:
		return true
	}
	return false
}

func (r ReasonTag) String() string {
	return string(r)
}

// WorkItemRef is a reference to a ticket in the upstream tracker.
type WorkItemRef struct {
	Key      string
	Summary  string
	TeamID   TeamID
	Assignee string
	Type     string
}

// DuplicateCandidate is a pre-scored pair of work items that may overlap.
// The pair is unordered.
type DuplicateCandidate struct {
	ID      CandidateID
	IssueA  WorkItemRef
	IssueB  WorkItemRef
	Score   float64
	Reasons []ReasonTag
}

// IsCrossTeam reports whether the two work items belong to different teams.
func (c DuplicateCandidate) IsCrossTeam() bool {
	return c.IssueA.TeamID != c.IssueB.TeamID
}

// HasReason reports whether tag contributed to the score.
func (c DuplicateCandidate) HasReason(tag ReasonTag) bool {
	for _, r := range c.Reasons {
		if r == tag {
			return true
		}
	}
	return false
}

// DuplicateTier buckets similarity scores by how urgently they need review.
type DuplicateTier string

const (
	TierCritical DuplicateTier = "critical"
	TierHigh     DuplicateTier = "high"
	TierPossible DuplicateTier = "possible"
)

// IsValid reports whether t is a known duplicate tier.
func (t DuplicateTier) IsValid() bool {
	switch t {
	case TierCritical, TierHigh, TierPossible:
		return true
	}
	return false
}

// Severity orders tiers: higher is more severe.
func (t DuplicateTier) Severity() int {
	switch t {
	case TierCritical:
		return 2
	case TierHigh:
		return 1
	default:
		return 0
	}
}

func (t DuplicateTier) String() string {
	return string(t)
}
