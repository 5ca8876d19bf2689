package domain

// FeatureID identifies a product feature (epic).
type FeatureID string

func (id FeatureID) String() string {
	return string(id)
}

// FeaturePriority represents the business priority of a feature.
type FeaturePriority string

const (
	PriorityCritical FeaturePriority = "critical"
	PriorityHigh     FeaturePriority = "high"
	PriorityMedium   FeaturePriority = "medium"
	PriorityLow      FeaturePriority = "low"
)

// IsValid reports whether p is one of the known priorities.
func (p FeaturePriority) IsValid() bool {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

func (p FeaturePriority) String() string {
	return string(p)
}

// Feature is a cross-team product feature.
type Feature struct {
	ID           FeatureID
	Key          string
	Name         string
	Priority     FeaturePriority
	TargetPeriod string
	Description  string
}

// AlignmentStatus is the delivery status a team reports for a feature.
type AlignmentStatus string

const (
	AlignmentOnTrack    AlignmentStatus = "on-track"
	AlignmentAtRisk     AlignmentStatus = "at-risk"
	AlignmentBehind     AlignmentStatus = "behind"
	AlignmentNotStarted AlignmentStatus = "not-started"
)

// IsValid reports whether s is one of the known alignment statuses.
func (s AlignmentStatus) IsValid() bool {
	switch s {
	case AlignmentOnTrack, AlignmentAtRisk, AlignmentBehind, AlignmentNotStarted:
		return true
	}
	return false
}

// IsOffTrack is true for at-risk and behind.
func (s AlignmentStatus) IsOffTrack() bool {
	return s == AlignmentAtRisk || s == AlignmentBehind
}

func (s AlignmentStatus) String() string {
	return string(s)
}

// AlignmentKey is the composite key of an AlignmentEntry.
type AlignmentKey struct {
	TeamID    TeamID
	FeatureID FeatureID
}

// AlignmentEntry records that a team has work on a feature. A missing entry
// for a (team, feature) pair is a coverage gap.
type AlignmentEntry struct {
	TeamID      TeamID
	FeatureID   FeatureID
	IssueCount  int
	StoryPoints int
	Status      AlignmentStatus
}

// Key returns the composite key of the entry.
func (e AlignmentEntry) Key() AlignmentKey {
	return AlignmentKey{TeamID: e.TeamID, FeatureID: e.FeatureID}
}
