package domain

// DependencyID identifies a shared technical dependency.
type DependencyID string

func (id DependencyID) String() string {
	return string(id)
}

// DependencyType classifies what kind of component a dependency is.
type DependencyType string

const (
	DependencyService  DependencyType = "service"
	DependencyDatabase DependencyType = "database"
	DependencyLibrary  DependencyType = "library"
	DependencyQueue    DependencyType = "queue"
	DependencyStorage  DependencyType = "storage"
)

// IsValid reports whether t is a known dependency type.
func (t DependencyType) IsValid() bool {
	switch t {
	case DependencyService, DependencyDatabase, DependencyLibrary, DependencyQueue, DependencyStorage:
		return true
	}
	return false
}

func (t DependencyType) String() string {
	return string(t)
}

// RiskLevel is the authored coordination risk of a shared dependency.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

// IsValid reports whether r is a known risk level.
func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskHigh, RiskMedium, RiskLow:
		return true
	}
	return false
}

func (r RiskLevel) String() string {
	return string(r)
}

// Dependency is a technical component referenced by one or more teams.
// RiskLevel is authored input and is never recomputed from fan-out.
type Dependency struct {
	ID         DependencyID
	Name       string
	Type       DependencyType
	Teams      []TeamID
	IssueCount int
	RiskLevel  RiskLevel
}
