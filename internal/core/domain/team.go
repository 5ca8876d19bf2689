package domain

// TeamID identifies a team across every collection in a snapshot.
type TeamID string

func (id TeamID) String() string {
	return string(id)
}

// Team is immutable reference data describing one delivery team.
type Team struct {
	ID          TeamID
	Name        string
	Lead        string
	Color       string
	MemberCount int
	ProjectKey  string
	Focus       string
}
