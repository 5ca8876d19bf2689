package domain

import "sort"

// TeamSelection is the caller-supplied set of visible teams. Records are never
// removed from a snapshot; analyzers consult the selection instead.
type TeamSelection map[TeamID]struct{}

// NewTeamSelection builds a selection from the given ids.
func NewTeamSelection(ids ...TeamID) TeamSelection {
	sel := make(TeamSelection, len(ids))
	for _, id := range ids {
		sel[id] = struct{}{}
	}
	return sel
}

// AllTeams selects every team in the snapshot.
func AllTeams(s *Snapshot) TeamSelection {
	sel := make(TeamSelection, len(s.teams))
	for _, t := range s.teams {
		sel[t.ID] = struct{}{}
	}
	return sel
}

// Contains reports whether id is selected.
func (s TeamSelection) Contains(id TeamID) bool {
	_, ok := s[id]
	return ok
}

// Without returns a copy of the selection with id removed.
func (s TeamSelection) Without(id TeamID) TeamSelection {
	out := make(TeamSelection, len(s))
	for k := range s {
		if k != id {
			out[k] = struct{}{}
		}
	}
	return out
}

// IDs returns the selected ids in lexical order.
func (s TeamSelection) IDs() []TeamID {
	ids := make([]TeamID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
