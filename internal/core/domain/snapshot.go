package domain

import (
	"math"

	apperrors "github.com/lorrc/coordination-backend/internal/core/errors"
)

// SnapshotData is the raw set of collections a data source supplies.
type SnapshotData struct {
	Teams        []Team
	Features     []Feature
	Alignment    []AlignmentEntry
	Duplicates   []DuplicateCandidate
	Dependencies []Dependency
	Sprints      []Sprint
}

// Snapshot is an immutable, validated view over SnapshotData. It keeps the
// supplied ordering for display and id indexes for lookups. A Snapshot is
// safe for concurrent readers; every accessor returns a copy.
type Snapshot struct {
	teams        []Team
	features     []Feature
	alignment    []AlignmentEntry
	duplicates   []DuplicateCandidate
	dependencies []Dependency
	sprints      []Sprint

	teamIdx       map[TeamID]int
	featureIdx    map[FeatureID]int
	alignmentIdx  map[AlignmentKey]int
	candidateIdx  map[CandidateID]int
	dependencyIdx map[DependencyID]int
	sprintIdx     map[SprintID]int
}

// NewSnapshot validates data and builds a Snapshot. Any integrity fault
// rejects the whole snapshot with an *apperrors.IntegrityErrors listing
// every fault found.
func NewSnapshot(data SnapshotData) (*Snapshot, error) {
	faults := apperrors.NewIntegrityErrors()

	s := &Snapshot{
		teams:         append([]Team(nil), data.Teams...),
		features:      append([]Feature(nil), data.Features...),
		alignment:     append([]AlignmentEntry(nil), data.Alignment...),
		duplicates:    make([]DuplicateCandidate, 0, len(data.Duplicates)),
		dependencies:  make([]Dependency, 0, len(data.Dependencies)),
		sprints:       make([]Sprint, 0, len(data.Sprints)),
		teamIdx:       make(map[TeamID]int, len(data.Teams)),
		featureIdx:    make(map[FeatureID]int, len(data.Features)),
		alignmentIdx:  make(map[AlignmentKey]int, len(data.Alignment)),
		candidateIdx:  make(map[CandidateID]int, len(data.Duplicates)),
		dependencyIdx: make(map[DependencyID]int, len(data.Dependencies)),
		sprintIdx:     make(map[SprintID]int, len(data.Sprints)),
	}
	for _, c := range data.Duplicates {
		s.duplicates = append(s.duplicates, cloneCandidate(c))
	}
	for _, d := range data.Dependencies {
		s.dependencies = append(s.dependencies, cloneDependency(d))
	}
	for _, sp := range data.Sprints {
		s.sprints = append(s.sprints, cloneSprint(sp))
	}

	s.indexTeams(faults)
	s.indexFeatures(faults)
	s.indexAlignment(faults)
	s.indexDuplicates(faults)
	s.indexDependencies(faults)
	s.indexSprints(faults)

	if faults.HasFaults() {
		return nil, faults
	}
	return s, nil
}

func (s *Snapshot) indexTeams(faults *apperrors.IntegrityErrors) {
	for i, t := range s.teams {
		if t.ID == "" {
			faults.Addf("team at position %d has an empty id", i)
			continue
		}
		if _, dup := s.teamIdx[t.ID]; dup {
			faults.Addf("duplicate team id %q", t.ID)
			continue
		}
		if t.MemberCount < 0 {
			faults.Addf("team %q has negative member count %d", t.ID, t.MemberCount)
		}
		s.teamIdx[t.ID] = i
	}
}

func (s *Snapshot) indexFeatures(faults *apperrors.IntegrityErrors) {
	for i, f := range s.features {
		if f.ID == "" {
			faults.Addf("feature at position %d has an empty id", i)
			continue
		}
		if _, dup := s.featureIdx[f.ID]; dup {
			faults.Addf("duplicate feature id %q", f.ID)
			continue
		}
		if !f.Priority.IsValid() {
			faults.Addf("feature %q has unknown priority %q", f.ID, f.Priority)
		}
		s.featureIdx[f.ID] = i
	}
}

func (s *Snapshot) indexAlignment(faults *apperrors.IntegrityErrors) {
	for i, e := range s.alignment {
		if _, ok := s.teamIdx[e.TeamID]; !ok {
			faults.Addf("alignment entry (%s, %s) references unknown team", e.TeamID, e.FeatureID)
		}
		if _, ok := s.featureIdx[e.FeatureID]; !ok {
			faults.Addf("alignment entry (%s, %s) references unknown feature", e.TeamID, e.FeatureID)
		}
		if !e.Status.IsValid() {
			faults.Addf("alignment entry (%s, %s) has unknown status %q", e.TeamID, e.FeatureID, e.Status)
		}
		if e.IssueCount < 0 || e.StoryPoints < 0 {
			faults.Addf("alignment entry (%s, %s) has negative counts", e.TeamID, e.FeatureID)
		}
		if _, dup := s.alignmentIdx[e.Key()]; dup {
			faults.Addf("duplicate alignment entry (%s, %s)", e.TeamID, e.FeatureID)
			continue
		}
		s.alignmentIdx[e.Key()] = i
	}
}

func (s *Snapshot) indexDuplicates(faults *apperrors.IntegrityErrors) {
	for i, c := range s.duplicates {
		if c.ID == "" {
			faults.Addf("duplicate candidate at position %d has an empty id", i)
			continue
		}
		if _, dup := s.candidateIdx[c.ID]; dup {
			faults.Addf("duplicate candidate id %q", c.ID)
			continue
		}
		for _, item := range []WorkItemRef{c.IssueA, c.IssueB} {
			if _, ok := s.teamIdx[item.TeamID]; !ok {
				faults.Addf("candidate %q work item %q references unknown team %q", c.ID, item.Key, item.TeamID)
			}
		}
		if c.IssueA.Key == c.IssueB.Key {
			faults.Addf("candidate %q pairs work item %q with itself", c.ID, c.IssueA.Key)
		}
		if c.Score < 0 || c.Score > 1 || math.IsNaN(c.Score) {
			faults.Addf("candidate %q score %v is outside [0,1]", c.ID, c.Score)
		}
		for _, r := range c.Reasons {
			if !r.IsValid() {
				faults.Addf("candidate %q has unknown reason %q", c.ID, r)
			}
		}
		s.candidateIdx[c.ID] = i
	}
}

func (s *Snapshot) indexDependencies(faults *apperrors.IntegrityErrors) {
	for i, d := range s.dependencies {
		if d.ID == "" {
			faults.Addf("dependency at position %d has an empty id", i)
			continue
		}
		if _, dup := s.dependencyIdx[d.ID]; dup {
			faults.Addf("duplicate dependency id %q", d.ID)
			continue
		}
		if !d.Type.IsValid() {
			faults.Addf("dependency %q has unknown type %q", d.ID, d.Type)
		}
		if !d.RiskLevel.IsValid() {
			faults.Addf("dependency %q has unknown risk level %q", d.ID, d.RiskLevel)
		}
		if d.IssueCount < 0 {
			faults.Addf("dependency %q has negative issue count", d.ID)
		}
		if len(d.Teams) == 0 {
			faults.Addf("dependency %q is referenced by no team", d.ID)
		}
		seen := make(map[TeamID]struct{}, len(d.Teams))
		for _, teamID := range d.Teams {
			if _, ok := s.teamIdx[teamID]; !ok {
				faults.Addf("dependency %q references unknown team %q", d.ID, teamID)
			}
			if _, dup := seen[teamID]; dup {
				faults.Addf("dependency %q lists team %q more than once", d.ID, teamID)
			}
			seen[teamID] = struct{}{}
		}
		s.dependencyIdx[d.ID] = i
	}
}

func (s *Snapshot) indexSprints(faults *apperrors.IntegrityErrors) {
	for i, sp := range s.sprints {
		if _, dup := s.sprintIdx[sp.ID]; dup {
			faults.Addf("duplicate sprint id %d", sp.ID)
			continue
		}
		if !sp.State.IsValid() {
			faults.Addf("sprint %d has unknown state %q", sp.ID, sp.State)
		}
		if !sp.StartDate.IsZero() && !sp.EndDate.IsZero() && sp.EndDate.Before(sp.StartDate) {
			faults.Addf("sprint %d ends before it starts", sp.ID)
		}
		seen := make(map[TeamID]struct{}, len(sp.Allocations))
		for _, a := range sp.Allocations {
			if _, ok := s.teamIdx[a.TeamID]; !ok {
				faults.Addf("sprint %d allocation references unknown team %q", sp.ID, a.TeamID)
			}
			if _, dup := seen[a.TeamID]; dup {
				faults.Addf("sprint %d has more than one allocation for team %q", sp.ID, a.TeamID)
			}
			seen[a.TeamID] = struct{}{}
			if a.MemberCount < 1 {
				faults.Addf("sprint %d allocation for team %q has member count %d", sp.ID, a.TeamID, a.MemberCount)
			}
			if a.TotalPoints < 0 || a.CompletedPoints < 0 {
				faults.Addf("sprint %d allocation for team %q has negative points", sp.ID, a.TeamID)
			}
			for _, m := range a.Members {
				if m.AssignedPoints < 0 || m.CompletedPoints < 0 {
					faults.Addf("sprint %d member %q of team %q has negative points", sp.ID, m.Name, a.TeamID)
				}
				if !m.Status.IsValid() {
					faults.Addf("sprint %d member %q of team %q has unknown status %q", sp.ID, m.Name, a.TeamID, m.Status)
				}
			}
		}
		s.sprintIdx[sp.ID] = i
	}
}

// Teams returns all teams in snapshot order.
func (s *Snapshot) Teams() []Team {
	return append([]Team(nil), s.teams...)
}

// Team looks up a team by id.
func (s *Snapshot) Team(id TeamID) (Team, bool) {
	i, ok := s.teamIdx[id]
	if !ok {
		return Team{}, false
	}
	return s.teams[i], true
}

// SelectedTeams returns the teams in sel, in snapshot order.
func (s *Snapshot) SelectedTeams(sel TeamSelection) []Team {
	out := make([]Team, 0, len(sel))
	for _, t := range s.teams {
		if sel.Contains(t.ID) {
			out = append(out, t)
		}
	}
	return out
}

// Features returns all features in snapshot order.
func (s *Snapshot) Features() []Feature {
	return append([]Feature(nil), s.features...)
}

// Feature looks up a feature by id.
func (s *Snapshot) Feature(id FeatureID) (Feature, bool) {
	i, ok := s.featureIdx[id]
	if !ok {
		return Feature{}, false
	}
	return s.features[i], true
}

// Entries returns all alignment entries in snapshot order.
func (s *Snapshot) Entries() []AlignmentEntry {
	return append([]AlignmentEntry(nil), s.alignment...)
}

// Entry returns the alignment entry for (teamID, featureID). A missing entry
// is a coverage gap.
func (s *Snapshot) Entry(teamID TeamID, featureID FeatureID) (AlignmentEntry, bool) {
	i, ok := s.alignmentIdx[AlignmentKey{TeamID: teamID, FeatureID: featureID}]
	if !ok {
		return AlignmentEntry{}, false
	}
	return s.alignment[i], true
}

// Duplicates returns all duplicate candidates in snapshot order.
func (s *Snapshot) Duplicates() []DuplicateCandidate {
	out := make([]DuplicateCandidate, 0, len(s.duplicates))
	for _, c := range s.duplicates {
		out = append(out, cloneCandidate(c))
	}
	return out
}

// Candidate looks up a duplicate candidate by id.
func (s *Snapshot) Candidate(id CandidateID) (DuplicateCandidate, bool) {
	i, ok := s.candidateIdx[id]
	if !ok {
		return DuplicateCandidate{}, false
	}
	return cloneCandidate(s.duplicates[i]), true
}

// Dependencies returns all dependencies in snapshot order.
func (s *Snapshot) Dependencies() []Dependency {
	out := make([]Dependency, 0, len(s.dependencies))
	for _, d := range s.dependencies {
		out = append(out, cloneDependency(d))
	}
	return out
}

// Dependency looks up a dependency by id.
func (s *Snapshot) Dependency(id DependencyID) (Dependency, bool) {
	i, ok := s.dependencyIdx[id]
	if !ok {
		return Dependency{}, false
	}
	return cloneDependency(s.dependencies[i]), true
}

// Sprints returns all sprints in snapshot order.
func (s *Snapshot) Sprints() []Sprint {
	out := make([]Sprint, 0, len(s.sprints))
	for _, sp := range s.sprints {
		out = append(out, cloneSprint(sp))
	}
	return out
}

// Sprint looks up a sprint by id.
func (s *Snapshot) Sprint(id SprintID) (Sprint, bool) {
	i, ok := s.sprintIdx[id]
	if !ok {
		return Sprint{}, false
	}
	return cloneSprint(s.sprints[i]), true
}

// ActiveSprint returns the first sprint in the active state.
func (s *Snapshot) ActiveSprint() (Sprint, bool) {
	for _, sp := range s.sprints {
		if sp.State == SprintActive {
			return cloneSprint(sp), true
		}
	}
	return Sprint{}, false
}

func cloneCandidate(c DuplicateCandidate) DuplicateCandidate {
	c.Reasons = append([]ReasonTag(nil), c.Reasons...)
	return c
}

func cloneDependency(d Dependency) Dependency {
	d.Teams = append([]TeamID(nil), d.Teams...)
	return d
}

func cloneSprint(sp Sprint) Sprint {
	allocs := make([]TeamSprintAllocation, 0, len(sp.Allocations))
	for _, a := range sp.Allocations {
		a.Members = append([]MemberAllocation(nil), a.Members...)
		allocs = append(allocs, a)
	}
	sp.Allocations = allocs
	return sp
}
