package seed

import (
	"fmt"
	"time"

	"github.com/lorrc/coordination-backend/internal/core/domain"
)

// DateLayout is the calendar-date format used for sprint boundaries.
const DateLayout = "2006-01-02"

// Document is the YAML shape of a coordination snapshot.
type Document struct {
	Teams        []TeamDoc       `yaml:"teams"`
	Features     []FeatureDoc    `yaml:"features"`
	Alignment    []AlignmentDoc  `yaml:"alignment"`
	Duplicates   []DuplicateDoc  `yaml:"duplicates"`
	Dependencies []DependencyDoc `yaml:"dependencies"`
	Sprints      []SprintDoc     `yaml:"sprints"`
}

type TeamDoc struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Lead        string `yaml:"lead,omitempty"`
	Color       string `yaml:"color,omitempty"`
	MemberCount int    `yaml:"memberCount"`
	ProjectKey  string `yaml:"projectKey,omitempty"`
	Focus       string `yaml:"focus,omitempty"`
}

type FeatureDoc struct {
	ID           string `yaml:"id"`
	Key          string `yaml:"key"`
	Name         string `yaml:"name"`
	Priority     string `yaml:"priority"`
	TargetPeriod string `yaml:"targetPeriod,omitempty"`
	Description  string `yaml:"description,omitempty"`
}

type AlignmentDoc struct {
	Team        string `yaml:"team"`
	Feature     string `yaml:"feature"`
	IssueCount  int    `yaml:"issues"`
	StoryPoints int    `yaml:"points"`
	Status      string `yaml:"status"`
}

type WorkItemDoc struct {
	Key      string `yaml:"key"`
	Summary  string `yaml:"summary"`
	Team     string `yaml:"team"`
	Assignee string `yaml:"assignee,omitempty"`
	Type     string `yaml:"type,omitempty"`
}

type DuplicateDoc struct {
	ID      string      `yaml:"id"`
	Score   float64     `yaml:"score"`
	Reasons []string    `yaml:"reasons,flow"`
	IssueA  WorkItemDoc `yaml:"issueA"`
	IssueB  WorkItemDoc `yaml:"issueB"`
}

type DependencyDoc struct {
	ID         string   `yaml:"id"`
	Name       string   `yaml:"name"`
	Type       string   `yaml:"type"`
	Teams      []string `yaml:"teams,flow"`
	IssueCount int      `yaml:"issues"`
	Risk       string   `yaml:"risk"`
}

type MemberDoc struct {
	Name      string `yaml:"name"`
	Avatar    string `yaml:"avatar,omitempty"`
	Assigned  int    `yaml:"assigned"`
	Completed int    `yaml:"completed"`
	Status    string `yaml:"status"`
}

type AllocationDoc struct {
	Team            string      `yaml:"team"`
	TotalPoints     int         `yaml:"totalPoints"`
	CompletedPoints int         `yaml:"completedPoints"`
	MemberCount     int         `yaml:"memberCount"`
	Members         []MemberDoc `yaml:"members,omitempty"`
}

type SprintDoc struct {
	ID    int             `yaml:"id"`
	Name  string          `yaml:"name"`
	State string          `yaml:"state"`
	Start string          `yaml:"start,omitempty"`
	End   string          `yaml:"end,omitempty"`
	Teams []AllocationDoc `yaml:"teams"`
}

// ToDomain converts the document into snapshot data. Only date parsing can
// fail here; referential checks are left to domain.NewSnapshot.
func (d Document) ToDomain() (*domain.SnapshotData, error) {
	data := &domain.SnapshotData{
		Teams:        make([]domain.Team, 0, len(d.Teams)),
		Features:     make([]domain.Feature, 0, len(d.Features)),
		Alignment:    make([]domain.AlignmentEntry, 0, len(d.Alignment)),
		Duplicates:   make([]domain.DuplicateCandidate, 0, len(d.Duplicates)),
		Dependencies: make([]domain.Dependency, 0, len(d.Dependencies)),
		Sprints:      make([]domain.Sprint, 0, len(d.Sprints)),
	}

	for _, t := range d.Teams {
		data.Teams = append(data.Teams, domain.Team{
			ID:          domain.TeamID(t.ID),
			Name:        t.Name,
			Lead:        t.Lead,
			Color:       t.Color,
			MemberCount: t.MemberCount,
			ProjectKey:  t.ProjectKey,
			Focus:       t.Focus,
		})
	}

	for _, f := range d.Features {
		data.Features = append(data.Features, domain.Feature{
			ID:           domain.FeatureID(f.ID),
			Key:          f.Key,
			Name:         f.Name,
			Priority:     domain.FeaturePriority(f.Priority),
			TargetPeriod: f.TargetPeriod,
			Description:  f.Description,
		})
	}

	for _, a := range d.Alignment {
		data.Alignment = append(data.Alignment, domain.AlignmentEntry{
			TeamID:      domain.TeamID(a.Team),
			FeatureID:   domain.FeatureID(a.Feature),
			IssueCount:  a.IssueCount,
			StoryPoints: a.StoryPoints,
			Status:      domain.AlignmentStatus(a.Status),
		})
	}

	for _, c := range d.Duplicates {
		reasons := make([]domain.ReasonTag, 0, len(c.Reasons))
		for _, r := range c.Reasons {
			reasons = append(reasons, domain.ReasonTag(r))
		}
		data.Duplicates = append(data.Duplicates, domain.DuplicateCandidate{
			ID:      domain.CandidateID(c.ID),
			IssueA:  c.IssueA.toDomain(),
			IssueB:  c.IssueB.toDomain(),
			Score:   c.Score,
			Reasons: reasons,
		})
	}

	for _, dep := range d.Dependencies {
		teams := make([]domain.TeamID, 0, len(dep.Teams))
		for _, t := range dep.Teams {
			teams = append(teams, domain.TeamID(t))
		}
		data.Dependencies = append(data.Dependencies, domain.Dependency{
			ID:         domain.DependencyID(dep.ID),
			Name:       dep.Name,
			Type:       domain.DependencyType(dep.Type),
			Teams:      teams,
			IssueCount: dep.IssueCount,
			RiskLevel:  domain.RiskLevel(dep.Risk),
		})
	}

	for _, s := range d.Sprints {
		sprint, err := s.toDomain()
		if err != nil {
			return nil, err
		}
		data.Sprints = append(data.Sprints, sprint)
	}

	return data, nil
}

func (w WorkItemDoc) toDomain() domain.WorkItemRef {
	return domain.WorkItemRef{
		Key:      w.Key,
		Summary:  w.Summary,
		TeamID:   domain.TeamID(w.Team),
		Assignee: w.Assignee,
		Type:     w.Type,
	}
}

func (s SprintDoc) toDomain() (domain.Sprint, error) {
	start, err := parseDate(s.Start)
	if err != nil {
		return domain.Sprint{}, fmt.Errorf("sprint %d start: %w", s.ID, err)
	}
	end, err := parseDate(s.End)
	if err != nil {
		return domain.Sprint{}, fmt.Errorf("sprint %d end: %w", s.ID, err)
	}

	sprint := domain.Sprint{
		ID:          domain.SprintID(s.ID),
		Name:        s.Name,
		State:       domain.SprintState(s.State),
		StartDate:   start,
		EndDate:     end,
		Allocations: make([]domain.TeamSprintAllocation, 0, len(s.Teams)),
	}

	for _, a := range s.Teams {
		members := make([]domain.MemberAllocation, 0, len(a.Members))
		for _, m := range a.Members {
			members = append(members, domain.MemberAllocation{
				Name:            m.Name,
				Avatar:          m.Avatar,
				AssignedPoints:  m.Assigned,
				CompletedPoints: m.Completed,
				Status:          domain.MemberStatus(m.Status),
			})
		}
		sprint.Allocations = append(sprint.Allocations, domain.TeamSprintAllocation{
			TeamID:          domain.TeamID(a.Team),
			TotalPoints:     a.TotalPoints,
			CompletedPoints: a.CompletedPoints,
			MemberCount:     a.MemberCount,
			Members:         members,
		})
	}

	return sprint, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(DateLayout, s)
}

// FromDomain converts snapshot data into its YAML document form.
func FromDomain(data *domain.SnapshotData) Document {
	var doc Document

	for _, t := range data.Teams {
		doc.Teams = append(doc.Teams, TeamDoc{
			ID:          t.ID.String(),
			Name:        t.Name,
			Lead:        t.Lead,
			Color:       t.Color,
			MemberCount: t.MemberCount,
			ProjectKey:  t.ProjectKey,
			Focus:       t.Focus,
		})
	}

	for _, f := range data.Features {
		doc.Features = append(doc.Features, FeatureDoc{
			ID:           f.ID.String(),
			Key:          f.Key,
			Name:         f.Name,
			Priority:     f.Priority.String(),
			TargetPeriod: f.TargetPeriod,
			Description:  f.Description,
		})
	}

	for _, a := range data.Alignment {
		doc.Alignment = append(doc.Alignment, AlignmentDoc{
			Team:        a.TeamID.String(),
			Feature:     a.FeatureID.String(),
			IssueCount:  a.IssueCount,
			StoryPoints: a.StoryPoints,
			Status:      a.Status.String(),
		})
	}

	for _, c := range data.Duplicates {
		reasons := make([]string, 0, len(c.Reasons))
		for _, r := range c.Reasons {
			reasons = append(reasons, r.String())
		}
		doc.Duplicates = append(doc.Duplicates, DuplicateDoc{
			ID:      c.ID.String(),
			Score:   c.Score,
			Reasons: reasons,
			IssueA:  workItemDoc(c.IssueA),
			IssueB:  workItemDoc(c.IssueB),
		})
	}

	for _, dep := range data.Dependencies {
		teams := make([]string, 0, len(dep.Teams))
		for _, t := range dep.Teams {
			teams = append(teams, t.String())
		}
		doc.Dependencies = append(doc.Dependencies, DependencyDoc{
			ID:         dep.ID.String(),
			Name:       dep.Name,
			Type:       dep.Type.String(),
			Teams:      teams,
			IssueCount: dep.IssueCount,
			Risk:       dep.RiskLevel.String(),
		})
	}

	for _, s := range data.Sprints {
		sd := SprintDoc{
			ID:    int(s.ID),
			Name:  s.Name,
			State: s.State.String(),
			Start: formatDate(s.StartDate),
			End:   formatDate(s.EndDate),
		}
		for _, a := range s.Allocations {
			ad := AllocationDoc{
				Team:            a.TeamID.String(),
				TotalPoints:     a.TotalPoints,
				CompletedPoints: a.CompletedPoints,
				MemberCount:     a.MemberCount,
			}
			for _, m := range a.Members {
				ad.Members = append(ad.Members, MemberDoc{
					Name:      m.Name,
					Avatar:    m.Avatar,
					Assigned:  m.AssignedPoints,
					Completed: m.CompletedPoints,
					Status:    m.Status.String(),
				})
			}
			sd.Teams = append(sd.Teams, ad)
		}
		doc.Sprints = append(doc.Sprints, sd)
	}

	return doc
}

func workItemDoc(w domain.WorkItemRef) WorkItemDoc {
	return WorkItemDoc{
		Key:      w.Key,
		Summary:  w.Summary,
		Team:     w.TeamID.String(),
		Assignee: w.Assignee,
		Type:     w.Type,
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
