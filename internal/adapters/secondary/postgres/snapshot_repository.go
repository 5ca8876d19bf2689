package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lorrc/coordination-backend/internal/core/domain"
	"github.com/lorrc/coordination-backend/internal/core/ports"
)

const (
	selectTeams = `
SELECT id, name, lead, color, member_count, project_key, focus
FROM teams ORDER BY position, id`

	selectFeatures = `
SELECT id, key, name, priority, target_period, description
FROM features ORDER BY position, id`

	selectAlignment = `
SELECT team_id, feature_id, issue_count, story_points, status
FROM alignment_entries ORDER BY position, feature_id, team_id`

	selectDuplicates = `
SELECT id, score, reasons,
       a_key, a_summary, a_team_id, a_assignee, a_type,
       b_key, b_summary, b_team_id, b_assignee, b_type
FROM duplicate_candidates ORDER BY position, id`

	selectDependencies = `
SELECT id, name, type, issue_count, risk_level
FROM dependencies ORDER BY position, id`

	selectDependencyTeams = `
SELECT dependency_id, team_id
FROM dependency_teams ORDER BY dependency_id, position`

	selectSprints = `
SELECT id, name, state, start_date, end_date
FROM sprints ORDER BY id`

	selectAllocations = `
SELECT sprint_id, team_id, total_points, completed_points, member_count
FROM sprint_allocations ORDER BY sprint_id, position, team_id`

	selectMembers = `
SELECT sprint_id, team_id, name, avatar, assigned_points, completed_points, status
FROM sprint_members ORDER BY sprint_id, team_id, position`
)

// SnapshotRepository reads a coordination snapshot from the reporting
// schema. It never writes.
type SnapshotRepository struct {
	pool *pgxpool.Pool
}

var _ ports.SnapshotSource = (*SnapshotRepository)(nil)

func NewSnapshotRepository(pool *pgxpool.Pool) ports.SnapshotSource {
	return &SnapshotRepository{pool: pool}
}

func (r *SnapshotRepository) Name() string {
	return "postgres"
}

// Load reads every collection inside a single read-only transaction.
func (r *SnapshotRepository) Load(ctx context.Context) (*domain.SnapshotData, error) {
	var data *domain.SnapshotData
	err := WithReadOnlyTransaction(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		data, err = LoadSnapshotData(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// LoadSnapshotData reads all collections through q.
func LoadSnapshotData(ctx context.Context, q DBTX) (*domain.SnapshotData, error) {
	data := &domain.SnapshotData{}
	var err error

	if data.Teams, err = loadTeams(ctx, q); err != nil {
		return nil, fmt.Errorf("load teams: %w", err)
	}
	if data.Features, err = loadFeatures(ctx, q); err != nil {
		return nil, fmt.Errorf("load features: %w", err)
	}
	if data.Alignment, err = loadAlignment(ctx, q); err != nil {
		return nil, fmt.Errorf("load alignment: %w", err)
	}
	if data.Duplicates, err = loadDuplicates(ctx, q); err != nil {
		return nil, fmt.Errorf("load duplicates: %w", err)
	}
	if data.Dependencies, err = loadDependencies(ctx, q); err != nil {
		return nil, fmt.Errorf("load dependencies: %w", err)
	}
	if data.Sprints, err = loadSprints(ctx, q); err != nil {
		return nil, fmt.Errorf("load sprints: %w", err)
	}

	return data, nil
}

func loadTeams(ctx context.Context, q DBTX) ([]domain.Team, error) {
	rows, err := q.Query(ctx, selectTeams)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]domain.Team, 0)
	for rows.Next() {
		var t domain.Team
		var id string
		if err := rows.Scan(&id, &t.Name, &t.Lead, &t.Color, &t.MemberCount, &t.ProjectKey, &t.Focus); err != nil {
			return nil, err
		}
		t.ID = domain.TeamID(id)
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func loadFeatures(ctx context.Context, q DBTX) ([]domain.Feature, error) {
	rows, err := q.Query(ctx, selectFeatures)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	features := make([]domain.Feature, 0)
	for rows.Next() {
		var f domain.Feature
		var id, priority string
		if err := rows.Scan(&id, &f.Key, &f.Name, &priority, &f.TargetPeriod, &f.Description); err != nil {
			return nil, err
		}
		f.ID = domain.FeatureID(id)
		f.Priority = domain.FeaturePriority(priority)
		features = append(features, f)
	}
	return features, rows.Err()
}

func loadAlignment(ctx context.Context, q DBTX) ([]domain.AlignmentEntry, error) {
	rows, err := q.Query(ctx, selectAlignment)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.AlignmentEntry, 0)
	for rows.Next() {
		var e domain.AlignmentEntry
		var teamID, featureID, status string
		if err := rows.Scan(&teamID, &featureID, &e.IssueCount, &e.StoryPoints, &status); err != nil {
			return nil, err
		}
		e.TeamID = domain.TeamID(teamID)
		e.FeatureID = domain.FeatureID(featureID)
		e.Status = domain.AlignmentStatus(status)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func loadDuplicates(ctx context.Context, q DBTX) ([]domain.DuplicateCandidate, error) {
	rows, err := q.Query(ctx, selectDuplicates)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := make([]domain.DuplicateCandidate, 0)
	for rows.Next() {
		var c domain.DuplicateCandidate
		var id, aTeam, bTeam string
		var reasons []string
		if err := rows.Scan(
			&id, &c.Score, &reasons,
			&c.IssueA.Key, &c.IssueA.Summary, &aTeam, &c.IssueA.Assignee, &c.IssueA.Type,
			&c.IssueB.Key, &c.IssueB.Summary, &bTeam, &c.IssueB.Assignee, &c.IssueB.Type,
		); err != nil {
			return nil, err
		}
		c.ID = domain.CandidateID(id)
		c.IssueA.TeamID = domain.TeamID(aTeam)
		c.IssueB.TeamID = domain.TeamID(bTeam)
		c.Reasons = make([]domain.ReasonTag, 0, len(reasons))
		for _, reason := range reasons {
			c.Reasons = append(c.Reasons, domain.ReasonTag(reason))
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

func loadDependencies(ctx context.Context, q DBTX) ([]domain.Dependency, error) {
	rows, err := q.Query(ctx, selectDependencies)
	if err != nil {
		return nil, err
	}

	deps := make([]domain.Dependency, 0)
	index := make(map[domain.DependencyID]int)
	for rows.Next() {
		var d domain.Dependency
		var id, depType, risk string
		if err := rows.Scan(&id, &d.Name, &depType, &d.IssueCount, &risk); err != nil {
			rows.Close()
			return nil, err
		}
		d.ID = domain.DependencyID(id)
		d.Type = domain.DependencyType(depType)
		d.RiskLevel = domain.RiskLevel(risk)
		d.Teams = make([]domain.TeamID, 0)
		index[d.ID] = len(deps)
		deps = append(deps, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = q.Query(ctx, selectDependencyTeams)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var depID, teamID string
		if err := rows.Scan(&depID, &teamID); err != nil {
			return nil, err
		}
		i, ok := index[domain.DependencyID(depID)]
		if !ok {
			continue
		}
		deps[i].Teams = append(deps[i].Teams, domain.TeamID(teamID))
	}
	return deps, rows.Err()
}

type allocationKey struct {
	sprint domain.SprintID
	team   domain.TeamID
}

func loadSprints(ctx context.Context, q DBTX) ([]domain.Sprint, error) {
	rows, err := q.Query(ctx, selectSprints)
	if err != nil {
		return nil, err
	}

	sprints := make([]domain.Sprint, 0)
	sprintIndex := make(map[domain.SprintID]int)
	for rows.Next() {
		var s domain.Sprint
		var id int
		var state string
		var start, end pgtype.Date
		if err := rows.Scan(&id, &s.Name, &state, &start, &end); err != nil {
			rows.Close()
			return nil, err
		}
		s.ID = domain.SprintID(id)
		s.State = domain.SprintState(state)
		if start.Valid {
			s.StartDate = start.Time
		}
		if end.Valid {
			s.EndDate = end.Time
		}
		s.Allocations = make([]domain.TeamSprintAllocation, 0)
		sprintIndex[s.ID] = len(sprints)
		sprints = append(sprints, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = q.Query(ctx, selectAllocations)
	if err != nil {
		return nil, err
	}

	allocIndex := make(map[allocationKey]int)
	for rows.Next() {
		var a domain.TeamSprintAllocation
		var sprintID int
		var teamID string
		if err := rows.Scan(&sprintID, &teamID, &a.TotalPoints, &a.CompletedPoints, &a.MemberCount); err != nil {
			rows.Close()
			return nil, err
		}
		si, ok := sprintIndex[domain.SprintID(sprintID)]
		if !ok {
			continue
		}
		a.TeamID = domain.TeamID(teamID)
		a.Members = make([]domain.MemberAllocation, 0)
		allocIndex[allocationKey{domain.SprintID(sprintID), a.TeamID}] = len(sprints[si].Allocations)
		sprints[si].Allocations = append(sprints[si].Allocations, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = q.Query(ctx, selectMembers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var m domain.MemberAllocation
		var sprintID int
		var teamID, status string
		if err := rows.Scan(&sprintID, &teamID, &m.Name, &m.Avatar, &m.AssignedPoints, &m.CompletedPoints, &status); err != nil {
			return nil, err
		}
		m.Status = domain.MemberStatus(status)

		key := allocationKey{domain.SprintID(sprintID), domain.TeamID(teamID)}
		ai, ok := allocIndex[key]
		if !ok {
			continue
		}
		si := sprintIndex[key.sprint]
		sprints[si].Allocations[ai].Members = append(sprints[si].Allocations[ai].Members, m)
	}
	return sprints, rows.Err()
}
