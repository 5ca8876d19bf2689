package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/lorrc/coordination-backend/internal/adapters/secondary/seed"
	"github.com/lorrc/coordination-backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetSchema(t *testing.T) {
	t.Helper()
	_, err := testPool.Exec(context.Background(), `
TRUNCATE sprint_members, sprint_allocations, sprints, dependency_teams,
         dependencies, duplicate_candidates, alignment_entries, features, teams`)
	require.NoError(t, err)
}

// insertSnapshot writes data the way the reporting export does.
func insertSnapshot(ctx context.Context, q DBTX, data *domain.SnapshotData) error {
	for i, t := range data.Teams {
		if _, err := q.Exec(ctx,
			`INSERT INTO teams (id, name, lead, color, member_count, project_key, focus, position)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			t.ID.String(), t.Name, t.Lead, t.Color, t.MemberCount, t.ProjectKey, t.Focus, i); err != nil {
			return err
		}
	}
	for i, f := range data.Features {
		if _, err := q.Exec(ctx,
			`INSERT INTO features (id, key, name, priority, target_period, description, position)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			f.ID.String(), f.Key, f.Name, f.Priority.String(), f.TargetPeriod, f.Description, i); err != nil {
			return err
		}
	}
	for i, e := range data.Alignment {
		if _, err := q.Exec(ctx,
			`INSERT INTO alignment_entries (team_id, feature_id, issue_count, story_points, status, position)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			e.TeamID.String(), e.FeatureID.String(), e.IssueCount, e.StoryPoints, e.Status.String(), i); err != nil {
			return err
		}
	}
	for i, c := range data.Duplicates {
		reasons := make([]string, 0, len(c.Reasons))
		for _, r := range c.Reasons {
			reasons = append(reasons, r.String())
		}
		if _, err := q.Exec(ctx,
			`INSERT INTO duplicate_candidates (id, score, reasons,
			   a_key, a_summary, a_team_id, a_assignee, a_type,
			   b_key, b_summary, b_team_id, b_assignee, b_type, position)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
			c.ID.String(), c.Score, reasons,
			c.IssueA.Key, c.IssueA.Summary, c.IssueA.TeamID.String(), c.IssueA.Assignee, c.IssueA.Type,
			c.IssueB.Key, c.IssueB.Summary, c.IssueB.TeamID.String(), c.IssueB.Assignee, c.IssueB.Type, i); err != nil {
			return err
		}
	}
	for i, d := range data.Dependencies {
		if _, err := q.Exec(ctx,
			`INSERT INTO dependencies (id, name, type, issue_count, risk_level, position)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			d.ID.String(), d.Name, d.Type.String(), d.IssueCount, d.RiskLevel.String(), i); err != nil {
			return err
		}
		for j, team := range d.Teams {
			if _, err := q.Exec(ctx,
				`INSERT INTO dependency_teams (dependency_id, team_id, position) VALUES ($1, $2, $3)`,
				d.ID.String(), team.String(), j); err != nil {
				return err
			}
		}
	}
	for _, s := range data.Sprints {
		if _, err := q.Exec(ctx,
			`INSERT INTO sprints (id, name, state, start_date, end_date) VALUES ($1, $2, $3, $4, $5)`,
			int(s.ID), s.Name, s.State.String(), s.StartDate, s.EndDate); err != nil {
			return err
		}
		for i, a := range s.Allocations {
			if _, err := q.Exec(ctx,
				`INSERT INTO sprint_allocations (sprint_id, team_id, total_points, completed_points, member_count, position)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				int(s.ID), a.TeamID.String(), a.TotalPoints, a.CompletedPoints, a.MemberCount, i); err != nil {
				return err
			}
			for j, m := range a.Members {
				if _, err := q.Exec(ctx,
					`INSERT INTO sprint_members (sprint_id, team_id, position, name, avatar, assigned_points, completed_points, status)
					 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
					int(s.ID), a.TeamID.String(), j, m.Name, m.Avatar, m.AssignedPoints, m.CompletedPoints, m.Status.String()); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func TestSnapshotRepository_LoadMatchesExport(t *testing.T) {
	resetSchema(t)
	ctx := context.Background()

	want, err := seed.Parse(seed.DefaultYAML())
	require.NoError(t, err)

	err = pgx.BeginFunc(ctx, testPool, func(tx pgx.Tx) error {
		return insertSnapshot(ctx, tx, want)
	})
	require.NoError(t, err)

	repo := NewSnapshotRepository(testPool)
	assert.Equal(t, "postgres", repo.Name())

	got, err := repo.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, want.Teams, got.Teams)
	assert.Equal(t, want.Features, got.Features)
	assert.Equal(t, want.Alignment, got.Alignment)
	assert.Equal(t, want.Duplicates, got.Duplicates)
	assert.Equal(t, want.Dependencies, got.Dependencies)
	require.Len(t, got.Sprints, len(want.Sprints))
	for i := range want.Sprints {
		assert.Equal(t, want.Sprints[i].ID, got.Sprints[i].ID)
		assert.True(t, want.Sprints[i].StartDate.Equal(got.Sprints[i].StartDate))
		assert.True(t, want.Sprints[i].EndDate.Equal(got.Sprints[i].EndDate))
		assert.Equal(t, want.Sprints[i].Allocations, got.Sprints[i].Allocations)
	}

	_, err = domain.NewSnapshot(*got)
	require.NoError(t, err)
}

func TestSnapshotRepository_EmptySchema(t *testing.T) {
	resetSchema(t)

	got, err := NewSnapshotRepository(testPool).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got.Teams)
	assert.Empty(t, got.Sprints)
	assert.NotNil(t, got.Dependencies)
}

func TestSnapshotRepository_ReadOnly(t *testing.T) {
	resetSchema(t)
	ctx := context.Background()

	err := WithReadOnlyTransaction(ctx, testPool, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `INSERT INTO teams (id, name, member_count) VALUES ('x', 'X', 1)`)
		return err
	})
	assert.Error(t, err)
}

func TestSnapshotRepository_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSnapshotRepository(testPool).Load(ctx)
	assert.Error(t, err)
}
