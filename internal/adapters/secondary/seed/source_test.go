package seed_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/lorrc/coordination-backend/internal/adapters/secondary/seed"
	"github.com/lorrc/coordination-backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_DefaultDataset(t *testing.T) {
	data, err := seed.Parse(seed.DefaultYAML())
	require.NoError(t, err)

	assert.Len(t, data.Teams, 5)
	assert.Len(t, data.Features, 7)
	assert.Len(t, data.Alignment, 19)
	assert.Len(t, data.Duplicates, 6)
	assert.Len(t, data.Dependencies, 8)
	require.Len(t, data.Sprints, 2)

	assert.Equal(t, "#6370ef", data.Teams[0].Color)
	assert.Equal(t, []domain.ReasonTag{domain.ReasonTitle, domain.ReasonLabels, domain.ReasonEpic}, data.Duplicates[0].Reasons)
	assert.Equal(t, []domain.TeamID{"orion", "andromeda", "pegasus"}, data.Dependencies[0].Teams)

	sprint := data.Sprints[0]
	assert.Equal(t, domain.SprintID(42), sprint.ID)
	assert.Equal(t, domain.SprintActive, sprint.State)
	assert.Equal(t, "2026-02-10", sprint.StartDate.Format(seed.DateLayout))
	require.Len(t, sprint.Allocations, 5)
	assert.Len(t, sprint.Allocations[0].Members, 6)

	snap, err := domain.NewSnapshot(*data)
	require.NoError(t, err)
	active, ok := snap.ActiveSprint()
	require.True(t, ok)
	assert.Equal(t, domain.SprintID(42), active.ID)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", "   \n"},
		{"unknown field", "teams:\n  - {id: a, name: A, memberCount: 1, mascot: owl}\n"},
		{"bad date", "sprints:\n  - {id: 1, name: S1, state: active, start: 10/02/2026, teams: []}\n"},
		{"not a mapping", "- just\n- a list\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := seed.Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	original, err := seed.Parse(seed.DefaultYAML())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, seed.Encode(&buf, original))

	decoded, err := seed.ParseReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestSource_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("embedded", func(t *testing.T) {
		src := seed.NewSource("")
		assert.Equal(t, "seed:embedded", src.Name())

		data, err := src.Load(ctx)
		require.NoError(t, err)
		assert.Len(t, data.Teams, 5)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "snapshot.yaml")
		doc := "teams:\n  - {id: solo, name: Team Solo, memberCount: 3}\n"
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

		src := seed.NewSource(path)
		assert.Equal(t, "seed:"+path, src.Name())

		data, err := src.Load(ctx)
		require.NoError(t, err)
		require.Len(t, data.Teams, 1)
		assert.Equal(t, domain.TeamID("solo"), data.Teams[0].ID)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := seed.NewSource(filepath.Join(t.TempDir(), "absent.yaml")).Load(ctx)
		assert.Error(t, err)
	})

	t.Run("cancelled", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := seed.NewSource("").Load(cancelled)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
