package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/lorrc/coordination-backend/internal/adapters/secondary/memory"
	"github.com/lorrc/coordination-backend/internal/core/domain"
	apperrors "github.com/lorrc/coordination-backend/internal/core/errors"
	"github.com/lorrc/coordination-backend/internal/core/mocks"
	"github.com/lorrc/coordination-backend/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testData() *domain.SnapshotData {
	return &domain.SnapshotData{
		Teams: []domain.Team{
			{ID: "orion", Name: "Team Orion", MemberCount: 6},
			{ID: "andromeda", Name: "Team Andromeda", MemberCount: 7},
			{ID: "vega", Name: "Team Vega", MemberCount: 4},
		},
		Features: []domain.Feature{
			{ID: "f-002", Key: "FEAT-002", Name: "Real-time Notifications", Priority: domain.PriorityHigh},
		},
		Alignment: []domain.AlignmentEntry{
			{TeamID: "orion", FeatureID: "f-002", IssueCount: 11, StoryPoints: 42, Status: domain.AlignmentOnTrack},
			{TeamID: "vega", FeatureID: "f-002", IssueCount: 3, StoryPoints: 13, Status: domain.AlignmentOnTrack},
		},
		Duplicates: []domain.DuplicateCandidate{
			{
				ID:     "d-001",
				IssueA: domain.WorkItemRef{Key: "ORI-234", TeamID: "orion"},
				IssueB: domain.WorkItemRef{Key: "AND-189", TeamID: "andromeda"},
				Score:  0.89,
			},
			{
				ID:     "d-002",
				IssueA: domain.WorkItemRef{Key: "ORI-198", TeamID: "orion"},
				IssueB: domain.WorkItemRef{Key: "VEG-067", TeamID: "vega"},
				Score:  0.84,
			},
		},
		Dependencies: []domain.Dependency{
			{ID: "dep-004", Name: "Redis Cache", Type: domain.DependencyDatabase, Teams: []domain.TeamID{"orion", "vega"}, IssueCount: 11, RiskLevel: domain.RiskMedium},
		},
		Sprints: []domain.Sprint{
			{ID: 42, Name: "Sprint 42", State: domain.SprintActive, Allocations: []domain.TeamSprintAllocation{
				{TeamID: "orion", TotalPoints: 78, CompletedPoints: 41, MemberCount: 6},
				{TeamID: "vega", TotalPoints: 35, CompletedPoints: 18, MemberCount: 4},
			}},
		},
	}
}

func newTestSnapshot(t *testing.T) *domain.Snapshot {
	t.Helper()
	snap, err := domain.NewSnapshot(*testData())
	require.NoError(t, err)
	return snap
}

func TestLoadSnapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		source := mocks.NewMockSnapshotSource()
		source.On("Load", ctx).Return(testData(), nil)
		source.On("Name").Return("mock").Maybe()

		snap, err := services.LoadSnapshot(ctx, source)

		require.NoError(t, err)
		assert.Len(t, snap.Teams(), 3)
		source.AssertExpectations(t)
	})

	t.Run("source error is wrapped", func(t *testing.T) {
		loadErr := errors.New("connection refused")
		source := mocks.NewMockSnapshotSource()
		source.On("Load", ctx).Return(nil, loadErr)
		source.On("Name").Return("mock")

		snap, err := services.LoadSnapshot(ctx, source)

		assert.Nil(t, snap)
		assert.ErrorIs(t, err, loadErr)
		assert.Contains(t, err.Error(), "mock")
	})

	t.Run("nil data is missing", func(t *testing.T) {
		source := mocks.NewMockSnapshotSource()
		source.On("Load", ctx).Return(nil, nil)
		source.On("Name").Return("mock")

		_, err := services.LoadSnapshot(ctx, source)

		assert.ErrorIs(t, err, apperrors.ErrSnapshotMissing)
	})

	t.Run("integrity fault rejects snapshot", func(t *testing.T) {
		data := testData()
		data.Dependencies[0].Teams = append(data.Dependencies[0].Teams, "ghost")

		source := mocks.NewMockSnapshotSource()
		source.On("Load", ctx).Return(data, nil)
		source.On("Name").Return("mock")

		snap, err := services.LoadSnapshot(ctx, source)

		assert.Nil(t, snap)
		assert.ErrorIs(t, err, apperrors.ErrSnapshotIntegrity)
	})
}

func TestCoordinationService_Queries(t *testing.T) {
	ctx := context.Background()
	svc := services.NewCoordinationService(newTestSnapshot(t), mocks.NewMockDismissalStore(), nil)

	t.Run("nil selection means all teams", func(t *testing.T) {
		report := svc.Alignment(ctx, nil)
		assert.Equal(t, 3, report.TotalSlots)
		assert.Equal(t, 2, report.FilledSlots)
	})

	t.Run("empty selection means no teams", func(t *testing.T) {
		report := svc.Alignment(ctx, domain.NewTeamSelection())
		assert.Zero(t, report.TotalSlots)
		assert.Zero(t, report.GapCount)
	})

	t.Run("unknown feature", func(t *testing.T) {
		_, err := svc.FeatureCoverage(ctx, "f-999", nil)
		assert.ErrorIs(t, err, apperrors.ErrFeatureNotFound)
	})

	t.Run("dependencies", func(t *testing.T) {
		graph := svc.Dependencies(ctx, nil)
		assert.Equal(t, 2, graph.EdgeCount)

		graph = svc.Dependencies(ctx, domain.NewTeamSelection("orion"))
		assert.Empty(t, graph.Dependencies)

		_, err := svc.DependencyDetail(ctx, "dep-999", nil)
		assert.ErrorIs(t, err, apperrors.ErrDependencyNotFound)
	})

	t.Run("capacity", func(t *testing.T) {
		report, err := svc.Capacity(ctx, 42, nil)
		require.NoError(t, err)
		assert.Equal(t, []domain.TeamID{"orion"}, report.OverloadedTeams)
		assert.Equal(t, 113, report.TotalPoints)

		_, err = svc.Capacity(ctx, 7, nil)
		assert.ErrorIs(t, err, apperrors.ErrSprintNotFound)

		_, err = svc.TeamCapacity(ctx, 42, "andromeda")
		assert.ErrorIs(t, err, apperrors.ErrTeamNotInSprint)
	})

	t.Run("active sprint", func(t *testing.T) {
		sprint, err := svc.ActiveSprint(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.SprintID(42), sprint.ID)
	})
}

func TestCoordinationService_Duplicates(t *testing.T) {
	ctx := context.Background()

	t.Run("hides the session's dismissals", func(t *testing.T) {
		store := mocks.NewMockDismissalStore()
		store.On("Get", ctx, "session-1").Return(domain.NewDismissedSet("d-001"), nil)

		svc := services.NewCoordinationService(newTestSnapshot(t), store, nil)
		report, err := svc.Duplicates(ctx, "session-1", nil)

		require.NoError(t, err)
		require.Len(t, report.Candidates, 1)
		assert.Equal(t, domain.CandidateID("d-002"), report.Candidates[0].ID)
		assert.Equal(t, 1, report.Reviewed)
		store.AssertExpectations(t)
	})

	t.Run("no session sees everything", func(t *testing.T) {
		store := mocks.NewMockDismissalStore()

		svc := services.NewCoordinationService(newTestSnapshot(t), store, nil)
		report, err := svc.Duplicates(ctx, "", nil)

		require.NoError(t, err)
		assert.Len(t, report.Candidates, 2)
		store.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("store error", func(t *testing.T) {
		storeErr := errors.New("store unavailable")
		store := mocks.NewMockDismissalStore()
		store.On("Get", ctx, "session-1").Return(nil, storeErr)

		svc := services.NewCoordinationService(newTestSnapshot(t), store, nil)
		_, err := svc.Duplicates(ctx, "session-1", nil)

		assert.ErrorIs(t, err, storeErr)
	})
}

func TestCoordinationService_DismissCandidate(t *testing.T) {
	ctx := context.Background()

	t.Run("success broadcasts to the session", func(t *testing.T) {
		store := mocks.NewMockDismissalStore()
		broadcaster := mocks.NewMockEventBroadcaster()

		store.On("Dismiss", ctx, "session-1", domain.CandidateID("d-002")).
			Return(domain.NewDismissedSet("d-002"), nil)
		broadcaster.On("Broadcast", mock.MatchedBy(func(e domain.Event) bool {
			payload, ok := e.Payload.(domain.DismissalPayload)
			return ok &&
				e.Type == domain.EventDuplicateDismissed &&
				e.SessionID == "session-1" &&
				payload.CandidateID == "d-002"
		})).Return(nil)

		svc := services.NewCoordinationService(newTestSnapshot(t), store, broadcaster)
		set, err := svc.DismissCandidate(ctx, "session-1", "d-002")

		require.NoError(t, err)
		assert.True(t, set.Has("d-002"))
		store.AssertExpectations(t)
		broadcaster.AssertExpectations(t)
	})

	t.Run("unknown candidate", func(t *testing.T) {
		store := mocks.NewMockDismissalStore()
		svc := services.NewCoordinationService(newTestSnapshot(t), store, nil)

		_, err := svc.DismissCandidate(ctx, "session-1", "d-999")

		assert.ErrorIs(t, err, apperrors.ErrCandidateNotFound)
		store.AssertNotCalled(t, "Dismiss", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("session required", func(t *testing.T) {
		svc := services.NewCoordinationService(newTestSnapshot(t), mocks.NewMockDismissalStore(), nil)

		_, err := svc.DismissCandidate(ctx, "", "d-001")

		assert.ErrorIs(t, err, apperrors.ErrSessionRequired)
	})
}

func TestCoordinationService_RestoreCandidate(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewMockDismissalStore()
	broadcaster := mocks.NewMockEventBroadcaster()

	store.On("Restore", ctx, "session-1", domain.CandidateID("d-001")).
		Return(domain.NewDismissedSet(), nil)
	broadcaster.On("Broadcast", mock.MatchedBy(func(e domain.Event) bool {
		return e.Type == domain.EventDuplicateRestored
	})).Return(nil)

	svc := services.NewCoordinationService(newTestSnapshot(t), store, broadcaster)
	set, err := svc.RestoreCandidate(ctx, "session-1", "d-001")

	require.NoError(t, err)
	assert.Empty(t, set)
	broadcaster.AssertExpectations(t)
}

func TestCoordinationService_ImportDismissals(t *testing.T) {
	ctx := context.Background()
	imported := domain.NewDismissedSet("d-001", "d-unknown")

	store := mocks.NewMockDismissalStore()
	store.On("Replace", ctx, "session-1", imported).Return(imported.Clone(), nil)
	store.On("Get", ctx, "session-1").Return(imported.Clone(), nil)

	broadcaster := mocks.NewMockEventBroadcaster()
	broadcaster.On("Broadcast", mock.MatchedBy(func(e domain.Event) bool {
		return e.Type == domain.EventDismissalsReplaced
	})).Return(nil)

	svc := services.NewCoordinationService(newTestSnapshot(t), store, broadcaster)

	stored, err := svc.ImportDismissals(ctx, "session-1", imported)
	require.NoError(t, err)
	assert.Equal(t, imported, stored, "import keeps ids verbatim")

	exported, err := svc.ExportDismissals(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, imported, exported)

	broadcaster.AssertExpectations(t)

	_, err = svc.ExportDismissals(ctx, "")
	assert.ErrorIs(t, err, apperrors.ErrSessionRequired)
}

// recordingBroadcaster keeps events in the order Broadcast received them.
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []domain.Event
}

func (b *recordingBroadcaster) Broadcast(event domain.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return nil
}

func (b *recordingBroadcaster) last() domain.DismissalPayload {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.events[len(b.events)-1].Payload.(domain.DismissalPayload)
}

func TestCoordinationService_BroadcastsInStoreOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("back to back", func(t *testing.T) {
		for i := 0; i < 200; i++ {
			broadcaster := &recordingBroadcaster{}
			svc := services.NewCoordinationService(newTestSnapshot(t), memory.NewDismissalStore(), broadcaster)

			_, err := svc.DismissCandidate(ctx, "s1", "d-001")
			require.NoError(t, err)
			_, err = svc.DismissCandidate(ctx, "s1", "d-002")
			require.NoError(t, err)

			require.Len(t, broadcaster.events, 2)
			assert.Equal(t, []domain.CandidateID{"d-001", "d-002"}, broadcaster.last().Dismissed)
		}
	})

	t.Run("concurrent", func(t *testing.T) {
		broadcaster := &recordingBroadcaster{}
		store := memory.NewDismissalStore()
		svc := services.NewCoordinationService(newTestSnapshot(t), store, broadcaster)

		var wg sync.WaitGroup
		for _, id := range []domain.CandidateID{"d-001", "d-002"} {
			id := id
			for i := 0; i < 50; i++ {
				wg.Add(2)
				go func() {
					defer wg.Done()
					_, _ = svc.DismissCandidate(ctx, "s1", id)
				}()
				go func() {
					defer wg.Done()
					_, _ = svc.RestoreCandidate(ctx, "s1", id)
				}()
			}
		}
		wg.Wait()

		final, err := svc.ExportDismissals(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, final.IDs(), broadcaster.last().Dismissed)
	})
}
