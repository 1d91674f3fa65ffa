package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-service/internal/models"
	"course-service/internal/store"
)

func newTestRepo(t *testing.T) (*ProgressRepository, *store.Memory) {
	t.Helper()
	kv := store.NewMemory()
	profiles := NewProfileRepository(kv)
	repo := NewProgressRepository(kv, profiles)
	repo.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return repo, kv
}

func TestLoadMissingRecordIsEmpty(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	progress, err := repo.Load(ctx, "go-basics")
	require.NoError(t, err)
	assert.Equal(t, "go-basics", progress.CourseID)
	assert.False(t, progress.Started)
	assert.NotNil(t, progress.SectionsRead)
	assert.Empty(t, progress.SectionsRead)
}

func TestLoadCorruptRecordSelfHeals(t *testing.T) {
	repo, kv := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, progressKey(models.DefaultProfileID, "go-basics"), "{not json"))

	progress, err := repo.Load(ctx, "go-basics")
	require.NoError(t, err)
	assert.Equal(t, "go-basics", progress.CourseID)
	assert.False(t, progress.Started)
}

func TestDefaultProfileFallback(t *testing.T) {
	repo, kv := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.StartCourse(ctx, "go-basics")
	require.NoError(t, err)

	// with no explicit profile, progress lands under the default id
	_, ok, err := kv.Get(ctx, progressKey(models.DefaultProfileID, "go-basics"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStartCourseIdempotent(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	first, err := repo.StartCourse(ctx, "go-basics")
	require.NoError(t, err)
	assert.True(t, first.Started)
	require.NotNil(t, first.StartedAt)

	repo.now = func() time.Time { return time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC) }
	second, err := repo.StartCourse(ctx, "go-basics")
	require.NoError(t, err)
	assert.Equal(t, first.StartedAt, second.StartedAt)
}

func TestMarkSectionRead(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	progress, err := repo.MarkSectionRead(ctx, "go-basics", "intro", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"intro"}, progress.SectionsRead)
	assert.Equal(t, 33, progress.Progress)
	assert.False(t, progress.ContentFinished)

	// duplicate reads do not double-count
	progress, err = repo.MarkSectionRead(ctx, "go-basics", "intro", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"intro"}, progress.SectionsRead)

	_, err = repo.MarkSectionRead(ctx, "go-basics", "middle", 3)
	require.NoError(t, err)
	progress, err = repo.MarkSectionRead(ctx, "go-basics", "end", 3)
	require.NoError(t, err)
	assert.Equal(t, 100, progress.Progress)
	assert.True(t, progress.ContentFinished)
	require.NotNil(t, progress.ContentFinishedAt)
}

func TestSaveQuizResultCountsAttempts(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	progress, err := repo.SaveQuizResult(ctx, "go-basics", models.SavedQuizResult{Score: 50, Passed: false})
	require.NoError(t, err)
	require.NotNil(t, progress.QuizResult)
	assert.Equal(t, 1, progress.QuizResult.Attempts)
	assert.True(t, progress.QuizCompleted)
	assert.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), progress.QuizResult.CompletedAt)

	progress, err = repo.SaveQuizResult(ctx, "go-basics", models.SavedQuizResult{Score: 80, Passed: true})
	require.NoError(t, err)
	assert.Equal(t, 2, progress.QuizResult.Attempts)
	assert.Equal(t, 80, progress.QuizResult.Score)
}

func TestResetQuizKeepsContentProgress(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.MarkSectionRead(ctx, "go-basics", "intro", 1)
	require.NoError(t, err)
	_, err = repo.SaveQuizResult(ctx, "go-basics", models.SavedQuizResult{Score: 90, Passed: true})
	require.NoError(t, err)

	progress, err := repo.ResetQuiz(ctx, "go-basics")
	require.NoError(t, err)
	assert.False(t, progress.QuizCompleted)
	assert.Nil(t, progress.QuizResult)
	assert.True(t, progress.ContentFinished)
	assert.Equal(t, []string{"intro"}, progress.SectionsRead)
}

func TestResetProgressRemovesTrackerToo(t *testing.T) {
	repo, kv := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.StartCourse(ctx, "go-basics")
	require.NoError(t, err)
	require.NoError(t, repo.SaveTrackerState(ctx, "go-basics", models.TrackerState{TotalSections: 3}))

	require.NoError(t, repo.ResetProgress(ctx, "go-basics"))

	_, ok, _ := kv.Get(ctx, progressKey(models.DefaultProfileID, "go-basics"))
	assert.False(t, ok)
	_, ok, _ = kv.Get(ctx, trackerKey(models.DefaultProfileID, "go-basics"))
	assert.False(t, ok)
}

func TestAllProgressScansActiveProfileOnly(t *testing.T) {
	repo, kv := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.StartCourse(ctx, "go-basics")
	require.NoError(t, err)
	_, err = repo.StartCourse(ctx, "rust-basics")
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, progressKey("someone-else", "go-basics"), "{}"))

	all, err := repo.AllProgress(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Contains(t, all, "go-basics")
	assert.Contains(t, all, "rust-basics")
}

func TestProgressIsolatedPerProfile(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.StartCourse(ctx, "go-basics")
	require.NoError(t, err)

	second, err := repo.Profiles.Create(ctx, "Maria", "")
	require.NoError(t, err)
	require.NoError(t, repo.Profiles.Switch(ctx, second.ID))

	progress, err := repo.Load(ctx, "go-basics")
	require.NoError(t, err)
	assert.False(t, progress.Started)
}

func TestTrackerStateRoundTrip(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	state := models.TrackerState{
		ActiveSessionID: "intro",
		TotalSections:   3,
		CourseProgress:  67,
		SessionsProgress: map[string]models.SessionProgress{
			"intro": {Status: models.SessionCompleted, ScrollPercent: 100},
		},
	}
	require.NoError(t, repo.SaveTrackerState(ctx, "go-basics", state))

	loaded, err := repo.LoadTrackerState(ctx, "go-basics")
	require.NoError(t, err)
	assert.Equal(t, state, loaded)
}
