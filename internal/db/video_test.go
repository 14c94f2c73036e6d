package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorekai/livetrack/internal/models"
)

// setupTestDB creates a migrated temp-file database with repositories
func setupTestDB(t *testing.T) (*Repositories, *DB) {
	t.Helper()

	tmpFile := filepath.Join(t.TempDir(), "test.db")
	database, err := New(tmpFile)
	require.NoError(t, err)

	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err)

	err = RunMigrations(sqlDB, "file://../../migrations")
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = database.Close()
	})

	return NewRepositories(database), database
}

func seedChannel(t *testing.T, repos *Repositories, id, name string) {
	t.Helper()
	err := repos.Channels.Upsert(context.Background(), &models.Channel{ID: id, Name: name})
	require.NoError(t, err)
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestListUpcoming_ExcludesEnded(t *testing.T) {
	repos, _ := setupTestDB(t)
	ctx := context.Background()

	seedChannel(t, repos, "chanX", "Channel X")

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	err := repos.Videos.UpsertBatch(ctx, []models.Video{
		{ID: "A", ChannelID: "chanX", Title: "scheduled", ScheduledTime: base},
		{ID: "B", ChannelID: "chanX", Title: "live", ScheduledTime: base.Add(time.Hour), StartTime: timePtr(base.Add(time.Hour))},
		{ID: "C", ChannelID: "chanX", Title: "ended", ScheduledTime: base.Add(-time.Hour), StartTime: timePtr(base.Add(-time.Hour)), EndTime: timePtr(base)},
	})
	require.NoError(t, err)

	channelID := "chanX"
	videos, err := repos.Videos.ListUpcoming(ctx, &channelID)
	require.NoError(t, err)

	require.Len(t, videos, 2)
	assert.Equal(t, "A", videos[0].ID)
	assert.Equal(t, "B", videos[1].ID)
	assert.Equal(t, "Channel X", videos[0].ChannelName)
	assert.Equal(t, "Channel X", videos[1].ChannelName)
}

func TestListUpcoming_CapAndOrder(t *testing.T) {
	repos, _ := setupTestDB(t)
	ctx := context.Background()

	seedChannel(t, repos, "chanX", "Channel X")

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	videos := make([]models.Video, 0, 15)
	for i := 14; i >= 0; i-- {
		videos = append(videos, models.Video{
			ID:            string(rune('a' + i)),
			ChannelID:     "chanX",
			Title:         "stream",
			ScheduledTime: base.Add(time.Duration(i) * time.Minute),
		})
	}
	require.NoError(t, repos.Videos.UpsertBatch(ctx, videos))

	listed, err := repos.Videos.ListUpcoming(ctx, nil)
	require.NoError(t, err)

	require.Len(t, listed, 10)
	for i := 1; i < len(listed); i++ {
		assert.False(t, listed[i].ScheduledTime.Before(listed[i-1].ScheduledTime),
			"rows must be non-decreasing by scheduled time")
	}
	assert.Equal(t, "a", listed[0].ID)
}

func TestListUpcoming_SpansChannelsWhenNil(t *testing.T) {
	repos, _ := setupTestDB(t)
	ctx := context.Background()

	seedChannel(t, repos, "chanX", "Channel X")
	seedChannel(t, repos, "chanY", "Channel Y")

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repos.Videos.UpsertBatch(ctx, []models.Video{
		{ID: "x1", ChannelID: "chanX", Title: "x", ScheduledTime: base},
		{ID: "y1", ChannelID: "chanY", Title: "y", ScheduledTime: base.Add(time.Minute)},
	}))

	listed, err := repos.Videos.ListUpcoming(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	channelID := "chanY"
	listed, err = repos.Videos.ListUpcoming(ctx, &channelID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "y1", listed[0].ID)
}

func TestListUpcoming_HidesVideosWithoutChannel(t *testing.T) {
	repos, database := setupTestDB(t)
	ctx := context.Background()

	seedChannel(t, repos, "chanX", "Channel X")
	require.NoError(t, repos.Videos.UpsertBatch(ctx, []models.Video{
		{ID: "x1", ChannelID: "chanX", Title: "x", ScheduledTime: time.Now().UTC()},
	}))

	// Remove the channel row out from under the video; the join must hide it.
	// The pragma is per-connection, so both statements run on one connection.
	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err)
	conn, err := sqlDB.Conn(ctx)
	require.NoError(t, err)
	defer conn.Close()
	_, err = conn.ExecContext(ctx, "PRAGMA foreign_keys = OFF")
	require.NoError(t, err)
	_, err = conn.ExecContext(ctx, "DELETE FROM channels WHERE id = ?", "chanX")
	require.NoError(t, err)

	listed, err := repos.Videos.ListUpcoming(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestUpsertBatch_ReplacesByID(t *testing.T) {
	repos, _ := setupTestDB(t)
	ctx := context.Background()

	seedChannel(t, repos, "chanX", "Channel X")

	scheduled := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repos.Videos.UpsertBatch(ctx, []models.Video{
		{ID: "A", ChannelID: "chanX", Title: "before", ScheduledTime: scheduled},
	}))

	started := scheduled.Add(2 * time.Minute)
	require.NoError(t, repos.Videos.UpsertBatch(ctx, []models.Video{
		{ID: "A", ChannelID: "chanX", Title: "after", ScheduledTime: scheduled, StartTime: &started},
	}))

	listed, err := repos.Videos.ListUpcoming(ctx, nil)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "after", listed[0].Title)
	require.NotNil(t, listed[0].StartTime)
	assert.Equal(t, models.StatusLive, listed[0].Status())
}

func TestUpsertBatch_AtomicOnFailure(t *testing.T) {
	repos, _ := setupTestDB(t)
	ctx := context.Background()

	seedChannel(t, repos, "chanX", "Channel X")

	// Second row violates the channel foreign key, so the first row
	// must not be visible afterwards.
	err := repos.Videos.UpsertBatch(ctx, []models.Video{
		{ID: "ok", ChannelID: "chanX", Title: "fine", ScheduledTime: time.Now().UTC()},
		{ID: "bad", ChannelID: "missing-channel", Title: "broken", ScheduledTime: time.Now().UTC()},
	})
	require.Error(t, err)
	assert.True(t, IsForeignKey(err), "expected a foreign key violation, got: %v", err)

	listed, err := repos.Videos.ListUpcoming(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestDeleteBatch(t *testing.T) {
	repos, _ := setupTestDB(t)
	ctx := context.Background()

	seedChannel(t, repos, "chanX", "Channel X")
	require.NoError(t, repos.Videos.UpsertBatch(ctx, []models.Video{
		{ID: "A", ChannelID: "chanX", Title: "a", ScheduledTime: time.Now().UTC()},
		{ID: "B", ChannelID: "chanX", Title: "b", ScheduledTime: time.Now().UTC()},
	}))

	require.NoError(t, repos.Videos.DeleteBatch(ctx, []string{"A"}))

	listed, err := repos.Videos.ListUpcoming(ctx, nil)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "B", listed[0].ID)
}

func TestDeleteBatch_Empty(t *testing.T) {
	repos, _ := setupTestDB(t)
	assert.NoError(t, repos.Videos.DeleteBatch(context.Background(), nil))
}
