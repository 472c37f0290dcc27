package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/kiyohan/StarHack/db"
	"github.com/kiyohan/StarHack/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newStatsUser(t *testing.T) *models.User {
	t.Helper()

	path := filepath.Join(t.TempDir(), "stats_test.db")
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.User{}, &models.TaskCompletion{}))
	db.DB = gdb

	user := &models.User{Username: "dana", Email: "dana@example.com", Streak: 3, Points: 135}
	require.NoError(t, gdb.Create(user).Error)

	for _, c := range []models.TaskCompletion{
		{UserID: user.ID, TaskType: "Jogging", PointsEarned: 45},
		{UserID: user.ID, TaskType: "Jogging", PointsEarned: 45},
		{UserID: user.ID, TaskType: "Meditation", PointsEarned: 45},
	} {
		require.NoError(t, gdb.Create(&c).Error)
	}
	return user
}

func TestEngagementStatsAggregation(t *testing.T) {
	user := newStatsUser(t)

	start := time.Now()
	stats, err := CalculateUserEngagementStats(user.ID, zap.NewNop())
	wall := time.Since(start).Milliseconds()
	require.NoError(t, err)

	assert.Equal(t, user.ID, stats.UserID)
	assert.Equal(t, 3, stats.Streak)
	assert.Equal(t, 3, stats.TotalCompletions)
	assert.Equal(t, 135, stats.TotalEarned)
	require.Len(t, stats.ByTask, 2)

	byType := map[string]TaskTypeStats{}
	for _, s := range stats.ByTask {
		byType[s.TaskType] = s
	}
	assert.Equal(t, 2, byType["Jogging"].Completions)
	assert.Equal(t, 90, byType["Jogging"].PointsEarned)
	require.NotNil(t, byType["Meditation"].LastCompleted)

	// The reported processing time is in milliseconds, bounded by wall time.
	assert.GreaterOrEqual(t, stats.ProcessingMs, int64(0))
	assert.LessOrEqual(t, stats.ProcessingMs, wall+1)
}

func TestEngagementStatsUnknownUser(t *testing.T) {
	newStatsUser(t)

	_, err := CalculateUserEngagementStats(9999, zap.NewNop())
	require.Error(t, err)
}
