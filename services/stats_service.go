package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/kiyohan/StarHack/cache"
	"github.com/kiyohan/StarHack/db"
	"github.com/kiyohan/StarHack/models"
	"go.uber.org/zap"
)

type TaskTypeStats struct {
	TaskType      string     `json:"task_type"`
	Completions   int        `json:"completions"`
	PointsEarned  int        `json:"points_earned"`
	LastCompleted *time.Time `json:"last_completed"`
	Error         error      `json:"-"`
}

type UserEngagementStats struct {
	UserID           uint            `json:"user_id"`
	Streak           int             `json:"streak"`
	Points           int             `json:"points"`
	TotalCompletions int             `json:"total_completions"`
	TotalEarned      int             `json:"total_points_earned"`
	ByTask           []TaskTypeStats `json:"by_task"`
	ProcessingMs     int64           `json:"processing_time_ms"`
}

// CalculateUserEngagementStats aggregates the completion audit trail per
// task type. Each task type is summed in its own goroutine; the queries are
// independent and hit different index ranges, so they can run in parallel
// while the slowest one sets the latency.
func CalculateUserEngagementStats(userID uint, logger *zap.Logger) (*UserEngagementStats, error) {
	startTime := time.Now()

	cacheKey := fmt.Sprintf("user_stats:%d", userID)
	var cachedStats UserEngagementStats
	if err := cache.Get(cacheKey, &cachedStats); err == nil {
		logger.Info("cache_hit", zap.String("key", cacheKey))
		return &cachedStats, nil
	}

	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		return nil, err
	}

	var taskTypes []string
	if err := db.DB.Model(&models.TaskCompletion{}).
		Where("user_id = ?", userID).
		Distinct("task_type").
		Pluck("task_type", &taskTypes).Error; err != nil {
		return nil, err
	}

	result := &UserEngagementStats{
		UserID: userID,
		Streak: user.Streak,
		Points: user.Points,
	}

	if len(taskTypes) == 0 {
		result.ProcessingMs = time.Since(startTime).Milliseconds()
		return result, nil
	}

	statsChan := make(chan TaskTypeStats, len(taskTypes))
	var wg sync.WaitGroup

	for _, taskType := range taskTypes {
		wg.Add(1)
		go func(tt string) {
			defer wg.Done()
			statsChan <- calculateTaskTypeStats(userID, tt)
		}(taskType)
	}

	go func() {
		wg.Wait()
		close(statsChan)
	}()

	for stat := range statsChan {
		if stat.Error != nil {
			logger.Warn("task_stats_error",
				zap.String("task_type", stat.TaskType),
				zap.Error(stat.Error),
			)
			continue
		}
		result.ByTask = append(result.ByTask, stat)
		result.TotalCompletions += stat.Completions
		result.TotalEarned += stat.PointsEarned
	}

	elapsed := time.Since(startTime)
	result.ProcessingMs = elapsed.Milliseconds()

	cache.Set(cacheKey, result, 5*time.Minute)

	logger.Info("stats_calculated",
		zap.Uint("user_id", userID),
		zap.Int("task_types", len(taskTypes)),
		zap.Duration("duration", elapsed),
	)

	return result, nil
}

func calculateTaskTypeStats(userID uint, taskType string) TaskTypeStats {
	stats := TaskTypeStats{TaskType: taskType}

	var completions []models.TaskCompletion
	if err := db.DB.Where("user_id = ? AND task_type = ?", userID, taskType).
		Order("created_at DESC").
		Find(&completions).Error; err != nil {
		stats.Error = err
		return stats
	}

	stats.Completions = len(completions)
	for _, completion := range completions {
		stats.PointsEarned += completion.PointsEarned
	}
	if len(completions) > 0 {
		stats.LastCompleted = &completions[0].CreatedAt
	}

	return stats
}
