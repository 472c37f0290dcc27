package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kiyohan/StarHack/db"
	"github.com/kiyohan/StarHack/ledger"
	"github.com/kiyohan/StarHack/middleware"
	"github.com/kiyohan/StarHack/models"
	"github.com/kiyohan/StarHack/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// resolveTaskPoints looks a task type up in the activity catalog. found is
// false when there is no catalog entry; the point value then falls back to
// the default (the journal task has no catalog row).
func resolveTaskPoints(taskType string) (int, bool, error) {
	var activity models.Activity
	err := db.DB.Where("name = ?", taskType).First(&activity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DefaultTaskPoints, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if activity.Points <= 0 {
		return models.DefaultTaskPoints, true, nil
	}
	return activity.Points, true, nil
}

// CompleteTask logs one daily task completion and updates points and streak.
func CompleteTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var input struct {
		TaskType string `json:"task_type"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.TaskType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "task_type is required"})
		return
	}

	points, found, err := resolveTaskPoints(input.TaskType)
	if err != nil {
		ledgerError(c, "complete_task", err)
		return
	}
	if !found {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": ledger.ErrUnknownTaskType.Message,
			"code":  ledger.ErrUnknownTaskType.Code,
		})
		return
	}

	updated, record, err := Ledger.CompleteTask(user.ID, input.TaskType, points)
	if err != nil {
		ledgerError(c, "complete_task", err)
		return
	}

	utils.TasksCompleted.WithLabelValues(input.TaskType).Inc()
	utils.Logger.Info("task_completed",
		zap.Uint("user_id", user.ID),
		zap.String("task_type", input.TaskType),
		zap.Int("points", points),
		zap.Int("streak", updated.Streak),
	)

	middleware.InvalidateUserCache(user.ID)
	middleware.InvalidateLeaderboardCache()

	c.JSON(http.StatusOK, gin.H{
		"user":       updated,
		"completion": record,
	})
}

// GetAllCompletions returns the full audit trail, optionally filtered by
// user. Admin only.
func GetAllCompletions(c *gin.Context) {
	query := db.DB.Order("created_at DESC").Limit(200)
	if userID := c.Query("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	var completions []models.TaskCompletion
	if err := query.Find(&completions).Error; err != nil {
		ledgerError(c, "all_completions", err)
		return
	}

	c.JSON(http.StatusOK, completions)
}

// GetTaskHistory returns the user's completion audit trail, newest first.
func GetTaskHistory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	completions, err := Ledger.RecentCompletions(user.ID, 50)
	if err != nil {
		ledgerError(c, "task_history", err)
		return
	}

	c.JSON(http.StatusOK, completions)
}
