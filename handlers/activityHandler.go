package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kiyohan/StarHack/db"
	"github.com/kiyohan/StarHack/models"
	"github.com/kiyohan/StarHack/utils"
	"go.uber.org/zap"
)

// GetActivities lists the activity catalog.
func GetActivities(c *gin.Context) {
	var activities []models.Activity
	if err := db.DB.Order("type, name").Find(&activities).Error; err != nil {
		ledgerError(c, "get_activities", err)
		return
	}
	c.JSON(http.StatusOK, activities)
}

// GetLeaderboard returns the top 10 users by streak.
func GetLeaderboard(c *gin.Context) {
	var rows []struct {
		Username string `json:"username"`
		Streak   int    `json:"streak"`
	}

	if err := db.DB.Model(&models.User{}).
		Select("username", "streak").
		Order("streak DESC").
		Limit(10).
		Scan(&rows).Error; err != nil {
		ledgerError(c, "leaderboard", err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

// DefaultActivities returns the seed catalog. A fresh slice every call so
// gorm-assigned IDs from one seed run don't leak into the next.
func DefaultActivities() []models.Activity {
	return []models.Activity{
		{Name: "Meditation", Type: models.CategoryMental, Points: 45, Duration: "15 min"},
		{Name: "Yoga", Type: models.CategoryMental, Points: 50, Duration: "20 min"},
		{Name: "Deep Breathing", Type: models.CategoryMental, Points: 30, Duration: "5 min"},
		{Name: "Jogging", Type: models.CategoryPhysical, Points: 45, Duration: "15 min"},
		{Name: "Stretching", Type: models.CategoryPhysical, Points: 35, Duration: "10 min"},
		{Name: "Push-ups", Type: models.CategoryPhysical, Points: 55, Duration: "10 min"},
	}
}

// SeedActivities resets the activity catalog to the defaults. Dev helper.
func SeedActivities(c *gin.Context) {
	if err := db.DB.Where("1 = 1").Delete(&models.Activity{}).Error; err != nil {
		ledgerError(c, "seed_activities", err)
		return
	}
	activities := DefaultActivities()
	if err := db.DB.Create(&activities).Error; err != nil {
		ledgerError(c, "seed_activities", err)
		return
	}

	utils.Logger.Info("activities_seeded", zap.Int("count", len(activities)))
	c.String(http.StatusCreated, "Default activities created successfully!")
}
