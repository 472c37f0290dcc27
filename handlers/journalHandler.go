package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kiyohan/StarHack/db"
	"github.com/kiyohan/StarHack/middleware"
	"github.com/kiyohan/StarHack/models"
	"github.com/kiyohan/StarHack/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateJournalEntry stores a journal entry and completes the Journal task
// in the same ledger transaction. Submitting twice in one day is rejected
// before anything is written.
func CreateJournalEntry(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var input struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content cannot be empty"})
		return
	}

	points, _, err := resolveTaskPoints(models.JournalTaskType)
	if err != nil {
		ledgerError(c, "create_journal", err)
		return
	}

	entry := models.JournalEntry{
		UserID:  user.ID,
		Content: strings.TrimSpace(input.Content),
	}

	updated, record, err := Ledger.CompleteTask(user.ID, models.JournalTaskType, points, func(tx *gorm.DB) error {
		return tx.Create(&entry).Error
	})
	if err != nil {
		ledgerError(c, "create_journal", err)
		return
	}

	utils.TasksCompleted.WithLabelValues(models.JournalTaskType).Inc()
	utils.Logger.Info("journal_entry_created",
		zap.Uint("user_id", user.ID),
		zap.Uint("entry_id", entry.ID),
		zap.Int("streak", updated.Streak),
	)

	middleware.InvalidateUserCache(user.ID)
	middleware.InvalidateLeaderboardCache()

	c.JSON(http.StatusOK, gin.H{
		"entry":      entry,
		"user":       updated,
		"completion": record,
	})
}

// GetJournalEntries returns the user's own entries, newest first.
func GetJournalEntries(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var entries []models.JournalEntry
	if err := db.DB.Preload("Upvotes").
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		ledgerError(c, "get_journal", err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

type communityEntry struct {
	ID        uint   `json:"id"`
	Content   string `json:"content"`
	Upvotes   int    `json:"upvotes"`
	Upvoted   bool   `json:"upvoted"`
	Author    string `json:"author"`
	CreatedAt string `json:"created_at"`
}

// GetCommunityFeed returns the latest 50 entries with authors anonymized.
func GetCommunityFeed(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var entries []models.JournalEntry
	if err := db.DB.Preload("Upvotes").
		Order("created_at DESC").
		Limit(50).
		Find(&entries).Error; err != nil {
		ledgerError(c, "community_feed", err)
		return
	}

	feed := make([]communityEntry, 0, len(entries))
	for _, entry := range entries {
		upvoted := false
		for _, uv := range entry.Upvotes {
			if uv.UserID == user.ID {
				upvoted = true
				break
			}
		}
		feed = append(feed, communityEntry{
			ID:        entry.ID,
			Content:   entry.Content,
			Upvotes:   len(entry.Upvotes),
			Upvoted:   upvoted,
			Author:    fmt.Sprintf("User-%04d", entry.UserID%10000),
			CreatedAt: entry.CreatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, feed)
}

// UpvoteJournalEntry toggles the caller's upvote on an entry.
func UpvoteJournalEntry(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id := c.Param("id")
	var entry models.JournalEntry
	if err := db.DB.First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Journal entry not found"})
			return
		}
		ledgerError(c, "upvote", err)
		return
	}

	var upvote models.JournalUpvote
	err := db.DB.Where("entry_id = ? AND user_id = ?", entry.ID, user.ID).First(&upvote).Error
	switch {
	case err == nil:
		if err := db.DB.Delete(&upvote).Error; err != nil {
			ledgerError(c, "upvote", err)
			return
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		upvote = models.JournalUpvote{EntryID: entry.ID, UserID: user.ID}
		if err := db.DB.Create(&upvote).Error; err != nil {
			ledgerError(c, "upvote", err)
			return
		}
	default:
		ledgerError(c, "upvote", err)
		return
	}

	var count int64
	if err := db.DB.Model(&models.JournalUpvote{}).Where("entry_id = ?", entry.ID).Count(&count).Error; err != nil {
		ledgerError(c, "upvote", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry_id": entry.ID, "upvotes": count})
}
