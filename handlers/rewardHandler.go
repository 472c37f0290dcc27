package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kiyohan/StarHack/db"
	"github.com/kiyohan/StarHack/ledger"
	"github.com/kiyohan/StarHack/middleware"
	"github.com/kiyohan/StarHack/models"
	"github.com/kiyohan/StarHack/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GetRewardCatalog lists the static reward catalog.
func GetRewardCatalog(c *gin.Context) {
	var items []models.RewardItem
	if err := db.DB.Order("cost").Find(&items).Error; err != nil {
		ledgerError(c, "reward_catalog", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// ClaimReward spends points on a catalog item.
func ClaimReward(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var input struct {
		RewardName string `json:"reward_name"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.RewardName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reward_name is required"})
		return
	}

	var item models.RewardItem
	if err := db.DB.Where("name = ?", input.RewardName).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": ledger.ErrRewardNotFound.Message,
				"code":  ledger.ErrRewardNotFound.Code,
			})
			return
		}
		ledgerError(c, "claim_reward", err)
		return
	}

	updated, err := Ledger.ClaimReward(user.ID, item)
	if err != nil {
		ledgerError(c, "claim_reward", err)
		return
	}

	utils.RewardsClaimed.Inc()
	utils.Logger.Info("reward_claimed",
		zap.Uint("user_id", user.ID),
		zap.String("reward", item.Name),
		zap.Int("cost", item.Cost),
		zap.Int("points_left", updated.Points),
	)

	middleware.InvalidateUserCache(user.ID)

	c.JSON(http.StatusOK, updated)
}

// RedeemReward marks one claimed reward instance as redeemed. Redeeming the
// same instance twice is an error.
func RedeemReward(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	rewardID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reward id"})
		return
	}

	updated, err := Ledger.RedeemReward(user.ID, uint(rewardID))
	if err != nil {
		ledgerError(c, "redeem_reward", err)
		return
	}

	utils.Logger.Info("reward_redeemed",
		zap.Uint("user_id", user.ID),
		zap.Uint64("reward_id", rewardID),
	)

	middleware.InvalidateUserCache(user.ID)

	c.JSON(http.StatusOK, updated)
}
