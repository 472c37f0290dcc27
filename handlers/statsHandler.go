package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kiyohan/StarHack/services"
	"github.com/kiyohan/StarHack/utils"
)

// GetStats returns the user's engagement summary aggregated from the
// completion audit trail.
func GetStats(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	stats, err := services.CalculateUserEngagementStats(user.ID, utils.Logger)
	if err != nil {
		ledgerError(c, "get_stats", err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
