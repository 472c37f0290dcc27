package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kiyohan/StarHack/ledger"
	"github.com/kiyohan/StarHack/models"
	"github.com/kiyohan/StarHack/utils"
	"go.uber.org/zap"
)

// Ledger is the shared engagement ledger. Every points/streak mutation in
// the app goes through it; handlers never update those fields directly.
var Ledger *ledger.Service

func InitLedger(svc *ledger.Service) {
	Ledger = svc
}

func currentUser(c *gin.Context) (models.User, bool) {
	userInterface, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return models.User{}, false
	}
	user, ok := userInterface.(models.User)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return models.User{}, false
	}
	return user, true
}

// ledgerError maps business rejections to 4xx responses with a stable code
// and everything else to a logged 500.
func ledgerError(c *gin.Context, handler string, err error) {
	var lerr *ledger.Error
	if errors.As(err, &lerr) {
		status := http.StatusBadRequest
		if lerr == ledger.ErrRewardNotFound || lerr == ledger.ErrUserNotFound {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": lerr.Message, "code": lerr.Code})
		return
	}

	utils.ErrorCount.WithLabelValues(handler, "storage").Inc()
	utils.Logger.Error("storage_error", zap.String("handler", handler), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
