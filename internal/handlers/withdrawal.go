package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"casino-miniapp-gateway/internal/metrics"
	"casino-miniapp-gateway/internal/models"
	"casino-miniapp-gateway/internal/services"
)

type WithdrawalHandler struct {
	redisService *services.RedisService
	gameAPI      *services.GameAPIClient
	logger       *zap.Logger
}

func NewWithdrawalHandler(redisService *services.RedisService, gameAPI *services.GameAPIClient, logger *zap.Logger) *WithdrawalHandler {
	return &WithdrawalHandler{redisService: redisService, gameAPI: gameAPI, logger: logger}
}

// Confirm opens the confirmation step: the full cached balance and the
// on-file payout account the withdrawal would carry.
func (h *WithdrawalHandler) Confirm(c *gin.Context) {
	session, ok := currentSession(c, h.redisService)
	if !ok {
		return
	}
	if session.User == nil {
		noticeError(c, http.StatusBadRequest, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"available":     session.User.Balance,
		"accountNumber": session.User.AccountNumber,
	})
}

// Submit requests withdrawal of the full current balance. The response is
// the "submitted for processing" notice regardless of the upstream result:
// a failure is recorded in the diagnostic log and counter only. Managers
// reconcile failed requests out of band.
func (h *WithdrawalHandler) Submit(c *gin.Context) {
	session, ok := currentSession(c, h.redisService)
	if !ok {
		return
	}
	if session.User == nil {
		noticeError(c, http.StatusBadRequest, "User not found")
		return
	}

	err := h.gameAPI.RequestWithdrawal(
		c.Request.Context(),
		authData(c),
		session.User.UserID,
		session.User.Balance,
		session.User.AccountNumber,
	)
	if err != nil {
		metrics.WithdrawalFailures.Inc()
		h.logger.Error("withdrawal submission failed",
			zap.Int64("user_id", session.User.UserID),
			zap.Float64("amount", session.User.Balance),
			zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"notice": models.SuccessNotice(
			"Withdrawal is being processed, contact your manager for details",
			models.WithdrawNoticeDismissMs,
		),
	})
}
