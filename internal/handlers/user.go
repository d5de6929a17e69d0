package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"casino-miniapp-gateway/internal/services"
)

type UserHandler struct {
	redisService *services.RedisService
	gameAPI      *services.GameAPIClient
	logger       *zap.Logger
}

func NewUserHandler(redisService *services.RedisService, gameAPI *services.GameAPIClient, logger *zap.Logger) *UserHandler {
	return &UserHandler{redisService: redisService, gameAPI: gameAPI, logger: logger}
}

// GetCurrentUser returns the cached session profile. The balance here is a
// cache of the server's authority; it moves only when a remote call
// settles.
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	session, ok := currentSession(c, h.redisService)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":       session.User,
		"registered": session.Registered,
		"session": gin.H{
			"session_id":    session.SessionID,
			"created_at":    session.CreatedAt,
			"last_accessed": session.LastAccessed,
		},
	})
}

// GetMainScreen is the main-page payload: profile plus the daily growth
// percent the balance card shows.
func (h *UserHandler) GetMainScreen(c *gin.Context) {
	session, ok := currentSession(c, h.redisService)
	if !ok {
		return
	}
	if session.User == nil {
		noticeError(c, http.StatusBadRequest, "User not found")
		return
	}

	percent, err := h.gameAPI.GetUserGrowthPercent(c.Request.Context(), authData(c), session.User.UserID)
	if err != nil {
		// The card falls back to zero; the screen itself still renders.
		h.logger.Warn("failed to load growth percent", zap.Int64("user_id", session.User.UserID), zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{
		"user":          session.User,
		"growthPercent": percent,
	})
}

func (h *UserHandler) GetHistory(c *gin.Context) {
	session, ok := currentSession(c, h.redisService)
	if !ok {
		return
	}
	if session.User == nil {
		noticeError(c, http.StatusBadRequest, "User not found")
		return
	}

	limitStr := c.DefaultQuery("limit", "10")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 || limit > 100 {
		limit = 10
	}

	txs, err := h.gameAPI.GetTransactionHistory(c.Request.Context(), authData(c), session.User.UserID, limit)
	if err != nil {
		noticeError(c, http.StatusBadGateway, "Failed to load transaction history")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": txs,
		"count":        len(txs),
	})
}

func (h *UserHandler) GetBonuses(c *gin.Context) {
	if _, ok := currentSession(c, h.redisService); !ok {
		return
	}

	cfg, err := h.gameAPI.GetBonusesConfig(c.Request.Context(), authData(c))
	if err != nil {
		noticeError(c, http.StatusBadGateway, "Failed to load bonuses")
		return
	}

	c.JSON(http.StatusOK, gin.H{"bonusConfig": cfg})
}

func (h *UserHandler) GetManagerContact(c *gin.Context) {
	session, ok := currentSession(c, h.redisService)
	if !ok {
		return
	}

	contact, found, err := h.redisService.GetManagerContact(session.SessionID)
	if err == nil && found {
		c.JSON(http.StatusOK, gin.H{"managerContact": contact})
		return
	}

	contact, err = h.gameAPI.GetManagerContact(c.Request.Context(), authData(c))
	if err != nil {
		noticeError(c, http.StatusBadGateway, "Manager is unavailable right now, try later")
		return
	}

	if err := h.redisService.StoreManagerContact(session.SessionID, contact); err != nil {
		h.logger.Error("failed to cache manager contact", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"managerContact": contact})
}

// GetLocale returns the persisted locale preference (the only state that
// survives reloads) together with the translation bundle for it.
func (h *UserHandler) GetLocale(c *gin.Context) {
	session, ok := currentSession(c, h.redisService)
	if !ok {
		return
	}

	locale, err := h.redisService.GetLocale(session.TelegramID)
	if err != nil {
		h.logger.Error("failed to read locale", zap.Error(err))
	}
	if locale == "" {
		locale = "ru"
	}

	translations, err := h.gameAPI.GetLocale(c.Request.Context(), locale)
	if err != nil {
		noticeError(c, http.StatusBadGateway, "Failed to load translations")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"locale":       locale,
		"translations": translations,
	})
}

type setLocaleRequest struct {
	Locale string `json:"locale" binding:"required"`
}

func (h *UserHandler) SetLocale(c *gin.Context) {
	session, ok := currentSession(c, h.redisService)
	if !ok {
		return
	}

	var req setLocaleRequest
	if err := c.ShouldBindJSON(&req); err != nil || (req.Locale != "ru" && req.Locale != "en") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported locale"})
		return
	}

	if err := h.redisService.StoreLocale(session.TelegramID, req.Locale); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store locale"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"locale": req.Locale})
}
