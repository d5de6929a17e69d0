package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"casino-miniapp-gateway/internal/models"
	"casino-miniapp-gateway/internal/services"
)

type AuthHandler struct {
	redisService    *services.RedisService
	jwtService      *services.JWTService
	telegramService *services.TelegramService
	gameAPI         *services.GameAPIClient
	navigation      *services.NavigationService
	logger          *zap.Logger
}

func NewAuthHandler(
	redisService *services.RedisService,
	jwtService *services.JWTService,
	telegramService *services.TelegramService,
	gameAPI *services.GameAPIClient,
	navigation *services.NavigationService,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		redisService:    redisService,
		jwtService:      jwtService,
		telegramService: telegramService,
		gameAPI:         gameAPI,
		navigation:      navigation,
		logger:          logger,
	}
}

// Authenticate is the session bootstrap: it trusts the host-supplied
// identity assertion, resolves the profile once, and issues the session
// token. Without a valid assertion nothing downstream can proceed.
func (h *AuthHandler) Authenticate(c *gin.Context) {
	initData := authData(c)

	tgUser, err := h.telegramService.ValidateInitData(initData)
	if err != nil {
		status := http.StatusUnauthorized
		message := "Invalid Telegram authorization data"
		if errors.Is(err, services.ErrNoInitData) {
			message = "App must be opened from Telegram"
		}
		noticeError(c, status, message)
		return
	}

	telegramID := strconv.FormatInt(tgUser.ID, 10)

	// A repeated launch within the session TTL is answered from the cached
	// session; the profile is not re-fetched.
	if existing, err := h.redisService.GetSessionByTelegramID(telegramID); err == nil && existing != nil {
		token, err := h.jwtService.GenerateToken(telegramID, existing.SessionID)
		if err == nil {
			nav, navErr := h.navigation.State(existing.SessionID)
			if navErr != nil {
				nav = models.NewNavigationState()
			}
			c.JSON(http.StatusOK, gin.H{
				"token":      token,
				"registered": existing.Registered,
				"user":       existing.User,
				"screen":     nav.Resolve(existing.Registered),
			})
			return
		}
	}

	user, err := h.gameAPI.GetUser(c.Request.Context(), initData, telegramID)
	if err != nil {
		h.logger.Error("failed to resolve user profile", zap.String("telegram_id", telegramID), zap.Error(err))
		noticeError(c, http.StatusBadGateway, "Failed to load profile, try again")
		return
	}

	session := &models.UserSession{
		SessionID:    models.GenerateSessionID(),
		TelegramID:   telegramID,
		TelegramUser: *tgUser,
		User:         user,
		Registered:   user != nil,
		CreatedAt:    time.Now(),
		LastAccessed: time.Now(),
	}

	if err := h.redisService.StoreSession(session); err != nil {
		h.logger.Error("failed to store session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	// Navigation state is rebuilt from scratch on every load.
	nav := models.NewNavigationState()
	if session.Registered {
		nav = &models.NavigationState{Current: models.ScreenMain, Stack: []models.Screen{models.ScreenMain}}
	}
	if err := h.redisService.StoreNavigation(session.SessionID, nav); err != nil {
		h.logger.Error("failed to store navigation", zap.Error(err))
	}

	token, err := h.jwtService.GenerateToken(telegramID, session.SessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"registered": session.Registered,
		"user":       session.User,
		"screen":     nav.Resolve(session.Registered),
	})
}

// Register submits the profile form bound to the host identity. Success
// explicitly moves navigation onto main; there is no reactive watcher.
func (h *AuthHandler) Register(c *gin.Context) {
	session, ok := currentSession(c, h.redisService)
	if !ok {
		return
	}

	var input models.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		noticeError(c, http.StatusBadRequest, "Please fill in all fields")
		return
	}

	if err := input.Validate(); err != nil {
		noticeError(c, http.StatusBadRequest, "Please fill in all fields")
		return
	}

	// Identity errors are a distinct class: without the host assertion the
	// submission is refused, never retried.
	if session.TelegramID == "" {
		noticeError(c, http.StatusUnauthorized, "Could not resolve Telegram identity")
		return
	}

	initData := authData(c)

	if _, err := h.gameAPI.RegisterUser(c.Request.Context(), initData, session.TelegramID, &input); err != nil {
		var remoteErr *services.RemoteError
		if errors.As(err, &remoteErr) {
			noticeError(c, http.StatusBadGateway, remoteErr.Error())
			return
		}
		h.logger.Error("registration failed", zap.String("telegram_id", session.TelegramID), zap.Error(err))
		noticeError(c, http.StatusBadGateway, "Registration failed")
		return
	}

	user, err := h.gameAPI.GetUser(c.Request.Context(), initData, session.TelegramID)
	if err != nil || user == nil {
		h.logger.Error("failed to load profile after registration", zap.Error(err))
		noticeError(c, http.StatusBadGateway, "Registration succeeded but profile failed to load")
		return
	}

	session.User = user
	session.Registered = true
	if err := h.redisService.StoreSession(session); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update session"})
		return
	}

	nav, err := h.navigation.Reset(session.SessionID, models.ScreenMain)
	if err != nil {
		h.logger.Error("failed to reset navigation after registration", zap.Error(err))
	}

	resolved := models.ScreenMain
	if nav != nil {
		resolved = nav.Resolve(true)
	}

	c.JSON(http.StatusOK, gin.H{
		"user":   user,
		"screen": resolved,
	})
}

// Logout drops the session cache.
func (h *AuthHandler) Logout(c *gin.Context) {
	session, ok := currentSession(c, h.redisService)
	if !ok {
		return
	}

	if err := h.redisService.DeleteSession(session.SessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to logout"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}
