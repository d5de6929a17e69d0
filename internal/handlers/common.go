package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"casino-miniapp-gateway/internal/models"
	"casino-miniapp-gateway/internal/services"
)

// telegramAuthHeader carries the host identity assertion on every call, the
// same header the game API expects it forwarded under.
const telegramAuthHeader = "x-telegram-auth"

func authData(c *gin.Context) string {
	return c.GetHeader(telegramAuthHeader)
}

// currentSession loads the session the auth middleware resolved.
func currentSession(c *gin.Context, store *services.RedisService) (*models.UserSession, bool) {
	sessionID, exists := c.Get("session_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, false
	}

	session, err := store.GetSession(sessionID.(string))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired or invalid"})
		return nil, false
	}

	return session, true
}

// noticeError answers with the transient-notice shape every recoverable
// error uses.
func noticeError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"error":  message,
		"notice": models.ErrorNotice(message),
	})
}

// betError maps a bet flow failure onto the error taxonomy: validation
// errors and busy guards stay client-side, remote errors surface the server
// text, everything else is internal.
func betError(c *gin.Context, err error) {
	var remoteErr *services.RemoteError

	switch {
	case errors.Is(err, services.ErrBetInProgress):
		noticeError(c, http.StatusConflict, err.Error())
	case services.IsValidationError(err):
		noticeError(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &remoteErr):
		noticeError(c, http.StatusBadGateway, remoteErr.Error())
	default:
		noticeError(c, http.StatusInternalServerError, "Failed to place bet")
	}
}
