package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"casino-miniapp-gateway/internal/models"
	"casino-miniapp-gateway/internal/services"
)

type NavigationHandler struct {
	redisService *services.RedisService
	navigation   *services.NavigationService
}

func NewNavigationHandler(redisService *services.RedisService, navigation *services.NavigationService) *NavigationHandler {
	return &NavigationHandler{redisService: redisService, navigation: navigation}
}

type navigateRequest struct {
	Screen models.Screen `json:"screen" binding:"required"`
}

func (h *NavigationHandler) navResponse(c *gin.Context, session *models.UserSession, nav *models.NavigationState) {
	c.JSON(http.StatusOK, gin.H{
		"screen":  nav.Resolve(session.Registered),
		"current": nav.Current,
		"stack":   nav.Stack,
	})
}

func (h *NavigationHandler) State(c *gin.Context) {
	session, ok := currentSession(c, h.redisService)
	if !ok {
		return
	}

	nav, err := h.navigation.State(session.SessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load navigation"})
		return
	}

	h.navResponse(c, session, nav)
}

func (h *NavigationHandler) NavigateTo(c *gin.Context) {
	session, ok := currentSession(c, h.redisService)
	if !ok {
		return
	}

	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil || !models.ValidScreen(req.Screen) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown screen"})
		return
	}

	nav, err := h.navigation.NavigateTo(session.SessionID, req.Screen)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to navigate"})
		return
	}

	h.navResponse(c, session, nav)
}

func (h *NavigationHandler) GoBack(c *gin.Context) {
	session, ok := currentSession(c, h.redisService)
	if !ok {
		return
	}

	nav, err := h.navigation.GoBack(session.SessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to navigate back"})
		return
	}

	h.navResponse(c, session, nav)
}
