package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"casino-miniapp-gateway/internal/models"
	"casino-miniapp-gateway/internal/services"
)

type GameHandler struct {
	redisService *services.RedisService
	gameAPI      *services.GameAPIClient
	betFlow      *services.BetFlow
	priceFeed    *services.PriceFeed
	broadcaster  services.Broadcaster
	logger       *zap.Logger
}

func NewGameHandler(
	redisService *services.RedisService,
	gameAPI *services.GameAPIClient,
	betFlow *services.BetFlow,
	priceFeed *services.PriceFeed,
	broadcaster services.Broadcaster,
	logger *zap.Logger,
) *GameHandler {
	return &GameHandler{
		redisService: redisService,
		gameAPI:      gameAPI,
		betFlow:      betFlow,
		priceFeed:    priceFeed,
		broadcaster:  broadcaster,
		logger:       logger,
	}
}

// Config loaders: fetched once per session, cached immutable until the next
// load. Screens trigger these when they become visible.

func (h *GameHandler) tradeConfig(c *gin.Context, session *models.UserSession) (*models.TradeConfig, error) {
	var cfg models.TradeConfig
	found, err := h.redisService.GetGameConfig(session.SessionID, models.GameTypeTrade, &cfg)
	if err != nil {
		return nil, err
	}
	if found {
		return &cfg, nil
	}

	remote, err := h.gameAPI.GetTradeConfig(c.Request.Context(), authData(c))
	if err != nil {
		return nil, err
	}
	if err := h.redisService.StoreGameConfig(session.SessionID, models.GameTypeTrade, remote); err != nil {
		h.logger.Error("failed to cache trade config", zap.Error(err))
	}
	return remote, nil
}

func (h *GameHandler) rouletteConfig(c *gin.Context, session *models.UserSession) (*models.RouletteConfig, error) {
	var cfg models.RouletteConfig
	found, err := h.redisService.GetGameConfig(session.SessionID, models.GameTypeRoulette, &cfg)
	if err != nil {
		return nil, err
	}
	if found {
		return &cfg, nil
	}

	remote, err := h.gameAPI.GetRouletteConfig(c.Request.Context(), authData(c))
	if err != nil {
		return nil, err
	}
	if err := h.redisService.StoreGameConfig(session.SessionID, models.GameTypeRoulette, remote); err != nil {
		h.logger.Error("failed to cache roulette config", zap.Error(err))
	}
	return remote, nil
}

func (h *GameHandler) futuresConfig(c *gin.Context, session *models.UserSession) (*models.FuturesConfig, error) {
	var cfg models.FuturesConfig
	found, err := h.redisService.GetGameConfig(session.SessionID, models.GameTypeFutures, &cfg)
	if err != nil {
		return nil, err
	}
	if found {
		return &cfg, nil
	}

	remote, err := h.gameAPI.GetFuturesConfig(c.Request.Context(), authData(c))
	if err != nil {
		return nil, err
	}
	if err := h.redisService.StoreGameConfig(session.SessionID, models.GameTypeFutures, remote); err != nil {
		h.logger.Error("failed to cache futures config", zap.Error(err))
	}
	return remote, nil
}

func (h *GameHandler) GetTradeConfig(c *gin.Context) {
	session, ok := currentSession(c, h.redisService)
	if !ok {
		return
	}

	cfg, err := h.tradeConfig(c, session)
	if err != nil {
		noticeError(c, http.StatusBadGateway, "Failed to load trade configuration")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tradeConfig": cfg})
}

func (h *GameHandler) GetRouletteConfig(c *gin.Context) {
	session, ok := currentSession(c, h.redisService)
	if !ok {
		return
	}

	cfg, err := h.rouletteConfig(c, session)
	if err != nil {
		noticeError(c, http.StatusBadGateway, "Failed to load roulette configuration")
		return
	}

	c.JSON(http.StatusOK, gin.H{"rouletteConfig": cfg})
}

func (h *GameHandler) GetFuturesConfig(c *gin.Context) {
	session, ok := currentSession(c, h.redisService)
	if !ok {
		return
	}

	cfg, err := h.futuresConfig(c, session)
	if err != nil {
		noticeError(c, http.StatusBadGateway, "Failed to load futures configuration")
		return
	}

	c.JSON(http.StatusOK, gin.H{"futuresConfig": cfg})
}

// Bet endpoints. Exactly one submission per game per session is in flight
// at a time; the busy guard lives in the flow, the disabled button lives in
// the client.

func (h *GameHandler) Trade(c *gin.Context) {
	session, ok := currentSession(c, h.redisService)
	if !ok {
		return
	}

	var req models.TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		noticeError(c, http.StatusBadRequest, "Invalid bet request")
		return
	}

	cfg, err := h.tradeConfig(c, session)
	if err != nil {
		h.logger.Warn("trade config unavailable", zap.String("session_id", session.SessionID), zap.Error(err))
	}

	outcome, err := h.betFlow.Trade(c.Request.Context(), session, authData(c), cfg, &req)
	if err != nil {
		betError(c, err)
		return
	}

	h.broadcaster.BroadcastBalance(session.SessionID, outcome.Result.NewBalance)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  outcome.Result,
		"reveal":  outcome.Reveal,
	})
}

func (h *GameHandler) Futures(c *gin.Context) {
	session, ok := currentSession(c, h.redisService)
	if !ok {
		return
	}

	var req models.TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		noticeError(c, http.StatusBadRequest, "Invalid bet request")
		return
	}

	cfg, err := h.futuresConfig(c, session)
	if err != nil {
		h.logger.Warn("futures config unavailable", zap.String("session_id", session.SessionID), zap.Error(err))
	}

	outcome, err := h.betFlow.Futures(c.Request.Context(), session, authData(c), cfg, &req)
	if err != nil {
		betError(c, err)
		return
	}

	h.broadcaster.BroadcastBalance(session.SessionID, outcome.Result.NewBalance)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  outcome.Result,
		"reveal":  outcome.Reveal,
	})
}

func (h *GameHandler) Roulette(c *gin.Context) {
	session, ok := currentSession(c, h.redisService)
	if !ok {
		return
	}

	var req models.RouletteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		noticeError(c, http.StatusBadRequest, "Invalid bet request")
		return
	}

	cfg, err := h.rouletteConfig(c, session)
	if err != nil {
		h.logger.Warn("roulette config unavailable", zap.String("session_id", session.SessionID), zap.Error(err))
	}

	outcome, err := h.betFlow.Roulette(c.Request.Context(), session, authData(c), cfg, &req)
	if err != nil {
		betError(c, err)
		return
	}

	h.broadcaster.BroadcastBalance(session.SessionID, outcome.Result.NewBalance)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  outcome.Result,
		"spin":    outcome.Spin,
	})
}

// PriceFeed returns the recent chart series for a futures screen that just
// became visible; live ticks continue over the websocket.
func (h *GameHandler) PriceFeed(c *gin.Context) {
	if _, ok := currentSession(c, h.redisService); !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"points": h.priceFeed.Series()})
}

// LastOutcome exposes the transient cached result driving the result modal.
func (h *GameHandler) LastOutcome(c *gin.Context) {
	session, ok := currentSession(c, h.redisService)
	if !ok {
		return
	}

	game := models.GameType(c.Param("game"))
	switch game {
	case models.GameTypeTrade, models.GameTypeRoulette, models.GameTypeFutures:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown game type"})
		return
	}

	outcome, err := h.redisService.GetLastOutcome(session.SessionID, game)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load outcome"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"outcome": outcome})
}
