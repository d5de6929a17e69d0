package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"casino-miniapp-gateway/internal/metrics"
	"casino-miniapp-gateway/internal/models"

	"go.uber.org/zap"
)

// Validation failures, in the order the flow checks them. They never reach
// the transport layer and never mutate state.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrConfigNotLoaded     = errors.New("game configuration not loaded")
	ErrDailyLimitReached   = errors.New("daily bet limit reached")
	ErrMaxBetExceeded      = errors.New("maximum bet exceeded")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBetInProgress       = errors.New("bet already in progress")
)

// ValidateBet runs the pre-submission checks, short-circuiting on the first
// failure: session, config, daily counter, max-bet percent, balance.
func ValidateBet(user *models.User, limits *models.GameLimits, stake float64, dailyCount int) error {
	if user == nil {
		return ErrUserNotFound
	}
	if limits == nil {
		return ErrConfigNotLoaded
	}
	if dailyCount >= limits.MaxBetsPerDay {
		return fmt.Errorf("%w: %d per day", ErrDailyLimitReached, limits.MaxBetsPerDay)
	}
	maxBet := user.Balance * limits.MaxBetPercent / 100
	if stake > maxBet {
		return fmt.Errorf("%w: %.2f (%.0f%% of balance)", ErrMaxBetExceeded, maxBet, limits.MaxBetPercent)
	}
	if stake > user.Balance {
		return ErrInsufficientBalance
	}
	return nil
}

// IsValidationError reports whether err belongs to the local validation
// class (as opposed to identity or transport errors).
func IsValidationError(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrConfigNotLoaded) ||
		errors.Is(err, ErrDailyLimitReached) ||
		errors.Is(err, ErrMaxBetExceeded) ||
		errors.Is(err, ErrInsufficientBalance)
}

// BetFlow turns a user-chosen wager into a validated remote call and a
// result presentation plan. One instance serves all games; per-game state
// (daily counters, in-flight guards, outcomes) is keyed in the store.
type BetFlow struct {
	store  *RedisService
	api    *GameAPIClient
	logger *zap.Logger
}

func NewBetFlow(store *RedisService, api *GameAPIClient, logger *zap.Logger) *BetFlow {
	return &BetFlow{store: store, api: api, logger: logger}
}

// submit wraps a remote bet call with the shared flow: validation, the
// one-in-flight guard, and on success the counter increment plus the
// balance/outcome cache update. A failed submission leaves every cached
// value untouched.
func (f *BetFlow) submit(
	ctx context.Context,
	session *models.UserSession,
	game models.GameType,
	limits *models.GameLimits,
	stake float64,
	call func(ctx context.Context) (*models.BetResult, error),
) (*models.BetResult, error) {
	var user *models.User
	if session != nil {
		user = session.User
	}

	dailyCount := 0
	if session != nil {
		var err error
		dailyCount, err = f.store.GetDailyCount(session.SessionID, game)
		if err != nil {
			return nil, fmt.Errorf("failed to read daily count: %v", err)
		}
	}

	if err := ValidateBet(user, limits, stake, dailyCount); err != nil {
		return nil, err
	}

	acquired, err := f.store.AcquireInFlight(session.SessionID, game)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire bet guard: %v", err)
	}
	if !acquired {
		return nil, ErrBetInProgress
	}
	defer f.store.ReleaseInFlight(session.SessionID, game)

	result, err := call(ctx)
	if err != nil {
		metrics.BetsTotal.WithLabelValues(string(game), "error").Inc()
		return nil, err
	}

	// Only a successful response mutates cached state, and the counter
	// moves exactly once per success.
	if _, err := f.store.IncrementDailyCount(session.SessionID, game); err != nil {
		f.logger.Error("failed to increment daily count",
			zap.String("session_id", session.SessionID),
			zap.String("game", string(game)),
			zap.Error(err))
	}
	if err := f.store.UpdateSessionBalance(session.SessionID, result.NewBalance); err != nil {
		f.logger.Error("failed to update cached balance",
			zap.String("session_id", session.SessionID),
			zap.Error(err))
	}
	if err := f.store.StoreLastOutcome(session.SessionID, result); err != nil {
		f.logger.Error("failed to store outcome",
			zap.String("session_id", session.SessionID),
			zap.Error(err))
	}

	outcome := "lose"
	if result.Win {
		outcome = "win"
	}
	metrics.BetsTotal.WithLabelValues(string(game), outcome).Inc()

	return result, nil
}

// Trade submits an up/down wager against the trade config.
func (f *BetFlow) Trade(ctx context.Context, session *models.UserSession, auth string, cfg *models.TradeConfig, req *models.TradeRequest) (*models.TradeOutcome, error) {
	var limits *models.GameLimits
	if cfg != nil {
		l := cfg.Limits()
		limits = &l
	}

	result, err := f.submit(ctx, session, models.GameTypeTrade, limits, req.Amount, func(ctx context.Context) (*models.BetResult, error) {
		return f.api.Trade(ctx, auth, session.User.UserID, req.Amount, req.Direction)
	})
	if err != nil {
		return nil, err
	}

	return &models.TradeOutcome{
		Result: *result,
		Reveal: revealPlan(cfg.TradeDuration),
	}, nil
}

// Futures submits an up/down wager against the futures config. The outcome
// is withheld behind the configured trade duration: the reveal plan drives
// the countdown while the price feed keeps ticking on its own.
func (f *BetFlow) Futures(ctx context.Context, session *models.UserSession, auth string, cfg *models.FuturesConfig, req *models.TradeRequest) (*models.TradeOutcome, error) {
	var limits *models.GameLimits
	if cfg != nil {
		l := cfg.Limits()
		limits = &l
	}

	result, err := f.submit(ctx, session, models.GameTypeFutures, limits, req.Amount, func(ctx context.Context) (*models.BetResult, error) {
		return f.api.Futures(ctx, auth, session.User.UserID, req.Amount, req.Direction)
	})
	if err != nil {
		return nil, err
	}

	return &models.TradeOutcome{
		Result: *result,
		Reveal: revealPlan(cfg.TradeDuration),
	}, nil
}

// Roulette submits a color wager and attaches the spin plan that lands the
// wheel on the server-declared slot.
func (f *BetFlow) Roulette(ctx context.Context, session *models.UserSession, auth string, cfg *models.RouletteConfig, req *models.RouletteRequest) (*models.RouletteOutcome, error) {
	var limits *models.GameLimits
	if cfg != nil {
		l := cfg.Limits()
		limits = &l
	}

	result, err := f.submit(ctx, session, models.GameTypeRoulette, limits, req.Amount, func(ctx context.Context) (*models.BetResult, error) {
		return f.api.Roulette(ctx, auth, session.User.UserID, req.Amount, req.Choice)
	})
	if err != nil {
		return nil, err
	}

	spin, err := NewSpinPlan(result.Slot)
	if err != nil {
		// The server declared a slot outside the wheel; surface it rather
		// than animate a wrong result.
		return nil, fmt.Errorf("invalid roulette result: %v", err)
	}

	return &models.RouletteOutcome{Result: *result, Spin: spin}, nil
}

func revealPlan(durationSeconds int) *models.RevealPlan {
	if durationSeconds <= 0 {
		return nil
	}
	return &models.RevealPlan{
		RevealAt:         time.Now().Add(time.Duration(durationSeconds) * time.Second),
		CountdownSeconds: durationSeconds,
	}
}
