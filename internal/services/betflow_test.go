package services_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"casino-miniapp-gateway/internal/models"
	"casino-miniapp-gateway/internal/services"
)

func TestValidateBet(t *testing.T) {
	user := &models.User{UserID: 1, Balance: 1000}
	limits := &models.GameLimits{MaxBetPercent: 10, MaxBetsPerDay: 5}

	cases := []struct {
		name       string
		user       *models.User
		limits     *models.GameLimits
		stake      float64
		dailyCount int
		want       error
	}{
		{"valid bet", user, limits, 50, 0, nil},
		{"valid at daily boundary", user, limits, 50, 4, nil},
		{"missing user", nil, limits, 50, 0, services.ErrUserNotFound},
		{"missing config", user, nil, 50, 0, services.ErrConfigNotLoaded},
		{"daily limit reached", user, limits, 50, 5, services.ErrDailyLimitReached},
		{"stake over max percent", user, limits, 150, 0, services.ErrMaxBetExceeded},
		{"stake at max percent", user, limits, 100, 0, nil},
		{
			"insufficient balance",
			&models.User{UserID: 2, Balance: 40},
			&models.GameLimits{MaxBetPercent: 200, MaxBetsPerDay: 5},
			50, 0,
			services.ErrInsufficientBalance,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := services.ValidateBet(tc.user, tc.limits, tc.stake, tc.dailyCount)
			if tc.want == nil {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Errorf("Expected %v, got %v", tc.want, err)
			}
		})
	}
}

// Checks run in a fixed order, so the first failing check wins even when
// several would fail.
func TestValidateBetShortCircuits(t *testing.T) {
	limits := &models.GameLimits{MaxBetPercent: 10, MaxBetsPerDay: 5}

	err := services.ValidateBet(nil, nil, 0, 10)
	if !errors.Is(err, services.ErrUserNotFound) {
		t.Errorf("Missing user should win over everything else, got %v", err)
	}

	err = services.ValidateBet(&models.User{Balance: 10}, nil, 500, 10)
	if !errors.Is(err, services.ErrConfigNotLoaded) {
		t.Errorf("Missing config should win over limit checks, got %v", err)
	}

	err = services.ValidateBet(&models.User{Balance: 10}, limits, 500, 10)
	if !errors.Is(err, services.ErrDailyLimitReached) {
		t.Errorf("Daily limit should win over stake checks, got %v", err)
	}
}

func TestBetFlowSubmitPipeline(t *testing.T) {
	redisService := setupTestRedis(t)

	// The upstream rejects bets until told otherwise. 422 is not in the
	// transient set, so the flow fails on the first attempt.
	var accept atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !accept.Load() {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"success":false,"errorCode":"REJECTED","errorMessage":"Bet rejected"}`))
			return
		}
		w.Write([]byte(`{"success":true,"data":{"win":true,"amount":50,"newBalance":1050}}`))
	}))
	defer server.Close()

	session := &models.UserSession{
		SessionID:  models.GenerateSessionID(),
		TelegramID: "424242",
		User:       &models.User{UserID: 7, Balance: 1000, AccountNumber: "ACC-1"},
		Registered: true,
		CreatedAt:  time.Now(),
	}
	if err := redisService.StoreSession(session); err != nil {
		t.Fatalf("Failed to store session: %v", err)
	}

	flow := services.NewBetFlow(redisService, services.NewGameAPIClient(server.URL, 1), zap.NewNop())
	cfg := &models.TradeConfig{MaxBetPercent: 50, MaxBetsPerDay: 5, TradeDuration: 30}
	req := &models.TradeRequest{Amount: 50, Direction: models.DirectionUp}

	// A remote rejection leaves every counter and cache untouched.
	if _, err := flow.Trade(context.Background(), session, "auth", cfg, req); err == nil {
		t.Fatal("Rejected bet should fail")
	}

	count, err := redisService.GetDailyCount(session.SessionID, models.GameTypeTrade)
	if err != nil {
		t.Fatalf("Failed to read daily count: %v", err)
	}
	if count != 0 {
		t.Errorf("Failed submission should not move the daily counter, got %d", count)
	}

	outcome, err := redisService.GetLastOutcome(session.SessionID, models.GameTypeTrade)
	if err != nil {
		t.Fatalf("Failed to read outcome: %v", err)
	}
	if outcome != nil {
		t.Error("Failed submission should not cache an outcome")
	}

	// The in-flight guard is released on the failure path.
	acquired, err := redisService.AcquireInFlight(session.SessionID, models.GameTypeTrade)
	if err != nil {
		t.Fatalf("Failed to probe guard: %v", err)
	}
	if !acquired {
		t.Fatal("Guard should be free after a failed submission")
	}
	redisService.ReleaseInFlight(session.SessionID, models.GameTypeTrade)

	// A fulfilled bet moves the counter exactly once and updates the caches.
	accept.Store(true)

	result, err := flow.Trade(context.Background(), session, "auth", cfg, req)
	if err != nil {
		t.Fatalf("Accepted bet should succeed: %v", err)
	}
	if !result.Result.Win || result.Result.NewBalance != 1050 {
		t.Errorf("Unexpected result: %+v", result.Result)
	}
	if result.Reveal == nil || result.Reveal.CountdownSeconds != 30 {
		t.Errorf("Expected a 30s reveal plan, got %+v", result.Reveal)
	}

	count, err = redisService.GetDailyCount(session.SessionID, models.GameTypeTrade)
	if err != nil {
		t.Fatalf("Failed to read daily count: %v", err)
	}
	if count != 1 {
		t.Errorf("One success should move the counter to exactly 1, got %d", count)
	}

	updated, err := redisService.GetSession(session.SessionID)
	if err != nil {
		t.Fatalf("Failed to reload session: %v", err)
	}
	if updated.User.Balance != 1050 {
		t.Errorf("Cached balance should follow the settled bet, got %.2f", updated.User.Balance)
	}

	outcome, err = redisService.GetLastOutcome(session.SessionID, models.GameTypeTrade)
	if err != nil {
		t.Fatalf("Failed to read outcome: %v", err)
	}
	if outcome == nil || !outcome.Win {
		t.Errorf("Settled bet should cache its outcome, got %+v", outcome)
	}

	// The guard is released on the success path too.
	acquired, err = redisService.AcquireInFlight(session.SessionID, models.GameTypeTrade)
	if err != nil {
		t.Fatalf("Failed to probe guard: %v", err)
	}
	if !acquired {
		t.Error("Guard should be free after a settled submission")
	}
	redisService.ReleaseInFlight(session.SessionID, models.GameTypeTrade)
}

func TestIsValidationError(t *testing.T) {
	for _, err := range []error{
		services.ErrUserNotFound,
		services.ErrConfigNotLoaded,
		services.ErrDailyLimitReached,
		services.ErrMaxBetExceeded,
		services.ErrInsufficientBalance,
	} {
		if !services.IsValidationError(err) {
			t.Errorf("%v should classify as a validation error", err)
		}
	}

	if services.IsValidationError(errors.New("connection refused")) {
		t.Error("Transport errors should not classify as validation errors")
	}
	if services.IsValidationError(services.ErrBetInProgress) {
		t.Error("In-flight guard is a concurrency conflict, not a validation failure")
	}
}
