package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"casino-miniapp-gateway/internal/metrics"
	"casino-miniapp-gateway/internal/models"
)

// GameAPIClient is the thin wrapper over the remote game/account API. It
// owns transport policy only: bounded timeout, limited retry on transient
// statuses, typed result decoding. Bet resolution, balance authority and
// persistence all live on the other side of it.
type GameAPIClient struct {
	baseURL string
	botID   int64
	http    *http.Client

	maxRetries   int
	retryBackoff time.Duration
}

// RemoteError carries the server-supplied error text for the transient
// notice channel.
type RemoteError struct {
	Code       string
	Message    string
	StatusCode int
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("game api error (http %d)", e.StatusCode)
}

// retryableStatuses is the transient set worth a second attempt.
var retryableStatuses = map[int]bool{
	http.StatusRequestTimeout:        true,
	http.StatusRequestEntityTooLarge: true,
	http.StatusTooManyRequests:       true,
	http.StatusInternalServerError:   true,
	http.StatusBadGateway:            true,
	http.StatusServiceUnavailable:    true,
	http.StatusGatewayTimeout:        true,
}

func NewGameAPIClient(baseURL string, botID int64) *GameAPIClient {
	return &GameAPIClient{
		baseURL:      baseURL + "/trpc",
		botID:        botID,
		http:         &http.Client{Timeout: 10 * time.Second},
		maxRetries:   3,
		retryBackoff: 250 * time.Millisecond,
	}
}

type apiEnvelope struct {
	Success      bool            `json:"success"`
	Data         json.RawMessage `json:"data,omitempty"`
	ErrorCode    string          `json:"errorCode,omitempty"`
	ErrorMessage string          `json:"errorMessage,omitempty"`
}

// post issues one procedure call, retrying transient failures. auth is the
// host identity assertion forwarded as-is; it may be empty for calls that
// only need the tenant id.
func (c *GameAPIClient) post(ctx context.Context, procedure, auth string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %v", procedure, err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			metrics.UpstreamRetries.WithLabelValues(procedure).Inc()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryBackoff * time.Duration(attempt)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+procedure, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-bot-id", strconv.FormatInt(c.botID, 10))
		if auth != "" {
			req.Header.Set("x-telegram-auth", auth)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			// Network errors are transient by assumption; the status
			// classification below handles everything else.
			lastErr = err
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			remoteErr := &RemoteError{StatusCode: resp.StatusCode}
			var env apiEnvelope
			if json.Unmarshal(respBody, &env) == nil {
				remoteErr.Code = env.ErrorCode
				remoteErr.Message = env.ErrorMessage
			}
			if retryableStatuses[resp.StatusCode] {
				lastErr = remoteErr
				continue
			}
			return remoteErr
		}

		if out != nil {
			if err := json.Unmarshal(respBody, out); err != nil {
				return fmt.Errorf("failed to decode %s response: %v", procedure, err)
			}
		}
		return nil
	}

	return fmt.Errorf("%s failed after %d attempts: %w", procedure, c.maxRetries+1, lastErr)
}

// call unwraps the {success, data, errorCode, errorMessage} envelope used
// by the mutating procedures.
func (c *GameAPIClient) call(ctx context.Context, procedure, auth string, payload any, out any) error {
	var env apiEnvelope
	if err := c.post(ctx, procedure, auth, payload, &env); err != nil {
		return err
	}
	if !env.Success {
		return &RemoteError{Code: env.ErrorCode, Message: env.ErrorMessage, StatusCode: http.StatusOK}
	}
	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode %s data: %v", procedure, err)
		}
	}
	return nil
}

type registerUserPayload struct {
	BotID         int64  `json:"botId"`
	TelegramID    string `json:"telegramId"`
	FullName      string `json:"fullName"`
	Age           int    `json:"age"`
	City          string `json:"city"`
	Contact       string `json:"contact"`
	AccountNumber string `json:"accountNumber"`
}

func (c *GameAPIClient) RegisterUser(ctx context.Context, auth, telegramID string, in *models.RegisterInput) (int64, error) {
	payload := registerUserPayload{
		BotID:         c.botID,
		TelegramID:    telegramID,
		FullName:      in.FullName,
		Age:           in.AgeValue(),
		City:          in.City,
		Contact:       in.Contact,
		AccountNumber: in.AccountNumber,
	}

	var data struct {
		UserID int64 `json:"userId"`
	}
	if err := c.call(ctx, "registerUser", auth, payload, &data); err != nil {
		return 0, err
	}
	return data.UserID, nil
}

// GetUser resolves the profile for a host identity. A nil user with a nil
// error means "not registered".
func (c *GameAPIClient) GetUser(ctx context.Context, auth, telegramID string) (*models.User, error) {
	payload := map[string]any{"botId": c.botID, "telegramId": telegramID}

	var user *models.User
	if err := c.post(ctx, "getUser", auth, payload, &user); err != nil {
		return nil, err
	}
	return user, nil
}

type betPayload struct {
	BotID     int64   `json:"botId"`
	UserID    int64   `json:"userId"`
	Amount    float64 `json:"amount"`
	Direction string  `json:"direction,omitempty"`
	Choice    string  `json:"choice,omitempty"`
}

func (c *GameAPIClient) Trade(ctx context.Context, auth string, userID int64, amount float64, direction models.Direction) (*models.BetResult, error) {
	var result models.BetResult
	err := c.call(ctx, "trade", auth, betPayload{
		BotID: c.botID, UserID: userID, Amount: amount, Direction: string(direction),
	}, &result)
	if err != nil {
		return nil, err
	}
	result.GameType = models.GameTypeTrade
	return &result, nil
}

func (c *GameAPIClient) Roulette(ctx context.Context, auth string, userID int64, amount float64, choice models.RouletteColor) (*models.BetResult, error) {
	var result models.BetResult
	err := c.call(ctx, "roulette", auth, betPayload{
		BotID: c.botID, UserID: userID, Amount: amount, Choice: string(choice),
	}, &result)
	if err != nil {
		return nil, err
	}
	result.GameType = models.GameTypeRoulette
	return &result, nil
}

func (c *GameAPIClient) Futures(ctx context.Context, auth string, userID int64, amount float64, direction models.Direction) (*models.BetResult, error) {
	var result models.BetResult
	err := c.call(ctx, "futures", auth, betPayload{
		BotID: c.botID, UserID: userID, Amount: amount, Direction: string(direction),
	}, &result)
	if err != nil {
		return nil, err
	}
	result.GameType = models.GameTypeFutures
	return &result, nil
}

func (c *GameAPIClient) RequestWithdrawal(ctx context.Context, auth string, userID int64, amount float64, accountNumber string) error {
	payload := map[string]any{
		"botId":         c.botID,
		"userId":        userID,
		"amount":        amount,
		"accountNumber": accountNumber,
	}
	return c.call(ctx, "requestWithdrawal", auth, payload, nil)
}

func (c *GameAPIClient) GetTransactionHistory(ctx context.Context, auth string, userID int64, limit int) ([]models.Transaction, error) {
	payload := map[string]any{"botId": c.botID, "userId": userID, "limit": limit}

	var txs []models.Transaction
	if err := c.post(ctx, "getTransactionHistory", auth, payload, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

func (c *GameAPIClient) GetTradeConfig(ctx context.Context, auth string) (*models.TradeConfig, error) {
	var out struct {
		TradeConfig models.TradeConfig `json:"tradeConfig"`
	}
	if err := c.post(ctx, "getTradeConfig", auth, map[string]any{"botId": c.botID}, &out); err != nil {
		return nil, err
	}
	return &out.TradeConfig, nil
}

func (c *GameAPIClient) GetRouletteConfig(ctx context.Context, auth string) (*models.RouletteConfig, error) {
	var out struct {
		RouletteConfig models.RouletteConfig `json:"rouletteConfig"`
	}
	if err := c.post(ctx, "getRouletteConfig", auth, map[string]any{"botId": c.botID}, &out); err != nil {
		return nil, err
	}
	return &out.RouletteConfig, nil
}

func (c *GameAPIClient) GetFuturesConfig(ctx context.Context, auth string) (*models.FuturesConfig, error) {
	var out struct {
		FuturesConfig models.FuturesConfig `json:"futuresConfig"`
	}
	if err := c.post(ctx, "getFuturesConfig", auth, map[string]any{"botId": c.botID}, &out); err != nil {
		return nil, err
	}
	return &out.FuturesConfig, nil
}

func (c *GameAPIClient) GetBonusesConfig(ctx context.Context, auth string) (*models.BonusConfig, error) {
	var out struct {
		BonusConfig models.BonusConfig `json:"bonusConfig"`
	}
	if err := c.post(ctx, "getBonusesConfig", auth, map[string]any{"botId": c.botID}, &out); err != nil {
		return nil, err
	}
	return &out.BonusConfig, nil
}

func (c *GameAPIClient) GetManagerContact(ctx context.Context, auth string) (string, error) {
	var out struct {
		ManagerContact string `json:"managerContact"`
	}
	if err := c.post(ctx, "getManagerContact", auth, map[string]any{"botId": c.botID}, &out); err != nil {
		return "", err
	}
	return out.ManagerContact, nil
}

func (c *GameAPIClient) GetUserGrowthPercent(ctx context.Context, auth string, userID int64) (float64, error) {
	var out struct {
		Percent float64 `json:"percent"`
	}
	if err := c.post(ctx, "getUserGrowthPercent", auth, map[string]any{"botId": c.botID, "userId": userID}, &out); err != nil {
		return 0, err
	}
	return out.Percent, nil
}

func (c *GameAPIClient) GetLocale(ctx context.Context, locale string) (map[string]string, error) {
	var out struct {
		Success      bool              `json:"success"`
		Translations map[string]string `json:"translations,omitempty"`
		ErrorMessage string            `json:"errorMessage,omitempty"`
	}
	if err := c.post(ctx, "getLocale", "", map[string]any{"botId": c.botID, "locale": locale}, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, &RemoteError{Message: out.ErrorMessage, StatusCode: http.StatusOK}
	}
	return out.Translations, nil
}
