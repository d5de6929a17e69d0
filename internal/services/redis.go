package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"casino-miniapp-gateway/internal/config"
	"casino-miniapp-gateway/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisService holds the last-known-good copies of session, navigation,
// game config and bet outcome state. Every value is a JSON blob under a
// Sprintf key; mutations happen only in the fulfillment paths of the remote
// calls that own them.
type RedisService struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisService(cfg *config.Config) (*RedisService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	ctx := context.Background()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %v", err)
	}

	return &RedisService{client: client, ctx: ctx}, nil
}

func (s *RedisService) Close() error {
	return s.client.Close()
}

func (s *RedisService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// --- sessions ---

func (s *RedisService) StoreSession(session *models.UserSession) error {
	key := fmt.Sprintf(KeySession, session.SessionID)

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	if err := s.client.Set(s.ctx, key, data, TTLSession).Err(); err != nil {
		return fmt.Errorf("failed to store session: %v", err)
	}

	tgKey := fmt.Sprintf(KeySessionByTgID, session.TelegramID)
	return s.client.Set(s.ctx, tgKey, session.SessionID, TTLSession).Err()
}

func (s *RedisService) GetSession(sessionID string) (*models.UserSession, error) {
	key := fmt.Sprintf(KeySession, sessionID)

	data, err := s.client.Get(s.ctx, key).Result()
	if err != nil {
		return nil, err
	}

	var session models.UserSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}

	session.LastAccessed = time.Now()
	updated, _ := json.Marshal(session)
	s.client.Set(s.ctx, key, updated, TTLSession)

	return &session, nil
}

// GetSessionByTelegramID resolves the live session for a telegram identity
// through the reverse index StoreSession maintains. A nil session with a
// nil error means no live session exists; a dangling index entry pointing
// at an expired session is treated the same way.
func (s *RedisService) GetSessionByTelegramID(telegramID string) (*models.UserSession, error) {
	tgKey := fmt.Sprintf(KeySessionByTgID, telegramID)

	sessionID, err := s.client.Get(s.ctx, tgKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session by telegram id: %v", err)
	}

	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, nil
	}
	return session, nil
}

func (s *RedisService) DeleteSession(sessionID string) error {
	key := fmt.Sprintf(KeySession, sessionID)
	return s.client.Del(s.ctx, key).Err()
}

// --- navigation ---

func (s *RedisService) StoreNavigation(sessionID string, nav *models.NavigationState) error {
	key := fmt.Sprintf(KeyNavigation, sessionID)

	data, err := json.Marshal(nav)
	if err != nil {
		return err
	}

	return s.client.Set(s.ctx, key, data, TTLSession).Err()
}

// GetNavigation returns the stored stack, or a fresh initial state when the
// session has none yet.
func (s *RedisService) GetNavigation(sessionID string) (*models.NavigationState, error) {
	key := fmt.Sprintf(KeyNavigation, sessionID)

	data, err := s.client.Get(s.ctx, key).Result()
	if err == redis.Nil {
		return models.NewNavigationState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get navigation: %v", err)
	}

	var nav models.NavigationState
	if err := json.Unmarshal([]byte(data), &nav); err != nil {
		return nil, fmt.Errorf("failed to unmarshal navigation: %v", err)
	}

	return &nav, nil
}

// --- game configs ---

func (s *RedisService) StoreGameConfig(sessionID string, game models.GameType, cfg any) error {
	key := fmt.Sprintf(KeyGameConfig, sessionID, game)

	data, err := json.Marshal(cfg)
	if err != nil {
		return err
	}

	return s.client.Set(s.ctx, key, data, TTLGameConfig).Err()
}

// GetGameConfig unmarshals the cached config into out; found reports
// whether a cached copy existed.
func (s *RedisService) GetGameConfig(sessionID string, game models.GameType, out any) (bool, error) {
	key := fmt.Sprintf(KeyGameConfig, sessionID, game)

	data, err := s.client.Get(s.ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get game config: %v", err)
	}

	if err := json.Unmarshal([]byte(data), out); err != nil {
		return false, fmt.Errorf("failed to unmarshal game config: %v", err)
	}
	return true, nil
}

func (s *RedisService) StoreManagerContact(sessionID, contact string) error {
	key := fmt.Sprintf(KeyManagerContact, sessionID)
	return s.client.Set(s.ctx, key, contact, TTLGameConfig).Err()
}

func (s *RedisService) GetManagerContact(sessionID string) (string, bool, error) {
	key := fmt.Sprintf(KeyManagerContact, sessionID)

	contact, err := s.client.Get(s.ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return contact, true, nil
}

// --- daily counters ---

// IncrementDailyCount bumps the per-session attempt counter for a game.
// Called only after a successful remote call; the counter expires with the
// session, so a full reload starts from zero.
func (s *RedisService) IncrementDailyCount(sessionID string, game models.GameType) (int, error) {
	key := fmt.Sprintf(KeyDailyCount, sessionID, game)

	count, err := s.client.Incr(s.ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment daily count: %v", err)
	}

	if count == 1 {
		s.client.Expire(s.ctx, key, TTLSession)
	}

	return int(count), nil
}

func (s *RedisService) GetDailyCount(sessionID string, game models.GameType) (int, error) {
	key := fmt.Sprintf(KeyDailyCount, sessionID, game)

	count, err := s.client.Get(s.ctx, key).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get daily count: %v", err)
	}

	return count, nil
}

// --- in-flight guard ---

// AcquireInFlight marks a bet submission as in flight. SET NX guarantees at
// most one per game per session; the TTL is a safety net against a handler
// dying before release.
func (s *RedisService) AcquireInFlight(sessionID string, game models.GameType) (bool, error) {
	key := fmt.Sprintf(KeyInFlight, sessionID, game)
	return s.client.SetNX(s.ctx, key, "1", TTLInFlight).Result()
}

func (s *RedisService) ReleaseInFlight(sessionID string, game models.GameType) error {
	key := fmt.Sprintf(KeyInFlight, sessionID, game)
	return s.client.Del(s.ctx, key).Err()
}

// --- bet outcomes ---

func (s *RedisService) StoreLastOutcome(sessionID string, result *models.BetResult) error {
	key := fmt.Sprintf(KeyLastOutcome, sessionID, result.GameType)

	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return s.client.Set(s.ctx, key, data, TTLLastOutcome).Err()
}

func (s *RedisService) GetLastOutcome(sessionID string, game models.GameType) (*models.BetResult, error) {
	key := fmt.Sprintf(KeyLastOutcome, sessionID, game)

	data, err := s.client.Get(s.ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last outcome: %v", err)
	}

	var result models.BetResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal outcome: %v", err)
	}

	return &result, nil
}

// --- balance cache ---

// UpdateSessionBalance writes the authoritative newBalance from a fulfilled
// remote call into the cached profile. No other writer touches the balance.
func (s *RedisService) UpdateSessionBalance(sessionID string, newBalance float64) error {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session for balance update: %v", err)
	}
	if session.User == nil {
		return fmt.Errorf("session has no registered user")
	}

	session.User.Balance = newBalance
	return s.StoreSession(session)
}

// --- locale ---

func (s *RedisService) StoreLocale(telegramID, locale string) error {
	key := fmt.Sprintf(KeyLocale, telegramID)
	return s.client.Set(s.ctx, key, locale, TTLLocale).Err()
}

func (s *RedisService) GetLocale(telegramID string) (string, error) {
	key := fmt.Sprintf(KeyLocale, telegramID)

	locale, err := s.client.Get(s.ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get locale: %v", err)
	}

	return locale, nil
}

// --- rate limiting ---

func (s *RedisService) CheckRateLimit(sessionID, action string, limit int, window time.Duration) (bool, error) {
	key := fmt.Sprintf(KeyRateLimit, sessionID, action)

	count, err := s.client.Incr(s.ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit: %v", err)
	}

	if count == 1 {
		s.client.Expire(s.ctx, key, window)
	}

	return count <= int64(limit), nil
}

func (s *RedisService) ClearRateLimit(sessionID, action string) error {
	key := fmt.Sprintf(KeyRateLimit, sessionID, action)
	return s.client.Del(s.ctx, key).Err()
}
