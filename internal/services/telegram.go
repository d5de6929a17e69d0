package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"casino-miniapp-gateway/internal/models"
)

// TelegramService verifies the identity assertion the embedding host hands
// to the mini-app at launch. Nothing downstream of it trusts the client.
type TelegramService struct {
	botToken string
	maxAge   time.Duration
}

var (
	ErrNoInitData      = fmt.Errorf("telegram init data is missing")
	ErrInvalidInitData = fmt.Errorf("telegram init data failed validation")
	ErrExpiredInitData = fmt.Errorf("telegram init data is too old")
)

func NewTelegramService(botToken string) *TelegramService {
	return &TelegramService{
		botToken: botToken,
		maxAge:   24 * time.Hour,
	}
}

// ValidateInitData checks the WebApp initData signature: HMAC-SHA256 over
// the sorted key=value lines, keyed by HMAC-SHA256("WebAppData", botToken).
// Returns the asserted Telegram user on success.
func (s *TelegramService) ValidateInitData(initData string) (*models.TelegramUser, error) {
	if initData == "" {
		return nil, ErrNoInitData
	}

	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, ErrInvalidInitData
	}

	gotHash := values.Get("hash")
	if gotHash == "" {
		return nil, ErrInvalidInitData
	}

	pairs := make([]string, 0, len(values))
	for k := range values {
		if k == "hash" {
			continue
		}
		pairs = append(pairs, k+"="+values.Get(k))
	}
	sort.Strings(pairs)
	checkString := strings.Join(pairs, "\n")

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(s.botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(checkString))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(gotHash)) {
		return nil, ErrInvalidInitData
	}

	if authDate := values.Get("auth_date"); authDate != "" {
		ts, err := strconv.ParseInt(authDate, 10, 64)
		if err != nil {
			return nil, ErrInvalidInitData
		}
		if time.Since(time.Unix(ts, 0)) > s.maxAge {
			return nil, ErrExpiredInitData
		}
	}

	userJSON := values.Get("user")
	if userJSON == "" {
		return nil, ErrInvalidInitData
	}

	var user models.TelegramUser
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return nil, ErrInvalidInitData
	}
	if user.ID == 0 {
		return nil, ErrInvalidInitData
	}

	return &user, nil
}
