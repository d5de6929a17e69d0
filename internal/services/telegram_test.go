package services_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"casino-miniapp-gateway/internal/services"
)

const testBotToken = "123456:TEST-TOKEN"

// signInitData builds initData the way the host does: sorted key=value lines
// signed with HMAC-SHA256 keyed by HMAC-SHA256("WebAppData", botToken).
func signInitData(t *testing.T, botToken string, fields map[string]string) string {
	t.Helper()

	pairs := make([]string, 0, len(fields))
	for k, v := range fields {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(pairs, "\n")))
	hash := hex.EncodeToString(mac.Sum(nil))

	values := url.Values{}
	for k, v := range fields {
		values.Set(k, v)
	}
	values.Set("hash", hash)
	return values.Encode()
}

func TestValidateInitData(t *testing.T) {
	svc := services.NewTelegramService(testBotToken)

	initData := signInitData(t, testBotToken, map[string]string{
		"user":      `{"id":99887766,"first_name":"Ivan","username":"ivan"}`,
		"auth_date": fmt.Sprintf("%d", time.Now().Unix()),
	})

	user, err := svc.ValidateInitData(initData)
	if err != nil {
		t.Fatalf("Valid initData should pass: %v", err)
	}
	if user.ID != 99887766 {
		t.Errorf("Expected user id 99887766, got %d", user.ID)
	}
}

func TestValidateInitDataRejectsMissing(t *testing.T) {
	svc := services.NewTelegramService(testBotToken)

	if _, err := svc.ValidateInitData(""); !errors.Is(err, services.ErrNoInitData) {
		t.Errorf("Empty initData should yield ErrNoInitData, got %v", err)
	}
}

func TestValidateInitDataRejectsTampering(t *testing.T) {
	svc := services.NewTelegramService(testBotToken)

	initData := signInitData(t, testBotToken, map[string]string{
		"user":      `{"id":99887766,"first_name":"Ivan"}`,
		"auth_date": fmt.Sprintf("%d", time.Now().Unix()),
	})

	tampered := strings.Replace(initData, "99887766", "11111111", 1)
	if _, err := svc.ValidateInitData(tampered); !errors.Is(err, services.ErrInvalidInitData) {
		t.Errorf("Tampered payload should fail the signature check, got %v", err)
	}
}

func TestValidateInitDataRejectsWrongToken(t *testing.T) {
	svc := services.NewTelegramService(testBotToken)

	initData := signInitData(t, "999999:OTHER-TOKEN", map[string]string{
		"user":      `{"id":99887766,"first_name":"Ivan"}`,
		"auth_date": fmt.Sprintf("%d", time.Now().Unix()),
	})

	if _, err := svc.ValidateInitData(initData); !errors.Is(err, services.ErrInvalidInitData) {
		t.Errorf("Data signed for another bot should be rejected, got %v", err)
	}
}

func TestValidateInitDataRejectsStale(t *testing.T) {
	svc := services.NewTelegramService(testBotToken)

	initData := signInitData(t, testBotToken, map[string]string{
		"user":      `{"id":99887766,"first_name":"Ivan"}`,
		"auth_date": fmt.Sprintf("%d", time.Now().Add(-48*time.Hour).Unix()),
	})

	if _, err := svc.ValidateInitData(initData); !errors.Is(err, services.ErrExpiredInitData) {
		t.Errorf("Stale initData should be rejected, got %v", err)
	}
}
