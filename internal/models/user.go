package models

import "time"

type User struct {
	UserID        int64   `json:"user_id" redis:"user_id"`
	BotID         int64   `json:"bot_id" redis:"bot_id"`
	TelegramID    string  `json:"telegram_id" redis:"telegram_id"`
	FullName      string  `json:"full_name" redis:"full_name"`
	Age           int     `json:"age" redis:"age"`
	City          string  `json:"city" redis:"city"`
	Contact       string  `json:"contact" redis:"contact"`
	AccountNumber string  `json:"account_number" redis:"account_number"`
	Balance       float64 `json:"balance" redis:"balance"`
	TokenRate     float64 `json:"token_rate" redis:"token_rate"`
	Level         string  `json:"level" redis:"level"`

	CreatedAt time.Time `json:"created_at" redis:"created_at"`
}

type TelegramUser struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
	PhotoURL     string `json:"photo_url,omitempty"`
}

// UserSession is the per-load session cache. It is rebuilt from scratch on
// every app load; only the locale preference outlives it.
type UserSession struct {
	SessionID    string       `json:"session_id"`
	TelegramID   string       `json:"telegram_id"`
	TelegramUser TelegramUser `json:"telegram_user"`
	User         *User        `json:"user,omitempty"`
	Registered   bool         `json:"registered"`

	CreatedAt    time.Time `json:"created_at"`
	LastAccessed time.Time `json:"last_accessed"`
}

type RegisterInput struct {
	FullName      string `json:"full_name"`
	Age           string `json:"age"`
	City          string `json:"city"`
	Contact       string `json:"contact"`
	AccountNumber string `json:"account_number"`
}
