package models

import "time"

type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeTrade      TransactionType = "trade"
	TransactionTypeBonus      TransactionType = "bonus"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypeRoulette   TransactionType = "roulette"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusRejected  TransactionStatus = "rejected"
)

type Transaction struct {
	TransactionID     int64             `json:"transaction_id"`
	BotID             int64             `json:"bot_id"`
	UserID            int64             `json:"user_id"`
	Amount            float64           `json:"amount"`
	Type              TransactionType   `json:"type"`
	Status            TransactionStatus `json:"status"`
	WithdrawalAccount string            `json:"withdrawal_account,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
}
