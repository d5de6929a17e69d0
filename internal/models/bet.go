package models

import "time"

type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

type RouletteColor string

const (
	ColorRed   RouletteColor = "red"
	ColorBlack RouletteColor = "black"
	ColorGreen RouletteColor = "green"
)

type TradeRequest struct {
	Amount    float64   `json:"amount" binding:"required"`
	Direction Direction `json:"direction" binding:"required"`
}

type RouletteRequest struct {
	Amount float64       `json:"amount" binding:"required"`
	Choice RouletteColor `json:"choice" binding:"required"`
}

// BetResult is the server-declared outcome of a single wager. It is held
// only long enough to drive the result modal and animation.
type BetResult struct {
	Win        bool     `json:"win"`
	Amount     float64  `json:"amount"`
	NewBalance float64  `json:"newBalance"`
	Slot       int      `json:"result,omitempty"` // roulette winning number
	GameType   GameType `json:"game_type"`
}

// SpinPlan tells the client how to rotate the wheel so the deceleration
// ends with the server-declared slot under the pointer. The random part is
// the number of full turns only; the offset is fully determined by the slot.
type SpinPlan struct {
	TotalDegrees float64 `json:"totalDegrees"`
	Turns        int     `json:"turns"`
	DurationMs   int     `json:"durationMs"`
	Slot         int     `json:"slot"`
}

// RevealPlan delays a futures/trade outcome behind the configured trade
// duration; the countdown shown to the user runs off these fields, not off
// server timing.
type RevealPlan struct {
	RevealAt         time.Time `json:"revealAt"`
	CountdownSeconds int       `json:"countdownSeconds"`
}

type TradeOutcome struct {
	Result BetResult   `json:"result"`
	Reveal *RevealPlan `json:"reveal,omitempty"`
}

type RouletteOutcome struct {
	Result BetResult `json:"result"`
	Spin   SpinPlan  `json:"spin"`
}

type WithdrawalInput struct {
	Amount        float64 `json:"amount"`
	AccountNumber string  `json:"accountNumber"`
}
