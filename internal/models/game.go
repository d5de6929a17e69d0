package models

type GameType string

const (
	GameTypeTrade    GameType = "trade"
	GameTypeRoulette GameType = "roulette"
	GameTypeFutures  GameType = "futures"
)

type TradeConfig struct {
	MaxBetPercent float64 `json:"maxBetPercent"`
	MaxBetsPerDay int     `json:"maxBetsPerDay"`
	WinChance     float64 `json:"winChance"`
	TradeDuration int     `json:"tradeDuration"`
}

type RouletteConfig struct {
	MaxBetPercent   float64 `json:"maxBetPercent"`
	MaxBetsPerDay   int     `json:"maxBetsPerDay"`
	RedChance       float64 `json:"redChance"`
	BlackChance     float64 `json:"blackChance"`
	GreenChance     float64 `json:"greenChance"`
	RedMultiplier   float64 `json:"redMultiplier"`
	BlackMultiplier float64 `json:"blackMultiplier"`
	GreenMultiplier float64 `json:"greenMultiplier"`
}

type FuturesConfig struct {
	MaxBetPercent float64 `json:"maxBetPercent"`
	MaxBetsPerDay int     `json:"maxBetsPerDay"`
	WinChance     float64 `json:"winChance"`
	TradeDuration int     `json:"tradeDuration"`
}

type BonusItem struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
}

type BonusConfig struct {
	Bonuses []BonusItem `json:"bonuses"`
}

// GameLimits is the slice of a game config the bet flow validates against.
// All three game configs reduce to it.
type GameLimits struct {
	MaxBetPercent float64
	MaxBetsPerDay int
}

func (c *TradeConfig) Limits() GameLimits {
	return GameLimits{MaxBetPercent: c.MaxBetPercent, MaxBetsPerDay: c.MaxBetsPerDay}
}

func (c *RouletteConfig) Limits() GameLimits {
	return GameLimits{MaxBetPercent: c.MaxBetPercent, MaxBetsPerDay: c.MaxBetsPerDay}
}

func (c *FuturesConfig) Limits() GameLimits {
	return GameLimits{MaxBetPercent: c.MaxBetPercent, MaxBetsPerDay: c.MaxBetsPerDay}
}
