package services

type Broadcaster interface {
	BroadcastBalance(sessionID string, balance float64)
	BroadcastPriceTick(point PricePoint)
}
