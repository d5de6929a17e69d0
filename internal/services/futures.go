package services

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// PricePoint is one sample of the futures chart series.
type PricePoint struct {
	Time  int64   `json:"time"` // unix seconds
	Value float64 `json:"value"`
}

type PriceBroadcaster interface {
	BroadcastPriceTick(point PricePoint)
}

// PriceFeed generates the live-updating pseudo price series the futures
// screen animates. It ticks on a fixed interval independent of any bet
// state: the series is purely presentational and never consults outcomes.
type PriceFeed struct {
	broadcaster PriceBroadcaster

	mu     sync.Mutex
	points []PricePoint

	value         float64
	trendDir      float64
	trendDuration int
	trendCounter  int
}

const (
	feedTick     = time.Second
	feedCapacity = 60
	feedMin      = 400.0
	feedMax      = 1100.0
	feedStart    = 925.0
)

func NewPriceFeed(broadcaster PriceBroadcaster) *PriceFeed {
	f := &PriceFeed{
		broadcaster:   broadcaster,
		value:         feedStart,
		trendDir:      1,
		trendDuration: nextTrendDuration(),
	}
	f.seed()
	return f
}

// seed backfills the last few seconds so a freshly opened chart is not
// empty.
func (f *PriceFeed) seed() {
	now := time.Now().Unix()
	for i := 10; i >= 0; i-- {
		f.points = append(f.points, PricePoint{Time: now - int64(i), Value: f.value})
		f.step()
	}
}

// Run ticks until ctx is cancelled. Meant to be started once from main;
// stopping the context is the only way to cancel the feed.
func (f *PriceFeed) Run(ctx context.Context) {
	ticker := time.NewTicker(feedTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			point := f.advance()
			if f.broadcaster != nil {
				f.broadcaster.BroadcastPriceTick(point)
			}
		}
	}
}

func (f *PriceFeed) advance() PricePoint {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.step()
	point := PricePoint{Time: time.Now().Unix(), Value: f.value}
	f.points = append(f.points, point)
	if len(f.points) > feedCapacity {
		f.points = f.points[len(f.points)-feedCapacity:]
	}
	return point
}

// step moves the value along the current trend, flipping direction every
// 3-5 ticks, and keeps it inside the visible band.
func (f *PriceFeed) step() {
	f.trendCounter++
	if f.trendCounter >= f.trendDuration {
		f.trendDir = -f.trendDir
		f.trendCounter = 0
		f.trendDuration = nextTrendDuration()
	}

	f.value += f.trendDir * (10 + rand.Float64()*40)
	if f.value < feedMin {
		f.value = feedMin
		f.trendDir = 1
	}
	if f.value > feedMax {
		f.value = feedMax
		f.trendDir = -1
	}
}

// Series returns a copy of the recent points for a screen that just became
// visible.
func (f *PriceFeed) Series() []PricePoint {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]PricePoint, len(f.points))
	copy(out, f.points)
	return out
}

func nextTrendDuration() int {
	return rand.Intn(3) + 3 // 3-5 ticks
}
