package services

import (
	"fmt"
	"math/rand"

	"casino-miniapp-gateway/internal/models"
)

// wheelNumbers is the European wheel layout, clockwise from the pointer.
var wheelNumbers = []int{
	0, 32, 15, 19, 4, 21, 2, 25, 17, 34, 6, 27, 13, 36, 11, 30, 8, 23, 10,
	5, 24, 16, 33, 1, 20, 14, 31, 9, 22, 18, 29, 7, 28, 12, 35, 3, 26,
}

var wheelIndex = func() map[int]int {
	idx := make(map[int]int, len(wheelNumbers))
	for i, n := range wheelNumbers {
		idx[n] = i
	}
	return idx
}()

var wheelColors = func() map[int]models.RouletteColor {
	colors := map[int]models.RouletteColor{0: models.ColorGreen}
	reds := []int{32, 19, 21, 25, 34, 27, 36, 30, 23, 5, 16, 1, 14, 9, 18, 7, 12, 3}
	blacks := []int{15, 4, 2, 17, 6, 13, 11, 8, 10, 24, 33, 20, 31, 22, 29, 28, 35, 26}
	for _, n := range reds {
		colors[n] = models.ColorRed
	}
	for _, n := range blacks {
		colors[n] = models.ColorBlack
	}
	return colors
}()

const (
	wheelSegments  = 37
	spinDurationMs = 3000
	minSpinTurns   = 3
	maxSpinTurns   = 7
)

func segmentAngle() float64 {
	return 360.0 / float64(wheelSegments)
}

// EncodeSpin builds the rotation plan for a server-declared winning slot.
// The turn count is the only random component; the offset within the final
// turn is fully determined by the slot, so the pointer always lands on it.
func EncodeSpin(slot int, turns int) (models.SpinPlan, error) {
	idx, ok := wheelIndex[slot]
	if !ok {
		return models.SpinPlan{}, fmt.Errorf("slot %d is not on the wheel", slot)
	}
	if turns < minSpinTurns {
		turns = minSpinTurns
	}

	// Inverse of DecodeSpin: place the centre of segment idx under the
	// pointer once the deceleration settles.
	offset := 360.0 - float64(idx)*segmentAngle()
	if idx == 0 {
		offset = 0
	}

	return models.SpinPlan{
		TotalDegrees: float64(turns)*360.0 + offset,
		Turns:        turns,
		DurationMs:   spinDurationMs,
		Slot:         slot,
	}, nil
}

// NewSpinPlan picks a random 3..7 full turns for the given slot.
func NewSpinPlan(slot int) (models.SpinPlan, error) {
	turns := rand.Intn(maxSpinTurns-minSpinTurns+1) + minSpinTurns
	return EncodeSpin(slot, turns)
}

// DecodeSpin resolves which slot a total rotation angle indicates under the
// fixed pointer. It is the client's deceleration formula, kept here so the
// encode side can be proven against it.
func DecodeSpin(totalDegrees float64) int {
	seg := segmentAngle()
	finalAngle := mod360(totalDegrees)
	adjusted := mod360(360.0 - finalAngle + seg/2)
	index := int(adjusted/seg) % wheelSegments
	return wheelNumbers[index]
}

func mod360(deg float64) float64 {
	m := deg - float64(int(deg/360.0))*360.0
	if m < 0 {
		m += 360.0
	}
	return m
}

// ColorOf returns the wheel color of a slot.
func ColorOf(slot int) (models.RouletteColor, bool) {
	c, ok := wheelColors[slot]
	return c, ok
}
