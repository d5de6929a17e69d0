package services_test

import (
	"testing"

	"casino-miniapp-gateway/internal/models"
	"casino-miniapp-gateway/internal/services"
)

func TestSpinRoundTrip(t *testing.T) {
	for slot := 0; slot <= 36; slot++ {
		for turns := 3; turns <= 7; turns++ {
			plan, err := services.EncodeSpin(slot, turns)
			if err != nil {
				t.Fatalf("EncodeSpin(%d, %d) failed: %v", slot, turns, err)
			}
			if got := services.DecodeSpin(plan.TotalDegrees); got != slot {
				t.Errorf("Slot %d with %d turns decoded as %d (total %.2f°)",
					slot, turns, got, plan.TotalDegrees)
			}
		}
	}
}

func TestEncodeSpinRejectsOffWheelSlot(t *testing.T) {
	if _, err := services.EncodeSpin(37, 4); err == nil {
		t.Error("Slot 37 is not on the wheel and should be rejected")
	}
	if _, err := services.EncodeSpin(-1, 4); err == nil {
		t.Error("Negative slots should be rejected")
	}
}

func TestEncodeSpinClampsLowTurns(t *testing.T) {
	plan, err := services.EncodeSpin(17, 1)
	if err != nil {
		t.Fatalf("EncodeSpin failed: %v", err)
	}
	if plan.Turns < 3 {
		t.Errorf("Turn count should be clamped to at least 3, got %d", plan.Turns)
	}
	if services.DecodeSpin(plan.TotalDegrees) != 17 {
		t.Error("Clamped plan should still land on the requested slot")
	}
}

func TestNewSpinPlanTurnRange(t *testing.T) {
	for i := 0; i < 50; i++ {
		plan, err := services.NewSpinPlan(0)
		if err != nil {
			t.Fatalf("NewSpinPlan failed: %v", err)
		}
		if plan.Turns < 3 || plan.Turns > 7 {
			t.Fatalf("Turns should be between 3 and 7, got %d", plan.Turns)
		}
		if plan.DurationMs != 3000 {
			t.Fatalf("Expected 3000ms spin, got %d", plan.DurationMs)
		}
	}
}

func TestColorOf(t *testing.T) {
	cases := []struct {
		slot  int
		color models.RouletteColor
	}{
		{0, models.ColorGreen},
		{32, models.ColorRed},
		{15, models.ColorBlack},
		{1, models.ColorRed},
		{26, models.ColorBlack},
	}

	for _, tc := range cases {
		color, ok := services.ColorOf(tc.slot)
		if !ok {
			t.Errorf("Slot %d should be on the wheel", tc.slot)
			continue
		}
		if color != tc.color {
			t.Errorf("Slot %d should be %s, got %s", tc.slot, tc.color, color)
		}
	}

	if _, ok := services.ColorOf(99); ok {
		t.Error("Slot 99 should not be on the wheel")
	}
}
