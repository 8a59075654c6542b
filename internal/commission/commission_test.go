package commission

import (
	"math"
	"testing"

	"github.com/wrapworks/estimator/internal/pricing"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func TestCalculate_InboundBonus(t *testing.T) {
	rules := DefaultRules(pricing.DefaultThresholds())

	res, err := rules.Calculate(Deal{Source: Inbound, GrossProfit: 1000, GrossMarginPercent: 80})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	if res.Protected || !res.BonusApplied {
		t.Fatalf("unexpected flags: %+v", res)
	}
	nearlyEqual(t, "rate", res.RatePercent, 6.5)
	nearlyEqual(t, "amount", res.Amount, 65)
}

func TestCalculate_ProtectionKeepsBaseRate(t *testing.T) {
	rules := DefaultRules(pricing.DefaultThresholds())

	res, err := rules.Calculate(Deal{Source: Inbound, GrossProfit: 1000, GrossMarginPercent: 50, Completed: true})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	if !res.Protected || res.BonusApplied {
		t.Fatalf("unexpected flags: %+v", res)
	}
	nearlyEqual(t, "rate", res.RatePercent, 4.5)
	nearlyEqual(t, "amount", res.Amount, 45)
}

func TestCalculate_Table(t *testing.T) {
	rules := DefaultRules(pricing.DefaultThresholds())
	tests := []struct {
		name string
		deal Deal
		rate float64
		want float64
	}{
		{"bonus needs strictly more than threshold", Deal{Source: Inbound, GrossProfit: 1000, GrossMarginPercent: 73}, 4.5, 45},
		{"between protection and bonus", Deal{Source: Referral, GrossProfit: 2000, GrossMarginPercent: 70}, 4.5, 90},
		{"completion adds a point", Deal{Source: WalkIn, GrossProfit: 1000, GrossMarginPercent: 70, Completed: true}, 5.5, 55},
		{"inbound capped at max", Deal{Source: Inbound, GrossProfit: 1000, GrossMarginPercent: 80, Completed: true}, 7.5, 75},
		{"outbound bonus", Deal{Source: Outbound, GrossProfit: 1000, GrossMarginPercent: 76}, 9, 90},
		{"outbound capped", Deal{Source: Outbound, GrossProfit: 1000, GrossMarginPercent: 76, Completed: true}, 10, 100},
		{"presold is flat", Deal{Source: Presold, GrossProfit: 3000, GrossMarginPercent: 78, Completed: true}, 5, 150},
		{"presold protected still base", Deal{Source: Presold, GrossProfit: 3000, GrossMarginPercent: 40}, 5, 150},
		{"negative profit pays nothing", Deal{Source: Inbound, GrossProfit: -500, GrossMarginPercent: -20}, 4.5, 0},
		{"unprotected package earns bonus", Deal{Source: Inbound, GrossProfit: 1000, GrossMarginPercent: 60, Unprotected: true, Completed: true}, 5.5, 55},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := rules.Calculate(tt.deal)
			if err != nil {
				t.Fatalf("Calculate: %v", err)
			}
			nearlyEqual(t, "rate", res.RatePercent, tt.rate)
			nearlyEqual(t, "amount", res.Amount, tt.want)
		})
	}
}

func TestCalculate_ThresholdsFollowConfig(t *testing.T) {
	rules := DefaultRules(pricing.Thresholds{AtRisk: 60, Excellent: 73})

	res, err := rules.Calculate(Deal{Source: Inbound, GrossProfit: 1000, GrossMarginPercent: 62, Completed: true})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if res.Protected {
		t.Fatalf("expected 62%% to clear a 60%% threshold")
	}
	nearlyEqual(t, "rate", res.RatePercent, 5.5)
}

func TestCalculate_UnknownSource(t *testing.T) {
	rules := DefaultRules(pricing.DefaultThresholds())
	if _, err := rules.Calculate(Deal{Source: "billboard", GrossProfit: 100}); err == nil {
		t.Fatalf("expected error for unknown source")
	}
	if _, err := ParseSource("billboard"); err == nil {
		t.Fatalf("expected parse error")
	}
	if src, err := ParseSource("walk_in"); err != nil || src != WalkIn {
		t.Fatalf("ParseSource(walk_in) = %q, %v", src, err)
	}
}
