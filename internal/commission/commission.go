// Package commission derives a salesperson's payout from a priced line item.
package commission

import (
	"fmt"
	"math"

	"github.com/wrapworks/estimator/internal/pricing"
)

// Source is the lead source category of a deal.
type Source string

const (
	Inbound  Source = "inbound"
	Outbound Source = "outbound"
	Presold  Source = "presold"
	Referral Source = "referral"
	WalkIn   Source = "walk_in"
)

// Rate is the commission schedule of one lead source, in percent of gross
// profit.
type Rate struct {
	BasePercent   float64 `json:"base_percent"`
	MaxPercent    float64 `json:"max_percent"`
	BonusEligible bool    `json:"bonus_eligible"`
}

// Rules holds the schedule and the margin gates.
type Rules struct {
	Rates map[Source]Rate

	// ProtectionPercent is the margin below which only the base rate is paid.
	ProtectionPercent float64
	// BonusPercent is the margin a deal must exceed to earn the bonus.
	BonusPercent   float64
	BonusIncrement float64
	// CompletionIncrement is added when the rep finished the follow-up
	// process on the deal. Bonus-eligible sources only.
	CompletionIncrement float64
}

// DefaultRules returns the shop's commission plan, gated on the same margin
// thresholds used for reporting.
func DefaultRules(t pricing.Thresholds) Rules {
	return Rules{
		Rates: map[Source]Rate{
			Inbound:  {BasePercent: 4.5, MaxPercent: 7.5, BonusEligible: true},
			Outbound: {BasePercent: 7, MaxPercent: 10, BonusEligible: true},
			Presold:  {BasePercent: 5, MaxPercent: 5},
			Referral: {BasePercent: 4.5, MaxPercent: 7.5, BonusEligible: true},
			WalkIn:   {BasePercent: 4.5, MaxPercent: 7.5, BonusEligible: true},
		},
		ProtectionPercent:   t.AtRisk,
		BonusPercent:        t.Excellent,
		BonusIncrement:      2,
		CompletionIncrement: 1,
	}
}

// Deal is the part of a priced line item commission looks at.
type Deal struct {
	Source             Source  `json:"source"`
	GrossProfit        float64 `json:"gross_profit"`
	GrossMarginPercent float64 `json:"gross_margin_percent"`
	// Completed marks a deal whose follow-up process the rep finished.
	Completed bool `json:"completed,omitempty"`
	// Unprotected skips the low-margin clamp. Fixed-price packages set it
	// since their margin is not negotiated.
	Unprotected bool `json:"unprotected,omitempty"`
}

// Result is the computed payout.
type Result struct {
	Source       Source  `json:"source"`
	RatePercent  float64 `json:"rate_percent"`
	Amount       float64 `json:"amount"`
	Protected    bool    `json:"protected"`
	BonusApplied bool    `json:"bonus_applied"`
}

// ParseSource validates s.
func ParseSource(s string) (Source, error) {
	switch src := Source(s); src {
	case Inbound, Outbound, Presold, Referral, WalkIn:
		return src, nil
	}
	return "", fmt.Errorf("unknown lead source %q", s)
}

// Calculate applies the rules to a deal.
func (r Rules) Calculate(d Deal) (Result, error) {
	rate, ok := r.Rates[d.Source]
	if !ok {
		return Result{}, fmt.Errorf("no commission rate for lead source %q", d.Source)
	}

	res := Result{
		Source:      d.Source,
		RatePercent: rate.BasePercent,
		Protected:   !d.Unprotected && d.GrossMarginPercent < r.ProtectionPercent,
	}
	if !res.Protected && rate.BonusEligible {
		if d.Completed {
			res.RatePercent += r.CompletionIncrement
		}
		if d.GrossMarginPercent > r.BonusPercent {
			res.RatePercent += r.BonusIncrement
			res.BonusApplied = true
		}
		res.RatePercent = math.Min(res.RatePercent, rate.MaxPercent)
	}
	res.Amount = math.Max(0, d.GrossProfit*res.RatePercent/100.0)
	return res, nil
}
