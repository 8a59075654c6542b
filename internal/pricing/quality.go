package pricing

const (
	// DefaultAtRiskMarginPercent is the gross margin below which a deal is
	// flagged at risk and commission bonuses are withheld.
	DefaultAtRiskMarginPercent = 65.0
	// DefaultExcellentMarginPercent is the gross margin at which a deal is
	// rated excellent.
	DefaultExcellentMarginPercent = 73.0
)

// Thresholds holds the margin cutoffs used for reporting and commission.
type Thresholds struct {
	AtRisk    float64 `json:"at_risk"`
	Excellent float64 `json:"excellent"`
}

// DefaultThresholds returns the shop's standard cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{AtRisk: DefaultAtRiskMarginPercent, Excellent: DefaultExcellentMarginPercent}
}

// Quality is a margin rating.
type Quality string

const (
	QualityExcellent Quality = "excellent"
	QualityGood      Quality = "good"
	QualityLow       Quality = "low"
)

// Classify rates a gross margin percent. It does not affect pricing.
func Classify(grossMarginPercent float64, t Thresholds) Quality {
	switch {
	case grossMarginPercent >= t.Excellent:
		return QualityExcellent
	case grossMarginPercent >= t.AtRisk:
		return QualityGood
	}
	return QualityLow
}
