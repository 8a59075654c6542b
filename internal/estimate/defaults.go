package estimate

import (
	"github.com/wrapworks/estimator/internal/catalog"
	"github.com/wrapworks/estimator/internal/pricing"
)

// Shop defaults of a new line item.
const (
	DefaultDesignFee           = 150.0
	DefaultLaborPercent        = 10.0
	DefaultTargetMarginPercent = 75.0
)

// Defaults are the starting values an estimate hands out: the pricing of a
// new line item, the film it starts on and the margin cutoffs behind quality
// and commission. Job dimensions start from geometry.NewJob.
type Defaults struct {
	DesignFee           float64
	LaborPercent        float64
	TargetMarginPercent float64
	MaterialID          string
	Thresholds          pricing.Thresholds
}

// ShopDefaults returns the standard defaults.
func ShopDefaults() Defaults {
	return Defaults{
		DesignFee:           DefaultDesignFee,
		LaborPercent:        DefaultLaborPercent,
		TargetMarginPercent: DefaultTargetMarginPercent,
		MaterialID:          catalog.DefaultMaterialID,
		Thresholds:          pricing.DefaultThresholds(),
	}
}

// WithDefaults replaces every default at once.
func WithDefaults(d Defaults) Option {
	return func(e *Estimate) { e.defaults = d }
}

// WithThresholds sets the margin cutoffs used for quality and commission.
func WithThresholds(t pricing.Thresholds) Option {
	return func(e *Estimate) { e.defaults.Thresholds = t }
}

// Defaults returns the defaults in effect.
func (e *Estimate) Defaults() Defaults { return e.defaults }

func (d Defaults) inputs() pricing.Inputs {
	return pricing.Inputs{
		DesignFee:           d.DesignFee,
		LaborMode:           pricing.LaborPercentOfSale,
		LaborPercent:        d.LaborPercent,
		TargetMarginPercent: d.TargetMarginPercent,
	}
}
