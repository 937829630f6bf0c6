package projection

import (
	"errors"
	"fmt"
	"math"

	"revforecast-api/internal/models"
)

// ErrInvalidConfig is matched by every ConfigError via errors.Is
var ErrInvalidConfig = errors.New("invalid scenario config")

// ConfigError reports malformed input reaching the engine
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid scenario config: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

func newConfigError(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Validate rejects configs the engine cannot compute: a non-positive
// horizon, NaN or infinite amounts, and unknown model kinds. Ranges are the
// caller's concern and are not checked.
func Validate(cfg models.ScenarioConfig) error {
	if cfg.HorizonYears < 1 {
		return newConfigError("horizonYears", "must be at least 1, got %d", cfg.HorizonYears)
	}

	fields := []struct {
		name  string
		value float64
	}{
		{"customUnitPrice", cfg.CustomUnitPrice},
		{"productUnitPrice", cfg.ProductUnitPrice},
		{"fixedCosts", cfg.FixedCosts},
		{"startMixCustomPct", cfg.StartMixCustomPct},
		{"targetMixCustomPct", cfg.TargetMixCustomPct},
		{"baselineCustomUnits", cfg.BaselineCustomUnits},
		{"baselineProductUnits", cfg.BaselineProductUnits},
		{"totalUnitsCapacity", cfg.TotalUnitsCapacity},
		{"annualGrowthRatePct", cfg.AnnualGrowthRatePct},
		{"designTierPrice", cfg.DesignTierPrice},
		{"premiumAdoptionPct", cfg.PremiumAdoptionPct},
		{"pricing.customUnitCost", cfg.Pricing.CustomUnitCost},
		{"pricing.productUnitCost", cfg.Pricing.ProductUnitCost},
		{"pricing.designUnitCost", cfg.Pricing.DesignUnitCost},
		{"pricing.customMarginPct", cfg.Pricing.CustomMarginPct},
		{"pricing.productMarginPct", cfg.Pricing.ProductMarginPct},
	}
	for _, f := range fields {
		if !finite(f.value) {
			return newConfigError(f.name, "must be a finite number")
		}
	}
	if cfg.Pricing.DesignMarginPct != nil && !finite(*cfg.Pricing.DesignMarginPct) {
		return newConfigError("pricing.designMarginPct", "must be a finite number")
	}
	if cfg.BaselineProfit != nil && !finite(*cfg.BaselineProfit) {
		return newConfigError("baselineProfit", "must be a finite number")
	}

	switch cfg.Pricing.Kind {
	case models.PricingCost, models.PricingMargin:
	default:
		return newConfigError("pricing.kind", "unknown pricing model %q", cfg.Pricing.Kind)
	}

	switch cfg.VolumeModel {
	case "", models.VolumeCapacity, models.VolumeGrowth:
	default:
		return newConfigError("volumeModel", "unknown volume model %q", cfg.VolumeModel)
	}

	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
