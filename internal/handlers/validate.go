package handlers

import (
	"fmt"
	"regexp"

	"revforecast-api/internal/models"
	"revforecast-api/internal/projection"
)

// MaxHorizonYears bounds the work a single request can ask for
const MaxHorizonYears = 50

var scenarioNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 _.-]{0,99}$`)

type field struct {
	name  string
	value float64
}

// validateRequest applies the range checks an input form would enforce
// before a config reaches the engine. Fields are checked in a fixed order
// so the first offending field is always the one reported.
func validateRequest(req models.ProjectionRequest) error {
	cfg := req.Config

	if cfg.HorizonYears < 1 || cfg.HorizonYears > MaxHorizonYears {
		return fmt.Errorf("%w: horizonYears must be between 1 and %d", projection.ErrInvalidConfig, MaxHorizonYears)
	}

	pcts := []field{
		{"startMixCustomPct", cfg.StartMixCustomPct},
		{"targetMixCustomPct", cfg.TargetMixCustomPct},
		{"premiumAdoptionPct", cfg.PremiumAdoptionPct},
		{"pricing.customMarginPct", cfg.Pricing.CustomMarginPct},
		{"pricing.productMarginPct", cfg.Pricing.ProductMarginPct},
	}
	if cfg.Pricing.DesignMarginPct != nil {
		pcts = append(pcts, field{"pricing.designMarginPct", *cfg.Pricing.DesignMarginPct})
	}
	for i, v := range req.MixCurve {
		pcts = append(pcts, field{fmt.Sprintf("mixCurve[%d]", i), v})
	}
	for _, f := range pcts {
		if f.value < 0 || f.value > 100 {
			return fmt.Errorf("%w: %s must be between 0 and 100", projection.ErrInvalidConfig, f.name)
		}
	}

	amounts := []field{
		{"customUnitPrice", cfg.CustomUnitPrice},
		{"productUnitPrice", cfg.ProductUnitPrice},
		{"fixedCosts", cfg.FixedCosts},
		{"baselineCustomUnits", cfg.BaselineCustomUnits},
		{"baselineProductUnits", cfg.BaselineProductUnits},
		{"totalUnitsCapacity", cfg.TotalUnitsCapacity},
		{"designTierPrice", cfg.DesignTierPrice},
		{"pricing.customUnitCost", cfg.Pricing.CustomUnitCost},
		{"pricing.productUnitCost", cfg.Pricing.ProductUnitCost},
		{"pricing.designUnitCost", cfg.Pricing.DesignUnitCost},
	}
	for _, f := range amounts {
		if f.value < 0 {
			return fmt.Errorf("%w: %s must not be negative", projection.ErrInvalidConfig, f.name)
		}
	}

	if cfg.AnnualGrowthRatePct <= -100 {
		return fmt.Errorf("%w: annualGrowthRatePct must be greater than -100", projection.ErrInvalidConfig)
	}

	return nil
}

func validScenarioName(name string) bool {
	return scenarioNamePattern.MatchString(name)
}
