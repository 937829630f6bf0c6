package projection

import "revforecast-api/internal/models"

// UnitMargins converts either pricing representation into per-unit
// margins. For margin-based pricing the conversion is
// price * marginPct / 100; the design stream falls back to the custom
// margin when no design margin is given.
func UnitMargins(cfg models.ScenarioConfig) models.UnitEconomics {
	p := cfg.Pricing

	if p.Kind == models.PricingMargin {
		designPct := p.CustomMarginPct
		if p.DesignMarginPct != nil {
			designPct = *p.DesignMarginPct
		}
		return models.UnitEconomics{
			CustomUnitMargin:  cfg.CustomUnitPrice * p.CustomMarginPct / 100,
			ProductUnitMargin: cfg.ProductUnitPrice * p.ProductMarginPct / 100,
			DesignUnitMargin:  cfg.DesignTierPrice * designPct / 100,
		}
	}

	// Without a design price there is no design stream to carry its cost.
	design := 0.0
	if cfg.DesignTierPrice > 0 {
		design = cfg.DesignTierPrice - p.DesignUnitCost
	}
	return models.UnitEconomics{
		CustomUnitMargin:  cfg.CustomUnitPrice - p.CustomUnitCost,
		ProductUnitMargin: cfg.ProductUnitPrice - p.ProductUnitCost,
		DesignUnitMargin:  design,
	}
}
