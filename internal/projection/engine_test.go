package projection

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"revforecast-api/internal/models"
)

func dashboardConfig() models.ScenarioConfig {
	return models.ScenarioConfig{
		HorizonYears:     5,
		CustomUnitPrice:  500000,
		ProductUnitPrice: 500000,
		Pricing: models.PricingModel{
			Kind:             models.PricingMargin,
			CustomMarginPct:  35,
			ProductMarginPct: 15,
		},
		StartMixCustomPct:  60,
		TargetMixCustomPct: 60,
		TotalUnitsCapacity: 100,
		DesignTierPrice:    15000,
	}
}

func mustProject(t *testing.T, cfg models.ScenarioConfig, schedule MixSchedule) *models.Projection {
	t.Helper()
	p, err := Project(cfg, schedule)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	return p
}

func mustLinear(t *testing.T, cfg models.ScenarioConfig) MixSchedule {
	t.Helper()
	s, err := LinearMix(cfg.StartMixCustomPct, cfg.TargetMixCustomPct, cfg.HorizonYears)
	if err != nil {
		t.Fatalf("LinearMix: %v", err)
	}
	return s
}

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	tol := 1e-6 * math.Max(1, math.Abs(want))
	if math.Abs(got-want) > tol {
		t.Fatalf("%s=%v want %v", name, got, want)
	}
}

func warningsOf(p *models.Projection, year int, kind models.WarningKind) []models.Warning {
	var out []models.Warning
	for _, w := range p.Warnings {
		if w.Year == year && w.Kind == kind {
			out = append(out, w)
		}
	}
	return out
}

func TestProjectConstantMixRevenue(t *testing.T) {
	cfg := dashboardConfig()
	p := mustProject(t, cfg, mustLinear(t, cfg))

	if len(p.Rows) != 5 {
		t.Fatalf("rows=%d want 5", len(p.Rows))
	}

	annual := (0.6*515000 + 0.4*500000) * 100
	for _, row := range p.Rows {
		approx(t, "revenue", row.Revenue, annual)
	}
	approx(t, "year-5 cumulative revenue", p.Rows[4].CumulativeRevenue, 5*annual)
	if p.Rows[4].Year != 5 {
		t.Fatalf("year=%d want 5", p.Rows[4].Year)
	}
}

func TestProjectBreakEvenUnits(t *testing.T) {
	cfg := models.ScenarioConfig{
		HorizonYears:       1,
		CustomUnitPrice:    600000,
		ProductUnitPrice:   300000,
		Pricing:            models.PricingModel{Kind: models.PricingCost, CustomUnitCost: 400000, ProductUnitCost: 200000},
		FixedCosts:         1200000,
		StartMixCustomPct:  50,
		TargetMixCustomPct: 50,
		TotalUnitsCapacity: 30,
	}
	p := mustProject(t, cfg, mustLinear(t, cfg))

	row := p.Rows[0]
	if row.BreakEvenUnits != 12 {
		t.Fatalf("breakEvenUnits=%v want 12", row.BreakEvenUnits)
	}
	if !row.AboveBreakEven {
		t.Fatalf("15 product units should clear a 12 unit break-even")
	}
	approx(t, "operatingProfit", row.OperatingProfit, row.Profit-1200000)
}

func TestProjectBreakEvenFloorsMargin(t *testing.T) {
	cfg := models.ScenarioConfig{
		HorizonYears:       1,
		CustomUnitPrice:    100,
		ProductUnitPrice:   100,
		Pricing:            models.PricingModel{Kind: models.PricingCost, CustomUnitCost: 50, ProductUnitCost: 130},
		FixedCosts:         5000,
		TotalUnitsCapacity: 10,
	}
	p := mustProject(t, cfg, mustLinear(t, cfg))

	if got := p.Rows[0].BreakEvenUnits; got != 5000 {
		t.Fatalf("breakEvenUnits=%v want 5000 (margin floored at %v)", got, BreakEvenMarginFloor)
	}
	if math.IsInf(p.Rows[0].BreakEvenUnits, 0) || math.IsNaN(p.Rows[0].BreakEvenUnits) {
		t.Fatalf("break-even must stay finite")
	}
}

func TestProjectZeroProductMarginWarnsInsteadOfDividing(t *testing.T) {
	cfg := models.ScenarioConfig{
		HorizonYears:       2,
		CustomUnitPrice:    500000,
		ProductUnitPrice:   400000,
		Pricing:            models.PricingModel{Kind: models.PricingCost, CustomUnitCost: 250000, ProductUnitCost: 400000},
		StartMixCustomPct:  100,
		TargetMixCustomPct: 80,
		TotalUnitsCapacity: 10,
	}
	p := mustProject(t, cfg, mustLinear(t, cfg))

	row := p.Rows[1]
	approx(t, "shortfall", row.Shortfall, 500000)
	if row.RequiredVolumeMultiplier != 1 {
		t.Fatalf("multiplier=%v want 1", row.RequiredVolumeMultiplier)
	}
	if row.RequiredAdditionalProductUnits != 0 {
		t.Fatalf("additional units=%v want 0", row.RequiredAdditionalProductUnits)
	}

	ws := warningsOf(p, 2, models.WarningNonPositiveMargin)
	if len(ws) != 1 {
		t.Fatalf("NonPositiveMargin warnings=%d want 1: %+v", len(ws), p.Warnings)
	}
	if ws[0].Detail.Stream != "product" || ws[0].Detail.Reason != ReasonCannotCloseGap {
		t.Fatalf("unexpected detail %+v", ws[0].Detail)
	}
	approx(t, "warning shortfall", ws[0].Detail.Shortfall, 500000)

	if len(warningsOf(p, 2, models.WarningProfitShortfall)) != 1 {
		t.Fatalf("expected a ProfitShortfall warning for year 2")
	}
	if len(warningsOf(p, 1, models.WarningNonPositiveMargin)) != 0 {
		t.Fatalf("year 1 has no product volume and no shortfall, expected no warning")
	}
}

func TestProjectShiftingMixRequiresMoreProductVolume(t *testing.T) {
	cfg := dashboardConfig()
	cfg.DesignTierPrice = 0
	cfg.TargetMixCustomPct = 20
	p := mustProject(t, cfg, mustLinear(t, cfg))

	// 60 custom at 175k + 40 product at 75k.
	approx(t, "baselineProfit", p.BaselineProfit, 13500000)

	last := p.Rows[4]
	approx(t, "year-5 profit", last.Profit, 9500000)
	approx(t, "shortfall", last.Shortfall, 4000000)
	approx(t, "additional", last.RequiredAdditionalProductUnits, 4000000.0/75000)
	approx(t, "multiplier", last.RequiredVolumeMultiplier, 1+(4000000.0/75000)/80)

	if p.Rows[0].RequiredVolumeMultiplier != 1 || p.Rows[0].Shortfall != 0 {
		t.Fatalf("year 1 is the baseline, got %+v", p.Rows[0])
	}
	if len(warningsOf(p, 5, models.WarningProfitShortfall)) != 1 {
		t.Fatalf("expected ProfitShortfall in year 5")
	}
}

func TestProjectDesignMarginFallsBackToCustomMargin(t *testing.T) {
	cfg := dashboardConfig()
	p := mustProject(t, cfg, mustLinear(t, cfg))
	approx(t, "designUnitMargin", p.UnitEconomics.DesignUnitMargin, 15000*0.35)

	design := 50.0
	cfg.Pricing.DesignMarginPct = &design
	p = mustProject(t, cfg, mustLinear(t, cfg))
	approx(t, "designUnitMargin", p.UnitEconomics.DesignUnitMargin, 7500)
}

func TestProjectPremiumAdoptionAddsDesignRevenue(t *testing.T) {
	cfg := dashboardConfig()
	cfg.HorizonYears = 1
	cfg.PremiumAdoptionPct = 50
	p := mustProject(t, cfg, mustLinear(t, cfg))

	// 60 custom units plus half of 40 product units buy the design tier.
	approx(t, "designRevenue", p.Rows[0].DesignRevenue, 80*15000)
}

func TestProjectMarginPctZeroWithoutRevenue(t *testing.T) {
	cfg := models.ScenarioConfig{
		HorizonYears:       3,
		Pricing:            models.PricingModel{Kind: models.PricingCost},
		FixedCosts:         1000,
		StartMixCustomPct:  50,
		TargetMixCustomPct: 50,
		TotalUnitsCapacity: 100,
	}
	p := mustProject(t, cfg, mustLinear(t, cfg))
	for _, row := range p.Rows {
		if row.Revenue != 0 {
			t.Fatalf("revenue=%v want 0", row.Revenue)
		}
		if row.MarginPct != 0 || math.IsNaN(row.MarginPct) {
			t.Fatalf("marginPct=%v want 0", row.MarginPct)
		}
	}
}

func TestProjectCapacityExceeded(t *testing.T) {
	cfg := dashboardConfig()
	cfg.HorizonYears = 3
	cfg.BaselineCustomUnits = 50
	cfg.BaselineProductUnits = 40
	cfg.AnnualGrowthRatePct = 10
	p := mustProject(t, cfg, mustLinear(t, cfg))

	// 90 planned, 99 in year 2, 108.9 in year 3 against a cap of 100.
	if len(warningsOf(p, 2, models.WarningCapacityExceeded)) != 0 {
		t.Fatalf("year 2 is within capacity")
	}
	ws := warningsOf(p, 3, models.WarningCapacityExceeded)
	if len(ws) != 1 {
		t.Fatalf("CapacityExceeded warnings in year 3=%d want 1", len(ws))
	}
	approx(t, "requested", ws[0].Detail.RequestedUnits, 108.9)
	approx(t, "capacity", ws[0].Detail.CapacityUnits, 100)
	approx(t, "units", p.Rows[2].CustomUnits+p.Rows[2].ProductUnits, 100)
}

func TestProjectGrowthModelCompoundsStreams(t *testing.T) {
	cfg := dashboardConfig()
	cfg.VolumeModel = models.VolumeGrowth
	cfg.TotalUnitsCapacity = 0
	cfg.BaselineCustomUnits = 10
	cfg.BaselineProductUnits = 20
	cfg.AnnualGrowthRatePct = 10
	cfg.TargetMixCustomPct = 0
	p := mustProject(t, cfg, mustLinear(t, cfg))

	approx(t, "custom units", p.Rows[2].CustomUnits, 12.1)
	approx(t, "product units", p.Rows[2].ProductUnits, 24.2)
	approx(t, "realised mix", p.Rows[2].CustomMixPct, 100.0/3)
	for _, row := range p.Rows {
		if row.Shortfall != 0 {
			t.Fatalf("growing volume should never fall short, year %d: %v", row.Year, row.Shortfall)
		}
	}
}

func TestProjectGrowthModeReportsCapacityWithoutCapping(t *testing.T) {
	cfg := dashboardConfig()
	cfg.HorizonYears = 3
	cfg.VolumeModel = models.VolumeGrowth
	cfg.BaselineCustomUnits = 60
	cfg.BaselineProductUnits = 40
	cfg.TotalUnitsCapacity = 50
	p := mustProject(t, cfg, mustLinear(t, cfg))

	for i, row := range p.Rows {
		ws := warningsOf(p, row.Year, models.WarningCapacityExceeded)
		if len(ws) != 1 {
			t.Fatalf("CapacityExceeded warnings in year %d=%d want 1", row.Year, len(ws))
		}
		approx(t, "requested", ws[0].Detail.RequestedUnits, 100)
		approx(t, "capacity", ws[0].Detail.CapacityUnits, 50)
		approx(t, "custom units", p.Rows[i].CustomUnits, 60)
		approx(t, "product units", p.Rows[i].ProductUnits, 40)
	}
}

func TestProjectCallerBaselineProfit(t *testing.T) {
	cfg := dashboardConfig()
	cfg.DesignTierPrice = 0
	target := 20000000.0
	cfg.BaselineProfit = &target
	p := mustProject(t, cfg, mustLinear(t, cfg))

	approx(t, "baselineProfit", p.BaselineProfit, target)
	approx(t, "shortfall", p.Rows[0].Shortfall, target-13500000)
}

func TestProjectNegativeCustomMarginIsData(t *testing.T) {
	cfg := models.ScenarioConfig{
		HorizonYears:       1,
		CustomUnitPrice:    100,
		ProductUnitPrice:   100,
		Pricing:            models.PricingModel{Kind: models.PricingCost, CustomUnitCost: 150, ProductUnitCost: 50},
		StartMixCustomPct:  50,
		TargetMixCustomPct: 50,
		TotalUnitsCapacity: 10,
	}
	p := mustProject(t, cfg, mustLinear(t, cfg))

	ws := warningsOf(p, 1, models.WarningNonPositiveMargin)
	if len(ws) != 1 || ws[0].Detail.Stream != "custom" {
		t.Fatalf("want one custom NonPositiveMargin warning, got %+v", p.Warnings)
	}
	approx(t, "profit", p.Rows[0].Profit, 5*-50+5*50)
}

func TestProjectMultiplierNeverBelowOne(t *testing.T) {
	base := dashboardConfig()
	for _, start := range []float64{0, 30, 60, 100} {
		for _, target := range []float64{0, 25, 60, 100} {
			for _, productPrice := range []float64{0, 100000, 500000} {
				cfg := base
				cfg.StartMixCustomPct = start
				cfg.TargetMixCustomPct = target
				cfg.ProductUnitPrice = productPrice
				p := mustProject(t, cfg, mustLinear(t, cfg))
				for _, row := range p.Rows {
					if row.RequiredVolumeMultiplier < 1 {
						t.Fatalf("start=%v target=%v price=%v year %d multiplier=%v",
							start, target, productPrice, row.Year, row.RequiredVolumeMultiplier)
					}
				}
			}
		}
	}
}

func TestProjectIsDeterministic(t *testing.T) {
	cfg := dashboardConfig()
	cfg.TargetMixCustomPct = 25
	cfg.AnnualGrowthRatePct = 3
	cfg.BaselineCustomUnits = 40
	cfg.BaselineProductUnits = 50
	schedule := mustLinear(t, cfg)

	first := mustProject(t, cfg, schedule)
	second := mustProject(t, cfg, schedule)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("two runs over identical inputs differ")
	}
}

func TestProjectRevenueMonotonicInProductPrice(t *testing.T) {
	cfg := dashboardConfig()
	cfg.TargetMixCustomPct = 30
	schedule := mustLinear(t, cfg)

	prev := mustProject(t, cfg, schedule)
	for price := 550000.0; price <= 900000; price += 50000 {
		cfg.ProductUnitPrice = price
		next := mustProject(t, cfg, schedule)
		for i := range next.Rows {
			if next.Rows[i].ProductUnits > 0 && next.Rows[i].Revenue < prev.Rows[i].Revenue {
				t.Fatalf("price %v year %d: revenue fell from %v to %v",
					price, i+1, prev.Rows[i].Revenue, next.Rows[i].Revenue)
			}
		}
		prev = next
	}
}

func TestProjectRejectsInvalidConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*models.ScenarioConfig)
		field  string
	}{
		{"zero horizon", func(c *models.ScenarioConfig) { c.HorizonYears = 0 }, "horizonYears"},
		{"nan price", func(c *models.ScenarioConfig) { c.ProductUnitPrice = math.NaN() }, "productUnitPrice"},
		{"infinite costs", func(c *models.ScenarioConfig) { c.FixedCosts = math.Inf(1) }, "fixedCosts"},
		{"unknown pricing", func(c *models.ScenarioConfig) { c.Pricing.Kind = "bespoke" }, "pricing.kind"},
		{"unknown volume model", func(c *models.ScenarioConfig) { c.VolumeModel = "seasonal" }, "volumeModel"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := dashboardConfig()
			tc.mutate(&cfg)
			p, err := Project(cfg, MixSchedule{60, 60, 60, 60, 60})
			if p != nil {
				t.Fatalf("expected no projection on invalid config")
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) || !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("err=%v want ConfigError", err)
			}
			if cfgErr.Field != tc.field {
				t.Fatalf("field=%q want %q", cfgErr.Field, tc.field)
			}
		})
	}
}

func TestProjectRejectsScheduleLengthMismatch(t *testing.T) {
	cfg := dashboardConfig()
	_, err := Project(cfg, MixSchedule{60, 60})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err=%v want ErrInvalidConfig", err)
	}
}
