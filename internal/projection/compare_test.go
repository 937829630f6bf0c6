package projection

import (
	"math"
	"reflect"
	"testing"

	"revforecast-api/internal/models"
)

func TestCompareShiftDiffsAgainstConstantStartMix(t *testing.T) {
	cfg := dashboardConfig()
	cfg.DesignTierPrice = 0
	cfg.TargetMixCustomPct = 20

	cmp, err := CompareShift(models.ProjectionRequest{Config: cfg})
	if err != nil {
		t.Fatalf("CompareShift: %v", err)
	}
	if len(cmp.Deltas) != 5 {
		t.Fatalf("deltas=%d want 5", len(cmp.Deltas))
	}

	for _, row := range cmp.Baseline.Rows {
		approx(t, "baseline profit", row.Profit, 13500000)
	}
	approx(t, "year-1 profit delta", cmp.Deltas[0].ProfitDelta, 0)
	approx(t, "year-5 profit delta", cmp.Deltas[4].ProfitDelta, -4000000)
	approx(t, "year-5 custom units delta", cmp.Deltas[4].CustomUnitsDelta, -40)
	approx(t, "year-5 product units delta", cmp.Deltas[4].ProductUnitsDelta, 40)

	// Prices are equal, so the shift moves profit but not revenue.
	approx(t, "total revenue delta", cmp.TotalRevenueDelta, 0)
	approx(t, "total profit delta", cmp.TotalProfitDelta, -1000000-2000000-3000000-4000000)
}

func TestCompareShiftUsesCurveStart(t *testing.T) {
	cfg := dashboardConfig()
	cfg.HorizonYears = 3

	cmp, err := CompareShift(models.ProjectionRequest{Config: cfg, MixCurve: []float64{80, 70, 60}})
	if err != nil {
		t.Fatalf("CompareShift: %v", err)
	}
	for _, row := range cmp.Baseline.Rows {
		approx(t, "baseline mix", row.CustomMixPct, 80)
	}
}

func TestCompareTruncatesToShorterRun(t *testing.T) {
	a := &models.Projection{Rows: []models.ProjectionRow{{Year: 1, Revenue: 10}, {Year: 2, Revenue: 20}}}
	b := &models.Projection{Rows: []models.ProjectionRow{{Year: 1, Revenue: 15}}}

	cmp := Compare(a, b)
	if len(cmp.Deltas) != 1 {
		t.Fatalf("deltas=%d want 1", len(cmp.Deltas))
	}
	if cmp.Deltas[0].RevenueDelta != 5 {
		t.Fatalf("revenue delta=%v want 5", cmp.Deltas[0].RevenueDelta)
	}
}

func TestCompareShiftGrowthModeSplitsGrownTotal(t *testing.T) {
	cfg := dashboardConfig()
	cfg.DesignTierPrice = 0
	cfg.VolumeModel = models.VolumeGrowth
	cfg.TotalUnitsCapacity = 0
	cfg.BaselineCustomUnits = 60
	cfg.BaselineProductUnits = 40
	cfg.AnnualGrowthRatePct = 5
	cfg.TargetMixCustomPct = 20

	cmp, err := CompareShift(models.ProjectionRequest{Config: cfg})
	if err != nil {
		t.Fatalf("CompareShift: %v", err)
	}

	f := math.Pow(1.05, 4)
	approx(t, "year-1 profit delta", cmp.Deltas[0].ProfitDelta, 0)
	approx(t, "baseline year-5 custom units", cmp.Baseline.Rows[4].CustomUnits, 60*f)
	approx(t, "scenario year-5 custom units", cmp.Scenario.Rows[4].CustomUnits, 20*f)
	approx(t, "scenario year-5 product units", cmp.Scenario.Rows[4].ProductUnits, 80*f)
	approx(t, "scenario year-5 mix", cmp.Scenario.Rows[4].CustomMixPct, 20)
	approx(t, "year-5 custom units delta", cmp.Deltas[4].CustomUnitsDelta, -40*f)
	// Each unit moved from custom to product work gives up 100,000 of margin.
	approx(t, "year-5 profit delta", cmp.Deltas[4].ProfitDelta, -40*f*100000)
	if cmp.TotalProfitDelta >= 0 {
		t.Fatalf("total profit delta=%v want negative", cmp.TotalProfitDelta)
	}
}

func TestProjectMixOverlayMatchesProjectInCapacityMode(t *testing.T) {
	cfg := dashboardConfig()
	cfg.TargetMixCustomPct = 30
	schedule := mustLinear(t, cfg)

	overlay, err := ProjectMixOverlay(cfg, schedule)
	if err != nil {
		t.Fatalf("ProjectMixOverlay: %v", err)
	}
	if !reflect.DeepEqual(overlay, mustProject(t, cfg, schedule)) {
		t.Fatal("overlay changed a capacity-mode projection")
	}
}
