package projection

import "revforecast-api/internal/models"

// Compare diffs two projections year by year (scenario minus baseline).
// Years present in only one of them are ignored.
func Compare(baseline, scenario *models.Projection) models.Comparison {
	n := len(baseline.Rows)
	if len(scenario.Rows) < n {
		n = len(scenario.Rows)
	}

	cmp := models.Comparison{
		Baseline: baseline,
		Scenario: scenario,
		Deltas:   make([]models.YearDelta, 0, n),
	}
	for i := 0; i < n; i++ {
		b, s := baseline.Rows[i], scenario.Rows[i]
		d := models.YearDelta{
			Year:              s.Year,
			RevenueDelta:      s.Revenue - b.Revenue,
			ProfitDelta:       s.Profit - b.Profit,
			MarginPointsDelta: s.MarginPct - b.MarginPct,
			CustomUnitsDelta:  s.CustomUnits - b.CustomUnits,
			ProductUnitsDelta: s.ProductUnits - b.ProductUnits,
		}
		cmp.TotalRevenueDelta += d.RevenueDelta
		cmp.TotalProfitDelta += d.ProfitDelta
		cmp.Deltas = append(cmp.Deltas, d)
	}
	return cmp
}

// CompareShift projects the config twice, once holding the starting mix
// constant and once with the requested schedule, and diffs the two runs.
// In growth mode the baseline compounds each stream on its own and the
// scenario splits the same grown total by the schedule.
func CompareShift(req models.ProjectionRequest) (models.Comparison, error) {
	flat, err := ConstantMix(req.Config.StartMixCustomPct, req.Config.HorizonYears)
	if err != nil {
		return models.Comparison{}, err
	}
	if len(req.MixCurve) > 0 {
		flat, err = ConstantMix(req.MixCurve[0], req.Config.HorizonYears)
		if err != nil {
			return models.Comparison{}, err
		}
	}

	baseline, err := Project(req.Config, flat)
	if err != nil {
		return models.Comparison{}, err
	}
	schedule, err := ScheduleFor(req.Config, req.MixCurve)
	if err != nil {
		return models.Comparison{}, err
	}
	scenario, err := ProjectMixOverlay(req.Config, schedule)
	if err != nil {
		return models.Comparison{}, err
	}
	return Compare(baseline, scenario), nil
}
