package projection

import "revforecast-api/internal/models"

// MixSchedule holds the custom-work share of volume for each projected
// year, as a percentage. Values are not clamped to [0,100].
type MixSchedule []float64

// LinearMix interpolates from startPct to targetPct inclusive of both
// endpoints. A one-year horizon yields [startPct].
func LinearMix(startPct, targetPct float64, horizonYears int) (MixSchedule, error) {
	if horizonYears < 1 {
		return nil, newConfigError("horizonYears", "must be at least 1, got %d", horizonYears)
	}
	if !finite(startPct) || !finite(targetPct) {
		return nil, newConfigError("mix", "start and target must be finite numbers")
	}

	schedule := make(MixSchedule, horizonYears)
	if horizonYears == 1 {
		schedule[0] = startPct
		return schedule, nil
	}

	last := float64(horizonYears - 1)
	for i := range schedule {
		schedule[i] = startPct + (targetPct-startPct)*float64(i)/last
	}
	// Pin the endpoint so it is exact regardless of rounding in the step.
	schedule[horizonYears-1] = targetPct
	return schedule, nil
}

// ExplicitMix uses caller-supplied per-year values as is. The curve must
// have exactly one value per year.
func ExplicitMix(values []float64, horizonYears int) (MixSchedule, error) {
	if horizonYears < 1 {
		return nil, newConfigError("horizonYears", "must be at least 1, got %d", horizonYears)
	}
	if len(values) != horizonYears {
		return nil, newConfigError("mixCurve", "has %d entries, horizon is %d years", len(values), horizonYears)
	}
	for i, v := range values {
		if !finite(v) {
			return nil, newConfigError("mixCurve", "entry %d must be a finite number", i)
		}
	}

	schedule := make(MixSchedule, len(values))
	copy(schedule, values)
	return schedule, nil
}

// ScheduleFor builds the schedule a request asks for: the explicit curve
// when one is given, otherwise the config's start/target interpolation.
func ScheduleFor(cfg models.ScenarioConfig, curve []float64) (MixSchedule, error) {
	if len(curve) > 0 {
		return ExplicitMix(curve, cfg.HorizonYears)
	}
	return LinearMix(cfg.StartMixCustomPct, cfg.TargetMixCustomPct, cfg.HorizonYears)
}

// ConstantMix holds pct for every year. Comparisons use it as the
// unshifted baseline.
func ConstantMix(pct float64, horizonYears int) (MixSchedule, error) {
	return LinearMix(pct, pct, horizonYears)
}

// Fraction returns year i's custom share in [0,1] terms.
func (s MixSchedule) Fraction(i int) float64 {
	return s[i] / 100
}
