// Package projection turns a scenario config and a mix schedule into a
// year-indexed table of revenue, profit, margin, break-even volume and the
// product volume needed to hold a baseline profit. Every function here is
// pure: the same inputs always give the same output.
package projection

import (
	"math"

	"revforecast-api/internal/models"
)

// BreakEvenMarginFloor is the smallest per-unit margin break-even volume is
// divided by, in currency units. It keeps the ratio finite and positive.
const BreakEvenMarginFloor = 1.0

// Warning reason codes
const (
	ReasonNoProductVolume = "no_product_volume"
	ReasonCannotCloseGap  = "additional_volume_cannot_close_gap"
	ReasonLossPerUnit     = "loss_per_unit"
)

type volume struct {
	custom    float64
	product   float64
	requested float64
	capacity  float64

	// overCapacity is set when requested exceeds a positive capacity.
	// Capacity mode caps the units; growth mode only reports it.
	overCapacity bool
}

type streams struct {
	customRevenue  float64
	productRevenue float64
	designRevenue  float64
	profit         float64
}

// Project computes one row per year of the schedule. Invalid configs fail
// with a ConfigError before any row is computed; everything else,
// including zero or negative margins, produces rows and warnings.
func Project(cfg models.ScenarioConfig, schedule MixSchedule) (*models.Projection, error) {
	return project(cfg, schedule, false)
}

// ProjectMixOverlay is Project with the schedule applied to growth-mode
// volume: each year's grown total is split by the scheduled mix instead of
// compounding the streams separately. Capacity mode is unaffected.
func ProjectMixOverlay(cfg models.ScenarioConfig, schedule MixSchedule) (*models.Projection, error) {
	return project(cfg, schedule, true)
}

func project(cfg models.ScenarioConfig, schedule MixSchedule, overlay bool) (*models.Projection, error) {
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	if len(schedule) != cfg.HorizonYears {
		return nil, newConfigError("mixSchedule", "has %d entries, horizon is %d years", len(schedule), cfg.HorizonYears)
	}
	for i, v := range schedule {
		if !finite(v) {
			return nil, newConfigError("mixSchedule", "entry %d must be a finite number", i)
		}
	}

	econ := UnitMargins(cfg)
	adoption := cfg.PremiumAdoptionPct / 100

	baseline := baselineProfit(cfg, schedule, econ, overlay)
	// Each extra product unit also brings its share of premium design work.
	perAdditionalUnit := econ.ProductUnitMargin + adoption*econ.DesignUnitMargin
	breakEvenMargin := math.Max(econ.ProductUnitMargin, BreakEvenMarginFloor)

	rows := make([]models.ProjectionRow, 0, cfg.HorizonYears)
	warnings := make([]models.Warning, 0)
	var cumRevenue, cumProfit float64

	for i := 0; i < cfg.HorizonYears; i++ {
		year := i + 1
		vol := volumeFor(cfg, schedule[i], i, overlay)
		s := yearStreams(cfg, econ, vol)
		revenue := s.customRevenue + s.productRevenue + s.designRevenue

		if vol.overCapacity {
			warnings = append(warnings, models.Warning{
				Year: year,
				Kind: models.WarningCapacityExceeded,
				Detail: models.WarningDetail{
					RequestedUnits: vol.requested,
					CapacityUnits:  vol.capacity,
				},
			})
		}

		if vol.custom > 0 && econ.CustomUnitMargin+econ.DesignUnitMargin <= 0 {
			warnings = append(warnings, models.Warning{
				Year: year,
				Kind: models.WarningNonPositiveMargin,
				Detail: models.WarningDetail{
					Stream:     "custom",
					UnitMargin: econ.CustomUnitMargin + econ.DesignUnitMargin,
					Reason:     ReasonLossPerUnit,
				},
			})
		}

		shortfall := math.Max(0, baseline-s.profit)
		multiplier := 1.0
		additional := 0.0

		switch {
		case perAdditionalUnit <= 0:
			if vol.product > 0 || shortfall > 0 {
				warnings = append(warnings, models.Warning{
					Year: year,
					Kind: models.WarningNonPositiveMargin,
					Detail: models.WarningDetail{
						Stream:     "product",
						UnitMargin: perAdditionalUnit,
						Shortfall:  shortfall,
						Reason:     ReasonCannotCloseGap,
					},
				})
			}
		case shortfall > 0:
			additional = shortfall / perAdditionalUnit
			if vol.product > 0 {
				multiplier = math.Max(1, 1+additional/vol.product)
			}
		}

		if shortfall > 0 {
			detail := models.WarningDetail{
				Shortfall:      shortfall,
				BaselineProfit: baseline,
				Profit:         s.profit,
			}
			if vol.product <= 0 && perAdditionalUnit > 0 {
				detail.Reason = ReasonNoProductVolume
			}
			warnings = append(warnings, models.Warning{
				Year:   year,
				Kind:   models.WarningProfitShortfall,
				Detail: detail,
			})
		}

		breakEven := cfg.FixedCosts / breakEvenMargin
		cumRevenue += revenue
		cumProfit += s.profit

		rows = append(rows, models.ProjectionRow{
			Year:                           year,
			CustomMixPct:                   realisedMix(vol, schedule[i]),
			CustomUnits:                    vol.custom,
			ProductUnits:                   vol.product,
			CustomRevenue:                  s.customRevenue,
			ProductRevenue:                 s.productRevenue,
			DesignRevenue:                  s.designRevenue,
			Revenue:                        revenue,
			Profit:                         s.profit,
			OperatingProfit:                s.profit - cfg.FixedCosts,
			MarginPct:                      marginPct(s.profit, revenue),
			BreakEvenUnits:                 breakEven,
			AboveBreakEven:                 vol.product >= breakEven,
			Shortfall:                      shortfall,
			RequiredAdditionalProductUnits: additional,
			RequiredVolumeMultiplier:       multiplier,
			CumulativeRevenue:              cumRevenue,
			CumulativeProfit:               cumProfit,
		})
	}

	return &models.Projection{
		Rows:           rows,
		Warnings:       warnings,
		BaselineProfit: baseline,
		UnitEconomics:  econ,
	}, nil
}

// ProjectRequest builds the requested schedule and projects it.
func ProjectRequest(req models.ProjectionRequest) (*models.Projection, error) {
	schedule, err := ScheduleFor(req.Config, req.MixCurve)
	if err != nil {
		return nil, err
	}
	return Project(req.Config, schedule)
}

// baselineProfit is year one's profit at the schedule's starting mix,
// unless the config designates its own baseline.
func baselineProfit(cfg models.ScenarioConfig, schedule MixSchedule, econ models.UnitEconomics, overlay bool) float64 {
	if cfg.BaselineProfit != nil {
		return *cfg.BaselineProfit
	}
	return yearStreams(cfg, econ, volumeFor(cfg, schedule[0], 0, overlay)).profit
}

// volumeFor derives year yearIndex's units. Capacity mode grows the planned
// total, caps it at capacity and splits it by mixPct. Growth mode compounds
// each stream's baseline and ignores the mix unless overlay is set, in
// which case the grown total is split by mixPct. Growth mode never caps.
func volumeFor(cfg models.ScenarioConfig, mixPct float64, yearIndex int, overlay bool) volume {
	factor := math.Pow(1+cfg.AnnualGrowthRatePct/100, float64(yearIndex))

	if cfg.VolumeModel == models.VolumeGrowth {
		v := volume{
			custom:    cfg.BaselineCustomUnits * factor,
			product:   cfg.BaselineProductUnits * factor,
			requested: (cfg.BaselineCustomUnits + cfg.BaselineProductUnits) * factor,
			capacity:  cfg.TotalUnitsCapacity,
		}
		if overlay {
			v.custom = v.requested * mixPct / 100
			v.product = v.requested * (100 - mixPct) / 100
		}
		v.overCapacity = v.capacity > 0 && v.requested > v.capacity
		return v
	}

	planned := cfg.BaselineCustomUnits + cfg.BaselineProductUnits
	if planned == 0 {
		planned = cfg.TotalUnitsCapacity
	}

	v := volume{requested: planned * factor, capacity: cfg.TotalUnitsCapacity}
	total := v.requested
	if v.capacity > 0 && v.requested > v.capacity {
		total = v.capacity
		v.overCapacity = true
	}
	v.custom = total * mixPct / 100
	v.product = total * (100 - mixPct) / 100
	return v
}

func yearStreams(cfg models.ScenarioConfig, econ models.UnitEconomics, vol volume) streams {
	adoption := cfg.PremiumAdoptionPct / 100
	designUnits := vol.custom + vol.product*adoption

	return streams{
		customRevenue:  vol.custom * cfg.CustomUnitPrice,
		productRevenue: vol.product * cfg.ProductUnitPrice,
		designRevenue:  designUnits * cfg.DesignTierPrice,
		profit: vol.custom*econ.CustomUnitMargin +
			vol.product*econ.ProductUnitMargin +
			designUnits*econ.DesignUnitMargin,
	}
}

func realisedMix(vol volume, scheduled float64) float64 {
	total := vol.custom + vol.product
	if total == 0 {
		return scheduled
	}
	return 100 * vol.custom / total
}

func marginPct(profit, revenue float64) float64 {
	if revenue == 0 {
		return 0
	}
	return 100 * profit / revenue
}
