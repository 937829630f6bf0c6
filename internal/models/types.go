package models

import "time"

// VolumeModelKind selects how yearly unit volumes are derived
type VolumeModelKind string

const (
	// VolumeCapacity splits a capacity-limited total by the year's mix
	VolumeCapacity VolumeModelKind = "capacity"
	// VolumeGrowth compounds each stream's baseline independently of mix
	VolumeGrowth VolumeModelKind = "growth"
)

// PricingKind tags which representation a PricingModel carries
type PricingKind string

const (
	PricingCost   PricingKind = "cost"
	PricingMargin PricingKind = "margin"
)

// PricingModel is either unit costs (kind "cost") or margin percentages
// (kind "margin"). Both reduce to the same per-unit margins.
type PricingModel struct {
	Kind PricingKind `json:"kind" yaml:"kind" firestore:"kind"`

	CustomUnitCost  float64 `json:"customUnitCost,omitempty" yaml:"customUnitCost" firestore:"customUnitCost"`
	ProductUnitCost float64 `json:"productUnitCost,omitempty" yaml:"productUnitCost" firestore:"productUnitCost"`
	DesignUnitCost  float64 `json:"designUnitCost,omitempty" yaml:"designUnitCost" firestore:"designUnitCost"`

	CustomMarginPct  float64  `json:"customMarginPct,omitempty" yaml:"customMarginPct" firestore:"customMarginPct"`
	ProductMarginPct float64  `json:"productMarginPct,omitempty" yaml:"productMarginPct" firestore:"productMarginPct"`
	DesignMarginPct  *float64 `json:"designMarginPct,omitempty" yaml:"designMarginPct" firestore:"designMarginPct"`
}

// ScenarioConfig is the full set of inputs for one projection run
type ScenarioConfig struct {
	HorizonYears int `json:"horizonYears" yaml:"horizonYears" firestore:"horizonYears"`

	CustomUnitPrice  float64      `json:"customUnitPrice" yaml:"customUnitPrice" firestore:"customUnitPrice"`
	ProductUnitPrice float64      `json:"productUnitPrice" yaml:"productUnitPrice" firestore:"productUnitPrice"`
	Pricing          PricingModel `json:"pricing" yaml:"pricing" firestore:"pricing"`
	FixedCosts       float64      `json:"fixedCosts" yaml:"fixedCosts" firestore:"fixedCosts"`

	StartMixCustomPct  float64 `json:"startMixCustomPct" yaml:"startMixCustomPct" firestore:"startMixCustomPct"`
	TargetMixCustomPct float64 `json:"targetMixCustomPct" yaml:"targetMixCustomPct" firestore:"targetMixCustomPct"`

	BaselineCustomUnits  float64 `json:"baselineCustomUnits" yaml:"baselineCustomUnits" firestore:"baselineCustomUnits"`
	BaselineProductUnits float64 `json:"baselineProductUnits" yaml:"baselineProductUnits" firestore:"baselineProductUnits"`
	TotalUnitsCapacity   float64 `json:"totalUnitsCapacity" yaml:"totalUnitsCapacity" firestore:"totalUnitsCapacity"`
	AnnualGrowthRatePct  float64 `json:"annualGrowthRatePct" yaml:"annualGrowthRatePct" firestore:"annualGrowthRatePct"`

	DesignTierPrice    float64 `json:"designTierPrice,omitempty" yaml:"designTierPrice" firestore:"designTierPrice"`
	PremiumAdoptionPct float64 `json:"premiumAdoptionPct,omitempty" yaml:"premiumAdoptionPct" firestore:"premiumAdoptionPct"`

	VolumeModel    VolumeModelKind `json:"volumeModel,omitempty" yaml:"volumeModel" firestore:"volumeModel"`
	BaselineProfit *float64        `json:"baselineProfit,omitempty" yaml:"baselineProfit" firestore:"baselineProfit"`
}

// UnitEconomics is the per-unit contribution of each revenue stream
type UnitEconomics struct {
	CustomUnitMargin  float64 `json:"customUnitMargin" firestore:"customUnitMargin"`
	ProductUnitMargin float64 `json:"productUnitMargin" firestore:"productUnitMargin"`
	DesignUnitMargin  float64 `json:"designUnitMargin" firestore:"designUnitMargin"`
}

// ProjectionRow is one projected year
type ProjectionRow struct {
	Year         int     `json:"year" firestore:"year"`
	CustomMixPct float64 `json:"customMixPct" firestore:"customMixPct"`

	CustomUnits  float64 `json:"customUnits" firestore:"customUnits"`
	ProductUnits float64 `json:"productUnits" firestore:"productUnits"`

	CustomRevenue  float64 `json:"customRevenue" firestore:"customRevenue"`
	ProductRevenue float64 `json:"productRevenue" firestore:"productRevenue"`
	DesignRevenue  float64 `json:"designRevenue" firestore:"designRevenue"`
	Revenue        float64 `json:"revenue" firestore:"revenue"`

	Profit          float64 `json:"profit" firestore:"profit"`
	OperatingProfit float64 `json:"operatingProfit" firestore:"operatingProfit"`
	MarginPct       float64 `json:"marginPct" firestore:"marginPct"` // 0-100, 0 when revenue is 0

	BreakEvenUnits float64 `json:"breakEvenUnits" firestore:"breakEvenUnits"`
	AboveBreakEven bool    `json:"aboveBreakEven" firestore:"aboveBreakEven"`

	Shortfall                      float64 `json:"shortfall" firestore:"shortfall"`
	RequiredAdditionalProductUnits float64 `json:"requiredAdditionalProductUnits" firestore:"requiredAdditionalProductUnits"`
	RequiredVolumeMultiplier       float64 `json:"requiredVolumeMultiplier" firestore:"requiredVolumeMultiplier"`

	CumulativeRevenue float64 `json:"cumulativeRevenue" firestore:"cumulativeRevenue"`
	CumulativeProfit  float64 `json:"cumulativeProfit" firestore:"cumulativeProfit"`
}

// WarningKind classifies a computation warning
type WarningKind string

const (
	WarningCapacityExceeded  WarningKind = "CapacityExceeded"
	WarningProfitShortfall   WarningKind = "ProfitShortfall"
	WarningNonPositiveMargin WarningKind = "NonPositiveMargin"
)

// WarningDetail carries the numbers behind a warning. Only the fields
// relevant to the warning kind are set.
type WarningDetail struct {
	Stream         string  `json:"stream,omitempty" firestore:"stream,omitempty"`
	UnitMargin     float64 `json:"unitMargin,omitempty" firestore:"unitMargin,omitempty"`
	Shortfall      float64 `json:"shortfall,omitempty" firestore:"shortfall,omitempty"`
	BaselineProfit float64 `json:"baselineProfit,omitempty" firestore:"baselineProfit,omitempty"`
	Profit         float64 `json:"profit,omitempty" firestore:"profit,omitempty"`
	RequestedUnits float64 `json:"requestedUnits,omitempty" firestore:"requestedUnits,omitempty"`
	CapacityUnits  float64 `json:"capacityUnits,omitempty" firestore:"capacityUnits,omitempty"`
	Reason         string  `json:"reason,omitempty" firestore:"reason,omitempty"`
}

// Warning is returned alongside projection rows; it is data, not an error
type Warning struct {
	Year   int           `json:"year" firestore:"year"`
	Kind   WarningKind   `json:"kind" firestore:"kind"`
	Detail WarningDetail `json:"detail" firestore:"detail"`
}

// Projection is the engine output for one config and mix schedule
type Projection struct {
	Rows           []ProjectionRow `json:"rows" firestore:"rows"`
	Warnings       []Warning       `json:"warnings" firestore:"warnings"`
	BaselineProfit float64         `json:"baselineProfit" firestore:"baselineProfit"`
	UnitEconomics  UnitEconomics   `json:"unitEconomics" firestore:"unitEconomics"`
}

// YearDelta is the scenario-minus-baseline difference for one year
type YearDelta struct {
	Year              int     `json:"year"`
	RevenueDelta      float64 `json:"revenueDelta"`
	ProfitDelta       float64 `json:"profitDelta"`
	MarginPointsDelta float64 `json:"marginPointsDelta"`
	CustomUnitsDelta  float64 `json:"customUnitsDelta"`
	ProductUnitsDelta float64 `json:"productUnitsDelta"`
}

// Comparison pairs a baseline run with a scenario run
type Comparison struct {
	Baseline          *Projection `json:"baseline"`
	Scenario          *Projection `json:"scenario"`
	Deltas            []YearDelta `json:"deltas"`
	TotalRevenueDelta float64     `json:"totalRevenueDelta"`
	TotalProfitDelta  float64     `json:"totalProfitDelta"`
}

// Snapshot is a saved scenario. It is never mutated after saving.
type Snapshot struct {
	Name       string         `json:"name" firestore:"name"`
	Config     ScenarioConfig `json:"config" firestore:"config"`
	MixCurve   []float64      `json:"mixCurve,omitempty" firestore:"mixCurve"`
	Projection Projection     `json:"projection" firestore:"projection"`
	SavedAt    time.Time      `json:"savedAt" firestore:"savedAt"`
}

// ProjectionRequest is the body of projection and save requests.
// MixCurve, when set, overrides the linear start/target interpolation.
type ProjectionRequest struct {
	Config   ScenarioConfig `json:"config"`
	MixCurve []float64      `json:"mixCurve,omitempty"`
}

// BatchItem names one projection within a batch
type BatchItem struct {
	Name string `json:"name"`
	ProjectionRequest
}

// BatchRequest represents the incoming batch projection request
type BatchRequest struct {
	Items []BatchItem `json:"items"`
}

// BatchResult is one batch entry; exactly one of Projection or Error is set
type BatchResult struct {
	Name       string      `json:"name"`
	Projection *Projection `json:"projection,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// BatchResponse represents the batch projection result
type BatchResponse struct {
	Results     []BatchResult `json:"results"`
	GeneratedAt time.Time     `json:"generatedAt"`
}

// ScenarioList represents the saved scenario names for a session
type ScenarioList struct {
	SessionID string   `json:"sessionId"`
	Names     []string `json:"names"`
}

// ErrorResponse represents API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}
