// Package pricing implements the deterministic estimate model: a base range
// per project type scaled by building-type and building-age multipliers, with
// an indicative cost-category breakdown.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/renomatch/renomatch-backend/pkg/config"
	"github.com/renomatch/renomatch-backend/pkg/enums"
	pkgerrors "github.com/renomatch/renomatch-backend/pkg/errors"
	"github.com/renomatch/renomatch-backend/pkg/types"
)

// Breakdown allocates an estimate across indicative cost centers. The
// categories are independent percentage slices of the final range, not a
// strict partition: their sums are not normalized to the totals on purpose,
// since they describe overlapping cost drivers rather than an invoice.
type Breakdown struct {
	Materials   types.MoneyRange `json:"materials"`
	Labor       types.MoneyRange `json:"labor"`
	Scaffolding types.MoneyRange `json:"scaffolding"`
	Insulation  types.MoneyRange `json:"insulation"`
}

// Estimate is the computed price range for a project.
type Estimate struct {
	Min       int       `json:"min"`
	Max       int       `json:"max"`
	Currency  string    `json:"currency"`
	Breakdown Breakdown `json:"breakdown"`
}

// Range returns the estimate bounds as a MoneyRange.
func (e Estimate) Range() types.MoneyRange {
	return types.MoneyRange{Min: e.Min, Max: e.Max}
}

// baseRanges and the multiplier tables are total over the closed enum
// domains by construction; Estimate still rejects unknown values so boundary
// callers fail fast instead of silently defaulting.
var baseRanges = map[enums.ProjectType]types.MoneyRange{
	enums.ProjectTypeRoof:       {Min: 12000, Max: 35000},
	enums.ProjectTypeFacade:     {Min: 8000, Max: 25000},
	enums.ProjectTypeInsulation: {Min: 5000, Max: 18000},
	enums.ProjectTypeSolar:      {Min: 6000, Max: 15000},
	enums.ProjectTypeCombo:      {Min: 20000, Max: 50000},
}

// Apartments price below row houses; detached houses carry the largest
// surface and accessibility premium.
var buildingMultipliers = map[enums.BuildingType]decimal.Decimal{
	enums.BuildingTypeApartment:    decimal.RequireFromString("0.80"),
	enums.BuildingTypeRow:          decimal.RequireFromString("1.00"),
	enums.BuildingTypeSemiDetached: decimal.RequireFromString("1.15"),
	enums.BuildingTypeDetached:     decimal.RequireFromString("1.30"),
}

// ageBands maps building age to a premium that grows monotonically with age.
// upTo is exclusive; the final band catches everything older.
var ageBands = []struct {
	upTo       int
	multiplier decimal.Decimal
}{
	{upTo: 10, multiplier: decimal.RequireFromString("0.95")},
	{upTo: 30, multiplier: decimal.RequireFromString("1.00")},
	{upTo: 50, multiplier: decimal.RequireFromString("1.10")},
	{upTo: 80, multiplier: decimal.RequireFromString("1.20")},
}

var oldestBandMultiplier = decimal.RequireFromString("1.30")

// Engine computes price estimates. It performs no I/O and never fails on
// well-typed input.
type Engine struct {
	cfg config.PricingConfig
	now func() time.Time
}

// NewEngine builds a pricing engine with the supplied tunables.
func NewEngine(cfg config.PricingConfig) *Engine {
	return &Engine{cfg: cfg, now: time.Now}
}

// Estimate maps (projectType, buildingType, yearBuilt) to a price range with
// breakdown. A nil yearBuilt uses the configured default building age. The
// same function reconstructs a stored lead's breakdown at read time, so write
// and read paths can never disagree.
func (e *Engine) Estimate(projectType enums.ProjectType, buildingType enums.BuildingType, yearBuilt *int) (Estimate, error) {
	base, ok := baseRanges[projectType]
	if !ok {
		return Estimate{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown project type").
			WithDetails(map[string]any{"projectType": string(projectType)})
	}
	buildingMult, ok := buildingMultipliers[buildingType]
	if !ok {
		return Estimate{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown building type").
			WithDetails(map[string]any{"buildingType": string(buildingType)})
	}

	age := e.cfg.DefaultBuildingAge
	if yearBuilt != nil {
		age = e.now().Year() - *yearBuilt
	}

	multiplier := buildingMult.Mul(ageMultiplier(age))

	min := e.roundToUnit(decimal.NewFromInt(int64(base.Min)).Mul(multiplier))
	max := e.roundToUnit(decimal.NewFromInt(int64(base.Max)).Mul(multiplier))

	return Estimate{
		Min:       min,
		Max:       max,
		Currency:  e.cfg.Currency,
		Breakdown: e.breakdown(projectType, min, max),
	}, nil
}

// BreakdownFor recomputes the category breakdown for previously computed
// bounds. Lead reads use this so stored estimates and their breakdown can
// never disagree.
func (e *Engine) BreakdownFor(projectType enums.ProjectType, min, max int) Breakdown {
	return e.breakdown(projectType, min, max)
}

func (e *Engine) breakdown(projectType enums.ProjectType, min, max int) Breakdown {
	scaffolding := e.cfg.ScaffoldingLowPercent
	if projectType == enums.ProjectTypeRoof || projectType == enums.ProjectTypeFacade {
		scaffolding = e.cfg.ScaffoldingPercent
	}
	insulation := e.cfg.InsulationLowPercent
	if projectType == enums.ProjectTypeInsulation || projectType == enums.ProjectTypeCombo {
		insulation = e.cfg.InsulationPercent
	}

	return Breakdown{
		Materials:   e.slice(min, max, e.cfg.MaterialsPercent),
		Labor:       e.slice(min, max, e.cfg.LaborPercent),
		Scaffolding: e.slice(min, max, scaffolding),
		Insulation:  e.slice(min, max, insulation),
	}
}

// slice takes a percentage of both bounds, rounding each independently.
func (e *Engine) slice(min, max int, percent float64) types.MoneyRange {
	p := decimal.NewFromFloat(percent)
	return types.MoneyRange{
		Min: e.roundToUnit(decimal.NewFromInt(int64(min)).Mul(p)),
		Max: e.roundToUnit(decimal.NewFromInt(int64(max)).Mul(p)),
	}
}

func (e *Engine) roundToUnit(value decimal.Decimal) int {
	unit := e.cfg.RoundTo
	if unit <= 1 {
		return int(value.Round(0).IntPart())
	}
	u := decimal.NewFromInt(int64(unit))
	return int(value.Div(u).Round(0).Mul(u).IntPart())
}

func ageMultiplier(age int) decimal.Decimal {
	for _, band := range ageBands {
		if age < band.upTo {
			return band.multiplier
		}
	}
	return oldestBandMultiplier
}
