package calculation

import (
	"strings"
	"time"
)

// CalculationRequest is the raw request body for a freight rate calculation.
// Cargo size may arrive as either an intake or a stem size; the first
// non-zero of the two wins. Consumption, port and misc fields are voyage
// totals, commissions are percentages.
type CalculationRequest struct {
	Intake               float64 `json:"intake"`
	StemSize             float64 `json:"stemSize"`
	Duration             float64 `json:"duration"`
	Route                string  `json:"route"`
	Fuel                 string  `json:"fuel"`
	TotalHSFOConsumption float64 `json:"totalHSFOConsumption"`
	TotalMGOConsumption  float64 `json:"totalMGOConsumption"`
	TotalPortCost        float64 `json:"totalPortCost"`
	TotalMiscCost        float64 `json:"totalMiscCost"`
	Difference           float64 `json:"difference"`
	Commission           float64 `json:"commission"`
	AddressCommission    float64 `json:"addressCommission"`
	Month                int     `json:"month"`
	ShowFreightRates     bool    `json:"showFreightRates"`
}

// CalculationResult is returned for every computable request. Input-invalid
// requests are reported through the Error field with a zero rate rather than
// as a transport failure; callers must check Error. FreightRates is only
// populated when the 12-month forward curve was requested, keyed
// "rate0".."rate11".
type CalculationResult struct {
	FreightRate  float64            `json:"freightRate"`
	FreightRates map[string]float64 `json:"freightRates,omitempty"`
	Error        string             `json:"error,omitempty"`
}

// TargetMonth resolves the request's effective 1-12 target month the same
// way normalization does: an absent or zero month means the current calendar
// month.
func (r *CalculationRequest) TargetMonth(now time.Time) int {
	if r.Month == 0 {
		return int(now.Month())
	}
	return r.Month
}

// normalizedRequest is the well-typed computation context derived from a raw
// request.
type normalizedRequest struct {
	Size                 float64
	Duration             float64
	Route                string
	Fuel                 string
	TotalHSFOConsumption float64
	TotalMGOConsumption  float64
	TotalPortCost        float64
	TotalMiscCost        float64
	Difference           float64
	Commission           float64
	AddressCommission    float64
	Month                int
	ShowFreightRates     bool
}

// normalize trims the lookup keys, collapses intake/stemSize into a single
// cargo size and defaults a missing target month to the current calendar
// month. Numeric fields missing from the JSON body already arrive as zero.
func (r *CalculationRequest) normalize(now time.Time) normalizedRequest {
	size := r.Intake
	if size == 0 {
		size = r.StemSize
	}

	month := r.Month
	if month == 0 {
		month = int(now.Month())
	}

	return normalizedRequest{
		Size:                 size,
		Duration:             r.Duration,
		Route:                strings.TrimSpace(r.Route),
		Fuel:                 strings.TrimSpace(r.Fuel),
		TotalHSFOConsumption: r.TotalHSFOConsumption,
		TotalMGOConsumption:  r.TotalMGOConsumption,
		TotalPortCost:        r.TotalPortCost,
		TotalMiscCost:        r.TotalMiscCost,
		Difference:           r.Difference,
		Commission:           r.Commission,
		AddressCommission:    r.AddressCommission,
		Month:                month,
		ShowFreightRates:     r.ShowFreightRates,
	}
}

// validate returns a non-empty message when a field the engine cannot
// compute without is missing or out of range. This is reported, not thrown:
// the handler folds it into a zero-rate result. The month check runs after
// normalization, so only a genuinely out-of-range month trips it; an absent
// month has already defaulted to the current one.
func (n *normalizedRequest) validate() string {
	switch {
	case n.Size == 0:
		return "cargo size is required (intake or stem size)"
	case n.Duration == 0:
		return "voyage duration is required"
	case n.Route == "":
		return "route is required"
	case n.Fuel == "":
		return "fuel is required"
	case n.Month < 1 || n.Month > 12:
		return "month must be between 1 and 12"
	}
	return ""
}
