package calculation

import (
	"errors"
	"fmt"
	"math"
)

// ErrComputation marks a computation fault: a division by an effectively
// zero duration or size, or a non-finite intermediate. Validation already
// requires both to be non-zero, but the synthesizer never hands Inf/NaN to a
// caller regardless.
var ErrComputation = errors.New("freight rate computation fault")

// resolvedPrices are the per-month inputs to one synthesis: the two bunker
// grade prices and the charter-market contract price, all already resolved
// for a single month key.
type resolvedPrices struct {
	HSFO     float64
	MGO      float64
	Contract float64
}

// synthesize combines resolved prices, cost totals and commissions into a
// freight rate in currency per cargo unit. The step order is the defined
// formula; in particular the contract day-rate and the running cost per day
// are added, not netted.
func synthesize(p resolvedPrices, n *normalizedRequest) (float64, error) {
	if n.Duration == 0 || n.Size == 0 {
		return 0, fmt.Errorf("%w: zero duration or cargo size", ErrComputation)
	}

	costHSFO := p.HSFO * n.TotalHSFOConsumption
	costMGO := p.MGO * n.TotalMGOConsumption
	baseCost := costHSFO + costMGO + n.TotalPortCost + n.TotalMiscCost

	costPerDay := baseCost / n.Duration
	effectiveDayRate := p.Contract + costPerDay
	grossIncome := effectiveDayRate * n.Duration

	commissionCost := grossIncome * (n.Commission / 100)

	rate := (commissionCost + grossIncome) / n.Size
	finalRate := rate + rate*(n.AddressCommission/100)

	if math.IsNaN(finalRate) || math.IsInf(finalRate, 0) {
		return 0, fmt.Errorf("%w: non-finite rate", ErrComputation)
	}
	return finalRate, nil
}
