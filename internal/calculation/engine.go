package calculation

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"charterdesk/broker-portal/broker-portal-backend/internal/prices"
)

// Engine computes chartered freight rates from a cargo route, a bunker
// product and voyage economics. It is a pure function of its inputs plus two
// read-only price lookups; nothing is persisted and no state survives a
// call.
type Engine struct {
	store  prices.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewEngine creates a freight rate engine backed by the given price store.
func NewEngine(store prices.Repository, logger *zap.Logger) *Engine {
	return &Engine{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Calculate derives the freight rate for the request's target month and,
// when requested, a rolling 12-month forward curve starting the month after.
//
// Outcomes follow a fixed taxonomy: an incomplete request is reported inside
// the result with a zero rate and a nil error; a failed store lookup or a
// computation fault aborts with a non-nil error. A fuel product or route
// with no matching row is neither - it prices at zero and the calculation
// proceeds.
func (e *Engine) Calculate(ctx context.Context, req *CalculationRequest) (*CalculationResult, error) {
	n := req.normalize(e.now())

	if msg := n.validate(); msg != "" {
		e.logger.Debug("rejected freight calculation", zap.String("reason", msg))
		return &CalculationResult{Error: msg}, nil
	}

	// The two lookups do not vary by month; fetch once and reuse across the
	// whole curve.
	fuelRows, err := e.store.FuelPricesByProduct(ctx, n.Fuel)
	if err != nil {
		return nil, fmt.Errorf("fuel price lookup: %w", err)
	}
	contract, err := e.store.ContractPriceByRoute(ctx, n.Route)
	if err != nil {
		return nil, fmt.Errorf("contract price lookup: %w", err)
	}

	rate, err := e.rateForKey(monthKey(n.Month), fuelRows, contract, &n)
	if err != nil {
		return nil, err
	}

	result := &CalculationResult{FreightRate: rate}

	if n.ShowFreightRates {
		curve, err := e.buildForwardCurve(fuelRows, contract, &n)
		if err != nil {
			return nil, err
		}
		result.FreightRates = curve
	}

	e.logger.Debug("freight rate calculated",
		zap.String("route", n.Route),
		zap.String("fuel", n.Fuel),
		zap.Int("month", n.Month),
		zap.Float64("rate", rate))

	return result, nil
}

// buildForwardCurve synthesizes the rate for each of the 12 months following
// the target month. The cursor starts at targetMonth+1 (which can be 13 for
// a December target) and wraps to 0 past 11; cursorMonthKey carries the
// one-month shift that turns that sequence into consecutive calendar months.
func (e *Engine) buildForwardCurve(fuelRows []prices.FuelPrice, contract *prices.ContractPrice, n *normalizedRequest) (map[string]float64, error) {
	curve := make(map[string]float64, 12)

	cursor := n.Month + 1
	for i := 0; i < 12; i++ {
		if cursor > 11 {
			cursor = 0
		}
		rate, err := e.rateForKey(cursorMonthKey(cursor), fuelRows, contract, n)
		if err != nil {
			return nil, err
		}
		curve[fmt.Sprintf("rate%d", i)] = rate
		cursor++
	}
	return curve, nil
}

// rateForKey resolves the month's prices and synthesizes a single rate.
func (e *Engine) rateForKey(key string, fuelRows []prices.FuelPrice, contract *prices.ContractPrice, n *normalizedRequest) (float64, error) {
	resolved := resolvedPrices{
		Contract: resolveContractPrice(contract, key),
	}
	resolved.HSFO, resolved.MGO = resolveFuelPrices(fuelRows, key, n.Difference)
	return synthesize(resolved, n)
}

// resolveFuelPrices reads the HSFO and MGO grade prices for a month key out
// of the product's rows. A grade with no row prices at zero. A non-zero
// difference is a flat delivered-cost premium and is added to both grades.
func resolveFuelPrices(rows []prices.FuelPrice, key string, difference float64) (hsfo, mgo float64) {
	for i := range rows {
		switch rows[i].Grade {
		case prices.GradeHSFO:
			hsfo = rows[i].PriceAt(key)
		case prices.GradeMGO:
			mgo = rows[i].PriceAt(key)
		}
	}
	if difference != 0 {
		hsfo += difference
		mgo += difference
	}
	return hsfo, mgo
}

// resolveContractPrice reads the charter-market price for a month key,
// applying the route's monthly differential when one is set. Current route
// data carries the differential as zero with no unit; the mechanism is kept
// but inert until the route model supplies it.
func resolveContractPrice(contract *prices.ContractPrice, key string) float64 {
	if contract == nil {
		return 0
	}
	price := contract.PriceAt(key)

	diff := contract.DifferentialAt(key)
	if diff != 0 {
		if contract.DifferentialUnit == prices.DifferentialUnitPercent {
			price += price * (diff / 100)
		} else {
			price += diff
		}
	}
	return price
}
