package calculation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"charterdesk/broker-portal/broker-portal-backend/internal/prices"
)

// MockPriceStore is a mock implementation of the prices.Repository interface
type MockPriceStore struct {
	mock.Mock
}

func (m *MockPriceStore) FuelPricesByProduct(ctx context.Context, product string) ([]prices.FuelPrice, error) {
	args := m.Called(ctx, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]prices.FuelPrice), args.Error(1)
}

func (m *MockPriceStore) ContractPriceByRoute(ctx context.Context, route string) (*prices.ContractPrice, error) {
	args := m.Called(ctx, route)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*prices.ContractPrice), args.Error(1)
}

func curveJSON(t *testing.T, curve map[string]float64) datatypes.JSON {
	t.Helper()
	data, err := json.Marshal(curve)
	require.NoError(t, err)
	return datatypes.JSON(data)
}

// flatCurve prices every month the same.
func flatCurve(t *testing.T, price float64) datatypes.JSON {
	t.Helper()
	curve := make(map[string]float64, 12)
	for _, m := range standardMonths {
		curve[monthKeyPrefix+m] = price
	}
	return curveJSON(t, curve)
}

func newTestEngine(store prices.Repository) *Engine {
	return NewEngine(store, zap.NewNop())
}

func baseRequest() *CalculationRequest {
	return &CalculationRequest{
		Intake:               8000,
		Duration:             20,
		Route:                "C5",
		Fuel:                 "Singapore 380cst",
		TotalHSFOConsumption: 100,
		TotalMGOConsumption:  20,
		TotalPortCost:        5000,
		TotalMiscCost:        1000,
		Month:                3,
	}
}

func TestCalculateWorkedExample(t *testing.T) {
	// size=8000 duration=20 hsfo=100@500 mgo=20@800 port=5000 misc=1000
	// contract=0 commissions=0 => baseCost=72000, rate=72000/8000=9
	store := new(MockPriceStore)
	store.On("FuelPricesByProduct", mock.Anything, "Singapore 380cst").Return([]prices.FuelPrice{
		{Product: "Singapore 380cst", Grade: prices.GradeHSFO, Curve: flatCurve(t, 500)},
		{Product: "Singapore 380cst", Grade: prices.GradeMGO, Curve: flatCurve(t, 800)},
	}, nil)
	store.On("ContractPriceByRoute", mock.Anything, "C5").Return(nil, nil)

	result, err := newTestEngine(store).Calculate(context.Background(), baseRequest())

	require.NoError(t, err)
	assert.Empty(t, result.Error)
	assert.InDelta(t, 9.0, result.FreightRate, 1e-9)
	assert.Nil(t, result.FreightRates)
	store.AssertExpectations(t)
}

func TestCalculateIsDeterministic(t *testing.T) {
	store := new(MockPriceStore)
	store.On("FuelPricesByProduct", mock.Anything, mock.Anything).Return([]prices.FuelPrice{
		{Grade: prices.GradeHSFO, Curve: flatCurve(t, 512.25)},
		{Grade: prices.GradeMGO, Curve: flatCurve(t, 790.5)},
	}, nil)
	store.On("ContractPriceByRoute", mock.Anything, mock.Anything).Return(&prices.ContractPrice{
		Route: "C5",
		Curve: flatCurve(t, 14250),
	}, nil)

	engine := newTestEngine(store)
	req := baseRequest()
	req.Commission = 2.5
	req.AddressCommission = 3.75

	first, err := engine.Calculate(context.Background(), req)
	require.NoError(t, err)
	second, err := engine.Calculate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.FreightRate, second.FreightRate)
}

func TestCalculateMissingFuelProductDegradesToZero(t *testing.T) {
	// No fuel rows: baseCost depends only on port+misc. 6000/20=300/day,
	// gross 6000, rate 6000/8000 = 0.75.
	store := new(MockPriceStore)
	store.On("FuelPricesByProduct", mock.Anything, mock.Anything).Return([]prices.FuelPrice{}, nil)
	store.On("ContractPriceByRoute", mock.Anything, mock.Anything).Return(nil, nil)

	result, err := newTestEngine(store).Calculate(context.Background(), baseRequest())

	require.NoError(t, err)
	assert.Empty(t, result.Error)
	assert.InDelta(t, 0.75, result.FreightRate, 1e-9)
}

func TestCalculateMissingContractEqualsRunningCostOnly(t *testing.T) {
	// With no contract row the effective day rate is exactly the running
	// cost per day, so the rate equals baseCost/size.
	store := new(MockPriceStore)
	fuelRows := []prices.FuelPrice{
		{Grade: prices.GradeHSFO, Curve: flatCurve(t, 500)},
		{Grade: prices.GradeMGO, Curve: flatCurve(t, 800)},
	}
	store.On("FuelPricesByProduct", mock.Anything, mock.Anything).Return(fuelRows, nil)
	store.On("ContractPriceByRoute", mock.Anything, mock.Anything).Return(nil, nil)

	result, err := newTestEngine(store).Calculate(context.Background(), baseRequest())

	require.NoError(t, err)
	baseCost := 500.0*100 + 800.0*20 + 5000 + 1000
	assert.InDelta(t, baseCost/8000, result.FreightRate, 1e-9)
}

func TestCalculateContractPriceAdds(t *testing.T) {
	// The contract day rate and the running cost per day are added; gross
	// income gains pContract*duration.
	store := new(MockPriceStore)
	store.On("FuelPricesByProduct", mock.Anything, mock.Anything).Return([]prices.FuelPrice{}, nil)
	store.On("ContractPriceByRoute", mock.Anything, mock.Anything).Return(&prices.ContractPrice{
		Route: "C5",
		Curve: flatCurve(t, 12000),
	}, nil)

	result, err := newTestEngine(store).Calculate(context.Background(), baseRequest())

	require.NoError(t, err)
	// baseCost 6000 => gross (12000+300)*20 = 246000 => 246000/8000
	assert.InDelta(t, 246000.0/8000, result.FreightRate, 1e-9)
}

func TestCalculateDoublingConsumptionRaisesBaseCostByCostHSFO(t *testing.T) {
	store := new(MockPriceStore)
	store.On("FuelPricesByProduct", mock.Anything, mock.Anything).Return([]prices.FuelPrice{
		{Grade: prices.GradeHSFO, Curve: flatCurve(t, 500)},
		{Grade: prices.GradeMGO, Curve: flatCurve(t, 800)},
	}, nil)
	store.On("ContractPriceByRoute", mock.Anything, mock.Anything).Return(nil, nil)

	engine := newTestEngine(store)

	req := baseRequest()
	before, err := engine.Calculate(context.Background(), req)
	require.NoError(t, err)

	req.TotalHSFOConsumption *= 2
	after, err := engine.Calculate(context.Background(), req)
	require.NoError(t, err)

	// costHSFO was 500*100=50000; with zero commissions the rate moves by
	// exactly costHSFO/size.
	assert.InDelta(t, 50000.0/8000, after.FreightRate-before.FreightRate, 1e-9)
}

func TestCalculateCommissionComposition(t *testing.T) {
	store := new(MockPriceStore)
	store.On("FuelPricesByProduct", mock.Anything, mock.Anything).Return([]prices.FuelPrice{}, nil)
	store.On("ContractPriceByRoute", mock.Anything, mock.Anything).Return(nil, nil)

	engine := newTestEngine(store)

	req := baseRequest()
	zero, err := engine.Calculate(context.Background(), req)
	require.NoError(t, err)

	req.Commission = 2.5
	req.AddressCommission = 5
	charged, err := engine.Calculate(context.Background(), req)
	require.NoError(t, err)

	// Both layers compose multiplicatively on the zero-commission rate.
	assert.InDelta(t, zero.FreightRate*1.025*1.05, charged.FreightRate, 1e-9)
}

func TestCalculateFuelDifferenceAppliesToBothGrades(t *testing.T) {
	store := new(MockPriceStore)
	store.On("FuelPricesByProduct", mock.Anything, mock.Anything).Return([]prices.FuelPrice{
		{Grade: prices.GradeHSFO, Curve: flatCurve(t, 500)},
		{Grade: prices.GradeMGO, Curve: flatCurve(t, 800)},
	}, nil)
	store.On("ContractPriceByRoute", mock.Anything, mock.Anything).Return(nil, nil)

	engine := newTestEngine(store)

	req := baseRequest()
	before, err := engine.Calculate(context.Background(), req)
	require.NoError(t, err)

	req.Difference = 10
	after, err := engine.Calculate(context.Background(), req)
	require.NoError(t, err)

	// +10 on both grades: 10*(100+20)=1200 extra base cost.
	assert.InDelta(t, 1200.0/8000, after.FreightRate-before.FreightRate, 1e-9)
}

func TestCalculateInputInvalidReportsNotFails(t *testing.T) {
	store := new(MockPriceStore)
	engine := newTestEngine(store)

	req := baseRequest()
	req.Intake = 0
	req.StemSize = 0

	result, err := engine.Calculate(context.Background(), req)

	require.NoError(t, err)
	assert.Zero(t, result.FreightRate)
	assert.NotEmpty(t, result.Error)
	store.AssertNotCalled(t, "FuelPricesByProduct", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "ContractPriceByRoute", mock.Anything, mock.Anything)
}

func TestCalculateOutOfRangeMonthReportsNotPanics(t *testing.T) {
	for _, month := range []int{13, 27, -1} {
		store := new(MockPriceStore)
		engine := newTestEngine(store)

		req := baseRequest()
		req.Month = month

		result, err := engine.Calculate(context.Background(), req)

		require.NoError(t, err)
		assert.Zero(t, result.FreightRate)
		assert.Equal(t, "month must be between 1 and 12", result.Error)
		store.AssertNotCalled(t, "FuelPricesByProduct", mock.Anything, mock.Anything)
		store.AssertNotCalled(t, "ContractPriceByRoute", mock.Anything, mock.Anything)
	}
}

func TestCalculateStemSizeBacksUpIntake(t *testing.T) {
	store := new(MockPriceStore)
	store.On("FuelPricesByProduct", mock.Anything, mock.Anything).Return([]prices.FuelPrice{}, nil)
	store.On("ContractPriceByRoute", mock.Anything, mock.Anything).Return(nil, nil)

	req := baseRequest()
	req.Intake = 0
	req.StemSize = 8000

	result, err := newTestEngine(store).Calculate(context.Background(), req)

	require.NoError(t, err)
	assert.Empty(t, result.Error)
	assert.InDelta(t, 0.75, result.FreightRate, 1e-9)
}

func TestCalculateLookupFaultAborts(t *testing.T) {
	store := new(MockPriceStore)
	store.On("FuelPricesByProduct", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	result, err := newTestEngine(store).Calculate(context.Background(), baseRequest())

	require.Error(t, err)
	assert.Nil(t, result)
}

func TestForwardCurveSequenceAcrossYearBoundary(t *testing.T) {
	// Price each month by its calendar number so the curve values identify
	// which month was read. For target month 10 (October) the cursor walks
	// 11,0,1..10, which must read nov,dec,jan..oct.
	monthValues := make(map[string]float64, 12)
	for i, m := range standardMonths {
		monthValues[monthKeyPrefix+m] = float64(i + 1)
	}

	store := new(MockPriceStore)
	store.On("FuelPricesByProduct", mock.Anything, mock.Anything).Return([]prices.FuelPrice{
		{Grade: prices.GradeHSFO, Curve: curveJSON(t, monthValues)},
	}, nil)
	store.On("ContractPriceByRoute", mock.Anything, mock.Anything).Return(nil, nil)

	// With size=1, duration=1, 1t of HSFO and nothing else, the rate for a
	// month equals that month's HSFO price.
	req := &CalculationRequest{
		Intake:               1,
		Duration:             1,
		Route:                "C5",
		Fuel:                 "Singapore 380cst",
		TotalHSFOConsumption: 1,
		Month:                10,
		ShowFreightRates:     true,
	}

	result, err := newTestEngine(store).Calculate(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result.FreightRates, 12)

	// nov dec jan feb ... oct
	expected := []float64{11, 12, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	for i, want := range expected {
		assert.InDelta(t, want, result.FreightRates[fmt.Sprintf("rate%d", i)], 1e-9, "rate%d", i)
	}

	// The direct target-month rate uses the natural mapping.
	assert.InDelta(t, 10, result.FreightRate, 1e-9)

	// Rows are fetched once and reused across the curve.
	store.AssertNumberOfCalls(t, "FuelPricesByProduct", 1)
	store.AssertNumberOfCalls(t, "ContractPriceByRoute", 1)
}

func TestForwardCurveDecemberTargetWraps(t *testing.T) {
	monthValues := make(map[string]float64, 12)
	for i, m := range standardMonths {
		monthValues[monthKeyPrefix+m] = float64(i + 1)
	}

	store := new(MockPriceStore)
	store.On("FuelPricesByProduct", mock.Anything, mock.Anything).Return([]prices.FuelPrice{
		{Grade: prices.GradeHSFO, Curve: curveJSON(t, monthValues)},
	}, nil)
	store.On("ContractPriceByRoute", mock.Anything, mock.Anything).Return(nil, nil)

	req := &CalculationRequest{
		Intake:               1,
		Duration:             1,
		Route:                "C5",
		Fuel:                 "Singapore 380cst",
		TotalHSFOConsumption: 1,
		Month:                12,
		ShowFreightRates:     true,
	}

	// Starting cursor 13 resets to 0, so the walk is 0..11 and the keys are
	// dec, jan, ..., nov.
	result, err := newTestEngine(store).Calculate(context.Background(), req)
	require.NoError(t, err)

	expected := []float64{12, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	for i, want := range expected {
		assert.InDelta(t, want, result.FreightRates[fmt.Sprintf("rate%d", i)], 1e-9, "rate%d", i)
	}
}

func TestContractDifferentialMechanism(t *testing.T) {
	// The per-route monthly differential is zero in live data but the
	// mechanism must hold: flat amounts add, percentages scale.
	contract := &prices.ContractPrice{
		Route:         "C5",
		Curve:         flatCurve(t, 10000),
		Differentials: flatCurve(t, 500),
	}

	assert.InDelta(t, 10500, resolveContractPrice(contract, "pricejan"), 1e-9)

	contract.DifferentialUnit = prices.DifferentialUnitPercent
	assert.InDelta(t, 10050, resolveContractPrice(contract, "pricejan"), 1e-9)

	assert.Zero(t, resolveContractPrice(nil, "pricejan"))
}

func TestSynthesizeZeroDivisorIsComputationFault(t *testing.T) {
	n := &normalizedRequest{Size: 0, Duration: 20}
	_, err := synthesize(resolvedPrices{}, n)
	assert.ErrorIs(t, err, ErrComputation)

	n = &normalizedRequest{Size: 8000, Duration: 0}
	_, err = synthesize(resolvedPrices{}, n)
	assert.ErrorIs(t, err, ErrComputation)
}
