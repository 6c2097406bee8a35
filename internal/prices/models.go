package prices

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Fuel grades priced independently within one bunker product.
const (
	GradeHSFO = "HSFO"
	GradeMGO  = "MGO"
)

// Contract differential units. The differential is a per-route monthly
// adjustment to the charter-market price; current route data carries it as
// zero with no unit.
const (
	DifferentialUnitAmount  = "$"
	DifferentialUnitPercent = "%"
)

// FuelPrice is one row of the bunker price table: a (product, grade) pair
// with a 12-month forward curve stored as a JSON map keyed
// "pricejan".."pricedec". Multiple rows share a product and are
// disambiguated by grade.
type FuelPrice struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Product   string         `json:"product" gorm:"not null;index"`
	Grade     string         `json:"grade" gorm:"not null"` // 'HSFO', 'MGO'
	Curve     datatypes.JSON `json:"curve" gorm:"default:'{}'"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

func (FuelPrice) TableName() string { return "fuel_prices" }

// PriceAt reads the forward price for a month key, coercing missing or
// non-numeric values to zero.
func (p *FuelPrice) PriceAt(key string) float64 {
	return curveValue(p.Curve, key)
}

// ContractPrice is one row of the freight contract table: a charter-market
// forward curve for a route key, plus the (presently inert) per-month
// differential and its unit.
type ContractPrice struct {
	ID               uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Route            string         `json:"route" gorm:"not null;uniqueIndex"`
	Curve            datatypes.JSON `json:"curve" gorm:"default:'{}'"`
	Differentials    datatypes.JSON `json:"differentials" gorm:"default:'{}'"`
	DifferentialUnit string         `json:"differential_unit" gorm:"default:''"`
	CreatedAt        time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

func (ContractPrice) TableName() string { return "contract_prices" }

// PriceAt reads the contract forward price for a month key, coercing missing
// or non-numeric values to zero.
func (p *ContractPrice) PriceAt(key string) float64 {
	return curveValue(p.Curve, key)
}

// DifferentialAt reads the per-month differential for a month key.
func (p *ContractPrice) DifferentialAt(key string) float64 {
	return curveValue(p.Differentials, key)
}

// curveValue decodes a JSON forward map and reads one key. Anything that is
// not a number (missing key, string, malformed document) reads as zero; the
// price tables degrade silently rather than failing a calculation.
func curveValue(raw datatypes.JSON, key string) float64 {
	if len(raw) == 0 {
		return 0
	}
	var curve map[string]any
	if err := json.Unmarshal(raw, &curve); err != nil {
		return 0
	}
	if v, ok := curve[key].(float64); ok {
		return v
	}
	return 0
}
