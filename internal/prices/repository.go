package prices

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Repository is the read side of the price reference tables.
type Repository interface {
	// FuelPricesByProduct returns every grade row for a bunker product. An
	// unknown product returns an empty slice, not an error.
	FuelPricesByProduct(ctx context.Context, product string) ([]FuelPrice, error)

	// ContractPriceByRoute returns the forward curve row for a route, or
	// (nil, nil) when the route has no row. A non-nil error always means the
	// lookup itself failed.
	ContractPriceByRoute(ctx context.Context, route string) (*ContractPrice, error)
}

// GormRepository implements Repository against PostgreSQL.
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) FuelPricesByProduct(ctx context.Context, product string) ([]FuelPrice, error) {
	var rows []FuelPrice
	if err := r.db.WithContext(ctx).Where("product = ?", product).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query fuel prices for %q: %w", product, err)
	}
	return rows, nil
}

func (r *GormRepository) ContractPriceByRoute(ctx context.Context, route string) (*ContractPrice, error) {
	var row ContractPrice
	err := r.db.WithContext(ctx).Where("route = ?", route).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// A missing route is degradation, not a fault; the engine prices it
		// at zero.
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query contract price for %q: %w", route, err)
	}
	return &row, nil
}
