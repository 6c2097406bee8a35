package priceboard

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Repository reads whole price tables for board snapshots.
type Repository interface {
	ListFuelCurves(ctx context.Context) ([]FuelBoardRow, error)
	ListContractCurves(ctx context.Context) ([]ContractBoardRow, error)
}

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListFuelCurves(ctx context.Context) ([]FuelBoardRow, error) {
	query := `
		SELECT product, grade, curve
		FROM fuel_prices
		ORDER BY product, grade`

	dbRows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list fuel curves: %w", err)
	}
	defer dbRows.Close()

	var rows []FuelBoardRow
	for dbRows.Next() {
		var row FuelBoardRow
		var rawCurve []byte
		if err := dbRows.Scan(&row.Product, &row.Grade, &rawCurve); err != nil {
			return nil, fmt.Errorf("failed to scan fuel curve: %w", err)
		}
		row.Curve = decodeCurve(rawCurve)
		rows = append(rows, row)
	}
	return rows, dbRows.Err()
}

func (r *PostgresRepository) ListContractCurves(ctx context.Context) ([]ContractBoardRow, error) {
	query := `
		SELECT route, curve
		FROM contract_prices
		ORDER BY route`

	dbRows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list contract curves: %w", err)
	}
	defer dbRows.Close()

	var rows []ContractBoardRow
	for dbRows.Next() {
		var row ContractBoardRow
		var rawCurve []byte
		if err := dbRows.Scan(&row.Route, &rawCurve); err != nil {
			return nil, fmt.Errorf("failed to scan contract curve: %w", err)
		}
		row.Curve = decodeCurve(rawCurve)
		rows = append(rows, row)
	}
	return rows, dbRows.Err()
}

// decodeCurve tolerates malformed or mixed-type curve documents; bad entries
// read as an empty curve rather than failing the whole board.
func decodeCurve(raw []byte) map[string]float64 {
	curve := make(map[string]float64)
	if len(raw) == 0 {
		return curve
	}
	var loose map[string]any
	if err := json.Unmarshal(raw, &loose); err != nil {
		return curve
	}
	for k, v := range loose {
		if f, ok := v.(float64); ok {
			curve[k] = f
		}
	}
	return curve
}
