package priceboard

import "time"

// Snapshot is one rendering of the dashboard price boards: every bunker
// curve and every contract curve, stamped with the time it was assembled.
type Snapshot struct {
	GeneratedAt time.Time          `json:"generated_at"`
	Fuels       []FuelBoardRow     `json:"fuels"`
	Contracts   []ContractBoardRow `json:"contracts"`
}

// FuelBoardRow is one bunker product/grade forward curve on the board.
type FuelBoardRow struct {
	Product string             `json:"product"`
	Grade   string             `json:"grade"`
	Curve   map[string]float64 `json:"curve"`
}

// ContractBoardRow is one charter-market forward curve on the board.
type ContractBoardRow struct {
	Route string             `json:"route"`
	Curve map[string]float64 `json:"curve"`
}

// BoardMessage is the frame pushed to websocket clients when the board
// refreshes.
type BoardMessage struct {
	Type      string    `json:"type"` // 'snapshot'
	Snapshot  *Snapshot `json:"snapshot"`
	Timestamp time.Time `json:"timestamp"`
}
