package priceboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Service maintains the current board snapshot and pushes refreshed boards
// to connected dashboard clients.
type Service struct {
	repo   Repository
	hub    *Hub
	logger *zap.Logger

	mu      sync.RWMutex
	current *Snapshot
}

func NewService(repo Repository, hub *Hub, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		hub:    hub,
		logger: logger,
	}
}

// BuildSnapshot assembles a fresh board from the price tables.
func (s *Service) BuildSnapshot(ctx context.Context) (*Snapshot, error) {
	fuels, err := s.repo.ListFuelCurves(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build board: %w", err)
	}
	contracts, err := s.repo.ListContractCurves(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build board: %w", err)
	}

	return &Snapshot{
		GeneratedAt: time.Now(),
		Fuels:       fuels,
		Contracts:   contracts,
	}, nil
}

// Refresh rebuilds the board, swaps it in and broadcasts it.
func (s *Service) Refresh(ctx context.Context) error {
	snapshot, err := s.BuildSnapshot(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.current = snapshot
	s.mu.Unlock()

	s.hub.Broadcast(BoardMessage{
		Type:      "snapshot",
		Snapshot:  snapshot,
		Timestamp: snapshot.GeneratedAt,
	})

	s.logger.Info("price board refreshed",
		zap.Int("fuel_curves", len(snapshot.Fuels)),
		zap.Int("contract_curves", len(snapshot.Contracts)))
	return nil
}

// Current returns the latest snapshot, building one on first use.
func (s *Service) Current(ctx context.Context) (*Snapshot, error) {
	s.mu.RLock()
	snapshot := s.current
	s.mu.RUnlock()

	if snapshot != nil {
		return snapshot, nil
	}
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, nil
}
