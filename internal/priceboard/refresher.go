package priceboard

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Refresher rebuilds the price board on a cron schedule.
type Refresher struct {
	cron    *cron.Cron
	service *Service
	logger  *zap.Logger
}

func NewRefresher(service *Service, logger *zap.Logger) *Refresher {
	return &Refresher{
		cron:    cron.New(),
		service: service,
		logger:  logger,
	}
}

// Start schedules board refreshes using a cron spec such as "@every 5m".
func (r *Refresher) Start(spec string) error {
	_, err := r.cron.AddFunc(spec, func() {
		if err := r.service.Refresh(context.Background()); err != nil {
			r.logger.Error("scheduled board refresh failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule board refresh: %w", err)
	}

	r.cron.Start()
	r.logger.Info("price board refresher started", zap.String("spec", spec))
	return nil
}

// Stop halts the schedule; in-flight refreshes finish first.
func (r *Refresher) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}
