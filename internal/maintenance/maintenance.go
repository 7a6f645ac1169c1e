package maintenance

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Saver persists accumulated tracking time.
type Saver interface {
	Save() error
}

// Pruner deletes run history older than a cutoff, returning the row count.
type Pruner interface {
	PruneHistory(before time.Time) (int64, error)
}

// Service runs background upkeep: periodic autosave so a crash loses at most
// one interval, and daily pruning of expired run history.
type Service struct {
	cron      *cron.Cron
	saver     Saver
	pruner    Pruner
	retention time.Duration
	logger    *slog.Logger
}

// New builds the maintenance schedule. Autosave fires every autosaveInterval,
// pruning fires daily and removes runs older than retentionDays.
func New(saver Saver, pruner Pruner, autosaveInterval time.Duration, retentionDays int, logger *slog.Logger) (*Service, error) {
	if autosaveInterval <= 0 {
		autosaveInterval = 5 * time.Minute
	}
	if retentionDays <= 0 {
		retentionDays = 90
	}

	service := &Service{
		cron:      cron.New(),
		saver:     saver,
		pruner:    pruner,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		logger:    logger,
	}

	if _, err := service.cron.AddFunc(fmt.Sprintf("@every %s", autosaveInterval), service.autosave); err != nil {
		return nil, fmt.Errorf("schedule autosave: %w", err)
	}
	if _, err := service.cron.AddFunc("@daily", service.prune); err != nil {
		return nil, fmt.Errorf("schedule history prune: %w", err)
	}

	return service, nil
}

// Start begins running the scheduled jobs. An immediate prune covers
// instances that are never alive at the daily boundary.
func (service *Service) Start() {
	service.cron.Start()
	go service.prune()
}

// Close stops the schedule and waits for a running job to finish.
func (service *Service) Close() {
	ctx := service.cron.Stop()
	<-ctx.Done()
}

func (service *Service) autosave() {
	if err := service.saver.Save(); err != nil {
		service.logger.Warn("autosave failed", "error", err)
		return
	}
	service.logger.Debug("autosave completed")
}

func (service *Service) prune() {
	cutoff := time.Now().Add(-service.retention)
	removed, err := service.pruner.PruneHistory(cutoff)
	if err != nil {
		service.logger.Warn("history prune failed", "error", err)
		return
	}
	if removed > 0 {
		service.logger.Info("pruned run history", "rows", removed, "cutoff", cutoff)
	}
}
