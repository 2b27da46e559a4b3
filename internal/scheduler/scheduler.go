package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"ghexplorer/internal/providers"
	"ghexplorer/internal/storage"
	"ghexplorer/internal/structures"

	"github.com/roylee0704/gron"
)

var ErrMigrationFailed = errors.New("storage migration did not complete")

type SchedulerInterface interface {
	Init()
	Stop()
	Restore(ctx context.Context) error
	Persist() error
}

// Sweeper evicts idle list cache entries and reports how many went away.
type Sweeper interface {
	Sweep() int
}

// Scheduler runs periodic store flushes and list cache sweeps.
type Scheduler struct {
	config  *structures.Config
	logger  providers.Logger
	store   *storage.Store
	sweeper Sweeper
	cron    *gron.Cron
	opsMu   sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	if interval := s.config.Storage.FlushInterval; interval > 0 {
		s.cron.AddFunc(gron.Every(interval), func() {
			if err := s.Persist(); err == nil {
				s.logger.Debugf(providers.TypeStorage, "Storage flushed")
			}
		})
	}

	if interval := s.config.Lists.SweepInterval; interval > 0 {
		s.cron.AddFunc(gron.Every(interval), func() {
			s.opsMu.Lock()
			defer s.opsMu.Unlock()

			if n := s.sweeper.Sweep(); n > 0 {
				s.logger.Debugf(providers.TypeCache, "Swept %d idle list entries", n)
			}
		})
	}

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Restore brings persisted data up to the current layout.
func (s *Scheduler) Restore(ctx context.Context) error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	start := time.Now()
	if !s.store.RunMigrations(ctx) {
		return ErrMigrationFailed
	}
	s.logger.Infof(providers.TypeStorage, "Storage at migration version %d (%s)", s.store.MigrationVersion(), time.Since(start))
	return nil
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	if err := s.store.Flush(); err != nil {
		s.logger.Errorf(providers.TypeStorage, "Error while persisting data: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, store *storage.Store, sweeper Sweeper) SchedulerInterface {
	return &Scheduler{
		config:  config,
		logger:  logger,
		store:   store,
		sweeper: sweeper,
	}
}
