// Package app wires the core together: database, store, queue, domain
// services and the reconciler schedule.
package app

import (
	"context"
	"database/sql"
	"time"

	"github.com/hyphenhq/hyphen/internal/config"
	"github.com/hyphenhq/hyphen/internal/logging"
	"github.com/hyphenhq/hyphen/internal/queue"
	"github.com/hyphenhq/hyphen/internal/reconcile"
	"github.com/hyphenhq/hyphen/internal/services"
	"github.com/hyphenhq/hyphen/internal/store"
)

// App holds the constructed core. There are no singletons: tests and
// embedders build as many isolated instances as they need.
type App struct {
	cfg    *config.Config
	db     *sql.DB
	logger logging.Logger

	Store *store.Store
	Queue *queue.Queue

	Events     *services.EventService
	Tasks      *services.TaskService
	BrandDeals *services.BrandDealService
	SolarLeads *services.SolarLeadService
	PREvents   *services.PREventService
	Pomodoro   *services.PomodoroService
}

// New opens the local database, registers every collection and builds
// the service façades.
func New(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	db, err := store.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	q := queue.New(db)
	st := store.New(db, q, store.WithLogger(logger))
	if err := services.RegisterAll(st); err != nil {
		_ = db.Close()
		return nil, err
	}

	tasks := services.NewTaskService(st)
	return &App{
		cfg:        cfg,
		db:         db,
		logger:     logger,
		Store:      st,
		Queue:      q,
		Events:     services.NewEventService(st),
		Tasks:      tasks,
		BrandDeals: services.NewBrandDealService(st, tasks),
		SolarLeads: services.NewSolarLeadService(st, tasks, time.Now),
		PREvents:   services.NewPREventService(st),
		Pomodoro:   services.NewPomodoroService(st, time.Now),
	}, nil
}

// RunSync drives the reconciler against the injected remote authority
// until ctx is cancelled.
func (a *App) RunSync(ctx context.Context, remote reconcile.RemoteAuthority) error {
	r := reconcile.New(a.Store, a.Queue, remote,
		reconcile.WithLogger(a.logger),
		reconcile.WithMaxRetries(a.cfg.MaxSyncRetries),
		reconcile.WithAbandonedObserver(func(e *reconcile.AbandonedError) {
			a.logger.Error(ctx, "sync abandoned", "error", e.Error())
		}),
	)
	return r.Run(ctx, a.cfg.SyncInterval)
}

// Close releases the database handle.
func (a *App) Close() error {
	return a.db.Close()
}
