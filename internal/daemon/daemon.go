package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"ewms/internal/config"
	"ewms/internal/eventsync"
	"ewms/internal/statedb"
	"ewms/internal/ward"
)

const lockFileName = "ewmsd.lock"

// Daemon coordinates the ward engine's services and enforces
// single-instance execution.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	db      *statedb.DB
	store   *ward.Store
	syncSvc *eventsync.Service

	lockPath string
	lock     *flock.Flock

	api     *apiServer
	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running     bool
	PID         int
	TotalBeds   int
	Occupied    int
	Empty       int
	SyncStatus  string
	OutboxDepth int
	StateDBPath string
	LockPath    string
}

// New opens the state database, restores or initializes the bed collection,
// and assembles the store, dispatcher, and API server.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || logger == nil {
		return nil, errors.New("daemon requires config and logger")
	}

	db, err := statedb.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}

	ctx := context.Background()
	beds, err := db.Load(ctx)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("restore ward state: %w", err)
	}
	if beds == nil {
		beds = ward.NewCollection(cfg.Ward.TotalBeds)
		if err := db.Save(ctx, beds); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("initialize ward state: %w", err)
		}
		logger.Info("initialized fresh ward", slog.Int("beds", len(beds)))
	} else if len(beds) != cfg.Ward.TotalBeds {
		_ = db.Close()
		return nil, fmt.Errorf("ward.total_beds is %d but the state database holds %d beds; resizing is unsupported, move %s aside to start fresh",
			cfg.Ward.TotalBeds, len(beds), db.Path())
	}

	var (
		dispatcher eventsync.Dispatcher = eventsync.Noop()
		syncSvc    *eventsync.Service
	)
	if cfg.Sync.Enabled && cfg.Sync.EndpointURL != "" {
		syncSvc = eventsync.NewService(cfg, db, logger)
		dispatcher = syncSvc
	}

	store, err := ward.New(beds, db, logger, ward.WithDispatcher(dispatcher))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("build ward store: %w", err)
	}

	lockPath := filepath.Join(cfg.Paths.DataDir, lockFileName)
	d := &Daemon{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		store:    store,
		syncSvc:  syncSvc,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
	d.api = newAPIServer(cfg, d, logger)
	return d, nil
}

// Start acquires the daemon lock, launches the sync drain loop, and begins
// serving the API.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another ewmsd instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	if d.api != nil {
		if err := d.api.start(runCtx); err != nil {
			cancel()
			_ = d.lock.Unlock()
			d.cancel = nil
			return err
		}
	}
	if d.syncSvc != nil {
		go d.syncSvc.Run(runCtx)
	}

	d.running.Store(true)
	d.logger.Info("ewmsd started",
		slog.Int("beds", d.store.Len()),
		slog.String("lock", d.lockPath))
	return nil
}

// Stop halts background activity and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.api != nil {
		d.api.stop()
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("release daemon lock", slog.String("error", err.Error()))
	}
	d.running.Store(false)
	d.logger.Info("ewmsd stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// Store exposes the ward store to embedding callers.
func (d *Daemon) Store() *ward.Store {
	return d.store
}

// APIAddr returns the bound API listener address, empty before Start.
func (d *Daemon) APIAddr() string {
	if d.api == nil {
		return ""
	}
	return d.api.addr()
}

// Status reports runtime and occupancy information.
func (d *Daemon) Status(ctx context.Context) Status {
	st := Status{
		Running:     d.running.Load(),
		PID:         os.Getpid(),
		TotalBeds:   d.store.Len(),
		SyncStatus:  "disabled",
		StateDBPath: d.db.Path(),
		LockPath:    d.lockPath,
	}
	for _, bed := range d.store.Beds() {
		if bed.Occupied() {
			st.Occupied++
		} else {
			st.Empty++
		}
	}
	if d.syncSvc != nil {
		st.SyncStatus = string(d.syncSvc.Status())
	}
	if depth, err := d.db.OutboxDepth(ctx); err == nil {
		st.OutboxDepth = depth
	}
	return st
}
