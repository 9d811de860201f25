package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"steameagle/internal/catalog"
	"steameagle/internal/config"
	"steameagle/internal/logging"
	"steameagle/internal/notifications"
	"steameagle/internal/services"
	"steameagle/internal/services/eagle"
	"steameagle/internal/services/steam"
)

// ErrBusy indicates another steameagle process holds the sync lock.
var ErrBusy = errors.New("another sync is already running")

// SteamAPI is the subset of the Steam client used by the workflow.
type SteamAPI interface {
	GetOwnedGames(ctx context.Context, steamID uint64) ([]steam.Game, error)
	DownloadImage(ctx context.Context, appID int64, destPath string, overwrite bool) (bool, error)
	Tags(ctx context.Context, appID int64, storeLanguage string) ([]string, error)
	ImageURL(appID int64) string
}

// EagleAPI is the subset of the Eagle client used by the workflow.
type EagleAPI interface {
	EnsureFolder(ctx context.Context, libraryName, folderName string) (string, bool, error)
	AddFromPaths(ctx context.Context, folderID string, items []eagle.Item) error
}

// Manager coordinates the fetch, download and load stages.
type Manager struct {
	cfg      *config.Config
	store    *catalog.Store
	steam    SteamAPI
	eagle    EagleAPI
	notifier notifications.Service
	logger   *slog.Logger
	lock     *flock.Flock
	now      func() time.Time
}

// ManagerOption configures optional Manager behavior.
type ManagerOption func(*Manager)

// WithSteamClient overrides the Steam client built from config.
func WithSteamClient(client SteamAPI) ManagerOption {
	return func(m *Manager) { m.steam = client }
}

// WithEagleClient overrides the Eagle client built from config.
func WithEagleClient(client EagleAPI) ManagerOption {
	return func(m *Manager) { m.eagle = client }
}

// WithNotifier overrides the notification service built from config.
func WithNotifier(notifier notifications.Service) ManagerOption {
	return func(m *Manager) { m.notifier = notifier }
}

// WithClock overrides the time source used for import stamps and durations.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager constructs a workflow manager. Steam, Eagle and ntfy clients are
// built from cfg unless supplied through options.
func NewManager(cfg *config.Config, store *catalog.Store, logger *slog.Logger, opts ...ManagerOption) (*Manager, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if store == nil {
		return nil, errors.New("catalog store is nil")
	}
	m := &Manager{
		cfg:    cfg,
		store:  store,
		logger: logging.NewComponentLogger(logger, "workflow"),
		lock:   flock.New(cfg.LockPath()),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.steam == nil {
		client, err := steam.New(cfg.Steam)
		if err != nil {
			return nil, fmt.Errorf("steam client: %w", err)
		}
		m.steam = client
	}
	if m.eagle == nil {
		client, err := eagle.New(cfg.Eagle)
		if err != nil {
			return nil, fmt.Errorf("eagle client: %w", err)
		}
		m.eagle = client
	}
	if m.notifier == nil {
		m.notifier = notifications.NewService(cfg)
	}
	return m, nil
}

// begin validates sync settings, takes the run lock and stamps a run ID into
// ctx. The returned release func must be called when the run ends.
func (m *Manager) begin(ctx context.Context, operation string) (context.Context, func(), error) {
	if err := m.cfg.RequireSync(); err != nil {
		return ctx, func() {}, services.Wrap(services.ErrConfiguration, operation, "config", "", err)
	}
	if err := m.cfg.EnsureDirectories(); err != nil {
		return ctx, func() {}, services.Wrap(services.ErrConfiguration, operation, "directories", "", err)
	}
	ok, err := m.lock.TryLock()
	if err != nil {
		return ctx, func() {}, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return ctx, func() {}, fmt.Errorf("%w (lock %s)", ErrBusy, m.cfg.LockPath())
	}

	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	logging.WithContext(ctx, m.logger).Debug("run started",
		logging.String("operation", operation),
		logging.String("lock", m.cfg.LockPath()),
	)

	release := func() {
		if err := m.lock.Unlock(); err != nil {
			m.logger.Warn("failed to release sync lock",
				logging.Error(err),
				logging.String(logging.FieldEventType, "lock_release_failed"),
				logging.String(logging.FieldErrorHint, "remove the lock file if no steameagle process is running"),
				logging.String(logging.FieldImpact, "next run may report a busy lock"),
			)
		}
	}
	return ctx, release, nil
}

func (m *Manager) stageLogger(ctx context.Context) *slog.Logger {
	return logging.WithContext(ctx, m.logger)
}

// notifyError logs a stage failure and forwards it to the notifier.
func (m *Manager) notifyError(ctx context.Context, stage string, stageErr error) {
	if stageErr == nil || errors.Is(stageErr, ErrBusy) {
		return
	}
	logging.ErrorWithContext(m.stageLogger(services.WithStage(ctx, stage)), "stage failed", "stage_failed",
		logging.String("failure", services.Marker(stageErr)),
		logging.Error(stageErr),
		logging.String(logging.FieldErrorHint, stageErrorHint(stageErr)),
	)
	if m.notifier == nil {
		return
	}
	if err := m.notifier.NotifyError(context.WithoutCancel(ctx), stageErr, stage); err != nil {
		m.stageLogger(ctx).Debug("error notification failed", logging.Error(err))
	}
}

func stageErrorHint(err error) string {
	switch {
	case errors.Is(err, services.ErrConfiguration):
		return "fix the configuration and rerun (steameagle config validate)"
	case errors.Is(err, services.ErrValidation):
		return "run the earlier sync stages first"
	case errors.Is(err, services.ErrExternalService), errors.Is(err, services.ErrTimeout):
		return "check that Steam and Eagle are reachable (steameagle status)"
	default:
		return "check logs for details"
	}
}
