package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/carris-ui/carris/internal/carris"
	"github.com/carris-ui/carris/internal/localstore"
	"github.com/carris-ui/carris/internal/logging"
	"github.com/carris-ui/carris/internal/models"
	"github.com/carris-ui/carris/stopdb"
)

// ErrNoHomeStop is returned when no stop id is given and config.toml has no
// home_stop.
var ErrNoHomeStop = errors.New("no stop id given and no home_stop configured")

// Application holds the dependencies for the CLI commands, HTTP handlers,
// helpers, and middleware. It is built once at process start.
type Application struct {
	Config Config
	Logger *slog.Logger
	API    carris.API
	Store  *localstore.Store
	StopDB *stopdb.Client
}

// New builds an Application with the backend selected by cfg.Backend.
func New(cfg Config, logger *slog.Logger) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	api, err := NewAPI(cfg)
	if err != nil {
		return nil, err
	}
	return NewWithAPI(cfg, logger, api)
}

// NewWithAPI builds an Application around an existing carris.API.
func NewWithAPI(cfg Config, logger *slog.Logger, api carris.API) (*Application, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DBPath == "" {
		cfg.DBPath = ":memory:"
	}

	db, err := stopdb.NewClient(stopdb.NewConfig(cfg.DBPath, cfg.Env, cfg.Verbose))
	if err != nil {
		return nil, fmt.Errorf("open stop index: %w", err)
	}
	db.WithLogger(logger)

	return &Application{
		Config: cfg,
		Logger: logger,
		API:    api,
		Store: localstore.New(localstore.Dirs{
			CacheDir:  cfg.CacheDir,
			ConfigDir: cfg.ConfigDir,
		}, api, logger),
		StopDB: db,
	}, nil
}

// LoadStops makes sure the stop catalogue is cached on disk and indexed.
func (app *Application) LoadStops(ctx context.Context) ([]models.Stop, error) {
	start := time.Now()

	stops, err := app.Store.AllStopsCached(ctx)
	if err != nil {
		return nil, fmt.Errorf("load all stops: %w", err)
	}
	if err := app.StopDB.ImportStops(ctx, stops); err != nil {
		return nil, fmt.Errorf("index stops: %w", err)
	}

	logging.LogOperation(app.Logger, "stops_loaded",
		slog.String("component", "app"),
		slog.Int("stops", len(stops)),
		slog.Duration("duration", time.Since(start)))
	return stops, nil
}

// Arrivals fetches live arrivals for a stop, bounded by RequestTimeout.
func (app *Application) Arrivals(ctx context.Context, stopID string) ([]models.Arrival, error) {
	if app.Config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, app.Config.RequestTimeout)
		defer cancel()
	}
	return app.API.ArrivalsByStop(ctx, stopID)
}

// Board fetches arrivals for a stop and returns them as board rows sorted by
// time of arrival.
func (app *Application) Board(ctx context.Context, stopID string, now time.Time) ([]models.BoardRow, error) {
	arrivals, err := app.Arrivals(ctx, stopID)
	if err != nil {
		return nil, err
	}
	rows := models.NewBoard(arrivals, now)
	models.SortBoard(rows)
	return rows, nil
}

// ResolveStopID returns stopID, or the configured home stop when it is empty.
func (app *Application) ResolveStopID(stopID string) (string, error) {
	if stopID != "" {
		return stopID, nil
	}
	settings, err := app.Store.LoadSettings()
	if err != nil {
		return "", err
	}
	if settings.HomeStop == "" {
		return "", ErrNoHomeStop
	}
	return settings.HomeStop, nil
}

func (app *Application) Close() error {
	return app.StopDB.Close()
}
