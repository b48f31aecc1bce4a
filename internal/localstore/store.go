// Package localstore keeps the stop catalogue cached on disk and the user's
// settings in a TOML file.
package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/carris-ui/carris/internal/carris"
	"github.com/carris-ui/carris/internal/logging"
	"github.com/carris-ui/carris/internal/models"
)

// Store owns the on-disk cache. The cache is never invalidated: once
// all_stops.json exists it is served as is.
type Store struct {
	dirs   Dirs
	api    carris.API
	logger *slog.Logger

	readFile func(name string) ([]byte, error)
}

func New(dirs Dirs, api carris.API, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		dirs:   dirs.WithDefaults(),
		api:    api,
		logger: logger.With(slog.String("component", "localstore")),

		readFile: os.ReadFile,
	}
}

func (s *Store) Dirs() Dirs { return s.dirs }

func (s *Store) StopsPath() string {
	return filepath.Join(s.dirs.CacheDir, StopsFileName)
}

func (s *Store) SettingsPath() string {
	return filepath.Join(s.dirs.ConfigDir, SettingsFileName)
}

// EnsureStopsCached fetches the full stop list and writes it to the cache
// file unless the file already exists. The existence check and the write are
// not atomic with respect to other processes.
func (s *Store) EnsureStopsCached(ctx context.Context) error {
	path := s.StopsPath()
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat stop cache %s: %w", path, err)
	}

	start := time.Now()
	stops, err := s.api.AllStops(ctx)
	if err != nil {
		return fmt.Errorf("fetch all stops: %w", err)
	}

	data, err := json.MarshalIndent(stops, "", "  ")
	if err != nil {
		return fmt.Errorf("encode stop cache: %w", err)
	}

	if err := os.MkdirAll(s.dirs.CacheDir, 0o755); err != nil {
		return fmt.Errorf("create cache dir %s: %w", s.dirs.CacheDir, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write stop cache %s: %w", path, err)
	}

	logging.LogOperation(s.logger, "stop_cache_written",
		slog.String("path", path),
		slog.Int("stops", len(stops)),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// AllStopsCached returns the cached stop list, populating the cache first if
// needed. A cache file removed between the check and the read is reported,
// not re-fetched.
func (s *Store) AllStopsCached(ctx context.Context) ([]models.Stop, error) {
	if err := s.EnsureStopsCached(ctx); err != nil {
		return nil, err
	}

	path := s.StopsPath()
	data, err := s.readFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stop cache %s: %w", path, err)
	}

	var stops []models.Stop
	if err := json.Unmarshal(data, &stops); err != nil {
		return nil, fmt.Errorf("decode stop cache %s: %w", path, err)
	}
	if stops == nil {
		stops = []models.Stop{}
	}
	return stops, nil
}
