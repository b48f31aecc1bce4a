// Package stopdb indexes the cached stop catalogue in SQLite so stops can be
// looked up by id, name, search text or line.
package stopdb

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"time"

	"github.com/carris-ui/carris/internal/logging"
)

// Client is the main entry point for the stop index
type Client struct {
	config     Config
	DB         *sql.DB
	logger     *slog.Logger

	mu         sync.Mutex
	lastImport time.Time
}

// NewClient opens the database described by config and migrates it.
func NewClient(config Config) (*Client, error) {
	db, err := createDB(context.Background(), config)
	if err != nil {
		return nil, err
	}

	client := &Client{
		config: config,
		DB:     db,
		logger: slog.Default().With(slog.String("component", "stopdb")),
	}
	if config.verbose {
		logging.LogOperation(client.logger, "stop_index_opened", slog.String("path", config.DBPath))
	}
	return client, nil
}

// WithLogger replaces the logger used for import and cleanup messages.
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	if logger != nil {
		c.logger = logger.With(slog.String("component", "stopdb"))
	}
	return c
}

// LastImport is the time of the last successful ImportStops, zero if none.
func (c *Client) LastImport() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastImport
}

func (c *Client) setLastImport(t time.Time) {
	c.mu.Lock()
	c.lastImport = t
	c.mu.Unlock()
}

func (c *Client) Close() error {
	return c.DB.Close()
}
