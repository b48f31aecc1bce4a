package stopdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/carris-ui/carris/internal/logging"
	"github.com/carris-ui/carris/internal/models"
)

// ErrNotFound is returned when no stop matches a lookup.
var ErrNotFound = errors.New("stopdb: stop not found")

// ImportStops replaces the indexed catalogue with stops in one transaction.
func (c *Client) ImportStops(ctx context.Context, stops []models.Stop) (err error) {
	start := time.Now()

	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer logging.SafeRollbackWithLogging(tx, c.logger, "import_stops")

	for _, table := range []string{"stop_lines", "stops"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("error clearing %s: %w", table, err)
		}
	}

	stopStmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO stops (
			id, long_name, tts_name, lat, lon, wheelchair_boarding, payload
		) VALUES (?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("error preparing statement: %w", err)
	}
	defer logging.SafeCloseWithLogging(stopStmt, c.logger, "stop_insert_statement")

	lineStmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO stop_lines (stop_id, line_id) VALUES (?, ?);`)
	if err != nil {
		return fmt.Errorf("error preparing statement: %w", err)
	}
	defer logging.SafeCloseWithLogging(lineStmt, c.logger, "stop_line_insert_statement")

	for _, stop := range stops {
		payload, err := json.Marshal(stop)
		if err != nil {
			return fmt.Errorf("error encoding stop %s: %w", stop.ID, err)
		}
		if _, err := stopStmt.ExecContext(ctx,
			stop.ID, stop.LongName, stop.TTSName, stop.Lat, stop.Lon, stop.WheelchairBoarding, string(payload),
		); err != nil {
			return fmt.Errorf("error inserting stop %s: %w", stop.ID, err)
		}
		for _, lineID := range stop.LineIDs {
			if _, err := lineStmt.ExecContext(ctx, stop.ID, lineID); err != nil {
				return fmt.Errorf("error inserting line %s for stop %s: %w", lineID, stop.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	c.setLastImport(time.Now())
	logging.LogOperation(c.logger, "stops_imported",
		slog.Int("stops", len(stops)),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// GetStop returns the stop with the given id or ErrNotFound.
func (c *Client) GetStop(ctx context.Context, id string) (models.Stop, error) {
	var payload string
	err := c.DB.QueryRowContext(ctx, `SELECT payload FROM stops WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Stop{}, ErrNotFound
	}
	if err != nil {
		return models.Stop{}, fmt.Errorf("error querying stop %s: %w", id, err)
	}
	return decodeStop(payload)
}

// FindStopIDByName returns the id of the stop whose long name equals name
// exactly. Long names repeat; the stop that comes last in the catalogue wins.
func (c *Client) FindStopIDByName(ctx context.Context, name string) (string, error) {
	var id string
	err := c.DB.QueryRowContext(ctx,
		`SELECT id FROM stops WHERE long_name = ? ORDER BY rowid DESC LIMIT 1`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("error querying stop name %q: %w", name, err)
	}
	return id, nil
}

// SearchStops matches q as a case-insensitive substring of the long or TTS
// name. An empty q matches every stop. limit <= 0 means no limit.
func (c *Client) SearchStops(ctx context.Context, q string, limit int) ([]models.Stop, error) {
	if limit <= 0 {
		limit = -1
	}
	pattern := "%" + escapeLike(q) + "%"
	rows, err := c.DB.QueryContext(ctx, `
		SELECT payload FROM stops
		WHERE long_name LIKE ? ESCAPE '\' OR tts_name LIKE ? ESCAPE '\'
		ORDER BY long_name, id
		LIMIT ?`, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("error searching stops: %w", err)
	}
	return scanStops(rows, c.logger)
}

// StopsForLine returns the stops served by lineID ordered by name.
func (c *Client) StopsForLine(ctx context.Context, lineID string) ([]models.Stop, error) {
	rows, err := c.DB.QueryContext(ctx, `
		SELECT s.payload FROM stops s
		JOIN stop_lines sl ON sl.stop_id = s.id
		WHERE sl.line_id = ?
		ORDER BY s.long_name, s.id`, lineID)
	if err != nil {
		return nil, fmt.Errorf("error querying stops for line %s: %w", lineID, err)
	}
	return scanStops(rows, c.logger)
}

func (c *Client) CountStops(ctx context.Context) (int, error) {
	var count int
	if err := c.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM stops`).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting stops: %w", err)
	}
	return count, nil
}

func scanStops(rows *sql.Rows, logger *slog.Logger) ([]models.Stop, error) {
	defer logging.SafeCloseWithLogging(rows, logger, "stop_rows")

	stops := []models.Stop{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("error scanning stop: %w", err)
		}
		stop, err := decodeStop(payload)
		if err != nil {
			return nil, err
		}
		stops = append(stops, stop)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stops: %w", err)
	}
	return stops, nil
}

func decodeStop(payload string) (models.Stop, error) {
	var stop models.Stop
	if err := json.Unmarshal([]byte(payload), &stop); err != nil {
		return models.Stop{}, fmt.Errorf("error decoding stop payload: %w", err)
	}
	return stop, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
