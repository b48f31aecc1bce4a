package stopdb

import (
	"context"
	"fmt"
	"time"

	"github.com/carris-ui/carris/internal/logging"
)

// TableCounts returns the row count of every user table.
func (c *Client) TableCounts(ctx context.Context) (map[string]int, error) {
	rows, err := c.DB.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'")
	if err != nil {
		return nil, fmt.Errorf("failed to query table names: %w", err)
	}
	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			logging.SafeCloseWithLogging(rows, c.logger, "table_name_rows")
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, tableName)
	}
	logging.SafeCloseWithLogging(rows, c.logger, "table_name_rows")

	counts := make(map[string]int, len(tables))
	for _, table := range tables {
		var count int
		query := fmt.Sprintf("SELECT COUNT(*) FROM %q", table)
		if err := c.DB.QueryRowContext(ctx, query).Scan(&count); err != nil {
			return nil, err
		}
		counts[table] = count
	}

	return counts, nil
}

// IndexStatus describes the state of the index for the debug page.
type IndexStatus struct {
	LastImport time.Time
	Tables     map[string]int
}

func (c *Client) Status(ctx context.Context) (IndexStatus, error) {
	counts, err := c.TableCounts(ctx)
	if err != nil {
		return IndexStatus{}, err
	}
	return IndexStatus{LastImport: c.LastImport(), Tables: counts}, nil
}
