package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

func truncateTable(ctx context.Context, db *sqlx.DB, table string) error {
	if _, err := db.ExecContext(ctx, "TRUNCATE TABLE "+table); err != nil {
		return fmt.Errorf("truncate %s: %w", table, err)
	}
	return nil
}

func countRows(ctx context.Context, db *sqlx.DB, table string) (int64, error) {
	var count int64
	if err := db.GetContext(ctx, &count, "SELECT COUNT(1) FROM "+table); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return count, nil
}

func nullableString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
