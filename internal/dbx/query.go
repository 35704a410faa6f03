package dbx

import (
	"context"
	"fmt"
)

// QueryStrings runs a single-column query and collects the values.
// The result is never nil.
func QueryStrings(ctx context.Context, db DBTX, query string, args ...any) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return result, nil
}

// ExecAffected runs a statement and returns the number of affected rows.
func ExecAffected(ctx context.Context, db DBTX, query string, args ...any) (int64, error) {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

// KeepList makes an empty keep-list bind as '{}' rather than NULL. A NULL
// array makes "<> ALL" unknown, which would keep every row.
func KeepList(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
