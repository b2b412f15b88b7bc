// Package migrations provides embedded SQL migration files.
package migrations

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
)

//go:embed sql/001_initial.sql
var InitialSQL string

//go:embed sql/002_preferences.sql
var Migration002Preferences string

// All lists every migration in the order it must run. Each is idempotent.
var All = []string{InitialSQL, Migration002Preferences}

// Apply runs every migration against db.
func Apply(ctx context.Context, db *sql.DB) error {
	for i, m := range All {
		if _, err := db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("migration %03d: %w", i+1, err)
		}
	}
	return nil
}
