package seed

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/wrapworks/estimator/internal/catalog"
)

// Config contains the values required by startup seed.
type Config struct {
	// OrgIDs receive the starter material table. Orgs not listed price
	// against the built-in catalog until they add their own materials.
	OrgIDs    []string
	Materials []catalog.Material
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Skipped int
}

// Run executes the startup seed in an idempotent way. Existing rows are never
// touched, so edits made through the materials API survive restarts.
func Run(ctx context.Context, db *sql.DB, cfg Config) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	for _, orgID := range cfg.OrgIDs {
		orgID = strings.TrimSpace(orgID)
		if orgID == "" {
			continue
		}
		for _, m := range cfg.Materials {
			if err := ensureMaterial(ctx, tx, orgID, m, &stats); err != nil {
				_ = tx.Rollback()
				return Stats{}, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureMaterial(ctx context.Context, tx *sql.Tx, orgID string, m catalog.Material, stats *Stats) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM materials WHERE org_id = ? AND code = ? LIMIT 1)
	`, orgID, m.ID).Scan(&exists); err != nil {
		return fmt.Errorf("check material %s for %s: %w", m.ID, orgID, err)
	}
	if exists {
		stats.Skipped++
		return nil
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO materials (org_id, code, name, rate_per_sqft, notes, active)
		VALUES (?, ?, ?, ?, ?, ?)
	`, orgID, m.ID, m.Name, m.Rate, "", true); err != nil {
		return fmt.Errorf("insert material %s for %s: %w", m.ID, orgID, err)
	}
	stats.Inserts++
	return nil
}
