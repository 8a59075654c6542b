package seed

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/wrapworks/estimator/internal/catalog"
	"github.com/wrapworks/estimator/internal/db"
	"github.com/wrapworks/estimator/internal/migrations"
)

func TestRunIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "seed-test.db")
	database, err := db.Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(ctx, database, zap.NewNop()); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	materials := catalog.Default().Materials
	cfg := Config{
		OrgIDs:    []string{"shop-north", " ", "shop-south"},
		Materials: materials,
	}
	want := 2 * len(materials)

	for i := 0; i < 10; i++ {
		stats, err := Run(ctx, database, cfg)
		if err != nil {
			t.Fatalf("run seed (iteration=%d): %v", i, err)
		}
		if i == 0 {
			if stats.Inserts != want {
				t.Fatalf("expected %d inserts in first run, got %d", want, stats.Inserts)
			}
			continue
		}
		if stats.Inserts != 0 || stats.Skipped != want {
			t.Fatalf("expected only skips in iteration %d, got %+v", i, stats)
		}
	}

	assertCount(t, database, `SELECT COUNT(*) FROM materials WHERE org_id = ?`, "shop-north", len(materials))
	assertCount(t, database, `SELECT COUNT(*) FROM materials WHERE org_id = ?`, "shop-south", len(materials))
	assertCount(t, database, `SELECT COUNT(*) FROM materials WHERE org_id = ? AND code = ?`, []any{"shop-north", catalog.DefaultMaterialID}, 1)
	assertCount(t, database, `SELECT COUNT(*) FROM materials WHERE org_id = ''`, nil, 0)
}

func TestRunKeepsEditedRates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	database, err := db.Open(ctx, filepath.Join(t.TempDir(), "seed-edit.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(ctx, database, zap.NewNop()); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	cfg := Config{
		OrgIDs:    []string{"shop-north"},
		Materials: []catalog.Material{{ID: "avery1105", Name: "Avery MPI 1105", Rate: 2.10}},
	}
	if _, err := Run(ctx, database, cfg); err != nil {
		t.Fatalf("run seed: %v", err)
	}
	if _, err := database.Exec(`UPDATE materials SET rate_per_sqft = 2.35 WHERE org_id = ? AND code = ?`, "shop-north", "avery1105"); err != nil {
		t.Fatalf("edit material: %v", err)
	}
	if _, err := Run(ctx, database, cfg); err != nil {
		t.Fatalf("rerun seed: %v", err)
	}

	var rate float64
	if err := database.QueryRow(`SELECT rate_per_sqft FROM materials WHERE org_id = ? AND code = ?`, "shop-north", "avery1105").Scan(&rate); err != nil {
		t.Fatalf("query rate: %v", err)
	}
	if rate != 2.35 {
		t.Fatalf("rate = %v, want edited 2.35", rate)
	}
}

func assertCount(t *testing.T, database *sql.DB, query string, args any, expected int) {
	t.Helper()

	var count int
	var err error
	switch v := args.(type) {
	case nil:
		err = database.QueryRow(query).Scan(&count)
	case []any:
		err = database.QueryRow(query, v...).Scan(&count)
	default:
		err = database.QueryRow(query, v).Scan(&count)
	}
	if err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != expected {
		t.Fatalf("expected count %d, got %d", expected, count)
	}
}
