package store

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/wrapworks/estimator/internal/catalog"
	"github.com/wrapworks/estimator/internal/db"
	"github.com/wrapworks/estimator/internal/estimate"
	"github.com/wrapworks/estimator/internal/geometry"
	"github.com/wrapworks/estimator/internal/migrations"
)

func newTestStore(t *testing.T) (*Store, *sql.DB) {
	t.Helper()

	ctx := context.Background()
	database, err := db.Open(ctx, filepath.Join(t.TempDir(), "store-test.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if err := migrations.Up(ctx, database, zap.NewNop()); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return New(database), database
}

func buildEstimate(t *testing.T, orgID string) (*estimate.Estimate, string, string) {
	t.Helper()

	e, err := estimate.New(orgID, catalog.Default())
	if err != nil {
		t.Fatalf("estimate.New: %v", err)
	}
	e.Name = "Acme fleet"

	truck, _ := e.AddItem(geometry.BoxTruck)
	if _, err := e.Update(truck.ID, func(li *estimate.LineItem) {
		li.Job = geometry.BoxTruckJob{LengthFt: 20, HeightIn: 96, Left: true, Right: true}
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	ppf, _ := e.AddItem(geometry.PPF)
	if _, err := e.Update(ppf.ID, func(li *estimate.LineItem) {
		li.Job = geometry.PPFJob{Packages: []string{"full_front"}}
		li.Optional = true
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	p := e.Proposals().Create("")
	for _, id := range []string{truck.ID, ppf.ID} {
		if _, err := e.ToggleProposalItem(p.ID, id); err != nil {
			t.Fatalf("ToggleProposalItem: %v", err)
		}
	}
	return e, truck.ID, p.ID
}

func TestSaveAndLoadEstimate(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	e, truckID, proposalID := buildEstimate(t, "org-1")

	if err := s.SaveEstimate(ctx, "org-1", e); err != nil {
		t.Fatalf("SaveEstimate: %v", err)
	}

	loaded, err := s.LoadEstimate(ctx, "org-1", e.ID, catalog.Default())
	if err != nil {
		t.Fatalf("LoadEstimate: %v", err)
	}

	if loaded.Name != "Acme fleet" || len(loaded.Items()) != 2 {
		t.Fatalf("unexpected estimate: %+v", loaded.Snapshot())
	}
	want, _ := e.Calc(truckID)
	got, err := loaded.Calc(truckID)
	if err != nil {
		t.Fatalf("Calc: %v", err)
	}
	if math.Abs(got.SalePrice-want.SalePrice) > 1e-9 {
		t.Fatalf("sale = %v, want %v", got.SalePrice, want.SalePrice)
	}

	wantTotals, _ := e.ProposalTotals(proposalID)
	gotTotals, err := loaded.ProposalTotals(proposalID)
	if err != nil {
		t.Fatalf("ProposalTotals: %v", err)
	}
	if math.Abs(gotTotals.Revenue-wantTotals.Revenue) > 1e-9 || gotTotals.Items != 2 {
		t.Fatalf("proposal totals = %+v, want %+v", gotTotals, wantTotals)
	}
}

func TestLoadEstimate_RepricesInsteadOfTrustingSnapshot(t *testing.T) {
	ctx := context.Background()
	s, database := newTestStore(t)
	e, truckID, _ := buildEstimate(t, "org-1")
	if err := s.SaveEstimate(ctx, "org-1", e); err != nil {
		t.Fatalf("SaveEstimate: %v", err)
	}

	if _, err := database.Exec(`UPDATE line_items SET calc_json = '{"sale_price": 1}' WHERE id = ?`, truckID); err != nil {
		t.Fatalf("tamper calc: %v", err)
	}

	loaded, err := s.LoadEstimate(ctx, "org-1", e.ID, catalog.Default())
	if err != nil {
		t.Fatalf("LoadEstimate: %v", err)
	}
	want, _ := e.Calc(truckID)
	got, _ := loaded.Calc(truckID)
	if math.Abs(got.SalePrice-want.SalePrice) > 1e-9 {
		t.Fatalf("sale = %v, want recomputed %v", got.SalePrice, want.SalePrice)
	}
}

func TestRemovedItemLeavesDanglingMembership(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	e, truckID, proposalID := buildEstimate(t, "org-1")

	if err := e.Remove(truckID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := s.SaveEstimate(ctx, "org-1", e); err != nil {
		t.Fatalf("SaveEstimate: %v", err)
	}

	loaded, err := s.LoadEstimate(ctx, "org-1", e.ID, catalog.Default())
	if err != nil {
		t.Fatalf("LoadEstimate: %v", err)
	}
	p, err := loaded.Proposals().Get(proposalID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(p.Members) != 2 {
		t.Fatalf("expected stored membership to keep the removed id, got %v", p.Members)
	}
	totals, err := loaded.ProposalTotals(proposalID)
	if err != nil {
		t.Fatalf("ProposalTotals: %v", err)
	}
	if totals.Items != 1 {
		t.Fatalf("expected one live member, got %+v", totals)
	}
}

func TestEstimatesAreScopedByOrg(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	e, _, _ := buildEstimate(t, "org-1")
	if err := s.SaveEstimate(ctx, "org-1", e); err != nil {
		t.Fatalf("SaveEstimate: %v", err)
	}

	if _, err := s.LoadEstimate(ctx, "org-2", e.ID, catalog.Default()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other org, got %v", err)
	}
	if err := s.SaveEstimate(ctx, "org-2", e); err == nil {
		t.Fatalf("expected error saving under the wrong org")
	}
	if err := s.DeleteEstimate(ctx, "org-2", e.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting from other org, got %v", err)
	}

	list, err := s.ListEstimates(ctx, "org-2", "")
	if err != nil {
		t.Fatalf("ListEstimates: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("org-2 sees %d estimates", len(list))
	}
}

func TestListEstimates_FilterAndSnapshotTotals(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	first, _, _ := buildEstimate(t, "org-1")
	if err := s.SaveEstimate(ctx, "org-1", first); err != nil {
		t.Fatalf("SaveEstimate: %v", err)
	}
	second, err := estimate.New("org-1", catalog.Default())
	if err != nil {
		t.Fatalf("estimate.New: %v", err)
	}
	second.Name = "Harbor boats"
	if err := s.SaveEstimate(ctx, "org-1", second); err != nil {
		t.Fatalf("SaveEstimate: %v", err)
	}

	all, err := s.ListEstimates(ctx, "org-1", "")
	if err != nil {
		t.Fatalf("ListEstimates: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 estimates, got %+v", all)
	}

	filtered, err := s.ListEstimates(ctx, "org-1", "Acme")
	if err != nil {
		t.Fatalf("ListEstimates: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Items != 2 {
		t.Fatalf("unexpected filtered list: %+v", filtered)
	}
	if math.Abs(filtered[0].Totals.Revenue-first.Totals().Revenue) > 1e-9 {
		t.Fatalf("snapshot revenue = %v, want %v", filtered[0].Totals.Revenue, first.Totals().Revenue)
	}
}

func TestListEstimates_WildcardsMatchLiterally(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	for _, name := range []string{"Fleet 100% wrap", "Fleet 1000 wrap", "Box_truck", "Boxxtruck"} {
		e, err := estimate.New("org-1", catalog.Default())
		if err != nil {
			t.Fatalf("estimate.New: %v", err)
		}
		e.Name = name
		if err := s.SaveEstimate(ctx, "org-1", e); err != nil {
			t.Fatalf("SaveEstimate: %v", err)
		}
	}

	tests := []struct {
		query string
		want  string
	}{
		{"100%", "Fleet 100% wrap"},
		{"x_t", "Box_truck"},
	}
	for _, tc := range tests {
		list, err := s.ListEstimates(ctx, "org-1", tc.query)
		if err != nil {
			t.Fatalf("ListEstimates(%q): %v", tc.query, err)
		}
		if len(list) != 1 || list[0].Name != tc.want {
			t.Fatalf("ListEstimates(%q) = %+v, want only %q", tc.query, list, tc.want)
		}
	}
}

func TestDeleteEstimate(t *testing.T) {
	ctx := context.Background()
	s, database := newTestStore(t)
	e, _, _ := buildEstimate(t, "org-1")
	if err := s.SaveEstimate(ctx, "org-1", e); err != nil {
		t.Fatalf("SaveEstimate: %v", err)
	}

	if err := s.DeleteEstimate(ctx, "org-1", e.ID); err != nil {
		t.Fatalf("DeleteEstimate: %v", err)
	}
	if _, err := s.LoadEstimate(ctx, "org-1", e.ID, catalog.Default()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	for _, table := range []string{"line_items", "proposals", "proposal_items"} {
		var count int
		if err := database.QueryRow(`SELECT COUNT(*) FROM `+table+` WHERE estimate_id = ?`, e.ID).Scan(&count); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if count != 0 {
			t.Fatalf("%s still has %d rows", table, count)
		}
	}
}

func TestMaterialsCRUDAndCatalogOverlay(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	base := catalog.Default()

	cat, err := s.Catalog(ctx, "org-1", base)
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	if cat != base {
		t.Fatalf("org without materials should use the built-in table")
	}

	if _, err := s.CreateMaterial(ctx, "org-1", Material{Code: "house", Name: ""}); err == nil {
		t.Fatalf("expected validation error")
	}

	m, err := s.CreateMaterial(ctx, "org-1", Material{Code: "house", Name: "House Cast", Rate: 1.75})
	if err != nil {
		t.Fatalf("CreateMaterial: %v", err)
	}
	if m.ID == 0 || !m.Active {
		t.Fatalf("unexpected material: %+v", m)
	}

	if _, err := s.CreateMaterial(ctx, "org-1", Material{Code: "house", Name: "Again", Rate: 2}); !errors.Is(err, ErrDuplicateCode) {
		t.Fatalf("expected ErrDuplicateCode, got %v", err)
	}
	if _, err := s.CreateMaterial(ctx, "org-2", Material{Code: "house", Name: "Other shop", Rate: 2}); err != nil {
		t.Fatalf("same code in another org: %v", err)
	}

	cat, err = s.Catalog(ctx, "org-1", base)
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	if mat, err := cat.Material("house"); err != nil || mat.Rate != 1.75 {
		t.Fatalf("overlay material = %+v, %v", mat, err)
	}

	m.Rate = 1.95
	m.Active = false
	if err := s.UpdateMaterial(ctx, "org-1", m); err != nil {
		t.Fatalf("UpdateMaterial: %v", err)
	}
	active, err := s.ListMaterials(ctx, "org-1", true)
	if err != nil {
		t.Fatalf("ListMaterials: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("expected no active materials, got %+v", active)
	}
	all, _ := s.ListMaterials(ctx, "org-1", false)
	if len(all) != 1 || all[0].Rate != 1.95 {
		t.Fatalf("unexpected materials: %+v", all)
	}

	other := m
	other.ID = 1_000_000
	if err := s.UpdateMaterial(ctx, "org-1", other); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}
	if err := s.UpdateMaterial(ctx, "org-2", m); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound updating from other org, got %v", err)
	}
}
