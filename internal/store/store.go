// Package store persists estimates and per-organization materials in SQLite.
//
// Line items are stored as their inputs. The last computed calc and the
// estimate totals are written alongside as a snapshot for listings, but
// loading an estimate always reprices from the inputs.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/wrapworks/estimator/internal/aggregate"
	"github.com/wrapworks/estimator/internal/catalog"
	"github.com/wrapworks/estimator/internal/estimate"
	"github.com/wrapworks/estimator/internal/proposal"
)

var ErrNotFound = errors.New("not found")

// Store wraps a migrated database.
type Store struct {
	db *sql.DB
}

// New returns a Store over db.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Summary is one row of an estimate listing.
type Summary struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Items     int              `json:"items"`
	Totals    aggregate.Totals `json:"totals"`
	CreatedAt string           `json:"created_at"`
	UpdatedAt string           `json:"updated_at"`
}

// SaveEstimate writes the estimate, replacing any previous version.
func (s *Store) SaveEstimate(ctx context.Context, orgID string, e *estimate.Estimate) error {
	if e.OrgID != orgID {
		return fmt.Errorf("save estimate %s: belongs to another organization", e.ID)
	}

	totalsJSON, err := json.Marshal(e.Totals())
	if err != nil {
		return fmt.Errorf("marshal totals: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var owner string
	err = tx.QueryRowContext(ctx, `SELECT org_id FROM estimates WHERE id = ?`, e.ID).Scan(&owner)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO estimates (id, org_id, name, totals_json)
			VALUES (?, ?, ?, ?)
		`, e.ID, orgID, e.Name, string(totalsJSON)); err != nil {
			return fmt.Errorf("insert estimate: %w", err)
		}
	case err != nil:
		return fmt.Errorf("check estimate owner: %w", err)
	case owner != orgID:
		return fmt.Errorf("%w: estimate %s", ErrNotFound, e.ID)
	default:
		if _, err := tx.ExecContext(ctx, `
			UPDATE estimates
			SET name = ?, totals_json = ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`, e.Name, string(totalsJSON), e.ID); err != nil {
			return fmt.Errorf("update estimate: %w", err)
		}
	}

	if err := clearChildren(ctx, tx, e.ID); err != nil {
		return err
	}

	for i, v := range e.Views() {
		inputs, err := json.Marshal(v.Item)
		if err != nil {
			return fmt.Errorf("marshal line item %s: %w", v.Item.ID, err)
		}
		calc, err := json.Marshal(v.Calc)
		if err != nil {
			return fmt.Errorf("marshal calc %s: %w", v.Item.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO line_items (estimate_id, id, position, product_type, name, optional, inputs_json, calc_json)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, e.ID, v.Item.ID, i, string(v.Item.ProductType()), v.Item.Name, v.Item.Optional, string(inputs), string(calc)); err != nil {
			return fmt.Errorf("insert line item %s: %w", v.Item.ID, err)
		}
	}

	for i, p := range e.Proposals().List() {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO proposals (estimate_id, id, position, label)
			VALUES (?, ?, ?, ?)
		`, e.ID, p.ID, i, p.Label); err != nil {
			return fmt.Errorf("insert proposal %s: %w", p.ID, err)
		}
		for j, itemID := range p.Members {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO proposal_items (estimate_id, proposal_id, line_item_id, position)
				VALUES (?, ?, ?, ?)
			`, e.ID, p.ID, itemID, j); err != nil {
				return fmt.Errorf("insert proposal member %s/%s: %w", p.ID, itemID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save transaction: %w", err)
	}
	return nil
}

// LoadEstimate reads an estimate back and reprices it against cat.
func (s *Store) LoadEstimate(ctx context.Context, orgID, id string, cat *catalog.Catalog, opts ...estimate.Option) (*estimate.Estimate, error) {
	snap := estimate.Snapshot{ID: id, OrgID: orgID}
	err := s.db.QueryRowContext(ctx, `
		SELECT name FROM estimates WHERE id = ? AND org_id = ?
	`, id, orgID).Scan(&snap.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: estimate %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query estimate: %w", err)
	}

	if snap.Items, err = s.loadItems(ctx, id); err != nil {
		return nil, err
	}
	if snap.Proposals, err = s.loadProposals(ctx, id); err != nil {
		return nil, err
	}

	e, err := estimate.Restore(snap, cat, opts...)
	if err != nil {
		return nil, fmt.Errorf("restore estimate %s: %w", id, err)
	}
	return e, nil
}

func (s *Store) loadItems(ctx context.Context, estimateID string) ([]estimate.LineItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, inputs_json
		FROM line_items
		WHERE estimate_id = ?
		ORDER BY position
	`, estimateID)
	if err != nil {
		return nil, fmt.Errorf("query line items: %w", err)
	}
	defer rows.Close()

	items := make([]estimate.LineItem, 0)
	for rows.Next() {
		var (
			id     string
			inputs string
			li     estimate.LineItem
		)
		if err := rows.Scan(&id, &inputs); err != nil {
			return nil, fmt.Errorf("scan line item: %w", err)
		}
		if err := json.Unmarshal([]byte(inputs), &li); err != nil {
			return nil, fmt.Errorf("decode line item %s: %w", id, err)
		}
		li.ID = id
		items = append(items, li)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate line items: %w", err)
	}
	return items, nil
}

func (s *Store) loadProposals(ctx context.Context, estimateID string) ([]proposal.Proposal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.label, COALESCE(pi.line_item_id, '')
		FROM proposals p
		LEFT JOIN proposal_items pi
			ON pi.estimate_id = p.estimate_id AND pi.proposal_id = p.id
		WHERE p.estimate_id = ?
		ORDER BY p.position, pi.position
	`, estimateID)
	if err != nil {
		return nil, fmt.Errorf("query proposals: %w", err)
	}
	defer rows.Close()

	proposals := make([]proposal.Proposal, 0)
	for rows.Next() {
		var id, label, itemID string
		if err := rows.Scan(&id, &label, &itemID); err != nil {
			return nil, fmt.Errorf("scan proposal: %w", err)
		}
		if n := len(proposals); n == 0 || proposals[n-1].ID != id {
			proposals = append(proposals, proposal.Proposal{ID: id, Label: label, Members: []string{}})
		}
		if itemID != "" {
			last := &proposals[len(proposals)-1]
			last.Members = append(last.Members, itemID)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate proposals: %w", err)
	}
	return proposals, nil
}

// ListEstimates returns the org's estimates, newest first, optionally
// filtered by a name fragment. Totals come from the last save.
func (s *Store) ListEstimates(ctx context.Context, orgID, query string) ([]Summary, error) {
	search := "%" + likeEscaper.Replace(query) + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			e.id,
			e.name,
			e.totals_json,
			e.created_at,
			e.updated_at,
			(SELECT COUNT(*) FROM line_items li WHERE li.estimate_id = e.id)
		FROM estimates e
		WHERE e.org_id = ? AND (? = '' OR e.name LIKE ? ESCAPE '\')
		ORDER BY datetime(e.updated_at) DESC, e.id DESC
	`, orgID, query, search)
	if err != nil {
		return nil, fmt.Errorf("query estimates: %w", err)
	}
	defer rows.Close()

	list := make([]Summary, 0)
	for rows.Next() {
		var (
			sum        Summary
			totalsJSON string
		)
		if err := rows.Scan(&sum.ID, &sum.Name, &totalsJSON, &sum.CreatedAt, &sum.UpdatedAt, &sum.Items); err != nil {
			return nil, fmt.Errorf("scan estimate: %w", err)
		}
		// A bad snapshot only blanks the listing; the estimate itself reprices.
		_ = json.Unmarshal([]byte(totalsJSON), &sum.Totals)
		list = append(list, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate estimates: %w", err)
	}
	return list, nil
}

// likeEscaper makes LIKE wildcards typed by a user match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// DeleteEstimate removes an estimate with its items and proposals.
func (s *Store) DeleteEstimate(ctx context.Context, orgID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `DELETE FROM estimates WHERE id = ? AND org_id = ?`, id, orgID)
	if err != nil {
		return fmt.Errorf("delete estimate: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete estimate: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: estimate %s", ErrNotFound, id)
	}
	if err := clearChildren(ctx, tx, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete transaction: %w", err)
	}
	return nil
}

func clearChildren(ctx context.Context, tx *sql.Tx, estimateID string) error {
	for _, q := range []string{
		`DELETE FROM proposal_items WHERE estimate_id = ?`,
		`DELETE FROM proposals WHERE estimate_id = ?`,
		`DELETE FROM line_items WHERE estimate_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, estimateID); err != nil {
			return fmt.Errorf("clear estimate %s: %w", estimateID, err)
		}
	}
	return nil
}
