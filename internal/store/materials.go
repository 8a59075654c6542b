package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/wrapworks/estimator/internal/catalog"
)

// ErrDuplicateCode is returned when an org already has a material with the
// same code.
var ErrDuplicateCode = errors.New("material code already exists")

// Material is an organization's film with its cost per square foot.
type Material struct {
	ID     int64   `json:"id"`
	Code   string  `json:"code"`
	Name   string  `json:"name"`
	Rate   float64 `json:"rate"`
	Notes  string  `json:"notes"`
	Active bool    `json:"active"`
}

// Validate checks the fields a material must carry.
func (m Material) Validate() error {
	var problems []string
	if strings.TrimSpace(m.Code) == "" {
		problems = append(problems, "code is required")
	}
	if strings.TrimSpace(m.Name) == "" {
		problems = append(problems, "name is required")
	}
	if m.Rate <= 0 {
		problems = append(problems, "rate must be greater than 0")
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// ListMaterials returns the org's materials, newest first.
func (s *Store) ListMaterials(ctx context.Context, orgID string, activeOnly bool) ([]Material, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, code, name, rate_per_sqft, COALESCE(notes, ''), active
		FROM materials
		WHERE org_id = ? AND (? = FALSE OR active = TRUE)
		ORDER BY id DESC
	`, orgID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("query materials: %w", err)
	}
	defer rows.Close()

	materials := make([]Material, 0)
	for rows.Next() {
		var m Material
		if err := rows.Scan(&m.ID, &m.Code, &m.Name, &m.Rate, &m.Notes, &m.Active); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		materials = append(materials, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate materials: %w", err)
	}

	return materials, nil
}

// CreateMaterial inserts an active material and returns it with its id.
func (s *Store) CreateMaterial(ctx context.Context, orgID string, m Material) (Material, error) {
	if err := m.Validate(); err != nil {
		return Material{}, err
	}
	m.Code = strings.TrimSpace(m.Code)
	m.Name = strings.TrimSpace(m.Name)
	m.Notes = strings.TrimSpace(m.Notes)
	m.Active = true

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO materials (org_id, code, name, rate_per_sqft, notes, active)
		VALUES (?, ?, ?, ?, ?, TRUE)
	`, orgID, m.Code, m.Name, m.Rate, m.Notes)
	if isUniqueViolation(err) {
		return Material{}, fmt.Errorf("%w: %s", ErrDuplicateCode, m.Code)
	}
	if err != nil {
		return Material{}, fmt.Errorf("insert material: %w", err)
	}
	if m.ID, err = result.LastInsertId(); err != nil {
		return Material{}, fmt.Errorf("insert material: %w", err)
	}
	return m, nil
}

// UpdateMaterial overwrites the material with m.ID.
func (s *Store) UpdateMaterial(ctx context.Context, orgID string, m Material) error {
	if err := m.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE materials
		SET
			code = ?,
			name = ?,
			rate_per_sqft = ?,
			notes = ?,
			active = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND org_id = ?
	`, strings.TrimSpace(m.Code), strings.TrimSpace(m.Name), m.Rate, strings.TrimSpace(m.Notes), m.Active, m.ID, orgID)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", ErrDuplicateCode, m.Code)
	}
	if err != nil {
		return fmt.Errorf("update material: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update material: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: material %d", ErrNotFound, m.ID)
	}
	return nil
}

// Catalog returns base with its material table replaced by the org's active
// materials. Orgs with none configured keep the built-in table.
func (s *Store) Catalog(ctx context.Context, orgID string, base *catalog.Catalog) (*catalog.Catalog, error) {
	materials, err := s.ListMaterials(ctx, orgID, true)
	if err != nil {
		return nil, err
	}
	if len(materials) == 0 {
		return base, nil
	}
	ms := make([]catalog.Material, 0, len(materials))
	for _, m := range materials {
		ms = append(ms, catalog.Material{ID: m.Code, Name: m.Name, Rate: m.Rate})
	}
	return base.WithMaterials(ms), nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
