package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/simonvc/lbcoa/internal/ledger"
)

func (s *Store) CreateCostCenter(ctx context.Context, cc *ledger.CostCenter) error {
	if cc.CostCenterName == "" || cc.Company == "" {
		return fmt.Errorf("%w: cost center needs a name and a company", ledger.ErrInvalidCompany)
	}
	if cc.ID == "" {
		abbr, err := s.companyAbbr(ctx, cc.Company)
		if err != nil {
			return err
		}
		cc.ID = ledger.CompanyScopedName(cc.CostCenterName, abbr)
	}
	if cc.CreatedAt.IsZero() {
		cc.CreatedAt = time.Now().UTC()
	}

	_, err := s.writes(ctx).ExecContext(ctx,
		`INSERT INTO cost_centers (id, cost_center_name, company, parent_id, is_group, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		cc.ID, cc.CostCenterName, cc.Company, nullString(cc.ParentID), boolToInt(cc.IsGroup), cc.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert cost center %s: %w", cc.ID, err)
	}
	return nil
}

func (s *Store) CostCenterExists(ctx context.Context, id string) (bool, error) {
	var n int
	if err := s.reads(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM cost_centers WHERE id = ?`, id).Scan(&n); err != nil {
		return false, fmt.Errorf("check cost center: %w", err)
	}
	return n > 0, nil
}

// FindCostCenter returns the earliest-created cost center matching filter.
func (s *Store) FindCostCenter(ctx context.Context, filter CostCenterFilter) (*ledger.CostCenter, error) {
	query := `SELECT id, cost_center_name, company, COALESCE(parent_id, ''), is_group, created_at FROM cost_centers WHERE 1=1`
	args := []any{}
	if filter.Company != "" {
		query += ` AND company = ?`
		args = append(args, filter.Company)
	}
	if filter.ID != "" {
		query += ` AND id = ?`
		args = append(args, filter.ID)
	}
	if filter.CostCenterName != "" {
		query += ` AND cost_center_name = ?`
		args = append(args, filter.CostCenterName)
	}
	if filter.IsGroup != nil {
		query += ` AND is_group = ?`
		args = append(args, boolToInt(*filter.IsGroup))
	}
	query += ` ORDER BY rowid LIMIT 1`

	var cc ledger.CostCenter
	var isGroup int
	var createdAt string
	err := s.reads(ctx).QueryRowContext(ctx, query, args...).Scan(
		&cc.ID, &cc.CostCenterName, &cc.Company, &cc.ParentID, &isGroup, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrCostCenterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find cost center: %w", err)
	}
	cc.IsGroup = isGroup == 1
	cc.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return &cc, nil
}

func (s *Store) ListCostCenters(ctx context.Context, company string) ([]ledger.CostCenter, error) {
	rows, err := s.reads(ctx).QueryContext(ctx,
		`SELECT id, cost_center_name, company, COALESCE(parent_id, ''), is_group, created_at
		 FROM cost_centers WHERE company = ? ORDER BY rowid`, company)
	if err != nil {
		return nil, fmt.Errorf("list cost centers: %w", err)
	}
	defer rows.Close()

	var out []ledger.CostCenter
	for rows.Next() {
		var cc ledger.CostCenter
		var isGroup int
		var createdAt string
		if err := rows.Scan(&cc.ID, &cc.CostCenterName, &cc.Company, &cc.ParentID, &isGroup, &createdAt); err != nil {
			return nil, fmt.Errorf("scan cost center: %w", err)
		}
		cc.IsGroup = isGroup == 1
		cc.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, cc)
	}
	return out, rows.Err()
}

func (s *Store) CreateWarehouse(ctx context.Context, w *ledger.Warehouse) error {
	if w.WarehouseName == "" || w.Company == "" {
		return fmt.Errorf("%w: warehouse needs a name and a company", ledger.ErrInvalidCompany)
	}
	if w.ID == "" {
		abbr, err := s.companyAbbr(ctx, w.Company)
		if err != nil {
			return err
		}
		w.ID = ledger.CompanyScopedName(w.WarehouseName, abbr)
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now().UTC()
	}

	_, err := s.writes(ctx).ExecContext(ctx,
		`INSERT INTO warehouses (id, warehouse_name, company, parent_id, is_group, warehouse_type, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.WarehouseName, w.Company, nullString(w.ParentID), boolToInt(w.IsGroup), nullString(w.WarehouseType),
		w.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert warehouse %s: %w", w.ID, err)
	}
	return nil
}

// FindWarehouse returns the earliest-created warehouse matching filter.
func (s *Store) FindWarehouse(ctx context.Context, filter WarehouseFilter) (*ledger.Warehouse, error) {
	query := `SELECT id, warehouse_name, company, COALESCE(parent_id, ''), is_group, COALESCE(warehouse_type, ''), created_at
		FROM warehouses WHERE 1=1`
	args := []any{}
	if filter.Company != "" {
		query += ` AND company = ?`
		args = append(args, filter.Company)
	}
	if filter.WarehouseName != "" {
		query += ` AND warehouse_name = ?`
		args = append(args, filter.WarehouseName)
	}
	if filter.IsGroup != nil {
		query += ` AND is_group = ?`
		args = append(args, boolToInt(*filter.IsGroup))
	}
	query += ` ORDER BY rowid LIMIT 1`

	w, err := scanWarehouse(s.reads(ctx).QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrWarehouseNotFound
	}
	return w, err
}

func (s *Store) ListWarehouses(ctx context.Context, company string) ([]ledger.Warehouse, error) {
	rows, err := s.reads(ctx).QueryContext(ctx,
		`SELECT id, warehouse_name, company, COALESCE(parent_id, ''), is_group, COALESCE(warehouse_type, ''), created_at
		 FROM warehouses WHERE company = ? ORDER BY rowid`, company)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()

	var out []ledger.Warehouse
	for rows.Next() {
		w, err := scanWarehouse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *w)
	}
	return out, rows.Err()
}

func scanWarehouse(row rowScanner) (*ledger.Warehouse, error) {
	var w ledger.Warehouse
	var isGroup int
	var createdAt string
	err := row.Scan(&w.ID, &w.WarehouseName, &w.Company, &w.ParentID, &isGroup, &w.WarehouseType, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan warehouse: %w", err)
	}
	w.IsGroup = isGroup == 1
	w.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return &w, nil
}

// EnsureWarehouseType creates the named warehouse type if it does not exist yet.
func (s *Store) EnsureWarehouseType(ctx context.Context, name string) error {
	_, err := s.writes(ctx).ExecContext(ctx, `INSERT OR IGNORE INTO warehouse_types (name) VALUES (?)`, name)
	if err != nil {
		return fmt.Errorf("ensure warehouse type %s: %w", name, err)
	}
	return nil
}

func (s *Store) ListWarehouseTypes(ctx context.Context) ([]string, error) {
	rows, err := s.reads(ctx).QueryContext(ctx, `SELECT name FROM warehouse_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list warehouse types: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan warehouse type: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *Store) companyAbbr(ctx context.Context, company string) (string, error) {
	var abbr string
	err := s.reads(ctx).QueryRowContext(ctx, `SELECT abbr FROM companies WHERE name = ?`, company).Scan(&abbr)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ledger.ErrCompanyNotFound, company)
	}
	if err != nil {
		return "", fmt.Errorf("read company abbreviation: %w", err)
	}
	return abbr, nil
}
