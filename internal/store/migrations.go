package store

import (
	"context"
	"database/sql"
	"fmt"
)

func (s *Store) migrate(ctx context.Context) error {
	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Create schema version table
	if _, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	var version int
	err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	if version < 1 {
		if err := migrateV1(ctx, tx); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return tx.Commit()
}

func migrateV1(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		// Companies and their configuration fields
		`CREATE TABLE IF NOT EXISTS companies (
			name              TEXT PRIMARY KEY,
			abbr              TEXT NOT NULL UNIQUE,
			country           TEXT NOT NULL DEFAULT '',
			default_currency  TEXT NOT NULL DEFAULT '',
			chart_of_accounts TEXT NOT NULL DEFAULT '',
			created_at        TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		)`,
		`CREATE TABLE IF NOT EXISTS company_defaults (
			company TEXT NOT NULL REFERENCES companies(name) ON DELETE CASCADE,
			field   TEXT NOT NULL,
			value   TEXT NOT NULL,
			PRIMARY KEY (company, field)
		)`,

		// Accounts, a nested set per company
		`CREATE TABLE IF NOT EXISTS accounts (
			id             TEXT PRIMARY KEY,
			company        TEXT NOT NULL REFERENCES companies(name) ON DELETE CASCADE,
			account_number TEXT NOT NULL DEFAULT '',
			account_name   TEXT NOT NULL,
			parent_id      TEXT REFERENCES accounts(id),
			is_group       INTEGER NOT NULL DEFAULT 0,
			root_type      TEXT NOT NULL DEFAULT '' CHECK (root_type IN ('','Asset','Liability','Equity','Income','Expense')),
			report_type    TEXT NOT NULL DEFAULT '',
			account_type   TEXT NOT NULL DEFAULT '',
			currency       TEXT NOT NULL DEFAULT '',
			tax_rate       TEXT,
			lft            INTEGER NOT NULL DEFAULT 0,
			rgt            INTEGER NOT NULL DEFAULT 0,
			created_at     TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_number ON accounts(company, account_number) WHERE account_number != ''`,
		`CREATE INDEX IF NOT EXISTS idx_accounts_company_name ON accounts(company, account_name)`,
		`CREATE INDEX IF NOT EXISTS idx_accounts_parent ON accounts(parent_id)`,

		// Cost centers
		`CREATE TABLE IF NOT EXISTS cost_centers (
			id               TEXT PRIMARY KEY,
			cost_center_name TEXT NOT NULL,
			company          TEXT NOT NULL REFERENCES companies(name) ON DELETE CASCADE,
			parent_id        TEXT REFERENCES cost_centers(id),
			is_group         INTEGER NOT NULL DEFAULT 0,
			created_at       TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cost_centers_company ON cost_centers(company)`,

		// Warehouses and warehouse types
		`CREATE TABLE IF NOT EXISTS warehouse_types (
			name       TEXT PRIMARY KEY,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		)`,
		`CREATE TABLE IF NOT EXISTS warehouses (
			id             TEXT PRIMARY KEY,
			warehouse_name TEXT NOT NULL,
			company        TEXT NOT NULL REFERENCES companies(name) ON DELETE CASCADE,
			parent_id      TEXT REFERENCES warehouses(id),
			is_group       INTEGER NOT NULL DEFAULT 0,
			warehouse_type TEXT REFERENCES warehouse_types(name),
			created_at     TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_warehouses_company ON warehouses(company, warehouse_name)`,

		// Sales and purchase tax templates
		`CREATE TABLE IF NOT EXISTS tax_templates (
			id         TEXT PRIMARY KEY,
			title      TEXT NOT NULL,
			company    TEXT NOT NULL REFERENCES companies(name) ON DELETE CASCADE,
			kind       TEXT NOT NULL CHECK (kind IN ('Sales','Purchase')),
			is_default INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
			UNIQUE (title, company, kind)
		)`,
		`CREATE TABLE IF NOT EXISTS tax_template_rows (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			template_id TEXT NOT NULL REFERENCES tax_templates(id) ON DELETE CASCADE,
			account_id  TEXT NOT NULL REFERENCES accounts(id),
			rate        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tax_rows_template ON tax_template_rows(template_id)`,

		// Site-wide settings written by the setup wizard
		`CREATE TABLE IF NOT EXISTS settings (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Record schema version
		`INSERT INTO schema_version (version) VALUES (1)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", head(stmt), err)
		}
	}
	return nil
}

func head(stmt string) string {
	if len(stmt) > 60 {
		return stmt[:60]
	}
	return stmt
}
