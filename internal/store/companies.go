package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/simonvc/lbcoa/internal/ledger"
)

func (s *Store) CreateCompany(ctx context.Context, c *ledger.Company) error {
	if err := c.Validate(); err != nil {
		return err
	}

	exists, err := s.CompanyExists(ctx, c.Name)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ledger.ErrDuplicateCompany, c.Name)
	}

	var abbrTaken int
	if err := s.reads(ctx).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM companies WHERE abbr = ?`, c.Abbr).Scan(&abbrTaken); err != nil {
		return fmt.Errorf("check abbreviation: %w", err)
	}
	if abbrTaken > 0 {
		return fmt.Errorf("%w: abbreviation %s is taken", ledger.ErrDuplicateCompany, c.Abbr)
	}

	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	_, err = s.writes(ctx).ExecContext(ctx,
		`INSERT INTO companies (name, abbr, country, default_currency, chart_of_accounts, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		c.Name, c.Abbr, c.Country, c.DefaultCurrency, c.ChartOfAccounts, c.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert company: %w", err)
	}

	if len(c.Defaults) > 0 {
		return s.SetCompanyDefaults(ctx, c.Name, c.Defaults)
	}
	return nil
}

// UpdateCompany rewrites the mutable company fields. Defaults are left alone.
func (s *Store) UpdateCompany(ctx context.Context, c *ledger.Company) error {
	if err := c.Validate(); err != nil {
		return err
	}
	res, err := s.writes(ctx).ExecContext(ctx,
		`UPDATE companies SET country = ?, default_currency = ?, chart_of_accounts = ? WHERE name = ?`,
		c.Country, c.DefaultCurrency, c.ChartOfAccounts, c.Name,
	)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ledger.ErrCompanyNotFound, c.Name)
	}
	return nil
}

func (s *Store) GetCompany(ctx context.Context, name string) (*ledger.Company, error) {
	row := s.reads(ctx).QueryRowContext(ctx,
		`SELECT name, abbr, country, default_currency, chart_of_accounts, created_at FROM companies WHERE name = ?`, name)

	var c ledger.Company
	var createdAt string
	err := row.Scan(&c.Name, &c.Abbr, &c.Country, &c.DefaultCurrency, &c.ChartOfAccounts, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ledger.ErrCompanyNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("scan company: %w", err)
	}
	c.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)

	c.Defaults, err = s.GetCompanyDefaults(ctx, name)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) ListCompanies(ctx context.Context) ([]ledger.Company, error) {
	rows, err := s.reads(ctx).QueryContext(ctx,
		`SELECT name, abbr, country, default_currency, chart_of_accounts, created_at FROM companies ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var companies []ledger.Company
	for rows.Next() {
		var c ledger.Company
		var createdAt string
		if err := rows.Scan(&c.Name, &c.Abbr, &c.Country, &c.DefaultCurrency, &c.ChartOfAccounts, &createdAt); err != nil {
			return nil, fmt.Errorf("scan company row: %w", err)
		}
		c.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

func (s *Store) CompanyExists(ctx context.Context, name string) (bool, error) {
	var n int
	err := s.reads(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM companies WHERE name = ?`, name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check company: %w", err)
	}
	return n > 0, nil
}

// CountCompanies is used by the setup wizard to tell a fresh install from a re-run.
func (s *Store) CountCompanies(ctx context.Context) (int, error) {
	var n int
	if err := s.reads(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM companies`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count companies: %w", err)
	}
	return n, nil
}

// SetCompanyDefaults upserts every non-empty field of d. Fields absent from d keep
// their current value.
func (s *Store) SetCompanyDefaults(ctx context.Context, company string, d ledger.Defaults) error {
	q := s.writes(ctx)
	for _, field := range d.Fields() {
		value := d[field]
		if value == "" {
			continue
		}
		_, err := q.ExecContext(ctx,
			`INSERT INTO company_defaults (company, field, value) VALUES (?, ?, ?)
			 ON CONFLICT(company, field) DO UPDATE SET value = excluded.value`,
			company, field, value,
		)
		if err != nil {
			return fmt.Errorf("set default %s: %w", field, err)
		}
	}
	return nil
}

func (s *Store) GetCompanyDefaults(ctx context.Context, company string) (ledger.Defaults, error) {
	rows, err := s.reads(ctx).QueryContext(ctx,
		`SELECT field, value FROM company_defaults WHERE company = ? ORDER BY field`, company)
	if err != nil {
		return nil, fmt.Errorf("get company defaults: %w", err)
	}
	defer rows.Close()

	d := ledger.Defaults{}
	for rows.Next() {
		var field, value string
		if err := rows.Scan(&field, &value); err != nil {
			return nil, fmt.Errorf("scan company default: %w", err)
		}
		d[field] = value
	}
	return d, rows.Err()
}
