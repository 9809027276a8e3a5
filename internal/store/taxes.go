package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simonvc/lbcoa/internal/ledger"
)

// CreateTaxTemplate inserts t and its rows in one transaction.
func (s *Store) CreateTaxTemplate(ctx context.Context, t *ledger.TaxTemplate) error {
	if t.Title == "" || t.Company == "" {
		return fmt.Errorf("%w: tax template needs a title and a company", ledger.ErrInvalidCompany)
	}
	if t.ID == "" {
		t.ID = uuid.Must(uuid.NewV7()).String()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	return s.RunInTransaction(ctx, func(ctx context.Context) error {
		q := s.writes(ctx)
		_, err := q.ExecContext(ctx,
			`INSERT INTO tax_templates (id, title, company, kind, is_default, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			t.ID, t.Title, t.Company, string(t.Kind), boolToInt(t.IsDefault), t.CreatedAt.Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("insert tax template: %w", err)
		}
		for i, row := range t.Rows {
			_, err := q.ExecContext(ctx,
				`INSERT INTO tax_template_rows (template_id, account_id, rate, description) VALUES (?, ?, ?, ?)`,
				t.ID, row.AccountID, row.Rate.String(), row.Description,
			)
			if err != nil {
				return fmt.Errorf("insert tax row %d: %w", i, err)
			}
		}
		return nil
	})
}

// FindTaxTemplate looks a template up by its natural key.
func (s *Store) FindTaxTemplate(ctx context.Context, title, company string, kind ledger.TaxKind) (*ledger.TaxTemplate, error) {
	row := s.reads(ctx).QueryRowContext(ctx,
		`SELECT id, title, company, kind, is_default, created_at FROM tax_templates
		 WHERE title = ? AND company = ? AND kind = ?`, title, company, string(kind))
	t, err := scanTaxTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s (%s)", ledger.ErrTaxTemplateNotFound, title, kind)
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadTaxRows(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Store) ListTaxTemplates(ctx context.Context, company string) ([]ledger.TaxTemplate, error) {
	rows, err := s.reads(ctx).QueryContext(ctx,
		`SELECT id, title, company, kind, is_default, created_at FROM tax_templates
		 WHERE company = ? ORDER BY kind, title`, company)
	if err != nil {
		return nil, fmt.Errorf("list tax templates: %w", err)
	}

	var out []ledger.TaxTemplate
	for rows.Next() {
		t, err := scanTaxTemplate(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, *t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		if err := s.loadTaxRows(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Store) loadTaxRows(ctx context.Context, t *ledger.TaxTemplate) error {
	rows, err := s.reads(ctx).QueryContext(ctx,
		`SELECT account_id, rate, description FROM tax_template_rows WHERE template_id = ? ORDER BY id`, t.ID)
	if err != nil {
		return fmt.Errorf("load tax rows: %w", err)
	}
	defer rows.Close()

	t.Rows = nil
	for rows.Next() {
		var r ledger.TaxRow
		var rate string
		if err := rows.Scan(&r.AccountID, &rate, &r.Description); err != nil {
			return fmt.Errorf("scan tax row: %w", err)
		}
		if r.Rate, err = decimal.NewFromString(rate); err != nil {
			return fmt.Errorf("tax row rate %q: %w", rate, err)
		}
		t.Rows = append(t.Rows, r)
	}
	return rows.Err()
}

func scanTaxTemplate(row rowScanner) (*ledger.TaxTemplate, error) {
	var t ledger.TaxTemplate
	var isDefault int
	var createdAt string
	err := row.Scan(&t.ID, &t.Title, &t.Company, &t.Kind, &isDefault, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan tax template: %w", err)
	}
	t.IsDefault = isDefault == 1
	t.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return &t, nil
}
