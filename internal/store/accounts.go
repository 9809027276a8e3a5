package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/simonvc/lbcoa/internal/ledger"
)

const accountColumns = `id, company, account_number, account_name, COALESCE(parent_id, ''), is_group, root_type,
	report_type, account_type, currency, tax_rate, lft, rgt, created_at`

// CreateAccount inserts acct. An empty ID is filled in with the host naming scheme
// using the owning company's abbreviation. ignoreMandatory relaxes validation the way
// a chart import does for its root accounts.
func (s *Store) CreateAccount(ctx context.Context, acct *ledger.Account, ignoreMandatory bool) error {
	if acct.ReportType == "" && acct.RootType != "" {
		acct.ReportType = ledger.ReportTypeFor(acct.RootType)
	}
	if err := acct.Validate(ignoreMandatory); err != nil {
		return err
	}

	if acct.ID == "" {
		abbr, err := s.companyAbbr(ctx, acct.Company)
		if err != nil {
			return err
		}
		acct.ID = ledger.AccountID(acct.AccountNumber, acct.AccountName, abbr)
	}

	exists, err := s.AccountExists(ctx, acct.ID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ledger.ErrDuplicateAccount, acct.ID)
	}
	if acct.AccountNumber != "" {
		taken, err := s.FindAccount(ctx, AccountFilter{Company: acct.Company, AccountNumber: acct.AccountNumber})
		if err != nil && !errors.Is(err, ledger.ErrAccountNotFound) {
			return err
		}
		if taken != nil {
			return fmt.Errorf("%w: number %s is used by %s", ledger.ErrDuplicateAccount, acct.AccountNumber, taken.ID)
		}
	}

	if acct.CreatedAt.IsZero() {
		acct.CreatedAt = time.Now().UTC()
	}

	_, err = s.writes(ctx).ExecContext(ctx,
		`INSERT INTO accounts (id, company, account_number, account_name, parent_id, is_group, root_type,
			report_type, account_type, currency, tax_rate, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		acct.ID, acct.Company, acct.AccountNumber, acct.AccountName, nullString(acct.ParentID),
		boolToInt(acct.IsGroup), string(acct.RootType), string(acct.ReportType), string(acct.AccountType),
		acct.Currency, nullDecimal(acct.TaxRate), acct.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert account %s: %w", acct.ID, err)
	}
	return nil
}

func (s *Store) GetAccount(ctx context.Context, id string) (*ledger.Account, error) {
	row := s.reads(ctx).QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	acct, err := scanAccount(row)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return nil, fmt.Errorf("%w: %s", ledger.ErrAccountNotFound, id)
	}
	return acct, err
}

func (s *Store) AccountExists(ctx context.Context, id string) (bool, error) {
	var n int
	if err := s.reads(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts WHERE id = ?`, id).Scan(&n); err != nil {
		return false, fmt.Errorf("check account: %w", err)
	}
	return n > 0, nil
}

// FindAccount returns the earliest-created account matching filter.
func (s *Store) FindAccount(ctx context.Context, filter AccountFilter) (*ledger.Account, error) {
	filter.Limit = 1
	filter.Offset = 0
	accounts, err := s.ListAccounts(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, ledger.ErrAccountNotFound
	}
	return &accounts[0], nil
}

// ListAccounts returns matching accounts in creation order.
func (s *Store) ListAccounts(ctx context.Context, filter AccountFilter) ([]ledger.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE 1=1`
	args := []any{}

	if filter.Company != "" {
		query += ` AND company = ?`
		args = append(args, filter.Company)
	}
	if filter.AccountNumber != "" {
		query += ` AND account_number = ?`
		args = append(args, filter.AccountNumber)
	}
	if filter.AccountName != "" {
		query += ` AND account_name = ?`
		args = append(args, filter.AccountName)
	}
	if filter.AccountType != "" {
		query += ` AND account_type = ?`
		args = append(args, string(filter.AccountType))
	}
	if filter.RootType != "" {
		query += ` AND root_type = ?`
		args = append(args, string(filter.RootType))
	}
	if filter.ParentID != nil {
		if *filter.ParentID == "" {
			query += ` AND parent_id IS NULL`
		} else {
			query += ` AND parent_id = ?`
			args = append(args, *filter.ParentID)
		}
	}
	if filter.IsGroup != nil {
		query += ` AND is_group = ?`
		args = append(args, boolToInt(*filter.IsGroup))
	}

	query += ` ORDER BY rowid`

	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, filter.Limit)
		if filter.Offset > 0 {
			query += fmt.Sprintf(` OFFSET %d`, filter.Offset)
		}
	}

	rows, err := s.reads(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []ledger.Account
	for rows.Next() {
		acct, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *acct)
	}
	return accounts, rows.Err()
}

// AccountUpdate names the classification fields a reconciliation may rewrite.
// Nil fields are left untouched.
type AccountUpdate struct {
	AccountType *ledger.AccountType
	RootType    *ledger.RootType
	ReportType  *ledger.ReportType
}

func (u AccountUpdate) Empty() bool {
	return u.AccountType == nil && u.RootType == nil && u.ReportType == nil
}

// UpdateAccount writes only the fields set in u.
func (s *Store) UpdateAccount(ctx context.Context, id string, u AccountUpdate) error {
	if u.Empty() {
		return nil
	}

	var sets []string
	var args []any
	if u.AccountType != nil {
		sets = append(sets, "account_type = ?")
		args = append(args, string(*u.AccountType))
	}
	if u.RootType != nil {
		if !ledger.ValidRootType(*u.RootType) {
			return fmt.Errorf("%w: %s", ledger.ErrInvalidRootType, *u.RootType)
		}
		sets = append(sets, "root_type = ?")
		args = append(args, string(*u.RootType))
	}
	if u.ReportType != nil {
		sets = append(sets, "report_type = ?")
		args = append(args, string(*u.ReportType))
	}
	args = append(args, id)

	res, err := s.writes(ctx).ExecContext(ctx,
		`UPDATE accounts SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update account %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ledger.ErrAccountNotFound, id)
	}
	return nil
}

func (s *Store) CountAccounts(ctx context.Context, company string) (int, error) {
	var n int
	if err := s.reads(ctx).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM accounts WHERE company = ?`, company).Scan(&n); err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*ledger.Account, error) {
	var acct ledger.Account
	var isGroup int
	var taxRate sql.NullString
	var createdAt string
	err := row.Scan(&acct.ID, &acct.Company, &acct.AccountNumber, &acct.AccountName, &acct.ParentID,
		&isGroup, &acct.RootType, &acct.ReportType, &acct.AccountType, &acct.Currency, &taxRate,
		&acct.Lft, &acct.Rgt, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan account: %w", err)
	}
	acct.IsGroup = isGroup == 1
	if taxRate.Valid {
		rate, err := decimal.NewFromString(taxRate.String)
		if err != nil {
			return nil, fmt.Errorf("scan account %s tax rate: %w", acct.ID, err)
		}
		acct.TaxRate = &rate
	}
	acct.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return &acct, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullDecimal(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}
