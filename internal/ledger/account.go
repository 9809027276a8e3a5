package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type RootType string

const (
	RootAsset     RootType = "Asset"
	RootLiability RootType = "Liability"
	RootEquity    RootType = "Equity"
	RootIncome    RootType = "Income"
	RootExpense   RootType = "Expense"
)

var AllRootTypes = []RootType{
	RootAsset,
	RootLiability,
	RootEquity,
	RootIncome,
	RootExpense,
}

type ReportType string

const (
	ReportBalanceSheet  ReportType = "Balance Sheet"
	ReportProfitAndLoss ReportType = "Profit and Loss"
)

// AccountType is the host's functional account classification ("Bank", "Receivable", ...).
type AccountType string

const (
	TypeBank                    AccountType = "Bank"
	TypeCash                    AccountType = "Cash"
	TypeReceivable              AccountType = "Receivable"
	TypePayable                 AccountType = "Payable"
	TypeTax                     AccountType = "Tax"
	TypeStock                   AccountType = "Stock"
	TypeStockAdjustment         AccountType = "Stock Adjustment"
	TypeStockReceivedNotBilled  AccountType = "Stock Received But Not Billed"
	TypeCostOfGoodsSold         AccountType = "Cost of Goods Sold"
	TypeIncomeAccount           AccountType = "Income Account"
	TypeExpenseAccount          AccountType = "Expense Account"
	TypeDepreciation            AccountType = "Depreciation"
	TypeAccumulatedDepreciation AccountType = "Accumulated Depreciation"
	TypeCapitalWorkInProgress   AccountType = "Capital Work in Progress"
	TypeEquity                  AccountType = "Equity"
	TypeFixedAsset              AccountType = "Fixed Asset"
	TypeRoundOff                AccountType = "Round Off"
	TypeTemporary               AccountType = "Temporary"
)

type Account struct {
	ID            string           `json:"id"`
	Company       string           `json:"company"`
	AccountNumber string           `json:"account_number,omitempty"`
	AccountName   string           `json:"account_name"`
	ParentID      string           `json:"parent_account,omitempty"`
	IsGroup       bool             `json:"is_group"`
	RootType      RootType         `json:"root_type"`
	ReportType    ReportType       `json:"report_type"`
	AccountType   AccountType      `json:"account_type,omitempty"`
	Currency      string           `json:"account_currency,omitempty"`
	TaxRate       *decimal.Decimal `json:"tax_rate,omitempty"`
	Lft           int              `json:"lft"`
	Rgt           int              `json:"rgt"`
	CreatedAt     time.Time        `json:"created_at"`
}

// ReportTypeFor derives the report classification from a root type.
// Asset, Liability and Equity land on the balance sheet, everything else on P&L.
func ReportTypeFor(root RootType) ReportType {
	switch root {
	case RootAsset, RootLiability, RootEquity:
		return ReportBalanceSheet
	default:
		return ReportProfitAndLoss
	}
}

// ValidRootType checks if a root type string is valid.
func ValidRootType(root RootType) bool {
	for _, r := range AllRootTypes {
		if r == root {
			return true
		}
	}
	return false
}

// ParseRootType accepts the canonical spelling in any case.
func ParseRootType(s string) (RootType, error) {
	for _, r := range AllRootTypes {
		if strings.EqualFold(string(r), strings.TrimSpace(s)) {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRootType, s)
}

// Validate checks account invariants. Mandatory-field checks (currency, root type on
// nested accounts) are skipped when ignoreMandatory is set, mirroring how the first pass
// of a chart import inserts its root accounts.
func (a *Account) Validate(ignoreMandatory bool) error {
	if strings.TrimSpace(a.AccountName) == "" {
		return fmt.Errorf("%w: account name is required", ErrInvalidAccount)
	}
	if a.Company == "" {
		return fmt.Errorf("%w: company is required", ErrInvalidAccount)
	}
	if a.RootType != "" && !ValidRootType(a.RootType) {
		return fmt.Errorf("%w: %s", ErrInvalidRootType, a.RootType)
	}
	if a.RootType != "" && a.ReportType != "" && a.ReportType != ReportTypeFor(a.RootType) && !ignoreMandatory {
		return fmt.Errorf("%w: %s account cannot report on %s", ErrReportTypeMismatch, a.RootType, a.ReportType)
	}
	if ignoreMandatory {
		return nil
	}
	if a.RootType == "" {
		return fmt.Errorf("%w: root type is required", ErrInvalidAccount)
	}
	if a.Currency == "" || !ValidCurrency(a.Currency) {
		return fmt.Errorf("%w: %q", ErrInvalidCurrency, a.Currency)
	}
	return nil
}

// DisplayNumber prefixes a label with the account number unless it already starts with it.
func DisplayNumber(number, label string) string {
	if number == "" || label == "" || strings.HasPrefix(label, number) {
		return label
	}
	return number + " - " + label
}

// AccountID renders the host's record naming for an account: "<number> - <name> - <abbr>",
// or "<name> - <abbr>" for unnumbered accounts.
func AccountID(number, name, abbr string) string {
	if number != "" {
		name = number + " - " + name
	}
	return CompanyScopedName(name, abbr)
}
