package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportTypeFor(t *testing.T) {
	assert.Equal(t, ReportBalanceSheet, ReportTypeFor(RootAsset))
	assert.Equal(t, ReportBalanceSheet, ReportTypeFor(RootLiability))
	assert.Equal(t, ReportBalanceSheet, ReportTypeFor(RootEquity))
	assert.Equal(t, ReportProfitAndLoss, ReportTypeFor(RootIncome))
	assert.Equal(t, ReportProfitAndLoss, ReportTypeFor(RootExpense))
}

func TestParseRootType(t *testing.T) {
	r, err := ParseRootType(" liability ")
	require.NoError(t, err)
	assert.Equal(t, RootLiability, r)

	_, err = ParseRootType("Revenue")
	assert.ErrorIs(t, err, ErrInvalidRootType)
}

func TestAccountValidate(t *testing.T) {
	valid := Account{
		AccountName: "Cash",
		Company:     "Acme",
		RootType:    RootAsset,
		ReportType:  ReportBalanceSheet,
		Currency:    "LBP",
	}
	require.NoError(t, valid.Validate(false))

	noName := valid
	noName.AccountName = "  "
	assert.ErrorIs(t, noName.Validate(true), ErrInvalidAccount)

	mismatch := valid
	mismatch.ReportType = ReportProfitAndLoss
	assert.ErrorIs(t, mismatch.Validate(false), ErrReportTypeMismatch)
	assert.NoError(t, mismatch.Validate(true))

	noCurrency := valid
	noCurrency.Currency = ""
	assert.ErrorIs(t, noCurrency.Validate(false), ErrInvalidCurrency)
	assert.NoError(t, noCurrency.Validate(true), "roots may skip mandatory fields")

	noRoot := valid
	noRoot.RootType = ""
	assert.ErrorIs(t, noRoot.Validate(false), ErrInvalidAccount)
}

func TestDisplayNumber(t *testing.T) {
	assert.Equal(t, "4111 - Customers", DisplayNumber("4111", "Customers"))
	assert.Equal(t, "4111 - Customers", DisplayNumber("4111", "4111 - Customers"))
	assert.Equal(t, "Customers", DisplayNumber("", "Customers"))
}

func TestDefaultsMerge(t *testing.T) {
	d := Defaults{FieldCostCenter: "Main - AC", FieldDefaultCashAccount: "Cash - AC"}
	d.Merge(Defaults{FieldCostCenter: "Other - AC", FieldDefaultCashAccount: "", FieldDefaultBankAccount: "Bank - AC"})

	assert.Equal(t, "Other - AC", d[FieldCostCenter])
	assert.Equal(t, "Cash - AC", d[FieldDefaultCashAccount], "empty references never overwrite")
	assert.Equal(t, []string{FieldCostCenter, FieldDefaultBankAccount, FieldDefaultCashAccount}, d.Fields())
}

func TestCompanyValidate(t *testing.T) {
	c := Company{Name: "Acme", Abbr: "AC", DefaultCurrency: "LBP"}
	require.NoError(t, c.Validate())

	c.Abbr = ""
	assert.ErrorIs(t, c.Validate(), ErrInvalidCompany)

	c = Company{Name: "Acme", Abbr: "AC", DefaultCurrency: "XXX"}
	assert.ErrorIs(t, c.Validate(), ErrInvalidCurrency)
}

func TestStandardChartParentsFirst(t *testing.T) {
	seen := map[string]bool{}
	for _, e := range StandardChart {
		if e.Parent != "" {
			assert.True(t, seen[e.Parent], "%s listed before its parent %s", e.Number, e.Parent)
		}
		assert.True(t, ValidRootType(e.RootType))
		seen[e.Number] = true
	}
	require.NotNil(t, LookupChartEntry("1110"))
	assert.Nil(t, LookupChartEntry("9999"))
}

func TestCompanyScopedName(t *testing.T) {
	assert.Equal(t, "Main - AC", CompanyScopedName("Main", "AC"))
	assert.Equal(t, "Main", CompanyScopedName("Main", ""))
}

func TestAccountID(t *testing.T) {
	assert.Equal(t, "4111 - Customers - AC", AccountID("4111", "Customers", "AC"))
	assert.Equal(t, "Third Party Accounts - Debit - AC", AccountID("", "Third Party Accounts - Debit", "AC"))
}

func TestCurrencyName(t *testing.T) {
	assert.Equal(t, "Lebanese Pound", CurrencyName("LBP"))
	assert.Equal(t, "XYZ", CurrencyName("XYZ"))
	assert.Contains(t, CurrencyCodes(), "LBP")
}
