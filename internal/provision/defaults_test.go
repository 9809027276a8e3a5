package provision

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonvc/lbcoa/internal/ledger"
)

func TestResolveLebaneseDefaults(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	importLebanese(t, st, "Alpha SAL", "AS")

	r := NewDefaultsResolver(st)
	res, err := r.Resolve(ctx, "Alpha SAL", LebaneseAccounts)
	require.NoError(t, err)
	assert.Empty(t, res.Skipped)
	assert.Empty(t, res.Created, "every Lebanese blueprint exists in the chart")
	assert.Len(t, res.Defaults, len(LebaneseAccounts))
	assert.Equal(t, "4111 - Customers - Local - AS", res.Defaults[ledger.FieldDefaultReceivableAccount])
	assert.Equal(t, res.Defaults[ledger.FieldDefaultExpenseAccount], res.Defaults[ledger.FieldPurchaseExpenseAccount])

	srbnb := findByNumber(t, st, "Alpha SAL", "33")
	assert.Equal(t, ledger.RootLiability, srbnb.RootType, "root type reconciled from the blueprint")
	assert.Equal(t, ledger.ReportBalanceSheet, srbnb.ReportType)
	assert.Equal(t, ledger.TypeStockReceivedNotBilled, srbnb.AccountType)

	again, err := r.Resolve(ctx, "Alpha SAL", LebaneseAccounts)
	require.NoError(t, err)
	assert.Zero(t, again.Writes, "a second resolution writes nothing")
	assert.Equal(t, res.Defaults, again.Defaults)
}

func TestResolveNeverCreatesWithoutFlag(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	seedCompany(t, st, "Empty SAL", "ES")

	res, err := NewDefaultsResolver(st).Resolve(ctx, "Empty SAL", LebaneseAccounts)
	require.NoError(t, err)
	assert.Empty(t, res.Defaults)
	assert.Zero(t, res.Writes)
	assert.Len(t, res.Skipped, len(LebaneseAccounts))

	n, err := st.CountAccounts(ctx, "Empty SAL")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestResolveCreatesUnderParent(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	importLebanese(t, st, "Alpha SAL", "AS")

	bps := Blueprints{{
		Field:               "other_receivable_account",
		AccountNumber:       "4199",
		AccountName:         "Other Receivables",
		AccountType:         ledger.TypeReceivable,
		CreateIfMissing:     true,
		ParentAccountNumber: "41",
	}}
	r := NewDefaultsResolver(st)
	res, err := r.Resolve(ctx, "Alpha SAL", bps)
	require.NoError(t, err)
	assert.Equal(t, []string{"4199 - Other Receivables - AS"}, res.Created)
	assert.Equal(t, 1, res.Writes)

	acct := findByNumber(t, st, "Alpha SAL", "4199")
	parent := findByNumber(t, st, "Alpha SAL", "41")
	assert.Equal(t, parent.ID, acct.ParentID)
	assert.Equal(t, parent.RootType, acct.RootType, "root type inherited from the parent")
	assert.Equal(t, ledger.ReportTypeFor(parent.RootType), acct.ReportType)
	assert.Equal(t, "LBP", acct.Currency)

	again, err := r.Resolve(ctx, "Alpha SAL", bps)
	require.NoError(t, err)
	assert.Empty(t, again.Created)
	assert.Zero(t, again.Writes)
}

func TestResolveSkipsMissingParent(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	importLebanese(t, st, "Alpha SAL", "AS")

	bps := Blueprints{
		{Field: "orphan_account", AccountNumber: "9999", AccountName: "Orphan", CreateIfMissing: true, ParentAccountNumber: "999"},
		{Field: ledger.FieldDefaultCashAccount, AccountNumber: "5300", AccountType: ledger.TypeCash},
	}
	res, err := NewDefaultsResolver(st).Resolve(ctx, "Alpha SAL", bps)
	require.NoError(t, err)
	assert.Equal(t, []string{"orphan_account"}, res.Skipped)
	assert.NotContains(t, res.Defaults, "orphan_account")
	assert.Contains(t, res.Defaults, ledger.FieldDefaultCashAccount, "later blueprints still resolve")
}

func TestResolveFallsBackToName(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	importLebanese(t, st, "Alpha SAL", "AS")

	res, err := NewDefaultsResolver(st).Resolve(ctx, "Alpha SAL", Blueprints{
		{Field: ledger.FieldDefaultReceivableAccount, AccountNumber: "0000", AccountName: "Customers - Local"},
	})
	require.NoError(t, err)
	assert.Equal(t, "4111 - Customers - Local - AS", res.Defaults[ledger.FieldDefaultReceivableAccount])
}

func TestDesiredReportType(t *testing.T) {
	tests := []struct {
		name string
		b    Blueprint
		want ledger.ReportType
	}{
		{"explicit", Blueprint{ReportType: ledger.ReportProfitAndLoss}, ledger.ReportProfitAndLoss},
		{"asset", Blueprint{RootType: ledger.RootAsset}, ledger.ReportBalanceSheet},
		{"liability", Blueprint{RootType: ledger.RootLiability}, ledger.ReportBalanceSheet},
		{"equity", Blueprint{RootType: ledger.RootEquity}, ledger.ReportBalanceSheet},
		{"income", Blueprint{RootType: ledger.RootIncome}, ledger.ReportProfitAndLoss},
		{"expense", Blueprint{RootType: ledger.RootExpense}, ledger.ReportProfitAndLoss},
		{"unspecified", Blueprint{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.b.DesiredReportType())
		})
	}
}

func TestBlueprintsValidate(t *testing.T) {
	require.NoError(t, LebaneseAccounts.Validate())
	require.NoError(t, StandardAccounts.Validate())

	err := Blueprints{{Field: "a", AccountNumber: "1"}, {Field: "a", AccountNumber: "2"}}.Validate()
	assert.ErrorIs(t, err, errBadBlueprint)

	err = Blueprints{{Field: "a"}}.Validate()
	assert.ErrorIs(t, err, errBadBlueprint)

	err = Blueprints{{Field: "a", AccountNumber: "1", RootType: ledger.RootAsset, ReportType: ledger.ReportProfitAndLoss}}.Validate()
	assert.ErrorIs(t, err, ledger.ErrReportTypeMismatch)
}
