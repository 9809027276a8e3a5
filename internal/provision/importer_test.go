package provision

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonvc/lbcoa/internal/chart"
	"github.com/simonvc/lbcoa/internal/ledger"
	"github.com/simonvc/lbcoa/internal/store"
)

const tinyChart = `{
  "name": "Tiny",
  "tree": {
    "Assets": {
      "account_number": "1",
      "root_type": "Asset",
      "Cash": {"account_number": "11", "account_type": "Cash", "account_currency": "USD"},
      "Misc": {}
    },
    "Income": {
      "root_type": "Income",
      "Sales": {"account_number": "41", "tax_rate": 11},
      "Misc": {"Sub": {}}
    }
  }
}`

func tinyTree(t *testing.T) *chart.Node {
	t.Helper()
	c, err := chart.Parse([]byte(tinyChart))
	require.NoError(t, err)
	return c.Tree
}

func TestImportCreatesParentsFirst(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	seedCompany(t, st, "Tiny Co", "TC")

	ids, err := NewImporter(st).Import(ctx, tinyTree(t), "Tiny Co")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"1 - Assets - TC",
		"11 - Cash - TC",
		"Misc - TC",
		"Income - TC",
		"41 - Sales - TC",
		"Misc 1 - TC",
		"Sub - TC",
	}, ids)

	cash, err := st.GetAccount(ctx, "11 - Cash - TC")
	require.NoError(t, err)
	assert.Equal(t, "1 - Assets - TC", cash.ParentID)
	assert.Equal(t, ledger.RootAsset, cash.RootType, "root type is inherited")
	assert.Equal(t, ledger.ReportBalanceSheet, cash.ReportType)
	assert.Equal(t, ledger.TypeCash, cash.AccountType)
	assert.Equal(t, "USD", cash.Currency)
	assert.False(t, cash.IsGroup)

	sales, err := st.GetAccount(ctx, "41 - Sales - TC")
	require.NoError(t, err)
	assert.Equal(t, ledger.TypeIncomeAccount, sales.AccountType, "income leaves default to Income Account")
	assert.Equal(t, ledger.ReportProfitAndLoss, sales.ReportType)
	assert.Equal(t, "LBP", sales.Currency)
	require.NotNil(t, sales.TaxRate)
	assert.Equal(t, "11", sales.TaxRate.String())

	misc, err := st.GetAccount(ctx, "Misc 1 - TC")
	require.NoError(t, err)
	assert.True(t, misc.IsGroup)
	assert.Equal(t, "Misc 1", misc.AccountName)
	assert.Empty(t, misc.AccountType, "groups get no default account type")

	assets, err := st.GetAccount(ctx, "1 - Assets - TC")
	require.NoError(t, err)
	assert.Equal(t, 1, assets.Lft)
	assert.Equal(t, 6, assets.Rgt)
	income, err := st.GetAccount(ctx, "Income - TC")
	require.NoError(t, err)
	assert.Equal(t, 7, income.Lft)
	assert.Equal(t, 14, income.Rgt)
}

func TestImportAbortsAsAWhole(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	seedCompany(t, st, "Tiny Co", "TC")

	im := NewImporter(st)
	_, err := im.Import(ctx, tinyTree(t), "Tiny Co")
	require.NoError(t, err)

	_, err = im.Import(ctx, tinyTree(t), "Tiny Co")
	require.Error(t, err)
	var se *StepError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, KindImportAbort, se.Kind)
	assert.ErrorIs(t, err, ledger.ErrDuplicateAccount)

	n, err := st.CountAccounts(ctx, "Tiny Co")
	require.NoError(t, err)
	assert.Equal(t, 7, n, "a failed import leaves no partial accounts")
}

func TestImportUnknownCompany(t *testing.T) {
	st := openStore(t)
	_, err := NewImporter(st).Import(context.Background(), tinyTree(t), "Nobody")
	assert.ErrorIs(t, err, ledger.ErrCompanyNotFound)
}

func TestImportShapeIsOwnerIndependent(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	importLebanese(t, st, "Alpha SAL", "AS")
	importLebanese(t, st, "Beta SARL", "BS")

	alpha, err := st.ListAccounts(ctx, store.AccountFilter{Company: "Alpha SAL"})
	require.NoError(t, err)
	beta, err := st.ListAccounts(ctx, store.AccountFilter{Company: "Beta SARL"})
	require.NoError(t, err)

	assert.Len(t, alpha, 101)
	assert.Equal(t, shape(alpha, "AS"), shape(beta, "BS"))

	receivable := findByNumber(t, st, "Alpha SAL", "4111")
	assert.Equal(t, "4111 - Customers - Local - AS", receivable.ID)
	assert.Equal(t, ledger.TypeReceivable, receivable.AccountType)
}
