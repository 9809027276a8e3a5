package provision

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/simonvc/lbcoa/internal/chart"
	"github.com/simonvc/lbcoa/internal/ledger"
	"github.com/simonvc/lbcoa/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func seedCompany(t *testing.T, st *store.Store, name, abbr string) *ledger.Company {
	t.Helper()
	c := &ledger.Company{
		Name:            name,
		Abbr:            abbr,
		Country:         LebanonCountry,
		DefaultCurrency: LebanonCurrency,
		ChartOfAccounts: chart.LebaneseChartName,
	}
	require.NoError(t, st.CreateCompany(context.Background(), c))
	return c
}

func lebaneseTree(t *testing.T) *chart.Node {
	t.Helper()
	c, err := chart.Lebanese.Load()
	require.NoError(t, err)
	return c.Tree
}

// importLebanese seeds a company with the full Lebanese chart.
func importLebanese(t *testing.T, st *store.Store, name, abbr string) *ledger.Company {
	t.Helper()
	c := seedCompany(t, st, name, abbr)
	_, err := NewImporter(st).Import(context.Background(), lebaneseTree(t), name)
	require.NoError(t, err)
	return c
}

func findByNumber(t *testing.T, st *store.Store, company, number string) *ledger.Account {
	t.Helper()
	acct, err := st.FindAccount(context.Background(), store.AccountFilter{Company: company, AccountNumber: number})
	require.NoError(t, err)
	return acct
}

// shape renders the accounts of a company with the company abbreviation removed.
func shape(accts []ledger.Account, abbr string) []string {
	out := make([]string, 0, len(accts))
	for _, a := range accts {
		parent := strings.TrimSuffix(a.ParentID, " - "+abbr)
		out = append(out, strings.Join([]string{
			a.AccountNumber, a.AccountName, parent, string(a.RootType), string(a.ReportType),
			string(a.AccountType), boolText(a.IsGroup),
		}, "|"))
	}
	return out
}

func boolText(b bool) string {
	if b {
		return "group"
	}
	return "leaf"
}
