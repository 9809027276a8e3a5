package setup

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonvc/lbcoa/internal/chart"
	"github.com/simonvc/lbcoa/internal/company"
	"github.com/simonvc/lbcoa/internal/ledger"
	"github.com/simonvc/lbcoa/internal/provision"
	"github.com/simonvc/lbcoa/internal/store"
)

func newWizard(t *testing.T) (*Wizard, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	registry := chart.NewRegistry(t.TempDir())
	host, err := provision.NewHostDefaults(st, registry)
	require.NoError(t, err)
	hooks, err := provision.NewCoordinator(st, registry, host)
	require.NoError(t, err)
	return New(st, company.NewService(st, hooks)), st
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Args
		want Args
	}{
		{
			name: "lebanese chart forces country and currency",
			in:   Args{CompanyName: "Cedar Trading", Country: "France", ChartOfAccounts: chart.LebaneseChartName},
			want: Args{CompanyName: "Cedar Trading", CompanyAbbr: "CT", Country: "Lebanon", Currency: "LBP", ChartOfAccounts: chart.LebaneseChartName},
		},
		{
			name: "explicit currency kept",
			in:   Args{CompanyName: "Cedar", CompanyAbbr: "CD", Currency: "USD", ChartOfAccounts: "my lebanese chart"},
			want: Args{CompanyName: "Cedar", CompanyAbbr: "CD", Country: "Lebanon", Currency: "USD", ChartOfAccounts: "my lebanese chart"},
		},
		{
			name: "missing country means Lebanon",
			in:   Args{CompanyName: " Acme ", Currency: "EUR", ChartOfAccounts: "Standard"},
			want: Args{CompanyName: "Acme", CompanyAbbr: "A", Country: "Lebanon", Currency: "EUR", ChartOfAccounts: "Standard"},
		},
		{
			name: "other country untouched",
			in:   Args{CompanyName: "Seine SA", Country: "France", Currency: "EUR"},
			want: Args{CompanyName: "Seine SA", CompanyAbbr: "SS", Country: "France", Currency: "EUR"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in
			got.Normalize()
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAbbreviate(t *testing.T) {
	assert.Equal(t, "CTS", Abbreviate("Cedar trading sal"))
	assert.Equal(t, "B2", Abbreviate("(beirut) 2nd"))
	assert.Equal(t, "", Abbreviate("  "))
}

func TestStages(t *testing.T) {
	w, _ := newWizard(t)
	statuses := func(stages []Stage) []string {
		var out []string
		for _, s := range stages {
			out = append(out, s.Status)
		}
		return out
	}

	assert.Equal(t,
		[]string{"Installing presets", "Setting up company", "Setting defaults", "Wrapping up"},
		statuses(w.Stages(&Args{}, false)))
	assert.Equal(t, []string{"Wrapping up"}, statuses(w.Stages(&Args{}, true)))
}

func TestCompleteLebanese(t *testing.T) {
	w, st := newWizard(t)
	ctx := context.Background()

	res := w.Complete(ctx, Args{CompanyName: "Cedar Trading", ChartOfAccounts: chart.LebaneseChartName, Email: "admin@example.com"})
	require.Equal(t, StatusSuccess, res.Status, res.Message)
	assert.Equal(t, "Setup Completed", res.Message)
	assert.Equal(t, HomePage, res.HomePage)
	require.NotNil(t, res.Report)
	assert.True(t, res.Report.Lebanese)

	c, err := st.GetCompany(ctx, "Cedar Trading")
	require.NoError(t, err)
	assert.Equal(t, "CT", c.Abbr)
	assert.Equal(t, "LBP", c.DefaultCurrency)
	assert.Equal(t, "Main - CT", c.Defaults[ledger.FieldCostCenter])

	settings, err := st.ListSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		store.SettingCountry:         "Lebanon",
		store.SettingDefaultCompany:  "Cedar Trading",
		store.SettingDefaultCurrency: "LBP",
		store.SettingSetupComplete:   "1",
	}, settings)

	types, err := st.ListWarehouseTypes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{ledger.WarehouseTypeScrap, ledger.WarehouseTypeTransit}, types)

	again := w.Complete(ctx, Args{CompanyName: "Another"})
	assert.Equal(t, StatusSuccess, again.Status)
	n, err := st.CountCompanies(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "only wrap-up runs once a company exists")
}

func TestCompleteDefaultsToLebanon(t *testing.T) {
	w, st := newWizard(t)
	ctx := context.Background()

	res := w.Complete(ctx, Args{CompanyName: "Acme"})
	require.Equal(t, StatusSuccess, res.Status, res.Message)

	c, err := st.GetCompany(ctx, "Acme")
	require.NoError(t, err)
	assert.Equal(t, "Lebanon", c.Country)
	assert.Equal(t, chart.LebaneseChartName, c.ChartOfAccounts)
}

func TestCompleteReportsErrors(t *testing.T) {
	w, st := newWizard(t)
	ctx := context.Background()

	res := w.Complete(ctx, Args{})
	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, ErrMissingCompanyName.Error(), res.Message)
	assert.Empty(t, res.HomePage)

	v, err := st.GetSetting(ctx, store.SettingSetupComplete)
	require.NoError(t, err)
	assert.Empty(t, v)
}
