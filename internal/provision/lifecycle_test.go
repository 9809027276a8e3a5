package provision

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonvc/lbcoa/internal/chart"
	"github.com/simonvc/lbcoa/internal/ledger"
	"github.com/simonvc/lbcoa/internal/store"
)

func newCoordinator(t *testing.T, st *store.Store) *Coordinator {
	t.Helper()
	registry := chart.NewRegistry(t.TempDir())
	host, err := NewHostDefaults(st, registry)
	require.NoError(t, err)
	c, err := NewCoordinator(st, registry, host)
	require.NoError(t, err)
	return c
}

// create drives hooks the way the company lifecycle does.
func create(ctx context.Context, st *store.Store, hooks Hooks, c *ledger.Company) (*Report, error) {
	ev := NewEvent(c, Flags{})
	if err := hooks.Validate(ctx, ev); err != nil {
		return ev.Report, err
	}
	err := st.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := st.CreateCompany(ctx, c); err != nil {
			return err
		}
		return hooks.ProvisionAccounts(ctx, ev)
	})
	if err != nil {
		return ev.Report, err
	}
	return ev.Report, hooks.ProvisionTaxTemplate(ctx, ev)
}

func TestIsLebanese(t *testing.T) {
	assert.True(t, IsLebanese("Lebanon", chart.LebaneseChartName))
	assert.True(t, IsLebanese("Lebanon", "my LEBANESE chart"))
	assert.False(t, IsLebanese("Lebanon", ledger.StandardChartName))
	assert.False(t, IsLebanese("France", chart.LebaneseChartName))
	assert.False(t, IsLebanese("", ""))
}

func TestLebaneseCompanyEndToEnd(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	hooks := newCoordinator(t, st)

	c := &ledger.Company{Name: "Cedar SAL", Abbr: "CS", Country: LebanonCountry}
	report, err := create(ctx, st, hooks, c)
	require.NoError(t, err)
	assert.True(t, report.Lebanese)
	assert.True(t, report.OK(), "failed steps: %+v", report.Failed())
	assert.Equal(t, chart.LebaneseChartName, c.ChartOfAccounts)
	assert.Equal(t, LebanonCurrency, c.DefaultCurrency)

	stored, err := st.GetCompany(ctx, "Cedar SAL")
	require.NoError(t, err)
	receivable, err := st.GetAccount(ctx, stored.Defaults[ledger.FieldDefaultReceivableAccount])
	require.NoError(t, err)
	assert.Equal(t, "4111", receivable.AccountNumber)
	assert.Equal(t, "Main - CS", stored.Defaults[ledger.FieldCostCenter])
	assert.Equal(t, "Scrap - CS", stored.Defaults[ledger.FieldDefaultScrapWarehouse])

	tpls, err := st.ListTaxTemplates(ctx, "Cedar SAL")
	require.NoError(t, err)
	require.Len(t, tpls, 2)
	for _, tpl := range tpls {
		assert.Equal(t, "Lebanon VAT 11%", tpl.Title)
	}

	step, ok := report.Step(StepTaxTemplate)
	require.True(t, ok)
	assert.True(t, step.Skipped, "host tax template is skipped")
	_, ok = report.Step(StepImport)
	assert.True(t, ok)
}

func TestNonLebaneseCompanyUsesHostDefaults(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	hooks := newCoordinator(t, st)

	c := &ledger.Company{Name: "Seine SA", Abbr: "SS", Country: "France", DefaultCurrency: "EUR"}
	report, err := create(ctx, st, hooks, c)
	require.NoError(t, err)
	assert.False(t, report.Lebanese)
	assert.Equal(t, ledger.StandardChartName, c.ChartOfAccounts)

	_, err = st.FindAccount(ctx, store.AccountFilter{Company: "Seine SA", AccountNumber: "4111"})
	assert.ErrorIs(t, err, ledger.ErrAccountNotFound)

	tpls, err := st.ListTaxTemplates(ctx, "Seine SA")
	require.NoError(t, err)
	require.Len(t, tpls, 1)
	assert.Equal(t, HostTaxTemplateTitle, tpls[0].Title)
	assert.Equal(t, "2120 - Duties and Taxes - SS", tpls[0].Rows[0].AccountID)

	d, err := st.GetCompanyDefaults(ctx, "Seine SA")
	require.NoError(t, err)
	assert.Equal(t, "1130 - Debtors - SS", d[ledger.FieldDefaultReceivableAccount])
	assert.Equal(t, "Main - SS", d[ledger.FieldCostCenter])
}

func TestLebanonWithStandardChartIsNotLebanese(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	hooks := newCoordinator(t, st)

	c := &ledger.Company{Name: "Byblos SAL", Abbr: "BY", Country: LebanonCountry, DefaultCurrency: "USD", ChartOfAccounts: ledger.StandardChartName}
	report, err := create(ctx, st, hooks, c)
	require.NoError(t, err)
	assert.False(t, report.Lebanese)

	tpls, err := st.ListTaxTemplates(ctx, "Byblos SAL")
	require.NoError(t, err)
	require.Len(t, tpls, 1)
	assert.Equal(t, HostTaxTemplateTitle, tpls[0].Title)
}

func TestChartLoadFailureAbortsCreation(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	hooks := newCoordinator(t, st)

	c := &ledger.Company{Name: "Tyre SAL", Abbr: "TY", Country: LebanonCountry, ChartOfAccounts: "Lebanese Custom Chart"}
	report, err := create(ctx, st, hooks, c)
	require.Error(t, err)
	assert.Equal(t, KindConfigNotFound, KindOf(err, KindImportAbort))

	step, ok := report.Step(StepChartLoad)
	require.True(t, ok)
	assert.False(t, step.OK)

	exists, err := st.CompanyExists(ctx, "Tyre SAL")
	require.NoError(t, err)
	assert.False(t, exists, "the company insert is rolled back")
}

func TestPostImportFailureIsIsolated(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	hooks := newCoordinator(t, st)
	hooks.taxes = &TaxTemplates{repo: st, attempts: 2, backoff: time.Millisecond}
	hooks.templates = []TaxTemplateSpec{
		LebaneseTaxTemplates[0],
		{Step: "tax_template.broken", Title: "Broken", Kind: ledger.TaxKindPurchase, AccountNumber: "9999"},
	}

	c := &ledger.Company{Name: "Sidon SAL", Abbr: "SD", Country: LebanonCountry}
	report, err := create(ctx, st, hooks, c)
	require.NoError(t, err, "isolated failures do not abort the event")

	failed := report.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "tax_template.broken", failed[0].Name)
	assert.Equal(t, KindPartialProvisioning, failed[0].Kind)

	for _, name := range []string{StepImport, StepDefaultAccounts, StepStructural, "tax_template.sales"} {
		step, ok := report.Step(name)
		require.True(t, ok, name)
		assert.True(t, step.OK, name)
	}

	n, err := st.CountAccounts(ctx, "Sidon SAL")
	require.NoError(t, err)
	assert.Equal(t, 101, n)
	tpls, err := st.ListTaxTemplates(ctx, "Sidon SAL")
	require.NoError(t, err)
	assert.Len(t, tpls, 1)
}

func TestReprovisioningIsIdempotent(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	hooks := newCoordinator(t, st)

	c := &ledger.Company{Name: "Zahle SAL", Abbr: "ZA", Country: LebanonCountry}
	_, err := create(ctx, st, hooks, c)
	require.NoError(t, err)

	ev := NewEvent(&ledger.Company{Name: "Zahle SAL"}, Flags{})
	err = st.RunInTransaction(ctx, func(ctx context.Context) error {
		return hooks.ProvisionAccounts(ctx, ev)
	})
	require.NoError(t, err)
	assert.True(t, ev.Report.Lebanese, "the stored company decides the mode")

	step, ok := ev.Report.Step(StepImport)
	require.True(t, ok)
	assert.True(t, step.Skipped)

	n, err := st.CountAccounts(ctx, "Zahle SAL")
	require.NoError(t, err)
	assert.Equal(t, 101, n)
	tpls, err := st.ListTaxTemplates(ctx, "Zahle SAL")
	require.NoError(t, err)
	assert.Len(t, tpls, 2)
}

func TestBareEventReadsStoredCompany(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	hooks := newCoordinator(t, st)

	_, err := create(ctx, st, hooks, &ledger.Company{Name: "Byblos SAL", Abbr: "BY", Country: LebanonCountry})
	require.NoError(t, err)

	ev := NewEvent(&ledger.Company{Name: "Byblos SAL"}, Flags{})
	err = st.RunInTransaction(ctx, func(ctx context.Context) error {
		return hooks.ProvisionAccounts(ctx, ev)
	})
	require.NoError(t, err)
	assert.Equal(t, LebanonCountry, ev.Company.Country)
	assert.Equal(t, chart.LebaneseChartName, ev.Company.ChartOfAccounts)
	assert.Equal(t, "BY", ev.Company.Abbr)
	assert.Equal(t, LebanonCurrency, ev.Company.DefaultCurrency)

	load, ok := ev.Report.Step(StepChartLoad)
	require.True(t, ok)
	assert.True(t, load.OK)
	assert.Empty(t, ev.Report.Failed())

	taxEv := NewEvent(&ledger.Company{Name: "Byblos SAL"}, Flags{})
	require.NoError(t, hooks.ProvisionTaxTemplate(ctx, taxEv))
	step, ok := taxEv.Report.Step(StepTaxTemplate)
	require.True(t, ok)
	assert.True(t, step.Skipped)

	tpls, err := st.ListTaxTemplates(ctx, "Byblos SAL")
	require.NoError(t, err)
	assert.Len(t, tpls, 2, "no host template next to the VAT templates")
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindParentMissing, KindOf(&StepError{Kind: KindParentMissing}, KindImportAbort))
	assert.Equal(t, KindConfigNotFound, KindOf(chart.ErrConfigNotFound, KindImportAbort))
	assert.Equal(t, KindConfigNotFound, KindOf(ledger.ErrChartNotFound, KindImportAbort))
	assert.Equal(t, KindImportAbort, KindOf(errors.New("boom"), KindImportAbort))
}
