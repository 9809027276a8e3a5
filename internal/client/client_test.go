package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonvc/lbcoa/internal/chart"
	"github.com/simonvc/lbcoa/internal/ledger"
	"github.com/simonvc/lbcoa/internal/logger"
	"github.com/simonvc/lbcoa/internal/provision"
	"github.com/simonvc/lbcoa/internal/server"
	"github.com/simonvc/lbcoa/internal/setup"
	"github.com/simonvc/lbcoa/internal/store"
)

func newClient(t *testing.T) *Client {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	srv, err := server.New(st, chart.NewRegistry(t.TempDir()), logger.Nop(), "")
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return New(ts.URL)
}

func TestClientRoundTrip(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()
	require.NoError(t, c.Ping(ctx))

	created, err := c.CreateCompany(ctx, CreateCompanyRequest{Name: "Cedar SAL", Abbr: "CS", Country: "Lebanon"})
	require.NoError(t, err)
	assert.True(t, created.Report.Lebanese)

	companies, err := c.ListCompanies(ctx)
	require.NoError(t, err)
	require.Len(t, companies, 1)

	leaf := false
	accounts, err := c.ListAccounts(ctx, "Cedar SAL", AccountQuery{AccountType: string(ledger.TypeTax), IsGroup: &leaf})
	require.NoError(t, err)
	assert.NotEmpty(t, accounts)

	labels, err := c.AccountLabels(ctx, "Cedar SAL", "fr")
	require.NoError(t, err)
	assert.True(t, labels.Enabled)
	assert.Equal(t, "4111 - Clients locaux", labels.Labels["4111 - Customers - Local - CS"].Label)

	roots, err := c.ChartChildren(ctx, chart.LebaneseChartName, "")
	require.NoError(t, err)
	assert.Len(t, roots, 8)

	ccs, err := c.ListCostCenters(ctx, "Cedar SAL")
	require.NoError(t, err)
	assert.Len(t, ccs, 2)
	whs, err := c.ListWarehouses(ctx, "Cedar SAL")
	require.NoError(t, err)
	assert.Len(t, whs, 5)
	tpls, err := c.ListTaxTemplates(ctx, "Cedar SAL")
	require.NoError(t, err)
	assert.Len(t, tpls, 2)

	res, err := c.ProvisionCompany(ctx, "Cedar SAL", provision.Flags{})
	require.NoError(t, err)
	assert.True(t, res.Report.OK())
}

func TestClientErrors(t *testing.T) {
	c := newClient(t)

	_, err := c.GetCompany(context.Background(), "Nobody")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestClientSetup(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()

	res, err := c.CompleteSetup(ctx, setup.Args{CompanyName: "Cedar Trading"})
	require.NoError(t, err)
	assert.Equal(t, setup.StatusSuccess, res.Status)

	settings, err := c.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1", settings[store.SettingSetupComplete])

	charts, err := c.ListCharts(ctx, "", false)
	require.NoError(t, err)
	assert.Equal(t, []string{chart.LebaneseChartName}, charts)
}
