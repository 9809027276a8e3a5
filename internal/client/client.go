package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/simonvc/lbcoa/internal/chart"
	"github.com/simonvc/lbcoa/internal/ledger"
	"github.com/simonvc/lbcoa/internal/provision"
	"github.com/simonvc/lbcoa/internal/setup"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateCompanyRequest is the body of a company creation.
type CreateCompanyRequest struct {
	Name                  string `json:"name"`
	Abbr                  string `json:"abbr"`
	Country               string `json:"country,omitempty"`
	DefaultCurrency       string `json:"default_currency,omitempty"`
	ChartOfAccounts       string `json:"chart_of_accounts,omitempty"`
	AllowUnverifiedCharts bool   `json:"allow_unverified_charts,omitempty"`
}

// CompanyResult is a company with the report of the provisioning run that touched it.
type CompanyResult struct {
	Company *ledger.Company   `json:"company"`
	Report  *provision.Report `json:"report"`
}

func (c *Client) CreateCompany(ctx context.Context, req CreateCompanyRequest) (*CompanyResult, error) {
	var result CompanyResult
	if err := c.post(ctx, "/api/v1/companies", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListCompanies(ctx context.Context) ([]ledger.Company, error) {
	var result []ledger.Company
	if err := c.get(ctx, "/api/v1/companies", &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) GetCompany(ctx context.Context, name string) (*ledger.Company, error) {
	var result ledger.Company
	if err := c.get(ctx, companyPath(name, ""), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ProvisionCompany(ctx context.Context, name string, flags provision.Flags) (*CompanyResult, error) {
	var result CompanyResult
	if err := c.post(ctx, companyPath(name, "/provision"), flags, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AccountQuery narrows ListAccounts. Zero fields are not sent.
type AccountQuery struct {
	AccountNumber string
	RootType      string
	AccountType   string
	Parent        *string
	IsGroup       *bool
}

func (c *Client) ListAccounts(ctx context.Context, company string, q AccountQuery) ([]ledger.Account, error) {
	params := url.Values{}
	if q.AccountNumber != "" {
		params.Set("account_number", q.AccountNumber)
	}
	if q.RootType != "" {
		params.Set("root_type", q.RootType)
	}
	if q.AccountType != "" {
		params.Set("account_type", q.AccountType)
	}
	if q.Parent != nil {
		params.Set("parent", *q.Parent)
	}
	if q.IsGroup != nil {
		if *q.IsGroup {
			params.Set("is_group", "true")
		} else {
			params.Set("is_group", "false")
		}
	}
	var result []ledger.Account
	if err := c.get(ctx, companyPath(company, "/accounts")+"?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return result, nil
}

// AccountLabels is the relabelling the tree view applies to a company's accounts.
type AccountLabels struct {
	Enabled  bool                   `json:"enabled"`
	Language string                 `json:"language,omitempty"`
	Labels   map[string]chart.Label `json:"labels"`
}

func (c *Client) AccountLabels(ctx context.Context, company, language string) (*AccountLabels, error) {
	params := url.Values{}
	if language != "" {
		params.Set("language", language)
	}
	var result AccountLabels
	if err := c.get(ctx, companyPath(company, "/account-labels")+"?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListCostCenters(ctx context.Context, company string) ([]ledger.CostCenter, error) {
	var result []ledger.CostCenter
	if err := c.get(ctx, companyPath(company, "/cost-centers"), &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) ListWarehouses(ctx context.Context, company string) ([]ledger.Warehouse, error) {
	var result []ledger.Warehouse
	if err := c.get(ctx, companyPath(company, "/warehouses"), &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) ListTaxTemplates(ctx context.Context, company string) ([]ledger.TaxTemplate, error) {
	var result []ledger.TaxTemplate
	if err := c.get(ctx, companyPath(company, "/tax-templates"), &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) ListCharts(ctx context.Context, country string, withStandard bool) ([]string, error) {
	params := url.Values{}
	if country != "" {
		params.Set("country", country)
	}
	if withStandard {
		params.Set("with_standard", "true")
	}
	var result []string
	if err := c.get(ctx, "/api/v1/charts?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ChartChildren returns one level of chartName below parent. An empty parent yields the
// root accounts.
func (c *Client) ChartChildren(ctx context.Context, chartName, parent string) ([]chart.TreeNode, error) {
	params := url.Values{}
	if parent != "" {
		params.Set("parent", parent)
	}
	var result []chart.TreeNode
	path := "/api/v1/charts/" + url.PathEscape(chartName) + "/children?" + params.Encode()
	if err := c.get(ctx, path, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) CompleteSetup(ctx context.Context, args setup.Args) (*setup.Result, error) {
	var result setup.Result
	if err := c.post(ctx, "/api/v1/setup/complete", args, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Settings(ctx context.Context) (map[string]string, error) {
	var result map[string]string
	if err := c.get(ctx, "/api/v1/settings", &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Ping checks if the server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/v1/charts", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func companyPath(name, suffix string) string {
	return "/api/v1/companies/" + url.PathEscape(name) + suffix
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.doRequest(req, result)
}

func (c *Client) post(ctx context.Context, path string, body any, result any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doRequest(req, result)
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

type apiError struct {
	Error string `json:"error"`
}

func (c *Client) doRequest(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if json.Unmarshal(bodyBytes, &apiErr) == nil && apiErr.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(bodyBytes)}
	}

	if result != nil {
		if err := json.Unmarshal(bodyBytes, result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
