package provision

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/simonvc/lbcoa/internal/chart"
	"github.com/simonvc/lbcoa/internal/ledger"
	"github.com/simonvc/lbcoa/internal/store"
)

const HostTaxTemplateTitle = "Sales Taxes"

// HostDefaults is the host's own company lifecycle: the chart the company names (the
// standard chart when it names none), standard default accounts, the cost-center and
// warehouse structure, and a sales-tax template built from the first tax account.
type HostDefaults struct {
	repo       Repository
	registry   *chart.Registry
	importer   *Importer
	defaults   *DefaultsResolver
	structural *StructuralResolver
}

var _ Hooks = (*HostDefaults)(nil)

func NewHostDefaults(repo Repository, registry *chart.Registry) (*HostDefaults, error) {
	if err := StandardAccounts.Validate(); err != nil {
		return nil, err
	}
	return &HostDefaults{
		repo:       repo,
		registry:   registry,
		importer:   NewImporter(repo),
		defaults:   NewDefaultsResolver(repo),
		structural: NewStructuralResolver(repo, DefaultWarehouses),
	}, nil
}

func (h *HostDefaults) Validate(ctx context.Context, ev *Event) error {
	co := ev.Company
	if err := co.Validate(); err != nil {
		return err
	}
	if co.DefaultCurrency == "" {
		return fmt.Errorf("%w: default currency is required", ledger.ErrInvalidCurrency)
	}
	if co.ChartOfAccounts == "" {
		co.ChartOfAccounts = ledger.StandardChartName
	}
	if _, err := h.registry.Get(co.ChartOfAccounts, ev.Flags.AllowUnverifiedCharts); err != nil {
		return err
	}
	return nil
}

func (h *HostDefaults) ProvisionAccounts(ctx context.Context, ev *Event) error {
	r := runner{repo: h.repo, ev: ev}
	if err := importChart(ctx, r, h.repo, h.registry, h.importer, ev); err != nil {
		return err
	}

	if ev.Company.ChartOfAccounts == ledger.StandardChartName {
		r.isolated(ctx, StepDefaultAccounts, func(ctx context.Context) error {
			return applyDefaultAccounts(ctx, h.repo, h.defaults, ev, StandardAccounts)
		})
	}
	r.isolated(ctx, StepStructural, func(ctx context.Context) error {
		return applyStructural(ctx, h.repo, h.structural, ev)
	})
	return nil
}

func (h *HostDefaults) ProvisionTaxTemplate(ctx context.Context, ev *Event) error {
	if ev.Flags.SkipTaxTemplate {
		ev.Report.skip(StepTaxTemplate, "skipped by request")
		return nil
	}

	r := runner{repo: h.repo, ev: ev}
	r.isolated(ctx, StepTaxTemplate, func(ctx context.Context) error {
		return h.ensureSalesTaxes(ctx, ev.Company.Name)
	})
	return nil
}

func (h *HostDefaults) ensureSalesTaxes(ctx context.Context, company string) error {
	_, err := h.repo.FindTaxTemplate(ctx, HostTaxTemplateTitle, company, ledger.TaxKindSales)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ledger.ErrTaxTemplateNotFound) {
		return err
	}

	leaf := false
	acct, err := h.repo.FindAccount(ctx, store.AccountFilter{Company: company, AccountType: ledger.TypeTax, IsGroup: &leaf})
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	rate := decimal.Zero
	if acct.TaxRate != nil {
		rate = *acct.TaxRate
	}
	return h.repo.CreateTaxTemplate(ctx, &ledger.TaxTemplate{
		Title:     HostTaxTemplateTitle,
		Company:   company,
		Kind:      ledger.TaxKindSales,
		IsDefault: true,
		Rows:      []ledger.TaxRow{{AccountID: acct.ID, Rate: rate, Description: acct.AccountName}},
	})
}
