package provision

import (
	"context"
	"errors"
	"fmt"

	"github.com/simonvc/lbcoa/internal/chart"
	"github.com/simonvc/lbcoa/internal/ledger"
	"github.com/simonvc/lbcoa/internal/logger"
)

const (
	LebanonCountry  = "Lebanon"
	LebanonCurrency = "LBP"

	StepChartLoad   = "chart.load"
	StepTaxTemplate = "tax_template"
)

// IsLebanese is the Lebanese-mode predicate: the company is in Lebanon and its chart
// name mentions "lebanese" in any case.
func IsLebanese(country, chartName string) bool {
	return country == LebanonCountry && chart.IsLebaneseChart(chartName)
}

// Coordinator is the Lebanese company lifecycle. It runs the Lebanese provisioning
// sequence for Lebanese companies and hands every other company to the fallback hooks
// unmodified.
type Coordinator struct {
	repo       Repository
	registry   *chart.Registry
	fallback   Hooks
	importer   *Importer
	defaults   *DefaultsResolver
	structural *StructuralResolver
	taxes      *TaxTemplates
	blueprints Blueprints
	templates  []TaxTemplateSpec
}

var _ Hooks = (*Coordinator)(nil)

func NewCoordinator(repo Repository, registry *chart.Registry, fallback Hooks) (*Coordinator, error) {
	if err := LebaneseAccounts.Validate(); err != nil {
		return nil, err
	}
	return &Coordinator{
		repo:       repo,
		registry:   registry,
		fallback:   fallback,
		importer:   NewImporter(repo),
		defaults:   NewDefaultsResolver(repo),
		structural: NewStructuralResolver(repo, DefaultWarehouses),
		taxes:      NewTaxTemplates(repo),
		blueprints: LebaneseAccounts,
		templates:  LebaneseTaxTemplates,
	}, nil
}

// Validate defaults the chart of a Lebanese company that has none and marks the event
// so the Lebanese chart is visible and the host tax template is skipped.
func (c *Coordinator) Validate(ctx context.Context, ev *Event) error {
	co := ev.Company
	if co.Country == LebanonCountry && co.ChartOfAccounts == "" {
		co.ChartOfAccounts = chart.LebaneseChartName
	}
	if !IsLebanese(co.Country, co.ChartOfAccounts) {
		return c.fallback.Validate(ctx, ev)
	}

	if co.DefaultCurrency == "" {
		co.DefaultCurrency = LebanonCurrency
	}
	ev.Flags.AllowUnverifiedCharts = true
	ev.Flags.SkipTaxTemplate = true
	ev.Report.Lebanese = true
	return co.Validate()
}

// ProvisionAccounts imports the Lebanese chart, then resolves default accounts, the
// cost-center and warehouse structure, and the VAT templates. Chart loading and
// import failures are returned; every later step is isolated and only reported.
func (c *Coordinator) ProvisionAccounts(ctx context.Context, ev *Event) error {
	lebanese, err := c.lebanese(ctx, ev)
	if err != nil {
		return err
	}
	if !lebanese {
		return c.fallback.ProvisionAccounts(ctx, ev)
	}

	ev.Flags.AllowUnverifiedCharts = true
	ev.Flags.SkipTaxTemplate = true
	ev.Report.Lebanese = true

	ctx = logger.ToContext(ctx, logger.FromContext(ctx).With("company", ev.Company.Name, "run_id", ev.Report.RunID))
	r := runner{repo: c.repo, ev: ev}

	if err := importChart(ctx, r, c.repo, c.registry, c.importer, ev); err != nil {
		return err
	}

	r.isolated(ctx, StepDefaultAccounts, func(ctx context.Context) error {
		return applyDefaultAccounts(ctx, c.repo, c.defaults, ev, c.blueprints)
	})
	r.isolated(ctx, StepStructural, func(ctx context.Context) error {
		return applyStructural(ctx, c.repo, c.structural, ev)
	})
	for _, spec := range c.templates {
		r.isolated(ctx, spec.Step, func(ctx context.Context) error {
			_, _, err := c.taxes.Ensure(ctx, ev.Company.Name, spec)
			return err
		})
	}
	return nil
}

// ProvisionTaxTemplate is skipped for Lebanese companies: their VAT templates are
// created during account provisioning.
func (c *Coordinator) ProvisionTaxTemplate(ctx context.Context, ev *Event) error {
	lebanese, err := c.lebanese(ctx, ev)
	if err != nil {
		return err
	}
	if lebanese || ev.Flags.SkipTaxTemplate {
		ev.Report.skip(StepTaxTemplate, "host tax template is not used for Lebanese companies")
		return nil
	}
	return c.fallback.ProvisionTaxTemplate(ctx, ev)
}

// lebanese evaluates the predicate on the event's company. Fields the event leaves
// empty are back-filled from the persisted company first.
func (c *Coordinator) lebanese(ctx context.Context, ev *Event) (bool, error) {
	co := ev.Company
	if co.Country == "" || co.ChartOfAccounts == "" || co.Abbr == "" || co.DefaultCurrency == "" {
		stored, err := c.repo.GetCompany(ctx, co.Name)
		switch {
		case errors.Is(err, ledger.ErrCompanyNotFound):
		case err != nil:
			return false, err
		default:
			fillFrom(co, stored)
		}
	}
	return IsLebanese(co.Country, co.ChartOfAccounts), nil
}

func fillFrom(co, stored *ledger.Company) {
	if co.Country == "" {
		co.Country = stored.Country
	}
	if co.ChartOfAccounts == "" {
		co.ChartOfAccounts = stored.ChartOfAccounts
	}
	if co.Abbr == "" {
		co.Abbr = stored.Abbr
	}
	if co.DefaultCurrency == "" {
		co.DefaultCurrency = stored.DefaultCurrency
	}
}

// importChart loads the event's chart and imports it unless the company already has
// accounts. Both failures are fatal to the event.
func importChart(ctx context.Context, r runner, repo Repository, registry *chart.Registry, im *Importer, ev *Event) error {
	var tree *chart.Chart
	err := r.fatal(ctx, StepChartLoad, KindConfigNotFound, func(ctx context.Context) error {
		var err error
		tree, err = registry.Get(ev.Company.ChartOfAccounts, ev.Flags.AllowUnverifiedCharts)
		return err
	})
	if err != nil {
		return err
	}

	n, err := repo.CountAccounts(ctx, ev.Company.Name)
	if err != nil {
		return err
	}
	if n > 0 {
		r.skip(StepImport, fmt.Sprintf("company already has %d accounts", n))
		return nil
	}

	return r.fatal(ctx, StepImport, KindImportAbort, func(ctx context.Context) error {
		_, err := im.Import(ctx, tree.Tree, ev.Company.Name)
		return err
	})
}

func applyDefaultAccounts(ctx context.Context, repo Repository, resolver *DefaultsResolver, ev *Event, blueprints Blueprints) error {
	res, err := resolver.Resolve(ctx, ev.Company.Name, blueprints)
	if err != nil {
		return err
	}
	if err := repo.SetCompanyDefaults(ctx, ev.Company.Name, res.Defaults); err != nil {
		return err
	}
	ev.Report.Defaults.Merge(res.Defaults)
	if len(res.Skipped) > 0 {
		logger.FromContext(ctx).Infow("default accounts left unset", "fields", res.Skipped)
	}
	return nil
}

func applyStructural(ctx context.Context, repo Repository, resolver *StructuralResolver, ev *Event) error {
	d, err := resolver.Resolve(ctx, ev.Company.Name)
	if err != nil {
		return err
	}
	if err := repo.SetCompanyDefaults(ctx, ev.Company.Name, d); err != nil {
		return err
	}
	ev.Report.Defaults.Merge(d)
	return nil
}
