// Package company runs the company lifecycle: validate, insert, provision accounts,
// provision the tax template.
package company

import (
	"context"
	"fmt"

	"github.com/simonvc/lbcoa/internal/ledger"
	"github.com/simonvc/lbcoa/internal/logger"
	"github.com/simonvc/lbcoa/internal/provision"
)

// Repository is the persistence the lifecycle needs. *store.Store implements it.
type Repository interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	CreateCompany(ctx context.Context, c *ledger.Company) error
	UpdateCompany(ctx context.Context, c *ledger.Company) error
	GetCompany(ctx context.Context, name string) (*ledger.Company, error)
}

type Service struct {
	repo  Repository
	hooks provision.Hooks
}

// NewService registers hooks as the lifecycle's provisioning capability.
func NewService(repo Repository, hooks provision.Hooks) *Service {
	return &Service{repo: repo, hooks: hooks}
}

// Create validates c, inserts it and provisions its accounts in one transaction, then
// provisions its tax template. A failure before commit leaves no company behind. The
// returned report lists every provisioning step, including isolated failures.
func (s *Service) Create(ctx context.Context, c *ledger.Company, flags provision.Flags) (*provision.Report, error) {
	ev := provision.NewEvent(c, flags)
	log := logger.FromContext(ctx).With("company", c.Name, "run_id", ev.Report.RunID)
	ctx = logger.ToContext(ctx, log)

	if err := s.hooks.Validate(ctx, ev); err != nil {
		return nil, fmt.Errorf("validate company: %w", err)
	}

	err := s.repo.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.CreateCompany(ctx, c); err != nil {
			return err
		}
		return s.hooks.ProvisionAccounts(ctx, ev)
	})
	if err != nil {
		return ev.Report, fmt.Errorf("create company %s: %w", c.Name, err)
	}

	s.provisionTaxTemplate(ctx, ev)
	log.Infow("company created", "chart", c.ChartOfAccounts, "lebanese", ev.Report.Lebanese, "failed_steps", len(ev.Report.Failed()))
	return ev.Report, nil
}

// Update saves the mutable fields of an existing company and re-runs provisioning.
// Empty fields keep their stored values. The chart is imported only if the company has
// no accounts yet; default resolution is idempotent.
func (s *Service) Update(ctx context.Context, c *ledger.Company, flags provision.Flags) (*provision.Report, error) {
	stored, err := s.repo.GetCompany(ctx, c.Name)
	if err != nil {
		return nil, err
	}
	keep(&c.Abbr, stored.Abbr)
	keep(&c.Country, stored.Country)
	keep(&c.DefaultCurrency, stored.DefaultCurrency)
	keep(&c.ChartOfAccounts, stored.ChartOfAccounts)

	ev := provision.NewEvent(c, flags)
	log := logger.FromContext(ctx).With("company", c.Name, "run_id", ev.Report.RunID)
	ctx = logger.ToContext(ctx, log)

	if err := s.hooks.Validate(ctx, ev); err != nil {
		return nil, fmt.Errorf("validate company: %w", err)
	}

	err = s.repo.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.UpdateCompany(ctx, c); err != nil {
			return err
		}
		return s.hooks.ProvisionAccounts(ctx, ev)
	})
	if err != nil {
		return ev.Report, fmt.Errorf("update company %s: %w", c.Name, err)
	}

	s.provisionTaxTemplate(ctx, ev)
	log.Infow("company provisioned", "failed_steps", len(ev.Report.Failed()))
	return ev.Report, nil
}

// Provision re-runs provisioning for a stored company.
func (s *Service) Provision(ctx context.Context, name string, flags provision.Flags) (*provision.Report, error) {
	c, err := s.repo.GetCompany(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.Update(ctx, c, flags)
}

func (s *Service) provisionTaxTemplate(ctx context.Context, ev *provision.Event) {
	if err := s.hooks.ProvisionTaxTemplate(ctx, ev); err != nil {
		logger.FromContext(ctx).Warnw("tax template provisioning failed", "error", err)
	}
}

func keep(field *string, stored string) {
	if *field == "" {
		*field = stored
	}
}
