// Package setup runs the first-run setup wizard: presets, the first company, system
// defaults and wrap-up.
package setup

import (
	"context"
	"errors"
	"fmt"

	"github.com/simonvc/lbcoa/internal/ledger"
	"github.com/simonvc/lbcoa/internal/logger"
	"github.com/simonvc/lbcoa/internal/provision"
	"github.com/simonvc/lbcoa/internal/store"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
	HomePage      = "/desk"
)

var ErrMissingCompanyName = errors.New("company name is required")

// Repository is the persistence the wizard writes to. *store.Store implements it.
type Repository interface {
	CountCompanies(ctx context.Context) (int, error)
	EnsureWarehouseType(ctx context.Context, name string) error
	UpsertSetting(ctx context.Context, key, value string) error
}

// Companies creates the wizard's company. *company.Service implements it.
type Companies interface {
	Create(ctx context.Context, c *ledger.Company, flags provision.Flags) (*provision.Report, error)
}

// Stage is one step of the wizard as shown to the user.
type Stage struct {
	Status  string
	FailMsg string
	run     func(ctx context.Context) error
}

// Result is the wizard outcome returned to the caller.
type Result struct {
	Status   string            `json:"status"`
	Message  string            `json:"message"`
	HomePage string            `json:"home_page,omitempty"`
	Report   *provision.Report `json:"report,omitempty"`
}

type Wizard struct {
	repo      Repository
	companies Companies
}

func New(repo Repository, companies Companies) *Wizard {
	return &Wizard{repo: repo, companies: companies}
}

// session carries one wizard run's arguments and the report of the company it creates.
type session struct {
	w      *Wizard
	args   *Args
	report *provision.Report
}

// Stages lists the stages that will run. Only wrap-up runs once a company exists.
func (w *Wizard) Stages(args *Args, hasCompany bool) []Stage {
	return w.stages(&session{w: w, args: args}, hasCompany)
}

func (w *Wizard) stages(s *session, hasCompany bool) []Stage {
	wrapUp := Stage{Status: "Wrapping up", FailMsg: "Failed to login", run: s.wrapUp}
	if hasCompany {
		return []Stage{wrapUp}
	}
	return []Stage{
		{Status: "Installing presets", FailMsg: "Failed to install presets", run: s.installPresets},
		{Status: "Setting up company", FailMsg: "Failed to setup company", run: s.setupCompany},
		{Status: "Setting defaults", FailMsg: "Failed to setup defaults", run: s.setupDefaults},
		wrapUp,
	}
}

// Complete normalizes args and runs every stage. Failures are reported in the result,
// never returned.
func (w *Wizard) Complete(ctx context.Context, args Args) Result {
	log := logger.FromContext(ctx).WithComponent("setup")
	args.Normalize()

	n, err := w.repo.CountCompanies(ctx)
	if err != nil {
		log.Errorw("setup failed", "error", err)
		return Result{Status: StatusError, Message: err.Error()}
	}

	s := &session{w: w, args: &args}
	for _, stage := range w.stages(s, n > 0) {
		log.Infow("setup stage", "status", stage.Status)
		if err := stage.run(ctx); err != nil {
			log.Errorw(stage.FailMsg, "status", stage.Status, "error", err)
			return Result{Status: StatusError, Message: err.Error(), Report: s.report}
		}
	}
	return Result{Status: StatusSuccess, Message: "Setup Completed", HomePage: HomePage, Report: s.report}
}

func (s *session) installPresets(ctx context.Context) error {
	for _, t := range []string{ledger.WarehouseTypeTransit, ledger.WarehouseTypeScrap} {
		if err := s.w.repo.EnsureWarehouseType(ctx, t); err != nil {
			return fmt.Errorf("warehouse type %s: %w", t, err)
		}
	}
	return nil
}

func (s *session) setupCompany(ctx context.Context) error {
	if s.args.CompanyName == "" {
		return ErrMissingCompanyName
	}
	c := &ledger.Company{
		Name:            s.args.CompanyName,
		Abbr:            s.args.CompanyAbbr,
		Country:         s.args.Country,
		DefaultCurrency: s.args.Currency,
		ChartOfAccounts: s.args.ChartOfAccounts,
	}
	report, err := s.w.companies.Create(ctx, c, provision.Flags{AllowUnverifiedCharts: true})
	s.report = report
	if err != nil {
		return err
	}
	// Validation may have filled these in.
	s.args.Currency = c.DefaultCurrency
	s.args.ChartOfAccounts = c.ChartOfAccounts
	return nil
}

func (s *session) setupDefaults(ctx context.Context) error {
	settings := [][2]string{
		{store.SettingDefaultCompany, s.args.CompanyName},
		{store.SettingDefaultCurrency, s.args.Currency},
		{store.SettingCountry, s.args.Country},
	}
	for _, kv := range settings {
		if kv[1] == "" {
			continue
		}
		if err := s.w.repo.UpsertSetting(ctx, kv[0], kv[1]); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) wrapUp(ctx context.Context) error {
	if err := s.w.repo.UpsertSetting(ctx, store.SettingSetupComplete, "1"); err != nil {
		return err
	}
	if s.args.Email != "" {
		logger.FromContext(ctx).Infow("setup completed", "user", s.args.Email)
	}
	return nil
}
