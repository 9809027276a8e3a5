package provision

import (
	"context"

	"github.com/simonvc/lbcoa/internal/ledger"
)

// Flags carry transient intent through one lifecycle event.
type Flags struct {
	AllowUnverifiedCharts bool `json:"allow_unverified_charts"`
	SkipTaxTemplate       bool `json:"skip_tax_template"`
}

// Event is threaded through every hook of one company lifecycle event.
type Event struct {
	Company *ledger.Company
	Flags   Flags
	Report  *Report
}

func NewEvent(c *ledger.Company, flags Flags) *Event {
	return &Event{Company: c, Flags: flags, Report: NewReport(c.Name)}
}

// Hooks is the capability the company lifecycle calls at each stage. ProvisionAccounts
// runs inside the transaction that inserts the company; ProvisionTaxTemplate runs after
// it commits.
type Hooks interface {
	Validate(ctx context.Context, ev *Event) error
	ProvisionAccounts(ctx context.Context, ev *Event) error
	ProvisionTaxTemplate(ctx context.Context, ev *Event) error
}
