package provision

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/simonvc/lbcoa/internal/ledger"
	"github.com/simonvc/lbcoa/internal/logger"
	"github.com/simonvc/lbcoa/internal/store"
)

// TaxTemplateSpec describes a single-row tax template charged against one account.
type TaxTemplateSpec struct {
	Step          string
	Title         string
	Kind          ledger.TaxKind
	AccountNumber string
	Rate          decimal.Decimal
	Description   string
}

var LebaneseTaxTemplates = []TaxTemplateSpec{
	{
		Step:          "tax_template.sales",
		Title:         "Lebanon VAT 11%",
		Kind:          ledger.TaxKindSales,
		AccountNumber: "4427",
		Rate:          decimal.NewFromInt(11),
		Description:   "VAT 11%",
	},
	{
		Step:          "tax_template.purchase",
		Title:         "Lebanon VAT 11%",
		Kind:          ledger.TaxKindPurchase,
		AccountNumber: "4426",
		Rate:          decimal.NewFromInt(11),
		Description:   "VAT 11%",
	},
}

const defaultLookupAttempts = 3

// TaxTemplates creates tax templates idempotently by (title, company, kind).
type TaxTemplates struct {
	repo     Repository
	attempts int
	backoff  time.Duration
}

func NewTaxTemplates(repo Repository) *TaxTemplates {
	return &TaxTemplates{repo: repo, attempts: defaultLookupAttempts, backoff: 50 * time.Millisecond}
}

// Ensure returns the existing template or creates it. created reports which.
func (t *TaxTemplates) Ensure(ctx context.Context, company string, spec TaxTemplateSpec) (tpl *ledger.TaxTemplate, created bool, err error) {
	existing, err := t.repo.FindTaxTemplate(ctx, spec.Title, company, spec.Kind)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ledger.ErrTaxTemplateNotFound) {
		return nil, false, err
	}

	acct, err := t.lookupAccount(ctx, company, spec.AccountNumber)
	if err != nil {
		return nil, false, err
	}

	tpl = &ledger.TaxTemplate{
		Title:     spec.Title,
		Company:   company,
		Kind:      spec.Kind,
		IsDefault: true,
		Rows: []ledger.TaxRow{{
			AccountID:   acct.ID,
			Rate:        spec.Rate,
			Description: spec.Description,
		}},
	}
	if err := t.repo.CreateTaxTemplate(ctx, tpl); err != nil {
		return nil, false, err
	}
	return tpl, true, nil
}

// lookupAccount retries a few times, syncing the store between attempts, so accounts
// committed by an earlier step are visible to this read. Inside a transaction every
// read sees the same writes, so a single attempt is made.
func (t *TaxTemplates) lookupAccount(ctx context.Context, company, number string) (*ledger.Account, error) {
	attempts := t.attempts
	if store.InTransaction(ctx) {
		attempts = 1
	}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		acct, err := t.repo.FindAccount(ctx, store.AccountFilter{Company: company, AccountNumber: number})
		if err == nil {
			return acct, nil
		}
		if !errors.Is(err, ledger.ErrAccountNotFound) {
			return nil, err
		}
		lastErr = err

		if attempt == attempts {
			break
		}
		logger.FromContext(ctx).Debugw("tax account not visible yet", "company", company, "account_number", number, "attempt", attempt)
		if err := t.repo.Sync(ctx); err != nil {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(t.backoff):
		}
	}
	return nil, &StepError{
		Step:    "tax_template",
		Kind:    KindPartialProvisioning,
		Message: fmt.Sprintf("account %s not found after %d attempts", number, attempts),
		Err:     lastErr,
	}
}
