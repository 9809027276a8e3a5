package provision

import (
	"context"
	"errors"
	"fmt"

	"github.com/simonvc/lbcoa/internal/ledger"
	"github.com/simonvc/lbcoa/internal/logger"
	"github.com/simonvc/lbcoa/internal/store"
)

const StepDefaultAccounts = "defaults.accounts"

// Resolution is the outcome of one default-account resolution.
type Resolution struct {
	Defaults ledger.Defaults
	Created  []string
	Writes   int
	// Skipped lists the fields no account could be found or created for.
	Skipped []string
}

// DefaultsResolver finds or creates the accounts a blueprint table points at and
// reconciles their classification.
type DefaultsResolver struct {
	repo Repository
}

func NewDefaultsResolver(repo Repository) *DefaultsResolver {
	return &DefaultsResolver{repo: repo}
}

// Resolve walks blueprints in order. Fields that cannot be resolved are left out of the
// returned defaults; callers must leave those fields untouched.
func (r *DefaultsResolver) Resolve(ctx context.Context, company string, blueprints Blueprints) (*Resolution, error) {
	log := logger.FromContext(ctx)
	res := &Resolution{Defaults: ledger.Defaults{}}
	byNumber := map[string]*ledger.Account{}

	for _, b := range blueprints {
		acct, created, err := r.ensure(ctx, company, b, byNumber)
		if err != nil {
			var se *StepError
			if errors.As(err, &se) && se.Kind == KindParentMissing {
				log.Warnw("default account skipped", "company", company, "field", b.Field, "error", err)
				res.Skipped = append(res.Skipped, b.Field)
				continue
			}
			return nil, fmt.Errorf("resolve %s: %w", b.Field, err)
		}
		if acct == nil {
			res.Skipped = append(res.Skipped, b.Field)
			continue
		}

		if created {
			res.Created = append(res.Created, acct.ID)
			res.Writes++
		} else {
			wrote, err := r.reconcile(ctx, acct, b)
			if err != nil {
				return nil, fmt.Errorf("reconcile %s: %w", b.Field, err)
			}
			if wrote {
				res.Writes++
			}
		}
		res.Defaults[b.Field] = acct.ID
	}
	return res, nil
}

func (r *DefaultsResolver) ensure(ctx context.Context, company string, b Blueprint, byNumber map[string]*ledger.Account) (*ledger.Account, bool, error) {
	if b.AccountNumber != "" {
		if acct, ok := byNumber[b.AccountNumber]; ok {
			return acct, false, nil
		}
		acct, err := r.find(ctx, store.AccountFilter{Company: company, AccountNumber: b.AccountNumber})
		if err != nil {
			return nil, false, err
		}
		if acct != nil {
			byNumber[b.AccountNumber] = acct
			return acct, false, nil
		}
	}

	if b.AccountName != "" {
		acct, err := r.find(ctx, store.AccountFilter{Company: company, AccountName: b.AccountName})
		if err != nil || acct != nil {
			return acct, false, err
		}
	}

	if !b.CreateIfMissing {
		return nil, false, nil
	}

	acct, err := r.create(ctx, company, b)
	if err != nil {
		return nil, false, err
	}
	if b.AccountNumber != "" {
		byNumber[b.AccountNumber] = acct
	}
	return acct, true, nil
}

func (r *DefaultsResolver) find(ctx context.Context, filter store.AccountFilter) (*ledger.Account, error) {
	acct, err := r.repo.FindAccount(ctx, filter)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return nil, nil
	}
	return acct, err
}

func (r *DefaultsResolver) create(ctx context.Context, company string, b Blueprint) (*ledger.Account, error) {
	if b.ParentAccountNumber == "" {
		return nil, &StepError{Step: StepDefaultAccounts, Kind: KindParentMissing,
			Message: fmt.Sprintf("cannot create %s without a parent account number", b.AccountNumber)}
	}
	parent, err := r.find(ctx, store.AccountFilter{Company: company, AccountNumber: b.ParentAccountNumber})
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, &StepError{Step: StepDefaultAccounts, Kind: KindParentMissing,
			Message: fmt.Sprintf("parent %s not found while creating %s", b.ParentAccountNumber, b.AccountNumber)}
	}

	c, err := r.repo.GetCompany(ctx, company)
	if err != nil {
		return nil, err
	}

	root := b.RootType
	if root == "" {
		root = parent.RootType
	}
	report := b.ReportType
	if report == "" {
		report = ledger.ReportTypeFor(root)
	}
	name := b.AccountName
	if name == "" {
		name = b.AccountNumber
	}

	acct := &ledger.Account{
		Company:       company,
		AccountNumber: b.AccountNumber,
		AccountName:   name,
		ParentID:      parent.ID,
		RootType:      root,
		ReportType:    report,
		AccountType:   b.AccountType,
		Currency:      c.DefaultCurrency,
	}
	if err := r.repo.CreateAccount(ctx, acct, false); err != nil {
		return nil, err
	}
	return acct, nil
}

// reconcile rewrites only the classification fields that differ from the blueprint.
func (r *DefaultsResolver) reconcile(ctx context.Context, acct *ledger.Account, b Blueprint) (bool, error) {
	var u store.AccountUpdate
	if b.AccountType != "" && acct.AccountType != b.AccountType {
		u.AccountType = &b.AccountType
	}
	if b.RootType != "" && acct.RootType != b.RootType {
		u.RootType = &b.RootType
	}
	if report := b.DesiredReportType(); report != "" && acct.ReportType != report {
		u.ReportType = &report
	}
	if u.Empty() {
		return false, nil
	}

	if err := r.repo.UpdateAccount(ctx, acct.ID, u); err != nil {
		return false, err
	}
	if u.AccountType != nil {
		acct.AccountType = *u.AccountType
	}
	if u.RootType != nil {
		acct.RootType = *u.RootType
	}
	if u.ReportType != nil {
		acct.ReportType = *u.ReportType
	}
	return true, nil
}
