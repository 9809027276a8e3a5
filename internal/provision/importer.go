package provision

import (
	"context"
	"fmt"
	"strings"

	"github.com/simonvc/lbcoa/internal/chart"
	"github.com/simonvc/lbcoa/internal/ledger"
	"github.com/simonvc/lbcoa/internal/logger"
)

const StepImport = "chart.import"

// Importer materializes a chart tree as a company's account records.
type Importer struct {
	repo Repository
}

func NewImporter(repo Repository) *Importer {
	return &Importer{repo: repo}
}

// Import creates one account per tree node under company, parents before children,
// and returns the created account ids in creation order. Every insert happens inside
// one transaction; the nested-set bounds are rebuilt once after the last insert. Any
// failure aborts the whole import.
func (im *Importer) Import(ctx context.Context, tree *chart.Node, company string) ([]string, error) {
	if tree == nil {
		return nil, &StepError{Step: StepImport, Kind: KindConfigNotFound, Message: "chart has no tree"}
	}

	var created []string
	err := im.repo.RunInTransaction(ctx, func(ctx context.Context) error {
		c, err := im.repo.GetCompany(ctx, company)
		if err != nil {
			return err
		}

		w := &importWalk{
			repo:     im.repo,
			company:  c,
			seen:     map[string]int{},
			accounts: &created,
		}
		if err := w.children(ctx, tree, "", "", true); err != nil {
			return err
		}
		return im.repo.RebuildAccountTree(ctx, company)
	})
	if err != nil {
		return nil, &StepError{Step: StepImport, Kind: KindOf(err, KindImportAbort), Message: "chart import aborted", Err: err}
	}

	logger.FromContext(ctx).Infow("chart imported", "company", company, "accounts", len(created))
	return created, nil
}

type importWalk struct {
	repo     Repository
	company  *ledger.Company
	seen     map[string]int
	accounts *[]string
}

func (w *importWalk) children(ctx context.Context, node *chart.Node, parentID string, rootType ledger.RootType, rootAccount bool) error {
	for _, child := range node.Children {
		current := rootType
		if rootAccount && child.RootType != "" {
			current = child.RootType
		}

		isGroup := child.IsGroup()
		accountType := child.AccountType
		if accountType == "" && !isGroup {
			switch current {
			case ledger.RootIncome:
				accountType = ledger.TypeIncomeAccount
			case ledger.RootExpense:
				accountType = ledger.TypeExpenseAccount
			}
		}

		currency := child.AccountCurrency
		if currency == "" {
			currency = w.company.DefaultCurrency
		}

		acct := &ledger.Account{
			Company:       w.company.Name,
			AccountNumber: child.AccountNumber,
			AccountName:   w.uniqueName(child.Key, child.AccountNumber),
			ParentID:      parentID,
			IsGroup:       isGroup,
			RootType:      current,
			ReportType:    ledger.ReportTypeFor(current),
			AccountType:   accountType,
			Currency:      currency,
			TaxRate:       child.TaxRate,
		}
		if err := w.repo.CreateAccount(ctx, acct, rootAccount); err != nil {
			return fmt.Errorf("create account %q: %w", child.Value(), err)
		}
		*w.accounts = append(*w.accounts, acct.ID)

		if err := w.children(ctx, child, acct.ID, current, false); err != nil {
			return err
		}
	}
	return nil
}

// uniqueName suffixes a name that already occurred in this import with the number of
// earlier occurrences: "Misc", "Misc 1", "Misc 2".
func (w *importWalk) uniqueName(name, number string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if number != "" {
		key = number + " - " + key
	}
	n := w.seen[key]
	w.seen[key]++
	if n == 0 {
		return name
	}
	return fmt.Sprintf("%s %d", name, n)
}
