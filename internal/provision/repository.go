package provision

import (
	"context"

	"github.com/simonvc/lbcoa/internal/ledger"
	"github.com/simonvc/lbcoa/internal/store"
)

// Repository is the persistence surface provisioning reads and writes through.
// *store.Store implements it.
type Repository interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	Savepoint(ctx context.Context, fn func(ctx context.Context) error) error
	Sync(ctx context.Context) error

	GetCompany(ctx context.Context, name string) (*ledger.Company, error)
	SetCompanyDefaults(ctx context.Context, company string, d ledger.Defaults) error

	CreateAccount(ctx context.Context, acct *ledger.Account, ignoreMandatory bool) error
	FindAccount(ctx context.Context, filter store.AccountFilter) (*ledger.Account, error)
	UpdateAccount(ctx context.Context, id string, u store.AccountUpdate) error
	CountAccounts(ctx context.Context, company string) (int, error)
	RebuildAccountTree(ctx context.Context, company string) error

	CreateCostCenter(ctx context.Context, cc *ledger.CostCenter) error
	CostCenterExists(ctx context.Context, id string) (bool, error)
	FindCostCenter(ctx context.Context, filter store.CostCenterFilter) (*ledger.CostCenter, error)

	CreateWarehouse(ctx context.Context, w *ledger.Warehouse) error
	FindWarehouse(ctx context.Context, filter store.WarehouseFilter) (*ledger.Warehouse, error)
	EnsureWarehouseType(ctx context.Context, name string) error

	CreateTaxTemplate(ctx context.Context, t *ledger.TaxTemplate) error
	FindTaxTemplate(ctx context.Context, title, company string, kind ledger.TaxKind) (*ledger.TaxTemplate, error)
}

var _ Repository = (*store.Store)(nil)
