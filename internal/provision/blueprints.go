package provision

import (
	"errors"
	"fmt"

	"github.com/simonvc/lbcoa/internal/ledger"
)

// Blueprint describes how to find, or create, the account one company field points at.
type Blueprint struct {
	Field               string
	AccountNumber       string
	AccountName         string
	AccountType         ledger.AccountType
	RootType            ledger.RootType
	ReportType          ledger.ReportType
	CreateIfMissing     bool
	ParentAccountNumber string
}

// DesiredReportType is the explicit report type, or the one implied by the root type.
func (b Blueprint) DesiredReportType() ledger.ReportType {
	if b.ReportType != "" {
		return b.ReportType
	}
	if b.RootType != "" {
		return ledger.ReportTypeFor(b.RootType)
	}
	return ""
}

type Blueprints []Blueprint

var errBadBlueprint = errors.New("invalid blueprint")

// Validate checks the table shape once, at construction time.
func (bs Blueprints) Validate() error {
	fields := map[string]bool{}
	for i, b := range bs {
		if b.Field == "" {
			return fmt.Errorf("%w: entry %d has no field", errBadBlueprint, i)
		}
		if fields[b.Field] {
			return fmt.Errorf("%w: field %s listed twice", errBadBlueprint, b.Field)
		}
		fields[b.Field] = true

		if b.AccountNumber == "" && b.AccountName == "" {
			return fmt.Errorf("%w: %s needs an account number or name", errBadBlueprint, b.Field)
		}
		if b.RootType != "" && !ledger.ValidRootType(b.RootType) {
			return fmt.Errorf("%w: %s: %w", errBadBlueprint, b.Field, ledger.ErrInvalidRootType)
		}
		if b.ReportType != "" && b.ReportType != ledger.ReportBalanceSheet && b.ReportType != ledger.ReportProfitAndLoss {
			return fmt.Errorf("%w: %s: unknown report type %q", errBadBlueprint, b.Field, b.ReportType)
		}
		if b.RootType != "" && b.ReportType != "" && ledger.ReportTypeFor(b.RootType) != b.ReportType {
			return fmt.Errorf("%w: %s: %w", errBadBlueprint, b.Field, ledger.ErrReportTypeMismatch)
		}
	}
	return nil
}

// LebaneseAccounts wires the company's default-account fields to the Lebanese chart.
var LebaneseAccounts = Blueprints{
	{Field: ledger.FieldDefaultBankAccount, AccountNumber: "5121", AccountType: ledger.TypeBank},
	{Field: ledger.FieldDefaultCashAccount, AccountNumber: "5300", AccountType: ledger.TypeCash},
	{Field: ledger.FieldDefaultReceivableAccount, AccountNumber: "4111", AccountType: ledger.TypeReceivable, RootType: ledger.RootAsset, ReportType: ledger.ReportBalanceSheet},
	{Field: ledger.FieldDefaultPayableAccount, AccountNumber: "4011", AccountType: ledger.TypePayable, RootType: ledger.RootLiability, ReportType: ledger.ReportBalanceSheet},
	{Field: ledger.FieldDefaultExpenseAccount, AccountNumber: "6011", AccountType: ledger.TypeCostOfGoodsSold, ReportType: ledger.ReportProfitAndLoss},
	{Field: ledger.FieldDefaultIncomeAccount, AccountNumber: "701", AccountType: ledger.TypeIncomeAccount, ReportType: ledger.ReportProfitAndLoss},
	{Field: ledger.FieldDefaultDiscountAccount, AccountNumber: "4119", AccountType: ledger.TypeReceivable, RootType: ledger.RootAsset, ReportType: ledger.ReportBalanceSheet},
	{Field: ledger.FieldDefaultDeferredRevenueAccount, AccountNumber: "473"},
	{Field: ledger.FieldDefaultDeferredExpenseAccount, AccountNumber: "472"},
	{Field: ledger.FieldDefaultInventoryAccount, AccountNumber: "31", AccountType: ledger.TypeStock},
	{Field: ledger.FieldDefaultProvisionalAccount, AccountNumber: "474"},
	{Field: ledger.FieldDefaultOperatingCostAccount, AccountNumber: "6263.9", AccountType: ledger.TypeExpenseAccount},
	{Field: ledger.FieldDefaultAdvanceReceivedAccount, AccountNumber: "4191", AccountType: ledger.TypeReceivable},
	{Field: ledger.FieldDefaultAdvancePaidAccount, AccountNumber: "4091", AccountType: ledger.TypePayable},
	{Field: ledger.FieldPurchaseExpenseAccount, AccountNumber: "6011", AccountType: ledger.TypeCostOfGoodsSold, ReportType: ledger.ReportProfitAndLoss},
	{Field: ledger.FieldPurchaseExpenseContraAccount, AccountNumber: "6019", AccountType: ledger.TypeExpenseAccount},
	{Field: ledger.FieldServiceExpenseAccount, AccountNumber: "6261.5", AccountType: ledger.TypeExpenseAccount},
	{Field: ledger.FieldStockAdjustmentAccount, AccountNumber: "6052", AccountType: ledger.TypeStockAdjustment, RootType: ledger.RootExpense, ReportType: ledger.ReportProfitAndLoss},
	{Field: ledger.FieldStockReceivedButNotBilled, AccountNumber: "33", AccountType: ledger.TypeStockReceivedNotBilled, RootType: ledger.RootLiability, ReportType: ledger.ReportBalanceSheet},
	{Field: ledger.FieldWriteOffAccount, AccountNumber: "6851.5", AccountType: ledger.TypeExpenseAccount},
	{Field: ledger.FieldExchangeGainLossAccount, AccountNumber: "6751", AccountType: ledger.TypeExpenseAccount, RootType: ledger.RootExpense, ReportType: ledger.ReportProfitAndLoss},
	{Field: ledger.FieldUnrealizedExchangeGainLoss, AccountNumber: "476"},
	{Field: ledger.FieldUnrealizedProfitLossAccount, AccountNumber: "475"},
	{Field: ledger.FieldAccumulatedDepreciationAccount, AccountNumber: "2823", AccountType: ledger.TypeAccumulatedDepreciation},
	{Field: ledger.FieldDepreciationExpenseAccount, AccountNumber: "6512.4", AccountType: ledger.TypeDepreciation},
	{Field: ledger.FieldDisposalAccount, AccountNumber: "7819", ReportType: ledger.ReportProfitAndLoss},
	{Field: ledger.FieldCapitalWorkInProgressAccount, AccountNumber: "2274", AccountType: ledger.TypeCapitalWorkInProgress},
}

// StandardAccounts wires the same fields to the built-in standard chart.
var StandardAccounts = Blueprints{
	{Field: ledger.FieldDefaultBankAccount, AccountNumber: "1120", AccountType: ledger.TypeBank},
	{Field: ledger.FieldDefaultCashAccount, AccountNumber: "1110", AccountType: ledger.TypeCash},
	{Field: ledger.FieldDefaultReceivableAccount, AccountNumber: "1130", AccountType: ledger.TypeReceivable},
	{Field: ledger.FieldDefaultPayableAccount, AccountNumber: "2110", AccountType: ledger.TypePayable},
	{Field: ledger.FieldDefaultExpenseAccount, AccountNumber: "5100", AccountType: ledger.TypeCostOfGoodsSold},
	{Field: ledger.FieldDefaultIncomeAccount, AccountNumber: "4100", AccountType: ledger.TypeIncomeAccount},
	{Field: ledger.FieldDefaultInventoryAccount, AccountNumber: "1140", AccountType: ledger.TypeStock},
	{Field: ledger.FieldDepreciationExpenseAccount, AccountNumber: "5300", AccountType: ledger.TypeDepreciation},
	{Field: ledger.FieldWriteOffAccount, AccountNumber: "5200"},
}

// WarehouseBlueprint names one semantic warehouse a company needs.
type WarehouseBlueprint struct {
	Field         string
	WarehouseName string
	WarehouseType string
}

var DefaultWarehouses = []WarehouseBlueprint{
	{Field: ledger.FieldDefaultWIPWarehouse, WarehouseName: "Work In Progress"},
	{Field: ledger.FieldDefaultFGWarehouse, WarehouseName: "Finished Goods"},
	{Field: ledger.FieldDefaultInTransitWarehouse, WarehouseName: "Goods In Transit", WarehouseType: ledger.WarehouseTypeTransit},
	{Field: ledger.FieldDefaultScrapWarehouse, WarehouseName: "Scrap", WarehouseType: ledger.WarehouseTypeScrap},
}
