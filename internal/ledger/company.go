package ledger

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Company is the owning aggregate every account, cost center and warehouse hangs off.
type Company struct {
	Name            string    `json:"name"`
	Abbr            string    `json:"abbr"`
	Country         string    `json:"country"`
	DefaultCurrency string    `json:"default_currency"`
	ChartOfAccounts string    `json:"chart_of_accounts,omitempty"`
	Defaults        Defaults  `json:"defaults,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Validate checks the fields the lifecycle needs before insert.
func (c *Company) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: company name is required", ErrInvalidCompany)
	}
	if strings.TrimSpace(c.Abbr) == "" {
		return fmt.Errorf("%w: abbreviation is required", ErrInvalidCompany)
	}
	if c.DefaultCurrency != "" && !ValidCurrency(c.DefaultCurrency) {
		return fmt.Errorf("%w: %s", ErrInvalidCurrency, c.DefaultCurrency)
	}
	return nil
}

// Configuration fields on a company that provisioning may fill in.
const (
	FieldDefaultBankAccount             = "default_bank_account"
	FieldDefaultCashAccount             = "default_cash_account"
	FieldDefaultReceivableAccount       = "default_receivable_account"
	FieldDefaultPayableAccount          = "default_payable_account"
	FieldDefaultExpenseAccount          = "default_expense_account"
	FieldDefaultIncomeAccount           = "default_income_account"
	FieldDefaultDiscountAccount         = "default_discount_account"
	FieldDefaultDeferredRevenueAccount  = "default_deferred_revenue_account"
	FieldDefaultDeferredExpenseAccount  = "default_deferred_expense_account"
	FieldDefaultInventoryAccount        = "default_inventory_account"
	FieldDefaultProvisionalAccount      = "default_provisional_account"
	FieldDefaultOperatingCostAccount    = "default_operating_cost_account"
	FieldDefaultAdvanceReceivedAccount  = "default_advance_received_account"
	FieldDefaultAdvancePaidAccount      = "default_advance_paid_account"
	FieldPurchaseExpenseAccount         = "purchase_expense_account"
	FieldPurchaseExpenseContraAccount   = "purchase_expense_contra_account"
	FieldServiceExpenseAccount          = "service_expense_account"
	FieldStockAdjustmentAccount         = "stock_adjustment_account"
	FieldStockReceivedButNotBilled      = "stock_received_but_not_billed_account"
	FieldWriteOffAccount                = "write_off_account"
	FieldExchangeGainLossAccount        = "exchange_gain_loss_account"
	FieldUnrealizedExchangeGainLoss     = "unrealized_exchange_gain_loss_account"
	FieldUnrealizedProfitLossAccount    = "unrealized_profit_loss_account"
	FieldAccumulatedDepreciationAccount = "accumulated_depreciation_account"
	FieldDepreciationExpenseAccount     = "depreciation_expense_account"
	FieldDisposalAccount                = "disposal_account"
	FieldCapitalWorkInProgressAccount   = "capital_work_in_progress_account"
	FieldCostCenter                     = "cost_center"
	FieldRoundOffCostCenter             = "round_off_cost_center"
	FieldDepreciationCostCenter         = "depreciation_cost_center"
	FieldDefaultWIPWarehouse            = "default_wip_warehouse"
	FieldDefaultFGWarehouse             = "default_fg_warehouse"
	FieldDefaultInTransitWarehouse      = "default_in_transit_warehouse"
	FieldDefaultScrapWarehouse          = "default_scrap_warehouse"
)

// Defaults maps a company configuration field to the record it references.
// A field that is absent means "leave whatever is configured alone".
type Defaults map[string]string

// Merge copies every non-empty reference from other into d.
func (d Defaults) Merge(other Defaults) {
	for field, ref := range other {
		if ref != "" {
			d[field] = ref
		}
	}
}

// Fields returns the field names in a stable order.
func (d Defaults) Fields() []string {
	fields := make([]string, 0, len(d))
	for f := range d {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}
