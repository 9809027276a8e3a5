package ledger

// ChartEntry is one account of the built-in standard chart the host installs when no
// localized chart applies. Parent is the account number of the enclosing group, empty
// for root groups.
type ChartEntry struct {
	Number      string      `json:"account_number"`
	Name        string      `json:"account_name"`
	Parent      string      `json:"parent,omitempty"`
	RootType    RootType    `json:"root_type"`
	AccountType AccountType `json:"account_type,omitempty"`
	IsGroup     bool        `json:"is_group"`
}

const StandardChartName = "Standard"

// StandardChart is a minimal IFRS-style chart of accounts.
var StandardChart = []ChartEntry{
	{Number: "1000", Name: "Application of Funds (Assets)", RootType: RootAsset, IsGroup: true},
	{Number: "1100", Name: "Current Assets", Parent: "1000", RootType: RootAsset, IsGroup: true},
	{Number: "1110", Name: "Cash", Parent: "1100", RootType: RootAsset, AccountType: TypeCash},
	{Number: "1120", Name: "Bank Accounts", Parent: "1100", RootType: RootAsset, AccountType: TypeBank},
	{Number: "1130", Name: "Debtors", Parent: "1100", RootType: RootAsset, AccountType: TypeReceivable},
	{Number: "1140", Name: "Stock In Hand", Parent: "1100", RootType: RootAsset, AccountType: TypeStock},
	{Number: "1200", Name: "Fixed Assets", Parent: "1000", RootType: RootAsset, IsGroup: true},
	{Number: "1210", Name: "Property, Plant & Equipment", Parent: "1200", RootType: RootAsset, AccountType: TypeFixedAsset},

	{Number: "2000", Name: "Source of Funds (Liabilities)", RootType: RootLiability, IsGroup: true},
	{Number: "2100", Name: "Current Liabilities", Parent: "2000", RootType: RootLiability, IsGroup: true},
	{Number: "2110", Name: "Creditors", Parent: "2100", RootType: RootLiability, AccountType: TypePayable},
	{Number: "2120", Name: "Duties and Taxes", Parent: "2100", RootType: RootLiability, AccountType: TypeTax},

	{Number: "3000", Name: "Equity", RootType: RootEquity, IsGroup: true},
	{Number: "3100", Name: "Capital Stock", Parent: "3000", RootType: RootEquity, AccountType: TypeEquity},
	{Number: "3200", Name: "Retained Earnings", Parent: "3000", RootType: RootEquity},

	{Number: "4000", Name: "Income", RootType: RootIncome, IsGroup: true},
	{Number: "4100", Name: "Sales", Parent: "4000", RootType: RootIncome, AccountType: TypeIncomeAccount},
	{Number: "4200", Name: "Service", Parent: "4000", RootType: RootIncome, AccountType: TypeIncomeAccount},

	{Number: "5000", Name: "Expenses", RootType: RootExpense, IsGroup: true},
	{Number: "5100", Name: "Cost of Goods Sold", Parent: "5000", RootType: RootExpense, AccountType: TypeCostOfGoodsSold},
	{Number: "5200", Name: "Administrative Expenses", Parent: "5000", RootType: RootExpense, AccountType: TypeExpenseAccount},
	{Number: "5300", Name: "Depreciation", Parent: "5000", RootType: RootExpense, AccountType: TypeDepreciation},
	{Number: "5400", Name: "Round Off", Parent: "5000", RootType: RootExpense, AccountType: TypeRoundOff},
}

// LookupChartEntry finds a standard chart entry by account number.
func LookupChartEntry(number string) *ChartEntry {
	for i := range StandardChart {
		if StandardChart[i].Number == number {
			return &StandardChart[i]
		}
	}
	return nil
}
