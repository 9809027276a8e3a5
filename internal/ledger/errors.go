package ledger

import "errors"

var (
	ErrInvalidAccount      = errors.New("invalid account")
	ErrInvalidRootType     = errors.New("invalid root type")
	ErrReportTypeMismatch  = errors.New("report type does not match root type")
	ErrInvalidCurrency     = errors.New("invalid or unsupported currency code")
	ErrAccountNotFound     = errors.New("account not found")
	ErrDuplicateAccount    = errors.New("account already exists")
	ErrCompanyNotFound     = errors.New("company not found")
	ErrDuplicateCompany    = errors.New("company already exists")
	ErrInvalidCompany      = errors.New("invalid company")
	ErrCostCenterNotFound  = errors.New("cost center not found")
	ErrWarehouseNotFound   = errors.New("warehouse not found")
	ErrTaxTemplateNotFound = errors.New("tax template not found")
	ErrChartNotFound       = errors.New("chart of accounts not found")
)
