package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

type TaxKind string

const (
	TaxKindSales    TaxKind = "Sales"
	TaxKindPurchase TaxKind = "Purchase"
)

// TaxRow charges Rate percent against an account.
type TaxRow struct {
	AccountID   string          `json:"account_head"`
	Rate        decimal.Decimal `json:"rate"`
	Description string          `json:"description"`
}

// TaxTemplate is a sales or purchase taxes-and-charges template.
type TaxTemplate struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Company   string    `json:"company"`
	Kind      TaxKind   `json:"kind"`
	IsDefault bool      `json:"is_default"`
	Rows      []TaxRow  `json:"taxes"`
	CreatedAt time.Time `json:"created_at"`
}
