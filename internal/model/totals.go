package model

import (
	"github.com/shopspring/decimal"
)

// Totals are the reconciled figures of a built document, at aggregate precision
type Totals struct {
	TotalNotSubject decimal.Decimal `json:"total_not_subject"`
	TotalExempt     decimal.Decimal `json:"total_exempt"`
	TotalTaxed      decimal.Decimal `json:"total_taxed"`
	SalesSubtotal   decimal.Decimal `json:"sales_subtotal"`
	ItemDiscount    decimal.Decimal `json:"item_discount"`
	TotalDiscount   decimal.Decimal `json:"total_discount"`
	TotalTax        decimal.Decimal `json:"total_tax"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	TotalOperation  decimal.Decimal `json:"total_operation"`
	TotalPayable    decimal.Decimal `json:"total_payable"`
	AmountInWords   string          `json:"amount_in_words"`
}
