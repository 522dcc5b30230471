package models

import (
	"strings"

	"mydata/epsilon-export/internal/textutils"
)

// Credential is the per-client configuration entry. Only the fields used by
// the export are modelled; loosely typed values are interpreted by the helpers.
type Credential struct {
	VAT                      string           `json:"vat" yaml:"vat"`
	ApodeixakiaType          string           `json:"apodeixakia_type" yaml:"apodeixakia_type"`
	ApodeixakiaSupplier      interface{}      `json:"apodeixakia_supplier" yaml:"apodeixakia_supplier"`
	ApodeixakiaOtherExpenses interface{}      `json:"apodeixakia_other_expenses" yaml:"apodeixakia_other_expenses"`
	CustomCategories         []CustomCategory `json:"custom_categories" yaml:"custom_categories"`
}

// CustomCategory is an operator-defined category with one account per VAT rate.
type CustomCategory struct {
	ID       string                 `json:"id" yaml:"id"`
	Slug     string                 `json:"slug" yaml:"slug"`
	Title    string                 `json:"title" yaml:"title"`
	Enabled  interface{}            `json:"enabled" yaml:"enabled"`
	Accounts map[string]interface{} `json:"accounts" yaml:"accounts"`
}

// SupplierMode reports whether receipts are booked against one shared supplier.
func (c Credential) SupplierMode() bool {
	return strings.EqualFold(strings.TrimSpace(c.ApodeixakiaType), "supplier")
}

// SupplierID returns the configured shared supplier customer id.
func (c Credential) SupplierID() (int, bool) {
	return textutils.ParseInt(c.ApodeixakiaSupplier)
}

// OtherExpenses reports whether receipts are flagged as other expenses.
func (c Credential) OtherExpenses() bool {
	return textutils.ParseBool(c.ApodeixakiaOtherExpenses)
}

// IsEnabled interprets the loosely typed enabled flag.
func (cc CustomCategory) IsEnabled() bool {
	return textutils.ParseBool(cc.Enabled)
}

// Key returns the category slug: id first, then slug.
func (cc CustomCategory) Key() string {
	return textutils.FirstNonEmpty(cc.ID, cc.Slug)
}
