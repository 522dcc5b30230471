package models

import "github.com/shopspring/decimal"

// PreviewLine is a Line with its resolved detail account.
type PreviewLine struct {
	Line
	Index   int
	Account string
}

// PreviewRow aggregates one invoice for review before export.
// Net+VAT equals Gross for the row and for every line.
type PreviewRow struct {
	Mark   string
	AA     string
	Series string
	Date   string
	AFM    string
	Name   string
	Reason string
	CustID *int

	Net   decimal.Decimal
	VAT   decimal.Decimal
	Gross decimal.Decimal

	LCode          string
	Lines          []PreviewLine
	DetailAccounts string
	Characts       string
	OtherExpend    bool
	IsReceipt      bool
}

// Preview is the outcome of the preview stage: one row per record plus every
// issue found. Export is only allowed when Issues is empty. SupplierID is the
// shared receipt supplier when supplier mode is active.
type Preview struct {
	Rows       []PreviewRow
	Issues     Issues
	SupplierID *int
}

// OK reports whether the preview can be exported.
func (p Preview) OK() bool {
	return p.Issues.Empty()
}
