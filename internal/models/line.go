package models

import "github.com/shopspring/decimal"

// Provenance tags for an inferred VAT rate. Explicit line fields are tagged
// "line.<field>" and text hints "line.<field>.text".
const (
	RateSourceCalc       = "calc"
	RateSourceRecordHint = "rec.hint"
	RateSourceRecordCalc = "rec.calc"
	RateSourceUnknown    = "unknown"
)

// Line is one normalized invoice line, either parsed from the record's line
// array or synthesized from its totals.
type Line struct {
	Net           decimal.Decimal
	VAT           decimal.Decimal
	VATRate       *int
	VATRateSource string
	Category      string
	RawCategory   string
}

// Gross is Net+VAT rounded to two places.
func (l Line) Gross() decimal.Decimal {
	return l.Net.Add(l.VAT).Round(2)
}

// HasRate reports whether a VAT rate was inferred.
func (l Line) HasRate() bool {
	return l.VATRate != nil
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
