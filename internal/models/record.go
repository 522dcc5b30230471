// Package models provides the data structures shared by the export pipeline.
package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Record is one upstream invoice (or one of its raw lines) as decoded from JSON.
// It is treated as read-only.
type Record map[string]interface{}

// Keys is an ordered list of accepted field spellings. Lookups try each key in
// order and return the first non-empty value, so the order encodes precedence.
type Keys []string

// Accepted spellings for invoice-level fields.
var (
	KeysMark       = Keys{"mark", "MARK", "Mark"}
	KeysAA         = Keys{"aa", "AA", "number", "invoiceNumber"}
	KeysSeries     = Keys{"series", "SERIES", "Series"}
	KeysIssueDate  = Keys{"issueDate", "issue_date", "date", "DATE"}
	KeysIssuerName = Keys{"Name_issuer", "issuerName", "issuer_name", "Name", "name"}
	KeysIssuerAFM  = Keys{"AFM_issuer", "issuerVat", "issuer_vat", "issuerAfm", "issuer_afm", "AFM", "afm"}
	KeysType       = Keys{"type", "invoiceType", "invoice_type", "docType"}
	KeysCategory   = Keys{"category", "expense_category", "classification"}
	KeysReason     = Keys{"reason", "REASON", "description"}
	KeysLines      = Keys{"lines", "invoiceDetails", "details", "items", "rows"}
	KeysTotalNet   = Keys{"totalNetValue", "total_net_value", "totalNet", "netValue", "net"}
	KeysTotalVAT   = Keys{"totalVatAmount", "total_vat_amount", "totalVat", "vatAmount", "vat"}
)

// Accepted spellings for line-level fields.
var (
	KeysLineNet      = Keys{"net", "netValue", "net_value", "amount"}
	KeysLineVAT      = Keys{"vat", "vatAmount", "vat_amount"}
	KeysLineRate     = Keys{"vat_rate", "vatRate", "vat_percent", "vatPercent", "rate", "fpa_rate"}
	KeysLineRateText = Keys{"vat_category", "vatCategory", "category"}
	KeysLineCategory = Keys{"category", "expense_category", "classification", "vat_category", "vatCategory"}
)

// Lookup returns the key and value of the first non-empty field in keys.
func (r Record) Lookup(keys Keys) (string, interface{}, bool) {
	for _, k := range keys {
		v, ok := r[k]
		if !ok || isEmpty(v) {
			continue
		}
		return k, v, true
	}
	return "", nil, false
}

// Get returns the first non-empty value for keys, or nil.
func (r Record) Get(keys Keys) interface{} {
	_, v, _ := r.Lookup(keys)
	return v
}

// String returns the first non-empty value for keys rendered as trimmed text.
func (r Record) String(keys Keys) string {
	return ScalarString(r.Get(keys))
}

// Records returns the first non-empty array of objects found under keys.
// Non-object entries are skipped.
func (r Record) Records(keys Keys) []Record {
	for _, k := range keys {
		arr, ok := r[k].([]interface{})
		if !ok || len(arr) == 0 {
			continue
		}
		out := make([]Record, 0, len(arr))
		for _, item := range arr {
			if m, ok := item.(map[string]interface{}); ok {
				out = append(out, Record(m))
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// ScalarString renders a JSON scalar as text. Integral floats lose their
// fractional part so 123.0 becomes "123".
func ScalarString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case map[string]interface{}, []interface{}:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

func isEmpty(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []interface{}:
		return len(t) == 0
	case map[string]interface{}:
		return len(t) == 0
	}
	return false
}
