package accounts

import (
	"fmt"
	"regexp"
	"strings"

	"mydata/epsilon-export/internal/categorizer"
	"mydata/epsilon-export/internal/logging"
	"mydata/epsilon-export/internal/textutils"
)

// Reasons recorded in Debug when a detail account cannot be resolved.
const (
	ReasonNoVATRate  = "no_vat_rate"
	ReasonNoCategory = "no_category"
	ReasonNotFound   = "not_found"
)

var codeSuffixRe = regexp.MustCompile(`^(.*?)_(\d+)$`)

// Debug describes a failed lookup so the operator knows which key to add.
type Debug struct {
	Category    string
	Rate        *int
	Forced      bool
	Tried       []string
	ExpectedKey string
	Reason      string
}

// Resolution is the outcome of a detail account lookup. Debug is set when
// Account is empty.
type Resolution struct {
	Account    string
	TargetRate *int
	Key        string
	Debug      *Debug
}

// Resolver looks up detail and header accounts.
type Resolver struct {
	settings Settings
	table    *Table
	logger   logging.Logger
}

// NewResolver indexes settings once for repeated lookups. Keys spelled with
// an English category alias count for the canonical category.
func NewResolver(settings Settings, logger logging.Logger) *Resolver {
	return &Resolver{
		settings: settings,
		table:    NewTable(settings, categorizer.AliasOf),
		logger:   logger,
	}
}

// Resolve returns the detail account for a canonical category. Receipts and
// guarantee deposits always resolve at rate 0; otherwise vatRate is used and a
// nil rate resolves to nothing. There is no fallback to another rate.
func (r *Resolver) Resolve(category string, isReceipt bool, vatRate *int) Resolution {
	cat := textutils.NormalizeKey(category)

	var target *int
	forced := isReceipt || categorizer.IsGuaranteeDeposit(cat)
	if forced {
		zero := 0
		target = &zero
	} else if vatRate != nil {
		rate := *vatRate
		target = &rate
	}

	if cat == "" {
		return r.fail(Resolution{TargetRate: target}, &Debug{Rate: target, Forced: forced, Reason: ReasonNoCategory})
	}
	if target == nil {
		return r.fail(Resolution{}, &Debug{Category: cat, Reason: ReasonNoVATRate})
	}

	if value, key, ok := r.table.Lookup(cat, *target); ok {
		account := BaseCode(value)
		if r.logger != nil {
			r.logger.Debug("Detail account resolved",
				logging.F(logging.FieldCategory, cat),
				logging.F(logging.FieldRate, *target),
				logging.F(logging.FieldAccount, account),
				logging.F("key", key))
		}
		return Resolution{Account: account, TargetRate: target, Key: key}
	}

	return r.fail(Resolution{TargetRate: target}, &Debug{
		Category:    cat,
		Rate:        target,
		Forced:      forced,
		Tried:       CandidateKeys(cat, *target),
		ExpectedKey: StrictKey(cat, *target),
		Reason:      ReasonNotFound,
	})
}

func (r *Resolver) fail(res Resolution, dbg *Debug) Resolution {
	res.Debug = dbg
	if r.logger != nil {
		r.logger.Debug("Detail account unresolved",
			logging.F(logging.FieldCategory, dbg.Category),
			logging.F("reason", dbg.Reason),
			logging.F("tried", dbg.Tried))
	}
	return res
}

// HeaderAccount returns the supplier account for the document kind and the
// settings key it is read from.
func (r *Resolver) HeaderAccount(isReceipt bool) (string, string) {
	key := KeySupplierWholesale
	if isReceipt {
		key = KeySupplierRetail
	}
	return r.settings.Get(key), key
}

// CandidateKeys lists the keys tried for (category, rate), highest priority first.
func CandidateKeys(category string, rate int) []string {
	cat := textutils.NormalizeKey(category)
	return []string{
		fmt.Sprintf("account_%s_fpa_kat_%d%%", cat, rate),
		fmt.Sprintf("account_%s_fpa_kat_%d", cat, rate),
		fmt.Sprintf("account_%s_%d%%", cat, rate),
		fmt.Sprintf("account_%s_%d", cat, rate),
	}
}

// BaseCode strips a trailing "_<digits>" suffix from a configured value.
func BaseCode(value string) string {
	value = strings.TrimSpace(value)
	if m := codeSuffixRe.FindStringSubmatch(value); m != nil && m[1] != "" {
		return m[1]
	}
	return value
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
