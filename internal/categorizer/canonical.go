// Package categorizer maps free-text (mostly Greek) expense labels to the
// fixed set of canonical category keys used in settings account keys.
package categorizer

import (
	"regexp"
	"strings"

	"mydata/epsilon-export/internal/logging"
	"mydata/epsilon-export/internal/textutils"
)

// Canonical category keys. They double as the <category> part of settings
// keys such as account_<category>_fpa_kat_<rate>%.
const (
	CategoryReceipts         = "αποδειξακια"
	CategoryGuaranteeDeposit = "εγγυηση"
	CategoryThirdPartyFees   = "αμοιβες_τριτων"
	CategoryExpensesNoVAT    = "δαπανες_χωρις_φπα"
	CategoryRawMaterials     = "αγορες_πρωτων_υλων"
	CategoryGeneralExpenses  = "γενικες_δαπανες_με_φπα"
	CategoryMerchandise      = "αγορες_εμπορευματων"
)

// KnownCategories lists the canonical keys in precedence order.
var KnownCategories = []string{
	CategoryReceipts,
	CategoryGuaranteeDeposit,
	CategoryThirdPartyFees,
	CategoryExpensesNoVAT,
	CategoryRawMaterials,
	CategoryGeneralExpenses,
	CategoryMerchandise,
}

// settingsAliases are the English category spellings accepted in settings
// keys, each naming exactly one canonical key. Hyphens are read as "_".
var settingsAliases = map[string]string{
	"receipts":                  CategoryReceipts,
	"guarantee_deposit":         CategoryGuaranteeDeposit,
	"third_party_fees":          CategoryThirdPartyFees,
	"expenses_no_vat":           CategoryExpensesNoVAT,
	"raw_material_purchases":    CategoryRawMaterials,
	"general_expenses_with_vat": CategoryGeneralExpenses,
	"merchandise_purchases":     CategoryMerchandise,
}

// AliasOf returns the canonical key for an exact settings alias such as
// "receipts" or "guarantee-deposit". No keyword matching is done.
func AliasOf(key string) (string, bool) {
	c, ok := settingsAliases[strings.ReplaceAll(textutils.NormalizeKey(key), "-", "_")]
	return c, ok
}

type keywordGroup struct {
	category string
	keywords []string
}

// defaultGroups is checked top to bottom and the first hit wins. Keywords are
// in folded form (no accents, lower case, σ for ς). General expenses must stay
// ahead of merchandise, and "no VAT" ahead of general expenses.
var defaultGroups = []keywordGroup{
	{CategoryReceipts, []string{"αποδειξ", "receipt"}},
	{CategoryGuaranteeDeposit, []string{"εγγυησ", "guarantee"}},
	{CategoryThirdPartyFees, []string{"αμοιβ", "τριτων", "third party"}},
	{CategoryExpensesNoVAT, []string{"χωρισ φπα", "ανευ φπα", "no vat"}},
	{CategoryRawMaterials, []string{"πρωτων υλ", "πρωτεσ υλ", "υλων", "raw material"}},
	{CategoryGeneralExpenses, []string{"γενικ", "δαπαν", "εξοδ", "general", "expenses"}},
	{CategoryMerchandise, []string{"εμπορ", "αγορ εμπ", "merchandise"}},
}

var separatorRe = regexp.MustCompile(`[_\-/.]+`)

// Canonicalizer resolves labels to canonical keys.
type Canonicalizer struct {
	groups []keywordGroup
	known  map[string]struct{}
	logger logging.Logger
}

// NewCanonicalizer creates a Canonicalizer. Extra known keys (for example
// custom category slugs) are returned unchanged instead of keyword matched.
func NewCanonicalizer(logger logging.Logger, extraKnown ...string) *Canonicalizer {
	c := &Canonicalizer{
		groups: defaultGroups,
		known:  make(map[string]struct{}, len(KnownCategories)+len(extraKnown)),
		logger: logger,
	}
	for _, k := range KnownCategories {
		c.known[textutils.NormalizeKey(k)] = struct{}{}
	}
	for _, k := range extraKnown {
		if nk := textutils.NormalizeKey(k); nk != "" {
			c.known[nk] = struct{}{}
		}
	}
	return c
}

// Canonicalize returns the canonical key for label. Labels that match no
// keyword group come back lower-cased with whitespace joined by "_".
func (c *Canonicalizer) Canonicalize(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return ""
	}

	if nk := textutils.NormalizeKey(label); c.isKnown(nk) {
		return nk
	}

	folded := textutils.Fold(separatorRe.ReplaceAllString(label, " "))
	for _, g := range c.groups {
		for _, kw := range g.keywords {
			if strings.Contains(folded, kw) {
				if c.logger != nil {
					c.logger.Debug("Category canonicalized",
						logging.F(logging.FieldCategory, g.category),
						logging.F("label", label),
						logging.F("keyword", kw))
				}
				return g.category
			}
		}
	}

	return fallbackKey(label)
}

func (c *Canonicalizer) isKnown(key string) bool {
	_, ok := c.known[key]
	return ok
}

func fallbackKey(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(label)), "_")
}

// IsReceiptsCategory reports whether key is the canonical receipts key.
func IsReceiptsCategory(key string) bool {
	return textutils.NormalizeKey(key) == CategoryReceipts
}

// IsGuaranteeDeposit reports whether key is the canonical guarantee deposit key.
func IsGuaranteeDeposit(key string) bool {
	return textutils.NormalizeKey(key) == CategoryGuaranteeDeposit
}
