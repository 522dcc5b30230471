// Package accounts resolves general-ledger account codes from the flat
// settings mapping.
package accounts

import (
	"fmt"
	"sort"
	"strings"

	"mydata/epsilon-export/internal/models"
	"mydata/epsilon-export/internal/textutils"
)

// Header account keys.
const (
	KeySupplierRetail    = "account_supplier_retail"
	KeySupplierWholesale = "account_supplier_wholesale"
)

// Settings is the flat settings mapping with normalized keys.
type Settings map[string]string

// NewSettings normalizes a raw decoded mapping. Keys go through
// textutils.NormalizeKey; scalar values are rendered as text and nested
// values are dropped.
func NewSettings(raw map[string]interface{}) Settings {
	out := make(Settings, len(raw))
	for k, v := range raw {
		nk := textutils.NormalizeKey(k)
		if nk == "" {
			continue
		}
		out[nk] = models.ScalarString(v)
	}
	return out
}

// Get returns the trimmed value stored under the normalized form of key.
func (s Settings) Get(key string) string {
	return strings.TrimSpace(s[textutils.NormalizeKey(key)])
}

// Clone returns an independent copy.
func (s Settings) Clone() Settings {
	out := make(Settings, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Keys returns the keys in sorted order.
func (s Settings) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// StrictKey is the settings key an operator configures for category at rate.
func StrictKey(category string, rate int) string {
	return textutils.NormalizeKey(fmt.Sprintf("account_%s_fpa_kat_%d%%", category, rate))
}

// MergeCustomCategories returns a new mapping holding base plus the strict
// keys synthesized from the credential's enabled custom categories. Existing
// non-empty keys in base are never overwritten and base itself is not modified.
func MergeCustomCategories(base Settings, cred models.Credential) Settings {
	out := base.Clone()
	for _, cc := range cred.CustomCategories {
		if !cc.IsEnabled() {
			continue
		}
		slug := textutils.NormalizeKey(cc.Key())
		if slug == "" {
			continue
		}
		for rateToken, v := range cc.Accounts {
			rate, ok := rateFromToken(rateToken)
			if !ok {
				continue
			}
			code := models.ScalarString(v)
			if code == "" {
				continue
			}
			key := StrictKey(slug, rate)
			if strings.TrimSpace(out[key]) != "" {
				continue
			}
			out[key] = code
		}
	}
	return out
}

func rateFromToken(token string) (int, bool) {
	t := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(token), "%"))
	if n, ok := textutils.ParseInt(t); ok && n >= 0 {
		return n, true
	}
	d := textutils.DigitsOnly(t)
	if d == "" {
		return 0, false
	}
	return textutils.ParseInt(d)
}

// CustomCategoryKeys lists the slugs of the credential's enabled custom categories.
func CustomCategoryKeys(cred models.Credential) []string {
	var out []string
	for _, cc := range cred.CustomCategories {
		if cc.IsEnabled() && cc.Key() != "" {
			out = append(out, cc.Key())
		}
	}
	return out
}
