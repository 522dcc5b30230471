package accounts

import (
	"regexp"
	"strconv"
)

// keyForm is one of the four accepted spellings of a rate-bearing key, in
// lookup priority order.
type keyForm int

const (
	formStrictPercent keyForm = iota // account_<cat>_fpa_kat_<rate>%
	formStrict                       // account_<cat>_fpa_kat_<rate>
	formLegacyPercent                // account_<cat>_<rate>%
	formLegacy                       // account_<cat>_<rate>
	formCount
)

var (
	strictKeyRe = regexp.MustCompile(`^account_(.+)_fpa_kat_(\d+)(%?)$`)
	legacyKeyRe = regexp.MustCompile(`^account_(.+)_(\d+)(%?)$`)
)

type tableKey struct {
	category string
	rate     int
}

type slot struct {
	values [formCount]string
	keys   [formCount]string
}

// Table indexes rate-bearing settings keys by (category, rate) so lookups do
// not rebuild key strings. Each entry keeps one value per key form.
type Table struct {
	entries map[tableKey]*slot
}

// NewTable builds the lookup table from normalized settings. When alias is
// set, a key whose category is an exact alias (for example "receipts") also
// fills its canonical category, but only for a (category, rate) that has no
// key under the canonical name in any form.
func NewTable(s Settings, alias func(string) (string, bool)) *Table {
	t := &Table{entries: make(map[tableKey]*slot)}
	type aliased struct {
		tk    tableKey
		form  keyForm
		key   string
		value string
	}
	var pending []aliased
	for _, key := range s.Keys() {
		cat, rate, form, ok := parseKey(key)
		if !ok {
			continue
		}
		t.set(tableKey{category: cat, rate: rate}, form, key, s[key])
		if alias == nil {
			continue
		}
		if c, ok := alias(cat); ok && c != cat {
			pending = append(pending, aliased{tableKey{category: c, rate: rate}, form, key, s[key]})
		}
	}

	canonical := make(map[tableKey]bool, len(t.entries))
	for tk := range t.entries {
		canonical[tk] = true
	}
	for _, a := range pending {
		if canonical[a.tk] {
			continue
		}
		t.set(a.tk, a.form, a.key, a.value)
	}
	return t
}

func (t *Table) set(tk tableKey, form keyForm, key, value string) {
	sl, exists := t.entries[tk]
	if !exists {
		sl = &slot{}
		t.entries[tk] = sl
	}
	sl.values[form] = value
	sl.keys[form] = key
}

func parseKey(key string) (string, int, keyForm, bool) {
	if m := strictKeyRe.FindStringSubmatch(key); m != nil {
		rate, err := strconv.Atoi(m[2])
		if err != nil {
			return "", 0, 0, false
		}
		if m[3] == "%" {
			return m[1], rate, formStrictPercent, true
		}
		return m[1], rate, formStrict, true
	}
	if m := legacyKeyRe.FindStringSubmatch(key); m != nil {
		rate, err := strconv.Atoi(m[2])
		if err != nil {
			return "", 0, 0, false
		}
		if m[3] == "%" {
			return m[1], rate, formLegacyPercent, true
		}
		return m[1], rate, formLegacy, true
	}
	return "", 0, 0, false
}

// Lookup returns the first non-blank value for (category, rate) in form
// priority order, together with the key it came from. Only the exact rate is
// consulted.
func (t *Table) Lookup(category string, rate int) (value, key string, ok bool) {
	sl, exists := t.entries[tableKey{category: category, rate: rate}]
	if !exists {
		return "", "", false
	}
	for f := formStrictPercent; f < formCount; f++ {
		if v := trimmed(sl.values[f]); v != "" {
			return v, sl.keys[f], true
		}
	}
	return "", "", false
}

// Len is the number of (category, rate) entries.
func (t *Table) Len() int {
	return len(t.entries)
}
