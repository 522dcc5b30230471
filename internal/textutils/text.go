// Package textutils provides the text normalization helpers shared by the
// classifier, the canonicalizer and the settings resolver.
package textutils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// StripDiacritics removes combining marks, so "Απόδειξη" becomes "Αποδειξη".
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Fold prepares text for keyword matching: diacritics removed, lower-cased,
// final sigma folded to σ and whitespace collapsed.
func Fold(s string) string {
	s = strings.ToLower(StripDiacritics(s))
	s = strings.ReplaceAll(s, "ς", "σ")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// ContainsAny reports whether folded text contains one of the folded keywords.
func ContainsAny(folded string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(folded, kw) {
			return true
		}
	}
	return false
}

// NormalizeKey turns a settings key or category label into its lookup form:
// trimmed, lower-cased, diacritics removed, whitespace runs joined with "_"
// and word-final sigma written as ς.
func NormalizeKey(s string) string {
	s = strings.ToLower(StripDiacritics(strings.TrimSpace(s)))
	s = whitespaceRe.ReplaceAllString(s, "_")
	return finalSigma(s)
}

func finalSigma(s string) string {
	if !strings.ContainsRune(s, 'σ') {
		return s
	}
	rs := []rune(s)
	for i, r := range rs {
		if r != 'σ' {
			continue
		}
		if i == len(rs)-1 || !unicode.IsLetter(rs[i+1]) {
			rs[i] = 'ς'
		}
	}
	return string(rs)
}

// DigitsOnly drops every rune that is not an ASCII digit.
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeAFM keeps the digits of a Greek tax number, takes the last nine and
// left-pads to nine with zeros. Input without digits yields "".
func NormalizeAFM(s string) string {
	d := DigitsOnly(s)
	if d == "" {
		return ""
	}
	if len(d) > 9 {
		d = d[len(d)-9:]
	}
	return strings.Repeat("0", 9-len(d)) + d
}

// FirstNonEmpty returns the first argument that is not blank after trimming.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			return t
		}
	}
	return ""
}
