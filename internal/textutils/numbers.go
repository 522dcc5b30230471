package textutils

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	percentSignRe = regexp.MustCompile(`(\d{1,3}(?:[.,]\d+)?)\s*%`)
	percentWordRe = regexp.MustCompile(`(?:φ\.?π\.?α\.?|fpa|vat)\s*[:\-]?\s*(\d{1,3}(?:[.,]\d+)?)`)
)

// ParseAmount converts a JSON scalar or a formatted string into a decimal
// rounded to two places. Comma or dot decimal separators are accepted and
// thousands separators are dropped. Anything unparsable yields zero.
func ParseAmount(v interface{}) decimal.Decimal {
	switch t := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return t.Round(2)
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(t).Round(2)
	case float32:
		return ParseAmount(float64(t))
	case int:
		return decimal.NewFromInt(int64(t))
	case int64:
		return decimal.NewFromInt(t)
	case json.Number:
		return ParseAmount(t.String())
	case string:
		return parseAmountString(t)
	default:
		return parseAmountString(fmt.Sprint(t))
	}
}

func parseAmountString(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("€", "", "EUR", "", "\u00a0", "", " ", "").Replace(s)
	if s == "" {
		return decimal.Zero
	}

	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}
	if strings.HasPrefix(s, "-") {
		neg = !neg
		s = strings.TrimPrefix(s, "-")
	}
	s = strings.TrimPrefix(s, "+")

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case lastDot >= 0:
		if strings.Count(s, ".") > 1 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	if neg {
		d = d.Neg()
	}
	return d.Round(2)
}

// ParseInt reads a whole-number value such as 900, "900", "900.00", "7,00" or
// 900.0. Values with a fractional part are rejected.
func ParseInt(v interface{}) (int, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		if math.IsInf(t, 0) || t != math.Trunc(t) {
			return 0, false
		}
		return int(t), true
	case json.Number:
		return ParseInt(t.String())
	case string:
		s := strings.TrimSpace(t)
		if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
			s = strings.Replace(s, ",", ".", 1)
		}
		d, err := decimal.NewFromString(s)
		if err != nil || !d.Equal(d.Truncate(0)) {
			return 0, false
		}
		return int(d.IntPart()), true
	default:
		return ParseInt(fmt.Sprint(t))
	}
}

// ParseBool reads boolean-like values: true/false, 1/0, yes/no, ναι/οχι, on/off.
func ParseBool(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case string:
		switch Fold(t) {
		case "1", "true", "yes", "y", "on", "ναι", "nai":
			return true
		}
	}
	return false
}

// ExtractPercent finds a VAT percentage inside free text such as "13%",
// "ΦΠΑ 24" or "Φ.Π.Α. 6%". The result is rounded to the nearest integer.
func ExtractPercent(text string) (int, bool) {
	folded := Fold(text)
	if folded == "" {
		return 0, false
	}
	for _, re := range []*regexp.Regexp{percentSignRe, percentWordRe} {
		if m := re.FindStringSubmatch(folded); len(m) > 1 {
			f, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64)
			if err != nil || f < 0 || f > 100 {
				continue
			}
			return int(math.Round(f)), true
		}
	}
	return 0, false
}

// FormatAmount renders a decimal with two fraction digits.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
