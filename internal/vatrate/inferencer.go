// Package vatrate infers the VAT percentage of an invoice line.
package vatrate

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"mydata/epsilon-export/internal/logging"
	"mydata/epsilon-export/internal/models"
	"mydata/epsilon-export/internal/textutils"

	"github.com/shopspring/decimal"
)

// myDATA VAT category codes and the rate each stands for.
var categoryCodeRates = map[int]int{
	1: 24,
	2: 13,
	3: 6,
	4: 17,
	5: 9,
	6: 4,
	7: 0,
	8: 0,
}

var hundred = decimal.NewFromInt(100)

var recordHintKeys = joinKeys(models.KeysType, models.KeysCategory)

// Result is an inferred rate and where it came from.
type Result struct {
	Rate   *int
	Source string
}

// Inferencer runs the rate strategies in a fixed order and stops at the first hit:
// explicit line field, line text, line amounts, record hint, record totals.
type Inferencer struct {
	logger logging.Logger
}

// NewInferencer creates an Inferencer.
func NewInferencer(logger logging.Logger) *Inferencer {
	return &Inferencer{logger: logger}
}

// Infer returns the VAT rate for a line. line holds the raw line fields (it may
// be empty for a line synthesized from totals), net and vat are its parsed
// amounts and rec is the parent record.
func (inf *Inferencer) Infer(line models.Record, net, vat decimal.Decimal, rec models.Record) Result {
	res := inf.infer(line, net, vat, rec)
	if inf.logger != nil {
		fields := []logging.Field{logging.F(logging.FieldSource, res.Source)}
		if res.Rate != nil {
			fields = append(fields, logging.F(logging.FieldRate, *res.Rate))
		}
		inf.logger.Debug("VAT rate inferred", fields...)
	}
	return res
}

func (inf *Inferencer) infer(line models.Record, net, vat decimal.Decimal, rec models.Record) Result {
	for _, key := range models.KeysLineRate {
		if rate, ok := parseRate(line[key]); ok {
			return found(rate, "line."+key)
		}
	}

	for _, key := range models.KeysLineRateText {
		v, ok := line[key]
		if !ok {
			continue
		}
		if key != "category" {
			if code, ok := textutils.ParseInt(v); ok {
				if rate, known := categoryCodeRates[code]; known {
					return found(rate, "line."+key+".code")
				}
			}
		}
		if rate, ok := textutils.ExtractPercent(models.ScalarString(v)); ok {
			return found(rate, "line."+key+".text")
		}
	}

	if rate, ok := ratio(net, vat); ok {
		return found(rate, models.RateSourceCalc)
	}

	for _, key := range recordHintKeys {
		if rate, ok := textutils.ExtractPercent(models.ScalarString(rec[key])); ok {
			return found(rate, models.RateSourceRecordHint)
		}
	}

	recNet := textutils.ParseAmount(rec.Get(models.KeysTotalNet))
	recVAT := textutils.ParseAmount(rec.Get(models.KeysTotalVAT))
	if rate, ok := ratio(recNet, recVAT); ok {
		return found(rate, models.RateSourceRecordCalc)
	}

	return Result{Source: models.RateSourceUnknown}
}

// ratio computes round(vat/net*100) when both amounts are non-zero.
func ratio(net, vat decimal.Decimal) (int, bool) {
	if net.IsZero() || vat.IsZero() {
		return 0, false
	}
	pct := vat.Div(net).Mul(hundred).Abs().Round(0)
	return int(pct.IntPart()), true
}

func parseRate(v interface{}) (int, bool) {
	switch t := v.(type) {
	case nil, bool:
		return 0, false
	case float64:
		return int(math.Round(t)), true
	case int:
		return t, true
	case json.Number:
		return parseRate(t.String())
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(t), "%"))
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
		if err != nil || f < 0 {
			return 0, false
		}
		return int(math.Round(f)), true
	}
	return 0, false
}

func joinKeys(groups ...models.Keys) models.Keys {
	var out models.Keys
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func found(rate int, source string) Result {
	return Result{Rate: &rate, Source: source}
}
