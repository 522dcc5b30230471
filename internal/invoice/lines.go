package invoice

import (
	"strings"

	"github.com/shopspring/decimal"

	"mydata/epsilon-export/internal/categorizer"
	"mydata/epsilon-export/internal/logging"
	"mydata/epsilon-export/internal/models"
	"mydata/epsilon-export/internal/textutils"
	"mydata/epsilon-export/internal/vatrate"
)

// LineParser turns a record into normalized lines.
type LineParser struct {
	canon  *categorizer.Canonicalizer
	rates  *vatrate.Inferencer
	logger logging.Logger
}

// NewLineParser creates a LineParser.
func NewLineParser(canon *categorizer.Canonicalizer, rates *vatrate.Inferencer, logger logging.Logger) *LineParser {
	return &LineParser{canon: canon, rates: rates, logger: logger}
}

// Parse returns one Line per entry of the record's line array, or a single
// line built from the record totals when there is no array.
func (p *LineParser) Parse(rec models.Record) []models.Line {
	raw := rec.Records(models.KeysLines)
	if len(raw) == 0 {
		return []models.Line{p.fromTotals(rec)}
	}

	lines := make([]models.Line, 0, len(raw))
	for _, item := range raw {
		net := textutils.ParseAmount(item.Get(models.KeysLineNet))
		vat := textutils.ParseAmount(item.Get(models.KeysLineVAT))
		label := lineCategory(item)
		if label == "" {
			label = rec.String(models.KeysCategory)
		}
		lines = append(lines, p.build(item, net, vat, label, rec))
	}
	return lines
}

func (p *LineParser) fromTotals(rec models.Record) models.Line {
	net := textutils.ParseAmount(rec.Get(models.KeysTotalNet))
	vat := textutils.ParseAmount(rec.Get(models.KeysTotalVAT))
	return p.build(models.Record{}, net, vat, rec.String(models.KeysCategory), rec)
}

func (p *LineParser) build(item models.Record, net, vat decimal.Decimal, label string, rec models.Record) models.Line {
	res := p.rates.Infer(item, net, vat, rec)
	return models.Line{
		Net:           net,
		VAT:           vat,
		VATRate:       res.Rate,
		VATRateSource: res.Source,
		Category:      p.canon.Canonicalize(label),
		RawCategory:   label,
	}
}

// lineCategory returns the first category-like line field. Bare myDATA codes
// such as "1" are rate codes, not categories.
func lineCategory(item models.Record) string {
	for _, key := range models.KeysLineCategory {
		s := models.ScalarString(item[key])
		if s == "" {
			continue
		}
		if textutils.DigitsOnly(s) == strings.TrimSpace(s) {
			continue
		}
		return s
	}
	return ""
}
