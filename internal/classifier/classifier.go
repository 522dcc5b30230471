// Package classifier decides whether an upstream record is a retail receipt or
// an invoice and derives the movement reason text for it.
package classifier

import (
	"fmt"
	"regexp"
	"strings"

	"mydata/epsilon-export/internal/logging"
	"mydata/epsilon-export/internal/models"
	"mydata/epsilon-export/internal/textutils"
)

// Placeholder is the reason used when nothing better is known.
const Placeholder = "—"

// receiptKeywords are matched as substrings of the folded type+category text.
var receiptKeywords = []string{"receipt", "αποδειξ", "λιανικ", "retail"}

// receiptAbbreviations are matched as whole words only.
var receiptAbbreviations = map[string]struct{}{"αλπ": {}, "απυ": {}}

// myDATA document types 11.x are retail documents.
var retailTypeCodeRe = regexp.MustCompile(`^11\.\d+$`)

var wordSplitRe = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// Document is the classification of one record.
type Document struct {
	IsReceipt bool
	AFM       string
	Name      string
	Reason    string
}

// Classifier classifies records. It is stateless apart from its logger.
type Classifier struct {
	logger logging.Logger
}

// NewClassifier creates a Classifier.
func NewClassifier(logger logging.Logger) *Classifier {
	return &Classifier{logger: logger}
}

// Classify returns the receipt flag, issuer identity and reason for rec.
// clients may be nil.
func (c *Classifier) Classify(rec models.Record, clients *models.ClientMap) Document {
	doc := Document{
		IsReceipt: IsReceipt(rec),
		AFM:       textutils.NormalizeAFM(rec.String(models.KeysIssuerAFM)),
		Name:      rec.String(models.KeysIssuerName),
	}
	doc.Reason = reason(rec, doc, clients)

	if c.logger != nil {
		c.logger.Debug("Record classified",
			logging.F(logging.FieldMark, rec.String(models.KeysMark)),
			logging.F("is_receipt", doc.IsReceipt),
			logging.F("reason", doc.Reason))
	}
	return doc
}

// IsReceipt reports whether the record's type and category text name a receipt.
func IsReceipt(rec models.Record) bool {
	typ := rec.String(models.KeysType)
	if retailTypeCodeRe.MatchString(typ) {
		return true
	}
	return IsReceiptText(typ + " " + rec.String(models.KeysCategory))
}

// IsReceiptText applies the receipt keyword rules to free text.
func IsReceiptText(text string) bool {
	folded := textutils.Fold(text)
	if folded == "" {
		return false
	}
	if textutils.ContainsAny(folded, receiptKeywords) {
		return true
	}
	for _, w := range wordSplitRe.Split(folded, -1) {
		if _, ok := receiptAbbreviations[w]; ok {
			return true
		}
	}
	return false
}

func reason(rec models.Record, doc Document, clients *models.ClientMap) string {
	aa := rec.String(models.KeysAA)

	if doc.IsReceipt {
		afm := textutils.FirstNonEmpty(doc.AFM, rec.String(models.KeysIssuerAFM))
		switch {
		case doc.Name != "" && afm != "":
			return fmt.Sprintf("%s (%s)", doc.Name, afm)
		case doc.Name != "":
			return doc.Name
		case afm != "":
			return afm
		case aa != "":
			return "Απόδειξη " + aa
		}
		return Placeholder
	}

	if doc.Name != "" {
		return doc.Name
	}
	if name := strings.TrimSpace(clients.Name(doc.AFM)); name != "" {
		return name
	}
	if r := rec.String(models.KeysReason); r != "" {
		return r
	}
	if aa != "" {
		return "Τιμολόγιο " + aa
	}
	return Placeholder
}
