package invoice

import (
	"mydata/epsilon-export/internal/dateutils"
	"mydata/epsilon-export/internal/models"
)

// Header is the record-level identity of an invoice.
type Header struct {
	Mark   string
	AA     string
	Series string
	Date   string
}

// ReadHeader extracts the header fields. The date is rewritten as dd/mm/yyyy
// when recognised.
func ReadHeader(rec models.Record) Header {
	return Header{
		Mark:   rec.String(models.KeysMark),
		AA:     rec.String(models.KeysAA),
		Series: rec.String(models.KeysSeries),
		Date:   dateutils.NormalizeDate(rec.String(models.KeysIssueDate)),
	}
}
