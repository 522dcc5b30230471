package classifier

import (
	"testing"

	"mydata/epsilon-export/internal/logging"
	"mydata/epsilon-export/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestIsReceipt(t *testing.T) {
	tests := []struct {
		name   string
		record models.Record
		want   bool
	}{
		{"greek receipt type", models.Record{"type": "Απόδειξη Λιανικής Πώλησης"}, true},
		{"upper case without accents", models.Record{"type": "ΑΠΟΔΕΙΞΗ"}, true},
		{"category hint", models.Record{"type": "", "category": "αποδειξακια"}, true},
		{"english", models.Record{"type": "Retail Receipt"}, true},
		{"abbreviation as word", models.Record{"type": "ΑΛΠ"}, true},
		{"abbreviation inside word ignored", models.Record{"type": "Καλπάζων"}, false},
		{"mydata retail type code", models.Record{"type": "11.1"}, true},
		{"invoice", models.Record{"type": "Τιμολόγιο Πώλησης", "category": "Αγορές Εμπορευμάτων"}, false},
		{"empty", models.Record{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsReceipt(tt.record))
		})
	}
}

func TestClassify_ReceiptReason(t *testing.T) {
	c := NewClassifier(logging.NewMockLogger())

	tests := []struct {
		name   string
		record models.Record
		want   string
	}{
		{
			name:   "name and afm",
			record: models.Record{"type": "Απόδειξη", "Name_issuer": "ΚΑΦΕ ΑΕ", "AFM_issuer": "123456789", "aa": "5"},
			want:   "ΚΑΦΕ ΑΕ (123456789)",
		},
		{
			name:   "name only",
			record: models.Record{"type": "Απόδειξη", "issuerName": "ΚΑΦΕ ΑΕ"},
			want:   "ΚΑΦΕ ΑΕ",
		},
		{
			name:   "afm only",
			record: models.Record{"type": "Απόδειξη", "AFM_issuer": "123456789", "aa": "123"},
			want:   "123456789",
		},
		{
			name:   "afm is normalized",
			record: models.Record{"type": "Απόδειξη", "issuerVat": "EL 123456789"},
			want:   "123456789",
		},
		{
			name:   "number fallback",
			record: models.Record{"type": "Απόδειξη", "aa": "123"},
			want:   "Απόδειξη 123",
		},
		{
			name:   "placeholder",
			record: models.Record{"type": "Απόδειξη"},
			want:   Placeholder,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := c.Classify(tt.record, nil)
			assert.True(t, doc.IsReceipt)
			assert.Equal(t, tt.want, doc.Reason)
		})
	}
}

func TestClassify_InvoiceReason(t *testing.T) {
	c := NewClassifier(nil)
	clients := models.NewClientMap()
	clients.Add("987654321", 12, "ΠΡΟΜΗΘΕΥΤΗΣ ΟΕ")

	tests := []struct {
		name   string
		record models.Record
		want   string
	}{
		{
			name:   "explicit issuer name",
			record: models.Record{"type": "Τιμολόγιο", "Name_issuer": "ALPHA", "AFM_issuer": "987654321"},
			want:   "ALPHA",
		},
		{
			name:   "client map name by normalized afm",
			record: models.Record{"type": "Τιμολόγιο", "AFM_issuer": "EL987654321"},
			want:   "ΠΡΟΜΗΘΕΥΤΗΣ ΟΕ",
		},
		{
			name:   "explicit reason field",
			record: models.Record{"type": "Τιμολόγιο", "AFM_issuer": "111111111", "reason": "Ενοίκιο"},
			want:   "Ενοίκιο",
		},
		{
			name:   "number fallback",
			record: models.Record{"type": "Τιμολόγιο", "aa": "77"},
			want:   "Τιμολόγιο 77",
		},
		{
			name:   "placeholder",
			record: models.Record{"type": "Τιμολόγιο"},
			want:   Placeholder,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := c.Classify(tt.record, clients)
			assert.False(t, doc.IsReceipt)
			assert.Equal(t, tt.want, doc.Reason)
		})
	}
}
