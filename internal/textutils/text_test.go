package textutils_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"mydata/epsilon-export/internal/textutils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Απόδειξη Λιανικής", "αποδειξη λιανικησ"},
		{"  ΑΓΟΡΕΣ   ΕΜΠΟΡΕΥΜΑΤΩΝ ", "αγορεσ εμπορευματων"},
		{"Receipt", "receipt"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, textutils.Fold(tt.input))
		})
	}
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "account_αποδειξακια_fpa_kat_0%", textutils.NormalizeKey(" Account_Αποδειξάκια_FPA_KAT_0% "))
	assert.Equal(t, "αγορες_εμπορευματων", textutils.NormalizeKey("ΑΓΟΡΕΣ ΕΜΠΟΡΕΥΜΑΤΩΝ"))
	assert.Equal(t, "αγορες_εμπορευματων", textutils.NormalizeKey("Αγορές Εμπορευμάτων"))
	assert.Equal(t, "account_supplier_retail", textutils.NormalizeKey("account_supplier_retail"))
}

func TestNormalizeAFM(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "123456789", "123456789"},
		{"country prefix", "EL123456789", "123456789"},
		{"short is padded", "12345", "000012345"},
		{"keeps last nine", "0012345678901", "345678901"},
		{"spaces and dots", "123 456.789", "123456789"},
		{"no digits", "n/a", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, textutils.NormalizeAFM(tt.input))
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected string
	}{
		{"float", 50.0, "50"},
		{"float rounding", 12.345, "12.35"},
		{"dot string", "100.50", "100.5"},
		{"comma string", "100,50", "100.5"},
		{"greek thousands", "1.234,56", "1234.56"},
		{"english thousands", "1,234.56", "1234.56"},
		{"multiple dots are thousands", "1.234.567", "1234567"},
		{"negative", "-24,00", "-24"},
		{"parenthesised negative", "(10.00)", "-10"},
		{"currency sign", "€ 15,20", "15.2"},
		{"json number", json.Number("7.777"), "7.78"},
		{"int", 3, "3"},
		{"garbage", "abc", "0"},
		{"nil", nil, "0"},
		{"bool is not a number", true, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := textutils.ParseAmount(tt.input)
			assert.True(t, decimal.RequireFromString(tt.expected).Equal(got), "got %s", got)
		})
	}
}

func TestParseInt(t *testing.T) {
	n, ok := textutils.ParseInt("900")
	assert.True(t, ok)
	assert.Equal(t, 900, n)

	n, ok = textutils.ParseInt(900.0)
	assert.True(t, ok)
	assert.Equal(t, 900, n)

	n, ok = textutils.ParseInt("42.0")
	assert.True(t, ok)
	assert.Equal(t, 42, n)

	_, ok = textutils.ParseInt("12a")
	assert.False(t, ok)
	_, ok = textutils.ParseInt(1.5)
	assert.False(t, ok)
	_, ok = textutils.ParseInt("")
	assert.False(t, ok)
}

func TestParseInt_TrailingZeroDecimals(t *testing.T) {
	tests := []struct {
		input    interface{}
		expected int
		ok       bool
	}{
		{"900.00", 900, true},
		{"7.00", 7, true},
		{"7,00", 7, true},
		{" 12.000 ", 12, true},
		{json.Number("900.00"), 900, true},
		{"7.5", 0, false},
		{"7,05", 0, false},
		{"0.10", 0, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.input), func(t *testing.T) {
			n, ok := textutils.ParseInt(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, n)
		})
	}
}

func TestParseBool(t *testing.T) {
	assert.True(t, textutils.ParseBool(true))
	assert.True(t, textutils.ParseBool("true"))
	assert.True(t, textutils.ParseBool("1"))
	assert.True(t, textutils.ParseBool("Ναι"))
	assert.True(t, textutils.ParseBool(1.0))
	assert.False(t, textutils.ParseBool("no"))
	assert.False(t, textutils.ParseBool(nil))
	assert.False(t, textutils.ParseBool(""))
}

func TestExtractPercent(t *testing.T) {
	tests := []struct {
		input string
		rate  int
		ok    bool
	}{
		{"13%", 13, true},
		{"ΦΠΑ 24", 24, true},
		{"Φ.Π.Α. 6", 6, true},
		{"fpa: 17", 17, true},
		{"Αγορές 24 %", 24, true},
		{"5,5%", 6, true},
		{"Αγορές εμπορευμάτων", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			rate, ok := textutils.ExtractPercent(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.rate, rate)
		})
	}
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", textutils.FirstNonEmpty("", "  ", "b", "c"))
	assert.Equal(t, "", textutils.FirstNonEmpty("", " "))
}
