package accounts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mydata/epsilon-export/internal/categorizer"
	"mydata/epsilon-export/internal/logging"
	"mydata/epsilon-export/internal/models"
)

func newTestResolver(raw map[string]interface{}) *Resolver {
	logger := logging.NewMockLogger()
	return NewResolver(NewSettings(raw), logger)
}

func TestResolve_StrictPercentWins(t *testing.T) {
	r := newTestResolver(map[string]interface{}{
		"account_γενικες_δαπανες_με_φπα_fpa_kat_24%": "64.08.00.024",
		"account_γενικες_δαπανες_με_φπα_fpa_kat_24":  "64.08.00.999",
		"account_γενικες_δαπανες_με_φπα_24%":         "64.08.00.888",
	})

	res := r.Resolve(categorizer.CategoryGeneralExpenses, false, models.IntPtr(24))
	assert.Equal(t, "64.08.00.024", res.Account)
	assert.Equal(t, "account_γενικες_δαπανες_με_φπα_fpa_kat_24%", res.Key)
	assert.Nil(t, res.Debug)
}

func TestResolve_CandidateOrder(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]interface{}
		want     string
	}{
		{"strict without percent", map[string]interface{}{
			"account_εγγυηση_fpa_kat_13": "A",
			"account_εγγυηση_13%":        "B",
		}, "A"},
		{"legacy percent", map[string]interface{}{
			"account_εγγυηση_13%": "B",
			"account_εγγυηση_13":  "C",
		}, "B"},
		{"legacy bare", map[string]interface{}{
			"account_εγγυηση_13": "C",
		}, "C"},
		{"blank strict skipped", map[string]interface{}{
			"account_εγγυηση_fpa_kat_13%": "  ",
			"account_εγγυηση_13":          "C",
		}, "C"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := NewTable(NewSettings(tt.settings), nil)
			got, _, ok := tbl.Lookup("εγγυηση", 13)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_NoCrossRateFallback(t *testing.T) {
	r := newTestResolver(map[string]interface{}{
		"account_receipts_10%":               "64.98.00.010",
		"account_γενικες_δαπανες_με_φπα_10%": "64.08.00.010",
	})

	res := r.Resolve(categorizer.CategoryGeneralExpenses, false, models.IntPtr(24))
	assert.Empty(t, res.Account)
	require.NotNil(t, res.Debug)
	assert.Equal(t, ReasonNotFound, res.Debug.Reason)
	assert.Equal(t, "account_γενικες_δαπανες_με_φπα_fpa_kat_24%", res.Debug.ExpectedKey)
	assert.Equal(t, CandidateKeys(categorizer.CategoryGeneralExpenses, 24), res.Debug.Tried)

	// Receipts always resolve at rate 0, so the rate-10 key is never used.
	res = r.Resolve(categorizer.CategoryReceipts, true, models.IntPtr(24))
	assert.Empty(t, res.Account)
	require.NotNil(t, res.Debug)
	assert.Equal(t, "account_αποδειξακια_fpa_kat_0%", res.Debug.ExpectedKey)
}

func TestResolve_LegacyAliasMatchesCanonicalCategory(t *testing.T) {
	r := newTestResolver(map[string]interface{}{
		"Account_Receipts_0%": "64.98.00.000",
	})

	res := r.Resolve(categorizer.CategoryReceipts, true, nil)
	assert.Equal(t, "64.98.00.000", res.Account)
	assert.Equal(t, "account_receipts_0%", res.Key)
}

func TestResolve_CanonicalKeyBeatsAlias(t *testing.T) {
	r := newTestResolver(map[string]interface{}{
		"account_receipts_fpa_kat_0%":    "ALIAS",
		"account_αποδειξακια_fpa_kat_0%": "CANONICAL",
	})

	res := r.Resolve(categorizer.CategoryReceipts, true, nil)
	assert.Equal(t, "CANONICAL", res.Account)
}

func TestResolve_CanonicalLegacyKeyBeatsStrictAlias(t *testing.T) {
	r := newTestResolver(map[string]interface{}{
		"account_αποδειξακια_0":       "CANONICAL",
		"account_receipts_fpa_kat_0%": "ALIAS",
	})

	res := r.Resolve(categorizer.CategoryReceipts, true, nil)
	assert.Equal(t, "CANONICAL", res.Account)
	assert.Equal(t, "account_αποδειξακια_0", res.Key)
}

func TestResolve_UnrelatedCategoryKeyDoesNotMatch(t *testing.T) {
	r := newTestResolver(map[string]interface{}{
		"account_εξοδα_κινησης_fpa_kat_24%": "64.05.00.024",
		"account_γενικα_fpa_kat_24%":        "64.99.00.024",
	})

	res := r.Resolve(categorizer.CategoryGeneralExpenses, false, models.IntPtr(24))
	assert.Empty(t, res.Account)
	require.NotNil(t, res.Debug)
	assert.Equal(t, ReasonNotFound, res.Debug.Reason)
	assert.Equal(t, "account_γενικες_δαπανες_με_φπα_fpa_kat_24%", res.Debug.ExpectedKey)

	res = r.Resolve("εξοδα_κινησης", false, models.IntPtr(24))
	assert.Equal(t, "64.05.00.024", res.Account)
}

func TestResolve_EnglishAliasSpellings(t *testing.T) {
	r := newTestResolver(map[string]interface{}{
		"account_guarantee-deposit_0%":                  "18.01",
		"account_general_expenses_with_vat_fpa_kat_24%": "64.08",
		"account_merchandise-purchases_13":              "20.01",
	})

	assert.Equal(t, "18.01", r.Resolve(categorizer.CategoryGuaranteeDeposit, false, nil).Account)
	assert.Equal(t, "64.08", r.Resolve(categorizer.CategoryGeneralExpenses, false, models.IntPtr(24)).Account)
	assert.Equal(t, "20.01", r.Resolve(categorizer.CategoryMerchandise, false, models.IntPtr(13)).Account)
}

func TestResolve_ForcedZeroRate(t *testing.T) {
	r := newTestResolver(map[string]interface{}{
		"account_αποδειξακια_fpa_kat_0%": "64.98.00.000",
		"account_εγγυηση_fpa_kat_0%":     "18.01.00.000",
	})

	res := r.Resolve(categorizer.CategoryReceipts, true, models.IntPtr(24))
	assert.Equal(t, "64.98.00.000", res.Account)
	require.NotNil(t, res.TargetRate)
	assert.Equal(t, 0, *res.TargetRate)

	res = r.Resolve(categorizer.CategoryGuaranteeDeposit, false, nil)
	assert.Equal(t, "18.01.00.000", res.Account)
}

func TestResolve_MissingRate(t *testing.T) {
	r := newTestResolver(map[string]interface{}{
		"account_αγορες_εμπορευματων_fpa_kat_24%": "20.01.00.024",
	})

	res := r.Resolve(categorizer.CategoryMerchandise, false, nil)
	assert.Empty(t, res.Account)
	require.NotNil(t, res.Debug)
	assert.Equal(t, ReasonNoVATRate, res.Debug.Reason)
	assert.Empty(t, res.Debug.Tried)
}

func TestResolve_MissingCategory(t *testing.T) {
	r := newTestResolver(nil)
	res := r.Resolve("  ", false, models.IntPtr(24))
	require.NotNil(t, res.Debug)
	assert.Equal(t, ReasonNoCategory, res.Debug.Reason)
}

func TestResolve_SuffixSplit(t *testing.T) {
	r := newTestResolver(map[string]interface{}{
		"account_αγορες_πρωτων_υλων_fpa_kat_13%": "24.01.00.013_13",
	})

	res := r.Resolve(categorizer.CategoryRawMaterials, false, models.IntPtr(13))
	assert.Equal(t, "24.01.00.013", res.Account)
}

func TestBaseCode(t *testing.T) {
	assert.Equal(t, "64.02", BaseCode("64.02_24"))
	assert.Equal(t, "64.02", BaseCode(" 64.02 "))
	assert.Equal(t, "_24", BaseCode("_24"))
	assert.Equal(t, "", BaseCode(""))
}

func TestHeaderAccount(t *testing.T) {
	r := newTestResolver(map[string]interface{}{
		"account_supplier_retail":    "50.00.00.001",
		"ACCOUNT_SUPPLIER_WHOLESALE": " 50.00.00.000 ",
	})

	acc, key := r.HeaderAccount(true)
	assert.Equal(t, "50.00.00.001", acc)
	assert.Equal(t, KeySupplierRetail, key)

	acc, key = r.HeaderAccount(false)
	assert.Equal(t, "50.00.00.000", acc)
	assert.Equal(t, KeySupplierWholesale, key)

	empty := newTestResolver(nil)
	acc, _ = empty.HeaderAccount(true)
	assert.Empty(t, acc)
}

func TestTable_IgnoresNonRateKeys(t *testing.T) {
	tbl := NewTable(NewSettings(map[string]interface{}{
		"account_supplier_retail": "50",
		"other":                   "x",
		"account_x_fpa_kat_6%":    "X6",
	}), nil)
	assert.Equal(t, 1, tbl.Len())
	v, key, ok := tbl.Lookup("x", 6)
	require.True(t, ok)
	assert.Equal(t, "X6", v)
	assert.Equal(t, "account_x_fpa_kat_6%", key)
}
