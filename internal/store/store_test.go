package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mydata/epsilon-export/internal/logging"
	"mydata/epsilon-export/internal/models"
	"mydata/epsilon-export/internal/parsererror"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "settings.json")
	writeFile(t, file, "{}")

	s := NewConfigStore("", "", logging.NewMockLogger())

	found, err := s.FindConfigFile(file)
	require.NoError(t, err)
	assert.Equal(t, file, found)

	_, err = s.FindConfigFile(filepath.Join(dir, "nonexistent.json"))
	assert.Error(t, err)
}

func TestLoadSettings_JSON(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "credentials_settings.json")
	writeFile(t, file, `{
  "Account_Supplier_Retail": "50.00.00.001",
  "account_αποδειξακια_fpa_kat_0%": "64.98.00.000",
  "account_x_24%": 6400,
  "apodeixakia_enabled": true
}`)

	s := NewConfigStore(file, "", logging.NewMockLogger())
	settings, err := s.LoadSettings()
	require.NoError(t, err)

	assert.Equal(t, "50.00.00.001", settings["account_supplier_retail"])
	assert.Equal(t, "64.98.00.000", settings["account_αποδειξακια_fpa_kat_0%"])
	assert.Equal(t, "6400", settings["account_x_24%"])
	assert.Equal(t, "true", settings["apodeixakia_enabled"])
}

func TestLoadSettings_YAML(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "settings.yaml")
	writeFile(t, file, "account_supplier_wholesale: \"50.00.00.000\"\naccount_x_fpa_kat_13%: \"64.13\"\n")

	s := NewConfigStore(file, "", logging.NewMockLogger())
	settings, err := s.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "50.00.00.000", settings.Get("account_supplier_wholesale"))
	assert.Equal(t, "64.13", settings.Get("account_x_fpa_kat_13%"))
}

func TestLoadSettings_MissingAndMalformed(t *testing.T) {
	dir := t.TempDir()
	logger := logging.NewMockLogger()

	s := NewConfigStore(filepath.Join(dir, "missing.json"), "", logger)
	settings, err := s.LoadSettings()
	require.NoError(t, err)
	assert.Empty(t, settings)
	assert.True(t, logger.HasEntry("WARN", "Settings file not found"))

	bad := filepath.Join(dir, "bad.json")
	writeFile(t, bad, `["not", "a", "map"]`)
	s = NewConfigStore(bad, "", logger)
	_, err = s.LoadSettings()
	var formatErr *parsererror.InvalidFormatError
	assert.True(t, errors.As(err, &formatErr))
}

func TestLoadCredentials_ListAndEnvelope(t *testing.T) {
	dir := t.TempDir()

	list := filepath.Join(dir, "credentials.json")
	writeFile(t, list, `[
  {"vat": "123456789", "apodeixakia_type": "supplier", "apodeixakia_supplier": 900,
   "apodeixakia_other_expenses": "true", "username": "ignored"},
  {"vat": "987654321", "custom_categories": [
     {"id": "kafes", "enabled": true, "accounts": {"24%": "64.24"}}
  ]}
]`)
	s := NewConfigStore("", list, logging.NewMockLogger())
	creds, err := s.LoadCredentials()
	require.NoError(t, err)
	require.Len(t, creds, 2)
	assert.True(t, creds[0].SupplierMode())
	id, ok := creds[0].SupplierID()
	require.True(t, ok)
	assert.Equal(t, 900, id)
	assert.True(t, creds[0].OtherExpenses())
	require.Len(t, creds[1].CustomCategories, 1)
	assert.True(t, creds[1].CustomCategories[0].IsEnabled())

	envelope := filepath.Join(dir, "credentials.yaml")
	writeFile(t, envelope, "credentials:\n  - vat: \"111111111\"\n    apodeixakia_type: supplier\n    apodeixakia_supplier: 5\n")
	s = NewConfigStore("", envelope, logging.NewMockLogger())
	creds, err = s.LoadCredentials()
	require.NoError(t, err)
	require.Len(t, creds, 1)
	assert.Equal(t, "111111111", creds[0].VAT)
	id, ok = creds[0].SupplierID()
	require.True(t, ok)
	assert.Equal(t, 5, id)
}

func TestLoadCredentials_Missing(t *testing.T) {
	s := NewConfigStore("", filepath.Join(t.TempDir(), "none.json"), logging.NewMockLogger())
	creds, err := s.LoadCredentials()
	require.NoError(t, err)
	assert.Empty(t, creds)
}

func TestLoadCredentials_WarnsOnWorldReadableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	writeFile(t, path, `[{"vat": "123456789"}]`)

	logger := logging.NewMockLogger()
	_, err := NewConfigStore("", path, logger).LoadCredentials()
	require.NoError(t, err)
	assert.False(t, logger.HasEntry("WARN", "Credentials file is readable by other users"))

	require.NoError(t, os.Chmod(path, 0644))
	_, err = NewConfigStore("", path, logger).LoadCredentials()
	require.NoError(t, err)
	assert.True(t, logger.HasEntry("WARN", "Credentials file is readable by other users"))
}

func TestSelectCredential(t *testing.T) {
	creds := []models.Credential{
		{VAT: "111111111"},
		{VAT: "EL123456789"},
		{VAT: "987654321"},
	}

	c, ok := SelectCredential(creds, "987654321")
	require.True(t, ok)
	assert.Equal(t, "987654321", c.VAT)

	c, ok = SelectCredential(creds, "123456789")
	require.True(t, ok)
	assert.Equal(t, "EL123456789", c.VAT)

	c, ok = SelectCredential(creds, "555555555")
	require.True(t, ok)
	assert.Equal(t, "111111111", c.VAT)

	_, ok = SelectCredential(nil, "1")
	assert.False(t, ok)
}

func TestMockStore(t *testing.T) {
	m := &MockStore{LoadSettingsError: errors.New("boom")}
	_, err := m.LoadSettings()
	assert.Error(t, err)

	m = &MockStore{}
	settings, err := m.LoadSettings()
	require.NoError(t, err)
	assert.NotNil(t, settings)
}
