// Package store loads the on-disk settings and credentials files.
package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"mydata/epsilon-export/internal/accounts"
	"mydata/epsilon-export/internal/logging"
	"mydata/epsilon-export/internal/models"
	"mydata/epsilon-export/internal/parsererror"
	"mydata/epsilon-export/internal/textutils"
	"mydata/epsilon-export/internal/validation"
)

// Default file names looked up when no explicit path is configured.
const (
	DefaultSettingsFile    = "credentials_settings.json"
	DefaultCredentialsFile = "credentials.json"
)

// Store is the read side used by the export pipeline.
type Store interface {
	LoadSettings() (accounts.Settings, error)
	LoadCredentials() ([]models.Credential, error)
}

// ConfigStore reads settings and credentials from JSON or YAML files.
type ConfigStore struct {
	SettingsFile    string
	CredentialsFile string
	logger          logging.Logger
}

// NewConfigStore creates a store for the given files. Empty names fall back
// to the defaults.
func NewConfigStore(settingsFile, credentialsFile string, logger logging.Logger) *ConfigStore {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &ConfigStore{
		SettingsFile:    settingsFile,
		CredentialsFile: credentialsFile,
		logger:          logger,
	}
}

// FindConfigFile looks for a configuration file in standard locations.
func (s *ConfigStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("data", filename),
		filepath.Join("config", filename),
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		configPath := filepath.Join(homeDir, ".config", "epsilon-export", filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

func (s *ConfigStore) readConfigFile(filename, fallback string) ([]byte, string, error) {
	if filename == "" {
		filename = fallback
	}
	path, err := s.FindConfigFile(filename)
	if err != nil {
		return nil, filename, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("error reading %s: %w", path, err)
	}
	return data, path, nil
}

// LoadSettings reads the flat settings mapping. A missing file yields empty
// settings; every account then surfaces as an issue downstream.
func (s *ConfigStore) LoadSettings() (accounts.Settings, error) {
	data, path, err := s.readConfigFile(s.SettingsFile, DefaultSettingsFile)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn("Settings file not found", logging.F(logging.FieldFile, path))
			return accounts.Settings{}, nil
		}
		return nil, err
	}

	raw := map[string]interface{}{}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := decode(path, data, &raw); err != nil {
			return nil, &parsererror.InvalidFormatError{
				FilePath:       path,
				ExpectedFormat: "settings mapping",
				Msg:            "settings must be a flat key/value object",
				Err:            err,
			}
		}
	}

	settings := accounts.NewSettings(raw)
	s.logger.Debug("Loaded settings",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(settings)))
	return settings, nil
}

// LoadCredentials reads the credential list. Both a bare list and an object
// with a "credentials" list are accepted. A missing file yields no entries.
func (s *ConfigStore) LoadCredentials() ([]models.Credential, error) {
	data, path, err := s.readConfigFile(s.CredentialsFile, DefaultCredentialsFile)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn("Credentials file not found", logging.F(logging.FieldFile, path))
			return []models.Credential{}, nil
		}
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []models.Credential{}, nil
	}
	if info, statErr := os.Stat(path); statErr == nil {
		if err := validation.IsValidFilePermissions(info.Mode().Perm()); err != nil {
			s.logger.Warn("Credentials file is readable by other users",
				logging.F(logging.FieldFile, path),
				logging.F("mode", info.Mode().Perm().String()))
		}
	}

	var list []models.Credential
	if err := decode(path, data, &list); err == nil {
		s.logger.Debug("Loaded credentials",
			logging.F(logging.FieldFile, path),
			logging.F(logging.FieldCount, len(list)))
		return list, nil
	}

	var envelope struct {
		Credentials []models.Credential `json:"credentials" yaml:"credentials"`
	}
	if err := decode(path, data, &envelope); err != nil {
		return nil, &parsererror.InvalidFormatError{
			FilePath:       path,
			ExpectedFormat: "credential list",
			Err:            err,
		}
	}
	s.logger.Debug("Loaded credentials",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(envelope.Credentials)))
	return envelope.Credentials, nil
}

// SelectCredential returns the entry whose VAT matches vat, comparing the
// normalized tax numbers, else the first entry. ok is false for an empty list.
func SelectCredential(creds []models.Credential, vat string) (models.Credential, bool) {
	if len(creds) == 0 {
		return models.Credential{}, false
	}
	want := strings.TrimSpace(vat)
	for _, c := range creds {
		if strings.TrimSpace(c.VAT) == want {
			return c, true
		}
	}
	if norm := textutils.NormalizeAFM(want); norm != "" {
		for _, c := range creds {
			if textutils.NormalizeAFM(c.VAT) == norm {
				return c, true
			}
		}
	}
	return creds[0], true
}

// decode picks the codec from the file extension. JSON numbers are kept as
// json.Number so account codes never pass through float64.
func decode(path string, data []byte, v interface{}) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, v)
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		return dec.Decode(v)
	}
}
