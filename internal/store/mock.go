package store

import (
	"mydata/epsilon-export/internal/accounts"
	"mydata/epsilon-export/internal/models"
)

// MockStore is an in-memory Store for tests.
type MockStore struct {
	Settings    accounts.Settings
	Credentials []models.Credential

	LoadSettingsError    error
	LoadCredentialsError error
}

// LoadSettings returns a copy of the mock settings.
func (m *MockStore) LoadSettings() (accounts.Settings, error) {
	if m.LoadSettingsError != nil {
		return nil, m.LoadSettingsError
	}
	if m.Settings == nil {
		return accounts.Settings{}, nil
	}
	return m.Settings.Clone(), nil
}

// LoadCredentials returns the mock credentials.
func (m *MockStore) LoadCredentials() ([]models.Credential, error) {
	if m.LoadCredentialsError != nil {
		return nil, m.LoadCredentialsError
	}
	return m.Credentials, nil
}
