// Package container provides dependency injection for the epsilon-export
// application. It centralizes the creation of the run-independent dependencies
// (configuration, logger, settings store) so commands and tests wire them the
// same way.
package container

import (
	"fmt"

	"mydata/epsilon-export/internal/config"
	"mydata/epsilon-export/internal/logging"
	"mydata/epsilon-export/internal/store"
)

// Container holds the application dependencies. It is immutable after creation;
// fields are only reachable through getters.
type Container struct {
	logger logging.Logger
	config *config.Config
	store  store.Store
}

// Option customizes a Container during construction.
type Option func(*Container)

// WithLogger replaces the logger built from the configuration.
func WithLogger(logger logging.Logger) Option {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithStore replaces the file-backed settings store.
func WithStore(s store.Store) Option {
	return func(c *Container) {
		if s != nil {
			c.store = s
		}
	}
}

// NewContainer creates and wires all application dependencies from cfg.
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	c := &Container{config: cfg}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))
	}
	if c.store == nil {
		c.store = store.NewConfigStore(cfg.Paths.Settings, cfg.Paths.Credentials, c.logger)
	}

	c.logger.Debug("Container initialized",
		logging.F("settings_file", cfg.Paths.Settings),
		logging.F("credentials_file", cfg.Paths.Credentials))

	return c, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the settings and credentials store.
func (c *Container) GetStore() store.Store {
	return c.store
}
