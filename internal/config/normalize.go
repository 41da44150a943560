package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.applyEnv()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) applyEnv() {
	if value, ok := os.LookupEnv(EnvDatabasePath); ok && strings.TrimSpace(value) != "" {
		c.Storage.DatabasePath = value
	}
	if value, ok := os.LookupEnv(EnvKnownAthletesPath); ok && strings.TrimSpace(value) != "" {
		c.Registry.KnownAthletesPath = value
	}
	if value, ok := os.LookupEnv(EnvLogLevel); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
}

func (c *Config) normalizePaths() error {
	var err error
	c.Storage.DatabasePath = strings.TrimSpace(c.Storage.DatabasePath)
	if c.Storage.DatabasePath == "" {
		c.Storage.DatabasePath = defaultDatabasePath
	}
	if c.Storage.DatabasePath, err = ExpandPath(c.Storage.DatabasePath); err != nil {
		return fmt.Errorf("storage.database_path: %w", err)
	}

	// An empty registry path disables the known-athletes registry
	c.Registry.KnownAthletesPath = strings.TrimSpace(c.Registry.KnownAthletesPath)
	if c.Registry.KnownAthletesPath, err = ExpandPath(c.Registry.KnownAthletesPath); err != nil {
		return fmt.Errorf("registry.known_athletes_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
}
