package config

import (
	"errors"
	"fmt"
	"math"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSearch(); err != nil {
		return err
	}
	if err := c.validateLinking(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSearch() error {
	if c.Search.MaxLimit < 1 || c.Search.MaxLimit > 100 {
		return fmt.Errorf("search.max_limit must be between 1 and 100, got %d", c.Search.MaxLimit)
	}
	if c.Search.DefaultLimit < 1 || c.Search.DefaultLimit > c.Search.MaxLimit {
		return fmt.Errorf("search.default_limit must be between 1 and search.max_limit (%d), got %d",
			c.Search.MaxLimit, c.Search.DefaultLimit)
	}
	if !validThreshold(c.Search.DefaultThreshold) {
		return errors.New("search.default_threshold must be between 0 and 100")
	}
	if c.Search.CacheSize < 1 {
		return errors.New("search.cache_size must be at least 1")
	}
	return nil
}

func (c *Config) validateLinking() error {
	if !validThreshold(c.Linking.Threshold) {
		return errors.New("linking.threshold must be between 0 and 100")
	}
	if c.Linking.Workers < 0 {
		return errors.New("linking.workers must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error, fatal", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("logging.format %q is not one of text, json, logfmt", c.Logging.Format)
	}
	return nil
}

func validThreshold(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 100
}
