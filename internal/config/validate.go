package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateWard(); err != nil {
		return err
	}
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSync(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateWard() error {
	if c.Ward.TotalBeds < 1 {
		return errors.New("ward.total_beds must be a positive integer")
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if strings.TrimSpace(c.Paths.APIBind) == "" {
		return errors.New("paths.api_bind must be set")
	}
	return nil
}

func (c *Config) validateSync() error {
	if !c.Sync.Enabled {
		return nil
	}
	if c.Sync.EndpointURL == "" {
		return errors.New("sync.endpoint_url must be set when sync.enabled is true")
	}
	parsed, err := url.Parse(c.Sync.EndpointURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("sync.endpoint_url %q is not an absolute URL", c.Sync.EndpointURL)
	}
	if c.Sync.RequestTimeout < 1 {
		return errors.New("sync.request_timeout must be at least 1 second")
	}
	if c.Sync.DrainInterval < 1 {
		return errors.New("sync.drain_interval must be at least 1 second")
	}
	if c.Sync.RetryBackoffMin < 1 || c.Sync.RetryBackoffMax < c.Sync.RetryBackoffMin {
		return errors.New("sync retry backoff bounds must satisfy 1 <= min <= max")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
