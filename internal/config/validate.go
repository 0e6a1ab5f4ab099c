package config

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateTMDB(); err != nil {
		return err
	}
	if err := c.validateProviders(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateCatalog() error {
	if c.Catalog.URL == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/watchtag/config.toml"
		}
		return fmt.Errorf("catalog.url is required. Edit %s (create with 'watchtag config init')", defaultPath)
	}
	if c.Catalog.APIKey == "" {
		return errors.New("catalog.api_key must be set")
	}
	return nil
}

func (c *Config) validateTMDB() error {
	// The API key itself is checked at sweep start, not here: the daemon and
	// the read-only CLI commands work without one.
	if _, err := language.ParseRegion(c.TMDB.Region); err != nil {
		return fmt.Errorf("tmdb.region %q is not a valid region code: %w", c.TMDB.Region, err)
	}
	return nil
}

func (c *Config) validateProviders() error {
	seen := make(map[string]struct{}, len(c.Providers))
	for i, provider := range c.Providers {
		if provider.Name == "" {
			return fmt.Errorf("providers[%d].name must be set", i)
		}
		key := strings.ToLower(provider.Name)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("provider name %q configured more than once", provider.Name)
		}
		seen[key] = struct{}{}
		for _, id := range provider.ProviderIDs {
			if id <= 0 {
				return fmt.Errorf("provider %q has non-positive provider id %d", provider.Name, id)
			}
		}
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
