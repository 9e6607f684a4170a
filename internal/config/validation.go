package config

import (
	"strings"

	"git.home.luguber.info/inful/sitefilter/internal/errors"
)

// Validate checks field-level constraints. Filter names are resolved later
// against the registry.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Source) == "" {
		return errors.ValidationFailed("source", "must not be empty")
	}
	if c.Workers < 0 {
		return errors.ValidationFailed("workers", "must be zero (auto) or positive")
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return errors.ValidationFailed("extensions", "extensions must start with a dot").WithContext("value", ext)
		}
	}
	for _, name := range c.Filters {
		if strings.TrimSpace(name) == "" {
			return errors.ValidationFailed("filters", "filter names must not be empty")
		}
	}
	if c.Watch.Debounce < 0 {
		return errors.ValidationFailed("watch.debounce", "must not be negative")
	}
	return nil
}

// InPlace reports whether processed files overwrite their sources.
func (c *Config) InPlace() bool {
	return c.Output == "" || c.Output == c.Source
}

// HasExtension reports whether ext (with leading dot) is a filtered extension.
func (c *Config) HasExtension(ext string) bool {
	for _, e := range c.Extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}
