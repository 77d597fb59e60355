package config

import (
	"fmt"
	"net/url"

	"github.com/sirupsen/logrus"
)

// Validate checks the configuration for values a crawl cannot run with.
func (c *Config) Validate() error {
	if err := c.validateCrawl(); err != nil {
		return err
	}

	if err := c.validateAPI(); err != nil {
		return err
	}

	if err := c.validateOutput(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateCrawl() error {
	// An empty seed list is valid: the crawl discovers nothing and the
	// export is header-only.
	if c.MaxNodes < 1 {
		return fmt.Errorf("max nodes must be at least 1, got %d", c.MaxNodes)
	}

	if c.Delay < 0 {
		return fmt.Errorf("delay must not be negative, got %s", c.Delay)
	}

	return nil
}

func (c *Config) validateAPI() error {
	u, err := url.ParseRequestURI(c.APIURL)
	if err != nil {
		return fmt.Errorf("API URL is not a valid URL: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("API URL scheme must be http or https, got %q", u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("API URL must include a host")
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}

	return nil
}

func (c *Config) validateOutput() error {
	switch c.Layout {
	case LayoutEdges, LayoutAuthors:
	default:
		return fmt.Errorf("layout must be %q or %q, got %q", LayoutEdges, LayoutAuthors, c.Layout)
	}

	switch c.Format {
	case FormatCSV, FormatJSON:
	default:
		return fmt.Errorf("format must be %q or %q, got %q", FormatCSV, FormatJSON, c.Format)
	}

	if c.OutputPath == "" {
		return fmt.Errorf("output path is required")
	}

	for _, origin := range c.CORSOrigins {
		u, err := url.Parse(origin)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" || (u.Path != "" && u.Path != "/") {
			return fmt.Errorf("CORS origin must look like https://host[:port], got %q", origin)
		}
	}

	return nil
}

func (c *Config) validateLogging() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("log format must be text or json, got %q", c.LogFormat)
	}

	return nil
}
