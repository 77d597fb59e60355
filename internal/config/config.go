// Package config provides layered configuration for citegraph crawls:
// built-in defaults, an optional YAML file, then environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/persistorai/citegraph/client"
)

// Secret wraps a sensitive string to prevent accidental logging or marshalling.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// Output layouts.
const (
	LayoutEdges   = "edges"
	LayoutAuthors = "authors"
)

// Output formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// DefaultSeeds are highly cited papers with dense citation neighbourhoods.
var DefaultSeeds = []string{
	"arXiv:1706.03762", // Attention Is All You Need
	"arXiv:1409.0473",  // Neural Machine Translation by Jointly Learning to Align and Translate
	"arXiv:1312.5602",  // Playing Atari with Deep Reinforcement Learning
}

// Config holds everything a crawl run needs.
type Config struct {
	APIURL      string
	APIKey      Secret
	Seeds       []string
	MaxNodes    int
	Delay       time.Duration
	Timeout     time.Duration
	Fields      []string
	Layout      string
	Format      string
	OutputPath  string
	LogLevel    string
	LogFormat   string
	StatusAddr  string
	CORSOrigins []string
	MetricsFile string
}

// File is the on-disk YAML representation. Empty fields leave defaults untouched.
type File struct {
	APIURL      string   `yaml:"api_url,omitempty"`
	APIKey      string   `yaml:"api_key,omitempty"`
	Seeds       []string `yaml:"seeds,omitempty"`
	MaxNodes    int      `yaml:"max_nodes,omitempty"`
	Delay       string   `yaml:"delay,omitempty"`
	Timeout     string   `yaml:"timeout,omitempty"`
	Fields      []string `yaml:"fields,omitempty"`
	Layout      string   `yaml:"layout,omitempty"`
	Format      string   `yaml:"format,omitempty"`
	Output      string   `yaml:"output,omitempty"`
	LogLevel    string   `yaml:"log_level,omitempty"`
	LogFormat   string   `yaml:"log_format,omitempty"`
	StatusAddr  string   `yaml:"status_addr,omitempty"`
	CORSOrigins []string `yaml:"cors_origins,omitempty"`
	MetricsFile string   `yaml:"metrics_file,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	seeds := make([]string, len(DefaultSeeds))
	copy(seeds, DefaultSeeds)

	return &Config{
		APIURL:     client.DefaultBaseURL,
		Seeds:      seeds,
		MaxNodes:   150,
		Delay:      600 * time.Millisecond,
		Timeout:    15 * time.Second,
		Layout:     LayoutEdges,
		Format:     FormatCSV,
		OutputPath: "papers.csv",
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

// DefaultPath returns ~/.citegraph/config.yaml, or "" when the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".citegraph", "config.yaml")
}

// Load builds a Config from defaults, the YAML file at path and the environment,
// then validates it. A missing file is ignored unless required is true.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()

	if path != "" {
		f, err := ReadFile(path)
		switch {
		case err == nil:
			if err := cfg.applyFile(f); err != nil {
				return nil, fmt.Errorf("config file %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && !required:
		default:
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// ReadFile parses a YAML config file.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return &f, nil
}

// WriteFile writes f as YAML to path with owner-only permissions, creating parent directories.
func WriteFile(path string, f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// FieldSet returns the paper fields to request: the configured list, or the
// default for the output layout.
func (c *Config) FieldSet() []string {
	if len(c.Fields) > 0 {
		return c.Fields
	}

	if c.Layout == LayoutAuthors {
		return client.AuthorGraphFields
	}

	return client.GraphFields
}

func (c *Config) applyFile(f *File) error {
	setString(&c.APIURL, f.APIURL)
	setString(&c.Layout, f.Layout)
	setString(&c.Format, f.Format)
	setString(&c.OutputPath, f.Output)
	setString(&c.LogLevel, f.LogLevel)
	setString(&c.LogFormat, f.LogFormat)
	setString(&c.StatusAddr, f.StatusAddr)
	setString(&c.MetricsFile, f.MetricsFile)

	if f.APIKey != "" {
		c.APIKey = Secret(f.APIKey)
	}

	if len(f.Seeds) > 0 {
		c.Seeds = cleanList(f.Seeds)
	}

	if len(f.Fields) > 0 {
		c.Fields = cleanList(f.Fields)
	}

	if len(f.CORSOrigins) > 0 {
		c.CORSOrigins = cleanList(f.CORSOrigins)
	}

	if f.MaxNodes != 0 {
		c.MaxNodes = f.MaxNodes
	}

	if err := setDuration(&c.Delay, "delay", f.Delay); err != nil {
		return err
	}

	return setDuration(&c.Timeout, "timeout", f.Timeout)
}

func (c *Config) applyEnv() error {
	c.APIURL = envOrDefault("CITEGRAPH_API_URL", c.APIURL)
	c.Layout = envOrDefault("CITEGRAPH_LAYOUT", c.Layout)
	c.Format = envOrDefault("CITEGRAPH_FORMAT", c.Format)
	c.OutputPath = envOrDefault("CITEGRAPH_OUTPUT", c.OutputPath)
	c.LogLevel = envOrDefault("LOG_LEVEL", c.LogLevel)
	c.LogFormat = envOrDefault("LOG_FORMAT", c.LogFormat)
	c.StatusAddr = envOrDefault("CITEGRAPH_STATUS_ADDR", c.StatusAddr)
	c.MetricsFile = envOrDefault("CITEGRAPH_METRICS_FILE", c.MetricsFile)

	if v := envOrDefault("CITEGRAPH_API_KEY", os.Getenv("SEMANTIC_SCHOLAR_API_KEY")); v != "" {
		c.APIKey = Secret(v)
	}

	if v := os.Getenv("CITEGRAPH_SEEDS"); v != "" {
		c.Seeds = cleanList(strings.Split(v, ","))
	}

	if v := os.Getenv("CITEGRAPH_FIELDS"); v != "" {
		c.Fields = cleanList(strings.Split(v, ","))
	}

	if v := os.Getenv("CITEGRAPH_CORS_ORIGINS"); v != "" {
		c.CORSOrigins = cleanList(strings.Split(v, ","))
	}

	if v := os.Getenv("CITEGRAPH_MAX_NODES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CITEGRAPH_MAX_NODES must be an integer: %w", err)
		}
		c.MaxNodes = n
	}

	if err := setDuration(&c.Delay, "CITEGRAPH_DELAY", os.Getenv("CITEGRAPH_DELAY")); err != nil {
		return err
	}

	return setDuration(&c.Timeout, "CITEGRAPH_TIMEOUT", os.Getenv("CITEGRAPH_TIMEOUT"))
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, name, v string) error {
	if v == "" {
		return nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s must be a duration such as 600ms: %w", name, err)
	}

	*dst = d

	return nil
}

// cleanList trims entries and drops empty ones.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}

	return out
}

// SplitList parses a comma-separated flag value the same way the environment is parsed.
func SplitList(v string) []string {
	return cleanList(strings.Split(v, ","))
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
