package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/persistorai/citegraph/client"
	"github.com/persistorai/citegraph/internal/config"
)

// Build-time variables set via ldflags.
var (
	version   = "0.1.0"
	commit    = ""
	buildDate = ""
)

var (
	cfg       *config.Config
	logger    *logrus.Logger
	apiClient *client.Client

	flagConfig    string
	flagAPIURL    string
	flagAPIKey    string
	flagLogLevel  string
	flagLogFormat string
	flagFmt       string
)

func versionString() string {
	if commit != "" && buildDate != "" {
		return fmt.Sprintf("citegraph version %s (commit: %s, built: %s)", version, commit, buildDate)
	}
	return fmt.Sprintf("citegraph version %s-dev", version)
}

func main() {
	// Route tables are not useful on stdout, which may carry an export.
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "citegraph",
		Short:   "citegraph: bounded citation graph crawler for Semantic Scholar",
		Version: versionString(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd)
		},
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Config file (env: CITEGRAPH_CONFIG, default ~/.citegraph/config.yaml)")
	pf.StringVar(&flagAPIURL, "api-url", client.DefaultBaseURL, "Graph API base URL (env: CITEGRAPH_API_URL)")
	pf.StringVar(&flagAPIKey, "api-key", "", "Semantic Scholar API key (env: CITEGRAPH_API_KEY)")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug|info|warn|error (env: LOG_LEVEL)")
	pf.StringVar(&flagLogFormat, "log-format", "text", "Log format: text|json (env: LOG_FORMAT)")
	pf.StringVar(&flagFmt, "format", "json", "Output format for inspection commands: json|table|quiet")

	initCmd := newInitCmd()
	initCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error { return nil } // skip config load
	doctorCmd := newDoctorCmd()
	doctorCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error { return nil } // doctor reports config errors itself

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(newCrawlCmd())
	rootCmd.AddCommand(newPaperCmd())

	return rootCmd
}

// setup resolves configuration and builds the shared logger and API client.
// Precedence: explicit flag, then environment, then config file, then defaults.
func setup(cmd *cobra.Command) error {
	c, err := loadConfig()
	if err != nil {
		return err
	}

	applyGlobalFlags(cmd, c)
	if err := c.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	l, err := newLogger(c.LogLevel, c.LogFormat, os.Stderr)
	if err != nil {
		return err
	}

	cfg = c
	logger = l
	apiClient = newAPIClient(c)
	return nil
}

// configPath returns the config file to read and whether it must exist.
func configPath() (string, bool) {
	if flagConfig != "" {
		return flagConfig, true
	}
	if v := os.Getenv("CITEGRAPH_CONFIG"); v != "" {
		return v, true
	}
	return config.DefaultPath(), false
}

func loadConfig() (*config.Config, error) {
	path, required := configPath()
	return config.Load(path, required)
}

func applyGlobalFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("api-url") {
		c.APIURL = flagAPIURL
	}
	if flags.Changed("api-key") {
		c.APIKey = config.Secret(flagAPIKey)
	}
	if flags.Changed("log-level") {
		c.LogLevel = flagLogLevel
	}
	if flags.Changed("log-format") {
		c.LogFormat = flagLogFormat
	}
}

func newAPIClient(c *config.Config) *client.Client {
	opts := []client.Option{
		client.WithTimeout(c.Timeout),
		client.WithDelay(c.Delay),
		client.WithUserAgent("citegraph/" + version),
	}
	if key := c.APIKey.Value(); key != "" {
		opts = append(opts, client.WithAPIKey(key))
	}
	return client.New(c.APIURL, opts...)
}
