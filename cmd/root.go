package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rulelens/rulelens-cli/internal/api"
	"github.com/rulelens/rulelens-cli/internal/association"
	cfgpkg "github.com/rulelens/rulelens-cli/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Retry/HTTP flags (override config if set)
	flagHTTPTimeoutSec   int
	flagRetryMaxAttempts int
	flagRetryBaseDelayMs int
	flagRetryMaxDelayMs  int

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "rulelens",
	Short: "RuleLens CLI: explore association-rules models from the mining API",
	Long:  `RuleLens is a CLI tool that fetches finished association-rules models from the hosted mining API and explores them locally: filter items and rules, export rules as CSV, and print ranked summaries.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.rulelens/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP client timeout in seconds (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryMaxAttempts, "retry-max", 0, "max retry attempts on 429/5xx (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryBaseDelayMs, "retry-base-ms", 0, "base retry backoff in ms (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryMaxDelayMs, "retry-max-ms", 0, "max retry backoff cap in ms (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		cfg.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
	if f.Changed("retry-max") && flagRetryMaxAttempts > 0 {
		cfg.RetryMaxAttempts = flagRetryMaxAttempts
	}
	if f.Changed("retry-base-ms") && flagRetryBaseDelayMs > 0 {
		cfg.RetryBaseDelayMs = flagRetryBaseDelayMs
	}
	if f.Changed("retry-max-ms") && flagRetryMaxDelayMs > 0 {
		cfg.RetryMaxDelayMs = flagRetryMaxDelayMs
	}
}

// newAPIClient builds the mining API client from the effective config.
func newAPIClient() *api.Client {
	token := os.Getenv("RULELENS_API_TOKEN")
	baseURL := ""
	storageDir := ""
	timeout := 0
	retryMax := 0
	baseMs := 0
	maxMs := 0
	if cfg != nil {
		if cfg.APIToken != "" {
			token = cfg.APIToken
		}
		baseURL = cfg.APIURL
		storageDir = cfg.StorageDir
		timeout = cfg.HTTPTimeoutSec
		retryMax = cfg.RetryMaxAttempts
		baseMs = cfg.RetryBaseDelayMs
		maxMs = cfg.RetryMaxDelayMs
	}
	c := api.NewClientWithBaseURL(token,
		time.Duration(timeout)*time.Second,
		retryMax,
		time.Duration(baseMs)*time.Millisecond,
		time.Duration(maxMs)*time.Millisecond,
		baseURL)
	return c.WithStorage(storageDir)
}

// loadAssociation retrieves a finished association resource and builds the
// local explorer.
func loadAssociation(ctx context.Context, id string) (*association.Association, error) {
	client := newAPIClient()
	if debug {
		fmt.Fprintf(os.Stderr, "retrieving %s\n", id)
	}
	data, err := client.Retrieve(ctx, id)
	if err != nil {
		return nil, err
	}
	return association.New(data)
}
