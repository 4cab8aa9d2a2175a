// Package main provides the CLI entry point for the dataset generator.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/dwhgen/internal/config"
	"github.com/example/dwhgen/internal/metrics"
	"github.com/example/dwhgen/internal/metrics/prompush"
	"github.com/example/dwhgen/internal/runner"
)

// Version information (populated at build time)
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// CLI flags
var (
	configPath     string
	outputDir      string
	seed           uint64
	verbose        bool
	validate       bool
	dryRun         bool
	showVersion    bool
	metricsBackend string
	pushgatewayURL string
)

func init() {
	// Configuration
	flag.StringVar(&configPath, "config", "", "Path to the YAML configuration file")
	flag.StringVar(&configPath, "c", "", "Path to the YAML configuration file (shorthand)")

	// Override flags
	flag.StringVar(&outputDir, "out", "", "Override the output directory")
	flag.Uint64Var(&seed, "seed", 0, "Override the random seed (0 keeps the config value)")
	flag.StringVar(&metricsBackend, "metrics-backend", "", "Metrics backend: none or pushgateway")
	flag.StringVar(&pushgatewayURL, "pushgateway-url", "", "Pushgateway base URL (implies -metrics-backend pushgateway)")

	// Utility flags
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose output")
	flag.BoolVar(&verbose, "v", false, "Enable verbose output (shorthand)")
	flag.BoolVar(&validate, "validate", false, "Validate configuration and exit")
	flag.BoolVar(&dryRun, "dry-run", false, "Show the generation plan without writing anything")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	// Custom usage
	flag.Usage = printUsage
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Dataset Generator - Synthetic Retail Warehouse Data

USAGE:
    dwhgen [options]
    dwhgen -config <path> [options]

DESCRIPTION:
    Generates a multi-year retail dataset as a tree of CSV files: reference
    tables, monthly transactional files and quarterly summaries. A fixed
    schedule of months carries deliberate quality anomalies (missing and
    empty files, alternate delimiters and encodings, damaged lines, blank
    fields, duplicate transaction ids, mixed date formats) so downstream
    pipelines can be exercised against realistic dirty data.

    Without -config the built-in defaults produce three years (2023-2025)
    of data under ./data.

CONFIGURATION:
    -config, -c <path>    Path to the YAML configuration file

OVERRIDE OPTIONS:
    -out <dir>            Override the output directory
    -seed <n>             Override the random seed (0 keeps the config value;
                          an unseeded run draws a fresh seed and logs it)
    -metrics-backend <b>  Metrics backend: none or pushgateway
    -pushgateway-url <u>  Pushgateway base URL (implies -metrics-backend pushgateway)

UTILITY OPTIONS:
    -validate             Validate configuration and exit
    -dry-run              Show the generation plan and anomaly schedule
    -verbose, -v          Enable verbose (development) logging
    -version              Show version information
    -help, -h             Show this help message

EXAMPLES:
    # Generate with built-in defaults
    dwhgen

    # Generate a reproducible dataset into a custom directory
    dwhgen -seed 42 -out /srv/datasets/retail

    # Run from a config file with metrics pushed at the end
    dwhgen -config configs/dataset.yaml -pushgateway-url http://pushgateway:9091

    # Inspect the plan without writing anything
    dwhgen -config configs/dataset.yaml -dry-run

CONFIGURATION FILE FORMAT:
    The configuration file is in YAML format and supports:
    - Dataset name, output directory, seed and years
    - Reference table sizing (products, regions, employees, stores, warehouses)
    - Monthly volumes (transactions, refunds, campaigns)
    - Metrics backend selection

    See configs/dataset.yaml for a complete example.
`)
}

func main() {
	flag.Parse()

	// Handle version flag
	if showVersion {
		printVersion()
		os.Exit(0)
	}

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Apply CLI overrides and re-validate; overrides can introduce
	// combinations the file alone could not.
	applyOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error in configuration: %v\n", err)
		os.Exit(1)
	}

	// Handle utility commands
	if validate {
		fmt.Printf("Configuration '%s' is valid.\n", cfg.Name)
		printConfigSummary(cfg)
		os.Exit(0)
	}

	if dryRun {
		fmt.Println("=== Generation Plan (Dry Run) ===")
		fmt.Println()
		fmt.Print(runner.Plan(cfg))
		os.Exit(0)
	}

	// Generate the dataset
	if err := generate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating dataset: %v\n", err)
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("dwhgen version %s\n", version)
	fmt.Printf("  Build time: %s\n", buildTime)
	fmt.Printf("  Git commit: %s\n", gitCommit)
}

// loadConfig loads the YAML file named by -config, or the built-in defaults
// when the flag is absent.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}

	absConfigPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}

	return config.LoadFromFile(absConfigPath)
}

func applyOverrides(cfg *config.Config) {
	if outputDir != "" {
		cfg.OutputDir = outputDir
		if verbose {
			fmt.Printf("Override: outputDir = %s\n", outputDir)
		}
	}

	if seed != 0 {
		cfg.Seed = seed
		if verbose {
			fmt.Printf("Override: seed = %d\n", seed)
		}
	}

	if metricsBackend != "" {
		cfg.Metrics.Backend = metricsBackend
		if verbose {
			fmt.Printf("Override: metrics backend = %s\n", metricsBackend)
		}
	}

	if pushgatewayURL != "" {
		cfg.Metrics.PushgatewayURL = pushgatewayURL
		if cfg.Metrics.Backend == config.BackendNone {
			cfg.Metrics.Backend = config.BackendPushgateway
		}
		if verbose {
			fmt.Printf("Override: pushgateway URL = %s\n", pushgatewayURL)
		}
	}
}

func printConfigSummary(cfg *config.Config) {
	fmt.Println()
	fmt.Println("Configuration Summary:")
	fmt.Printf("  Name:         %s\n", cfg.Name)
	fmt.Printf("  Output:       %s\n", cfg.OutputDir)
	fmt.Printf("  Years:        %v\n", cfg.Years)
	fmt.Printf("  Seed:         %s\n", seedDescription(cfg.Seed))
	fmt.Printf("  Products:     %d\n", cfg.Reference.Products)
	fmt.Printf("  Regions:      %d\n", cfg.Reference.Regions)
	fmt.Printf("  Employees:    %d\n", cfg.Reference.Employees)
	fmt.Printf("  Transactions: %d per month\n", cfg.Monthly.Transactions)
	fmt.Printf("  Metrics:      %s\n", cfg.Metrics.Backend)
}

func seedDescription(seed uint64) string {
	if seed == 0 {
		return "random"
	}
	return strconv.FormatUint(seed, 10)
}

// generate runs one full generation session.
func generate(cfg *config.Config) error {
	runID := uuid.NewString()

	log, err := buildLogger()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	backend, err := buildMetrics(cfg, runID)
	if err != nil {
		return fmt.Errorf("creating metrics backend: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runner.New(cfg, log, backend, runID).Run(ctx)
}

// buildLogger returns a production logger, or a development logger when
// -verbose is set.
func buildLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// buildMetrics selects the metrics backend configured for the run.
func buildMetrics(cfg *config.Config, runID string) (metrics.Backend, error) {
	switch cfg.Metrics.Backend {
	case config.BackendPushgateway:
		return prompush.New(cfg.Metrics.Job, cfg.Metrics.PushgatewayURL, runID)
	default:
		return metrics.Nop{}, nil
	}
}
