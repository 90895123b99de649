// Command equity-sampler runs a Monte Carlo sampling pass over a
// named-slot value store and prints the resulting distribution
// summary.
//
// Usage:
//
//	go run ./cmd/equity-sampler run --samples 500 --seed 12345
//	go run ./cmd/equity-sampler run --config sampler.yaml
//
// Without a config file the contract slot names and the built-in
// normal realization source are used.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/tradesim/equity-sampler/internal/config"
	"github.com/tradesim/equity-sampler/internal/domain"
	"github.com/tradesim/equity-sampler/internal/simulation"
	"github.com/tradesim/equity-sampler/internal/store"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "equity-sampler",
		Short:         "Monte Carlo distribution sampler for equity-curve outcomes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newRunCommand())

	if err := rootCmd.Execute(); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func newRunCommand() *cobra.Command {
	var (
		configPath string
		samples    int
		seed       int64
		debug      bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Collect samples, summarize them, and print the distribution",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSampler(configPath, samples, seed, debug)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML configuration file")
	cmd.Flags().IntVar(&samples, "samples", 100, "Number of realizations to collect")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Seed for the built-in realization source (0 = time-based)")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")

	return cmd
}

func runSampler(configPath string, samples int, seed int64, debug bool) error {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	logger := simulation.SlogLogger{L: slogger}

	cfg := config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.NewInputParser().LoadFromFile(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if seed != 0 {
		cfg.Source.Seed = seed
	}

	// The in-memory store plays the external formula engine: the
	// sampling slot recomputes from the realization source whenever
	// the store changes.
	st := store.NewMemStore()
	st.BindVolatile(cfg.Slots.Sample, store.NewNormalSource(cfg.Source.Mean, cfg.Source.StdDev, cfg.Source.Seed))
	if err := st.SetNumber(cfg.Slots.SimCount, decimal.NewFromInt(int64(samples))); err != nil {
		return fmt.Errorf("failed to seed sample count: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := simulation.NewOrchestrator(st, cfg, logger).Run(ctx)
	if err != nil {
		return err
	}

	printSummary(result)
	return nil
}

// printSummary renders the run result as a plain text table.
func printSummary(result *domain.RunResult) {
	stats := result.Statistics
	fmt.Printf("Samples:            %d\n", result.SampleCount)
	fmt.Printf("Expected value:     %s\n", stats.ExpectedValue.StringFixed(4))
	fmt.Printf("Median:             %s\n", stats.Median.StringFixed(4))
	fmt.Printf("Minimum:            %s\n", stats.MinValue.StringFixed(4))
	fmt.Printf("Maximum:            %s\n", stats.MaxValue.StringFixed(4))
	fmt.Printf("Std deviation:      %s\n", stats.StandardDeviation.StringFixed(4))
	fmt.Printf("First quartile:     %s\n", stats.Q1.StringFixed(4))
	fmt.Printf("Third quartile:     %s\n", stats.Q3.StringFixed(4))
}
