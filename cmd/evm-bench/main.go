// Package main provides the CLI entry point for evm-bench, a benchmark
// harness measuring per-call execution latency of a fixed contract across
// interchangeable EVM backends.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziyadedher/evm-bench/backend"
	_ "github.com/ziyadedher/evm-bench/backend/geth"
	"github.com/ziyadedher/evm-bench/bench"
	"github.com/ziyadedher/evm-bench/report"
	"github.com/ziyadedher/evm-bench/runner"
	"github.com/ziyadedher/evm-bench/scenario"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	root := newRootCmd(logger)
	if err := root.Execute(); err != nil {
		logger.Error("benchmark failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "evm-bench",
		Short: "Cross-backend EVM execution latency benchmark",
		Long: `evm-bench deploys a fixed contract once and times repeated calls
against it, printing one microsecond figure per call so different EVM
implementations can be compared under identical bytecode and inputs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCmd(logger))
	root.AddCommand(newCompareCmd(logger))

	return root
}

func newRunCmd(logger *slog.Logger) *cobra.Command {
	var (
		contractCodePath string
		calldata         string
		numRuns          int
		backendName      string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Benchmark one backend",
		Long: `Deploy the contract once on the chosen backend, then execute the
call the requested number of times, printing each call's elapsed time in
microseconds on its own line.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runBenchmark(logger, runConfig{
				contractCodePath: contractCodePath,
				calldata:         calldata,
				numRuns:          numRuns,
				backend:          backendName,
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&contractCodePath, "contract-code-path", "",
		"Path to hex-encoded deployment bytecode")
	flags.StringVar(&calldata, "calldata", "",
		"Hex-encoded calldata used for every call")
	flags.IntVar(&numRuns, "num-runs", 1,
		"Number of timed call iterations")
	flags.StringVar(&backendName, "backend", "geth",
		"Backend to benchmark")

	cobra.CheckErr(cmd.MarkFlagRequired("contract-code-path"))

	return cmd
}

type runConfig struct {
	contractCodePath string
	calldata         string
	numRuns          int
	backend          string
}

func runBenchmark(logger *slog.Logger, cfg runConfig) error {
	inputs, err := scenario.LoadInputs(
		cfg.contractCodePath, cfg.calldata, cfg.numRuns,
	)
	if err != nil {
		return err
	}

	env, err := scenario.NewEnvironment()
	if err != nil {
		return err
	}

	adapter, err := backend.New(cfg.backend, env)
	if err != nil {
		return err
	}

	logger.Info("starting benchmark",
		slog.String("backend", cfg.backend),
		slog.Int("bytecode_bytes", len(inputs.Bytecode)),
		slog.Int("calldata_bytes", len(inputs.Calldata)),
		slog.Int("num_runs", inputs.NumRuns),
	)

	loop := bench.New(adapter, env, logger)

	if err := loop.Deploy(inputs.Bytecode); err != nil {
		return err
	}

	// Each sample is flushed as soon as it is recorded, so a failure on
	// call k leaves exactly k-1 lines on stdout. A write failure aborts
	// the run instead of burning the remaining iterations.
	_, err = loop.Run(inputs.Calldata, inputs.NumRuns, func(d time.Duration) error {
		return report.Sample(os.Stdout, d)
	})

	return err
}

func newCompareCmd(logger *slog.Logger) *cobra.Command {
	var (
		contractCodePath string
		calldata         string
		numRuns          int
		runners          []string
		runnersDir       string
		skipBuild        bool
		outputJSON       bool
		outputDir        string
		timeout          time.Duration
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run the benchmark across external runners",
		Long: `Run the same bytecode and calldata through one or more external
runner binaries and compare their per-call latencies.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompare(cmd.Context(), logger, compareConfig{
				contractCodePath: contractCodePath,
				calldata:         calldata,
				numRuns:          numRuns,
				runners:          runners,
				runnersDir:       runnersDir,
				skipBuild:        skipBuild,
				outputJSON:       outputJSON,
				outputDir:        outputDir,
				timeout:          timeout,
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&contractCodePath, "contract-code-path", "",
		"Path to hex-encoded deployment bytecode")
	flags.StringVar(&calldata, "calldata", "",
		"Hex-encoded calldata used for every call")
	flags.IntVar(&numRuns, "num-runs", 1,
		"Number of timed call iterations per runner")
	flags.StringSliceVar(&runners, "runners", nil,
		"Runners to benchmark (e.g. geth,revm,py-evm)")
	flags.StringVar(&runnersDir, "runners-dir", "",
		"Path to runners directory (default: ./runners)")
	flags.BoolVar(&skipBuild, "skip-build", false,
		"Skip building runner binaries")
	flags.BoolVar(&outputJSON, "json", false,
		"Output results as JSON instead of a table")
	flags.StringVar(&outputDir, "output", "",
		"Directory to persist a timestamped outputs file")
	flags.DurationVar(&timeout, "timeout", 30*time.Minute,
		"Per-runner execution timeout")

	cobra.CheckErr(cmd.MarkFlagRequired("contract-code-path"))

	return cmd
}

type compareConfig struct {
	contractCodePath string
	calldata         string
	numRuns          int
	runners          []string
	runnersDir       string
	skipBuild        bool
	outputJSON       bool
	outputDir        string
	timeout          time.Duration
}

func runCompare(
	ctx context.Context,
	logger *slog.Logger,
	cfg compareConfig,
) error {
	if len(cfg.runners) == 0 {
		return fmt.Errorf(
			"at least one runner must be specified via --runners",
		)
	}

	// Validate the shared inputs before touching any runner.
	inputs, err := scenario.LoadInputs(
		cfg.contractCodePath, cfg.calldata, cfg.numRuns,
	)
	if err != nil {
		return err
	}

	contractCodePath, err := filepath.Abs(cfg.contractCodePath)
	if err != nil {
		return fmt.Errorf("resolve contract code path: %w", err)
	}

	runnersDir := cfg.runnersDir
	if runnersDir == "" {
		runnersDir = "runners"
	}

	runnersDir, err = filepath.Abs(runnersDir)
	if err != nil {
		return fmt.Errorf("resolve runners dir: %w", err)
	}

	logger.InfoContext(ctx, "starting comparison",
		slog.Any("runners", cfg.runners),
		slog.Int("num_runs", inputs.NumRuns),
	)

	binaries := make(map[string]string, len(cfg.runners))

	for _, name := range cfg.runners {
		binPath := runner.ResolveBinary(runnersDir, name)

		if !cfg.skipBuild {
			binPath, err = runner.Build(ctx, logger, runnersDir, name)
			if err != nil {
				return fmt.Errorf("build %s: %w", name, err)
			}
		}

		binaries[name] = binPath
	}

	// Runners execute sequentially so one runner's load cannot skew
	// another's timings.
	results := make([]runner.Run, 0, len(cfg.runners))

	for _, name := range cfg.runners {
		cmdCfg := runner.WrapCommand(name, binaries[name])

		r := runner.NewRunner(
			name, cmdCfg.Binary, cmdCfg.ExtraArgs, cmdCfg.Env, logger,
		)
		run, runErr := r.Run(ctx, runner.RunConfig{
			ContractCodePath: contractCodePath,
			Calldata:         cfg.calldata,
			NumRuns:          cfg.numRuns,
			Timeout:          cfg.timeout,
		})
		if runErr != nil {
			return fmt.Errorf("run %s: %w", name, runErr)
		}

		results = append(results, *run)
	}

	if cfg.outputDir != "" {
		path, err := report.WriteOutputs(cfg.outputDir, results, time.Now())
		if err != nil {
			return fmt.Errorf("write outputs: %w", err)
		}

		logger.InfoContext(ctx, "outputs written",
			slog.String("path", path),
		)
	}

	if cfg.outputJSON {
		if err := report.WriteJSON(os.Stdout, results); err != nil {
			return fmt.Errorf("generate JSON report: %w", err)
		}
	} else {
		if err := report.Compare(os.Stdout, results); err != nil {
			return fmt.Errorf("generate report: %w", err)
		}
	}

	logger.InfoContext(ctx, "comparison complete")

	return nil
}
