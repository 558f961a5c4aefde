// Package runner manages execution of external per-engine runner binaries.
// Each runner speaks the same command surface as the CLI's run command and
// prints one microsecond figure per completed call on stdout.
package runner

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// RunConfig holds parameters for a single runner execution.
type RunConfig struct {
	ContractCodePath string
	Calldata         string
	NumRuns          int
	Timeout          time.Duration
}

// Runner launches and manages a single external runner binary.
type Runner struct {
	Name       string
	BinaryPath string
	ExtraArgs  []string
	Env        []string
	Logger     *slog.Logger
}

// NewRunner creates a Runner for the named engine. For engines that need an
// interpreter wrapper (e.g. python3 for the Python runners), pass the
// wrapper command as binaryPath and the script path in extraArgs. Env is
// appended to the inherited environment.
func NewRunner(
	name, binaryPath string,
	extraArgs, env []string,
	logger *slog.Logger,
) *Runner {
	return &Runner{
		Name:       name,
		BinaryPath: binaryPath,
		ExtraArgs:  extraArgs,
		Env:        env,
		Logger:     logger.With(slog.String("runner", name)),
	}
}

// Run executes the runner binary and returns its parsed duration samples.
// A non-zero exit or unparsable output fails the whole run; partial output
// from a failed runner is never reported.
func (r *Runner) Run(ctx context.Context, cfg RunConfig) (*Run, error) {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	args := make([]string, 0, len(r.ExtraArgs)+6)
	args = append(args, r.ExtraArgs...)
	args = append(args,
		"--contract-code-path", cfg.ContractCodePath,
		"--calldata", cfg.Calldata,
		"--num-runs", strconv.Itoa(cfg.NumRuns),
	)

	cmd := exec.CommandContext(ctx, r.BinaryPath, args...)

	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.Logger.Info("starting runner",
		slog.String("binary", r.BinaryPath),
		slog.Int("num_runs", cfg.NumRuns),
	)

	wallStart := time.Now()

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf(
			"runner %s failed: %w\nstderr: %s",
			r.Name, err, stderr.String(),
		)
	}

	wallElapsed := time.Since(wallStart)

	durations, err := parseDurations(&stdout)
	if err != nil {
		return nil, fmt.Errorf(
			"parse %s output: %w\nstdout: %s",
			r.Name, err, stdout.String(),
		)
	}

	if len(durations) != cfg.NumRuns {
		return nil, fmt.Errorf(
			"runner %s emitted %d samples, want %d",
			r.Name, len(durations), cfg.NumRuns,
		)
	}

	r.Logger.Info("runner finished",
		slog.Duration("wall_time", wallElapsed),
		slog.Int("samples", len(durations)),
	)

	return &Run{Runner: r.Name, Durations: durations}, nil
}

// parseDurations reads one non-negative microsecond figure per line,
// preserving iteration order. Blank lines are skipped.
func parseDurations(r io.Reader) ([]time.Duration, error) {
	var durations []time.Duration

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		micros, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("parse duration %q: %w", line, err)
		}
		if micros < 0 {
			return nil, fmt.Errorf("negative duration %q", line)
		}

		durations = append(durations, time.Duration(
			math.Round(micros*float64(time.Microsecond)),
		))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read output: %w", err)
	}

	return durations, nil
}
