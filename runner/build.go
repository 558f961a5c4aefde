package runner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
)

// KnownRunners returns the list of supported external runner names.
func KnownRunners() []string {
	return []string{
		"geth", "revm", "akula", "py-evm", "pyrevm", "eels",
	}
}

// ResolveBinary returns the expected binary (or script) path for a runner
// given the runners root directory.
func ResolveBinary(runnersDir, name string) string {
	switch name {
	case "geth":
		return filepath.Join(runnersDir, "geth", "runner-geth")
	case "revm":
		return filepath.Join(
			runnersDir, "revm", "target", "release", "runner-revm",
		)
	case "akula":
		return filepath.Join(
			runnersDir, "akula", "target", "release", "runner-akula",
		)
	case "py-evm", "pyrevm", "eels":
		return filepath.Join(runnersDir, name, "runner.py")
	default:
		return filepath.Join(runnersDir, name, "runner-"+name)
	}
}

// Build compiles the runner binary for the given engine. Python runners
// have no build step; their script path is returned as-is once it exists.
func Build(
	ctx context.Context,
	logger *slog.Logger,
	runnersDir string,
	name string,
) (string, error) {
	srcDir := filepath.Join(runnersDir, name)
	binPath := ResolveBinary(runnersDir, name)

	logger.InfoContext(ctx, "building runner",
		slog.String("runner", name),
		slog.String("source_dir", srcDir),
	)

	var cmd *exec.Cmd

	switch name {
	case "geth":
		cmd = exec.CommandContext(
			ctx, "go", "build", "-o", binPath, ".",
		)
		cmd.Dir = srcDir

	case "revm", "akula":
		cmd = exec.CommandContext(
			ctx, "cargo", "build", "--release",
		)
		cmd.Dir = srcDir

	case "py-evm", "pyrevm", "eels":
		// Nothing to compile.

	default:
		return "", fmt.Errorf("unknown runner %q", name)
	}

	if cmd != nil {
		cmd.Stdout = os.Stderr
		cmd.Stderr = os.Stderr

		if err := cmd.Run(); err != nil {
			return "", fmt.Errorf("build %s: %w", name, err)
		}
	}

	if _, err := os.Stat(binPath); err != nil {
		return "", fmt.Errorf(
			"build %s: binary not found at %s", name, binPath,
		)
	}

	logger.InfoContext(ctx, "runner built",
		slog.String("runner", name),
		slog.String("binary", binPath),
	)

	return binPath, nil
}

// CommandConfig holds the resolved command, extra arguments, and
// environment variables needed to run a runner binary.
type CommandConfig struct {
	Binary    string
	ExtraArgs []string
	Env       []string
}

// WrapCommand returns the exec configuration needed to run a runner
// binary. Compiled runners execute directly; the Python runners go through
// the interpreter.
func WrapCommand(name, binPath string) CommandConfig {
	switch name {
	case "py-evm", "pyrevm", "eels":
		return CommandConfig{
			Binary:    "python3",
			ExtraArgs: []string{binPath},
		}
	default:
		return CommandConfig{Binary: binPath}
	}
}
