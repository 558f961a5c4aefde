package runner

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseDurations(t *testing.T) {
	input := "12.5\n100\n0.25\n"

	durations, err := parseDurations(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseDurations failed: %v", err)
	}

	want := []time.Duration{
		12500 * time.Nanosecond,
		100 * time.Microsecond,
		250 * time.Nanosecond,
	}

	if len(durations) != len(want) {
		t.Fatalf("durations = %d, want %d", len(durations), len(want))
	}
	for i, d := range durations {
		if d != want[i] {
			t.Errorf("duration %d = %v, want %v", i, d, want[i])
		}
	}
}

func TestParseDurationsEmpty(t *testing.T) {
	durations, err := parseDurations(strings.NewReader(""))
	if err != nil {
		t.Fatalf("parseDurations failed: %v", err)
	}
	if len(durations) != 0 {
		t.Errorf("durations = %d, want 0", len(durations))
	}
}

func TestParseDurationsSkipsBlankLines(t *testing.T) {
	durations, err := parseDurations(strings.NewReader("1.0\n\n2.0\n"))
	if err != nil {
		t.Fatalf("parseDurations failed: %v", err)
	}
	if len(durations) != 2 {
		t.Errorf("durations = %d, want 2", len(durations))
	}
}

func TestParseDurationsInvalid(t *testing.T) {
	for _, input := range []string{"not a number\n", "1.0\n-5\n"} {
		if _, err := parseDurations(strings.NewReader(input)); err == nil {
			t.Errorf("expected error for input %q", input)
		}
	}
}

func writeFakeRunner(t *testing.T, script string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fake-runner")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake runner: %v", err)
	}

	return path
}

func TestRunnerRun(t *testing.T) {
	bin := writeFakeRunner(t, "#!/bin/sh\necho 1.5\necho 2.5\necho 3.5\n")

	r := NewRunner("fake", bin, nil, nil, testLogger())
	run, err := r.Run(context.Background(), RunConfig{
		ContractCodePath: "contract.hex",
		Calldata:         "",
		NumRuns:          3,
		Timeout:          10 * time.Second,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if run.Runner != "fake" {
		t.Errorf("runner = %q, want fake", run.Runner)
	}
	if len(run.Durations) != 3 {
		t.Fatalf("durations = %d, want 3", len(run.Durations))
	}
	if run.Durations[0] != 1500*time.Nanosecond {
		t.Errorf("duration 0 = %v, want 1.5µs", run.Durations[0])
	}
}

func TestRunnerRunFailingBinary(t *testing.T) {
	bin := writeFakeRunner(t, "#!/bin/sh\necho 1.0\necho boom >&2\nexit 1\n")

	r := NewRunner("fake", bin, nil, nil, testLogger())
	_, err := r.Run(context.Background(), RunConfig{NumRuns: 1})
	if err == nil {
		t.Fatal("expected error for failing binary")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error %q does not carry stderr", err)
	}
}

func TestRunnerRunSampleCountMismatch(t *testing.T) {
	bin := writeFakeRunner(t, "#!/bin/sh\necho 1.0\n")

	r := NewRunner("fake", bin, nil, nil, testLogger())
	_, err := r.Run(context.Background(), RunConfig{NumRuns: 5})
	if err == nil {
		t.Fatal("expected error for sample count mismatch")
	}
}

func TestResolveBinary(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"geth", filepath.Join("runners", "geth", "runner-geth")},
		{"revm", filepath.Join("runners", "revm", "target", "release", "runner-revm")},
		{"eels", filepath.Join("runners", "eels", "runner.py")},
		{"other", filepath.Join("runners", "other", "runner-other")},
	}

	for _, tt := range tests {
		if got := ResolveBinary("runners", tt.name); got != tt.want {
			t.Errorf("ResolveBinary(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestWrapCommand(t *testing.T) {
	cfg := WrapCommand("pyrevm", "runners/pyrevm/runner.py")
	if cfg.Binary != "python3" {
		t.Errorf("binary = %q, want python3", cfg.Binary)
	}
	if len(cfg.ExtraArgs) != 1 || cfg.ExtraArgs[0] != "runners/pyrevm/runner.py" {
		t.Errorf("extra args = %v, want script path", cfg.ExtraArgs)
	}

	cfg = WrapCommand("geth", "runners/geth/runner-geth")
	if cfg.Binary != "runners/geth/runner-geth" {
		t.Errorf("binary = %q, want direct path", cfg.Binary)
	}
	if len(cfg.ExtraArgs) != 0 {
		t.Errorf("extra args = %v, want none", cfg.ExtraArgs)
	}
}

func TestRunAverageAndTotal(t *testing.T) {
	run := &Run{
		Runner: "geth",
		Durations: []time.Duration{
			10 * time.Microsecond,
			20 * time.Microsecond,
			30 * time.Microsecond,
		},
	}

	if run.Total() != 60*time.Microsecond {
		t.Errorf("total = %v, want 60µs", run.Total())
	}
	if run.Average() != 20*time.Microsecond {
		t.Errorf("average = %v, want 20µs", run.Average())
	}

	empty := &Run{Runner: "geth"}
	if empty.Average() != 0 {
		t.Errorf("empty average = %v, want 0", empty.Average())
	}
}
