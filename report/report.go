// Package report emits benchmark results: raw per-call duration samples
// for a single run, and comparison tables across runners.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"github.com/ziyadedher/evm-bench/runner"
)

// Sample writes one duration as a non-negative fractional microsecond
// figure on its own line. This is the fixed reporting unit; callers that
// flush incrementally invoke it once per recorded sample.
func Sample(w io.Writer, d time.Duration) error {
	if _, err := fmt.Fprintf(w, "%.3f\n", float64(d.Nanoseconds())/1e3); err != nil {
		return fmt.Errorf("write sample: %w", err)
	}

	return nil
}

// Samples writes a completed run's duration samples in iteration order,
// one per line, with no header and no trailing summary.
func Samples(w io.Writer, samples []time.Duration) error {
	for _, d := range samples {
		if err := Sample(w, d); err != nil {
			return err
		}
	}

	return nil
}

// Compare writes a markdown comparison table for the given runs. Runners
// are ordered by total time ascending; the relative column is normalized
// to the fastest runner.
func Compare(w io.Writer, runs []runner.Run) error {
	if len(runs) == 0 {
		return fmt.Errorf("no runs to report")
	}

	sorted := make([]runner.Run, len(runs))
	copy(sorted, runs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Total() < sorted[j].Total()
	})

	fastest := findFastest(sorted)

	fmt.Fprintln(w, "## Benchmark Results")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Runner | Samples | Average | Total Time | Relative |")
	fmt.Fprintln(w, "|--------|---------|---------|------------|----------|")

	for _, r := range sorted {
		relative := 1.0
		if fastest > 0 && r.Total() > 0 {
			relative = float64(r.Total()) / float64(fastest)
		}

		fmt.Fprintf(w, "| %s | %d | %s | %s | %.2fx |\n",
			r.Runner,
			len(r.Durations),
			formatDuration(r.Average()),
			formatDuration(r.Total()),
			relative,
		)
	}

	return nil
}

func findFastest(runs []runner.Run) time.Duration {
	fastest := time.Duration(math.MaxInt64)
	for _, r := range runs {
		if total := r.Total(); total > 0 && total < fastest {
			fastest = total
		}
	}

	if fastest == time.Duration(math.MaxInt64) {
		return 0
	}

	return fastest
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%.2fµs", float64(d.Nanoseconds())/1e3)
	case d < time.Second:
		return fmt.Sprintf("%.2fms", float64(d.Nanoseconds())/1e6)
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}
