package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ziyadedher/evm-bench/runner"
)

// outputs is the on-disk shape of a persisted result set.
type outputs struct {
	Runs []runner.Run `json:"runs"`
}

// WriteJSON writes the runs as indented JSON to w.
func WriteJSON(w io.Writer, runs []runner.Run) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(outputs{Runs: runs}); err != nil {
		return fmt.Errorf("encode runs: %w", err)
	}

	return nil
}

// WriteOutputs persists the runs to dir as outputs.<timestamp>.json and
// returns the written path. The directory is created if needed.
func WriteOutputs(dir string, runs []runner.Run, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir %s: %w", dir, err)
	}

	path := filepath.Join(dir, fmt.Sprintf(
		"outputs.%s.json", now.UTC().Format("2006-01-02T15-04-05Z0700"),
	))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create output file %s: %w", path, err)
	}

	if err := WriteJSON(f, runs); err != nil {
		f.Close()

		return "", err
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close output file %s: %w", path, err)
	}

	return path, nil
}

// ReadLatestOutputs reads the most recent outputs file in dir, chosen by
// name, and returns its path and runs.
func ReadLatestOutputs(dir string) (string, []runner.Run, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", nil, fmt.Errorf("read output dir %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() &&
			strings.HasPrefix(name, "outputs.") &&
			strings.HasSuffix(name, ".json") {
			names = append(names, name)
		}
	}

	if len(names) == 0 {
		return "", nil, fmt.Errorf("no output files in %s", dir)
	}

	sort.Strings(names)
	path := filepath.Join(dir, names[len(names)-1])

	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("read output file %s: %w", path, err)
	}

	var out outputs
	if err := json.Unmarshal(data, &out); err != nil {
		return "", nil, fmt.Errorf("parse output file %s: %w", path, err)
	}

	return path, out.Runs, nil
}
