package runner

import "time"

// Run holds the ordered duration samples from one runner execution.
// Durations marshal as nanoseconds.
type Run struct {
	Runner    string          `json:"runner"`
	Durations []time.Duration `json:"durations"`
}

// Total returns the summed duration of all samples.
func (r *Run) Total() time.Duration {
	var total time.Duration
	for _, d := range r.Durations {
		total += d
	}

	return total
}

// Average returns the mean sample duration, or zero for an empty run.
func (r *Run) Average() time.Duration {
	if len(r.Durations) == 0 {
		return 0
	}

	return r.Total() / time.Duration(len(r.Durations))
}
