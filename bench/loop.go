// Package bench implements the benchmark timing loop: one deployment
// followed by a fixed number of timed calls against the same deployed
// contract. Execution is strictly single-threaded and blocking; nothing
// overlaps the timed interval.
package bench

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ziyadedher/evm-bench/backend"
	"github.com/ziyadedher/evm-bench/scenario"
)

// State tracks the lifecycle of a benchmark run.
type State int

const (
	Uninitialized State = iota
	Deployed
	Running
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Deployed:
		return "deployed"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Loop drives one benchmark run against a single adapter. The adapter and
// the handle it produces are exclusively owned by this loop for the
// lifetime of the run.
type Loop struct {
	adapter backend.Adapter
	env     *scenario.Environment
	logger  *slog.Logger

	state  State
	handle backend.Handle
}

// New creates a Loop over a freshly constructed adapter.
func New(adapter backend.Adapter, env *scenario.Environment, logger *slog.Logger) *Loop {
	return &Loop{
		adapter: adapter,
		env:     env,
		logger:  logger.With(slog.String("backend", adapter.Name())),
		state:   Uninitialized,
	}
}

// State returns the loop's current lifecycle state.
func (l *Loop) State() State { return l.state }

// Deploy executes the one-time contract deployment. It must be called
// exactly once, before Run. Deployment time is never part of any sample;
// separating it from the timed calls keeps one-time compilation and
// initialization cost out of the steady-state per-call figures.
func (l *Loop) Deploy(bytecode []byte) error {
	if l.state != Uninitialized {
		return fmt.Errorf("deploy in state %s", l.state)
	}

	h, err := l.adapter.Deploy(bytecode, l.env.Sender, l.env.GasLimit)
	if err != nil {
		l.state = Failed

		return fmt.Errorf("deploy on %s: %w", l.adapter.Name(), err)
	}

	l.handle = h
	l.state = Deployed

	l.logger.Info("contract deployed",
		slog.String("address", h.Address().Hex()),
	)

	return nil
}

// Run executes numRuns timed calls against the deployed contract, returning
// one duration sample per call in iteration order. The timed interval
// covers exactly one adapter call; all argument preparation happens before
// the timer opens. If onSample is non-nil it fires after each recorded
// sample, which lets a caller flush output incrementally; an error from
// onSample aborts the run before the next iteration starts.
//
// A call failure aborts the run immediately: collected samples are
// discarded and the wrapped call error is returned, because a run's output
// must represent the agreed execution count. State mutated by one call
// persists into subsequent calls; the backend is never reset between
// iterations.
func (l *Loop) Run(calldata []byte, numRuns int, onSample func(time.Duration) error) ([]time.Duration, error) {
	if l.state != Deployed {
		return nil, fmt.Errorf("run in state %s", l.state)
	}
	if numRuns < 0 {
		return nil, fmt.Errorf("negative run count %d", numRuns)
	}

	l.state = Running

	sender := l.env.Sender
	gasLimit := l.env.GasLimit
	samples := make([]time.Duration, 0, numRuns)

	for i := 0; i < numRuns; i++ {
		start := time.Now()
		_, err := l.adapter.Call(l.handle, calldata, sender, gasLimit)
		elapsed := time.Since(start)

		if err != nil {
			l.state = Failed

			return nil, fmt.Errorf(
				"call %d of %d on %s: %w",
				i+1, numRuns, l.adapter.Name(), err,
			)
		}

		samples = append(samples, elapsed)

		if onSample != nil {
			if err := onSample(elapsed); err != nil {
				l.state = Failed

				return nil, fmt.Errorf("report sample %d: %w", i+1, err)
			}
		}
	}

	l.state = Completed

	l.logger.Info("run completed",
		slog.Int("samples", len(samples)),
	)

	return samples, nil
}
