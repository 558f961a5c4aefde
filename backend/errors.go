package backend

import "fmt"

// DeploymentError reports a failed one-time contract deployment. It is
// fatal to the run: there is nothing to benchmark without a deployed
// target.
type DeploymentError struct {
	Backend string
	Err     error
}

func (e *DeploymentError) Error() string {
	return fmt.Sprintf("%s: deployment failed: %v", e.Backend, e.Err)
}

func (e *DeploymentError) Unwrap() error { return e.Err }

// CallError reports a failed benchmarked call. By policy it aborts the
// entire run rather than being counted as a zero-duration or skipped
// sample, because a partial run produces misleading latency numbers.
type CallError struct {
	Backend string
	Err     error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s: call failed: %v", e.Backend, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }
