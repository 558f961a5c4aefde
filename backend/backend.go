// Package backend defines the adapter contract every EVM engine implements
// to be benchmarked: deploy the contract once, then execute timed calls
// against it. Concrete engines register themselves by name and are
// constructed per run so no backend state is shared between runs.
package backend

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ziyadedher/evm-bench/scenario"
)

// Handle is an opaque reference to a deployed contract, owned by exactly
// one timing loop for the lifetime of one run.
type Handle interface {
	Address() common.Address
}

// Outcome describes one completed call. Gas usage is informational only;
// a failed call is reported through the error return instead.
type Outcome struct {
	GasUsed uint64
	Return  []byte
}

// Adapter is the capability set implemented once per EVM engine.
//
// Deploy must be invoked exactly once per benchmark run, strictly before
// any Call. Call must not mutate any externally observable configuration
// between invocations; only contract-internal storage may change as a side
// effect of execution, and such state deliberately persists across
// iterations within a run.
type Adapter interface {
	Name() string
	Deploy(bytecode []byte, sender common.Address, gasLimit uint64) (Handle, error)
	Call(h Handle, calldata []byte, sender common.Address, gasLimit uint64) (Outcome, error)
}

// Factory constructs a fresh adapter bound to the given environment.
type Factory func(env *scenario.Environment) (Adapter, error)

var (
	registryMu sync.Mutex
	registry   = make(map[string]Factory)
)

// Register makes a backend available under the given name. It panics if the
// name is already taken; backends register from init functions and a
// collision is a programming error.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, ok := registry[name]; ok {
		panic(fmt.Sprintf("backend: duplicate registration of %q", name))
	}

	registry[name] = factory
}

// New constructs a fresh adapter for the named backend. Each adapter owns
// its own backend state, so sequential or parallel runs in one process do
// not contaminate each other's timings.
func New(name string, env *scenario.Environment) (Adapter, error) {
	registryMu.Lock()
	factory, ok := registry[name]
	registryMu.Unlock()

	if !ok {
		return nil, fmt.Errorf(
			"unknown backend %q (available: %s)",
			name, strings.Join(Names(), ", "),
		)
	}

	return factory(env)
}

// Names returns the registered backend names in sorted order.
func Names() []string {
	registryMu.Lock()
	defer registryMu.Unlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
