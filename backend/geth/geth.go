// Package geth provides the in-process go-ethereum backend. It executes the
// benchmark contract through core/vm against an in-memory state database,
// with no networking, consensus, or transaction pool in the way of the
// measured call.
package geth

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/params"
	"github.com/ethereum/go-ethereum/triedb"
	"github.com/holiman/uint256"

	"github.com/ziyadedher/evm-bench/backend"
	"github.com/ziyadedher/evm-bench/scenario"
)

const name = "geth"

func init() {
	backend.Register(name, New)
}

type adapter struct {
	statedb     *state.StateDB
	evm         *vm.EVM
	rules       params.Rules
	precompiles []common.Address
	coinbase    common.Address
	deployed    bool
}

type handle struct {
	addr common.Address
}

func (h *handle) Address() common.Address { return h.addr }

// New constructs a fresh geth adapter over an empty in-memory state
// database. All chain parameters come from the environment so every
// backend sees identical execution conditions.
func New(env *scenario.Environment) (backend.Adapter, error) {
	tdb := triedb.NewDatabase(rawdb.NewMemoryDatabase(), triedb.HashDefaults)

	statedb, err := state.New(types.EmptyRootHash, state.NewDatabase(tdb, nil))
	if err != nil {
		return nil, fmt.Errorf("create statedb: %w", err)
	}

	chainConfig := *params.MergedTestChainConfig
	chainConfig.ChainID = new(big.Int).Set(env.ChainID)

	prevRandao := env.PrevRandao
	blockCtx := vm.BlockContext{
		CanTransfer: core.CanTransfer,
		Transfer:    core.Transfer,
		GetHash:     func(uint64) common.Hash { return common.Hash{} },
		Coinbase:    env.Coinbase,
		GasLimit:    env.GasLimit,
		BlockNumber: new(big.Int).SetUint64(env.BlockNumber),
		Time:        env.Timestamp,
		Difficulty:  new(big.Int),
		BaseFee:     new(big.Int).Set(env.BaseFee),
		BlobBaseFee: new(big.Int),
		Random:      &prevRandao,
	}

	evm := vm.NewEVM(blockCtx, statedb, &chainConfig, vm.Config{})
	evm.SetTxContext(vm.TxContext{
		Origin:   env.Sender,
		GasPrice: uint256.MustFromBig(env.GasPrice),
	})

	rules := chainConfig.Rules(blockCtx.BlockNumber, true, blockCtx.Time)

	return &adapter{
		statedb:     statedb,
		evm:         evm,
		rules:       rules,
		precompiles: vm.ActivePrecompiles(rules),
		coinbase:    env.Coinbase,
	}, nil
}

func (a *adapter) Name() string { return name }

// Deploy executes the creation bytecode as a synthetic zero-value,
// zero-gas-price transaction from the sender's current nonce. On a fresh
// adapter the nonce is zero, so the resulting contract address is identical
// across runs.
func (a *adapter) Deploy(bytecode []byte, sender common.Address, gasLimit uint64) (backend.Handle, error) {
	if a.deployed {
		return nil, &backend.DeploymentError{
			Backend: name,
			Err:     fmt.Errorf("contract already deployed"),
		}
	}

	a.statedb.Prepare(a.rules, sender, a.coinbase, nil, a.precompiles, nil)

	_, addr, _, err := a.evm.Create(sender, bytecode, gasLimit, new(uint256.Int))
	if err != nil {
		return nil, &backend.DeploymentError{Backend: name, Err: err}
	}
	if addr == (common.Address{}) {
		return nil, &backend.DeploymentError{
			Backend: name,
			Err:     fmt.Errorf("no contract address returned"),
		}
	}

	a.deployed = true

	return &handle{addr: addr}, nil
}

// Call executes one message call against the deployed contract. Contract
// storage mutated by one call persists into subsequent calls within the
// run; per-transaction state (access lists, transient storage) is reset
// before each call, so every iteration runs under identical transaction
// rules.
func (a *adapter) Call(h backend.Handle, calldata []byte, sender common.Address, gasLimit uint64) (backend.Outcome, error) {
	to := h.Address()
	a.statedb.Prepare(a.rules, sender, a.coinbase, &to, a.precompiles, nil)

	ret, gasLeft, err := a.evm.Call(sender, to, calldata, gasLimit, new(uint256.Int))
	if err != nil {
		return backend.Outcome{}, &backend.CallError{Backend: name, Err: err}
	}

	return backend.Outcome{
		GasUsed: gasLimit - gasLeft,
		Return:  ret,
	}, nil
}
