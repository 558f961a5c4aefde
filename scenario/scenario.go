// Package scenario assembles the deterministic execution environment shared
// by every backend under comparison: fixed chain parameters, a reproducible
// sender identity, and the bytecode/calldata inputs fed to each run.
package scenario

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// senderKeyHex is the fixed benchmark private key. Every backend deploys and
// calls from the address derived here, so deployment addresses are
// reproducible across runs and backends.
const senderKeyHex = "45a915e4d060149eb4365960e6a7a45f334393093061116b197e3240065ff2d8"

// GasLimit is the per-transaction gas allowance. It is a deliberately huge
// upper bound so the measured program is never gas-limited.
const GasLimit uint64 = 1_000_000_000_000_000_000

// Environment describes the externally observable execution conditions every
// backend must run under. All values are fixed so that timing differences
// between backends cannot come from differing chain parameters.
type Environment struct {
	ChainID     *big.Int
	BlockNumber uint64
	Timestamp   uint64
	BaseFee     *big.Int
	GasPrice    *big.Int
	Coinbase    common.Address
	PrevRandao  common.Hash
	GasLimit    uint64

	Sender    common.Address
	SenderKey *ecdsa.PrivateKey
}

// NewEnvironment builds a fresh environment with the fixed benchmark
// parameters. The sender key is parsed anew on every call so concurrent or
// sequential runs never share mutable state.
func NewEnvironment() (*Environment, error) {
	key, err := crypto.HexToECDSA(senderKeyHex)
	if err != nil {
		return nil, &ConfigError{Field: "sender key", Err: err}
	}

	return &Environment{
		ChainID:     big.NewInt(1),
		BlockNumber: 0,
		Timestamp:   0,
		BaseFee:     new(big.Int),
		GasPrice:    new(big.Int),
		Coinbase:    common.Address{},
		PrevRandao:  common.Hash{},
		GasLimit:    GasLimit,
		Sender:      crypto.PubkeyToAddress(key.PublicKey),
		SenderKey:   key,
	}, nil
}
