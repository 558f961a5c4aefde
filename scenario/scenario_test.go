package scenario

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestNewEnvironmentSender(t *testing.T) {
	env, err := NewEnvironment()
	if err != nil {
		t.Fatalf("NewEnvironment failed: %v", err)
	}

	want := common.HexToAddress("0xa94f5374fce5edbc8e2a8697c15331677e6ebf0b")
	if env.Sender != want {
		t.Errorf("sender = %s, want %s", env.Sender, want)
	}
	if env.SenderKey == nil {
		t.Error("sender key is nil")
	}
}

func TestNewEnvironmentDefaults(t *testing.T) {
	env, err := NewEnvironment()
	if err != nil {
		t.Fatalf("NewEnvironment failed: %v", err)
	}

	if env.ChainID.Cmp(common.Big1) != 0 {
		t.Errorf("chain id = %v, want 1", env.ChainID)
	}
	if env.BlockNumber != 0 {
		t.Errorf("block number = %d, want 0", env.BlockNumber)
	}
	if env.BaseFee.Sign() != 0 {
		t.Errorf("base fee = %v, want 0", env.BaseFee)
	}
	if env.GasPrice.Sign() != 0 {
		t.Errorf("gas price = %v, want 0", env.GasPrice)
	}
	if env.Coinbase != (common.Address{}) {
		t.Errorf("coinbase = %s, want zero address", env.Coinbase)
	}
	if env.GasLimit != GasLimit {
		t.Errorf("gas limit = %d, want %d", env.GasLimit, GasLimit)
	}
}

func TestNewEnvironmentIsolated(t *testing.T) {
	a, err := NewEnvironment()
	if err != nil {
		t.Fatalf("NewEnvironment failed: %v", err)
	}

	b, err := NewEnvironment()
	if err != nil {
		t.Fatalf("NewEnvironment failed: %v", err)
	}

	if a.Sender != b.Sender {
		t.Errorf("senders differ: %s vs %s", a.Sender, b.Sender)
	}
	if a.SenderKey == b.SenderKey {
		t.Error("environments share a key instance")
	}
	if a.BaseFee == b.BaseFee {
		t.Error("environments share a base fee instance")
	}
}

func TestLoadInputs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contract.hex")
	if err := os.WriteFile(path, []byte("600a600c60003960\n"), 0o644); err != nil {
		t.Fatalf("write contract file: %v", err)
	}

	inputs, err := LoadInputs(path, "deadbeef", 5)
	if err != nil {
		t.Fatalf("LoadInputs failed: %v", err)
	}

	if len(inputs.Bytecode) != 8 {
		t.Errorf("bytecode length = %d, want 8", len(inputs.Bytecode))
	}
	if len(inputs.Calldata) != 4 {
		t.Errorf("calldata length = %d, want 4", len(inputs.Calldata))
	}
	if inputs.NumRuns != 5 {
		t.Errorf("num runs = %d, want 5", inputs.NumRuns)
	}
}

func TestLoadInputsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.hex")
	if err := os.WriteFile(path, []byte("\n"), 0o644); err != nil {
		t.Fatalf("write contract file: %v", err)
	}

	inputs, err := LoadInputs(path, "", 0)
	if err != nil {
		t.Fatalf("LoadInputs failed: %v", err)
	}

	if len(inputs.Bytecode) != 0 {
		t.Errorf("bytecode length = %d, want 0", len(inputs.Bytecode))
	}
	if len(inputs.Calldata) != 0 {
		t.Errorf("calldata length = %d, want 0", len(inputs.Calldata))
	}
}

func TestLoadInputsPrefixTolerated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contract.hex")
	if err := os.WriteFile(path, []byte("0x6000\n"), 0o644); err != nil {
		t.Fatalf("write contract file: %v", err)
	}

	inputs, err := LoadInputs(path, "0xff", 1)
	if err != nil {
		t.Fatalf("LoadInputs failed: %v", err)
	}

	if len(inputs.Bytecode) != 2 {
		t.Errorf("bytecode length = %d, want 2", len(inputs.Bytecode))
	}
	if len(inputs.Calldata) != 1 || inputs.Calldata[0] != 0xff {
		t.Errorf("calldata = %x, want ff", inputs.Calldata)
	}
}

func TestLoadInputsErrors(t *testing.T) {
	dir := t.TempDir()

	goodPath := filepath.Join(dir, "good.hex")
	if err := os.WriteFile(goodPath, []byte("6000"), 0o644); err != nil {
		t.Fatalf("write contract file: %v", err)
	}

	badPath := filepath.Join(dir, "bad.hex")
	if err := os.WriteFile(badPath, []byte("not hex"), 0o644); err != nil {
		t.Fatalf("write contract file: %v", err)
	}

	tests := []struct {
		name     string
		path     string
		calldata string
		numRuns  int
	}{
		{"missing file", filepath.Join(dir, "missing.hex"), "", 1},
		{"bad bytecode hex", badPath, "", 1},
		{"bad calldata hex", goodPath, "zz", 1},
		{"odd calldata length", goodPath, "abc", 1},
		{"negative num runs", goodPath, "", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadInputs(tt.path, tt.calldata, tt.numRuns)
			if err == nil {
				t.Fatal("expected error")
			}

			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("error %v is not a ConfigError", err)
			}
		})
	}
}
