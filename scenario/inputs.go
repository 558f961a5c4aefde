package scenario

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"
)

// Inputs holds the decoded benchmark inputs. Bytecode and calldata are
// immutable for the duration of a run and identical across all backends
// under comparison.
type Inputs struct {
	Bytecode []byte
	Calldata []byte
	NumRuns  int
}

// ConfigError reports malformed benchmark configuration. It is always
// detected before any backend interaction.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// LoadInputs reads and validates all benchmark inputs: the hex-encoded
// deployment bytecode file, the hex calldata string, and the iteration
// count. A negative iteration count is rejected; zero is a valid run that
// records no samples.
func LoadInputs(contractCodePath, calldata string, numRuns int) (*Inputs, error) {
	if numRuns < 0 {
		return nil, &ConfigError{
			Field: "num-runs",
			Err:   fmt.Errorf("must not be negative, got %d", numRuns),
		}
	}

	bytecode, err := LoadBytecodeFile(contractCodePath)
	if err != nil {
		return nil, err
	}

	calldataBytes, err := ParseCalldata(calldata)
	if err != nil {
		return nil, err
	}

	return &Inputs{
		Bytecode: bytecode,
		Calldata: calldataBytes,
		NumRuns:  numRuns,
	}, nil
}

// LoadBytecodeFile reads ASCII-hex-encoded deployment bytecode from path.
// Surrounding whitespace and an optional 0x prefix are tolerated.
func LoadBytecodeFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Field: "contract code path", Err: err}
	}

	bytecode, err := decodeHex(string(data))
	if err != nil {
		return nil, &ConfigError{
			Field: "contract code",
			Err:   fmt.Errorf("%s: %w", path, err),
		}
	}

	return bytecode, nil
}

// ParseCalldata decodes an ASCII-hex calldata string.
func ParseCalldata(s string) ([]byte, error) {
	calldata, err := decodeHex(s)
	if err != nil {
		return nil, &ConfigError{Field: "calldata", Err: err}
	}

	return calldata, nil
}

func decodeHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "0x")

	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}

	return b, nil
}
