package params

// GasConfig holds every protocol-defined gas constant the meter needs.
// These are genuinely protocol-level numbers (spec §9 Open Questions)
// supplied by the embedder as configuration, never hard-coded in the
// meter itself.
type GasConfig struct {
	// Inclusion (pre-exec): charge_inclusion(tx_size, n_commands) =
	// BaseTxCost + PerCommandCost*n_commands + PerByteCost*tx_size.
	BaseTxCost     uint64
	PerCommandCost uint64
	PerByteCost    uint64

	// Storage: fixed per-byte constants applied to key/value length
	// before delegating to the RWS, plus a flat write cost for sets
	// and deletes.
	StorageKeyByteCost   uint64
	StorageValueByteCost uint64
	StorageWriteCost     uint64

	// Host crypto: fixed base cost + per-input-byte cost, one pair per
	// primitive.
	Sha256BaseCost        uint64
	Sha256ByteCost        uint64
	Keccak256BaseCost     uint64
	Keccak256ByteCost     uint64
	Ripemd160BaseCost     uint64
	Ripemd160ByteCost     uint64
	Blake2bBaseCost       uint64
	Blake2bByteCost       uint64
	VerifyEd25519BaseCost uint64
	VerifyEd25519ByteCost uint64

	// WASM: compiler-injected per-instruction metering draws from the
	// same combined budget; the meter just needs a byte-boundary cost
	// for host<->guest memory copies.
	WasmMemoryByteCost uint64
}

// DefaultGasConfig returns reasonable, deterministic constants for
// tests and the cmd/pchain-runtime demo. Production deployments supply
// their own protocol-defined values.
func DefaultGasConfig() GasConfig {
	return GasConfig{
		BaseTxCost:     21000,
		PerCommandCost: 500,
		PerByteCost:    16,

		StorageKeyByteCost:   3,
		StorageValueByteCost: 5,
		StorageWriteCost:     200,

		Sha256BaseCost:        60,
		Sha256ByteCost:        1,
		Keccak256BaseCost:     60,
		Keccak256ByteCost:     1,
		Ripemd160BaseCost:     120,
		Ripemd160ByteCost:     2,
		Blake2bBaseCost:       60,
		Blake2bByteCost:       1,
		VerifyEd25519BaseCost: 3000,
		VerifyEd25519ByteCost: 1,

		WasmMemoryByteCost: 1,
	}
}
