// Package gas implements the running gas-accounting façade (spec
// §4.3): a single Meter wraps the read-write set and bills every
// storage operation, host-crypto primitive and WASM instruction
// against a fixed limit, stopping execution the moment the combined
// budget is exceeded.
package gas

import (
	"github.com/parallelchain-io/pchain-runtime/core"
	"github.com/parallelchain-io/pchain-runtime/core/state"
	"github.com/parallelchain-io/pchain-runtime/params"
)

// Meter is the single owner of a transaction's gas accounting. It sits
// between every command executor and the ReadWriteSet: nothing touches
// the RWS directly once a Meter exists for the transaction.
type Meter struct {
	cfg     params.GasConfig
	variant params.Variant
	rws     *state.ReadWriteSet

	gasLimit            uint64
	txnInclusionGas      uint64
	commandGasUsed       uint64 // current command, reset by FinalizeCommand
	totalCommandGasUsed  uint64

	// wasmRemainingPoints bridges the guest-side (WASM instance)
	// metering global into the host meter; see DrainWasm.
	wasmRemainingPoints uint64
}

func NewMeter(cfg params.GasConfig, variant params.Variant, rws *state.ReadWriteSet, gasLimit uint64) *Meter {
	return &Meter{cfg: cfg, variant: variant, rws: rws, gasLimit: gasLimit}
}

func (m *Meter) GasLimit() uint64           { return m.gasLimit }
func (m *Meter) InclusionGas() uint64       { return m.txnInclusionGas }
func (m *Meter) TotalCommandGasUsed() uint64 { return m.totalCommandGasUsed }

// spent is the combined budget consumed so far: inclusion gas, every
// already-finalized command's gas, and the current command's
// in-flight charges.
func (m *Meter) spent() uint64 {
	return m.txnInclusionGas + m.totalCommandGasUsed + m.commandGasUsed
}

func (m *Meter) Remaining() uint64 {
	s := m.spent()
	if s >= m.gasLimit {
		return 0
	}
	return m.gasLimit - s
}

// charge applies amount to the current command's counter
// unconditionally (per §4.3's exhaustion policy: "the charge is still
// applied") and reports OutOfGas if doing so crossed the limit.
func (m *Meter) charge(amount uint64) error {
	m.commandGasUsed += amount
	if m.spent() > m.gasLimit {
		return core.NewCommandError(core.OutOfGas, nil)
	}
	return nil
}

// ChargeInclusion is the fixed pre-exec inclusion charge; it is only
// ever called once, during PreCharge, before any command runs.
func (m *Meter) ChargeInclusion(txSize, nCommands uint64) error {
	cost := m.variant.InclusionCost(m.cfg.BaseTxCost, m.cfg.PerCommandCost, m.cfg.PerByteCost, txSize, nCommands)
	m.txnInclusionGas += cost
	if m.txnInclusionGas > m.gasLimit {
		return core.NewPreChargeError(core.BaseCostTooHigh, nil)
	}
	return nil
}

// ChargeLog and ChargeReturnValue are the variable, post-exec portion
// of inclusion gas; they count into the current command.
func (m *Meter) ChargeLog(l core.Log) error {
	size := len(l.Data)
	for _, t := range l.Topics {
		size += len(t)
	}
	return m.charge(m.cfg.PerByteCost * uint64(size))
}

func (m *Meter) ChargeReturnValue(b []byte) error {
	return m.charge(m.cfg.PerByteCost * uint64(len(b)))
}

func (m *Meter) keyGasLen(key []byte) uint64 {
	if core.IsAppDataKey(key) {
		return uint64(m.variant.AppKeyGasLength(len(key)))
	}
	return uint64(len(key))
}

// WsContains charges for the key length, then delegates to the RWS.
func (m *Meter) WsContains(key []byte) (bool, error) {
	err := m.charge(m.cfg.StorageKeyByteCost * m.keyGasLen(key))
	return m.rws.Contains(key), err
}

// WsGet reads through the RWS, then charges for the key length and the
// returned value's length.
func (m *Meter) WsGet(key []byte) ([]byte, bool, error) {
	v, ok := m.rws.Get(key)
	err := m.charge(m.cfg.StorageKeyByteCost*m.keyGasLen(key) + m.cfg.StorageValueByteCost*uint64(len(v)))
	return v, ok, err
}

// WsSet charges for the key length, the new value's length, the prior
// value's length, and a flat write cost, then delegates to the RWS.
func (m *Meter) WsSet(key, value []byte) error {
	prior, _ := m.rws.Get(key)
	amount := m.cfg.StorageKeyByteCost*m.keyGasLen(key) +
		m.cfg.StorageValueByteCost*uint64(len(value)) +
		m.cfg.StorageValueByteCost*uint64(len(prior)) +
		m.cfg.StorageWriteCost
	err := m.charge(amount)
	m.rws.Set(key, value)
	return err
}

// WsDelete charges for the key length, the prior value's length, and
// a flat write cost, then delegates to the RWS.
func (m *Meter) WsDelete(key []byte) error {
	prior, _ := m.rws.Get(key)
	amount := m.cfg.StorageKeyByteCost*m.keyGasLen(key) +
		m.cfg.StorageValueByteCost*uint64(len(prior)) +
		m.cfg.StorageWriteCost
	err := m.charge(amount)
	m.rws.Delete(key)
	return err
}

func (m *Meter) ChargeHostSha256(inputLen int) error {
	return m.charge(m.cfg.Sha256BaseCost + m.cfg.Sha256ByteCost*uint64(inputLen))
}

func (m *Meter) ChargeHostKeccak256(inputLen int) error {
	return m.charge(m.cfg.Keccak256BaseCost + m.cfg.Keccak256ByteCost*uint64(inputLen))
}

func (m *Meter) ChargeHostRipemd160(inputLen int) error {
	return m.charge(m.cfg.Ripemd160BaseCost + m.cfg.Ripemd160ByteCost*uint64(inputLen))
}

func (m *Meter) ChargeHostBlake2b(inputLen int) error {
	return m.charge(m.cfg.Blake2bBaseCost + m.cfg.Blake2bByteCost*uint64(inputLen))
}

func (m *Meter) ChargeHostVerifyEd25519(inputLen int) error {
	return m.charge(m.cfg.VerifyEd25519BaseCost + m.cfg.VerifyEd25519ByteCost*uint64(inputLen))
}

// ChargeWasm draws down the combined budget using the compiler-
// injected per-instruction metering reported by the contract runtime.
func (m *Meter) ChargeWasm(points uint64) error {
	return m.charge(points)
}

// ChargeWasmMemoryAccess bills a host<->guest linear-memory copy of n
// bytes across the call boundary.
func (m *Meter) ChargeWasmMemoryAccess(n int) error {
	return m.charge(m.cfg.WasmMemoryByteCost * uint64(n))
}

// DrainWasm reconciles the guest-side metering global into the host
// counter at a host-call boundary or at instance teardown (Design
// Notes "Gas metering split").
func (m *Meter) DrainWasm(initialPoints, remainingPoints uint64) error {
	if remainingPoints > initialPoints {
		remainingPoints = initialPoints
	}
	used := initialPoints - remainingPoints
	m.wasmRemainingPoints = remainingPoints
	return m.ChargeWasm(used)
}

// FinalizeCommand closes out the current command: the receipt gas is
// the lesser of what the command actually used and what remained in
// the budget, and the running total absorbs the full (uncapped)
// amount so later commands see the true remaining budget.
func (m *Meter) FinalizeCommand() uint64 {
	used := m.commandGasUsed
	var remaining uint64
	if m.gasLimit > m.totalCommandGasUsed {
		remaining = m.gasLimit - m.totalCommandGasUsed
	}
	receiptGas := used
	if receiptGas > remaining {
		receiptGas = remaining
	}
	m.totalCommandGasUsed += used
	m.commandGasUsed = 0
	return receiptGas
}
