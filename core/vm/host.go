package vm

import (
	"github.com/parallelchain-io/pchain-runtime/core"
	"github.com/parallelchain-io/pchain-runtime/core/gas"
	"github.com/parallelchain-io/pchain-runtime/core/ledger"
	"github.com/parallelchain-io/pchain-runtime/core/state"
	"github.com/parallelchain-io/pchain-runtime/crypto/hostcrypto"
)

// HostAPI is the typed host-import boundary bound to one Call
// invocation: world-state access (routed through the ledger, which is
// itself routed through the gas meter), crypto primitives (routed
// through the meter), balance transfers, deferred-command submission
// and log emission (spec §4.5). A real WASM engine's host-import
// table calls these methods; HostAPI itself never touches WASM linear
// memory — that's the embedder's ContractLoader's job, charged via
// ChargeMemoryAccess at the call boundary.
type HostAPI struct {
	meter    *gas.Meter
	accounts *ledger.AccountStore
	deferred *state.DeferredQueue
	self     core.Address

	logs []core.Log
}

func NewHostAPI(meter *gas.Meter, accounts *ledger.AccountStore, deferred *state.DeferredQueue, self core.Address) *HostAPI {
	return &HostAPI{meter: meter, accounts: accounts, deferred: deferred, self: self}
}

func (h *HostAPI) Self() core.Address { return h.self }

func (h *HostAPI) StorageGet(subKey []byte) ([]byte, error) {
	return h.accounts.GetAppData(h.self, subKey)
}

func (h *HostAPI) StorageContains(subKey []byte) (bool, error) {
	return h.meter.WsContains(core.AppDataKey(h.self, subKey))
}

func (h *HostAPI) StorageSet(subKey, value []byte) error {
	return h.accounts.SetAppData(h.self, subKey, value)
}

func (h *HostAPI) StorageDelete(subKey []byte) error {
	return h.accounts.DeleteAppData(h.self, subKey)
}

// Transfer moves amount from the contract's own balance to to,
// checked the same way TransferCommand is.
func (h *HostAPI) Transfer(to core.Address, amount uint64) error {
	if err := h.accounts.SubBalance(h.self, amount); err != nil {
		return err
	}
	return h.accounts.AddBalance(to, amount)
}

func (h *HostAPI) Sha256(data []byte) ([32]byte, error)      { return hostcrypto.Sha256(h.meter, data) }
func (h *HostAPI) Keccak256(data []byte) ([32]byte, error)   { return hostcrypto.Keccak256(h.meter, data) }
func (h *HostAPI) Ripemd160(data []byte) ([20]byte, error)   { return hostcrypto.Ripemd160(h.meter, data) }
func (h *HostAPI) Blake2b(data []byte) ([32]byte, error)     { return hostcrypto.Blake2b(h.meter, data) }

func (h *HostAPI) VerifyEd25519(pubKey, msg, sig []byte) (bool, error) {
	return hostcrypto.VerifyEd25519(h.meter, pubKey, msg, sig)
}

// EmitLog charges the variable inclusion-gas portion for the log then
// appends it to this call's log list.
func (h *HostAPI) EmitLog(l core.Log) error {
	if err := h.meter.ChargeLog(l); err != nil {
		return err
	}
	h.logs = append(h.logs, l)
	return nil
}

func (h *HostAPI) Logs() []core.Log { return h.logs }

// DeferCommand enqueues a command for sequential execution after the
// parent Call returns (spec §4.4 Call, Design Notes "Deferred
// commands").
func (h *HostAPI) DeferCommand(cmd core.Command) { h.deferred.Enqueue(cmd) }

// ChargeMemoryAccess bills a host<->guest linear-memory copy of n
// bytes across the call boundary.
func (h *HostAPI) ChargeMemoryAccess(n int) error {
	return h.meter.ChargeWasmMemoryAccess(n)
}
