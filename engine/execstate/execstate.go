// Package execstate defines ExecutionState, the per-transaction
// context every command executor and the Contract Runtime operate
// against (spec §2 item 4: "WS view via RWS, BD, TX, GM, receipt
// builder, deferred-command queue").
//
// Design Notes' "Cyclic ownership" note is addressed the way it
// prescribes: ExecutionState is a single owning context object passed
// by pointer to every component; nothing it references holds a back-
// pointer to it.
package execstate

import (
	log "github.com/erigontech/erigon-lib/log/v3"

	"github.com/parallelchain-io/pchain-runtime/core"
	"github.com/parallelchain-io/pchain-runtime/core/gas"
	"github.com/parallelchain-io/pchain-runtime/core/ledger"
	"github.com/parallelchain-io/pchain-runtime/core/state"
	"github.com/parallelchain-io/pchain-runtime/core/vm"
	"github.com/parallelchain-io/pchain-runtime/params"
)

// ExecutionState lives exactly one transaction (spec §3 Lifetimes).
type ExecutionState struct {
	RWS      *state.ReadWriteSet
	Meter    *gas.Meter
	Accounts *ledger.AccountStore
	NAS      *ledger.NetworkAccountStore
	Runtime  *vm.Runtime

	TX core.Transaction
	BD core.BlockchainData

	Config params.Config
	Logger log.Logger

	Receipt  *core.ReceiptBuilder
	Deferred *state.DeferredQueue

	// CommandIndex is the index of the command currently executing,
	// used by the V5 contract-address derivation seed.
	CommandIndex int
}

// New constructs an ExecutionState for one transaction. The caller
// (TransitionDriver) owns its lifetime.
func New(rws *state.ReadWriteSet, meter *gas.Meter, runtime *vm.Runtime, tx core.Transaction, bd core.BlockchainData, cfg params.Config, logger log.Logger) *ExecutionState {
	if logger == nil {
		logger = log.Root()
	}
	accounts := ledger.NewAccountStore(meter)
	return &ExecutionState{
		RWS:      rws,
		Meter:    meter,
		Accounts: accounts,
		NAS:      ledger.NewNetworkAccountStore(meter, cfg.PoolStakeCap),
		Runtime:  runtime,
		TX:       tx,
		BD:       bd,
		Config:   cfg,
		Logger:   logger,
		Receipt:  core.NewReceiptBuilder(),
		Deferred: state.NewDeferredQueue(),
	}
}
