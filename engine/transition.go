// Package engine implements the Transition Driver (TD, spec §4.6): the
// phase machine that turns one transaction into a new write-set and a
// receipt. Its shape — precheck/buyGas-style admission, a work phase,
// then a refund-and-tip settlement — follows the teacher's
// StateTransition.TransitionDb pipeline (core/state_transition.go),
// generalized from a single EVM call to a sequence of commands against
// the account/staking/contract command set this runtime executes.
package engine

import (
	"time"

	"github.com/holiman/uint256"

	log "github.com/erigontech/erigon-lib/log/v3"

	"github.com/parallelchain-io/pchain-runtime/consensus/misc"
	"github.com/parallelchain-io/pchain-runtime/core"
	"github.com/parallelchain-io/pchain-runtime/core/gas"
	"github.com/parallelchain-io/pchain-runtime/core/state"
	"github.com/parallelchain-io/pchain-runtime/core/vm"
	"github.com/parallelchain-io/pchain-runtime/engine/execstate"
	"github.com/parallelchain-io/pchain-runtime/engine/executors"
	"github.com/parallelchain-io/pchain-runtime/metrics"
	"github.com/parallelchain-io/pchain-runtime/params"
)

// TransitionResult is the library's one output shape (spec §6):
// new_write_set is always populated (empty on a PreCharge reject);
// Receipt is nil exactly when Err is a *core.PreChargeError.
type TransitionResult struct {
	NewWriteSet state.WriteSet
	Receipt     *core.Receipt
	Err         error
}

// Driver owns the one embedder-supplied collaborator the conceptual
// signature in spec §6 elides: the ContractLoader backing the
// Contract Runtime. A Driver is safe to reuse across many Transition
// calls; each call builds its own ExecutionState, but the Contract
// Runtime itself — and its Deploy-validation caches — persists across
// calls, so a contract re-deployed to an address it already occupied
// earlier in the process's lifetime skips re-validation.
type Driver struct {
	loader   vm.ContractLoader
	logger   log.Logger
	recorder metrics.Recorder
	runtime  *vm.Runtime
}

func NewDriver(loader vm.ContractLoader, logger log.Logger) *Driver {
	if logger == nil {
		logger = log.Root()
	}
	return &Driver{loader: loader, logger: logger, recorder: metrics.NopRecorder{}}
}

// WithRecorder attaches a metrics.Recorder that observes every
// subsequent Transition call. Driver defaults to a no-op recorder, so
// embedders that don't care about metrics never pay for them.
func (d *Driver) WithRecorder(r metrics.Recorder) *Driver {
	if r != nil {
		d.recorder = r
	}
	return d
}

// Transition runs the full PreCharge -> Work -> Charge -> Commit
// pipeline for one transaction against ws, per spec §4.6.
func (d *Driver) Transition(ws state.WorldStateView, tx core.Transaction, bd core.BlockchainData, cfg params.Config) TransitionResult {
	start := time.Now()
	rws := state.New(ws)
	meter := gas.NewMeter(cfg.Gas, cfg.Variant, rws, tx.GasLimit)
	if d.runtime == nil {
		d.runtime = vm.NewRuntime(d.loader, cfg.CBI, d.logger)
	}
	es := execstate.New(rws, meter, d.runtime, tx, bd, cfg, d.logger)

	if isNextEpoch(tx.Commands) {
		result := d.transitionNextEpoch(es)
		d.observe(result, start)
		return result
	}

	if err := d.preCharge(es); err != nil {
		rws.Discard()
		result := TransitionResult{NewWriteSet: state.WriteSet{}, Err: err}
		d.observe(result, start)
		return result
	}

	d.work(es)
	gasUsed := d.charge(es)

	result := TransitionResult{
		NewWriteSet: rws.WriteSet(),
		Receipt:     receiptPtr(es.Receipt.Build(gasUsed)),
	}
	d.observe(result, start)
	return result
}

func (d *Driver) observe(result TransitionResult, start time.Time) {
	outcome := "rejected"
	var gasUsed uint64
	if result.Receipt != nil {
		gasUsed = result.Receipt.GasUsed
		if result.Receipt.ExitStatusOverall == core.ExitSuccess {
			outcome = "success"
		} else {
			outcome = "failed"
		}
	}
	d.recorder.ObserveTransition(outcome, gasUsed, time.Since(start))
}

func isNextEpoch(cmds []core.Command) bool {
	if len(cmds) != 1 {
		return false
	}
	_, ok := cmds[0].(core.NextEpochCommand)
	return ok
}

func receiptPtr(r core.Receipt) *core.Receipt { return &r }

// preCharge runs the §4.6 PreCharge checks and, if they all pass,
// deducts the full gas_limit*(base_fee+priority_fee) up front and
// records the fixed inclusion charge — mirroring buyGas's
// charge-before-run discipline, generalized from a single gas price to
// this runtime's base/priority split.
func (d *Driver) preCharge(es *execstate.ExecutionState) error {
	tx := es.TX

	nonce, err := es.Accounts.GetNonce(tx.Signer)
	if err != nil {
		return core.NewPreChargeError(core.Malformed, err)
	}
	if nonce != tx.Nonce {
		return core.NewPreChargeError(core.InvalidNonce, nil)
	}
	if !core.IsValidCommandMix(tx.Commands) {
		return core.NewPreChargeError(core.DisallowedCommandMix, nil)
	}
	if tx.SizeBytes < es.Config.MinTxSizeBytes {
		return core.NewPreChargeError(core.Malformed, nil)
	}

	feePerGas := new(uint256.Int).Add(uint256.NewInt(tx.BaseFeePerGas), uint256.NewInt(tx.PriorityFeePerGas))
	gasCost, overflow := new(uint256.Int).MulOverflow(uint256.NewInt(tx.GasLimit), feePerGas)
	if overflow || !gasCost.IsUint64() {
		return core.NewPreChargeError(core.BaseCostTooHigh, nil)
	}

	balance, err := es.Accounts.GetBalance(tx.Signer)
	if err != nil {
		return core.NewPreChargeError(core.Malformed, err)
	}
	if balance < gasCost.Uint64() {
		return core.NewPreChargeError(core.InsufficientBalanceForGas, nil)
	}
	if err := es.Accounts.SetBalance(tx.Signer, balance-gasCost.Uint64()); err != nil {
		return core.NewPreChargeError(core.Malformed, err)
	}

	if err := es.Meter.ChargeInclusion(tx.SizeBytes, uint64(len(tx.Commands))); err != nil {
		return err
	}
	return nil
}

// work executes commands strictly in order, finalizing each one's gas
// and appending its receipt, stopping at the first failure (spec §4.6
// Work, §7 propagation rule).
func (d *Driver) work(es *execstate.ExecutionState) {
	nCommands := uint64(len(es.TX.Commands))
	for i, cmd := range es.TX.Commands {
		es.CommandIndex = i
		res, err := executors.Dispatch(es, cmd)
		gasUsed := es.Meter.FinalizeCommand()
		var inclusionShare uint64
		if es.Config.Variant == params.V5 {
			inclusionShare = es.Meter.InclusionGas() / nCommands
		}
		es.Receipt.Append(core.CommandReceipt{
			ExitStatus:        res.ExitStatus,
			GasUsed:           gasUsed,
			ReturnValue:       res.ReturnValue,
			Logs:              res.Logs,
			InclusionGasShare: inclusionShare,
		})
		if err != nil {
			d.logger.Debug("command failed, stopping work phase", "index", i, "kind", cmd.Kind(), "err", err)
			return
		}
	}
}

// charge settles the transaction's gas: refund the signer's unused
// budget, tip the proposer, credit the treasury's protocol-defined
// share of the base fee and burn the remainder — the same
// refund/coinbase-tip/burn shape as refundGas and the base-fee burn in
// innerTransitionDb, generalized to this runtime's explicit treasury
// account and integer treasury_share fraction.
func (d *Driver) charge(es *execstate.ExecutionState) uint64 {
	tx := es.TX
	settlement := misc.CalcSettlement(
		tx.GasLimit,
		es.Meter.InclusionGas(),
		es.Meter.TotalCommandGasUsed(),
		tx.BaseFeePerGas,
		tx.PriorityFeePerGas,
		es.Config.TreasuryShareNum,
		es.Config.TreasuryShareDen,
	)

	_ = es.Accounts.AddBalance(tx.Signer, settlement.SignerRefund)
	_ = es.Accounts.AddBalance(es.BD.Proposer, settlement.ProposerCredit)
	_ = es.Accounts.AddBalance(es.BD.Treasury, settlement.TreasuryCredit)
	_ = es.Accounts.IncrementNonce(tx.Signer)

	return settlement.GasUsed
}

// transitionNextEpoch bypasses PreCharge/Charge entirely (spec §4.6):
// a NextEpoch transaction only needs its signer authorized — this
// runtime requires it to be the block proposer — before the single
// NextEpoch executor runs at zero gas. The nonce still advances.
func (d *Driver) transitionNextEpoch(es *execstate.ExecutionState) TransitionResult {
	tx := es.TX
	if tx.Signer != es.BD.Proposer {
		return d.nextEpochFailure(es, core.Unauthorized, nil)
	}

	res, err := executors.Dispatch(es, tx.Commands[0])
	if err != nil {
		return d.nextEpochFailure(es, core.InvariantViolation, err)
	}

	es.Receipt.Append(core.CommandReceipt{
		ExitStatus:  res.ExitStatus,
		GasUsed:     0,
		ReturnValue: res.ReturnValue,
		Logs:        res.Logs,
	})
	if err := es.Accounts.IncrementNonce(tx.Signer); err != nil {
		return d.nextEpochFailure(es, core.InvariantViolation, err)
	}

	return TransitionResult{
		NewWriteSet: es.RWS.WriteSet(),
		Receipt:     receiptPtr(es.Receipt.Build(0)),
	}
}

// nextEpochFailure builds the zero-gas, ExitFailed receipt spec §7
// requires for a NextEpochError — unlike a PreChargeError, NextEpoch
// failures still produce a receipt and whatever write-set effects
// preceded the failure (e.g. the authorization check runs before any
// mutation, but an invariant violation can follow a partial NAS
// update).
func (d *Driver) nextEpochFailure(es *execstate.ExecutionState, reason core.NextEpochReason, cause error) TransitionResult {
	receipt := es.Receipt.Build(0)
	receipt.ExitStatusOverall = core.ExitFailed
	return TransitionResult{
		NewWriteSet: es.RWS.WriteSet(),
		Receipt:     &receipt,
		Err:         core.NewNextEpochError(reason, cause),
	}
}
