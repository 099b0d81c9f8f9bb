// Package executors implements the Command Executors (CX, spec §4.4):
// one function per command kind, each following the same three-step
// contract — pre-checks (abort with receipt), state mutation through
// the ledger, and emission of any return value or logs.
package executors

import (
	"github.com/parallelchain-io/pchain-runtime/core"
	"github.com/parallelchain-io/pchain-runtime/engine/execstate"
)

// Result is what an executor hands back to the Work loop: the
// command's outcome, independent of gas (the caller finalizes gas via
// the meter after the executor returns).
type Result struct {
	ExitStatus  core.ExitStatus
	ReturnValue []byte
	Logs        []core.Log
}

func success(returnValue []byte, logs []core.Log) Result {
	return Result{ExitStatus: core.ExitSuccess, ReturnValue: returnValue, Logs: logs}
}

// Dispatch runs the executor matching cmd.Kind(). A *core.CommandError
// is a normal, receipt-producing failure: Dispatch still returns it
// alongside a failed Result so the Transition Driver can log the
// reason; the driver stops the Work loop and proceeds to Charge. Any
// other error is returned unchanged, with the Result the executor
// produced, and the driver's Work loop stops on it the same way.
func Dispatch(es *execstate.ExecutionState, cmd core.Command) (Result, error) {
	var (
		res Result
		err error
	)
	switch c := cmd.(type) {
	case core.TransferCommand:
		res, err = execTransfer(es, c)
	case core.DeployCommand:
		res, err = execDeploy(es, c)
	case core.CallCommand:
		res, err = execCall(es, c)
	case core.CreatePoolCommand:
		res, err = execCreatePool(es, c)
	case core.SetPoolSettingsCommand:
		res, err = execSetPoolSettings(es, c)
	case core.DeletePoolCommand:
		res, err = execDeletePool(es, c)
	case core.CreateDepositCommand:
		res, err = execCreateDeposit(es, c)
	case core.SetDepositSettingsCommand:
		res, err = execSetDepositSettings(es, c)
	case core.TopUpDepositCommand:
		res, err = execTopUpDeposit(es, c)
	case core.WithdrawDepositCommand:
		res, err = execWithdrawDeposit(es, c)
	case core.StakeDepositCommand:
		res, err = execStakeDeposit(es, c)
	case core.UnstakeDepositCommand:
		res, err = execUnstakeDeposit(es, c)
	case core.NextEpochCommand:
		res, err = execNextEpoch(es, c)
	default:
		return Result{}, core.NewCommandError(core.UnknownCommand, nil)
	}

	if isCommandError(err) && res.ExitStatus != core.ExitFailed {
		res = Result{ExitStatus: core.ExitFailed}
	}
	return res, err
}

func isCommandError(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*core.CommandError)
	return ok
}
