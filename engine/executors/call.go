package executors

import (
	"github.com/parallelchain-io/pchain-runtime/core"
	"github.com/parallelchain-io/pchain-runtime/core/vm"
	"github.com/parallelchain-io/pchain-runtime/engine/execstate"
)

// execCall loads the target account's code, instantiates it through
// the Contract Runtime and invokes Method. Any value carried by the
// command moves before the call, the same checked way a Transfer
// does. After a successful invocation, deferred commands the contract
// enqueued are drained FIFO and run under the same budget (spec §4.4
// Call): the first one that fails flips the Call's own exit status to
// failed without undoing the gas already spent.
func execCall(es *execstate.ExecutionState, c core.CallCommand) (Result, error) {
	has, err := es.Accounts.HasContract(c.Target)
	if err != nil {
		return Result{}, err
	}
	if !has {
		return Result{}, core.NewCommandError(core.ContractCallFailed, nil)
	}
	code, err := es.Accounts.GetContract(c.Target)
	if err != nil {
		return Result{}, err
	}
	cbiVersion, err := es.Accounts.GetCBIVersion(c.Target)
	if err != nil {
		return Result{}, err
	}

	if c.Amount > 0 {
		if err := es.Accounts.SubBalance(es.TX.Signer, c.Amount); err != nil {
			return Result{}, err
		}
		if err := es.Accounts.AddBalance(c.Target, c.Amount); err != nil {
			return Result{}, err
		}
	}

	host := vm.NewHostAPI(es.Meter, es.Accounts, es.Deferred, c.Target)
	outcome, callErr := es.Runtime.Call(c.Target, code, cbiVersion, c.Method, c.Args, host)
	if callErr != nil {
		return Result{}, core.NewCommandError(core.ContractCallFailed, callErr)
	}
	if err := es.Meter.ChargeWasm(outcome.GasUsedInWasm); err != nil {
		return Result{}, err
	}
	if err := es.Meter.ChargeReturnValue(outcome.ReturnValue); err != nil {
		return Result{}, err
	}

	for _, deferred := range es.Deferred.Drain() {
		if _, derr := Dispatch(es, deferred); derr != nil {
			return Result{ExitStatus: core.ExitFailed, ReturnValue: outcome.ReturnValue, Logs: host.Logs()}, derr
		}
	}
	return success(outcome.ReturnValue, host.Logs()), nil
}
