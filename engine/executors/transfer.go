package executors

import (
	"github.com/parallelchain-io/pchain-runtime/core"
	"github.com/parallelchain-io/pchain-runtime/engine/execstate"
)

// execTransfer performs a checked balance move from the signer to
// Recipient. Signer and recipient may be the same address: the
// balance nets to zero but both the debit and credit still go through
// the meter, so the command is billed identically either way.
func execTransfer(es *execstate.ExecutionState, c core.TransferCommand) (Result, error) {
	if err := es.Accounts.SubBalance(es.TX.Signer, c.Amount); err != nil {
		return Result{}, err
	}
	if err := es.Accounts.AddBalance(c.Recipient, c.Amount); err != nil {
		return Result{}, err
	}
	return success(nil, nil), nil
}
