package executors

import (
	"github.com/parallelchain-io/pchain-runtime/core"
	"github.com/parallelchain-io/pchain-runtime/crypto/hostcrypto"
	"github.com/parallelchain-io/pchain-runtime/engine/execstate"
)

// execDeploy derives the new contract's address from the V4/V5 seed,
// rejects if an account already holds a contract there, then runs the
// Contract Runtime's Deploy-time validation before persisting the
// code (spec §4.4 Deploy).
func execDeploy(es *execstate.ExecutionState, c core.DeployCommand) (Result, error) {
	seed := es.Config.Variant.ContractAddressSeed(es.TX.Signer.Bytes(), es.TX.Nonce, es.CommandIndex)
	digest, err := hostcrypto.Keccak256(es.Meter, seed)
	if err != nil {
		return Result{}, err
	}
	addr := core.BytesToAddress(digest[:])

	has, err := es.Accounts.HasContract(addr)
	if err != nil {
		return Result{}, err
	}
	if has {
		return Result{}, core.NewCommandError(core.ContractInstantiationFailed, nil)
	}
	if !es.Config.CBI.IsSupported(c.CBIVersion) {
		return Result{}, core.NewCommandError(core.ContractInstantiationFailed, nil)
	}
	if err := es.Runtime.ValidateForDeploy(addr, c.Contract, c.CBIVersion); err != nil {
		return Result{}, core.NewCommandError(core.ContractInstantiationFailed, err)
	}
	if err := es.Accounts.SetContract(addr, c.Contract, c.CBIVersion); err != nil {
		return Result{}, err
	}
	return success(addr.Bytes(), nil), nil
}
