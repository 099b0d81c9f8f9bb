package executors

import (
	"github.com/parallelchain-io/pchain-runtime/core"
	"github.com/parallelchain-io/pchain-runtime/core/state"
	"github.com/parallelchain-io/pchain-runtime/engine/execstate"
)

// execCreatePool opens a pool owned by the signer. Rejects a second
// pool at the same operator address and any commission rate outside
// [0,100] (spec §3 invariant "Commission rate always ≤ 100").
func execCreatePool(es *execstate.ExecutionState, c core.CreatePoolCommand) (Result, error) {
	if c.CommissionRate > 100 {
		return Result{}, core.NewCommandError(core.InvalidCommissionRate, nil)
	}
	exists, err := es.NAS.HasPool(es.TX.Signer)
	if err != nil {
		return Result{}, err
	}
	if exists {
		return Result{}, core.NewCommandError(core.PoolAlreadyExists, nil)
	}
	pool := state.NewPool(es.TX.Signer, c.CommissionRate)
	if _, err := es.NAS.SavePool(pool); err != nil {
		return Result{}, err
	}
	return success(nil, nil), nil
}

// execSetPoolSettings changes the signer's pool commission rate.
// Setting it to its current value is rejected — there is nothing to
// change (spec §8 scenario 5).
func execSetPoolSettings(es *execstate.ExecutionState, c core.SetPoolSettingsCommand) (Result, error) {
	if c.CommissionRate > 100 {
		return Result{}, core.NewCommandError(core.InvalidCommissionRate, nil)
	}
	pool, ok, err := es.NAS.GetPool(es.TX.Signer)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{}, core.NewCommandError(core.PoolNotFound, nil)
	}
	if pool.CommissionRate == c.CommissionRate {
		return Result{}, core.NewCommandError(core.InvalidCommissionRate, nil)
	}
	pool.CommissionRate = c.CommissionRate
	if _, err := es.NAS.SavePool(pool); err != nil {
		return Result{}, err
	}
	return success(nil, nil), nil
}

func execDeletePool(es *execstate.ExecutionState, c core.DeletePoolCommand) (Result, error) {
	exists, err := es.NAS.HasPool(es.TX.Signer)
	if err != nil {
		return Result{}, err
	}
	if !exists {
		return Result{}, core.NewCommandError(core.PoolNotFound, nil)
	}
	if err := es.NAS.DeletePool(es.TX.Signer); err != nil {
		return Result{}, err
	}
	return success(nil, nil), nil
}
