package executors

import (
	"github.com/holiman/uint256"

	"github.com/parallelchain-io/pchain-runtime/core"
	"github.com/parallelchain-io/pchain-runtime/core/state"
	"github.com/parallelchain-io/pchain-runtime/engine/execstate"
)

// proportionalShare computes floor(amount * weight / totalWeight) via
// a 256-bit intermediate product, the same no-overflow idiom
// params.RewardConfig.PoolReward uses for the top-level curve.
func proportionalShare(amount, weight, totalWeight uint64) uint64 {
	if totalWeight == 0 || weight == 0 {
		return 0
	}
	num := new(uint256.Int).Mul(uint256.NewInt(amount), uint256.NewInt(weight))
	quot := new(uint256.Int).Div(num, uint256.NewInt(totalWeight))
	if !quot.IsUint64() {
		return amount
	}
	return quot.Uint64()
}

func entryPower(e state.ValidatorSetEntry) uint64 {
	var total uint64
	for _, s := range e.Stakes {
		total = saturatingAdd(total, s.Power)
	}
	return total
}

// execNextEpoch runs the single reward-and-rotation procedure named
// in spec §4.4 Next Epoch. It is the only executor never reached
// through the ordinary Work loop's PreCharge/Charge wrapping — the
// Transition Driver invokes it directly, charging zero gas.
func execNextEpoch(es *execstate.ExecutionState, _ core.NextEpochCommand) (Result, error) {
	current, err := es.NAS.GetValidatorSet(core.SlotCurrentValidatorSet)
	if err != nil {
		return Result{}, err
	}

	var totalStakedPower uint64
	for _, e := range current.Entries {
		totalStakedPower = saturatingAdd(totalStakedPower, entryPower(e))
	}

	for _, e := range current.Entries {
		power := entryPower(e)
		reward := es.Config.Reward.PoolReward(power, totalStakedPower)
		if reward == 0 {
			continue
		}
		commissionRate := uint8(0)
		pool, havePool, err := es.NAS.GetPool(e.Operator)
		if err != nil {
			return Result{}, err
		}
		if havePool {
			commissionRate = pool.CommissionRate
		}
		operatorShare, delegatorShare := es.Config.Reward.SplitByCommission(reward, commissionRate)

		if err := creditDepositReward(es, e.Operator, e.Operator, operatorShare, pool); err != nil {
			return Result{}, err
		}
		for _, s := range e.Stakes {
			share := proportionalShare(delegatorShare, s.Power, power)
			if share == 0 {
				continue
			}
			if err := creditDepositReward(es, e.Operator, s.Owner, share, pool); err != nil {
				return Result{}, err
			}
		}
		if havePool {
			if _, err := es.NAS.SavePool(pool); err != nil {
				return Result{}, err
			}
		}
	}

	next, err := es.NAS.GetValidatorSet(core.SlotNextValidatorSet)
	if err != nil {
		return Result{}, err
	}
	if err := es.NAS.SaveValidatorSet(core.SlotPrevValidatorSet, current); err != nil {
		return Result{}, err
	}
	if err := es.NAS.SaveValidatorSet(core.SlotCurrentValidatorSet, next); err != nil {
		return Result{}, err
	}

	pools, err := es.NAS.ListPools()
	if err != nil {
		return Result{}, err
	}
	newNext := state.SelectTopK(pools, es.Config.ValidatorSetSize)
	if err := es.NAS.SaveValidatorSet(core.SlotNextValidatorSet, newNext); err != nil {
		return Result{}, err
	}

	epoch, err := es.NAS.GetEpoch()
	if err != nil {
		return Result{}, err
	}
	if err := es.NAS.SetEpoch(epoch + 1); err != nil {
		return Result{}, err
	}

	return success(newNext.MarshalBinary(), nil), nil
}

// creditDepositReward raises owner's deposit balance at operator by
// amount, and — if that deposit has auto_stake_rewards set — raises
// its stake power to match the new balance (spec §4.4 step 1).
func creditDepositReward(es *execstate.ExecutionState, operator, owner core.Address, amount uint64, pool *state.Pool) error {
	if amount == 0 {
		return nil
	}
	d, ok, err := es.NAS.GetDeposit(operator, owner)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	d.Balance = saturatingAdd(d.Balance, amount)
	if err := es.NAS.SaveDeposit(operator, owner, d); err != nil {
		return err
	}
	if d.AutoStakeRewards && pool != nil {
		pool.SetStakePower(owner, d.Balance)
	}
	return nil
}
