package executors

import (
	"github.com/holiman/uint256"

	"github.com/parallelchain-io/pchain-runtime/core"
	"github.com/parallelchain-io/pchain-runtime/core/state"
	"github.com/parallelchain-io/pchain-runtime/engine/execstate"
)

// saturatingAdd mirrors the checked-arithmetic idiom used throughout
// the ledger (uint256 intermediate, no silent wrap) but saturates
// instead of failing, since a stake's power is always subsequently
// clamped to the deposit balance — an overflow here can never produce
// a valid result anyway.
func saturatingAdd(a, b uint64) uint64 {
	sum := new(uint256.Int).Add(uint256.NewInt(a), uint256.NewInt(b))
	if !sum.IsUint64() {
		return ^uint64(0)
	}
	return sum.Uint64()
}

// execCreateDeposit opens a deposit for the signer against operator's
// pool, funded by a checked debit from the signer's account balance.
// The operator must already run a pool; a second deposit at the same
// (operator, owner) pair is rejected.
func execCreateDeposit(es *execstate.ExecutionState, c core.CreateDepositCommand) (Result, error) {
	if _, ok, err := es.NAS.GetPool(c.Operator); err != nil {
		return Result{}, err
	} else if !ok {
		return Result{}, core.NewCommandError(core.PoolNotFound, nil)
	}
	if _, ok, err := es.NAS.GetDeposit(c.Operator, es.TX.Signer); err != nil {
		return Result{}, err
	} else if ok {
		return Result{}, core.NewCommandError(core.DepositAlreadyExists, nil)
	}
	if err := es.Accounts.SubBalance(es.TX.Signer, c.Balance); err != nil {
		return Result{}, err
	}
	d := state.Deposit{Balance: c.Balance, AutoStakeRewards: c.AutoStakeRewards}
	if err := es.NAS.SaveDeposit(c.Operator, es.TX.Signer, d); err != nil {
		return Result{}, err
	}
	return success(nil, nil), nil
}

func execSetDepositSettings(es *execstate.ExecutionState, c core.SetDepositSettingsCommand) (Result, error) {
	d, ok, err := es.NAS.GetDeposit(c.Operator, es.TX.Signer)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{}, core.NewCommandError(core.DepositNotFound, nil)
	}
	d.AutoStakeRewards = c.AutoStakeRewards
	if err := es.NAS.SaveDeposit(c.Operator, es.TX.Signer, d); err != nil {
		return Result{}, err
	}
	return success(nil, nil), nil
}

func execTopUpDeposit(es *execstate.ExecutionState, c core.TopUpDepositCommand) (Result, error) {
	d, ok, err := es.NAS.GetDeposit(c.Operator, es.TX.Signer)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{}, core.NewCommandError(core.DepositNotFound, nil)
	}
	if err := es.Accounts.SubBalance(es.TX.Signer, c.Amount); err != nil {
		return Result{}, err
	}
	d.Balance = saturatingAdd(d.Balance, c.Amount)
	if err := es.NAS.SaveDeposit(c.Operator, es.TX.Signer, d); err != nil {
		return Result{}, err
	}
	return success(nil, nil), nil
}

// execWithdrawDeposit clamps the withdrawable amount to the deposit
// balance above whichever validator-set snapshot currently locks the
// most power for this owner (spec §4.4 Withdraw Deposit).
func execWithdrawDeposit(es *execstate.ExecutionState, c core.WithdrawDepositCommand) (Result, error) {
	d, ok, err := es.NAS.GetDeposit(c.Operator, es.TX.Signer)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{}, core.NewCommandError(core.DepositNotFound, nil)
	}

	prevVS, err := es.NAS.GetValidatorSet(core.SlotPrevValidatorSet)
	if err != nil {
		return Result{}, err
	}
	curVS, err := es.NAS.GetValidatorSet(core.SlotCurrentValidatorSet)
	if err != nil {
		return Result{}, err
	}
	prevLock := prevVS.LockedPower(c.Operator, es.TX.Signer)
	curLock := curVS.LockedPower(c.Operator, es.TX.Signer)
	floor := prevLock
	if curLock > floor {
		floor = curLock
	}

	var maxWithdrawable uint64
	if d.Balance > floor {
		maxWithdrawable = d.Balance - floor
	}
	actual := c.Requested
	if actual > maxWithdrawable {
		actual = maxWithdrawable
	}
	if actual == 0 {
		return Result{}, core.NewCommandError(core.NothingToWithdraw, nil)
	}

	newBalance := d.Balance - actual
	if newBalance == 0 {
		if err := es.NAS.DeleteDeposit(c.Operator, es.TX.Signer); err != nil {
			return Result{}, err
		}
	} else {
		d.Balance = newBalance
		if err := es.NAS.SaveDeposit(c.Operator, es.TX.Signer, d); err != nil {
			return Result{}, err
		}
	}
	if err := es.Accounts.AddBalance(es.TX.Signer, actual); err != nil {
		return Result{}, err
	}

	pool, ok, err := es.NAS.GetPool(c.Operator)
	if err != nil {
		return Result{}, err
	}
	if ok {
		if stake, found := pool.StakeOf(es.TX.Signer); found && stake.Power > newBalance {
			pool.SetStakePower(es.TX.Signer, newBalance)
			if _, err := es.NAS.SavePool(pool); err != nil {
				return Result{}, err
			}
		}
	}
	return success(core.EncodeUint64(actual), nil), nil
}

// execStakeDeposit raises the signer's stake power in operator's pool
// by Requested, capped at the deposit's current balance (spec §4.4
// Stake Deposit).
func execStakeDeposit(es *execstate.ExecutionState, c core.StakeDepositCommand) (Result, error) {
	pool, ok, err := es.NAS.GetPool(c.Operator)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{}, core.NewCommandError(core.PoolNotFound, nil)
	}
	d, ok, err := es.NAS.GetDeposit(c.Operator, es.TX.Signer)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{}, core.NewCommandError(core.DepositNotFound, nil)
	}

	stake, _ := pool.StakeOf(es.TX.Signer)
	newPower := saturatingAdd(stake.Power, c.Requested)
	if newPower > d.Balance {
		newPower = d.Balance
	}
	if newPower == stake.Power {
		return Result{}, core.NewCommandError(core.NothingToStake, nil)
	}
	pool.SetStakePower(es.TX.Signer, newPower)
	if _, err := es.NAS.SavePool(pool); err != nil {
		return Result{}, err
	}
	return success(nil, nil), nil
}

// execUnstakeDeposit lowers the signer's stake power in operator's
// pool by min(Requested, current power), removing the stake entirely
// if it reaches zero (spec §4.4 Unstake Deposit).
func execUnstakeDeposit(es *execstate.ExecutionState, c core.UnstakeDepositCommand) (Result, error) {
	pool, ok, err := es.NAS.GetPool(c.Operator)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{}, core.NewCommandError(core.PoolNotFound, nil)
	}
	stake, found := pool.StakeOf(es.TX.Signer)
	if !found {
		return Result{}, core.NewCommandError(core.NothingToUnstake, nil)
	}
	delta := c.Requested
	if delta > stake.Power {
		delta = stake.Power
	}
	newPower := stake.Power - delta
	pool.SetStakePower(es.TX.Signer, newPower)
	if _, err := es.NAS.SavePool(pool); err != nil {
		return Result{}, err
	}
	return success(nil, nil), nil
}
