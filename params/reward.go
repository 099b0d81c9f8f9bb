package params

import "github.com/holiman/uint256"

// RewardConfig holds the block-reward curve parameters used by
// NextEpoch. The curve is a fixed per-epoch reward pool
// (TotalEpochReward) split pro-rata by power against total staked
// power. EpochLengthBlocks is carried in the config but does not enter
// PoolReward.
type RewardConfig struct {
	EpochLengthBlocks uint64
	TotalEpochReward  uint64
}

func DefaultRewardConfig() RewardConfig {
	return RewardConfig{EpochLengthBlocks: 3600, TotalEpochReward: 1_000_000}
}

// PoolReward computes operator op's share of the epoch reward pool,
// proportional to poolPower / totalStakedPower, floored (Design Notes:
// "integer math with protocol-defined rounding (floor)", no floating
// point). The 256-bit intermediate product avoids overflow for large
// power values even though the inputs and result are uint64.
func (r RewardConfig) PoolReward(poolPower, totalStakedPower uint64) uint64 {
	if totalStakedPower == 0 || poolPower == 0 {
		return 0
	}
	num := new(uint256.Int).Mul(uint256.NewInt(poolPower), uint256.NewInt(r.TotalEpochReward))
	quot := new(uint256.Int).Div(num, uint256.NewInt(totalStakedPower))
	if !quot.IsUint64() {
		return r.TotalEpochReward
	}
	return quot.Uint64()
}

// SplitByCommission divides a pool's reward between the operator (via
// commission_rate) and the remaining stakers, per §4.4 step 1.
// operatorShare + delegatorShare == reward (no rounding loss vanishes
// into the burn): operatorShare is floor(reward * commission / 100)
// and the delegators receive the rest, so any rounding remainder goes
// to the delegator side.
func (r RewardConfig) SplitByCommission(reward uint64, commissionRatePercent uint8) (operatorShare, delegatorShare uint64) {
	if commissionRatePercent > 100 {
		commissionRatePercent = 100
	}
	op := new(uint256.Int).Mul(uint256.NewInt(reward), uint256.NewInt(uint64(commissionRatePercent)))
	op = op.Div(op, uint256.NewInt(100))
	operatorShare = op.Uint64()
	delegatorShare = reward - operatorShare
	return operatorShare, delegatorShare
}
