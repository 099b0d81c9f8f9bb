package state

import "github.com/parallelchain-io/pchain-runtime/core"

// Deposit is a single (operator, owner) balance lock-up backing
// staking power.
type Deposit struct {
	Balance          uint64
	AutoStakeRewards bool
}

func (d Deposit) MarshalBinary() []byte {
	buf := make([]byte, 9)
	copy(buf[:8], core.EncodeUint64(d.Balance))
	if d.AutoStakeRewards {
		buf[8] = 1
	}
	return buf
}

func UnmarshalDeposit(b []byte) (Deposit, bool) {
	if len(b) < 9 {
		return Deposit{}, false
	}
	return Deposit{
		Balance:          core.DecodeUint64(b[:8]),
		AutoStakeRewards: b[8] != 0,
	}, true
}
