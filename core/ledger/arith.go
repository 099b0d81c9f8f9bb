// Package ledger provides the typed accessors layered over the gas
// meter: AccountStore for per-address account fields, and
// NetworkAccountStore (NAS) for pools, deposits, validator sets and
// the epoch counter (spec §4.2). Every read and write here is
// billable — it goes through the meter, never straight to the RWS.
package ledger

import "github.com/holiman/uint256"

// checkedAdd returns a+b and true, or false if the sum would not fit
// in a uint64 — the "checked arithmetic, no silent wrap" invariant
// (spec §3), implemented the way the teacher's buyGas guards balance
// math with uint256's overflow-aware ops.
func checkedAdd(a, b uint64) (uint64, bool) {
	sum := new(uint256.Int).Add(uint256.NewInt(a), uint256.NewInt(b))
	if !sum.IsUint64() {
		return 0, false
	}
	return sum.Uint64(), true
}

// checkedSub returns a-b and true, or false if b > a.
func checkedSub(a, b uint64) (uint64, bool) {
	diff, borrow := new(uint256.Int).SubOverflow(uint256.NewInt(a), uint256.NewInt(b))
	if borrow {
		return 0, false
	}
	return diff.Uint64(), true
}
