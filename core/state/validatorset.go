package state

import "github.com/parallelchain-io/pchain-runtime/core"

// ValidatorSetEntry is one operator's locked stakes within a snapshot,
// in the pool's stake order (power ascending, ties by owner address)
// for deterministic encoding.
type ValidatorSetEntry struct {
	Operator core.Address
	Stakes   []core.Stake
}

// ValidatorSet is one of the three snapshots (prev/current/next)
// described in spec §3, keyed by operator.
type ValidatorSet struct {
	Entries []ValidatorSetEntry
}

// LockedPower returns the owner's recorded stake power for operator in
// this snapshot, or 0 if absent — the default spec §4.4 Withdraw
// Deposit relies on.
func (vs *ValidatorSet) LockedPower(operator, owner core.Address) uint64 {
	if vs == nil {
		return 0
	}
	for _, e := range vs.Entries {
		if e.Operator != operator {
			continue
		}
		for _, s := range e.Stakes {
			if s.Owner == owner {
				return s.Power
			}
		}
		return 0
	}
	return 0
}

// SelectTopK builds the next validator-set snapshot from the current
// pools, ordered by power descending, tie-broken by operator address
// ascending (spec §4.4 step 4). k <= 0 means "no limit".
func SelectTopK(pools []*Pool, k int) *ValidatorSet {
	sorted := make([]*Pool, len(pools))
	copy(sorted, pools)
	// insertion sort is fine: pool counts are protocol-bounded and this
	// runs once per epoch.
	for i := 1; i < len(sorted); i++ {
		j := i
		for j > 0 && poolRanksAbove(sorted[j], sorted[j-1]) {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
			j--
		}
	}
	if k > 0 && len(sorted) > k {
		sorted = sorted[:k]
	}
	vs := &ValidatorSet{}
	for _, p := range sorted {
		vs.Entries = append(vs.Entries, ValidatorSetEntry{
			Operator: p.Operator,
			Stakes:   p.Stakes(),
		})
	}
	return vs
}

// poolRanksAbove reports whether a should sort before b: higher power
// first, ties broken by operator address ascending.
func poolRanksAbove(a, b *Pool) bool {
	if a.Power != b.Power {
		return a.Power > b.Power
	}
	return a.Operator.Less(b.Operator)
}

func (vs *ValidatorSet) MarshalBinary() []byte {
	buf := make([]byte, 0, 256)
	buf = append(buf, core.EncodeUint32(uint32(len(vs.Entries)))...)
	for _, e := range vs.Entries {
		buf = append(buf, e.Operator[:]...)
		buf = append(buf, core.EncodeUint32(uint32(len(e.Stakes)))...)
		for _, s := range e.Stakes {
			buf = append(buf, s.Owner[:]...)
			buf = append(buf, core.EncodeUint64(s.Power)...)
		}
	}
	return buf
}

func UnmarshalValidatorSet(b []byte) *ValidatorSet {
	if len(b) < 4 {
		return &ValidatorSet{}
	}
	n := core.DecodeUint32(b[:4])
	off := 4
	vs := &ValidatorSet{}
	for i := uint32(0); i < n; i++ {
		operator := core.BytesToAddress(b[off : off+32])
		off += 32
		sc := core.DecodeUint32(b[off : off+4])
		off += 4
		stakes := make([]core.Stake, 0, sc)
		for j := uint32(0); j < sc; j++ {
			owner := core.BytesToAddress(b[off : off+32])
			off += 32
			power := core.DecodeUint64(b[off : off+8])
			off += 8
			stakes = append(stakes, core.Stake{Owner: owner, Power: power})
		}
		vs.Entries = append(vs.Entries, ValidatorSetEntry{Operator: operator, Stakes: stakes})
	}
	return vs
}
