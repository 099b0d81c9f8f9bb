package state

import (
	"github.com/tidwall/btree"

	"github.com/parallelchain-io/pchain-runtime/core"
)

// stakeLess orders stakes by power ascending, tie-broken by address
// lexicographic order, matching the Pool.delegated_stakes invariant in
// spec §3.
func stakeLess(a, b core.Stake) bool {
	if a.Power != b.Power {
		return a.Power < b.Power
	}
	return a.Owner.Less(b.Owner)
}

// Pool is the in-memory, mutable representation of a validator
// operator's delegated stake. The ordered set is backed by
// github.com/tidwall/btree so insertion, minimum-power lookup (for
// eviction) and ordered iteration (for deterministic encoding and top-k
// selection) are all O(log n) or better, matching how the teacher uses
// the same package for Domain's visible-files index.
type Pool struct {
	Operator       core.Address
	CommissionRate uint8
	Power          uint64

	stakes *btree.BTreeG[core.Stake]
	byOwner map[core.Address]uint64
}

func NewPool(operator core.Address, commissionRate uint8) *Pool {
	return &Pool{
		Operator:       operator,
		CommissionRate: commissionRate,
		stakes:         btree.NewBTreeG(stakeLess),
		byOwner:        make(map[core.Address]uint64),
	}
}

func (p *Pool) StakeOf(owner core.Address) (core.Stake, bool) {
	power, ok := p.byOwner[owner]
	if !ok {
		return core.Stake{}, false
	}
	return core.Stake{Owner: owner, Power: power}, true
}

func (p *Pool) Len() int { return len(p.byOwner) }

// Stakes returns every stake ordered ascending by (power, address) —
// the iteration order used for encoding and for min-power eviction.
func (p *Pool) Stakes() []core.Stake {
	out := make([]core.Stake, 0, p.stakes.Len())
	p.stakes.Scan(func(s core.Stake) bool {
		out = append(out, s)
		return true
	})
	return out
}

// SetStakePower inserts or updates a stake's power, keeping Power (the
// pool-wide sum) and the ordered set consistent. Passing power 0
// removes the stake entirely.
func (p *Pool) SetStakePower(owner core.Address, power uint64) {
	if old, ok := p.byOwner[owner]; ok {
		p.stakes.Delete(core.Stake{Owner: owner, Power: old})
		p.Power -= old
		delete(p.byOwner, owner)
	}
	if power == 0 {
		return
	}
	p.stakes.Set(core.Stake{Owner: owner, Power: power})
	p.byOwner[owner] = power
	p.Power += power
}

// EvictIfOverCap removes the minimum-power stake once the pool exceeds
// cap entries, per §4.2's eviction rule. Returns the evicted stake, if
// any.
func (p *Pool) EvictIfOverCap(maxSize int) (core.Stake, bool) {
	if maxSize <= 0 || p.stakes.Len() <= maxSize {
		return core.Stake{}, false
	}
	min, ok := p.stakes.Min()
	if !ok {
		return core.Stake{}, false
	}
	p.SetStakePower(min.Owner, 0)
	return min, true
}

// MarshalBinary encodes the pool deterministically: operator, rate,
// power, then every stake in ascending (power, address) order.
func (p *Pool) MarshalBinary() []byte {
	stakes := p.Stakes()
	buf := make([]byte, 0, 32+1+8+4+len(stakes)*40)
	buf = append(buf, p.Operator[:]...)
	buf = append(buf, p.CommissionRate)
	buf = append(buf, core.EncodeUint64(p.Power)...)
	buf = append(buf, core.EncodeUint32(uint32(len(stakes)))...)
	for _, s := range stakes {
		buf = append(buf, s.Owner[:]...)
		buf = append(buf, core.EncodeUint64(s.Power)...)
	}
	return buf
}

func UnmarshalPool(b []byte) *Pool {
	if len(b) < 32+1+8+4 {
		return nil
	}
	operator := core.BytesToAddress(b[:32])
	rate := b[32]
	power := core.DecodeUint64(b[33:41])
	n := core.DecodeUint32(b[41:45])
	p := NewPool(operator, rate)
	off := 45
	for i := uint32(0); i < n; i++ {
		owner := core.BytesToAddress(b[off : off+32])
		pw := core.DecodeUint64(b[off+32 : off+40])
		p.stakes.Set(core.Stake{Owner: owner, Power: pw})
		p.byOwner[owner] = pw
		off += 40
	}
	p.Power = power
	return p
}
