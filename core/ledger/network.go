package ledger

import (
	"github.com/parallelchain-io/pchain-runtime/core"
	"github.com/parallelchain-io/pchain-runtime/core/gas"
	"github.com/parallelchain-io/pchain-runtime/core/state"
)

// NetworkAccountStore (NAS) is the typed accessor over pools,
// deposits, validator sets and the epoch counter (spec §4.2). It
// maintains the pool-ordering invariant itself: every mutation to a
// pool's stakes goes through SavePool, which re-sorts and applies the
// protocol's delegated-stake cap eviction before persisting.
type NetworkAccountStore struct {
	m       *gas.Meter
	poolCap int
}

func NewNetworkAccountStore(m *gas.Meter, poolCap int) *NetworkAccountStore {
	return &NetworkAccountStore{m: m, poolCap: poolCap}
}

func (n *NetworkAccountStore) GetPool(operator core.Address) (*state.Pool, bool, error) {
	v, ok, err := n.m.WsGet(core.PoolKey(operator))
	if err != nil || !ok {
		return nil, ok, err
	}
	return state.UnmarshalPool(v), true, nil
}

// SavePool persists a pool, enforcing the delegated-stake cap eviction
// rule after any mutation (§4.2: "when a pool's delegated_stakes
// exceeds a protocol-defined cap after insertion, remove the
// minimum-power stake"). It returns the evicted stake's owner, if any.
func (n *NetworkAccountStore) SavePool(p *state.Pool) (*core.Address, error) {
	if err := n.indexAdd(p.Operator); err != nil {
		return nil, err
	}
	if evicted, ok := p.EvictIfOverCap(n.poolCap); ok {
		owner := evicted.Owner
		if err := n.m.WsSet(core.PoolKey(p.Operator), p.MarshalBinary()); err != nil {
			return &owner, err
		}
		return &owner, nil
	}
	return nil, n.m.WsSet(core.PoolKey(p.Operator), p.MarshalBinary())
}

func (n *NetworkAccountStore) DeletePool(operator core.Address) error {
	if err := n.indexRemove(operator); err != nil {
		return err
	}
	return n.m.WsDelete(core.PoolKey(operator))
}

func (n *NetworkAccountStore) HasPool(operator core.Address) (bool, error) {
	return n.m.WsContains(core.PoolKey(operator))
}

// ListPools loads every live pool, in the order its operator was
// first added to the index. NextEpoch's select_top_k reads this to
// rank the whole pool set (spec §4.4 step 4).
func (n *NetworkAccountStore) ListPools() ([]*state.Pool, error) {
	operators, err := n.readIndex()
	if err != nil {
		return nil, err
	}
	out := make([]*state.Pool, 0, len(operators))
	for _, op := range operators {
		p, ok, err := n.GetPool(op)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (n *NetworkAccountStore) readIndex() ([]core.Address, error) {
	v, ok, err := n.m.WsGet(core.PoolIndexKey())
	if err != nil || !ok {
		return nil, err
	}
	count := int(core.DecodeUint32(v))
	out := make([]core.Address, 0, count)
	off := 4
	for i := 0; i < count; i++ {
		out = append(out, core.BytesToAddress(v[off:off+32]))
		off += 32
	}
	return out, nil
}

func (n *NetworkAccountStore) writeIndex(operators []core.Address) error {
	buf := make([]byte, 0, 4+32*len(operators))
	buf = append(buf, core.EncodeUint32(uint32(len(operators)))...)
	for _, op := range operators {
		buf = append(buf, op.Bytes()...)
	}
	return n.m.WsSet(core.PoolIndexKey(), buf)
}

func (n *NetworkAccountStore) indexAdd(operator core.Address) error {
	operators, err := n.readIndex()
	if err != nil {
		return err
	}
	for _, op := range operators {
		if op == operator {
			return nil
		}
	}
	return n.writeIndex(append(operators, operator))
}

func (n *NetworkAccountStore) indexRemove(operator core.Address) error {
	operators, err := n.readIndex()
	if err != nil {
		return err
	}
	out := operators[:0]
	for _, op := range operators {
		if op != operator {
			out = append(out, op)
		}
	}
	return n.writeIndex(out)
}

func (n *NetworkAccountStore) GetDeposit(operator, owner core.Address) (state.Deposit, bool, error) {
	v, ok, err := n.m.WsGet(core.DepositKey(operator, owner))
	if err != nil || !ok {
		return state.Deposit{}, ok, err
	}
	d, _ := state.UnmarshalDeposit(v)
	return d, true, nil
}

func (n *NetworkAccountStore) SaveDeposit(operator, owner core.Address, d state.Deposit) error {
	return n.m.WsSet(core.DepositKey(operator, owner), d.MarshalBinary())
}

func (n *NetworkAccountStore) DeleteDeposit(operator, owner core.Address) error {
	return n.m.WsDelete(core.DepositKey(operator, owner))
}

func (n *NetworkAccountStore) GetValidatorSet(slot core.ValidatorSetSlot) (*state.ValidatorSet, error) {
	v, ok, err := n.m.WsGet(core.ValidatorSetKey(slot))
	if err != nil {
		return nil, err
	}
	if !ok {
		return &state.ValidatorSet{}, nil
	}
	return state.UnmarshalValidatorSet(v), nil
}

func (n *NetworkAccountStore) SaveValidatorSet(slot core.ValidatorSetSlot, vs *state.ValidatorSet) error {
	return n.m.WsSet(core.ValidatorSetKey(slot), vs.MarshalBinary())
}

func (n *NetworkAccountStore) GetEpoch() (uint64, error) {
	v, _, err := n.m.WsGet(core.EpochKey())
	return core.DecodeUint64(v), err
}

func (n *NetworkAccountStore) SetEpoch(epoch uint64) error {
	return n.m.WsSet(core.EpochKey(), core.EncodeUint64(epoch))
}
