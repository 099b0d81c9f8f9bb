package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/parallelchain-io/pchain-runtime/core"
	"github.com/parallelchain-io/pchain-runtime/core/gas"
	"github.com/parallelchain-io/pchain-runtime/core/state"
	"github.com/parallelchain-io/pchain-runtime/params"
)

func newNAS(t *testing.T, poolCap int) *NetworkAccountStore {
	t.Helper()
	rws := state.New(memView{m: map[string][]byte{}})
	m := gas.NewMeter(params.DefaultGasConfig(), params.V5, rws, 100_000_000)
	return NewNetworkAccountStore(m, poolCap)
}

func TestPoolRoundTripThroughNAS(t *testing.T) {
	nas := newNAS(t, 16)
	var op core.Address
	op[0] = 9
	p := state.NewPool(op, 10)
	var owner core.Address
	owner[0] = 1
	p.SetStakePower(owner, 100)

	_, err := nas.SavePool(p)
	require.NoError(t, err)

	loaded, ok, err := nas.GetPool(op)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(100), loaded.Power)
	s, ok := loaded.StakeOf(owner)
	require.True(t, ok)
	require.Equal(t, uint64(100), s.Power)
}

func TestSavePoolEvictsMinimumPowerStakeOverCap(t *testing.T) {
	nas := newNAS(t, 2)
	var op core.Address
	op[0] = 1
	p := state.NewPool(op, 0)

	for i := byte(1); i <= 3; i++ {
		var owner core.Address
		owner[0] = i
		p.SetStakePower(owner, uint64(i)*10)
	}
	// three stakes inserted (10, 20, 30) with cap 2: the minimum (10)
	// must be evicted on save.
	evicted, err := nas.SavePool(p)
	require.NoError(t, err)
	require.NotNil(t, evicted)

	loaded, ok, err := nas.GetPool(op)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 2, loaded.Len())
	require.Equal(t, uint64(50), loaded.Power) // 20 + 30
}

func TestEpochRoundTrip(t *testing.T) {
	nas := newNAS(t, 16)
	e, err := nas.GetEpoch()
	require.NoError(t, err)
	require.Equal(t, uint64(0), e)

	require.NoError(t, nas.SetEpoch(5))
	e, err = nas.GetEpoch()
	require.NoError(t, err)
	require.Equal(t, uint64(5), e)
}
