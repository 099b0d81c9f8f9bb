package ledger

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/parallelchain-io/pchain-runtime/core"
	"github.com/parallelchain-io/pchain-runtime/core/gas"
	"github.com/parallelchain-io/pchain-runtime/core/state"
	"github.com/parallelchain-io/pchain-runtime/params"
)

type memView struct{ m map[string][]byte }

func (v memView) Get(key []byte) ([]byte, bool) { b, ok := v.m[string(key)]; return b, ok }
func (v memView) Contains(key []byte) bool      { _, ok := v.m[string(key)]; return ok }

func newAccountStore(t *testing.T) *AccountStore {
	t.Helper()
	rws := state.New(memView{m: map[string][]byte{}})
	m := gas.NewMeter(params.DefaultGasConfig(), params.V5, rws, 10_000_000)
	return NewAccountStore(m)
}

func TestAddSubBalanceChecked(t *testing.T) {
	as := newAccountStore(t)
	var addr core.Address
	addr[0] = 1

	require.NoError(t, as.SetBalance(addr, 100))
	require.NoError(t, as.AddBalance(addr, 50))
	bal, err := as.GetBalance(addr)
	require.NoError(t, err)
	require.Equal(t, uint64(150), bal)

	require.NoError(t, as.SubBalance(addr, 150))
	bal, err = as.GetBalance(addr)
	require.NoError(t, err)
	require.Equal(t, uint64(0), bal)

	err = as.SubBalance(addr, 1)
	require.Error(t, err)
	var cmdErr *core.CommandError
	require.ErrorAs(t, err, &cmdErr)
	require.Equal(t, core.InsufficientBalance, cmdErr.Reason)
}

func TestAddBalanceOverflowRejected(t *testing.T) {
	as := newAccountStore(t)
	var addr core.Address
	require.NoError(t, as.SetBalance(addr, math.MaxUint64))
	err := as.AddBalance(addr, 1)
	require.Error(t, err)
	var cmdErr *core.CommandError
	require.ErrorAs(t, err, &cmdErr)
	require.Equal(t, core.InsufficientBalance, cmdErr.Reason)
}

func TestNonceIncrement(t *testing.T) {
	as := newAccountStore(t)
	var addr core.Address
	n, err := as.GetNonce(addr)
	require.NoError(t, err)
	require.Equal(t, uint64(0), n)

	require.NoError(t, as.IncrementNonce(addr))
	n, err = as.GetNonce(addr)
	require.NoError(t, err)
	require.Equal(t, uint64(1), n)
}
