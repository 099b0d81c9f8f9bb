package gas

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/parallelchain-io/pchain-runtime/core"
	"github.com/parallelchain-io/pchain-runtime/core/state"
	"github.com/parallelchain-io/pchain-runtime/params"
)

type memView struct{ m map[string][]byte }

func (v memView) Get(key []byte) ([]byte, bool) { b, ok := v.m[string(key)]; return b, ok }
func (v memView) Contains(key []byte) bool      { _, ok := v.m[string(key)]; return ok }

func newMeter(gasLimit uint64) *Meter {
	rws := state.New(memView{m: map[string][]byte{}})
	return NewMeter(params.DefaultGasConfig(), params.V5, rws, gasLimit)
}

func TestWsSetChargesKeyAndValueLength(t *testing.T) {
	m := newMeter(1_000_000)
	key := []byte("k")
	err := m.WsSet(key, []byte("hello"))
	require.NoError(t, err)
	require.Greater(t, m.TotalCommandGasUsedForTest(), uint64(0))
}

func TestOutOfGasStopsButStillCharges(t *testing.T) {
	m := newMeter(10)
	err := m.WsSet([]byte("key"), []byte("a-fairly-long-value-that-costs-more-than-ten-gas"))
	require.Error(t, err)
	var cmdErr *core.CommandError
	require.ErrorAs(t, err, &cmdErr)
	require.Equal(t, core.OutOfGas, cmdErr.Reason)
	// the charge was still applied even though it exceeded the limit
	require.Greater(t, m.commandGasUsed, uint64(10))
}

func TestFinalizeCommandCapsReceiptGasAtRemainingBudget(t *testing.T) {
	m := newMeter(100)
	require.NoError(t, m.charge(40))
	used := m.FinalizeCommand()
	require.Equal(t, uint64(40), used)
	require.Equal(t, uint64(40), m.TotalCommandGasUsed())

	// second command blows past the remaining 60
	_ = m.charge(1000)
	used2 := m.FinalizeCommand()
	require.Equal(t, uint64(60), used2) // capped at gas_limit - totalCommandGasUsed
}

func TestAppKeyGasLengthVariantSplit(t *testing.T) {
	var addr core.Address
	appKey := core.AppDataKey(addr, []byte("sub"))

	m4 := newMeter(1_000_000)
	m4.variant = params.V4
	m5 := newMeter(1_000_000)
	m5.variant = params.V5

	require.NoError(t, m4.WsSet(appKey, []byte("v")))
	require.NoError(t, m5.WsSet(appKey, []byte("v")))
	// V5 charges less because it doesn't double-bill the 32-byte
	// address prefix.
	require.Less(t, m5.TotalCommandGasUsedForTest(), m4.TotalCommandGasUsedForTest())
}

// TotalCommandGasUsedForTest exposes the in-flight command counter
// (not yet finalized) for assertions above.
func (m *Meter) TotalCommandGasUsedForTest() uint64 { return m.commandGasUsed }
