package state

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/parallelchain-io/pchain-runtime/core"
)

func TestDeferredQueueFIFO(t *testing.T) {
	q := NewDeferredQueue()
	require.Equal(t, 0, q.Len())

	q.Enqueue(core.TransferCommand{Amount: 1})
	q.Enqueue(core.TransferCommand{Amount: 2})
	q.Enqueue(core.TransferCommand{Amount: 3})
	require.Equal(t, 3, q.Len())

	drained := q.Drain()
	require.Len(t, drained, 3)
	require.Equal(t, uint64(1), drained[0].(core.TransferCommand).Amount)
	require.Equal(t, uint64(2), drained[1].(core.TransferCommand).Amount)
	require.Equal(t, uint64(3), drained[2].(core.TransferCommand).Amount)

	require.Equal(t, 0, q.Len())
	require.Empty(t, q.Drain())
}
