package state

import "github.com/parallelchain-io/pchain-runtime/core"

// DeferredQueue is the FIFO of commands a running contract enqueues
// during a Call. It is owned by the execution state, drained in
// submission order immediately after the parent Call returns, and
// flushed before the Call executor itself returns (§4.5, Design
// Notes "Deferred commands").
type DeferredQueue struct {
	items []core.Command
}

func NewDeferredQueue() *DeferredQueue {
	return &DeferredQueue{}
}

// Enqueue appends a command submitted by a contract during its Call.
func (q *DeferredQueue) Enqueue(cmd core.Command) {
	q.items = append(q.items, cmd)
}

func (q *DeferredQueue) Len() int { return len(q.items) }

// Drain removes and returns every queued command in FIFO order,
// leaving the queue empty. Callers execute them sequentially and stop
// at the first failure; the commands after the failing one are dropped
// without being executed.
func (q *DeferredQueue) Drain() []core.Command {
	out := q.items
	q.items = nil
	return out
}
