package state

// entry is the in-memory representation of a pending write: Present
// false encodes a delete (write_set's None), Present true carries the
// new value (write_set's Some(bytes)).
type entry struct {
	value   []byte
	present bool
}

// ReadWriteSet is the cache layered over a WorldStateView. All reads
// and writes performed during a transition route through it so that
// the transition observes a single consistent snapshot of world state
// regardless of how many times a key is touched, and so that nothing
// reaches the backing store until Commit.
//
// Read policy: write_set -> read_set -> WS. A miss against WS
// populates read_set so a repeated read of an absent key doesn't
// re-query the view.
type ReadWriteSet struct {
	ws        WorldStateView
	readSet   map[string]entry
	writeSet  map[string]entry
}

func New(ws WorldStateView) *ReadWriteSet {
	return &ReadWriteSet{
		ws:       ws,
		readSet:  make(map[string]entry),
		writeSet: make(map[string]entry),
	}
}

// Get returns the value for key and whether it is present.
func (r *ReadWriteSet) Get(key []byte) ([]byte, bool) {
	k := string(key)
	if e, ok := r.writeSet[k]; ok {
		return e.value, e.present
	}
	if e, ok := r.readSet[k]; ok {
		return e.value, e.present
	}
	v, ok := r.ws.Get(key)
	r.readSet[k] = entry{value: v, present: ok}
	return v, ok
}

// Contains reports whether key has a value, without requiring the
// caller to discard the returned bytes.
func (r *ReadWriteSet) Contains(key []byte) bool {
	_, ok := r.Get(key)
	return ok
}

// Set records a pending write. Per §4.1 it first performs a Get to
// capture the prior value (the gas meter uses this for billing; the
// RWS itself just needs the read_set populated before the write_set
// shadows it).
func (r *ReadWriteSet) Set(key, value []byte) {
	r.Get(key)
	r.writeSet[string(key)] = entry{value: value, present: true}
}

// Delete records a pending deletion.
func (r *ReadWriteSet) Delete(key []byte) {
	r.Get(key)
	r.writeSet[string(key)] = entry{present: false}
}

// Discard drops all pending reads and writes. Used on a PreCharge
// reject, where no part of the transition may reach the backing
// store.
func (r *ReadWriteSet) Discard() {
	r.readSet = make(map[string]entry)
	r.writeSet = make(map[string]entry)
}

// WriteSet materializes the pending writes as a WriteSet suitable for
// WorldStateStorage.Apply or for direct inspection by a caller that
// wants the delta without committing through a storage engine.
func (r *ReadWriteSet) WriteSet() WriteSet {
	out := make(WriteSet, len(r.writeSet))
	for k, e := range r.writeSet {
		out[k] = WriteEntry{Value: e.value, Deleted: !e.present}
	}
	return out
}

// CommitInto applies every pending write to storage and clears the
// write set. It does not clear the read set, since a commit always
// ends the transition's lifetime.
func (r *ReadWriteSet) CommitInto(storage WorldStateStorage) error {
	if err := storage.Apply(r.WriteSet()); err != nil {
		return err
	}
	r.writeSet = make(map[string]entry)
	return nil
}
