// Package core holds the data model shared by every component of the
// transition pipeline: addresses, accounts, transactions, commands and
// receipts. None of it is specific to a storage engine or a contract
// runtime — those live in core/state and core/vm.
package core

import (
	"bytes"
	"encoding/hex"
)

// Address is a 32-byte account identifier.
type Address [32]byte

func (a Address) Bytes() []byte { return a[:] }

func (a Address) Hex() string { return "0x" + hex.EncodeToString(a[:]) }

func (a Address) IsZero() bool { return a == Address{} }

// Less orders addresses lexicographically, used as the tie-break for
// pool stake ordering and validator-set selection.
func (a Address) Less(b Address) bool { return bytes.Compare(a[:], b[:]) < 0 }

func BytesToAddress(b []byte) (a Address) {
	copy(a[32-len(b):], b)
	return a
}

// Hash is a 32-byte content hash, used for block hashes and the output
// of host-crypto primitives.
type Hash [32]byte

func (h Hash) Bytes() []byte { return h[:] }

func (h Hash) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

func BytesToHash(b []byte) (h Hash) {
	copy(h[32-len(b):], b)
	return h
}

// Stake is a single delegator's power within a pool.
type Stake struct {
	Owner Address
	Power uint64
}

// BlockchainData is the per-block context supplied to a transition; it
// is read-only from the core's point of view.
type BlockchainData struct {
	BlockHeight      uint64
	BlockHash        Hash
	Proposer         Address
	Treasury         Address
	PrevBlockHash    Hash
	Timestamp        uint64
	BaseFeePerGas    uint64
}
