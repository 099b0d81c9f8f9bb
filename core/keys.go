package core

import "encoding/binary"

// World-state key domain tags. Every key starts with exactly one of
// these bytes, followed by the address(es) and sub-key that identify
// the value. The encoding is canonical and stable: fixed-width 32-byte
// addresses, little-endian integers, so two embedders constructing the
// same logical key always produce byte-identical output.
const (
	tagAccountBalance byte = iota
	tagAccountNonce
	tagContractCode
	tagCBIVersion
	tagAppData
	tagPool
	tagDeposit
	tagValidatorSet
	tagEpoch
	tagPoolIndex
)

// ValidatorSetSlot selects which of the three validator-set snapshots a
// ValidatorSetKey addresses.
type ValidatorSetSlot byte

const (
	SlotPrevValidatorSet ValidatorSetSlot = iota
	SlotCurrentValidatorSet
	SlotNextValidatorSet
)

func AccountBalanceKey(addr Address) []byte {
	return append([]byte{tagAccountBalance}, addr[:]...)
}

func AccountNonceKey(addr Address) []byte {
	return append([]byte{tagAccountNonce}, addr[:]...)
}

func ContractCodeKey(addr Address) []byte {
	return append([]byte{tagContractCode}, addr[:]...)
}

func CBIVersionKey(addr Address) []byte {
	return append([]byte{tagCBIVersion}, addr[:]...)
}

// AppDataKey addresses one entry of an account's app-storage map.
// The V4/V5 variant split (§6 Versioning: "V5 avoids double-charging
// the 32-byte address prefix for the App key variant") is a gas-cost
// concern handled in core/gas, not a key-shape concern: the key itself
// is always address‖subkey so both variants observe the same world
// state.
func AppDataKey(addr Address, subKey []byte) []byte {
	k := make([]byte, 0, 1+32+len(subKey))
	k = append(k, tagAppData)
	k = append(k, addr[:]...)
	k = append(k, subKey...)
	return k
}

func PoolKey(operator Address) []byte {
	return append([]byte{tagPool}, operator[:]...)
}

func DepositKey(operator, owner Address) []byte {
	k := make([]byte, 0, 1+64)
	k = append(k, tagDeposit)
	k = append(k, operator[:]...)
	k = append(k, owner[:]...)
	return k
}

func ValidatorSetKey(slot ValidatorSetSlot) []byte {
	return []byte{tagValidatorSet, byte(slot)}
}

func EpochKey() []byte {
	return []byte{tagEpoch}
}

// PoolIndexKey addresses the single world-state entry tracking which
// operator addresses currently run a pool. NextEpoch's select_top_k
// step needs to enumerate every live pool, and the WorldStateView
// interface (spec §6) offers no range scan — so the NAS keeps this
// small index itself, the same way it keeps the validator-set
// snapshots, rather than requiring embedders to add one.
func PoolIndexKey() []byte {
	return []byte{tagPoolIndex}
}

// IsAppDataKey reports whether key addresses an app-storage entry,
// used by the gas meter to apply the V4/V5 MPT key-length formula
// split (spec §6 Versioning).
func IsAppDataKey(key []byte) bool {
	return len(key) > 0 && key[0] == tagAppData
}

func EncodeUint64(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

func DecodeUint64(b []byte) uint64 {
	if len(b) < 8 {
		var padded [8]byte
		copy(padded[:], b)
		return binary.LittleEndian.Uint64(padded[:])
	}
	return binary.LittleEndian.Uint64(b)
}

func EncodeUint32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func DecodeUint32(b []byte) uint32 {
	if len(b) < 4 {
		var padded [4]byte
		copy(padded[:], b)
		return binary.LittleEndian.Uint32(padded[:])
	}
	return binary.LittleEndian.Uint32(b)
}
