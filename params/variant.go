// Package params holds protocol-level configuration: the gas schedule,
// the reward-curve parameters, the CBI version table, and the V4/V5
// strategy variant dispatch described in spec §6/§9. None of it is
// wired to a file or environment parser — the embedder constructs a
// Config and passes it into engine.Driver.Transition.
package params

// Variant selects one of the two externally selectable transition
// behaviors (spec §6 Versioning). It is fixed for the lifetime of a
// single Transition call; there is no dynamic swap mid-transition.
type Variant uint8

const (
	V4 Variant = iota
	V5
)

func (v Variant) String() string {
	if v == V5 {
		return "V5"
	}
	return "V4"
}

// ContractAddressSeed returns the byte sequence hashed to derive a
// newly deployed contract's address. V4 hashes signer‖nonce; V5 mixes
// in the command's index within the transaction so two Deploy commands
// in one transaction (same signer, same nonce) never collide.
func (v Variant) ContractAddressSeed(signer []byte, nonce uint64, commandIndex int) []byte {
	seed := make([]byte, 0, 32+8+4)
	seed = append(seed, signer...)
	seed = append(seed, encodeUint64(nonce)...)
	if v == V5 {
		seed = append(seed, encodeUint32(uint32(commandIndex))...)
	}
	return seed
}

// v5InclusionEnvelopeBytes is the per-command byte envelope V5
// considers already paid for by perCommandCost, the same
// avoid-double-charging idea AppKeyGasLength applies to the app-key
// address prefix.
const v5InclusionEnvelopeBytes = 32

// InclusionCost computes the fixed pre-exec inclusion gas (spec §4.3).
// V4 bills every byte of tx_size at perByteCost on top of the flat
// per-command cost. V5 charges perByteCost only for bytes beyond a
// fixed per-command envelope (v5InclusionEnvelopeBytes), since that
// envelope is already covered by perCommandCost — avoiding the double
// charge V4 accepts in exchange for a simpler formula.
func (v Variant) InclusionCost(baseTxCost, perCommandCost, perByteCost, txSize, nCommands uint64) uint64 {
	billableBytes := txSize
	if v == V5 {
		envelope := nCommands * v5InclusionEnvelopeBytes
		if envelope >= billableBytes {
			billableBytes = 0
		} else {
			billableBytes -= envelope
		}
	}
	return baseTxCost + perCommandCost*nCommands + perByteCost*billableBytes
}

// AppKeyGasLength returns the key length the gas meter should bill for
// an app-storage key. V4 bills the full key (tag‖address‖subkey); V5
// avoids double-charging the 32-byte address prefix, since the
// account's existence already paid for it via the balance/nonce keys.
func (v Variant) AppKeyGasLength(fullKeyLen int) int {
	if v == V5 && fullKeyLen > 1+32 {
		return fullKeyLen - 32
	}
	return fullKeyLen
}

func encodeUint64(v uint64) []byte {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
	return b
}

func encodeUint32(v uint32) []byte {
	b := make([]byte, 4)
	for i := 0; i < 4; i++ {
		b[i] = byte(v >> (8 * i))
	}
	return b
}
