// Package hostcrypto backs the gas meter's host-crypto charging
// façade with real primitives: every function here charges the gas
// meter for the input length before computing, matching how the
// teacher's EVM interpreter wires precompiles behind a metered call
// boundary.
package hostcrypto

import (
	"crypto/ed25519"
	"crypto/sha256"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // required host primitive, not our choice to deprecate
	"golang.org/x/crypto/sha3"

	"github.com/parallelchain-io/pchain-runtime/core/gas"
)

// Sha256 charges then computes SHA-256(data).
func Sha256(m *gas.Meter, data []byte) ([32]byte, error) {
	if err := m.ChargeHostSha256(len(data)); err != nil {
		return [32]byte{}, err
	}
	return sha256.Sum256(data), nil
}

// Keccak256 charges then computes the Keccak-256 digest (note: not
// NIST SHA3-256 — this is the original Keccak padding EVM-style chains
// use for addresses and storage slots).
func Keccak256(m *gas.Meter, data []byte) ([32]byte, error) {
	if err := m.ChargeHostKeccak256(len(data)); err != nil {
		return [32]byte{}, err
	}
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out, nil
}

// Ripemd160 charges then computes RIPEMD-160(data).
func Ripemd160(m *gas.Meter, data []byte) ([20]byte, error) {
	if err := m.ChargeHostRipemd160(len(data)); err != nil {
		return [20]byte{}, err
	}
	h := ripemd160.New()
	h.Write(data)
	var out [20]byte
	copy(out[:], h.Sum(nil))
	return out, nil
}

// Blake2b charges then computes BLAKE2b-256(data).
func Blake2b(m *gas.Meter, data []byte) ([32]byte, error) {
	if err := m.ChargeHostBlake2b(len(data)); err != nil {
		return [32]byte{}, err
	}
	return blake2b.Sum256(data), nil
}

// VerifyEd25519 charges then verifies an Ed25519 signature over msg.
func VerifyEd25519(m *gas.Meter, pubKey, msg, sig []byte) (bool, error) {
	if err := m.ChargeHostVerifyEd25519(len(msg)); err != nil {
		return false, err
	}
	if len(pubKey) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false, nil
	}
	return ed25519.Verify(pubKey, msg, sig), nil
}
