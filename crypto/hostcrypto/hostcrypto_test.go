package hostcrypto

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/parallelchain-io/pchain-runtime/core/gas"
	"github.com/parallelchain-io/pchain-runtime/core/state"
	"github.com/parallelchain-io/pchain-runtime/params"
)

type memView struct{}

func (memView) Get([]byte) ([]byte, bool) { return nil, false }
func (memView) Contains([]byte) bool      { return false }

func newMeter(limit uint64) *gas.Meter {
	rws := state.New(memView{})
	return gas.NewMeter(params.DefaultGasConfig(), params.V5, rws, limit)
}

func TestSha256Deterministic(t *testing.T) {
	m := newMeter(1_000_000)
	a, err := Sha256(m, []byte("hello"))
	require.NoError(t, err)
	b, err := Sha256(m, []byte("hello"))
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestKeccak256DiffersFromSha256(t *testing.T) {
	m := newMeter(1_000_000)
	k, err := Keccak256(m, []byte("hello"))
	require.NoError(t, err)
	s, err := Sha256(m, []byte("hello"))
	require.NoError(t, err)
	require.NotEqual(t, k, s)
}

func TestVerifyEd25519(t *testing.T) {
	m := newMeter(1_000_000)
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	msg := []byte("transfer 1")
	sig := ed25519.Sign(priv, msg)

	ok, err := VerifyEd25519(m, pub, msg, sig)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = VerifyEd25519(m, pub, []byte("tampered"), sig)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHostCryptoOutOfGas(t *testing.T) {
	m := newMeter(1)
	_, err := Sha256(m, make([]byte, 1000))
	require.Error(t, err)
}
