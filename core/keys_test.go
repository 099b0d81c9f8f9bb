package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeysAreDomainTaggedAndFixedWidth(t *testing.T) {
	var a, b Address
	a[0] = 0x11
	b[0] = 0x22

	require.Equal(t, 1+32, len(AccountBalanceKey(a)))
	require.Equal(t, 1+32, len(AccountNonceKey(a)))
	require.Equal(t, 1+32, len(ContractCodeKey(a)))
	require.Equal(t, 1+32, len(CBIVersionKey(a)))
	require.Equal(t, 1+64, len(DepositKey(a, b)))
	require.Equal(t, 1+32, len(PoolKey(a)))
	require.Equal(t, 2, len(ValidatorSetKey(SlotCurrentValidatorSet)))
	require.Equal(t, 1, len(EpochKey()))

	// distinct tags never collide even with identical address bytes
	require.NotEqual(t, AccountBalanceKey(a)[0], AccountNonceKey(a)[0])
	require.NotEqual(t, AccountNonceKey(a)[0], tagContractCode)
}

func TestAppDataKeyIncludesSubKey(t *testing.T) {
	var addr Address
	addr[0] = 0x01
	k1 := AppDataKey(addr, []byte("foo"))
	k2 := AppDataKey(addr, []byte("bar"))
	require.NotEqual(t, k1, k2)
	require.Equal(t, 1+32+3, len(k1))
}

func TestUint64RoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 42, 1 << 40, ^uint64(0)} {
		require.Equal(t, v, DecodeUint64(EncodeUint64(v)))
	}
}
