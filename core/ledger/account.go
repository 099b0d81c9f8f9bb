package ledger

import (
	"github.com/parallelchain-io/pchain-runtime/core"
	"github.com/parallelchain-io/pchain-runtime/core/gas"
)

// AccountStore is the typed, billable accessor over an account's
// separately-keyed fields (balance, nonce, contract code, CBI
// version, app-storage entries), per the key schema in spec §6.
type AccountStore struct {
	m *gas.Meter
}

func NewAccountStore(m *gas.Meter) *AccountStore {
	return &AccountStore{m: m}
}

func (a *AccountStore) GetBalance(addr core.Address) (uint64, error) {
	v, ok, err := a.m.WsGet(core.AccountBalanceKey(addr))
	if !ok {
		return 0, err
	}
	return core.DecodeUint64(v), err
}

func (a *AccountStore) SetBalance(addr core.Address, balance uint64) error {
	return a.m.WsSet(core.AccountBalanceKey(addr), core.EncodeUint64(balance))
}

// AddBalance performs a checked addition to addr's balance.
func (a *AccountStore) AddBalance(addr core.Address, delta uint64) error {
	if delta == 0 {
		_, _, err := a.m.WsGet(core.AccountBalanceKey(addr)) // still billable: touches the key
		return err
	}
	bal, err := a.GetBalance(addr)
	if err != nil {
		return err
	}
	sum, ok := checkedAdd(bal, delta)
	if !ok {
		return core.NewCommandError(core.InsufficientBalance, nil)
	}
	return a.SetBalance(addr, sum)
}

// SubBalance performs a checked subtraction from addr's balance,
// returning a CommandError(InsufficientBalance) if it would go
// negative.
func (a *AccountStore) SubBalance(addr core.Address, delta uint64) error {
	bal, err := a.GetBalance(addr)
	if err != nil {
		return err
	}
	diff, ok := checkedSub(bal, delta)
	if !ok {
		return core.NewCommandError(core.InsufficientBalance, nil)
	}
	return a.SetBalance(addr, diff)
}

func (a *AccountStore) GetNonce(addr core.Address) (uint64, error) {
	v, _, err := a.m.WsGet(core.AccountNonceKey(addr))
	return core.DecodeUint64(v), err
}

func (a *AccountStore) SetNonce(addr core.Address, nonce uint64) error {
	return a.m.WsSet(core.AccountNonceKey(addr), core.EncodeUint64(nonce))
}

func (a *AccountStore) IncrementNonce(addr core.Address) error {
	n, err := a.GetNonce(addr)
	if err != nil {
		return err
	}
	return a.SetNonce(addr, n+1)
}

func (a *AccountStore) HasContract(addr core.Address) (bool, error) {
	return a.m.WsContains(core.ContractCodeKey(addr))
}

func (a *AccountStore) GetContract(addr core.Address) ([]byte, error) {
	v, _, err := a.m.WsGet(core.ContractCodeKey(addr))
	return v, err
}

func (a *AccountStore) SetContract(addr core.Address, code []byte, cbiVersion uint32) error {
	if err := a.m.WsSet(core.ContractCodeKey(addr), code); err != nil {
		return err
	}
	return a.m.WsSet(core.CBIVersionKey(addr), core.EncodeUint32(cbiVersion))
}

func (a *AccountStore) GetCBIVersion(addr core.Address) (uint32, error) {
	v, _, err := a.m.WsGet(core.CBIVersionKey(addr))
	return core.DecodeUint32(v), err
}

func (a *AccountStore) GetAppData(addr core.Address, subKey []byte) ([]byte, error) {
	v, _, err := a.m.WsGet(core.AppDataKey(addr, subKey))
	return v, err
}

func (a *AccountStore) SetAppData(addr core.Address, subKey, value []byte) error {
	return a.m.WsSet(core.AppDataKey(addr, subKey), value)
}

func (a *AccountStore) DeleteAppData(addr core.Address, subKey []byte) error {
	return a.m.WsDelete(core.AppDataKey(addr, subKey))
}
