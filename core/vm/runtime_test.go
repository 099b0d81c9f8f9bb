package vm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/parallelchain-io/pchain-runtime/core"
	"github.com/parallelchain-io/pchain-runtime/core/gas"
	"github.com/parallelchain-io/pchain-runtime/core/ledger"
	"github.com/parallelchain-io/pchain-runtime/core/state"
	"github.com/parallelchain-io/pchain-runtime/params"
)

type fakeModule struct {
	invoke func(host *HostAPI, method string, args []byte) (ExecutionOutcome, error)
}

func (f fakeModule) Invoke(host *HostAPI, method string, args []byte) (ExecutionOutcome, error) {
	return f.invoke(host, method, args)
}

type fakeLoader struct {
	compatible map[uint32]bool
	module     ExecutableModule
	loadErr    error
}

func (l fakeLoader) Load(contractBytes []byte, cbiVersion uint32) (ExecutableModule, error) {
	if l.loadErr != nil {
		return nil, l.loadErr
	}
	return l.module, nil
}

func (l fakeLoader) ImportsCompatible(cbiVersion uint32) bool {
	return l.compatible[cbiVersion]
}

type memView struct{ m map[string][]byte }

func (v memView) Get(key []byte) ([]byte, bool) { b, ok := v.m[string(key)]; return b, ok }
func (v memView) Contains(key []byte) bool      { _, ok := v.m[string(key)]; return ok }

func newHost(t *testing.T, self core.Address) *HostAPI {
	t.Helper()
	rws := state.New(memView{m: map[string][]byte{}})
	m := gas.NewMeter(params.DefaultGasConfig(), params.V5, rws, 10_000_000)
	accounts := ledger.NewAccountStore(m)
	return NewHostAPI(m, accounts, state.NewDeferredQueue(), self)
}

func TestValidateForDeployRejectsUnsupportedCBI(t *testing.T) {
	rt := NewRuntime(fakeLoader{compatible: map[uint32]bool{1: true}}, params.DefaultCBIConfig(), nil)
	var addr core.Address
	err := rt.ValidateForDeploy(addr, []byte("code"), 99)
	require.Error(t, err)
	var cerr *ContractError
	require.ErrorAs(t, err, &cerr)
}

func TestValidateForDeployRejectsIncompatibleImports(t *testing.T) {
	rt := NewRuntime(fakeLoader{compatible: map[uint32]bool{1: false}}, params.DefaultCBIConfig(), nil)
	var addr core.Address
	err := rt.ValidateForDeploy(addr, []byte("code"), 1)
	require.Error(t, err)
}

func TestValidateForDeployAccepts(t *testing.T) {
	mod := fakeModule{invoke: func(h *HostAPI, m string, a []byte) (ExecutionOutcome, error) { return ExecutionOutcome{}, nil }}
	rt := NewRuntime(fakeLoader{compatible: map[uint32]bool{1: true}, module: mod}, params.DefaultCBIConfig(), nil)
	var addr core.Address
	require.NoError(t, rt.ValidateForDeploy(addr, []byte("code"), 1))
}

func TestCallReturnsValueAndQueuesDeferred(t *testing.T) {
	var self core.Address
	self[0] = 7
	var target core.Address
	target[0] = 8

	mod := fakeModule{invoke: func(h *HostAPI, method string, args []byte) (ExecutionOutcome, error) {
		h.DeferCommand(core.TransferCommand{Recipient: target, Amount: 1})
		require.NoError(t, h.EmitLog(core.Log{Data: []byte("hi")}))
		return ExecutionOutcome{ReturnValue: []byte("ok"), GasUsedInWasm: 10}, nil
	}}
	rt := NewRuntime(fakeLoader{compatible: map[uint32]bool{1: true}, module: mod}, params.DefaultCBIConfig(), nil)
	host := newHost(t, self)

	outcome, err := rt.Call(self, []byte("code"), 1, "run", nil, host)
	require.NoError(t, err)
	require.Equal(t, []byte("ok"), outcome.ReturnValue)
	require.Equal(t, uint64(10), outcome.GasUsedInWasm)
	require.Len(t, host.Logs(), 1)
	// Call leaves the deferred command queued for the Call executor to drain.
	require.Equal(t, 1, host.deferred.Len())
}

func TestCallTrapBecomesContractError(t *testing.T) {
	mod := fakeModule{invoke: func(h *HostAPI, m string, a []byte) (ExecutionOutcome, error) {
		panic("out of bounds memory access")
	}}
	rt := NewRuntime(fakeLoader{compatible: map[uint32]bool{1: true}, module: mod}, params.DefaultCBIConfig(), nil)
	var self core.Address
	host := newHost(t, self)

	_, err := rt.Call(self, []byte("code"), 1, "run", nil, host)
	require.Error(t, err)
	var cerr *ContractError
	require.ErrorAs(t, err, &cerr)
}

func TestCallLoadErrorWrapped(t *testing.T) {
	rt := NewRuntime(fakeLoader{loadErr: errors.New("bad module")}, params.DefaultCBIConfig(), nil)
	var self core.Address
	host := newHost(t, self)
	_, err := rt.Call(self, []byte("code"), 1, "run", nil, host)
	require.Error(t, err)
}
