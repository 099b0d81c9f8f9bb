package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/parallelchain-io/pchain-runtime/core"
	"github.com/parallelchain-io/pchain-runtime/core/state"
	"github.com/parallelchain-io/pchain-runtime/core/vm"
	"github.com/parallelchain-io/pchain-runtime/params"
)

type memView struct{ m map[string][]byte }

func newMemView() *memView { return &memView{m: map[string][]byte{}} }

func (v *memView) Get(key []byte) ([]byte, bool) { b, ok := v.m[string(key)]; return b, ok }
func (v *memView) Contains(key []byte) bool      { _, ok := v.m[string(key)]; return ok }

func (v *memView) setBalance(addr core.Address, balance uint64) {
	v.m[string(core.AccountBalanceKey(addr))] = core.EncodeUint64(balance)
}

func (v *memView) setNonce(addr core.Address, nonce uint64) {
	v.m[string(core.AccountNonceKey(addr))] = core.EncodeUint64(nonce)
}

func (v *memView) setDeposit(operator, owner core.Address, d state.Deposit) {
	v.m[string(core.DepositKey(operator, owner))] = d.MarshalBinary()
}

func (v *memView) setValidatorSet(slot core.ValidatorSetSlot, vs *state.ValidatorSet) {
	v.m[string(core.ValidatorSetKey(slot))] = vs.MarshalBinary()
}

func (v *memView) setPool(p *state.Pool) {
	v.m[string(core.PoolKey(p.Operator))] = p.MarshalBinary()
}

func (v *memView) setPoolIndex(operators ...core.Address) {
	buf := make([]byte, 0, 4+32*len(operators))
	buf = append(buf, core.EncodeUint32(uint32(len(operators)))...)
	for _, op := range operators {
		buf = append(buf, op.Bytes()...)
	}
	v.m[string(core.PoolIndexKey())] = buf
}

func (v *memView) setEpoch(epoch uint64) {
	v.m[string(core.EpochKey())] = core.EncodeUint64(epoch)
}

type failingLoader struct{}

func (failingLoader) Load(contractBytes []byte, cbiVersion uint32) (vm.ExecutableModule, error) {
	return nil, errUnsupported
}
func (failingLoader) ImportsCompatible(cbiVersion uint32) bool { return false }

var errUnsupported = &unsupportedErr{}

type unsupportedErr struct{}

func (*unsupportedErr) Error() string { return "no contract loader wired in this test" }

func addr(b byte) core.Address {
	var a core.Address
	a[31] = b
	return a
}

func newDriver() *Driver { return NewDriver(failingLoader{}, nil) }

func TestRejectedNonce(t *testing.T) {
	signer := addr(1)
	ws := newMemView()
	ws.setNonce(signer, 5)
	ws.setBalance(signer, 1000)

	tx := core.Transaction{
		Signer: signer, Nonce: 4, GasLimit: 100000,
		Commands:  []core.Command{core.TransferCommand{Recipient: addr(2), Amount: 1}},
		SizeBytes: 64,
	}
	result := newDriver().Transition(ws, tx, core.BlockchainData{}, params.DefaultConfig(params.V5))
	require.Error(t, result.Err)
	var pcErr *core.PreChargeError
	require.ErrorAs(t, result.Err, &pcErr)
	require.Equal(t, core.InvalidNonce, pcErr.Reason)
	require.Nil(t, result.Receipt)
	require.Len(t, result.NewWriteSet, 0)
}

func TestSimpleTransfer(t *testing.T) {
	signer := addr(1)
	recipient := addr(2)
	proposer := addr(3)
	treasury := addr(4)

	ws := newMemView()
	ws.setNonce(signer, 0)
	ws.setBalance(signer, 1_000_000)

	tx := core.Transaction{
		Signer: signer, Nonce: 0, GasLimit: 200000,
		BaseFeePerGas: 1, PriorityFeePerGas: 1,
		Commands:  []core.Command{core.TransferCommand{Recipient: recipient, Amount: 100}},
		SizeBytes: 64,
	}
	bd := core.BlockchainData{Proposer: proposer, Treasury: treasury}
	result := newDriver().Transition(ws, tx, bd, params.DefaultConfig(params.V5))
	require.NoError(t, result.Err)
	require.NotNil(t, result.Receipt)
	require.Len(t, result.Receipt.CommandReceipts, 1)
	require.Equal(t, core.ExitSuccess, result.Receipt.CommandReceipts[0].ExitStatus)
	require.Equal(t, core.ExitSuccess, result.Receipt.ExitStatusOverall)

	gasUsed := result.Receipt.GasUsed
	require.Greater(t, gasUsed, uint64(0))
	require.LessOrEqual(t, gasUsed, tx.GasLimit)

	recipientBalance := core.DecodeUint64(result.NewWriteSet[string(core.AccountBalanceKey(recipient))].Value)
	require.Equal(t, uint64(100), recipientBalance)

	signerBalance := core.DecodeUint64(result.NewWriteSet[string(core.AccountBalanceKey(signer))].Value)
	require.Equal(t, 1_000_000-100-gasUsed*2, signerBalance)

	proposerBalance := core.DecodeUint64(result.NewWriteSet[string(core.AccountBalanceKey(proposer))].Value)
	require.Equal(t, gasUsed*tx.PriorityFeePerGas, proposerBalance)
}

// TestOutOfGasStopsSecondCommand sizes the gas limit so that the
// second of two identical Transfers fails its very first storage
// charge: the receipt's total gas is capped at gas_limit and the
// signer's refund is zero (spec §8 scenario 3).
func TestOutOfGasStopsSecondCommand(t *testing.T) {
	signer := addr(1)
	recipient := addr(2)

	ws := newMemView()
	ws.setNonce(signer, 0)
	ws.setBalance(signer, 1_000_000)

	cfg := params.DefaultConfig(params.V5)
	const txSize = 64
	inclusion := cfg.Variant.InclusionCost(cfg.Gas.BaseTxCost, cfg.Gas.PerCommandCost, cfg.Gas.PerByteCost, txSize, 2)

	keyCost := cfg.Gas.StorageKeyByteCost * 33
	valCost := cfg.Gas.StorageValueByteCost * 8
	getCost := keyCost + valCost
	getMissCost := keyCost
	setCost := keyCost + valCost + valCost + cfg.Gas.StorageWriteCost
	setNewCost := keyCost + valCost + cfg.Gas.StorageWriteCost

	firstTransferCost := (getCost + setCost) + (getMissCost + setNewCost)
	secondTransferFirstCharge := getCost

	gasLimit := inclusion + firstTransferCost + secondTransferFirstCharge - 1

	tx := core.Transaction{
		Signer: signer, Nonce: 0, GasLimit: gasLimit,
		BaseFeePerGas: 1, PriorityFeePerGas: 1,
		Commands: []core.Command{
			core.TransferCommand{Recipient: recipient, Amount: 1},
			core.TransferCommand{Recipient: recipient, Amount: 1},
		},
		SizeBytes: txSize,
	}
	result := newDriver().Transition(ws, tx, core.BlockchainData{}, cfg)
	require.NoError(t, result.Err)
	require.NotNil(t, result.Receipt)
	require.Equal(t, gasLimit, result.Receipt.GasUsed)
	require.Equal(t, core.ExitFailed, result.Receipt.ExitStatusOverall)

	// cmd2's SubBalance fails at its very first read, before mutating
	// anything, so only cmd1's transfer amount is ever debited.
	signerBalance := core.DecodeUint64(result.NewWriteSet[string(core.AccountBalanceKey(signer))].Value)
	require.Equal(t, 1_000_000-1-gasLimit*2, signerBalance)
}

// TestWithdrawClampedByLock reproduces spec §8 scenario 4.
func TestWithdrawClampedByLock(t *testing.T) {
	signer := addr(1) // the deposit owner
	operator := addr(9)

	ws := newMemView()
	ws.setNonce(signer, 0)
	ws.setBalance(signer, 100)
	ws.setDeposit(operator, signer, state.Deposit{Balance: 10})
	ws.setValidatorSet(core.SlotPrevValidatorSet, &state.ValidatorSet{
		Entries: []state.ValidatorSetEntry{{Operator: operator, Stakes: []core.Stake{{Owner: signer, Power: 7}}}},
	})
	ws.setValidatorSet(core.SlotCurrentValidatorSet, &state.ValidatorSet{
		Entries: []state.ValidatorSetEntry{{Operator: operator, Stakes: []core.Stake{{Owner: signer, Power: 8}}}},
	})

	tx := core.Transaction{
		Signer: signer, Nonce: 0, GasLimit: 1_000_000,
		Commands:  []core.Command{core.WithdrawDepositCommand{Operator: operator, Requested: 3}},
		SizeBytes: 64,
	}
	result := newDriver().Transition(ws, tx, core.BlockchainData{}, params.DefaultConfig(params.V5))
	require.NoError(t, result.Err)
	require.Equal(t, core.ExitSuccess, result.Receipt.CommandReceipts[0].ExitStatus)

	d, ok := state.UnmarshalDeposit(result.NewWriteSet[string(core.DepositKey(operator, signer))].Value)
	require.True(t, ok)
	require.Equal(t, uint64(8), d.Balance)

	ownerBalance := core.DecodeUint64(result.NewWriteSet[string(core.AccountBalanceKey(signer))].Value)
	require.Equal(t, uint64(102), ownerBalance)
}

// TestCreatePoolThenSetSameCommissionFails reproduces spec §8 scenario
// 5: the first command's pool creation persists even though the
// second command aborts.
func TestCreatePoolThenSetSameCommissionFails(t *testing.T) {
	operator := addr(5)
	ws := newMemView()
	ws.setNonce(operator, 0)
	ws.setBalance(operator, 0)

	tx := core.Transaction{
		Signer: operator, Nonce: 0, GasLimit: 1_000_000,
		Commands: []core.Command{
			core.CreatePoolCommand{CommissionRate: 10},
			core.SetPoolSettingsCommand{CommissionRate: 10},
		},
		SizeBytes: 64,
	}
	result := newDriver().Transition(ws, tx, core.BlockchainData{}, params.DefaultConfig(params.V5))
	require.NoError(t, result.Err)
	require.Equal(t, core.ExitFailed, result.Receipt.ExitStatusOverall)
	require.Equal(t, core.ExitSuccess, result.Receipt.CommandReceipts[0].ExitStatus)

	pool := state.UnmarshalPool(result.NewWriteSet[string(core.PoolKey(operator))].Value)
	require.NotNil(t, pool)
	require.Equal(t, uint8(10), pool.CommissionRate)
}

// TestNextEpochRotation reproduces spec §8 scenario 6.
func TestNextEpochRotation(t *testing.T) {
	proposer := addr(1)
	op1, op2 := addr(10), addr(11)
	ownerX, op9, ownerY := addr(20), addr(30), addr(31)

	ws := newMemView()
	ws.setNonce(proposer, 0)
	ws.setBalance(proposer, 0)
	ws.setEpoch(5)

	ws.setValidatorSet(core.SlotPrevValidatorSet, &state.ValidatorSet{})
	ws.setValidatorSet(core.SlotCurrentValidatorSet, &state.ValidatorSet{
		Entries: []state.ValidatorSetEntry{{Operator: op1, Stakes: []core.Stake{{Owner: ownerX, Power: 100}}}},
	})
	ws.setValidatorSet(core.SlotNextValidatorSet, &state.ValidatorSet{
		Entries: []state.ValidatorSetEntry{{Operator: op9, Stakes: []core.Stake{{Owner: ownerY, Power: 5}}}},
	})

	pool1 := state.NewPool(op1, 0)
	pool1.SetStakePower(ownerX, 50)
	pool2 := state.NewPool(op2, 0)
	pool2.SetStakePower(ownerX, 30)
	ws.setPool(pool1)
	ws.setPool(pool2)
	ws.setPoolIndex(op1, op2)

	tx := core.Transaction{
		Signer: proposer, Nonce: 0, GasLimit: 1_000_000,
		Commands:  []core.Command{core.NextEpochCommand{}},
		SizeBytes: 64,
	}
	result := newDriver().Transition(ws, tx, core.BlockchainData{Proposer: proposer}, params.DefaultConfig(params.V5))
	require.NoError(t, result.Err)
	require.Equal(t, uint64(0), result.Receipt.GasUsed)
	require.Equal(t, core.ExitSuccess, result.Receipt.ExitStatusOverall)

	prev := state.UnmarshalValidatorSet(result.NewWriteSet[string(core.ValidatorSetKey(core.SlotPrevValidatorSet))].Value)
	require.Len(t, prev.Entries, 1)
	require.Equal(t, op1, prev.Entries[0].Operator)

	current := state.UnmarshalValidatorSet(result.NewWriteSet[string(core.ValidatorSetKey(core.SlotCurrentValidatorSet))].Value)
	require.Len(t, current.Entries, 1)
	require.Equal(t, op9, current.Entries[0].Operator)

	next := state.UnmarshalValidatorSet(result.NewWriteSet[string(core.ValidatorSetKey(core.SlotNextValidatorSet))].Value)
	require.Len(t, next.Entries, 2)
	require.Equal(t, op1, next.Entries[0].Operator)
	require.Equal(t, op2, next.Entries[1].Operator)

	epoch := core.DecodeUint64(result.NewWriteSet[string(core.EpochKey())].Value)
	require.Equal(t, uint64(6), epoch)

	returnedNext := state.UnmarshalValidatorSet(result.Receipt.CommandReceipts[0].ReturnValue)
	require.Len(t, returnedNext.Entries, 2)
}
