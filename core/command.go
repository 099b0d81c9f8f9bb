package core

// CommandKind identifies the variant of a Command.
type CommandKind uint8

const (
	KindTransfer CommandKind = iota
	KindDeploy
	KindCall
	KindCreatePool
	KindSetPoolSettings
	KindDeletePool
	KindCreateDeposit
	KindSetDepositSettings
	KindTopUpDeposit
	KindWithdrawDeposit
	KindStakeDeposit
	KindUnstakeDeposit
	KindNextEpoch
)

func (k CommandKind) String() string {
	switch k {
	case KindTransfer:
		return "Transfer"
	case KindDeploy:
		return "Deploy"
	case KindCall:
		return "Call"
	case KindCreatePool:
		return "CreatePool"
	case KindSetPoolSettings:
		return "SetPoolSettings"
	case KindDeletePool:
		return "DeletePool"
	case KindCreateDeposit:
		return "CreateDeposit"
	case KindSetDepositSettings:
		return "SetDepositSettings"
	case KindTopUpDeposit:
		return "TopUpDeposit"
	case KindWithdrawDeposit:
		return "WithdrawDeposit"
	case KindStakeDeposit:
		return "StakeDeposit"
	case KindUnstakeDeposit:
		return "UnstakeDeposit"
	case KindNextEpoch:
		return "NextEpoch"
	default:
		return "Unknown"
	}
}

// Command is a single unit of state-mutation intent within a
// transaction. Each concrete type below implements it.
type Command interface {
	Kind() CommandKind
}

type TransferCommand struct {
	Recipient Address
	Amount    uint64
}

func (TransferCommand) Kind() CommandKind { return KindTransfer }

type DeployCommand struct {
	Contract   []byte
	CBIVersion uint32
	InitArgs   []byte
}

func (DeployCommand) Kind() CommandKind { return KindDeploy }

type CallCommand struct {
	Target Address
	Method string
	Args   []byte
	Amount uint64
}

func (CallCommand) Kind() CommandKind { return KindCall }

type CreatePoolCommand struct {
	CommissionRate uint8
}

func (CreatePoolCommand) Kind() CommandKind { return KindCreatePool }

type SetPoolSettingsCommand struct {
	CommissionRate uint8
}

func (SetPoolSettingsCommand) Kind() CommandKind { return KindSetPoolSettings }

type DeletePoolCommand struct{}

func (DeletePoolCommand) Kind() CommandKind { return KindDeletePool }

type CreateDepositCommand struct {
	Operator         Address
	Balance          uint64
	AutoStakeRewards bool
}

func (CreateDepositCommand) Kind() CommandKind { return KindCreateDeposit }

type SetDepositSettingsCommand struct {
	Operator         Address
	AutoStakeRewards bool
}

func (SetDepositSettingsCommand) Kind() CommandKind { return KindSetDepositSettings }

type TopUpDepositCommand struct {
	Operator Address
	Amount   uint64
}

func (TopUpDepositCommand) Kind() CommandKind { return KindTopUpDeposit }

type WithdrawDepositCommand struct {
	Operator  Address
	Requested uint64
}

func (WithdrawDepositCommand) Kind() CommandKind { return KindWithdrawDeposit }

type StakeDepositCommand struct {
	Operator  Address
	Requested uint64
}

func (StakeDepositCommand) Kind() CommandKind { return KindStakeDeposit }

type UnstakeDepositCommand struct {
	Operator  Address
	Requested uint64
}

func (UnstakeDepositCommand) Kind() CommandKind { return KindUnstakeDeposit }

// NextEpochCommand carries no fields: it is only ever valid as the sole
// command of its transaction (see IsValidCommandMix).
type NextEpochCommand struct{}

func (NextEpochCommand) Kind() CommandKind { return KindNextEpoch }

// Transaction is a signed sequence of commands executed atomically with
// respect to world state.
type Transaction struct {
	Signer           Address
	Nonce            uint64
	GasLimit         uint64
	BaseFeePerGas    uint64
	PriorityFeePerGas uint64
	Commands         []Command
	SizeBytes        uint64
}

// IsValidCommandMix enforces the §4.4 command-mix rule: either a single
// NextEpoch, or any non-empty mixture of non-NextEpoch commands.
func IsValidCommandMix(cmds []Command) bool {
	if len(cmds) == 0 {
		return false
	}
	if len(cmds) == 1 {
		if _, ok := cmds[0].(NextEpochCommand); ok {
			return true
		}
	}
	for _, c := range cmds {
		if _, ok := c.(NextEpochCommand); ok {
			return false
		}
	}
	return true
}
