package core

import "github.com/pkg/errors"

// ExitStatus classifies the outcome of a single command.
type ExitStatus uint8

const (
	ExitSuccess ExitStatus = iota
	ExitFailed
)

// PreChargeReason enumerates the §7 PreChargeError taxonomy. A
// PreCharge failure discards the whole read-write set and produces no
// receipt.
type PreChargeReason string

const (
	InvalidNonce              PreChargeReason = "InvalidNonce"
	InsufficientBalanceForGas PreChargeReason = "InsufficientBalanceForGas"
	BaseCostTooHigh           PreChargeReason = "BaseCostTooHigh"
	DisallowedCommandMix      PreChargeReason = "DisallowedCommandMix"
	Malformed                 PreChargeReason = "Malformed"
)

// PreChargeError aborts the transition before any receipt is produced.
type PreChargeError struct {
	Reason PreChargeReason
	Cause  error
}

func (e *PreChargeError) Error() string {
	if e.Cause != nil {
		return string(e.Reason) + ": " + e.Cause.Error()
	}
	return string(e.Reason)
}

func (e *PreChargeError) Unwrap() error { return e.Cause }

func NewPreChargeError(reason PreChargeReason, cause error) *PreChargeError {
	return &PreChargeError{Reason: reason, Cause: cause}
}

// CommandReason enumerates the §7 CommandError taxonomy. A command
// error stops further commands but the transaction still produces a
// receipt and reaches Charge.
type CommandReason string

const (
	InsufficientBalance          CommandReason = "InsufficientBalance"
	PoolAlreadyExists            CommandReason = "PoolAlreadyExists"
	PoolNotFound                 CommandReason = "PoolNotFound"
	DepositAlreadyExists         CommandReason = "DepositAlreadyExists"
	DepositNotFound              CommandReason = "DepositNotFound"
	InvalidCommissionRate        CommandReason = "InvalidCommissionRate"
	NothingToWithdraw            CommandReason = "NothingToWithdraw"
	NothingToStake               CommandReason = "NothingToStake"
	NothingToUnstake             CommandReason = "NothingToUnstake"
	ContractInstantiationFailed  CommandReason = "ContractInstantiationFailed"
	ContractCallFailed           CommandReason = "ContractCallFailed"
	OutOfGas                     CommandReason = "OutOfGas"
	UnknownCommand               CommandReason = "UnknownCommand"
)

// CommandError is the command-scoped failure carried by a receipt.
type CommandError struct {
	Reason CommandReason
	Cause  error
}

func (e *CommandError) Error() string {
	if e.Cause != nil {
		return string(e.Reason) + ": " + e.Cause.Error()
	}
	return string(e.Reason)
}

func (e *CommandError) Unwrap() error { return e.Cause }

func NewCommandError(reason CommandReason, cause error) *CommandError {
	return &CommandError{Reason: reason, Cause: cause}
}

// NextEpochReason enumerates the §7 NextEpochError taxonomy.
type NextEpochReason string

const (
	Unauthorized        NextEpochReason = "Unauthorized"
	InvariantViolation  NextEpochReason = "InvariantViolation"
)

type NextEpochError struct {
	Reason NextEpochReason
	Cause  error
}

func (e *NextEpochError) Error() string {
	if e.Cause != nil {
		return string(e.Reason) + ": " + e.Cause.Error()
	}
	return string(e.Reason)
}

func (e *NextEpochError) Unwrap() error { return e.Cause }

func NewNextEpochError(reason NextEpochReason, cause error) *NextEpochError {
	return &NextEpochError{Reason: reason, Cause: cause}
}

// Wrap is a thin re-export of pkg/errors.Wrap so callers across the
// core don't need to import pkg/errors directly for the common case.
func Wrap(err error, msg string) error { return errors.Wrap(err, msg) }
