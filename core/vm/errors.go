// Package vm is the Contract Runtime (CR): it resolves module bytes by
// contract address and CBI version, instantiates them behind a host
// import boundary bound to the current transaction's gas meter and
// ledger, runs the requested entry function under metering, and
// reports gas used, return value, logs and any contract-submitted
// deferred commands back to the calling executor (spec §4.5).
//
// The actual WASM compiler/engine is an external collaborator (spec
// §1 Out of scope); this package only defines the envelope and the
// ContractLoader seam an embedder plugs a real engine into.
package vm

import "github.com/pkg/errors"

// ContractError wraps any failure surfacing from module resolution,
// instantiation, ABI mismatch, or an in-contract trap. Every path
// through the Contract Runtime that can fail maps to exactly one of
// these, per spec §7: "Unknown/panicking contract behavior is mapped
// to ContractCallFailed (with cause)."
type ContractError struct {
	Op    string
	Cause error
}

func (e *ContractError) Error() string {
	return "contract " + e.Op + ": " + e.Cause.Error()
}

func (e *ContractError) Unwrap() error { return e.Cause }

func newContractError(op string, cause error) *ContractError {
	return &ContractError{Op: op, Cause: errors.WithStack(cause)}
}
