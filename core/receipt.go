package core

// Log is a single event emitted by a command (typically a contract
// Call), matching the shape a deployed contract's host-import log
// function produces.
type Log struct {
	Topics [][]byte
	Data   []byte
}

// CommandReceipt records the outcome of one executed command.
type CommandReceipt struct {
	ExitStatus  ExitStatus
	GasUsed     uint64
	ReturnValue []byte
	Logs        []Log

	// InclusionGasShare is this command's share of the transaction's
	// fixed, pre-exec inclusion gas (spec §6 Versioning: "V5 includes
	// per-variant command receipts and transaction-inclusion gas").
	// V4 receipts never populate it, since V4's receipt shape has no
	// per-command inclusion breakdown.
	InclusionGasShare uint64
}

// Receipt is the per-transaction record of outcomes, gas, return
// values and logs. len(CommandReceipts) <= len(tx.Commands); entries
// are omitted after the first command failure.
type Receipt struct {
	ExitStatusOverall ExitStatus
	GasUsed           uint64
	CommandReceipts   []CommandReceipt
}

// ReceiptBuilder assembles per-command receipts into a transaction
// receipt, in command order. It owns no state beyond the slice being
// built and a failure flag, so it can be embedded directly in
// ExecutionState.
type ReceiptBuilder struct {
	commandReceipts []CommandReceipt
	overallFailed   bool
}

func NewReceiptBuilder() *ReceiptBuilder {
	return &ReceiptBuilder{}
}

// Append records one command's outcome. Once a failure has been
// recorded, callers must stop appending (the Work phase enforces
// this); Append does not itself refuse further entries.
func (rb *ReceiptBuilder) Append(r CommandReceipt) {
	rb.commandReceipts = append(rb.commandReceipts, r)
	if r.ExitStatus != ExitSuccess {
		rb.overallFailed = true
	}
}

func (rb *ReceiptBuilder) Len() int { return len(rb.commandReceipts) }

// Build finalizes the transaction receipt with the given total gas
// used (inclusion + all command gas, capped at gas_limit by the
// caller).
func (rb *ReceiptBuilder) Build(gasUsed uint64) Receipt {
	overall := ExitSuccess
	if rb.overallFailed {
		overall = ExitFailed
	}
	return Receipt{
		ExitStatusOverall: overall,
		GasUsed:           gasUsed,
		CommandReceipts:   rb.commandReceipts,
	}
}
