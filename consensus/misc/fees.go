// Copyright 2021 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package misc holds the fee-settlement math applied at the end of a
// transition, the same role eip1559.go's base-fee and refund
// calculations played in the teacher: there the effective tip went to
// the coinbase and gasUsed*baseFee went to a burnt-contract address;
// here the equivalents are an explicit proposer credit and a
// protocol-fraction treasury credit, with the untaken remainder of the
// base-fee portion burned by simply never being credited anywhere.
package misc

import "github.com/holiman/uint256"

// Settlement is the Charge-phase outcome (spec §4.6 Charge): how much
// of the pre-paid gas budget goes back to the signer, to the block
// proposer, and to the treasury. GasUsed is inclusion gas plus every
// finalized command's gas, capped at the transaction's gas limit.
type Settlement struct {
	GasUsed        uint64
	SignerRefund   uint64
	ProposerCredit uint64
	TreasuryCredit uint64
}

// CalcSettlement computes the Charge-phase balances for one
// transaction. treasuryShareNum/Den express treasury_share as an
// integer fraction in [0,1] (Design Notes forbid floating point); the
// portion of gasUsed*baseFeePerGas that isn't treasury_share is
// burned — CalcSettlement simply never assigns it anywhere, the same
// way the teacher's burnt-contract credit consumed the whole base-fee
// amount rather than a residual.
func CalcSettlement(gasLimit, inclusionGas, commandGas, baseFeePerGas, priorityFeePerGas, treasuryShareNum, treasuryShareDen uint64) Settlement {
	gasUsed := inclusionGas + commandGas
	if gasUsed > gasLimit {
		gasUsed = gasLimit
	}

	refund := (gasLimit - gasUsed) * (baseFeePerGas + priorityFeePerGas)
	proposerCredit := gasUsed * priorityFeePerGas
	treasuryCredit := floorShare(gasUsed*baseFeePerGas, treasuryShareNum, treasuryShareDen)

	return Settlement{
		GasUsed:        gasUsed,
		SignerRefund:   refund,
		ProposerCredit: proposerCredit,
		TreasuryCredit: treasuryCredit,
	}
}

// floorShare computes floor(amount * num / den) via a 256-bit
// intermediate product so a large gasUsed*baseFeePerGas product never
// overflows uint64 math before the division narrows it back down.
func floorShare(amount, num, den uint64) uint64 {
	if den == 0 {
		return 0
	}
	product := new(uint256.Int).Mul(uint256.NewInt(amount), uint256.NewInt(num))
	quot := new(uint256.Int).Div(product, uint256.NewInt(den))
	if !quot.IsUint64() {
		return amount
	}
	return quot.Uint64()
}
