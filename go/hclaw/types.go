// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package hclaw

// Address represents the 160-bit (20 bytes) identifier of an account. For
// externally owned accounts it is derived from a public key, for contracts
// it is the leading 20 bytes of the contract Id.
type Address [20]byte

// Hash represents a 256-bit (32 bytes) digest, e.g. a transaction id or a
// state root.
type Hash [32]byte

// Id identifies transactions and deployed contracts. It is a content-derived
// digest and therefore shares the representation of a Hash.
type Id = Hash

// Amount represents an unsigned quantity of the chain's token in raw units,
// stored as a 256-bit big-endian integer. One whole token equals
// 10^TokenDecimals raw units.
type Amount [32]byte

// TokenDecimals is the number of decimal places of the fixed-point Amount.
const TokenDecimals = 18

// Gas represents an opaque execution cost. The engine does not meter
// instructions; gas values are declared ceilings and contract-reported usage.
type Gas uint64

// Data represents opaque byte sequences like transaction input or contract
// output. Its text form is a 0x-prefixed hex string.
type Data []byte

// PublicKey is the serialized public key of a transaction sender.
type PublicKey = Data

// Signature is the serialized signature of a transaction.
type Signature = Data

// Account summarizes the ledger record of a single address.
type Account struct {
	Balance Amount // total balance, including staked tokens
	Staked  Amount // portion of the balance that is locked in stake
	Nonce   uint64 // number of transactions executed on behalf of the address
}

// Available returns the part of the balance that is not staked.
func (a Account) Available() Amount {
	if a.Staked.Cmp(a.Balance) >= 0 {
		return Amount{}
	}
	res, _ := a.Balance.Sub(a.Staked)
	return res
}

// Event is an append-only record emitted by contracts for off-chain
// consumers. Events are never replayed into state.
type Event struct {
	ContractId Id
	Topic      string
	Data       Data
}

// ExecutionResult summarizes the effect of a contract execution.
type ExecutionResult struct {
	NewStateRoot Hash    // the state root after the execution
	GasUsed      Gas     // gas consumed as reported by the contract
	Events       []Event // events emitted during the execution
	Output       Data    // opaque contract output
}

// SystemAddress is the address under which chain-level storage cells like
// governance parameters, pause flags and deployed code are kept. It is also
// the treasury account.
var SystemAddress = Address{}

// ContractAddress returns the storage namespace and account address of the
// contract with the given id.
func ContractAddress(id Id) Address {
	var res Address
	copy(res[:], id[:len(res)])
	return res
}
