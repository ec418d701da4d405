// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package transfer provides a native contract moving tokens from the sender
// of a transaction to a recipient.
package transfer

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/hapticPaper/hardclaw/go/hclaw"
)

const (
	Name    = "transfer"
	Version = 1

	// Gas is the fixed cost of a transfer.
	Gas hclaw.Gas = 21_000

	EventTopic = "Transfer"
)

func init() {
	hclaw.RegisterNativeContract(Name, Version, New)
}

// Marker returns the deployment payload of the transfer contract.
func Marker() []byte {
	return []byte(hclaw.NativeMarker(Name, Version))
}

// Input is the RLP encoded transaction input of the contract.
type Input struct {
	Recipient hclaw.Address
	Amount    hclaw.Amount
}

// EventData is the RLP encoded payload of Transfer events.
type EventData struct {
	From   hclaw.Address
	To     hclaw.Address
	Amount hclaw.Amount
}

// EncodeInput encodes a transfer of amount to the given recipient.
func EncodeInput(recipient hclaw.Address, amount hclaw.Amount) []byte {
	res, err := rlp.EncodeToBytes(Input{Recipient: recipient, Amount: amount})
	if err != nil {
		// encoding of fixed-size fields can not fail
		panic(err)
	}
	return res
}

type contract struct {
	hclaw.BaseContract
	id hclaw.Id
}

// New creates an instance of the transfer contract bound to the given id.
func New(id hclaw.Id) hclaw.Contract {
	return contract{id: id}
}

func (c contract) Id() hclaw.Id { return c.id }
func (contract) Name() string { return Name }
func (contract) Version() uint32 { return Version }

func (c contract) Execute(state hclaw.ContractState, tx *hclaw.Transaction) (hclaw.ExecutionResult, error) {
	var input Input
	if err := rlp.DecodeBytes(tx.Input, &input); err != nil {
		return hclaw.ExecutionResult{}, hclaw.InvalidTransaction("failed to parse transfer: %v", err)
	}
	if input.Amount.IsZero() {
		return hclaw.ExecutionResult{}, hclaw.ExecutionFailed("Transfer amount must be positive")
	}
	if err := state.Transfer(tx.SenderAddress, input.Recipient, input.Amount); err != nil {
		return hclaw.ExecutionResult{}, err
	}

	data, err := rlp.EncodeToBytes(EventData{From: tx.SenderAddress, To: input.Recipient, Amount: input.Amount})
	if err != nil {
		return hclaw.ExecutionResult{}, hclaw.ExecutionFailed("failed to encode event: %v", err)
	}
	state.EmitEvent(hclaw.Event{ContractId: c.id, Topic: EventTopic, Data: data})

	return hclaw.ExecutionResult{
		NewStateRoot: state.ComputeStateRoot(),
		GasUsed:      Gas,
		Events:       state.Events(),
	}, nil
}

func (contract) Verify(state hclaw.ContractState, _ *hclaw.Transaction, result hclaw.ExecutionResult) (bool, error) {
	return hclaw.VerifyRoot(state, result), nil
}
