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

//go:generate mockgen -source contract.go -destination contract_mock.go -package hclaw

// Contract is the capability implemented by all contracts, native or
// sandboxed. Implementations must be safe for concurrent use and must not
// retain mutable state between calls. All durable facts of a contract are
// kept in storage cells reachable through the ContractState.
type Contract interface {
	Id() Id
	Name() string
	Version() uint32

	// Execute runs the contract logic for the given transaction. The
	// resulting state root reported in the result must match the root of
	// the state after the execution.
	Execute(state ContractState, tx *Transaction) (ExecutionResult, error)

	// Verify checks whether the contract accepts the given result of an
	// execution of tx over state.
	Verify(state ContractState, tx *Transaction, result ExecutionResult) (bool, error)

	// OnDeploy is called once when the contract gets deployed.
	OnDeploy(state ContractState, initData []byte) error

	IsUpgradeable() bool
}

// ContractState is the interface through which contracts access the chain
// state during an execution. All modifications are recorded and may be
// reverted by the engine.
type ContractState interface {
	Balance(Address) Amount
	// AvailableBalance returns the balance minus the staked amount.
	AvailableBalance(Address) Amount
	Staked(Address) Amount
	Nonce(Address) uint64
	// TotalStaked returns the sum of the stake of all accounts.
	TotalStaked() Amount

	Credit(Address, Amount)
	// Debit fails with an *InsufficientBalanceError if the available
	// balance does not cover the given amount.
	Debit(Address, Amount) error
	Transfer(from, to Address, amount Amount) error

	StorageRead(contract Address, key []byte) ([]byte, bool)
	StorageWrite(contract Address, key []byte, value []byte)
	StorageDelete(contract Address, key []byte)

	EmitEvent(Event)
	Events() []Event

	ComputeStateRoot() Hash
}

// BaseContract provides default implementations for the optional parts of
// the Contract interface. It is intended to be embedded.
type BaseContract struct{}

func (BaseContract) OnDeploy(ContractState, []byte) error {
	return nil
}

func (BaseContract) IsUpgradeable() bool {
	return false
}

// VerifyRoot is a common Verify policy accepting a result if its root
// matches the root of the given state.
func VerifyRoot(state ContractState, result ExecutionResult) bool {
	return state.ComputeStateRoot() == result.NewStateRoot
}
