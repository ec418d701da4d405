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

import "fmt"

// ConstError is an error type that can be used to define immutable
// error constants.
type ConstError string

func (e ConstError) Error() string {
	return string(e)
}

// ErrNotUpgradeable is returned when an upgrade targets a contract that
// does not support upgrades.
const ErrNotUpgradeable = ConstError("contract is not upgradeable")

// NotFoundError is returned if a transaction refers to an unknown contract.
type NotFoundError struct {
	Id Id
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("contract not found: %v", e.Id)
}

// InvalidTransactionError is returned for transactions that are rejected
// before any contract logic runs, e.g. due to a bad signature or nonce, or
// whose payload can not be decoded by the addressed contract.
type InvalidTransactionError struct {
	Reason string
}

func (e *InvalidTransactionError) Error() string {
	return "invalid transaction: " + e.Reason
}

// InvalidTransaction creates an InvalidTransactionError with a formatted reason.
func InvalidTransaction(format string, args ...any) error {
	return &InvalidTransactionError{Reason: fmt.Sprintf(format, args...)}
}

// ExecutionFailedError signals the violation of a contract-specific business
// rule. The reason is intended to be shown to the submitter.
type ExecutionFailedError struct {
	Reason string
}

func (e *ExecutionFailedError) Error() string {
	return "execution failed: " + e.Reason
}

// ExecutionFailed creates an ExecutionFailedError with a formatted reason.
func ExecutionFailed(format string, args ...any) error {
	return &ExecutionFailedError{Reason: fmt.Sprintf(format, args...)}
}

// InsufficientBalanceError is returned if an account can not cover a debit
// or the maximum fee of a transaction.
type InsufficientBalanceError struct {
	Need Amount
	Have Amount
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: need %v, have %v", e.Need, e.Have)
}

// StateRootMismatchError is the consensus-critical signal that a reported
// state root does not match the independently recomputed one. Expected is
// the root reported by the contract, Got the recomputed root.
type StateRootMismatchError struct {
	Expected Hash
	Got      Hash
}

func (e *StateRootMismatchError) Error() string {
	return fmt.Sprintf("state root mismatch: expected %v, got %v", e.Expected, e.Got)
}

// UnauthorizedError is returned if the sender of a transaction lacks the
// permission for the requested operation.
type UnauthorizedError struct {
	Reason string
}

func (e *UnauthorizedError) Error() string {
	return "unauthorized: " + e.Reason
}
