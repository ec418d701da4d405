// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package processor implements the transaction processor, the only path by
// which a transaction becomes a durable state change.
package processor

import (
	"github.com/ethereum/go-ethereum/log"
	"github.com/hapticPaper/hardclaw/go/hclaw"
	"github.com/hapticPaper/hardclaw/go/state"
)

// DefaultMaxGas is the default gas ceiling of a single transaction.
const DefaultMaxGas hclaw.Gas = 10_000_000

// Config summarizes the tunable parameters of a Processor.
type Config struct {
	// MaxGas is the highest gas limit a transaction may declare. If zero,
	// DefaultMaxGas is used.
	MaxGas hclaw.Gas
}

// Processor validates transactions, drives contract executions through a
// state.Accessor, and reconciles the reported results against independently
// computed state roots. A Processor executes one transaction or batch at a
// time and must not be used concurrently on the same ledger and store.
type Processor struct {
	maxGas   hclaw.Gas
	registry *hclaw.Registry
	loader   hclaw.Loader
	logger   log.Logger
}

// New creates a processor resolving Execute transactions through the given
// registry and loading deployed code with the given loader.
func New(config Config, registry *hclaw.Registry, loader hclaw.Loader) *Processor {
	maxGas := config.MaxGas
	if maxGas == 0 {
		maxGas = DefaultMaxGas
	}
	if registry == nil {
		registry = hclaw.NewRegistry()
	}
	if loader == nil {
		loader = hclaw.NewUniversalLoader(nil)
	}
	return &Processor{
		maxGas:   maxGas,
		registry: registry,
		loader:   loader,
		logger:   log.New("module", "processor"),
	}
}

func (p *Processor) Registry() *hclaw.Registry {
	return p.registry
}

func (p *Processor) MaxGas() hclaw.Gas {
	return p.maxGas
}

// ValidateTransaction checks the signature, the gas ceiling, the fee
// affordability and the nonce of the given transaction against the ledger.
// The ledger is not modified.
func (p *Processor) ValidateTransaction(tx *hclaw.Transaction, ledger hclaw.Ledger) error {
	if tx == nil {
		return hclaw.InvalidTransaction("missing transaction")
	}
	if err := tx.VerifySignature(); err != nil {
		return err
	}

	if tx.GasLimit > p.maxGas {
		return hclaw.InvalidTransaction("gas limit %d exceeds maximum %d", tx.GasLimit, p.maxGas)
	}

	sender, _ := ledger.GetAccount(tx.SenderAddress)
	maxFee, overflow := tx.MaxFee()
	if have := sender.Available(); overflow || have.Cmp(maxFee) < 0 {
		return &hclaw.InsufficientBalanceError{Need: maxFee, Have: have}
	}

	if want := sender.Nonce + 1; tx.Nonce != want {
		return hclaw.InvalidTransaction("nonce mismatch: expected %d, got %d", want, tx.Nonce)
	}
	return nil
}

// ExecuteTransaction validates tx and executes it on the given contract. On
// success all modifications of ledger and store are kept and the contract's
// result is returned. On any failure, including a state root reported by
// the contract that differs from the recomputed one, ledger and store are
// left unmodified and the error is returned.
func (p *Processor) ExecuteTransaction(
	contract hclaw.Contract,
	tx *hclaw.Transaction,
	ledger hclaw.Ledger,
	store hclaw.Store,
) (hclaw.ExecutionResult, error) {
	if err := p.ValidateTransaction(tx, ledger); err != nil {
		p.logger.Debug("Transaction rejected", "err", err)
		return hclaw.ExecutionResult{}, err
	}
	if hclaw.IsPaused(store, contract.Id()) {
		return hclaw.ExecutionResult{}, hclaw.ExecutionFailed("contract %v is paused", contract.Id())
	}

	accessor := state.New(ledger, store)
	accessor.IncrementNonce(tx.SenderAddress)

	p.logger.Debug("Executing contract transaction", "contract", contract.Id(), "tx", tx.Id)
	result, err := execute(contract, accessor, tx)
	if err != nil {
		p.logger.Error("Contract execution failed", "contract", contract.Id(), "tx", tx.Id, "err", err)
		accessor.Rollback()
		return hclaw.ExecutionResult{}, err
	}

	if result.GasUsed > tx.GasLimit {
		accessor.Rollback()
		return hclaw.ExecutionResult{}, hclaw.ExecutionFailed("out of gas: used %d, limit %d", result.GasUsed, tx.GasLimit)
	}

	if got := accessor.ComputeStateRoot(); got != result.NewStateRoot {
		p.logger.Error("State root mismatch", "contract", contract.Id(), "tx", tx.Id,
			"expected", result.NewStateRoot, "got", got)
		accessor.Rollback()
		return hclaw.ExecutionResult{}, &hclaw.StateRootMismatchError{
			Expected: result.NewStateRoot,
			Got:      got,
		}
	}

	accessor.Commit()
	p.logger.Info("Contract execution successful", "contract", contract.Id(), "tx", tx.Id,
		"gas", result.GasUsed, "events", len(result.Events))
	return result, nil
}

// VerifyExecution re-executes tx against disposable copies of the given
// ledger and store and reports whether the claimed result holds: the
// contract must accept it and the independently computed state root must
// equal the claimed root. The given ledger and store are never modified.
// Validation failures are returned as errors; a failing re-execution or any
// disagreement yields false.
func (p *Processor) VerifyExecution(
	contract hclaw.Contract,
	tx *hclaw.Transaction,
	claimed hclaw.ExecutionResult,
	ledger hclaw.Ledger,
	store hclaw.Store,
) (bool, error) {
	if err := p.ValidateTransaction(tx, ledger); err != nil {
		return false, err
	}

	ledgerCopy := ledger.Clone()
	storeCopy := store.Clone()
	if _, err := p.ExecuteTransaction(contract, tx, ledgerCopy, storeCopy); err != nil {
		p.logger.Debug("Verification failed: re-execution failed", "tx", tx.Id, "err", err)
		return false, nil
	}

	accessor := state.New(ledgerCopy, storeCopy)
	accepted, err := contract.Verify(accessor, tx, claimed)
	if err != nil {
		return false, err
	}
	if !accepted {
		p.logger.Debug("Verification failed: contract rejected result", "contract", contract.Id(), "tx", tx.Id)
		return false, nil
	}

	if got := accessor.ComputeStateRoot(); got != claimed.NewStateRoot {
		p.logger.Debug("Verification failed: state root mismatch", "tx", tx.Id,
			"expected", claimed.NewStateRoot, "got", got)
		return false, nil
	}
	return true, nil
}

// execute runs the contract, converting panics of the contract code into
// execution failures.
func execute(contract hclaw.Contract, accessor *state.Accessor, tx *hclaw.Transaction) (result hclaw.ExecutionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = hclaw.ExecutionFailed("contract panicked: %v", r)
		}
	}()
	return contract.Execute(accessor, tx)
}

func onDeploy(contract hclaw.Contract, accessor *state.Accessor, initData []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = hclaw.ExecutionFailed("contract panicked: %v", r)
		}
	}()
	return contract.OnDeploy(accessor, initData)
}
