// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package processor

import (
	"fmt"

	"github.com/hapticPaper/hardclaw/go/hclaw"
)

// BatchEntry is a single step of a batch: a transaction and the contract
// it is executed on.
type BatchEntry struct {
	Contract    hclaw.Contract
	Transaction *hclaw.Transaction
}

// BatchError reports the failing step of a batch. The wrapped error is the
// unchanged error of that step.
type BatchError struct {
	Index int
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch step %d failed: %v", e.Index, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// ExecuteBatch executes the given entries in order. If any step fails, the
// ledger and store are restored to their exact state before the batch and
// the failure is returned; otherwise the results of all steps are returned.
func (p *Processor) ExecuteBatch(
	entries []BatchEntry,
	ledger hclaw.Ledger,
	store hclaw.Store,
) ([]hclaw.ExecutionResult, error) {
	ledgerSnapshot := ledger.Clone()
	storeSnapshot := store.Clone()

	results := make([]hclaw.ExecutionResult, 0, len(entries))
	for i, entry := range entries {
		result, err := p.ExecuteTransaction(entry.Contract, entry.Transaction, ledger, store)
		if err != nil {
			p.logger.Warn("Batch failed, restoring snapshot", "step", i, "steps", len(entries), "err", err)
			ledger.Restore(ledgerSnapshot)
			store.Restore(storeSnapshot)
			return nil, &BatchError{Index: i, Err: err}
		}
		results = append(results, result)
	}
	return results, nil
}

// ProcessBatch is the equivalent of ExecuteBatch for transaction kinds. The
// registry is only updated by deployments of a batch that succeeds as a
// whole.
func (p *Processor) ProcessBatch(
	kinds []hclaw.TransactionKind,
	ledger hclaw.Ledger,
	store hclaw.Store,
) ([]hclaw.ExecutionResult, error) {
	ledgerSnapshot := ledger.Clone()
	storeSnapshot := store.Clone()
	registered := map[hclaw.Id]bool{}

	results := make([]hclaw.ExecutionResult, 0, len(kinds))
	for i, kind := range kinds {
		result, deployed, err := p.process(kind, ledger, store)
		if err != nil {
			p.logger.Warn("Batch failed, restoring snapshot", "step", i, "steps", len(kinds), "err", err)
			ledger.Restore(ledgerSnapshot)
			store.Restore(storeSnapshot)
			for id := range registered {
				p.registry.Unregister(id)
			}
			return nil, &BatchError{Index: i, Err: err}
		}
		if deployed != nil {
			registered[deployed.Id()] = true
		}
		results = append(results, result)
	}
	return results, nil
}
