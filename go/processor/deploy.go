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
	"bytes"
	"fmt"

	"github.com/hapticPaper/hardclaw/go/hclaw"
	"github.com/hapticPaper/hardclaw/go/state"
	"github.com/pkg/errors"
)

// ProcessTransaction applies a transaction of any kind. Execute transactions
// are resolved through the registry, Deploy transactions install and
// register a new contract, and Upgrade transactions are rejected.
// Upgrades of contracts that are not upgradeable report ErrNotUpgradeable.
func (p *Processor) ProcessTransaction(
	kind hclaw.TransactionKind,
	ledger hclaw.Ledger,
	store hclaw.Store,
) (hclaw.ExecutionResult, error) {
	result, _, err := p.process(kind, ledger, store)
	return result, err
}

func (p *Processor) process(
	kind hclaw.TransactionKind,
	ledger hclaw.Ledger,
	store hclaw.Store,
) (hclaw.ExecutionResult, hclaw.Contract, error) {
	switch kind := kind.(type) {
	case hclaw.Execute:
		if kind.Transaction == nil {
			return hclaw.ExecutionResult{}, nil, hclaw.InvalidTransaction("missing transaction")
		}
		contract, found := p.registry.Get(kind.Transaction.ContractId)
		if !found {
			return hclaw.ExecutionResult{}, nil, &hclaw.NotFoundError{Id: kind.Transaction.ContractId}
		}
		result, err := p.ExecuteTransaction(contract, kind.Transaction, ledger, store)
		return result, nil, err

	case hclaw.Deploy:
		return p.deploy(kind, ledger, store)

	case hclaw.Upgrade:
		contract, found := p.registry.Get(kind.ContractId)
		if !found {
			return hclaw.ExecutionResult{}, nil, &hclaw.NotFoundError{Id: kind.ContractId}
		}
		if !contract.IsUpgradeable() {
			return hclaw.ExecutionResult{}, nil, hclaw.ErrNotUpgradeable
		}
		// upgrades need to be gated by governance; until then they are refused
		return hclaw.ExecutionResult{}, nil, hclaw.ExecutionFailed("Upgrades not implemented yet")

	default:
		return hclaw.ExecutionResult{}, nil, hclaw.InvalidTransaction("unsupported transaction kind %T", kind)
	}
}

// deploy installs the contract of a Deploy transaction under the id derived
// from its code and deployer. A deploy signed by the deployer is validated
// like any other transaction and consumes a nonce. Its input must be the
// DeployPayloadHash of code and init data. A deploy without a
// transaction is a system deployment, e.g. as part of a genesis setup.
func (p *Processor) deploy(
	kind hclaw.Deploy,
	ledger hclaw.Ledger,
	store hclaw.Store,
) (hclaw.ExecutionResult, hclaw.Contract, error) {
	tx := kind.Transaction
	if tx != nil {
		if err := p.ValidateTransaction(tx, ledger); err != nil {
			return hclaw.ExecutionResult{}, nil, err
		}
		if tx.SenderAddress != kind.Deployer {
			return hclaw.ExecutionResult{}, nil, &hclaw.UnauthorizedError{
				Reason: fmt.Sprintf("%v can not deploy on behalf of %v", tx.SenderAddress, kind.Deployer),
			}
		}
		if payload := hclaw.DeployPayloadHash(kind.Code, kind.InitData); !bytes.Equal(tx.Input, payload[:]) {
			return hclaw.ExecutionResult{}, nil, hclaw.InvalidTransaction("deployment payload does not match signed digest")
		}
	}
	id := hclaw.DeployContractId(kind.Code, kind.Deployer)
	contract, result, err := p.install(id, kind.Code, kind.InitData, tx, ledger, store)
	if err != nil {
		return hclaw.ExecutionResult{}, nil, err
	}
	return result, contract, nil
}

// InstallSystemContract installs the contract described by the given
// payload under a fixed id, as done for system contracts at genesis.
func (p *Processor) InstallSystemContract(
	id hclaw.Id,
	code []byte,
	initData []byte,
	ledger hclaw.Ledger,
	store hclaw.Store,
) (hclaw.ExecutionResult, error) {
	_, result, err := p.install(id, code, initData, nil, ledger, store)
	return result, err
}

// install loads the given code, runs its deployment hook through a fresh
// accessor, records the code in a system cell and registers the contract.
// The registry is only updated once the accessor committed.
func (p *Processor) install(
	id hclaw.Id,
	code []byte,
	initData []byte,
	tx *hclaw.Transaction,
	ledger hclaw.Ledger,
	store hclaw.Store,
) (hclaw.Contract, hclaw.ExecutionResult, error) {
	if _, found := store.Get(hclaw.SystemAddress, hclaw.CodeKey(id)); found || p.registry.Contains(id) {
		return nil, hclaw.ExecutionResult{}, hclaw.ExecutionFailed("contract already deployed")
	}

	contract, err := p.loader.Load(id, code)
	if err != nil {
		return nil, hclaw.ExecutionResult{}, err
	}
	if contract.Id() != id {
		return nil, hclaw.ExecutionResult{}, hclaw.ExecutionFailed("loaded contract is bound to %v instead of %v", contract.Id(), id)
	}

	accessor := state.New(ledger, store)
	if tx != nil {
		accessor.IncrementNonce(tx.SenderAddress)
	}
	if err := onDeploy(contract, accessor, initData); err != nil {
		p.logger.Error("Contract deployment failed", "contract", id, "err", err)
		accessor.Rollback()
		return nil, hclaw.ExecutionResult{}, err
	}
	accessor.StorageWrite(hclaw.SystemAddress, hclaw.CodeKey(id), code)

	result := hclaw.ExecutionResult{
		NewStateRoot: accessor.ComputeStateRoot(),
		Events:       accessor.Events(),
		Output:       id[:],
	}
	accessor.Commit()
	p.registry.Register(contract)
	p.logger.Info("Deployed contract", "contract", id, "name", contract.Name(), "version", contract.Version())
	return contract, result, nil
}

// RestoreRegistry registers all contracts whose code is recorded in the
// given store. It reconstructs the registry of a node from persisted state.
func (p *Processor) RestoreRegistry(store hclaw.Store) error {
	var res error
	hclaw.ForEachDeployedCode(store, func(id hclaw.Id, code []byte) {
		contract, err := p.loader.Load(id, code)
		if err != nil {
			if res == nil {
				res = errors.Wrapf(err, "failed to load contract %v", id)
			}
			return
		}
		p.registry.Register(contract)
	})
	if res != nil {
		return res
	}
	p.logger.Debug("Restored contract registry", "contracts", p.registry.Len())
	return nil
}
