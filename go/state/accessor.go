// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package state provides the Accessor, the single mediator of ledger and
// storage access during one execution attempt.
package state

import (
	"bytes"
	"encoding/binary"
	"slices"

	"github.com/hapticPaper/hardclaw/go/hclaw"
	"github.com/holiman/uint256"
)

// Accessor mediates all ledger and storage access of one execution attempt.
// Modifications are applied eagerly to the underlying views and recorded in
// a mutation log, so that they can be reverted by Rollback. Commit makes the
// modifications final by discarding the log.
//
// An Accessor holds exclusive access to its ledger and store for its whole
// lifetime and is not safe for concurrent use.
type Accessor struct {
	ledger    hclaw.Ledger
	store     hclaw.Store
	mutations []mutation
	events    []hclaw.Event
}

var _ hclaw.ContractState = (*Accessor)(nil)

// New creates an Accessor over the given ledger and store.
func New(ledger hclaw.Ledger, store hclaw.Store) *Accessor {
	return &Accessor{ledger: ledger, store: store}
}

// Account returns the full record of the given address. Unknown addresses
// yield a zero account.
func (a *Accessor) Account(address hclaw.Address) hclaw.Account {
	res, _ := a.ledger.GetAccount(address)
	return res
}

func (a *Accessor) Balance(address hclaw.Address) hclaw.Amount {
	return a.Account(address).Balance
}

func (a *Accessor) AvailableBalance(address hclaw.Address) hclaw.Amount {
	return a.Account(address).Available()
}

func (a *Accessor) Staked(address hclaw.Address) hclaw.Amount {
	return a.Account(address).Staked
}

func (a *Accessor) Nonce(address hclaw.Address) uint64 {
	return a.Account(address).Nonce
}

func (a *Accessor) TotalStaked() hclaw.Amount {
	total := new(uint256.Int)
	a.ledger.ForEachAccount(func(_ hclaw.Address, account hclaw.Account) {
		if _, overflow := total.AddOverflow(total, account.Staked.ToUint256()); overflow {
			total.SetAllOne()
		}
	})
	return hclaw.AmountFromUint256(total)
}

// Credit increases the balance of the given address, creating the account
// if needed. Credits never fail; a balance saturates at the maximum amount.
func (a *Accessor) Credit(address hclaw.Address, amount hclaw.Amount) {
	if amount.IsZero() {
		return
	}
	account, found := a.ledger.GetAccount(address)
	sum, overflow := account.Balance.Add(amount)
	if overflow {
		sum = hclaw.MaxAmount()
		amount, _ = sum.Sub(account.Balance)
	}
	account.Balance = sum
	a.ledger.SetAccount(address, account)
	a.mutations = append(a.mutations, creditMutation{
		address: address,
		amount:  amount,
		created: !found,
	})
}

// Debit decreases the balance of the given address. It fails with an
// *hclaw.InsufficientBalanceError without modifying any state if the
// available balance is smaller than the amount.
func (a *Accessor) Debit(address hclaw.Address, amount hclaw.Amount) error {
	if amount.IsZero() {
		return nil
	}
	account, _ := a.ledger.GetAccount(address)
	if have := account.Available(); have.Cmp(amount) < 0 {
		return &hclaw.InsufficientBalanceError{Need: amount, Have: have}
	}
	account.Balance, _ = account.Balance.Sub(amount)
	a.ledger.SetAccount(address, account)
	a.mutations = append(a.mutations, debitMutation{address: address, amount: amount})
	return nil
}

// Transfer moves the given amount between two accounts. If the debit of the
// source fails, the destination is never credited.
func (a *Accessor) Transfer(from, to hclaw.Address, amount hclaw.Amount) error {
	if err := a.Debit(from, amount); err != nil {
		return err
	}
	a.Credit(to, amount)
	return nil
}

// IncrementNonce consumes the next nonce of the given address.
func (a *Accessor) IncrementNonce(address hclaw.Address) {
	account, found := a.ledger.GetAccount(address)
	account.Nonce++
	a.ledger.SetAccount(address, account)
	a.mutations = append(a.mutations, nonceMutation{address: address, created: !found})
}

func (a *Accessor) StorageRead(contract hclaw.Address, key []byte) ([]byte, bool) {
	return a.store.Get(contract, key)
}

func (a *Accessor) StorageWrite(contract hclaw.Address, key []byte, value []byte) {
	old, existed := a.store.Get(contract, key)
	if value == nil {
		value = []byte{}
	}
	a.store.Set(contract, key, value)
	a.mutations = append(a.mutations, storageWriteMutation{
		contract: contract,
		key:      bytes.Clone(key),
		oldValue: old,
		existed:  existed,
		newValue: bytes.Clone(value),
	})
}

// StorageDelete removes a storage cell. Deleting an absent cell is a no-op
// and leaves no trace in the mutation log.
func (a *Accessor) StorageDelete(contract hclaw.Address, key []byte) {
	old, existed := a.store.Get(contract, key)
	if !existed {
		return
	}
	a.store.Delete(contract, key)
	a.mutations = append(a.mutations, storageWriteMutation{
		contract: contract,
		key:      bytes.Clone(key),
		oldValue: old,
		existed:  true,
	})
}

func (a *Accessor) EmitEvent(event hclaw.Event) {
	a.events = append(a.events, event)
}

// Events returns the events emitted since the accessor was created or last
// rolled back.
func (a *Accessor) Events() []hclaw.Event {
	return slices.Clone(a.events)
}

// MutationCount returns the number of revertible mutations.
func (a *Accessor) MutationCount() int {
	return len(a.mutations)
}

// Commit makes all recorded mutations permanent. The underlying views are
// not touched since mutations are applied eagerly.
func (a *Accessor) Commit() {
	a.mutations = a.mutations[:0]
}

// Rollback reverts all recorded mutations in reverse order and discards all
// emitted events. Afterwards the accessor is equivalent to a freshly created
// one over the original ledger and store.
func (a *Accessor) Rollback() {
	for i := len(a.mutations) - 1; i >= 0; i-- {
		a.mutations[i].revert(a)
	}
	a.mutations = a.mutations[:0]
	a.events = nil
}

// ComputeStateRoot computes the Merkle root over all accounts. Each account
// contributes the leaf Keccak(address ‖ balance ‖ nonce ‖ staked) with
// big-endian encoded numbers. Leaves are sorted before folding, so the root
// does not depend on the iteration order of the ledger. Storage cells are
// not part of the root.
func (a *Accessor) ComputeStateRoot() hclaw.Hash {
	return ComputeStateRoot(a.ledger)
}

// ComputeStateRoot computes the state root of the given ledger.
func ComputeStateRoot(ledger hclaw.Ledger) hclaw.Hash {
	leaves := []hclaw.Hash{}
	ledger.ForEachAccount(func(address hclaw.Address, account hclaw.Account) {
		leaves = append(leaves, accountLeaf(address, account))
	})
	slices.SortFunc(leaves, func(a, b hclaw.Hash) int {
		return bytes.Compare(a[:], b[:])
	})
	return hclaw.MerkleRoot(leaves)
}

func accountLeaf(address hclaw.Address, account hclaw.Account) hclaw.Hash {
	var nonce [8]byte
	binary.BigEndian.PutUint64(nonce[:], account.Nonce)
	return hclaw.HashData(address[:], account.Balance[:], nonce[:], account.Staked[:])
}
