// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package state

import "github.com/hapticPaper/hardclaw/go/hclaw"

// mutation is a single entry of the mutation log. Reverting all entries in
// reverse order restores the state before the first entry was applied.
type mutation interface {
	revert(*Accessor)
}

// creditMutation records an increase of a balance. Created is set if the
// account did not exist before.
type creditMutation struct {
	address hclaw.Address
	amount  hclaw.Amount
	created bool
}

func (m creditMutation) revert(a *Accessor) {
	if m.created {
		a.ledger.DeleteAccount(m.address)
		return
	}
	account, _ := a.ledger.GetAccount(m.address)
	// credits never overflow since they are clamped when applied
	account.Balance, _ = account.Balance.Sub(m.amount)
	a.ledger.SetAccount(m.address, account)
}

type debitMutation struct {
	address hclaw.Address
	amount  hclaw.Amount
}

func (m debitMutation) revert(a *Accessor) {
	account, _ := a.ledger.GetAccount(m.address)
	account.Balance, _ = account.Balance.Add(m.amount)
	a.ledger.SetAccount(m.address, account)
}

// storageWriteMutation records a write or delete of a storage cell. A nil
// newValue marks a delete.
type storageWriteMutation struct {
	contract hclaw.Address
	key      []byte
	oldValue []byte
	existed  bool
	newValue []byte
}

func (m storageWriteMutation) revert(a *Accessor) {
	if m.existed {
		a.store.Set(m.contract, m.key, m.oldValue)
	} else {
		a.store.Delete(m.contract, m.key)
	}
}

type nonceMutation struct {
	address hclaw.Address
	created bool
}

func (m nonceMutation) revert(a *Accessor) {
	if m.created {
		a.ledger.DeleteAccount(m.address)
		return
	}
	account, _ := a.ledger.GetAccount(m.address)
	account.Nonce--
	a.ledger.SetAccount(m.address, account)
}
