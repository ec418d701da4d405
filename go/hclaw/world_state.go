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

import (
	"bytes"
	"slices"

	"golang.org/x/exp/maps"
)

// Ledger is the account view of the chain state lent to the engine for the
// duration of one transaction or batch. Implementations need not be safe for
// concurrent use; the engine holds exclusive access while executing.
type Ledger interface {
	// GetAccount returns the account of the given address and whether it
	// exists in the ledger.
	GetAccount(Address) (Account, bool)
	SetAccount(Address, Account)
	DeleteAccount(Address)
	// ForEachAccount visits all accounts in an unspecified order.
	ForEachAccount(func(Address, Account))
	// Clone creates an independent deep copy of this ledger.
	Clone() Ledger
	// Restore replaces the content of this ledger by the content of the
	// given snapshot, as obtained by Clone.
	Restore(snapshot Ledger)
}

// Store is the key-value view of the chain state holding the storage cells
// of all contracts, scoped by contract address.
type Store interface {
	Get(contract Address, key []byte) ([]byte, bool)
	Set(contract Address, key []byte, value []byte)
	Delete(contract Address, key []byte)
	// ForEach visits all cells in an unspecified order.
	ForEach(func(contract Address, key []byte, value []byte))
	Clone() Store
	Restore(snapshot Store)
}

// StorageKey addresses a single storage cell.
type StorageKey struct {
	Contract Address
	Key      string
}

// MemoryLedger is a map based Ledger implementation.
type MemoryLedger struct {
	accounts map[Address]Account
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{accounts: map[Address]Account{}}
}

func (l *MemoryLedger) GetAccount(address Address) (Account, bool) {
	res, found := l.accounts[address]
	return res, found
}

func (l *MemoryLedger) SetAccount(address Address, account Account) {
	l.accounts[address] = account
}

func (l *MemoryLedger) DeleteAccount(address Address) {
	delete(l.accounts, address)
}

func (l *MemoryLedger) ForEachAccount(visit func(Address, Account)) {
	for address, account := range l.accounts {
		visit(address, account)
	}
}

// Len returns the number of accounts in the ledger.
func (l *MemoryLedger) Len() int {
	return len(l.accounts)
}

// Addresses returns all addresses of the ledger in ascending order.
func (l *MemoryLedger) Addresses() []Address {
	res := maps.Keys(l.accounts)
	slices.SortFunc(res, func(a, b Address) int { return bytes.Compare(a[:], b[:]) })
	return res
}

func (l *MemoryLedger) Clone() Ledger {
	return &MemoryLedger{accounts: maps.Clone(l.accounts)}
}

func (l *MemoryLedger) Restore(snapshot Ledger) {
	l.accounts = map[Address]Account{}
	snapshot.ForEachAccount(func(address Address, account Account) {
		l.accounts[address] = account
	})
}

// Equal reports whether both ledgers contain identical accounts.
func (l *MemoryLedger) Equal(other *MemoryLedger) bool {
	return maps.Equal(l.accounts, other.accounts)
}

// MemoryStore is a map based Store implementation. Values are copied on the
// way in and out, so callers may reuse their buffers.
type MemoryStore struct {
	cells map[StorageKey][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cells: map[StorageKey][]byte{}}
}

func (s *MemoryStore) Get(contract Address, key []byte) ([]byte, bool) {
	res, found := s.cells[StorageKey{contract, string(key)}]
	if !found {
		return nil, false
	}
	return bytes.Clone(res), true
}

func (s *MemoryStore) Set(contract Address, key []byte, value []byte) {
	if value == nil {
		value = []byte{}
	}
	s.cells[StorageKey{contract, string(key)}] = bytes.Clone(value)
}

func (s *MemoryStore) Delete(contract Address, key []byte) {
	delete(s.cells, StorageKey{contract, string(key)})
}

func (s *MemoryStore) ForEach(visit func(Address, []byte, []byte)) {
	for key, value := range s.cells {
		visit(key.Contract, []byte(key.Key), bytes.Clone(value))
	}
}

// Len returns the number of cells in the store.
func (s *MemoryStore) Len() int {
	return len(s.cells)
}

func (s *MemoryStore) Clone() Store {
	// values are never mutated in place, so sharing them is safe
	return &MemoryStore{cells: maps.Clone(s.cells)}
}

func (s *MemoryStore) Restore(snapshot Store) {
	s.cells = map[StorageKey][]byte{}
	snapshot.ForEach(func(contract Address, key []byte, value []byte) {
		s.cells[StorageKey{contract, string(key)}] = value
	})
}

// Equal reports whether both stores contain identical cells.
func (s *MemoryStore) Equal(other *MemoryStore) bool {
	return maps.EqualFunc(s.cells, other.cells, bytes.Equal)
}
