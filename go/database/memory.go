// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package database

import (
	"sync"

	"github.com/hapticPaper/hardclaw/go/hclaw"
)

// Memory is a Database keeping its snapshot in memory, for tests and dry runs.
type Memory struct {
	ledger *hclaw.MemoryLedger
	store  *hclaw.MemoryStore
	closed bool
	mutex  sync.Mutex
}

func NewMemory() *Memory {
	return &Memory{
		ledger: hclaw.NewMemoryLedger(),
		store:  hclaw.NewMemoryStore(),
	}
}

func (m *Memory) LoadLedger() (*hclaw.MemoryLedger, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	res := hclaw.NewMemoryLedger()
	res.Restore(m.ledger)
	return res, nil
}

func (m *Memory) LoadStore() (*hclaw.MemoryStore, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	res := hclaw.NewMemoryStore()
	res.Restore(m.store)
	return res, nil
}

func (m *Memory) Save(ledger hclaw.Ledger, store hclaw.Store) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.ledger = hclaw.NewMemoryLedger()
	ledger.ForEachAccount(m.ledger.SetAccount)
	m.store = hclaw.NewMemoryStore()
	store.ForEach(m.store.Set)
	return nil
}

func (m *Memory) Close() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.closed = true
	return nil
}
