// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package database persists the chain state the engine operates on. State is
// loaded into memory before a batch is processed and saved after the batch
// committed; no database access happens while a state accessor is open.
package database

import (
	"github.com/hapticPaper/hardclaw/go/hclaw"
	"github.com/pkg/errors"
)

const (
	LevelDbBackend = "leveldb"
	MemoryBackend  = "memory"
)

// ErrClosed is returned by operations on a closed database.
const ErrClosed = hclaw.ConstError("database closed")

// Database is a persistent snapshot of the account ledger and the contract
// storage.
type Database interface {
	// LoadLedger reads all accounts into a fresh in-memory ledger.
	LoadLedger() (*hclaw.MemoryLedger, error)
	// LoadStore reads all storage cells into a fresh in-memory store.
	LoadStore() (*hclaw.MemoryStore, error)
	// Save replaces the persisted state by the given ledger and store.
	Save(ledger hclaw.Ledger, store hclaw.Store) error
	Close() error
}

// Open opens the database of the given backend. The path is ignored by the
// memory backend.
func Open(backend string, path string) (Database, error) {
	switch backend {
	case LevelDbBackend:
		return OpenLevelDb(path)
	case MemoryBackend:
		return NewMemory(), nil
	}
	return nil, errors.Errorf("unknown database backend %q", backend)
}
