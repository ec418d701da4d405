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
	"path/filepath"
	"testing"

	"github.com/hapticPaper/hardclaw/go/hclaw"
	"github.com/hapticPaper/hardclaw/go/state"
	"github.com/stretchr/testify/require"
)

func openDatabases(t *testing.T) map[string]Database {
	t.Helper()
	levelDb, err := OpenLevelDb(filepath.Join(t.TempDir(), "state"))
	require.NoError(t, err)
	return map[string]Database{
		LevelDbBackend: levelDb,
		MemoryBackend:  NewMemory(),
	}
}

func exampleState() (*hclaw.MemoryLedger, *hclaw.MemoryStore) {
	ledger := hclaw.NewMemoryLedger()
	ledger.SetAccount(hclaw.Address{1}, hclaw.Account{Balance: hclaw.Tokens(100), Staked: hclaw.Tokens(10), Nonce: 3})
	ledger.SetAccount(hclaw.Address{2}, hclaw.Account{Balance: hclaw.NewAmount(7)})
	store := hclaw.NewMemoryStore()
	store.Set(hclaw.Address{1}, []byte("key"), []byte("value"))
	store.Set(hclaw.Address{1}, []byte{}, []byte("empty key"))
	store.Set(hclaw.SystemAddress, hclaw.CodeKey(hclaw.Id{9}), []byte("native:transfer_v1"))
	store.Set(hclaw.Address{3}, []byte("empty"), nil)
	return ledger, store
}

func TestDatabase_EmptyDatabaseLoadsEmptyState(t *testing.T) {
	for name, db := range openDatabases(t) {
		t.Run(name, func(t *testing.T) {
			defer db.Close()
			ledger, err := db.LoadLedger()
			require.NoError(t, err)
			require.Equal(t, 0, ledger.Len())
			store, err := db.LoadStore()
			require.NoError(t, err)
			require.Equal(t, 0, store.Len())
		})
	}
}

func TestDatabase_SavedStateIsLoadedIdentically(t *testing.T) {
	for name, db := range openDatabases(t) {
		t.Run(name, func(t *testing.T) {
			defer db.Close()
			ledger, store := exampleState()
			require.NoError(t, db.Save(ledger, store))

			loadedLedger, err := db.LoadLedger()
			require.NoError(t, err)
			require.True(t, ledger.Equal(loadedLedger))
			require.Equal(t, state.ComputeStateRoot(ledger), state.ComputeStateRoot(loadedLedger))

			loadedStore, err := db.LoadStore()
			require.NoError(t, err)
			require.True(t, store.Equal(loadedStore))
		})
	}
}

func TestDatabase_SaveReplacesPreviousState(t *testing.T) {
	for name, db := range openDatabases(t) {
		t.Run(name, func(t *testing.T) {
			defer db.Close()
			ledger, store := exampleState()
			require.NoError(t, db.Save(ledger, store))

			ledger.DeleteAccount(hclaw.Address{2})
			ledger.SetAccount(hclaw.Address{4}, hclaw.Account{Nonce: 1})
			store.Delete(hclaw.Address{1}, []byte("key"))
			require.NoError(t, db.Save(ledger, store))

			loadedLedger, err := db.LoadLedger()
			require.NoError(t, err)
			require.True(t, ledger.Equal(loadedLedger))
			_, found := loadedLedger.GetAccount(hclaw.Address{2})
			require.False(t, found)

			loadedStore, err := db.LoadStore()
			require.NoError(t, err)
			require.True(t, store.Equal(loadedStore))
			_, found = loadedStore.Get(hclaw.Address{1}, []byte("key"))
			require.False(t, found)
		})
	}
}

func TestDatabase_LoadedStateIsIndependentOfDatabase(t *testing.T) {
	for name, db := range openDatabases(t) {
		t.Run(name, func(t *testing.T) {
			defer db.Close()
			ledger, store := exampleState()
			require.NoError(t, db.Save(ledger, store))

			loaded, err := db.LoadLedger()
			require.NoError(t, err)
			loaded.SetAccount(hclaw.Address{1}, hclaw.Account{})

			again, err := db.LoadLedger()
			require.NoError(t, err)
			require.True(t, ledger.Equal(again))
		})
	}
}

func TestLevelDb_StateSurvivesReopening(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state")
	db, err := OpenLevelDb(path)
	require.NoError(t, err)
	ledger, store := exampleState()
	require.NoError(t, db.Save(ledger, store))
	require.NoError(t, db.Close())

	db, err = OpenLevelDb(path)
	require.NoError(t, err)
	defer db.Close()
	loaded, err := db.LoadLedger()
	require.NoError(t, err)
	require.True(t, ledger.Equal(loaded))
}

func TestMemory_ClosedDatabaseFails(t *testing.T) {
	db := NewMemory()
	require.NoError(t, db.Close())
	_, err := db.LoadLedger()
	require.ErrorIs(t, err, ErrClosed)
	_, err = db.LoadStore()
	require.ErrorIs(t, err, ErrClosed)
	require.ErrorIs(t, db.Save(hclaw.NewMemoryLedger(), hclaw.NewMemoryStore()), ErrClosed)
}

func TestOpen_SelectsBackend(t *testing.T) {
	db, err := Open(MemoryBackend, "")
	require.NoError(t, err)
	require.IsType(t, &Memory{}, db)

	db, err = Open(LevelDbBackend, filepath.Join(t.TempDir(), "db"))
	require.NoError(t, err)
	require.IsType(t, &LevelDb{}, db)
	require.NoError(t, db.Close())

	_, err = Open("badger", "")
	require.ErrorContains(t, err, "unknown database backend")
}
