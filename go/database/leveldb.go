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
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/hapticPaper/hardclaw/go/hclaw"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Key layout:
//
//	'a' ‖ address                 -> RLP(account)
//	's' ‖ contract address ‖ key  -> value
const (
	accountPrefix = 'a'
	storagePrefix = 's'
)

// LevelDb is a Database backed by a LevelDB directory.
type LevelDb struct {
	db     *leveldb.DB
	logger log.Logger
}

// OpenLevelDb opens or creates the LevelDB database in the given directory.
func OpenLevelDb(path string) (*LevelDb, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open leveldb at %s", path)
	}
	return &LevelDb{db: db, logger: log.New("module", "database", "path", path)}, nil
}

func (d *LevelDb) LoadLedger() (*hclaw.MemoryLedger, error) {
	res := hclaw.NewMemoryLedger()
	iter := d.db.NewIterator(util.BytesPrefix([]byte{accountPrefix}), nil)
	defer iter.Release()
	for iter.Next() {
		key := iter.Key()
		if len(key) != 1+len(hclaw.Address{}) {
			return nil, errors.Errorf("invalid account key %x", key)
		}
		var account hclaw.Account
		if err := rlp.DecodeBytes(iter.Value(), &account); err != nil {
			return nil, errors.Wrapf(err, "failed to decode account %x", key[1:])
		}
		res.SetAccount(hclaw.Address(key[1:]), account)
	}
	if err := iter.Error(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate accounts")
	}
	return res, nil
}

func (d *LevelDb) LoadStore() (*hclaw.MemoryStore, error) {
	res := hclaw.NewMemoryStore()
	iter := d.db.NewIterator(util.BytesPrefix([]byte{storagePrefix}), nil)
	defer iter.Release()
	const addressLength = len(hclaw.Address{})
	for iter.Next() {
		key := iter.Key()
		if len(key) < 1+addressLength {
			return nil, errors.Errorf("invalid storage key %x", key)
		}
		res.Set(hclaw.Address(key[1:1+addressLength]), key[1+addressLength:], iter.Value())
	}
	if err := iter.Error(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate storage")
	}
	return res, nil
}

// Save atomically replaces the persisted state with the given state.
func (d *LevelDb) Save(ledger hclaw.Ledger, store hclaw.Store) error {
	batch := new(leveldb.Batch)

	// Deletes are applied before the puts of the same batch.
	for _, prefix := range []byte{accountPrefix, storagePrefix} {
		iter := d.db.NewIterator(util.BytesPrefix([]byte{prefix}), nil)
		for iter.Next() {
			batch.Delete(iter.Key())
		}
		iter.Release()
		if err := iter.Error(); err != nil {
			return errors.Wrap(err, "failed to iterate existing state")
		}
	}

	var encodeErr error
	accounts := 0
	ledger.ForEachAccount(func(address hclaw.Address, account hclaw.Account) {
		data, err := rlp.EncodeToBytes(account)
		if err != nil {
			encodeErr = err
			return
		}
		batch.Put(accountKey(address), data)
		accounts++
	})
	if encodeErr != nil {
		return errors.Wrap(encodeErr, "failed to encode account")
	}

	cells := 0
	store.ForEach(func(contract hclaw.Address, key []byte, value []byte) {
		batch.Put(storageKey(contract, key), value)
		cells++
	})

	if err := d.db.Write(batch, &opt.WriteOptions{Sync: true}); err != nil {
		return errors.Wrap(err, "failed to write state")
	}
	d.logger.Debug("Saved state", "accounts", accounts, "cells", cells)
	return nil
}

func (d *LevelDb) Close() error {
	return d.db.Close()
}

func accountKey(address hclaw.Address) []byte {
	return append([]byte{accountPrefix}, address[:]...)
}

func storageKey(contract hclaw.Address, key []byte) []byte {
	res := make([]byte, 0, 1+len(contract)+len(key))
	res = append(res, storagePrefix)
	res = append(res, contract[:]...)
	return append(res, key...)
}
