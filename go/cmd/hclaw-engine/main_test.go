// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hapticPaper/hardclaw/go/contracts/governance"
	"github.com/hapticPaper/hardclaw/go/contracts/transfer"
	"github.com/hapticPaper/hardclaw/go/database"
	"github.com/hapticPaper/hardclaw/go/hclaw"
	"github.com/hapticPaper/hardclaw/go/processor"
	"github.com/hapticPaper/hardclaw/go/state"
	"github.com/stretchr/testify/require"
)

type cliFixture struct {
	dir     string
	datadir string
	keys    *hclaw.Keypair
}

func newCliFixture(t *testing.T) *cliFixture {
	keys, err := hclaw.GenerateKeypair()
	require.NoError(t, err)
	dir := t.TempDir()
	return &cliFixture{dir: dir, datadir: filepath.Join(dir, "state"), keys: keys}
}

func (f *cliFixture) run(args ...string) error {
	return newApp().Run(append([]string{"hclaw-engine", "--datadir", f.datadir, "--verbosity", "error"}, args...))
}

func (f *cliFixture) writeJson(t *testing.T, name string, content any) string {
	data, err := json.Marshal(content)
	require.NoError(t, err)
	path := filepath.Join(f.dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func (f *cliFixture) load(t *testing.T) (*hclaw.MemoryLedger, *hclaw.MemoryStore) {
	db, err := database.OpenLevelDb(f.datadir)
	require.NoError(t, err)
	defer db.Close()
	ledger, err := db.LoadLedger()
	require.NoError(t, err)
	store, err := db.LoadStore()
	require.NoError(t, err)
	return ledger, store
}

func (f *cliFixture) transfer(t *testing.T, contract hclaw.Id, to hclaw.Address, amount hclaw.Amount, nonce uint64) BatchEntry {
	tx := hclaw.NewTransaction(contract, f.keys.PublicKey(), transfer.EncodeInput(to, amount), 1_000_000, hclaw.NewAmount(1), nonce, 1_700_000_000_000)
	require.NoError(t, tx.Sign(f.keys))
	return BatchEntry{Kind: kindExecute, Transaction: tx}
}

func (f *cliFixture) initialize(t *testing.T) hclaw.Id {
	genesis := f.writeJson(t, "genesis.json", Genesis{
		Accounts: []GenesisAccount{
			{Address: f.keys.Address(), Balance: hclaw.Tokens(100)},
		},
		Contracts: []GenesisContract{
			{Native: string(transfer.Marker())},
		},
	})
	require.NoError(t, f.run("init", genesis))
	return hclaw.DeployContractId(transfer.Marker(), hclaw.SystemAddress)
}

func TestCli_InitInstallsGenesisState(t *testing.T) {
	f := newCliFixture(t)
	id := f.initialize(t)

	ledger, store := f.load(t)
	account, found := ledger.GetAccount(f.keys.Address())
	require.True(t, found)
	require.Equal(t, hclaw.Tokens(100), account.Balance)

	p := processor.New(processor.Config{}, nil, nil)
	require.NoError(t, p.RestoreRegistry(store))
	require.True(t, p.Registry().Contains(governance.ContractId))
	require.True(t, p.Registry().Contains(id))

	require.Error(t, f.run("init", filepath.Join(f.dir, "genesis.json")), "initializing twice must fail")
}

func TestCli_VerifyAndApplyBatch(t *testing.T) {
	f := newCliFixture(t)
	id := f.initialize(t)
	recipient := hclaw.Address{0xEE}
	batch := f.writeJson(t, "batch.json", []BatchEntry{
		f.transfer(t, id, recipient, hclaw.Tokens(10), 1),
		f.transfer(t, id, recipient, hclaw.Tokens(5), 2),
	})

	// compute the expected root on a private copy
	ledger, store := f.load(t)
	p := processor.New(processor.Config{}, nil, nil)
	require.NoError(t, p.RestoreRegistry(store))
	kinds, err := readBatch(batch)
	require.NoError(t, err)
	_, err = p.ProcessBatch(kinds, ledger, store)
	require.NoError(t, err)
	expected := state.ComputeStateRoot(ledger)

	err = f.run("verify", "--root", hclaw.Hash{1}.String(), batch)
	var mismatch *hclaw.StateRootMismatchError
	require.True(t, errors.As(err, &mismatch), "unexpected error: %v", err)
	require.NoError(t, f.run("verify", "--root", expected.String(), batch))

	require.NoError(t, f.run("apply", batch))
	ledger, _ = f.load(t)
	require.Equal(t, expected, state.ComputeStateRoot(ledger))
	account, _ := ledger.GetAccount(recipient)
	require.Equal(t, hclaw.Tokens(15), account.Balance)

	// the batch was consumed, replaying it fails and changes nothing
	require.Error(t, f.run("apply", batch))
	ledger, _ = f.load(t)
	require.Equal(t, expected, state.ComputeStateRoot(ledger))
}

func TestCli_FailingBatchIsNotPersisted(t *testing.T) {
	f := newCliFixture(t)
	id := f.initialize(t)
	before, _ := f.load(t)

	batch := f.writeJson(t, "batch.json", []BatchEntry{
		f.transfer(t, id, hclaw.Address{0xEE}, hclaw.Tokens(10), 1),
		f.transfer(t, id, hclaw.Address{0xEE}, hclaw.Tokens(500), 2),
	})
	err := f.run("apply", batch)
	var batchErr *processor.BatchError
	require.True(t, errors.As(err, &batchErr), "unexpected error: %v", err)
	require.Equal(t, 1, batchErr.Index)

	after, _ := f.load(t)
	require.True(t, before.Equal(after))
}

func TestCli_DeployPersistsContract(t *testing.T) {
	f := newCliFixture(t)
	f.initialize(t)
	require.NoError(t, f.run("deploy", "--native", string(transfer.Marker()), "--key", f.keys.Hex(), "--nonce", "1"))

	_, store := f.load(t)
	p := processor.New(processor.Config{}, nil, nil)
	require.NoError(t, p.RestoreRegistry(store))
	require.True(t, p.Registry().Contains(hclaw.DeployContractId(transfer.Marker(), f.keys.Address())))
}

func TestCli_BatchEntryKinds(t *testing.T) {
	tx := &hclaw.Transaction{SenderAddress: hclaw.Address{1}}
	tests := map[string]struct {
		entry BatchEntry
		check func(hclaw.TransactionKind) bool
	}{
		"execute": {
			entry: BatchEntry{Kind: kindExecute, Transaction: tx},
			check: func(kind hclaw.TransactionKind) bool { _, ok := kind.(hclaw.Execute); return ok },
		},
		"default is execute": {
			entry: BatchEntry{Transaction: tx},
			check: func(kind hclaw.TransactionKind) bool { _, ok := kind.(hclaw.Execute); return ok },
		},
		"deploy": {
			entry: BatchEntry{Kind: kindDeploy, Transaction: tx, Code: []byte("code")},
			check: func(kind hclaw.TransactionKind) bool {
				deploy, ok := kind.(hclaw.Deploy)
				return ok && deploy.Deployer == tx.SenderAddress && string(deploy.Code) == "code"
			},
		},
		"upgrade": {
			entry: BatchEntry{Kind: kindUpgrade, Transaction: tx, ContractId: &hclaw.Id{2}},
			check: func(kind hclaw.TransactionKind) bool {
				upgrade, ok := kind.(hclaw.Upgrade)
				return ok && upgrade.ContractId == hclaw.Id{2}
			},
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			kind, err := test.entry.toKind()
			require.NoError(t, err)
			require.True(t, test.check(kind))
		})
	}

	_, err := BatchEntry{Kind: "mint", Transaction: tx}.toKind()
	require.Error(t, err)
	_, err = BatchEntry{Kind: kindExecute}.toKind()
	require.Error(t, err)
	_, err = BatchEntry{Kind: kindUpgrade, Transaction: tx}.toKind()
	require.Error(t, err)
}
