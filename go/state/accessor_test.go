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

import (
	"errors"
	"testing"

	"github.com/hapticPaper/hardclaw/go/hclaw"
	"pgregory.net/rand"
)

func newAccessor() (*Accessor, *hclaw.MemoryLedger, *hclaw.MemoryStore) {
	ledger := hclaw.NewMemoryLedger()
	store := hclaw.NewMemoryStore()
	return New(ledger, store), ledger, store
}

func TestAccessor_CreditAndDebit(t *testing.T) {
	state, _, _ := newAccessor()
	address := hclaw.Address{1}

	state.Credit(address, hclaw.NewAmount(100))
	if err := state.Debit(address, hclaw.NewAmount(30)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := hclaw.NewAmount(70), state.Balance(address); want != got {
		t.Errorf("unexpected balance, wanted %v, got %v", want, got)
	}
	if want, got := 2, state.MutationCount(); want != got {
		t.Errorf("unexpected mutation count, wanted %d, got %d", want, got)
	}
}

func TestAccessor_DebitChecksAvailableBalanceBeforeMutating(t *testing.T) {
	state, ledger, _ := newAccessor()
	address := hclaw.Address{1}
	ledger.SetAccount(address, hclaw.Account{Balance: hclaw.NewAmount(100), Staked: hclaw.NewAmount(60)})

	err := state.Debit(address, hclaw.NewAmount(50))
	var target *hclaw.InsufficientBalanceError
	if !errors.As(err, &target) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}
	if target.Need != hclaw.NewAmount(50) || target.Have != hclaw.NewAmount(40) {
		t.Errorf("unexpected error details: %v", target)
	}
	if want, got := hclaw.NewAmount(100), state.Balance(address); want != got {
		t.Errorf("balance modified by failed debit, wanted %v, got %v", want, got)
	}
	if state.MutationCount() != 0 {
		t.Errorf("failed debit must not be logged")
	}
}

func TestAccessor_FailedTransferDoesNotCredit(t *testing.T) {
	state, ledger, _ := newAccessor()
	from, to := hclaw.Address{1}, hclaw.Address{2}
	ledger.SetAccount(from, hclaw.Account{Balance: hclaw.NewAmount(5)})

	if err := state.Transfer(from, to, hclaw.NewAmount(10)); err == nil {
		t.Fatalf("transfer exceeding the balance must fail")
	}
	if _, found := ledger.GetAccount(to); found {
		t.Errorf("destination must not be created")
	}
}

func TestAccessor_AtomicityOfFailedContractLogic(t *testing.T) {
	state, ledger, _ := newAccessor()
	a, b := hclaw.Address{1}, hclaw.Address{2}
	ledger.SetAccount(a, hclaw.Account{Balance: hclaw.NewAmount(100)})
	ledger.SetAccount(b, hclaw.Account{Balance: hclaw.NewAmount(5)})
	before := ledger.Clone().(*hclaw.MemoryLedger)

	// debit A, then fail before crediting B
	if err := state.Debit(a, hclaw.NewAmount(10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	state.Rollback()

	if !ledger.Equal(before) {
		t.Errorf("ledger not restored after rollback")
	}
}

func TestAccessor_RollbackRemovesCreatedAccounts(t *testing.T) {
	state, ledger, _ := newAccessor()
	before := state.ComputeStateRoot()

	state.Credit(hclaw.Address{1}, hclaw.NewAmount(1))
	state.IncrementNonce(hclaw.Address{2})
	if ledger.Len() != 2 {
		t.Fatalf("expected accounts to be created")
	}
	state.Rollback()

	if ledger.Len() != 0 {
		t.Errorf("created accounts survived rollback")
	}
	if got := state.ComputeStateRoot(); got != before {
		t.Errorf("state root not restored, wanted %v, got %v", before, got)
	}
}

func TestAccessor_CreditSaturates(t *testing.T) {
	state, ledger, _ := newAccessor()
	address := hclaw.Address{1}
	large := hclaw.Tokens(1)
	large[0] = 0xFF
	ledger.SetAccount(address, hclaw.Account{Balance: large})

	state.Credit(address, large)
	full := state.Balance(address)
	if _, overflow := full.Add(hclaw.NewAmount(1)); !overflow {
		t.Errorf("expected balance to saturate, got %v", full)
	}
	state.Rollback()
	if got := state.Balance(address); got != large {
		t.Errorf("unexpected balance after rollback, wanted %v, got %v", large, got)
	}
}

func TestAccessor_StorageWriteAndDelete(t *testing.T) {
	state, store, contract := storageFixture()

	state.StorageWrite(contract, []byte("a"), []byte("new"))
	state.StorageWrite(contract, []byte("b"), []byte("value"))
	state.StorageDelete(contract, []byte("existing"))
	state.StorageDelete(contract, []byte("absent"))

	if got, _ := state.StorageRead(contract, []byte("a")); string(got) != "new" {
		t.Errorf("unexpected value: %s", got)
	}
	if _, found := state.StorageRead(contract, []byte("existing")); found {
		t.Errorf("deleted cell still present")
	}
	if want, got := 3, state.MutationCount(); want != got {
		t.Errorf("unexpected mutation count, wanted %d, got %d", want, got)
	}

	state.Rollback()
	if got, _ := store.Get(contract, []byte("existing")); string(got) != "old" {
		t.Errorf("deleted cell not restored, got %s", got)
	}
	if _, found := store.Get(contract, []byte("a")); found {
		t.Errorf("new cell survived rollback")
	}
	if store.Len() != 1 {
		t.Errorf("unexpected number of cells: %d", store.Len())
	}
}

func storageFixture() (*Accessor, *hclaw.MemoryStore, hclaw.Address) {
	state, _, store := newAccessor()
	contract := hclaw.Address{0xC}
	store.Set(contract, []byte("existing"), []byte("old"))
	return state, store, contract
}

func TestAccessor_CommitKeepsMutationsAndEvents(t *testing.T) {
	state, ledger, _ := newAccessor()
	state.Credit(hclaw.Address{1}, hclaw.NewAmount(10))
	state.EmitEvent(hclaw.Event{Topic: "Credited"})
	state.Commit()
	state.Rollback()

	if got, _ := ledger.GetAccount(hclaw.Address{1}); got.Balance != hclaw.NewAmount(10) {
		t.Errorf("committed credit was reverted")
	}
	if state.MutationCount() != 0 {
		t.Errorf("mutation log not cleared")
	}
}

func TestAccessor_RollbackClearsEvents(t *testing.T) {
	state, _, _ := newAccessor()
	state.EmitEvent(hclaw.Event{Topic: "A"})
	state.EmitEvent(hclaw.Event{Topic: "B"})
	if len(state.Events()) != 2 {
		t.Fatalf("events not recorded")
	}
	state.Rollback()
	if len(state.Events()) != 0 {
		t.Errorf("events survived rollback")
	}
}

func TestAccessor_TotalStaked(t *testing.T) {
	state, ledger, _ := newAccessor()
	ledger.SetAccount(hclaw.Address{1}, hclaw.Account{Balance: hclaw.NewAmount(10), Staked: hclaw.NewAmount(3)})
	ledger.SetAccount(hclaw.Address{2}, hclaw.Account{Balance: hclaw.NewAmount(10), Staked: hclaw.NewAmount(4)})
	if want, got := hclaw.NewAmount(7), state.TotalStaked(); want != got {
		t.Errorf("unexpected total stake, wanted %v, got %v", want, got)
	}
}

func TestAccessor_StateRootIsIndependentOfInsertionOrder(t *testing.T) {
	rnd := rand.New(0)
	accounts := map[hclaw.Address]hclaw.Account{}
	order := []hclaw.Address{}
	for i := 0; i < 50; i++ {
		address := hclaw.Address{byte(rnd.Intn(256)), byte(i)}
		accounts[address] = hclaw.Account{
			Balance: hclaw.NewAmount(rnd.Uint64()),
			Staked:  hclaw.NewAmount(rnd.Uint64() % 100),
			Nonce:   rnd.Uint64() % 10,
		}
		order = append(order, address)
	}

	forward := hclaw.NewMemoryLedger()
	for _, address := range order {
		forward.SetAccount(address, accounts[address])
	}
	backward := hclaw.NewMemoryLedger()
	for i := len(order) - 1; i >= 0; i-- {
		backward.SetAccount(order[i], accounts[order[i]])
	}

	a := New(forward, hclaw.NewMemoryStore()).ComputeStateRoot()
	b := New(backward, hclaw.NewMemoryStore()).ComputeStateRoot()
	if a != b {
		t.Errorf("state roots differ: %v vs %v", a, b)
	}
	if a == (hclaw.Hash{}) {
		t.Errorf("non-empty ledger must not have zero root")
	}
}

func TestAccessor_StateRootCoversAllAccountFields(t *testing.T) {
	base := hclaw.Account{Balance: hclaw.NewAmount(10), Staked: hclaw.NewAmount(2), Nonce: 1}
	variants := map[string]hclaw.Account{
		"balance": {Balance: hclaw.NewAmount(11), Staked: base.Staked, Nonce: base.Nonce},
		"staked":  {Balance: base.Balance, Staked: hclaw.NewAmount(3), Nonce: base.Nonce},
		"nonce":   {Balance: base.Balance, Staked: base.Staked, Nonce: 2},
	}
	ledger := hclaw.NewMemoryLedger()
	ledger.SetAccount(hclaw.Address{1}, base)
	want := ComputeStateRoot(ledger)

	for name, variant := range variants {
		t.Run(name, func(t *testing.T) {
			other := hclaw.NewMemoryLedger()
			other.SetAccount(hclaw.Address{1}, variant)
			if ComputeStateRoot(other) == want {
				t.Errorf("state root does not cover %s", name)
			}
		})
	}
}

func TestAccessor_RollbackIsTrueInverse(t *testing.T) {
	for seed := uint64(0); seed < 20; seed++ {
		rnd := rand.New(seed)

		ledger := hclaw.NewMemoryLedger()
		store := hclaw.NewMemoryStore()
		addresses := []hclaw.Address{}
		for i := 0; i < 5; i++ {
			address := hclaw.Address{byte(i + 1)}
			addresses = append(addresses, address)
			if rnd.Intn(2) == 0 {
				ledger.SetAccount(address, hclaw.Account{
					Balance: hclaw.NewAmount(rnd.Uint64() % 1000),
					Staked:  hclaw.NewAmount(rnd.Uint64() % 100),
					Nonce:   rnd.Uint64() % 5,
				})
			}
			store.Set(address, []byte{byte(i)}, []byte{byte(rnd.Intn(256))})
		}
		ledgerBefore := ledger.Clone().(*hclaw.MemoryLedger)
		storeBefore := store.Clone().(*hclaw.MemoryStore)

		state := New(ledger, store)
		for i := 0; i < 100; i++ {
			address := addresses[rnd.Intn(len(addresses))]
			amount := hclaw.NewAmount(rnd.Uint64() % 500)
			key := []byte{byte(rnd.Intn(8))}
			switch rnd.Intn(6) {
			case 0:
				state.Credit(address, amount)
			case 1:
				_ = state.Debit(address, amount)
			case 2:
				_ = state.Transfer(address, addresses[rnd.Intn(len(addresses))], amount)
			case 3:
				state.StorageWrite(address, key, []byte{byte(rnd.Intn(256))})
			case 4:
				state.StorageDelete(address, key)
			case 5:
				state.IncrementNonce(address)
			}
			if rnd.Intn(10) == 0 {
				state.EmitEvent(hclaw.Event{Topic: "random"})
			}
		}
		state.Rollback()

		if !ledger.Equal(ledgerBefore) {
			t.Errorf("seed %d: ledger not restored", seed)
		}
		if !store.Equal(storeBefore) {
			t.Errorf("seed %d: store not restored", seed)
		}
		if len(state.Events()) != 0 {
			t.Errorf("seed %d: events not cleared", seed)
		}
	}
}
