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
	"encoding/json"
	"errors"
	"testing"
)

func newSignedTransaction(t *testing.T) (*Transaction, *Keypair) {
	t.Helper()
	keys, err := GenerateKeypair()
	if err != nil {
		t.Fatalf("failed to generate keys: %v", err)
	}
	tx := NewTransaction(Id{1}, keys.PublicKey(), []byte("input"), 1000, NewAmount(2), 1, 1_700_000_000_000)
	if err := tx.Sign(keys); err != nil {
		t.Fatalf("failed to sign: %v", err)
	}
	return tx, keys
}

func TestTransaction_SignedTransactionVerifies(t *testing.T) {
	tx, _ := newSignedTransaction(t)
	if err := tx.VerifySignature(); err != nil {
		t.Errorf("unexpected verification failure: %v", err)
	}
}

func TestTransaction_IdCoversAllFieldsButSignature(t *testing.T) {
	tx, _ := newSignedTransaction(t)
	modifications := map[string]func(*Transaction){
		"contract":  func(tx *Transaction) { tx.ContractId = Id{2} },
		"input":     func(tx *Transaction) { tx.Input = []byte("other") },
		"gas limit": func(tx *Transaction) { tx.GasLimit++ },
		"gas price": func(tx *Transaction) { tx.GasPrice = NewAmount(3) },
		"nonce":     func(tx *Transaction) { tx.Nonce++ },
		"timestamp": func(tx *Transaction) { tx.Timestamp++ },
	}
	for name, modify := range modifications {
		t.Run(name, func(t *testing.T) {
			modified := *tx
			modify(&modified)
			if modified.ComputeId() == tx.Id {
				t.Errorf("id does not cover %s", name)
			}
		})
	}

	resigned := *tx
	resigned.Signature = []byte{1, 2, 3}
	if resigned.ComputeId() != tx.Id {
		t.Errorf("id must not depend on the signature")
	}
}

func TestTransaction_TamperingIsDetected(t *testing.T) {
	other, err := GenerateKeypair()
	if err != nil {
		t.Fatalf("failed to generate keys: %v", err)
	}
	tests := map[string]func(*Transaction){
		"modified content":  func(tx *Transaction) { tx.Nonce++ },
		"recomputed id":     func(tx *Transaction) { tx.Nonce++; tx.Id = tx.ComputeId() },
		"foreign address":   func(tx *Transaction) { tx.SenderAddress = other.Address(); tx.Id = tx.ComputeId() },
		"truncated":         func(tx *Transaction) { tx.Signature = tx.Signature[:10] },
		"missing signature": func(tx *Transaction) { tx.Signature = nil },
	}
	for name, tamper := range tests {
		t.Run(name, func(t *testing.T) {
			tx, _ := newSignedTransaction(t)
			tamper(tx)
			err := tx.VerifySignature()
			var target *InvalidTransactionError
			if !errors.As(err, &target) {
				t.Errorf("expected invalid transaction error, got %v", err)
			}
		})
	}
}

func TestTransaction_SigningWithForeignKeyFails(t *testing.T) {
	tx, _ := newSignedTransaction(t)
	other, err := GenerateKeypair()
	if err != nil {
		t.Fatalf("failed to generate keys: %v", err)
	}
	if err := tx.Sign(other); err == nil {
		t.Errorf("signing with a foreign key must fail")
	}
}

func TestTransaction_JSON_RoundTripPreservesSignature(t *testing.T) {
	tx, _ := newSignedTransaction(t)
	encoded, err := json.Marshal(tx)
	if err != nil {
		t.Fatalf("failed to encode: %v", err)
	}
	var restored Transaction
	if err := json.Unmarshal(encoded, &restored); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if err := restored.VerifySignature(); err != nil {
		t.Errorf("restored transaction does not verify: %v", err)
	}
}

func TestTransaction_MaxFee(t *testing.T) {
	tx := &Transaction{GasLimit: 1_000_000, GasPrice: NewAmount(3)}
	fee, overflow := tx.MaxFee()
	if overflow || fee != NewAmount(3_000_000) {
		t.Errorf("unexpected max fee %v", fee)
	}
}

func TestTransaction_MaxFeeSaturatesOnOverflow(t *testing.T) {
	tx := &Transaction{GasLimit: 2, GasPrice: MaxAmount()}
	fee, overflow := tx.MaxFee()
	if !overflow || fee != MaxAmount() {
		t.Errorf("expected saturated max fee, got %v, overflow %t", fee, overflow)
	}
}

func TestDeployPayloadHash_SeparatesCodeAndInitData(t *testing.T) {
	if DeployPayloadHash([]byte("ab"), []byte("c")) == DeployPayloadHash([]byte("a"), []byte("bc")) {
		t.Errorf("payloads with shifted boundary must differ")
	}
	if DeployPayloadHash([]byte("a"), nil) != DeployPayloadHash([]byte("a"), []byte{}) {
		t.Errorf("nil and empty init data must be equal")
	}
}

func TestKeypair_HexRoundTrip(t *testing.T) {
	keys, err := GenerateKeypair()
	if err != nil {
		t.Fatalf("failed to generate keys: %v", err)
	}
	restored, err := KeypairFromHex(keys.Hex())
	if err != nil {
		t.Fatalf("failed to restore keys: %v", err)
	}
	if keys.Address() != restored.Address() {
		t.Errorf("restored key has different address")
	}
	if _, err := KeypairFromHex("zz"); err == nil {
		t.Errorf("invalid key must be rejected")
	}
}

func TestDeployContractId_DependsOnCodeAndDeployer(t *testing.T) {
	code := []byte("native:transfer_v1")
	a := DeployContractId(code, Address{1})
	if a != DeployContractId(code, Address{1}) {
		t.Errorf("contract id is not deterministic")
	}
	if a == DeployContractId(code, Address{2}) {
		t.Errorf("contract id does not depend on deployer")
	}
	if a == DeployContractId([]byte("native:governance_v1"), Address{1}) {
		t.Errorf("contract id does not depend on code")
	}
}

func TestMerkleRoot(t *testing.T) {
	a, b, c := Hash{1}, Hash{2}, Hash{3}
	ab := HashData(a[:], b[:])
	cc := HashData(c[:], c[:])

	tests := map[string]struct {
		leaves []Hash
		want   Hash
	}{
		"empty":  {nil, Hash{}},
		"single": {[]Hash{a}, a},
		"pair":   {[]Hash{a, b}, ab},
		"odd":    {[]Hash{a, b, c}, HashData(ab[:], cc[:])},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if got := MerkleRoot(test.leaves); got != test.want {
				t.Errorf("unexpected root, wanted %v, got %v", test.want, got)
			}
		})
	}
}
