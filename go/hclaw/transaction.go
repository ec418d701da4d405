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
	"encoding/binary"
	"fmt"
)

// Transaction is a signed request to execute a contract on behalf of a
// sender. The Id is a digest of all other fields except the signature, and
// the signature covers the Id.
type Transaction struct {
	Id            Id        `json:"id"`
	ContractId    Id        `json:"contract_id"`
	Sender        PublicKey `json:"sender"`
	SenderAddress Address   `json:"sender_address"`
	Input         Data      `json:"input"`
	GasLimit      Gas       `json:"gas_limit"`
	GasPrice      Amount    `json:"gas_price"`
	Nonce         uint64    `json:"nonce"`
	Timestamp     uint64    `json:"timestamp"` // unix milliseconds, set by the sender
	Signature     Signature `json:"signature"`
}

// NewTransaction creates an unsigned transaction of the given sender and
// computes its id.
func NewTransaction(
	contract Id,
	sender PublicKey,
	input []byte,
	gasLimit Gas,
	gasPrice Amount,
	nonce uint64,
	timestamp uint64,
) *Transaction {
	tx := &Transaction{
		ContractId:    contract,
		Sender:        sender,
		SenderAddress: AddressFromPublicKey(sender),
		Input:         input,
		GasLimit:      gasLimit,
		GasPrice:      gasPrice,
		Nonce:         nonce,
		Timestamp:     timestamp,
	}
	tx.Id = tx.ComputeId()
	return tx
}

// ComputeId computes the deterministic digest of all fields of the
// transaction except the id itself and the signature. Variable length
// fields are length-prefixed to make the encoding unambiguous.
func (tx *Transaction) ComputeId() Id {
	var gas, nonce, timestamp, senderLen, inputLen [8]byte
	binary.BigEndian.PutUint64(gas[:], uint64(tx.GasLimit))
	binary.BigEndian.PutUint64(nonce[:], tx.Nonce)
	binary.BigEndian.PutUint64(timestamp[:], tx.Timestamp)
	binary.BigEndian.PutUint64(senderLen[:], uint64(len(tx.Sender)))
	binary.BigEndian.PutUint64(inputLen[:], uint64(len(tx.Input)))
	return HashData(
		tx.ContractId[:],
		senderLen[:], tx.Sender,
		tx.SenderAddress[:],
		inputLen[:], tx.Input,
		gas[:],
		tx.GasPrice[:],
		nonce[:],
		timestamp[:],
	)
}

// Sign signs the transaction with the given key pair. The key pair must
// belong to the sender.
func (tx *Transaction) Sign(keys *Keypair) error {
	if got, want := keys.Address(), tx.SenderAddress; got != want {
		return fmt.Errorf("key of %v can not sign for sender %v", got, want)
	}
	tx.Id = tx.ComputeId()
	signature, err := keys.Sign(tx.Id)
	if err != nil {
		return err
	}
	tx.Signature = signature
	return nil
}

// VerifySignature checks the integrity of the transaction: the id must be
// the digest of the content, the sender address must be derived from the
// sender key, and the signature must be valid for the id.
func (tx *Transaction) VerifySignature() error {
	if got := tx.ComputeId(); got != tx.Id {
		return InvalidTransaction("id %v does not match content digest %v", tx.Id, got)
	}
	if got := AddressFromPublicKey(tx.Sender); got != tx.SenderAddress {
		return InvalidTransaction("sender address %v does not match sender key", tx.SenderAddress)
	}
	if !VerifySignature(tx.Sender, tx.Id, tx.Signature) {
		return InvalidTransaction("invalid signature")
	}
	return nil
}

// MaxFee returns gas_price * gas_limit and whether the product overflowed.
// An overflowing product saturates at MaxAmount.
func (tx *Transaction) MaxFee() (Amount, bool) {
	fee, overflow := tx.GasPrice.Scale(uint64(tx.GasLimit))
	if overflow {
		return MaxAmount(), true
	}
	return fee, false
}

// TransactionKind distinguishes the operations the processor can apply.
// It is implemented by Execute, Deploy and Upgrade.
type TransactionKind interface {
	// Tx returns the signed transaction carrying the operation.
	Tx() *Transaction
}

// Execute invokes the contract addressed by the transaction.
type Execute struct {
	Transaction *Transaction
}

// Deploy installs a new contract. The contract id is derived from the code
// and the deployer.
type Deploy struct {
	Transaction *Transaction
	Code        []byte
	InitData    []byte
	Deployer    Address
}

// Upgrade replaces the code of an existing contract.
type Upgrade struct {
	Transaction *Transaction
	ContractId  Id
	NewCode     []byte
	Upgrader    Address
}

func (k Execute) Tx() *Transaction { return k.Transaction }
func (k Deploy) Tx() *Transaction  { return k.Transaction }
func (k Upgrade) Tx() *Transaction { return k.Transaction }

// DeployPayloadHash computes the digest of a deployment payload. A signed
// Deploy transaction carries it as its input, binding code and init data to
// the signature.
func DeployPayloadHash(code, initData []byte) Hash {
	var codeLen [8]byte
	binary.BigEndian.PutUint64(codeLen[:], uint64(len(code)))
	return HashData(codeLen[:], code, initData)
}

// DeployContractId computes the id of a contract with the given code
// deployed by the given address.
func DeployContractId(code []byte, deployer Address) Id {
	return HashData(code, deployer[:])
}
