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
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/sha3"
)

// HashData computes the Keccak-256 digest of the concatenation of the given
// byte sequences.
func HashData(data ...[]byte) Hash {
	res := Hash{}
	hasher := sha3.NewLegacyKeccak256()
	for _, cur := range data {
		hasher.Write(cur)
	}
	hasher.Sum(res[0:0])
	return res
}

// MerkleRoot folds the given leaves into a binary Merkle tree and returns its
// root. Pairs are hashed as HashData(left, right); a trailing odd node is
// paired with itself. The root of an empty list is the zero hash.
func MerkleRoot(leaves []Hash) Hash {
	if len(leaves) == 0 {
		return Hash{}
	}
	level := make([]Hash, len(leaves))
	copy(level, leaves)
	for len(level) > 1 {
		next := make([]Hash, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			left, right := level[i], level[i]
			if i+1 < len(level) {
				right = level[i+1]
			}
			next = append(next, HashData(left[:], right[:]))
		}
		level = next
	}
	return level[0]
}

// AddressFromPublicKey derives the address of the owner of the given key.
func AddressFromPublicKey(key PublicKey) Address {
	return ContractAddress(HashData(key))
}

// Keypair is a secp256k1 key pair used to sign transactions. Key custody is
// the concern of wallets; this type only covers signing and derivation.
type Keypair struct {
	key *ecdsa.PrivateKey
}

// GenerateKeypair creates a new random key pair.
func GenerateKeypair() (*Keypair, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	return &Keypair{key: key}, nil
}

// KeypairFromHex restores a key pair from a hex encoded private key.
func KeypairFromHex(private string) (*Keypair, error) {
	key, err := crypto.HexToECDSA(private)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return &Keypair{key: key}, nil
}

// Hex returns the hex encoded private key.
func (k *Keypair) Hex() string {
	return fmt.Sprintf("%x", crypto.FromECDSA(k.key))
}

// PublicKey returns the uncompressed public key of the pair.
func (k *Keypair) PublicKey() PublicKey {
	return crypto.FromECDSAPub(&k.key.PublicKey)
}

func (k *Keypair) Address() Address {
	return AddressFromPublicKey(k.PublicKey())
}

// Sign produces a deterministic signature of the given digest.
func (k *Keypair) Sign(digest Hash) (Signature, error) {
	return crypto.Sign(digest[:], k.key)
}

// VerifySignature checks that signature is a valid signature of digest
// created by the owner of key.
func VerifySignature(key PublicKey, digest Hash, signature Signature) bool {
	if len(signature) != crypto.SignatureLength {
		return false
	}
	// the recovery id is not part of the verified signature
	return crypto.VerifySignature(key, digest[:], signature[:crypto.RecoveryIDOffset])
}
