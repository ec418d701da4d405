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
	"encoding/hex"
	"strings"
)

// System storage cells are kept under the SystemAddress. Their keys are
// ASCII strings of the form "<kind>:<suffix>".
const (
	pausedKeyPrefix      = "paused:"
	codeKeyPrefix        = "code:"
	paramKeyPrefix       = "param:"
	upgradeKeyPrefix     = "upgrade:"
	upgradeHashKeyPrefix = "upgrade_hash:"
	treasuryKeyPrefix    = "treasury_spend:"
)

// PausedKey is the system cell marking a contract as paused. A present,
// non-empty cell means the contract may not be executed.
func PausedKey(id Id) []byte {
	return []byte(pausedKeyPrefix + hex.EncodeToString(id[:]))
}

// CodeKey is the system cell holding the deployment payload of a contract.
func CodeKey(id Id) []byte {
	return []byte(codeKeyPrefix + hex.EncodeToString(id[:]))
}

// ParamKey is the system cell holding a governance-controlled parameter.
func ParamKey(name string) []byte {
	return []byte(paramKeyPrefix + name)
}

// UpgradeKey is the system cell holding code approved for an upgrade.
func UpgradeKey(id Id) []byte {
	return []byte(upgradeKeyPrefix + hex.EncodeToString(id[:]))
}

// UpgradeHashKey is the system cell holding the hash of approved upgrade code.
func UpgradeHashKey(id Id) []byte {
	return []byte(upgradeHashKeyPrefix + hex.EncodeToString(id[:]))
}

// TreasurySpendKey is the system cell recording the purpose of the last
// treasury spend to the given recipient.
func TreasurySpendKey(recipient Address) []byte {
	return []byte(treasuryKeyPrefix + hex.EncodeToString(recipient[:]))
}

// IsPaused reports whether the contract with the given id is paused.
func IsPaused(store Store, id Id) bool {
	value, found := store.Get(SystemAddress, PausedKey(id))
	return found && len(value) > 0
}

// ForEachDeployedCode visits the deployment payloads of all contracts
// deployed into the given store.
func ForEachDeployedCode(store Store, visit func(Id, []byte)) {
	store.ForEach(func(contract Address, key []byte, value []byte) {
		if contract != SystemAddress || !strings.HasPrefix(string(key), codeKeyPrefix) {
			return
		}
		raw, err := hex.DecodeString(string(key[len(codeKeyPrefix):]))
		if err != nil || len(raw) != len(Id{}) {
			return
		}
		visit(Id(raw), value)
	})
}
