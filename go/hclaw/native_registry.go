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
	"fmt"
	"sync"

	"golang.org/x/exp/maps"
)

// This file provides a registry for native contract implementations.
//
// Native contracts are compiled into the node binary. For an implementation
// to be loadable it needs to be registered, typically as part of the init
// code of the package providing it. A deployment payload starting with the
// marker of a registered implementation resolves to that implementation.

// NativeContractFactory creates an instance of a native contract bound to
// the given contract id.
type NativeContractFactory func(id Id) Contract

// NativeMarkerPrefix is the prefix of all native contract markers.
const NativeMarkerPrefix = "native:"

// NativeMarker returns the marker string identifying the native contract
// with the given name and version, e.g. "native:transfer_v1".
func NativeMarker(name string, version uint32) string {
	return fmt.Sprintf("%s%s_v%d", NativeMarkerPrefix, name, version)
}

// RegisterNativeContract registers a factory for the native contract with
// the given name and version. Markers are case-sensitive. A panic is
// triggered if a factory was bound to the same marker before, or the
// factory is nil.
func RegisterNativeContract(name string, version uint32, factory NativeContractFactory) {
	if err := registerNativeContract(NativeMarker(name, version), factory); err != nil {
		panic(err)
	}
}

func registerNativeContract(marker string, factory NativeContractFactory) error {
	if factory == nil {
		return fmt.Errorf("invalid initialization: cannot register nil-factory using `%s`", marker)
	}
	nativeRegistryLock.Lock()
	defer nativeRegistryLock.Unlock()
	if _, found := nativeRegistry[marker]; found {
		return fmt.Errorf("invalid initialization: multiple factories registered for `%s`", marker)
	}
	nativeRegistry[marker] = factory
	return nil
}

// GetNativeContractFactory performs a lookup for the given marker. The
// result is nil if no factory was registered under the given marker.
func GetNativeContractFactory(marker string) NativeContractFactory {
	nativeRegistryLock.Lock()
	defer nativeRegistryLock.Unlock()
	return nativeRegistry[marker]
}

// GetAllNativeContracts obtains all registered native implementations.
func GetAllNativeContracts() map[string]NativeContractFactory {
	nativeRegistryLock.Lock()
	defer nativeRegistryLock.Unlock()
	return maps.Clone(nativeRegistry)
}

var nativeRegistry = map[string]NativeContractFactory{}

var nativeRegistryLock sync.Mutex
