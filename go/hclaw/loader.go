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
	"bytes"
	"strings"
)

//go:generate mockgen -source loader.go -destination loader_mock.go -package hclaw

// Loader instantiates contracts from deployment payloads.
type Loader interface {
	Load(id Id, code []byte) (Contract, error)
}

// WasmMagic is the prefix of WebAssembly binaries.
var WasmMagic = []byte{0x00, 0x61, 0x73, 0x6d}

// UniversalLoader dispatches deployment payloads to the runtime able to
// handle them. Payloads starting with a native marker are resolved through
// the native contract registry, WebAssembly binaries are handed to the
// sandbox backend.
type UniversalLoader struct {
	// Sandbox loads sandboxed bytecode. If nil, sandboxed contracts are
	// rejected.
	Sandbox Loader
}

func NewUniversalLoader(sandbox Loader) *UniversalLoader {
	return &UniversalLoader{Sandbox: sandbox}
}

func (l *UniversalLoader) Load(id Id, code []byte) (Contract, error) {
	if bytes.HasPrefix(code, []byte(NativeMarkerPrefix)) {
		return loadNative(id, code)
	}
	if bytes.HasPrefix(code, WasmMagic) {
		if l.Sandbox == nil {
			return nil, ExecutionFailed("WASM contracts require a sandbox backend")
		}
		return l.Sandbox.Load(id, code)
	}
	return nil, ExecutionFailed("Unknown contract format")
}

func loadNative(id Id, code []byte) (Contract, error) {
	marker := strings.TrimSpace(string(code))
	factory := GetNativeContractFactory(marker)
	if factory == nil {
		return nil, ExecutionFailed("Unknown native contract: %s", marker)
	}
	return factory(id), nil
}
