// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package wasm implements the sandboxed contract backend. Contracts are
// WebAssembly modules executed by the wazero interpreter. A guest interacts
// with the chain exclusively through the host functions of the "env" module;
// every host call is charged against the gas limit of the transaction.
//
// A guest module must export its linear memory as "memory" and a function
// "execute" of type () -> i32 returning 0 on success. An optional function
// "on_deploy" of the same type is run when the contract is deployed.
package wasm

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/hapticPaper/hardclaw/go/hclaw"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

const (
	DefaultTimeout          = 2 * time.Second
	DefaultMemoryLimitPages = 256 // = 16 MiB
	DefaultCacheSize        = 64
	DefaultHostCallGas      = hclaw.Gas(100)

	// BaseGas is charged for every invocation of a guest function.
	BaseGas = hclaw.Gas(1000)

	// DeployGasLimit bounds the gas available to on_deploy.
	DeployGasLimit = hclaw.Gas(10_000_000)
)

// Config contains the options of the sandbox backend.
type Config struct {
	// Timeout is the wall-clock limit of a single guest invocation.
	Timeout time.Duration
	// MemoryLimitPages is the maximum number of 64 KiB pages of a guest.
	MemoryLimitPages uint32
	// CacheSize is the number of compiled modules retained. If set to 0, a
	// default size is used. If negative, no cache is used.
	CacheSize int
	// HostCallGas is the gas charged for every host function call.
	HostCallGas hclaw.Gas
}

// Backend compiles and runs WebAssembly contracts. It implements the
// hclaw.Loader interface and is intended to be used as the sandbox of a
// hclaw.UniversalLoader.
type Backend struct {
	config  Config
	runtime wazero.Runtime
	cache   *lru.Cache[hclaw.Hash, wazero.CompiledModule]
	logger  log.Logger

	// lock serializes compilation and execution. Compiled modules evicted
	// from the cache are closed, which must not happen while they are used.
	lock sync.Mutex
}

// NewBackend creates a sandbox backend with the given configuration. The
// backend must be closed to release the resources of the runtime.
func NewBackend(config Config) (*Backend, error) {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.MemoryLimitPages == 0 {
		config.MemoryLimitPages = DefaultMemoryLimitPages
	}
	if config.CacheSize == 0 {
		config.CacheSize = DefaultCacheSize
	}
	if config.HostCallGas == 0 {
		config.HostCallGas = DefaultHostCallGas
	}

	ctx := context.Background()
	runtimeConfig := wazero.NewRuntimeConfigInterpreter().
		WithMemoryLimitPages(config.MemoryLimitPages).
		WithCloseOnContextDone(true)
	runtime := wazero.NewRuntimeWithConfig(ctx, runtimeConfig)

	if err := instantiateHostModule(ctx, runtime); err != nil {
		runtime.Close(ctx)
		return nil, err
	}

	var cache *lru.Cache[hclaw.Hash, wazero.CompiledModule]
	if config.CacheSize > 0 {
		var err error
		cache, err = lru.NewWithEvict(config.CacheSize, func(_ hclaw.Hash, module wazero.CompiledModule) {
			module.Close(context.Background())
		})
		if err != nil {
			runtime.Close(ctx)
			return nil, err
		}
	}

	return &Backend{
		config:  config,
		runtime: runtime,
		cache:   cache,
		logger:  log.New("module", "wasm"),
	}, nil
}

// Close releases all compiled modules and the runtime.
func (b *Backend) Close() error {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.cache != nil {
		b.cache.Purge()
	}
	return b.runtime.Close(context.Background())
}

// Load compiles the given WebAssembly binary and checks that it satisfies
// the contract ABI.
func (b *Backend) Load(id hclaw.Id, code []byte) (hclaw.Contract, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	hash := hclaw.HashData(code)
	module, release, err := b.compile(hash, code)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := checkAbi(module); err != nil {
		return nil, err
	}
	b.logger.Debug("Loaded wasm contract", "id", id, "code_hash", hash, "size", len(code))
	return &contract{
		backend:  b,
		id:       id,
		code:     code,
		codeHash: hash,
	}, nil
}

// compile returns the compiled module of the given code. The release
// function must be called once the module is no longer used.
func (b *Backend) compile(hash hclaw.Hash, code []byte) (wazero.CompiledModule, func(), error) {
	if b.cache != nil {
		if module, found := b.cache.Get(hash); found {
			return module, func() {}, nil
		}
	}
	module, err := b.runtime.CompileModule(context.Background(), code)
	if err != nil {
		return nil, nil, hclaw.ExecutionFailed("WASM compilation failed: %v", err)
	}
	if b.cache == nil {
		return module, func() { module.Close(context.Background()) }, nil
	}
	b.cache.Add(hash, module)
	return module, func() {}, nil
}

// checkAbi verifies that the module exports the entry points of a contract
// with the expected signatures and only imports known host functions.
func checkAbi(module wazero.CompiledModule) error {
	exports := module.ExportedFunctions()
	execute, found := exports[executeExport]
	if !found {
		return hclaw.ExecutionFailed("Missing '%s' export", executeExport)
	}
	if !isEntryPoint(execute) {
		return hclaw.ExecutionFailed("Export '%s' must have type () -> i32", executeExport)
	}
	if onDeploy, found := exports[onDeployExport]; found && !isEntryPoint(onDeploy) {
		return hclaw.ExecutionFailed("Export '%s' must have type () -> i32", onDeployExport)
	}
	if _, found := module.ExportedMemories()[memoryExport]; !found {
		return hclaw.ExecutionFailed("Missing '%s' export", memoryExport)
	}
	for _, imported := range module.ImportedFunctions() {
		moduleName, name, _ := imported.Import()
		if moduleName != hostModuleName || !isHostFunction(name) {
			return hclaw.ExecutionFailed("Unknown import %s.%s", moduleName, name)
		}
	}
	return nil
}

func isEntryPoint(def api.FunctionDefinition) bool {
	results := def.ResultTypes()
	return len(def.ParamTypes()) == 0 && len(results) == 1 && results[0] == api.ValueTypeI32
}

const (
	executeExport  = "execute"
	onDeployExport = "on_deploy"
	memoryExport   = "memory"
)
