// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package wasm

import (
	"context"
	"errors"

	"github.com/hapticPaper/hardclaw/go/hclaw"
	"github.com/tetratelabs/wazero"
)

const (
	Name    = "wasm"
	Version = 1
)

// contract is a WebAssembly contract. Instances only retain the code; the
// guest is instantiated fresh for every invocation so no guest memory
// survives between calls.
type contract struct {
	backend  *Backend
	id       hclaw.Id
	code     []byte
	codeHash hclaw.Hash
}

func (c *contract) Id() hclaw.Id {
	return c.id
}

func (*contract) Name() string {
	return Name
}

func (*contract) Version() uint32 {
	return Version
}

func (*contract) IsUpgradeable() bool {
	return false
}

func (c *contract) Execute(state hclaw.ContractState, tx *hclaw.Transaction) (hclaw.ExecutionResult, error) {
	env := &callEnv{
		state:       state,
		contract:    c.id,
		input:       tx.Input,
		sender:      tx.SenderAddress,
		timestamp:   tx.Timestamp,
		gasLimit:    tx.GasLimit,
		gasUsed:     BaseGas,
		hostCallGas: c.backend.config.HostCallGas,
	}
	if env.gasUsed > env.gasLimit {
		return hclaw.ExecutionResult{}, hclaw.ExecutionFailed("out of gas")
	}
	if _, err := c.backend.run(c, executeExport, env); err != nil {
		return hclaw.ExecutionResult{}, err
	}
	return hclaw.ExecutionResult{
		NewStateRoot: state.ComputeStateRoot(),
		GasUsed:      env.gasUsed,
		Events:       state.Events(),
		Output:       env.output,
	}, nil
}

func (*contract) Verify(state hclaw.ContractState, _ *hclaw.Transaction, result hclaw.ExecutionResult) (bool, error) {
	return hclaw.VerifyRoot(state, result), nil
}

func (c *contract) OnDeploy(state hclaw.ContractState, initData []byte) error {
	env := &callEnv{
		state:       state,
		contract:    c.id,
		input:       initData,
		gasLimit:    DeployGasLimit,
		gasUsed:     BaseGas,
		hostCallGas: c.backend.config.HostCallGas,
	}
	_, err := c.backend.run(c, onDeployExport, env)
	return err
}

// run instantiates the guest of the given contract and calls the named
// export. A missing optional export is not an error and reports false.
func (b *Backend) run(c *contract, export string, env *callEnv) (bool, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	module, release, err := b.compile(c.codeHash, c.code)
	if err != nil {
		return false, err
	}
	defer release()

	if _, found := module.ExportedFunctions()[export]; !found {
		if export == executeExport {
			return false, hclaw.ExecutionFailed("Missing '%s' export", export)
		}
		return false, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.config.Timeout)
	defer cancel()
	ctx = withEnv(ctx, env)

	instance, err := b.runtime.InstantiateModule(ctx, module, wazero.NewModuleConfig().WithName("").WithStartFunctions())
	if err != nil {
		return false, hclaw.ExecutionFailed("WASM instantiation failed: %v", err)
	}
	defer instance.Close(context.Background())

	results, err := instance.ExportedFunction(export).Call(ctx)
	if env.err != nil {
		b.logger.Debug("Wasm execution aborted", "contract", c.id, "export", export, "reason", env.err)
		return false, env.err
	}
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return false, hclaw.ExecutionFailed("WASM execution timed out after %v", b.config.Timeout)
		}
		return false, hclaw.ExecutionFailed("WASM runtime error: %v", err)
	}
	if code := int32(results[0]); code != 0 {
		return false, hclaw.ExecutionFailed("contract returned error code %d", code)
	}
	return true, nil
}
