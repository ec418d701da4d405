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
	"slices"

	"github.com/hapticPaper/hardclaw/go/hclaw"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"golang.org/x/exp/maps"
)

const hostModuleName = "env"

// Host functions exported to guests. Pointers and lengths refer to the
// linear memory of the calling guest.
//
//	input_len() -> i32                        length of the call input
//	input_read(ptr)                           copies the input to ptr
//	sender(ptr)                               writes the 20 byte sender address
//	timestamp() -> i64                        transaction timestamp in ms
//	storage_read(key, key_len, buf, cap) -> i32
//	                                          value length or -1 if absent; copies
//	                                          at most cap bytes of the value to buf
//	storage_write(key, key_len, val, val_len)
//	storage_delete(key, key_len)
//	balance(address, out)                     writes the 32 byte balance to out
//	transfer(to, amount) -> i32               moves funds of the contract account;
//	                                          0 on success, 1 if insufficient
//	emit_event(topic, topic_len, data, data_len)
//	set_output(ptr, len)
var hostFunctions = map[string]any{
	"input_len":      inputLen,
	"input_read":     inputRead,
	"sender":         sender,
	"timestamp":      timestamp,
	"storage_read":   storageRead,
	"storage_write":  storageWrite,
	"storage_delete": storageDelete,
	"balance":        balance,
	"transfer":       transfer,
	"emit_event":     emitEvent,
	"set_output":     setOutput,
}

func isHostFunction(name string) bool {
	_, found := hostFunctions[name]
	return found
}

func instantiateHostModule(ctx context.Context, runtime wazero.Runtime) error {
	builder := runtime.NewHostModuleBuilder(hostModuleName)
	names := maps.Keys(hostFunctions)
	slices.Sort(names)
	for _, name := range names {
		builder = builder.NewFunctionBuilder().WithFunc(hostFunctions[name]).Export(name)
	}
	_, err := builder.Instantiate(ctx)
	return err
}

// callEnv is the per-invocation context of a guest. It is passed to host
// functions through the context of the call.
type callEnv struct {
	state     hclaw.ContractState
	contract  hclaw.Id
	input     []byte
	sender    hclaw.Address
	timestamp uint64

	gasLimit    hclaw.Gas
	gasUsed     hclaw.Gas
	hostCallGas hclaw.Gas

	output []byte
	err    error // the reason of an aborted execution
}

type envKey struct{}

func withEnv(ctx context.Context, env *callEnv) context.Context {
	return context.WithValue(ctx, envKey{}, env)
}

// enter fetches the environment of the current call and charges the cost of
// a host call.
func enter(ctx context.Context) *callEnv {
	env := ctx.Value(envKey{}).(*callEnv)
	env.gasUsed += env.hostCallGas
	if env.gasUsed > env.gasLimit {
		env.abort(hclaw.ExecutionFailed("out of gas"))
	}
	return env
}

// abort stops the guest. The runtime recovers the panic and fails the call;
// the recorded error is reported instead of the runtime's error.
func (e *callEnv) abort(err error) {
	e.err = err
	panic(err)
}

var errOutOfBounds = errors.New("memory access out of bounds")

func (e *callEnv) read(m api.Module, ptr, length uint32) []byte {
	memory := m.Memory()
	if memory == nil {
		e.abort(hclaw.ExecutionFailed("%v", errOutOfBounds))
	}
	view, ok := memory.Read(ptr, length)
	if !ok {
		e.abort(hclaw.ExecutionFailed("%v", errOutOfBounds))
	}
	return append([]byte{}, view...)
}

func (e *callEnv) write(m api.Module, ptr uint32, data []byte) {
	memory := m.Memory()
	if memory == nil || !memory.Write(ptr, data) {
		e.abort(hclaw.ExecutionFailed("%v", errOutOfBounds))
	}
}

func (e *callEnv) storageAddress() hclaw.Address {
	return hclaw.ContractAddress(e.contract)
}

func inputLen(ctx context.Context) uint32 {
	return uint32(len(enter(ctx).input))
}

func inputRead(ctx context.Context, m api.Module, ptr uint32) {
	env := enter(ctx)
	env.write(m, ptr, env.input)
}

func sender(ctx context.Context, m api.Module, ptr uint32) {
	env := enter(ctx)
	env.write(m, ptr, env.sender[:])
}

func timestamp(ctx context.Context) uint64 {
	return enter(ctx).timestamp
}

func storageRead(ctx context.Context, m api.Module, keyPtr, keyLen, bufPtr, bufCap uint32) int32 {
	env := enter(ctx)
	key := env.read(m, keyPtr, keyLen)
	value, found := env.state.StorageRead(env.storageAddress(), key)
	if !found {
		return -1
	}
	n := min(uint32(len(value)), bufCap)
	env.write(m, bufPtr, value[:n])
	return int32(len(value))
}

func storageWrite(ctx context.Context, m api.Module, keyPtr, keyLen, valuePtr, valueLen uint32) {
	env := enter(ctx)
	key := env.read(m, keyPtr, keyLen)
	value := env.read(m, valuePtr, valueLen)
	env.state.StorageWrite(env.storageAddress(), key, value)
}

func storageDelete(ctx context.Context, m api.Module, keyPtr, keyLen uint32) {
	env := enter(ctx)
	env.state.StorageDelete(env.storageAddress(), env.read(m, keyPtr, keyLen))
}

func balance(ctx context.Context, m api.Module, addressPtr, outPtr uint32) {
	env := enter(ctx)
	address := hclaw.Address(env.read(m, addressPtr, uint32(len(hclaw.Address{}))))
	amount := env.state.Balance(address)
	env.write(m, outPtr, amount[:])
}

func transfer(ctx context.Context, m api.Module, toPtr, amountPtr uint32) uint32 {
	env := enter(ctx)
	to := hclaw.Address(env.read(m, toPtr, uint32(len(hclaw.Address{}))))
	amount := hclaw.Amount(env.read(m, amountPtr, uint32(len(hclaw.Amount{}))))
	if err := env.state.Transfer(env.storageAddress(), to, amount); err != nil {
		var insufficient *hclaw.InsufficientBalanceError
		if errors.As(err, &insufficient) {
			return 1
		}
		env.abort(err)
	}
	return 0
}

func emitEvent(ctx context.Context, m api.Module, topicPtr, topicLen, dataPtr, dataLen uint32) {
	env := enter(ctx)
	topic := env.read(m, topicPtr, topicLen)
	data := env.read(m, dataPtr, dataLen)
	env.state.EmitEvent(hclaw.Event{ContractId: env.contract, Topic: string(topic), Data: data})
}

func setOutput(ctx context.Context, m api.Module, ptr, length uint32) {
	env := enter(ctx)
	env.output = env.read(m, ptr, length)
}
