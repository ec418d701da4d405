// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"strings"
	"time"

	"github.com/hapticPaper/hardclaw/go/hclaw"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

type stringFlagType struct {
	cli.StringFlag
}

func (f *stringFlagType) Fetch(context *cli.Context) string {
	return context.String(f.Name)
}

type uint64FlagType struct {
	cli.Uint64Flag
}

func (f *uint64FlagType) Fetch(context *cli.Context) uint64 {
	return context.Uint64(f.Name)
}

// --- global flags ---

var ConfigFlag = &stringFlagType{
	cli.StringFlag{
		Name:      "config",
		Aliases:   []string{"c"},
		Usage:     "TOML configuration file",
		TakesFile: true,
	},
}

var DataDirFlag = &stringFlagType{
	cli.StringFlag{
		Name:  "datadir",
		Usage: "directory of the state database, overrides database.path",
	},
}

var BackendFlag = &stringFlagType{
	cli.StringFlag{
		Name:  "db.backend",
		Usage: "database backend (leveldb or memory), overrides database.backend",
	},
}

var VerbosityFlag = &stringFlagType{
	cli.StringFlag{
		Name:    "verbosity",
		Aliases: []string{"v"},
		Usage:   "log level (trace, debug, info, warn, error, crit), overrides log.level",
	},
}

var MaxGasFlag = &uint64FlagType{
	cli.Uint64Flag{
		Name:  "max-gas",
		Usage: "gas ceiling of a single transaction, overrides engine.max_gas",
	},
}

// --- transaction flags ---

type keyFlagType struct {
	cli.StringFlag
}

var KeyFlag = &keyFlagType{
	cli.StringFlag{
		Name:     "key",
		Aliases:  []string{"k"},
		Usage:    "hex encoded private key of the sender",
		Required: true,
	},
}

func (f *keyFlagType) Fetch(context *cli.Context) (*hclaw.Keypair, error) {
	keys, err := hclaw.KeypairFromHex(strings.TrimPrefix(context.String(f.Name), "0x"))
	return keys, errors.Wrap(err, "invalid key")
}

type idFlagType struct {
	cli.StringFlag
}

var ContractFlag = &idFlagType{
	cli.StringFlag{
		Name:  "contract",
		Usage: "0x prefixed id of the called contract",
	},
}

func (f *idFlagType) Fetch(context *cli.Context) (hclaw.Id, error) {
	var res hclaw.Id
	if err := res.UnmarshalText([]byte(context.String(f.Name))); err != nil {
		return res, errors.Wrapf(err, "invalid --%s", f.Name)
	}
	return res, nil
}

var RootFlag = &idFlagType{
	cli.StringFlag{
		Name:     "root",
		Usage:    "0x prefixed state root claimed for the batch",
		Required: true,
	},
}

type dataFlagType struct {
	cli.StringFlag
}

func (f *dataFlagType) Fetch(context *cli.Context) (hclaw.Data, error) {
	var res hclaw.Data
	value := context.String(f.Name)
	if value == "" {
		return nil, nil
	}
	if err := res.UnmarshalText([]byte(value)); err != nil {
		return nil, errors.Wrapf(err, "invalid --%s", f.Name)
	}
	return res, nil
}

var InputFlag = &dataFlagType{
	cli.StringFlag{
		Name:  "input",
		Usage: "0x prefixed input of the call",
	},
}

var InitDataFlag = &dataFlagType{
	cli.StringFlag{
		Name:  "init-data",
		Usage: "0x prefixed data passed to the deployment hook",
	},
}

type addressFlagType struct {
	cli.StringFlag
}

var ToFlag = &addressFlagType{
	cli.StringFlag{
		Name:  "to",
		Usage: "recipient of a transfer; encodes the input of the transfer contract",
	},
}

func (f *addressFlagType) Fetch(context *cli.Context) (hclaw.Address, bool, error) {
	var res hclaw.Address
	value := context.String(f.Name)
	if value == "" {
		return res, false, nil
	}
	if err := res.UnmarshalText([]byte(value)); err != nil {
		return res, false, errors.Wrapf(err, "invalid --%s", f.Name)
	}
	return res, true, nil
}

type amountFlagType struct {
	cli.StringFlag
}

func (f *amountFlagType) Fetch(context *cli.Context) (hclaw.Amount, error) {
	var res hclaw.Amount
	if err := res.UnmarshalText([]byte(context.String(f.Name))); err != nil {
		return res, errors.Wrapf(err, "invalid --%s", f.Name)
	}
	return res, nil
}

var AmountFlag = &amountFlagType{
	cli.StringFlag{
		Name:  "amount",
		Usage: "transferred amount in raw units",
		Value: "0",
	},
}

var GasPriceFlag = &amountFlagType{
	cli.StringFlag{
		Name:  "gas-price",
		Usage: "gas price in raw units",
		Value: "1",
	},
}

var GasLimitFlag = &uint64FlagType{
	cli.Uint64Flag{
		Name:  "gas-limit",
		Usage: "gas limit of the transaction",
		Value: 1_000_000,
	},
}

var NonceFlag = &uint64FlagType{
	cli.Uint64Flag{
		Name:     "nonce",
		Usage:    "nonce of the transaction, the successor of the sender's current nonce",
		Required: true,
	},
}

type timestampFlagType struct {
	cli.Uint64Flag
}

var TimestampFlag = &timestampFlagType{
	cli.Uint64Flag{
		Name:  "timestamp",
		Usage: "timestamp of the transaction in unix milliseconds (default: now)",
	},
}

func (f *timestampFlagType) Fetch(context *cli.Context) uint64 {
	if context.IsSet(f.Name) {
		return context.Uint64(f.Name)
	}
	return uint64(time.Now().UnixMilli())
}

var CodeFlag = &stringFlagType{
	cli.StringFlag{
		Name:      "code",
		Usage:     "file containing the contract code, e.g. a WebAssembly binary",
		TakesFile: true,
	},
}

var NativeFlag = &stringFlagType{
	cli.StringFlag{
		Name:  "native",
		Usage: "marker of a native contract, e.g. native:transfer_v1",
	},
}
