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
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/hapticPaper/hardclaw/go/contracts/transfer"
	"github.com/hapticPaper/hardclaw/go/hclaw"
	"github.com/hapticPaper/hardclaw/go/state"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"golang.org/x/exp/maps"
)

var RootCmd = cli.Command{
	Action: doRoot,
	Name:   "root",
	Usage:  "Print the state root of the database",
}

func doRoot(context *cli.Context) error {
	engine, err := openEngine(context)
	if err != nil {
		return err
	}
	defer engine.Close()
	fmt.Printf("accounts %d\n", engine.ledger.Len())
	fmt.Printf("cells    %d\n", engine.store.Len())
	fmt.Printf("root     %v\n", state.ComputeStateRoot(engine.ledger))
	return nil
}

var ContractsCmd = cli.Command{
	Action: doContracts,
	Name:   "contracts",
	Usage:  "List the native contracts available for deployment and the deployed contracts",
}

func doContracts(context *cli.Context) error {
	markers := maps.Keys(hclaw.GetAllNativeContracts())
	slices.Sort(markers)
	fmt.Println("native contracts:")
	for _, marker := range markers {
		fmt.Printf("  %s\n", marker)
	}

	engine, err := openEngine(context)
	if err != nil {
		return err
	}
	defer engine.Close()
	registry := engine.processor.Registry()
	fmt.Println("deployed contracts:")
	for _, id := range registry.List() {
		contract, _ := registry.Get(id)
		paused := ""
		if hclaw.IsPaused(engine.store, id) {
			paused = " (paused)"
		}
		fmt.Printf("  %v %s_v%d%s\n", id, contract.Name(), contract.Version(), paused)
	}
	return nil
}

var KeygenCmd = cli.Command{
	Action: doKeygen,
	Name:   "keygen",
	Usage:  "Generate a new key pair",
}

func doKeygen(*cli.Context) error {
	keys, err := hclaw.GenerateKeypair()
	if err != nil {
		return err
	}
	fmt.Printf("private %s\n", keys.Hex())
	fmt.Printf("address %v\n", keys.Address())
	return nil
}

var transactionFlags = []cli.Flag{
	KeyFlag,
	NonceFlag,
	GasLimitFlag,
	GasPriceFlag,
	TimestampFlag,
}

// newSignedTransaction creates a transaction from the transaction flags.
func newSignedTransaction(context *cli.Context, contract hclaw.Id, input []byte) (*hclaw.Transaction, error) {
	keys, err := KeyFlag.Fetch(context)
	if err != nil {
		return nil, err
	}
	gasPrice, err := GasPriceFlag.Fetch(context)
	if err != nil {
		return nil, err
	}
	tx := hclaw.NewTransaction(
		contract,
		keys.PublicKey(),
		input,
		hclaw.Gas(GasLimitFlag.Fetch(context)),
		gasPrice,
		NonceFlag.Fetch(context),
		TimestampFlag.Fetch(context),
	)
	if err := tx.Sign(keys); err != nil {
		return nil, err
	}
	return tx, nil
}

var SignCmd = cli.Command{
	Action: doSign,
	Name:   "sign",
	Usage:  "Create a signed call of a contract and print it as a batch entry",
	Flags: append([]cli.Flag{
		ContractFlag,
		InputFlag,
		ToFlag,
		AmountFlag,
	}, transactionFlags...),
}

func doSign(context *cli.Context) error {
	contract, err := ContractFlag.Fetch(context)
	if err != nil {
		return err
	}
	input, err := InputFlag.Fetch(context)
	if err != nil {
		return err
	}
	to, isTransfer, err := ToFlag.Fetch(context)
	if err != nil {
		return err
	}
	if isTransfer {
		if input != nil {
			return errors.New("--input and --to are mutually exclusive")
		}
		amount, err := AmountFlag.Fetch(context)
		if err != nil {
			return err
		}
		input = transfer.EncodeInput(to, amount)
	}

	tx, err := newSignedTransaction(context, contract, input)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BatchEntry{Kind: kindExecute, Transaction: tx})
}

var DeployCmd = cli.Command{
	Action: doDeploy,
	Name:   "deploy",
	Usage:  "Deploy a contract signed by the given key and persist the result",
	Flags: append([]cli.Flag{
		CodeFlag,
		NativeFlag,
		InitDataFlag,
	}, transactionFlags...),
}

func doDeploy(context *cli.Context) error {
	var code []byte
	switch path, marker := CodeFlag.Fetch(context), NativeFlag.Fetch(context); {
	case path != "" && marker != "":
		return errors.New("--code and --native are mutually exclusive")
	case path != "":
		var err error
		if code, err = os.ReadFile(path); err != nil {
			return errors.Wrap(err, "failed to read code")
		}
	case marker != "":
		code = []byte(marker)
	default:
		return errors.New("either --code or --native is required")
	}
	initData, err := InitDataFlag.Fetch(context)
	if err != nil {
		return err
	}

	payload := hclaw.DeployPayloadHash(code, initData)
	tx, err := newSignedTransaction(context, hclaw.Id{}, payload[:])
	if err != nil {
		return err
	}

	engine, err := openEngine(context)
	if err != nil {
		return err
	}
	defer engine.Close()

	result, err := engine.processor.ProcessTransaction(hclaw.Deploy{
		Transaction: tx,
		Code:        code,
		InitData:    initData,
		Deployer:    tx.SenderAddress,
	}, engine.ledger, engine.store)
	if err != nil {
		return err
	}
	if err := engine.Save(); err != nil {
		return err
	}
	fmt.Printf("contract %v\n", hclaw.Id(result.Output))
	fmt.Printf("root     %v\n", result.NewStateRoot)
	return nil
}
