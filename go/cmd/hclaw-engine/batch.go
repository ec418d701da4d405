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
	"fmt"

	"github.com/dsnet/golib/unitconv"
	"github.com/ethereum/go-ethereum/log"
	"github.com/hapticPaper/hardclaw/go/hclaw"
	"github.com/hapticPaper/hardclaw/go/state"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const (
	kindExecute = "execute"
	kindDeploy  = "deploy"
	kindUpgrade = "upgrade"
)

// BatchEntry is the JSON form of a transaction kind in a batch file.
type BatchEntry struct {
	Kind        string             `json:"kind"`
	Transaction *hclaw.Transaction `json:"transaction"`
	Code        hclaw.Data         `json:"code,omitempty"`
	InitData    hclaw.Data         `json:"init_data,omitempty"`
	ContractId  *hclaw.Id          `json:"contract_id,omitempty"`
}

func (e BatchEntry) toKind() (hclaw.TransactionKind, error) {
	if e.Transaction == nil {
		return nil, errors.New("missing transaction")
	}
	tx := e.Transaction
	switch e.Kind {
	case kindExecute, "":
		return hclaw.Execute{Transaction: tx}, nil
	case kindDeploy:
		return hclaw.Deploy{Transaction: tx, Code: e.Code, InitData: e.InitData, Deployer: tx.SenderAddress}, nil
	case kindUpgrade:
		if e.ContractId == nil {
			return nil, errors.New("upgrade without contract_id")
		}
		return hclaw.Upgrade{Transaction: tx, ContractId: *e.ContractId, NewCode: e.Code, Upgrader: tx.SenderAddress}, nil
	}
	return nil, errors.Errorf("unknown transaction kind %q", e.Kind)
}

func readBatch(path string) ([]hclaw.TransactionKind, error) {
	var entries []BatchEntry
	if err := readJson(path, &entries); err != nil {
		return nil, err
	}
	res := make([]hclaw.TransactionKind, 0, len(entries))
	for i, entry := range entries {
		kind, err := entry.toKind()
		if err != nil {
			return nil, errors.Wrapf(err, "invalid batch entry %d", i)
		}
		res = append(res, kind)
	}
	return res, nil
}

func formatGas(gas hclaw.Gas) string {
	return unitconv.FormatPrefix(float64(gas), unitconv.SI, 1)
}

var ApplyCmd = cli.Command{
	Action:    doApply,
	Name:      "apply",
	Usage:     "Atomically apply a batch of signed transactions and persist the result",
	ArgsUsage: "<batch.json>",
}

func doApply(context *cli.Context) error {
	if context.NArg() != 1 {
		return errors.New("expected the path of a batch file")
	}
	kinds, err := readBatch(context.Args().First())
	if err != nil {
		return err
	}

	engine, err := openEngine(context)
	if err != nil {
		return err
	}
	defer engine.Close()

	results, err := engine.processor.ProcessBatch(kinds, engine.ledger, engine.store)
	if err != nil {
		return err
	}
	if err := engine.Save(); err != nil {
		return err
	}

	var total hclaw.Gas
	for i, result := range results {
		total += result.GasUsed
		fmt.Printf("[%d] gas %s, %d events, output %v\n", i, formatGas(result.GasUsed), len(result.Events), result.Output)
		for _, event := range result.Events {
			fmt.Printf("    %s %v %v\n", event.Topic, event.ContractId, event.Data)
		}
	}
	root := state.ComputeStateRoot(engine.ledger)
	log.Info("Applied batch", "transactions", len(results), "gas", total, "root", root)
	fmt.Printf("applied %d transactions, gas %s, root %v\n", len(results), formatGas(total), root)
	return nil
}

var VerifyCmd = cli.Command{
	Action:    doVerify,
	Name:      "verify",
	Usage:     "Re-execute a batch on a copy of the state and check a claimed state root",
	ArgsUsage: "<batch.json>",
	Flags: []cli.Flag{
		RootFlag,
	},
}

func doVerify(context *cli.Context) error {
	if context.NArg() != 1 {
		return errors.New("expected the path of a batch file")
	}
	claimed, err := RootFlag.Fetch(context)
	if err != nil {
		return err
	}
	kinds, err := readBatch(context.Args().First())
	if err != nil {
		return err
	}

	engine, err := openEngine(context)
	if err != nil {
		return err
	}
	defer engine.Close()

	// the persisted state is never written by a verification
	ledger := engine.ledger.Clone()
	store := engine.store.Clone()
	if _, err := engine.processor.ProcessBatch(kinds, ledger, store); err != nil {
		return errors.Wrap(err, "batch failed")
	}
	got := state.ComputeStateRoot(ledger)
	if got != claimed {
		return &hclaw.StateRootMismatchError{Expected: claimed, Got: got}
	}
	fmt.Printf("verified root %v\n", got)
	return nil
}
