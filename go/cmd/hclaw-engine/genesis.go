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

	"github.com/ethereum/go-ethereum/log"
	"github.com/hapticPaper/hardclaw/go/contracts/governance"
	"github.com/hapticPaper/hardclaw/go/hclaw"
	"github.com/hapticPaper/hardclaw/go/state"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var InitCmd = cli.Command{
	Action:    doInit,
	Name:      "init",
	Usage:     "Initialize the state database from a genesis file",
	ArgsUsage: "<genesis.json>",
}

// Genesis describes the initial chain state. The governance contract is
// always installed; further system contracts are deployed by the system
// address.
//
//	{
//	  "accounts": [{"address": "0x..", "balance": "1000", "staked": "0", "nonce": 0}],
//	  "contracts": [{"code": "0x..", "init_data": "0x.."}, {"native": "native:transfer_v1"}]
//	}
type Genesis struct {
	Accounts  []GenesisAccount  `json:"accounts"`
	Contracts []GenesisContract `json:"contracts"`
}

type GenesisAccount struct {
	Address hclaw.Address `json:"address"`
	Balance hclaw.Amount  `json:"balance"`
	Staked  hclaw.Amount  `json:"staked"`
	Nonce   uint64        `json:"nonce"`
}

type GenesisContract struct {
	Code     hclaw.Data `json:"code,omitempty"`
	Native   string     `json:"native,omitempty"`
	InitData hclaw.Data `json:"init_data,omitempty"`
}

func (c GenesisContract) payload() []byte {
	if c.Native != "" {
		return []byte(c.Native)
	}
	return c.Code
}

func readJson(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "failed to read file")
	}
	if err := json.Unmarshal(data, target); err != nil {
		return errors.Wrapf(err, "failed to parse %s", path)
	}
	return nil
}

func doInit(context *cli.Context) error {
	if context.NArg() != 1 {
		return errors.New("expected the path of a genesis file")
	}
	var genesis Genesis
	if err := readJson(context.Args().First(), &genesis); err != nil {
		return err
	}

	engine, err := openEngine(context)
	if err != nil {
		return err
	}
	defer engine.Close()
	if engine.ledger.Len() > 0 || engine.store.Len() > 0 {
		return errors.New("state database is not empty")
	}

	for _, account := range genesis.Accounts {
		if account.Staked.Cmp(account.Balance) > 0 {
			return errors.Errorf("stake of %v exceeds its balance", account.Address)
		}
		if _, found := engine.ledger.GetAccount(account.Address); found {
			return errors.Errorf("duplicate genesis account %v", account.Address)
		}
		engine.ledger.SetAccount(account.Address, hclaw.Account{
			Balance: account.Balance,
			Staked:  account.Staked,
			Nonce:   account.Nonce,
		})
	}

	if _, err := engine.processor.InstallSystemContract(governance.ContractId, governance.Marker(), nil, engine.ledger, engine.store); err != nil {
		return errors.Wrap(err, "failed to install governance")
	}
	fmt.Printf("governance %v\n", governance.ContractId)

	for i, contract := range genesis.Contracts {
		result, err := engine.processor.ProcessTransaction(hclaw.Deploy{
			Code:     contract.payload(),
			InitData: contract.InitData,
			Deployer: hclaw.SystemAddress,
		}, engine.ledger, engine.store)
		if err != nil {
			return errors.Wrapf(err, "failed to deploy genesis contract %d", i)
		}
		fmt.Printf("contract   %v\n", hclaw.Id(result.Output))
	}

	if err := engine.Save(); err != nil {
		return err
	}
	root := state.ComputeStateRoot(engine.ledger)
	log.Info("Initialized state", "accounts", engine.ledger.Len(), "root", root)
	fmt.Printf("root       %v\n", root)
	return nil
}
