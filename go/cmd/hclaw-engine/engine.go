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
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/hapticPaper/hardclaw/go/config"
	"github.com/hapticPaper/hardclaw/go/database"
	"github.com/hapticPaper/hardclaw/go/hclaw"
	"github.com/hapticPaper/hardclaw/go/processor"
	"github.com/hapticPaper/hardclaw/go/sandbox/wasm"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const configKey = "config"

// setup resolves the configuration from the config file and the global
// flags and installs the root log handler.
func setup(context *cli.Context) error {
	cfg := config.Default()
	if path := ConfigFlag.Fetch(context); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return err
		}
	}
	if dir := DataDirFlag.Fetch(context); dir != "" {
		cfg.Database.Path = dir
	}
	if backend := BackendFlag.Fetch(context); backend != "" {
		cfg.Database.Backend = backend
	}
	if level := VerbosityFlag.Fetch(context); level != "" {
		cfg.Log.Level = level
	}
	if context.IsSet(MaxGasFlag.Name) {
		cfg.Engine.MaxGas = MaxGasFlag.Fetch(context)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, level, false)))

	if context.App.Metadata == nil {
		context.App.Metadata = map[string]any{}
	}
	context.App.Metadata[configKey] = cfg
	return nil
}

func getConfig(context *cli.Context) config.Config {
	if cfg, ok := context.App.Metadata[configKey].(config.Config); ok {
		return cfg
	}
	return config.Default()
}

// engine bundles the components needed to process transactions against the
// persisted state.
type engine struct {
	db        database.Database
	backend   *wasm.Backend
	processor *processor.Processor
	ledger    *hclaw.MemoryLedger
	store     *hclaw.MemoryStore
}

// openEngine opens the database, loads the persisted state and rebuilds the
// registry from the deployed contracts.
func openEngine(context *cli.Context) (*engine, error) {
	cfg := getConfig(context)

	db, err := database.Open(cfg.Database.Backend, cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	res := &engine{db: db}

	if cfg.Sandbox.Enabled {
		res.backend, err = wasm.NewBackend(cfg.SandboxConfig())
		if err != nil {
			res.Close()
			return nil, errors.Wrap(err, "failed to create sandbox")
		}
	}
	var sandbox hclaw.Loader
	if res.backend != nil {
		sandbox = res.backend
	}
	res.processor = processor.New(cfg.ProcessorConfig(), nil, hclaw.NewUniversalLoader(sandbox))

	if res.ledger, err = db.LoadLedger(); err != nil {
		res.Close()
		return nil, err
	}
	if res.store, err = db.LoadStore(); err != nil {
		res.Close()
		return nil, err
	}
	if err := res.processor.RestoreRegistry(res.store); err != nil {
		res.Close()
		return nil, err
	}
	return res, nil
}

// Save persists the current state.
func (e *engine) Save() error {
	return e.db.Save(e.ledger, e.store)
}

func (e *engine) Close() error {
	if e.backend != nil {
		e.backend.Close()
	}
	return e.db.Close()
}
