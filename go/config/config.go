// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package config provides the TOML configuration of the engine.
package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/log"
	"github.com/hapticPaper/hardclaw/go/database"
	"github.com/hapticPaper/hardclaw/go/hclaw"
	"github.com/hapticPaper/hardclaw/go/processor"
	"github.com/hapticPaper/hardclaw/go/sandbox/wasm"
	"github.com/pkg/errors"
)

// Config is the complete engine configuration. An example file:
//
//	[engine]
//	max_gas = 10000000
//
//	[sandbox]
//	enabled = true
//	timeout = "2s"
//	memory_limit_pages = 256
//	cache_size = 64
//	host_call_gas = 100
//
//	[database]
//	backend = "leveldb"
//	path = "data/state"
//
//	[log]
//	level = "info"
type Config struct {
	Engine   Engine   `toml:"engine"`
	Sandbox  Sandbox  `toml:"sandbox"`
	Database Database `toml:"database"`
	Log      Log      `toml:"log"`
}

type Engine struct {
	MaxGas uint64 `toml:"max_gas"`
}

type Sandbox struct {
	Enabled          bool          `toml:"enabled"`
	Timeout          time.Duration `toml:"timeout"`
	MemoryLimitPages uint32        `toml:"memory_limit_pages"`
	CacheSize        int           `toml:"cache_size"`
	HostCallGas      uint64        `toml:"host_call_gas"`
}

type Database struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
}

type Log struct {
	Level string `toml:"level"`
}

// Default returns the configuration used for values not set in a file.
func Default() Config {
	return Config{
		Engine: Engine{
			MaxGas: uint64(processor.DefaultMaxGas),
		},
		Sandbox: Sandbox{
			Enabled:          true,
			Timeout:          wasm.DefaultTimeout,
			MemoryLimitPages: wasm.DefaultMemoryLimitPages,
			CacheSize:        wasm.DefaultCacheSize,
			HostCallGas:      uint64(wasm.DefaultHostCallGas),
		},
		Database: Database{
			Backend: database.LevelDbBackend,
			Path:    "data/state",
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Load reads the given TOML file on top of the default configuration.
// Unknown keys are rejected.
func Load(path string) (Config, error) {
	res := Default()
	meta, err := toml.DecodeFile(path, &res)
	if err != nil {
		return Config{}, errors.Wrapf(err, "failed to parse config file %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return Config{}, errors.Errorf("unknown keys in config file %s: %s", path, strings.Join(keys, ", "))
	}
	if err := res.Validate(); err != nil {
		return Config{}, errors.Wrapf(err, "invalid config file %s", path)
	}
	return res, nil
}

// Validate checks the consistency of the configuration.
func (c Config) Validate() error {
	if c.Engine.MaxGas == 0 {
		return errors.New("engine.max_gas must be positive")
	}
	if c.Sandbox.Timeout < 0 {
		return errors.New("sandbox.timeout must not be negative")
	}
	if c.Sandbox.CacheSize < 0 {
		return errors.New("sandbox.cache_size must not be negative")
	}
	switch c.Database.Backend {
	case database.LevelDbBackend:
		if c.Database.Path == "" {
			return errors.New("database.path is required by the leveldb backend")
		}
	case database.MemoryBackend:
	default:
		return errors.Errorf("unknown database.backend %q", c.Database.Backend)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel returns the configured log level.
func (c Config) LogLevel() (slog.Level, error) {
	switch strings.ToLower(c.Log.Level) {
	case "trace", "trce":
		return log.LevelTrace, nil
	case "debug", "dbug":
		return log.LevelDebug, nil
	case "info":
		return log.LevelInfo, nil
	case "warn":
		return log.LevelWarn, nil
	case "error", "eror":
		return log.LevelError, nil
	case "crit":
		return log.LevelCrit, nil
	}
	return 0, errors.Errorf("invalid log.level %q", c.Log.Level)
}

// ProcessorConfig returns the configuration of the transaction processor.
func (c Config) ProcessorConfig() processor.Config {
	return processor.Config{MaxGas: hclaw.Gas(c.Engine.MaxGas)}
}

// SandboxConfig returns the configuration of the wasm backend.
func (c Config) SandboxConfig() wasm.Config {
	return wasm.Config{
		Timeout:          c.Sandbox.Timeout,
		MemoryLimitPages: c.Sandbox.MemoryLimitPages,
		CacheSize:        c.Sandbox.CacheSize,
		HostCallGas:      hclaw.Gas(c.Sandbox.HostCallGas),
	}
}
