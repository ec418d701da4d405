// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/hapticPaper/hardclaw/go/database"
	"github.com/hapticPaper/hardclaw/go/hclaw"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "engine.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	config := Default()
	require.NoError(t, config.Validate())
	require.Equal(t, uint64(10_000_000), config.Engine.MaxGas)
	require.True(t, config.Sandbox.Enabled)
	require.Equal(t, 2*time.Second, config.Sandbox.Timeout)
	require.Equal(t, database.LevelDbBackend, config.Database.Backend)
}

func TestLoad_OverlaysFileOnDefaults(t *testing.T) {
	path := writeConfig(t, `
[engine]
max_gas = 500000

[sandbox]
timeout = "150ms"
cache_size = 8

[database]
backend = "memory"

[log]
level = "debug"
`)
	config, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, uint64(500_000), config.Engine.MaxGas)
	require.Equal(t, 150*time.Millisecond, config.Sandbox.Timeout)
	require.Equal(t, 8, config.Sandbox.CacheSize)
	require.Equal(t, uint32(256), config.Sandbox.MemoryLimitPages)
	require.Equal(t, database.MemoryBackend, config.Database.Backend)

	level, err := config.LogLevel()
	require.NoError(t, err)
	require.Equal(t, slog.LevelDebug, level)

	require.Equal(t, hclaw.Gas(500_000), config.ProcessorConfig().MaxGas)
	require.Equal(t, hclaw.Gas(100), config.SandboxConfig().HostCallGas)
}

func TestLoad_RejectsInvalidFiles(t *testing.T) {
	tests := map[string]struct {
		content string
		message string
	}{
		"syntax error": {
			content: "[engine\nmax_gas = 1",
			message: "failed to parse",
		},
		"unknown key": {
			content: "[engine]\nmax_gaz = 1",
			message: "unknown keys",
		},
		"zero max gas": {
			content: "[engine]\nmax_gas = 0",
			message: "max_gas",
		},
		"negative cache": {
			content: "[sandbox]\ncache_size = -1",
			message: "cache_size",
		},
		"unknown backend": {
			content: "[database]\nbackend = \"badger\"",
			message: "unknown database.backend",
		},
		"leveldb without path": {
			content: "[database]\nbackend = \"leveldb\"\npath = \"\"",
			message: "database.path",
		},
		"bad log level": {
			content: "[log]\nlevel = \"loud\"",
			message: "log.level",
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, test.content))
			require.ErrorContains(t, err, test.message)
		})
	}
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestLogLevel_MapsAllLevelNames(t *testing.T) {
	tests := map[string]slog.Level{
		"trace": log.LevelTrace,
		"debug": log.LevelDebug,
		"info":  log.LevelInfo,
		"warn":  log.LevelWarn,
		"error": log.LevelError,
		"crit":  log.LevelCrit,
		"INFO":  log.LevelInfo,
	}
	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			config := Default()
			config.Log.Level = name
			level, err := config.LogLevel()
			require.NoError(t, err)
			require.Equal(t, want, level)
		})
	}
}

func TestLogLevel_RejectsUnknownNames(t *testing.T) {
	for _, name := range []string{"", "verbose", "5"} {
		config := Default()
		config.Log.Level = name
		_, err := config.LogLevel()
		require.ErrorContains(t, err, "invalid log.level")
	}
}
