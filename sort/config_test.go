package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sortbench.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultConfigValid(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	require.Equal(t, []int{1000, 10000, 100000}, cfg.Bench.Sizes)
	require.Equal(t, allAlgorithms, cfg.Bench.Algorithms)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
[bench]
sizes = [10, 20]
runs = 2
algorithms = ["mergesort", "stdlib"]
storage = "kvdb"
file_threshold = 15

[store]
engine = "pebble"
path = "bench-pebble"

[log]
level = "debug"
format = "json"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Equal(t, []int{10, 20}, cfg.Bench.Sizes)
	require.Equal(t, 2, cfg.Bench.Runs)
	require.Equal(t, []string{"mergesort", "stdlib"}, cfg.Bench.Algorithms)
	require.Equal(t, storageKVDB, cfg.Bench.Storage)
	require.Equal(t, 15, cfg.Bench.FileThreshold)
	require.Equal(t, "pebble", cfg.Store.Engine)
	require.Equal(t, "json", cfg.Log.Format)
	// 지정하지 않은 값은 기본값 유지
	require.Equal(t, int64(42), cfg.Bench.Seed)
	require.Equal(t, ".", cfg.Output.Dir)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "[bench\nsizes = ["))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"empty sizes", func(c *Config) { c.Bench.Sizes = nil }},
		{"negative size", func(c *Config) { c.Bench.Sizes = []int{10, -1} }},
		{"zero runs", func(c *Config) { c.Bench.Runs = 0 }},
		{"no algorithms", func(c *Config) { c.Bench.Algorithms = nil }},
		{"unknown algorithm", func(c *Config) { c.Bench.Algorithms = []string{"quicksort"} }},
		{"unknown storage", func(c *Config) { c.Bench.Storage = "s3" }},
		{"unknown engine", func(c *Config) { c.Store.Engine = "rocksdb" }},
		{"empty store path", func(c *Config) { c.Store.Path = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestFlagsOverrideOnlyWhenSet(t *testing.T) {
	var f cliFlags
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.registerPersistent(fs)
	f.registerRun(fs)
	require.NoError(t, fs.Parse([]string{"--sizes", "5,6", "--engine", "badger", "-o", "/tmp/out"}))

	cfg := DefaultConfig()
	f.apply(fs, cfg)
	require.Equal(t, []int{5, 6}, cfg.Bench.Sizes)
	require.Equal(t, "badger", cfg.Store.Engine)
	require.Equal(t, "/tmp/out", cfg.Output.Dir)
	require.Equal(t, 3, cfg.Bench.Runs)
	require.Equal(t, storageFile, cfg.Bench.Storage)
}
