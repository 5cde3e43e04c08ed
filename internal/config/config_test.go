package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/rip-create-your-account/robintable"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "robintable.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	table, err := cfg.NewTable()
	require.NoError(t, err)
	require.Equal(t, 8, table.Cap())
	require.Equal(t, 0.75, table.MaxLoadFactor())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[table]
initial-capacity = 4
max-load-factor = 0.9
max-capacity = 64

[trace]
seed = 11
length = 50
delete-ratio = 0.25

[log]
level = "debug"
format = "json"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Equal(t, TableConfig{InitialCapacity: 4, MaxLoadFactor: 0.9, MaxCapacity: 64}, cfg.Table)
	// max-unique was not set, so it keeps the default
	require.Equal(t, TraceConfig{Seed: 11, MaxUnique: 100, Length: 50, DeleteRatio: 0.25}, cfg.Trace)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "json", cfg.Log.Format)

	gen := cfg.GenConfig()
	require.Equal(t, int64(11), gen.Seed)
	require.Equal(t, uint32(100), gen.MaxUnique)

	table, err := cfg.NewTable()
	require.NoError(t, err)
	for key := uint32(0); key < 57; key++ {
		_, err := table.Insert(key, key)
		require.NoError(t, err)
	}
	_, err = table.Insert(1000, 1)
	require.True(t, errors.Is(err, robintable.ErrCapacityExhausted), "%v", err)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "[table]\ninitial-capacity = \"lots\"\n"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "[table]\ninital-capacity = 4\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "table.inital-capacity")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		is     error
	}{
		{"zero capacity", func(c *Config) { c.Table.InitialCapacity = 0 }, robintable.ErrInvalidCapacity},
		{"load factor", func(c *Config) { c.Table.MaxLoadFactor = 1.5 }, robintable.ErrInvalidLoadFactor},
		{"max below initial", func(c *Config) { c.Table.MaxCapacity = 2 }, robintable.ErrInvalidCapacity},
		{"negative max", func(c *Config) { c.Table.MaxCapacity = -1 }, nil},
		{"negative length", func(c *Config) { c.Trace.Length = -1 }, nil},
		{"delete ratio", func(c *Config) { c.Trace.DeleteRatio = 2 }, nil},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, nil},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			if tt.is != nil {
				require.True(t, errors.Is(err, tt.is), "%v", err)
			}
		})
	}
}
