// Package config holds the settings of the robintable command.
package config

import (
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/rip-create-your-account/robintable"
	"github.com/rip-create-your-account/robintable/internal/logutil"
	"github.com/rip-create-your-account/robintable/internal/trace"
)

type Config struct {
	Table TableConfig       `toml:"table"`
	Trace TraceConfig       `toml:"trace"`
	Log   logutil.LogConfig `toml:"log"`
}

type TableConfig struct {
	InitialCapacity int     `toml:"initial-capacity"`
	MaxLoadFactor   float64 `toml:"max-load-factor"`
	// 0 means no limit
	MaxCapacity int `toml:"max-capacity"`
}

type TraceConfig struct {
	Seed        int64   `toml:"seed"`
	MaxUnique   uint32  `toml:"max-unique"`
	Length      int     `toml:"length"`
	DeleteRatio float64 `toml:"delete-ratio"`
}

// Default returns the config used when nothing else is said.
func Default() Config {
	return Config{
		Table: TableConfig{
			InitialCapacity: 8,
			MaxLoadFactor:   0.75,
		},
		Trace: TraceConfig{
			MaxUnique: 100,
			Length:    1000,
		},
		Log: logutil.LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads the TOML file at path on top of the defaults. Keys that the
// config doesn't know about are an error, typos shouldn't go unnoticed.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrapf(err, "loading config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.Errorf("loading config %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}

// Validate checks the config with the same rules that the table and the
// logger use.
func (c *Config) Validate() error {
	if _, err := c.NewTable(); err != nil {
		return err
	}
	if c.Table.MaxCapacity < 0 {
		return errors.Errorf("max-capacity must not be negative, got %d", c.Table.MaxCapacity)
	}
	if c.Trace.Length < 0 {
		return errors.Errorf("trace length must not be negative, got %d", c.Trace.Length)
	}
	if !(c.Trace.DeleteRatio >= 0 && c.Trace.DeleteRatio <= 1) {
		return errors.Errorf("delete-ratio must be in [0, 1], got %v", c.Trace.DeleteRatio)
	}
	return c.Log.Validate()
}

// NewTable makes an empty table as configured.
func (c *Config) NewTable() (*robintable.Table, error) {
	var opts []robintable.Option
	if c.Table.MaxCapacity > 0 {
		opts = append(opts, robintable.WithMaxCapacity(c.Table.MaxCapacity))
	}
	return robintable.New(c.Table.InitialCapacity, c.Table.MaxLoadFactor, opts...)
}

func (c *Config) GenConfig() trace.GenConfig {
	return trace.GenConfig{
		Seed:        c.Trace.Seed,
		MaxUnique:   c.Trace.MaxUnique,
		Length:      c.Trace.Length,
		DeleteRatio: c.Trace.DeleteRatio,
	}
}
