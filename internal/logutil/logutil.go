// Package logutil builds the zap loggers used by the command.
package logutil

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LogConfig struct {
	Level string `toml:"level"`
	// "console" or "json"
	Format string `toml:"format"`
}

func (cfg *LogConfig) Validate() error {
	if _, err := cfg.getLevel(); err != nil {
		return err
	}
	if _, err := cfg.getEncoder(); err != nil {
		return err
	}
	return nil
}

func (cfg *LogConfig) getLevel() (zap.AtomicLevel, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(cfg.Level)); err != nil {
		return zap.AtomicLevel{}, errors.Wrapf(err, "bad log level %q", cfg.Level)
	}
	return zap.NewAtomicLevelAt(lvl), nil
}

func (cfg *LogConfig) getEncoder() (zapcore.Encoder, error) {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	switch cfg.Format {
	case "", "console":
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewConsoleEncoder(encCfg), nil
	case "json":
		return zapcore.NewJSONEncoder(encCfg), nil
	default:
		return nil, errors.Errorf("bad log format %q", cfg.Format)
	}
}

// NewLogger makes a logger that writes to stderr.
func NewLogger(cfg LogConfig) (*zap.Logger, error) {
	return newLogger(cfg, zapcore.Lock(os.Stderr))
}

func newLogger(cfg LogConfig, out zapcore.WriteSyncer) (*zap.Logger, error) {
	level, err := cfg.getLevel()
	if err != nil {
		return nil, err
	}
	enc, err := cfg.getEncoder()
	if err != nil {
		return nil, err
	}
	core := zapcore.NewCore(enc, out, level)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.FatalLevel)), nil
}
