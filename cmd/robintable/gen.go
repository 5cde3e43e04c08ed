package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rip-create-your-account/robintable/internal/config"
	"github.com/rip-create-your-account/robintable/internal/trace"
)

func newGenCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen [file]",
		Short: "Generate a random trace. Writes to stdout without a file.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			var err error
			if flags.Changed("seed") {
				a.cfg.Trace.Seed, err = flags.GetInt64("seed")
			}
			if err == nil && flags.Changed("length") {
				a.cfg.Trace.Length, err = flags.GetInt("length")
			}
			if err == nil && flags.Changed("max-unique") {
				a.cfg.Trace.MaxUnique, err = flags.GetUint32("max-unique")
			}
			if err == nil && flags.Changed("delete-ratio") {
				a.cfg.Trace.DeleteRatio, err = flags.GetFloat64("delete-ratio")
			}
			if err != nil {
				return err
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			return a.runGen(cmd, args)
		},
	}

	defaults := config.Default()
	flags := cmd.Flags()
	flags.Int64("seed", defaults.Trace.Seed, "PRNG seed")
	flags.Int("length", defaults.Trace.Length, "number of operations")
	flags.Uint32("max-unique", defaults.Trace.MaxUnique, "number of distinct keys")
	flags.Float64("delete-ratio", defaults.Trace.DeleteRatio, "fraction of deletes")
	return cmd
}

func (a *app) runGen(cmd *cobra.Command, args []string) error {
	ops := trace.Generate(a.cfg.GenConfig())

	if len(args) == 0 {
		return trace.Write(cmd.OutOrStdout(), ops)
	}

	f, err := os.Create(args[0])
	if err != nil {
		return errors.Wrap(err, "creating trace file")
	}
	if err := trace.Write(f, ops); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "closing trace file")
	}

	a.log.Info("trace written",
		zap.String("path", args[0]),
		zap.Int("ops", len(ops)),
		zap.Int64("seed", a.cfg.Trace.Seed))
	return nil
}
