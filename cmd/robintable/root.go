package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rip-create-your-account/robintable/internal/config"
	"github.com/rip-create-your-account/robintable/internal/logutil"
)

// app is what every subcommand gets after the flags and the config file
// have been sorted out.
type app struct {
	cfg config.Config
	log *zap.Logger

	configPath string
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.Default()}

	cmd := &cobra.Command{
		Use:   "robintable",
		Short: "Inspect, exercise and benchmark a Robin Hood hash table.",

		SilenceUsage: true,
	}

	defaults := config.Default()
	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "TOML config file")
	flags.Int("capacity", defaults.Table.InitialCapacity, "initial number of slots")
	flags.Float64("load-factor", defaults.Table.MaxLoadFactor, "max load factor, in (0, 1]")
	flags.Int("max-capacity", defaults.Table.MaxCapacity, "max number of slots, 0 for no limit")
	flags.String("log-level", defaults.Log.Level, "debug, info, warn or error")
	flags.String("log-format", defaults.Log.Format, "console or json")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return a.setup(cmd)
	}
	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if a.log != nil {
			_ = a.log.Sync()
		}
	}

	cmd.AddCommand(
		newDemoCmd(a),
		newGenCmd(a),
		newReplayCmd(a),
	)
	return cmd
}

// setup loads the config file, if any, and lets the flags that were set
// explicitly override it.
func (a *app) setup(cmd *cobra.Command) error {
	if a.configPath != "" {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	flags := cmd.Flags()
	var err error
	if flags.Changed("capacity") {
		a.cfg.Table.InitialCapacity, err = flags.GetInt("capacity")
	}
	if err == nil && flags.Changed("load-factor") {
		a.cfg.Table.MaxLoadFactor, err = flags.GetFloat64("load-factor")
	}
	if err == nil && flags.Changed("max-capacity") {
		a.cfg.Table.MaxCapacity, err = flags.GetInt("max-capacity")
	}
	if err == nil && flags.Changed("log-level") {
		a.cfg.Log.Level, err = flags.GetString("log-level")
	}
	if err == nil && flags.Changed("log-format") {
		a.cfg.Log.Format, err = flags.GetString("log-format")
	}
	if err != nil {
		return err
	}

	if err := a.cfg.Validate(); err != nil {
		return err
	}

	log, err := logutil.NewLogger(a.cfg.Log)
	if err != nil {
		return err
	}
	a.log = log.With(zap.String("cmd", cmd.Name()))
	return nil
}
