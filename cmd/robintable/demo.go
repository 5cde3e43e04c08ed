package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newDemoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run a small scripted workload and print the table after each step.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDemo(cmd)
		},
	}
}

func (a *app) runDemo(cmd *cobra.Command) error {
	t, err := a.cfg.NewTable()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	dump := func() error {
		if err := t.Dump(out); err != nil {
			return err
		}
		_, err := fmt.Fprintln(out, "---")
		return err
	}

	if err := dump(); err != nil {
		return err
	}
	for key := uint32(0); key < 4; key++ {
		v, ok := t.Lookup(key)
		fmt.Fprintf(out, "GET %d = %d (%v)\n", key, v, ok)
	}

	keys := []uint32{0, 1, 2, 3, 8, 16}
	for round := uint32(0); round < 2; round++ {
		for _, key := range keys {
			outcome, err := t.Insert(key, round)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "PUT %d %d = %v\n", key, round, outcome)
		}
		if err := dump(); err != nil {
			return err
		}
	}

	for _, key := range []uint32{0, 3, 42} {
		v, ok := t.Delete(key)
		fmt.Fprintf(out, "DEL %d = %d (%v)\n", key, v, ok)
	}
	if err := dump(); err != nil {
		return err
	}

	st := t.Stats()
	a.log.Info("demo done",
		zap.Int("len", st.Len),
		zap.Int("capacity", st.Cap),
		zap.Float64("load_factor", st.LoadFactor),
		zap.Int("max_probe", st.MaxProbeDistance),
		zap.Int("grows", st.Grows))
	return nil
}
