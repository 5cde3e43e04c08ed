package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/rip-create-your-account/robintable/internal/trace"
)

func newReplayCmd(a *app) *cobra.Command {
	var dump bool
	cmd := &cobra.Command{
		Use:   "replay <file>",
		Short: "Replay a trace against a fresh table and check every result.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runReplay(cmd, args[0], dump)
		},
	}
	cmd.Flags().BoolVar(&dump, "dump", false, "print the table when done")
	return cmd
}

func (a *app) runReplay(cmd *cobra.Command, path string, dump bool) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "opening trace")
	}
	ops, err := trace.Parse(f)
	f.Close()
	if err != nil {
		return err
	}

	t, err := a.cfg.NewTable()
	if err != nil {
		return err
	}

	res, err := trace.Replay(cmd.Context(), t, ops, a.log)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ops=%d puts=%d gets=%d dels=%d mismatches=%d\n", res.Ops, res.Puts, res.Gets, res.Dels, res.Mismatches)
	if dump {
		if err := t.Dump(out); err != nil {
			return err
		}
	}
	return err
}
