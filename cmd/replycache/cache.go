package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newClearCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop every cached reply in the configured namespace",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, _, done, err := g.open(ctx)
			if err != nil {
				return err
			}
			defer done()

			if !a.Cache.ClearAll(ctx) {
				return errors.New("clear failed; see log for the backend error")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All cached replies cleared.")
			return nil
		},
	}
}

func newInvalidateCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "invalidate <message>",
		Short: "Drop the cached reply for one message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, _, done, err := g.open(ctx)
			if err != nil {
				return err
			}
			defer done()

			msg := strings.Join(args, " ")
			was, err := a.Cache.Invalidate(ctx, msg, a.Params)
			if err != nil {
				return err
			}
			key := a.Cache.Key(msg, a.Params)
			if was {
				fmt.Fprintf(cmd.OutOrStdout(), "Invalidated %s\n", key)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Nothing cached for %s\n", key)
			}
			return nil
		},
	}
}
