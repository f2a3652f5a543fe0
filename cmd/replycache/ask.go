package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newAskCmd(g *globals) *cobra.Command {
	var repeat int
	cmd := &cobra.Command{
		Use:   "ask <message>",
		Short: "Answer one message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, zl, done, err := g.open(ctx)
			if err != nil {
				return err
			}
			defer done()

			msg := strings.Join(args, " ")
			for i := 0; i < max(repeat, 1); i++ {
				id := uuid.NewString()
				reply, err := a.Generate(ctx, msg)
				if err != nil {
					zl.Error("generate failed", zap.String("request_id", id), zap.Error(err))
					return err
				}
				zl.Debug("reply ready", zap.String("request_id", id), zap.Int("len", len(reply)))
				fmt.Fprintln(cmd.OutOrStdout(), reply)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&repeat, "repeat", 1, "ask the same message n times (shows cache hits within one process)")
	return cmd
}
