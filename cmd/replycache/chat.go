package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newChatCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Read messages from stdin, one per line, until EOF or /quit",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, zl, done, err := g.open(ctx)
			if err != nil {
				return err
			}
			defer done()

			out := cmd.OutOrStdout()
			sc := bufio.NewScanner(cmd.InOrStdin())
			fmt.Fprint(out, "> ")
			for sc.Scan() {
				line := strings.TrimSpace(sc.Text())
				switch line {
				case "/quit", "/exit":
					return nil
				case "/stats":
					_ = printStats(out, a.Cache.Stats(ctx))
				default:
					id := uuid.NewString()
					reply, err := a.Generate(ctx, line)
					if err != nil {
						zl.Warn("generate failed", zap.String("request_id", id), zap.Error(err))
						fmt.Fprintln(out, "Sorry, I couldn't answer that just now.")
					} else {
						fmt.Fprintln(out, reply)
					}
				}
				fmt.Fprint(out, "> ")
			}
			return sc.Err()
		},
	}
}
