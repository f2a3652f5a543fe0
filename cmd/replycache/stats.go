package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/replycache"
)

func newStatsCmd(g *globals) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache and backend statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, _, done, err := g.open(ctx)
			if err != nil {
				return err
			}
			defer done()

			st := a.Cache.Stats(ctx)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(st)
			}
			return printStats(cmd.OutOrStdout(), st)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func printStats(out io.Writer, st replycache.Stats) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "enabled\t%t\n", st.Enabled)
	fmt.Fprintf(w, "hits\t%d\n", st.Hits)
	fmt.Fprintf(w, "misses\t%d\n", st.Misses)
	fmt.Fprintf(w, "sets\t%d\n", st.Sets)
	fmt.Fprintf(w, "errors\t%d\n", st.Errors)
	fmt.Fprintf(w, "hit_rate\t%.2f%%\n", st.HitRate)
	b := st.Backend
	fmt.Fprintf(w, "backend\t%s\n", b.Kind)
	fmt.Fprintf(w, "connected\t%t\n", b.Connected)
	if b.MaxSize > 0 {
		fmt.Fprintf(w, "size\t%d/%d (%.1f%%)\n", b.Size, b.MaxSize, b.Utilization)
	}
	if b.Keys > 0 || b.MemoryUsed != "" {
		fmt.Fprintf(w, "keys\t%d\n", b.Keys)
		fmt.Fprintf(w, "memory\t%s\n", b.MemoryUsed)
	}
	if b.Err != nil {
		fmt.Fprintf(w, "error\t%v\n", b.Err)
	}
	return w.Flush()
}
