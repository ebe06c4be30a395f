package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/contact-cli/internal/send"
	"github.com/sells-group/contact-cli/internal/vocab"
	"github.com/sells-group/contact-cli/pkg/gateway"
)

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Manage the wildcard and stage vocabulary",
	Long:  "Commands for refreshing the vocabulary from the server and inspecting the stored snapshots.",
}

var vocabRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch wildcards and stages from the server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		gw := initGateway()
		if gw == nil {
			return send.ErrNotConfigured
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		var wildcards, stages []gateway.Entry
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			wildcards, err = gw.ListWildcards(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			stages, err = gw.ListStages(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}

		if err := st.SaveVocab(ctx, vocab.KindWildcards, wildcards); err != nil {
			return err
		}
		if err := st.SaveVocab(ctx, vocab.KindStages, stages); err != nil {
			return err
		}

		zap.L().Info("vocabulary refreshed",
			zap.Int("wildcards", len(wildcards)),
			zap.Int("stages", len(stages)))
		fmt.Printf("Refreshed %d wildcards, %d stages\n", len(wildcards), len(stages))
		return nil
	},
}

var vocabListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the stored vocabulary snapshots",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		for _, kind := range []vocab.Kind{vocab.KindWildcards, vocab.KindStages} {
			entries, err := st.LoadVocab(ctx, kind)
			if err != nil {
				return err
			}
			fmt.Printf("%s (%d):\n", kind, len(entries))
			formatEntries(os.Stdout, entries)
		}
		return nil
	},
}

func formatEntries(out io.Writer, entries []gateway.Entry) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tNAME\tTYPE")
	for _, e := range entries {
		fmt.Fprintf(w, "  %s\t%s\t%s\n", e.ResolvedID(), e.Name, e.Type)
	}
	w.Flush() //nolint:errcheck
}

func init() {
	vocabCmd.AddCommand(vocabRefreshCmd)
	vocabCmd.AddCommand(vocabListCmd)
	rootCmd.AddCommand(vocabCmd)
}
