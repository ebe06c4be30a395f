package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/contact-cli/internal/send"
	"github.com/sells-group/contact-cli/internal/table"
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send messages for all pending rows",
	Long:  "Builds one message per pending row, delivers them to the server in sequential batches, and records a sent or error status on each row.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		tbl, err := table.Load(ctx, st)
		if err != nil {
			return err
		}

		driver := send.NewDriver(initGateway(), send.DriverOptions{
			BatchSize:  cfg.Send.BatchSize,
			RatePerSec: cfg.Send.RatePerSec,
			Progress: func(p send.Progress) {
				pct := 100
				if p.Total > 0 {
					pct = p.Processed * 100 / p.Total
				}
				fmt.Printf("Batch %d/%d (%d%%)\n", p.Batch, p.TotalBatches, pct)
			},
		})

		summary, err := send.Run(ctx, st, tbl, driver)
		if err != nil {
			return err
		}

		zap.L().Info("send complete",
			zap.Int("attempted", summary.Attempted),
			zap.Int("sent", summary.Sent),
			zap.Int("failed", summary.Failed))
		fmt.Printf("Sent %d of %d messages (%d failed)\n", summary.Sent, summary.Attempted, summary.Failed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
}
