package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"github.com/supplyline/supplyline/jobs"
)

func newLowStockCommand() *cobra.Command {
	var (
		threshold int
		enqueue   bool
	)
	cmd := &cobra.Command{
		Use:   "lowstock",
		Short: "List inventory items below the low-stock threshold",
		Long: `List inventory items whose quantity is strictly below the threshold.

With --enqueue the scan is handed to the worker queue instead of running here.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			rt, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()

			if threshold <= 0 {
				threshold = rt.services.Inventory.Threshold()
			}
			out := cmd.OutOrStdout()

			if enqueue {
				client := jobs.NewClient(asynq.RedisClientOpt{Addr: rt.cfg.RedisAddr})
				defer client.Close()
				info, err := client.EnqueueLowStockScan(ctx, threshold)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(out, "enqueued %s as %s on %s\n", jobs.TaskLowStockScan, info.ID, info.Queue)
				return err
			}

			items, err := rt.services.Inventory.LowStock(ctx, threshold)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tITEM\tQUANTITY\tSUPPLIER")
			for _, item := range items {
				fmt.Fprintf(tw, "%d\t%s\t%d\t%d\n", item.ID, item.Name, item.Quantity, item.SupplierID)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "%d item(s) below %d\n", len(items), threshold)
			return err
		},
	}
	cmd.Flags().IntVar(&threshold, "threshold", 0, "quantity threshold; defaults to LOW_STOCK_THRESHOLD")
	cmd.Flags().BoolVar(&enqueue, "enqueue", false, "enqueue a scan for the worker instead of printing")
	return cmd
}
