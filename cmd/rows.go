package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/contact-cli/internal/model"
	"github.com/sells-group/contact-cli/internal/table"
)

var rowsCmd = &cobra.Command{
	Use:   "rows",
	Short: "Inspect and edit the contact table",
	Long:  "Commands for listing rows, deleting a single row, and clearing sent or all rows.",
}

var rowsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List contact rows",
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

		t := tbl.Table()
		if len(t.Rows) == 0 {
			fmt.Fprintln(os.Stderr, "No rows.")
			return nil
		}

		status, _ := cmd.Flags().GetString("status")
		formatRows(os.Stdout, t, model.RowStatus(status))
		return nil
	},
}

func formatRows(out io.Writer, t *model.Table, filter model.RowStatus) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "#\tSTATUS\t%s\n", strings.Join(t.Headers, "\t"))
	for i, row := range t.Rows {
		if filter != "" && row.Status != filter {
			continue
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, row.Status, strings.Join(row.Values, "\t"))
	}
	w.Flush() //nolint:errcheck
}

var rowsDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a single row by its position",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		index, _ := cmd.Flags().GetInt("index")
		if index < 1 {
			return eris.New("rows delete: --index must be 1 or greater")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		tbl, err := table.Load(ctx, st)
		if err != nil {
			return err
		}

		if err := tbl.DeleteRow(ctx, index-1); err != nil {
			return err
		}

		fmt.Printf("Deleted row %d (%d remaining)\n", index, len(tbl.Table().Rows))
		return nil
	},
}

var rowsClearSentCmd = &cobra.Command{
	Use:   "clear-sent",
	Short: "Remove all rows already marked sent",
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

		before := len(tbl.Table().Rows)
		if err := tbl.ClearSent(ctx); err != nil {
			return err
		}

		fmt.Printf("Removed %d sent rows (%d remaining)\n", before-len(tbl.Table().Rows), len(tbl.Table().Rows))
		return nil
	},
}

var rowsClearAllCmd = &cobra.Command{
	Use:   "clear-all",
	Short: "Remove every row and all headers",
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

		if err := tbl.ClearAll(ctx); err != nil {
			return err
		}

		fmt.Println("Cleared the contact table")
		return nil
	},
}

func init() {
	rowsListCmd.Flags().String("status", "", "filter by status (pending, sent, error)")
	rowsDeleteCmd.Flags().Int("index", 0, "1-based row position to delete")

	rowsCmd.AddCommand(rowsListCmd)
	rowsCmd.AddCommand(rowsDeleteCmd)
	rowsCmd.AddCommand(rowsClearSentCmd)
	rowsCmd.AddCommand(rowsClearAllCmd)
	rootCmd.AddCommand(rowsCmd)
}
