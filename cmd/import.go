package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/contact-cli/internal/sheet"
	"github.com/sells-group/contact-cli/internal/table"
	"github.com/sells-group/contact-cli/internal/vocab"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a contact spreadsheet",
	Long:  "Reads an .xlsx file, validates its headers and stage values against the stored vocabulary, and merges the rows into the contact table.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		file, _ := cmd.Flags().GetString("file")
		if file == "" {
			return eris.New("import: --file is required")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		wcEntries, err := st.LoadVocab(ctx, vocab.KindWildcards)
		if err != nil {
			return err
		}
		stEntries, err := st.LoadVocab(ctx, vocab.KindStages)
		if err != nil {
			return err
		}
		wildcards := vocab.NewIndex(wcEntries)
		stages := vocab.NewIndex(stEntries)

		contents, err := sheet.Read(file)
		if err != nil {
			return err
		}

		if err := sheet.Validate(contents, wildcards, stages); err != nil {
			return err
		}

		tbl, err := table.Load(ctx, st)
		if err != nil {
			return err
		}

		added, err := tbl.ImportSheet(ctx, contents)
		if err != nil {
			return err
		}

		zap.L().Info("import complete",
			zap.String("file", file),
			zap.Int("rows_added", added),
			zap.Int("rows_total", len(tbl.Table().Rows)))
		fmt.Printf("Imported %d rows (%d total)\n", added, len(tbl.Table().Rows))
		return nil
	},
}

func init() {
	importCmd.Flags().String("file", "", "path to the .xlsx spreadsheet")
	rootCmd.AddCommand(importCmd)
}
