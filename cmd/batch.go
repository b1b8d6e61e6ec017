package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/structline/tiernorm/internal/store"
)

var batchTable string

var batchCmd = &cobra.Command{
	Use:   "batch [in.db] [out.db]",
	Short: "Normalize every record in a SQLite store",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		inPath, outPath := args[0], args[1]

		table := profile.Table
		if cmd.Flags().Changed("table") {
			table = batchTable
		}

		start := time.Now()
		fmt.Printf("Normalizing %s into %s...\n", inPath, outPath)
		stats, err := store.Batch(inPath, outPath, table)
		if err != nil {
			return err
		}
		fmt.Printf("Done in %v: %d records normalized, %d skipped, %d tier names indexed.\n",
			time.Since(start), stats.Processed, stats.Skipped, stats.TierNames)
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchTable, "table", "results", "Input table holding (id, record) rows")
	rootCmd.AddCommand(batchCmd)
}
