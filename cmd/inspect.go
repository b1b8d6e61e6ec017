package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/structline/tiernorm/internal/inspect"
)

var inspectJSON bool

var inspectCmd = &cobra.Command{
	Use:   "inspect [input]",
	Short: "Show a document's discovered tier chain and per-level statistics",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := ""
		if len(args) > 0 {
			input = args[0]
		}

		doc, err := loadDocument(input)
		if err != nil {
			return err
		}
		report, err := inspect.Build(doc)
		if err != nil {
			return err
		}

		if inspectJSON {
			return emitJSON(report)
		}

		if len(report.Levels) == 0 {
			fmt.Println("No tier hierarchy discovered.")
			return nil
		}
		fmt.Printf("Structure: %s\n", report.Structure)
		fmt.Println("Levels:")
		for _, level := range report.Levels {
			line := fmt.Sprintf("  %s → %s (%d entries", level.Name, level.Canonical, level.Count)
			if len(level.SampleLabels) > 0 {
				line += "; labels: " + strings.Join(level.SampleLabels, ", ")
			}
			fmt.Println(line + ")")
		}
		return nil
	},
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "Emit the report as JSON")
	rootCmd.AddCommand(inspectCmd)
}
