package cmd

import (
	"github.com/spf13/cobra"

	"github.com/structline/tiernorm/tier"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize [input]",
	Short: "Normalize a document's tier keys (same as the bare root command)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runNormalize,
}

func runNormalize(cmd *cobra.Command, args []string) error {
	input := ""
	if len(args) > 0 {
		input = args[0]
	}

	doc, err := loadDocument(input)
	if err != nil {
		return err
	}
	res, err := tier.Normalize(doc)
	if err != nil {
		return err
	}

	if profile.DataOnly {
		return emitJSON(res.TransformedData)
	}
	return emitJSON(res)
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
}
