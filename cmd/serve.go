package cmd

import (
	"github.com/spf13/cobra"

	"github.com/structline/tiernorm/internal/agent"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the normalizer as MCP tools on stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return agent.Serve(version)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
