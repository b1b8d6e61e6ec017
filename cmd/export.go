package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/structline/tiernorm/internal/export"
	"github.com/structline/tiernorm/tier"
)

var exportCmd = &cobra.Command{
	Use:   "export [input] [dir]",
	Short: "Materialize the normalized hierarchy as a directory tree",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, dir := args[0], args[1]

		doc, err := loadDocument(input)
		if err != nil {
			return err
		}
		res, err := tier.Normalize(doc)
		if err != nil {
			return err
		}

		abs, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", dir, err)
		}
		opts := export.Options{DirMode: os.FileMode(profile.DirMode)}
		if err := export.Tree(osfs.New("/"), abs, res, opts); err != nil {
			return err
		}

		fmt.Printf("Exported %s hierarchy to %s\n", res.Structure, dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
