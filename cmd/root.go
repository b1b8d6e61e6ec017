package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/structline/tiernorm/internal/config"
	"github.com/structline/tiernorm/internal/ingest"
	"github.com/structline/tiernorm/internal/log"
)

const version = "0.1.0"

var (
	profilePath string
	logLevel    string
	logFormat   string
	inputFormat string
	outputPath  string
	pretty      bool
	dataOnly    bool

	// profile is the merged host profile, resolved in initHost before
	// any command runs.
	profile config.Profile
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&profilePath, "profile", "p", "", "Path to an HCL host profile")
	pf.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&logFormat, "log-format", "", "Log format (json, console)")
	pf.StringVar(&inputFormat, "format", "", "Input format when reading stdin (json, yaml)")
	pf.StringVarP(&outputPath, "output", "o", "", "Write output to a file instead of stdout")
	pf.BoolVar(&pretty, "pretty", false, "Indent JSON output")
	pf.BoolVar(&dataOnly, "data-only", false, "Emit only the transformed document, not the result envelope")
}

var rootCmd = &cobra.Command{
	Use:     "tiernorm [input]",
	Short:   "Tiernorm: canonical renaming for nested tiered-list documents",
	Long: `Tiernorm discovers the chain of <Name>List levels in a nested JSON or
YAML document and renames each level to the canonical Tier1_List,
Tier2_List, ..., BranchesList scheme, leaving the wrapped data intact.

Reads the given file, or stdin when the argument is "-" or absent.`,
	Version:           version,
	Args:              cobra.MaximumNArgs(1),
	PersistentPreRunE: initHost,
	RunE:              runNormalize,
}

// initHost resolves the profile and configures logging. Explicit flags
// win over the profile file, which wins over defaults.
func initHost(cmd *cobra.Command, args []string) error {
	profile = config.Default()
	if profilePath != "" {
		p, err := config.Load(profilePath)
		if err != nil {
			return err
		}
		profile = p
	}
	pf := cmd.Root().PersistentFlags()
	if pf.Changed("log-level") {
		profile.LogLevel = logLevel
	}
	if pf.Changed("log-format") {
		profile.LogFormat = logFormat
	}
	if pf.Changed("pretty") {
		profile.Pretty = pretty
	}
	if pf.Changed("data-only") {
		profile.DataOnly = dataOnly
	}

	log.Configure(log.Config{Level: profile.LogLevel, Format: profile.LogFormat})
	return nil
}

// loadDocument reads the input document from a file or stdin ("-" or
// empty path).
func loadDocument(path string) (any, error) {
	if path == "" || path == "-" {
		return ingest.LoadReader(os.Stdin, inputFormat)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	return ingest.Load(osfs.New("/"), abs)
}

// emitJSON renders v honoring the pretty profile option and writes it to
// the --output file or stdout.
func emitJSON(v any) error {
	var (
		data []byte
		err  error
	)
	if profile.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	data = append(data, '\n')

	if outputPath == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outputPath, err)
	}
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
