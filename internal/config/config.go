// Package config loads the optional host profile for the tiernorm CLI.
//
// A profile is a small HCL file carrying output, logging, batch, and
// export preferences. The renaming convention itself is fixed and
// deliberately not configurable.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/hclsimple"
)

// Profile is the decoded host profile.
type Profile struct {
	// Pretty indents JSON output.
	Pretty bool `hcl:"pretty,optional"`
	// DataOnly emits only the transformed document, not the envelope.
	DataOnly bool `hcl:"data_only,optional"`
	// LogLevel is the zerolog level name ("debug", "info", ...).
	LogLevel string `hcl:"log_level,optional"`
	// LogFormat selects "json" or "console" log output.
	LogFormat string `hcl:"log_format,optional"`
	// Table is the input table read by batch runs.
	Table string `hcl:"table,optional"`
	// DirMode is the permission bits for exported directories.
	DirMode uint32 `hcl:"dir_mode,optional"`
}

// Default returns the profile used when no file is given.
func Default() Profile {
	return Profile{
		LogLevel:  "info",
		LogFormat: "json",
		Table:     "results",
		DirMode:   0o755,
	}
}

// Load decodes the profile at path over the defaults. Absent optional
// attributes keep their default values.
func Load(path string) (Profile, error) {
	p := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read profile: %w", err)
	}
	decoded := Profile{}
	if err := hclsimple.Decode(path, data, nil, &decoded); err != nil {
		return p, fmt.Errorf("parse profile %s: %w", path, err)
	}
	p.Pretty = decoded.Pretty
	p.DataOnly = decoded.DataOnly
	if decoded.LogLevel != "" {
		p.LogLevel = decoded.LogLevel
	}
	if decoded.LogFormat != "" {
		p.LogFormat = decoded.LogFormat
	}
	if decoded.Table != "" {
		p.Table = decoded.Table
	}
	if decoded.DirMode != 0 {
		p.DirMode = decoded.DirMode
	}
	return p, nil
}
