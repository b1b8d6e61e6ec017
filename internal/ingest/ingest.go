// Package ingest loads input documents into the tiered value model.
//
// All file access goes through a billy.Filesystem so tests can run
// against memfs. JSON decodes through tier's ordered codec; YAML is
// walked as a yaml.Node tree so mapping keys keep document order.
package ingest

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/structline/tiernorm/tier"
)

// Load reads the document at path, dispatching on the file extension.
// Supported: .json, .yaml, .yml.
func Load(fs billy.Filesystem, path string) (any, error) {
	data, err := util.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		return tier.DecodeBytes(data)
	case ".yaml", ".yml":
		return decodeYAML(data)
	default:
		return nil, fmt.Errorf("unsupported document extension %q", ext)
	}
}

// LoadReader decodes a document from r. format is "json" or "yaml".
func LoadReader(r io.Reader, format string) (any, error) {
	switch format {
	case "json", "":
		return tier.Decode(r)
	case "yaml", "yml":
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read document: %w", err)
		}
		return decodeYAML(data)
	default:
		return nil, fmt.Errorf("unsupported document format %q", format)
	}
}
