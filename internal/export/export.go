// Package export materializes a normalized hierarchy as a directory
// tree: tier entries become directories named by their Label, branch
// entries become leaf JSON files, and summary.json records the run.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/structline/tiernorm/internal/log"
	"github.com/structline/tiernorm/tier"
)

const summaryFile = "summary.json"

// Options controls how the tree is written.
type Options struct {
	DirMode os.FileMode // permission bits for created directories
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{DirMode: 0o755}
}

// Tree writes the normalized document of res under dir. Levels named
// Tier1_List..TierN_List become nested directories keyed by each entry's
// Label; BranchesList entries become <label>.json files holding the
// entry record. A summary.json next to the tree carries the result
// envelope minus the data.
func Tree(fs billy.Filesystem, dir string, res *tier.Result, opts Options) error {
	if opts.DirMode == 0 {
		opts.DirMode = 0o755
	}
	if err := fs.MkdirAll(dir, opts.DirMode); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	if err := writeSummary(fs, dir, res); err != nil {
		return err
	}
	if err := writeLevel(fs, dir, res.TransformedData, opts); err != nil {
		return err
	}

	logger := log.WithComponent("export")
	logger.Info().
		Str("dir", dir).
		Str("structure", res.Structure).
		Msg("tree exported")
	return nil
}

func writeSummary(fs billy.Filesystem, dir string, res *tier.Result) error {
	envelope := map[string]any{
		"tierCount":         res.TierCount,
		"tierNames":         res.TierNames,
		"originalTierNames": res.OriginalTierNames,
		"structure":         res.Structure,
	}
	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	path := fs.Join(dir, summaryFile)
	if err := util.WriteFile(fs, path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// writeLevel descends through the canonical tier keys of value, creating
// one directory per non-branch entry and one file per branch entry.
func writeLevel(fs billy.Filesystem, dir string, value any, opts Options) error {
	obj, ok := value.(*tier.Object)
	if !ok {
		return nil
	}

	listKey, ok := firstListKey(obj)
	if !ok {
		return nil
	}
	branches := listKey == "BranchesList"

	entries := listEntries(obj, listKey)
	for i, entry := range entries {
		record, ok := entry.(*tier.Object)
		if !ok {
			continue
		}
		name := entryName(record, i)

		if branches {
			data, err := json.Marshal(record)
			if err != nil {
				return fmt.Errorf("marshal branch %s: %w", name, err)
			}
			path := fs.Join(dir, name+".json")
			if err := util.WriteFile(fs, path, append(data, '\n'), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			continue
		}

		sub := fs.Join(dir, name)
		if err := fs.MkdirAll(sub, opts.DirMode); err != nil {
			return fmt.Errorf("mkdir %s: %w", sub, err)
		}
		if err := writeLevel(fs, sub, record, opts); err != nil {
			return err
		}
	}
	return nil
}

func firstListKey(obj *tier.Object) (string, bool) {
	for _, k := range obj.Keys() {
		if strings.HasSuffix(k, "List") {
			return k, true
		}
	}
	return "", false
}

func listEntries(obj *tier.Object, key string) []any {
	v, _ := obj.Get(key)
	if seq, ok := v.([]any); ok {
		return seq
	}
	return []any{v}
}

func entryName(record *tier.Object, i int) string {
	if label, ok := record.Get("Label"); ok {
		if s := strings.TrimSpace(fmt.Sprint(label)); s != "" {
			return sanitizeName(s)
		}
	}
	return fmt.Sprintf("entry-%d", i)
}

func sanitizeName(s string) string {
	safe := strings.ReplaceAll(s, "/", "-")
	safe = strings.ReplaceAll(safe, "\\", "-")
	safe = strings.ReplaceAll(safe, ":", "-")
	safe = strings.ReplaceAll(safe, "*", "-")
	safe = strings.ReplaceAll(safe, "?", "-")
	safe = strings.ReplaceAll(safe, "\"", "-")
	safe = strings.ReplaceAll(safe, "<", "-")
	safe = strings.ReplaceAll(safe, ">", "-")
	safe = strings.ReplaceAll(safe, "|", "-")
	return safe
}
