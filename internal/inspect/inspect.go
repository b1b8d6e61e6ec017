// Package inspect computes read-only diagnostics for a tiered document.
//
// It pairs tier's chain discovery with JSONPath queries over a plain
// (unordered) parse of the same document to report per-level entry
// counts and sample labels. Nothing here feeds the transformation.
package inspect

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/structline/tiernorm/tier"
)

const maxSampleLabels = 3

// Level describes one discovered tier level.
type Level struct {
	// Name is the original tier name, Canonical its replacement.
	Name      string `json:"name"`
	Canonical string `json:"canonical"`
	// Path is the JSONPath selecting this level's entries.
	Path string `json:"path"`
	// Count is the number of entries matched at this level.
	Count int `json:"count"`
	// SampleLabels holds up to three Label values seen at this level.
	SampleLabels []string `json:"sampleLabels,omitempty"`
}

// Report summarizes the discovered hierarchy of a document.
type Report struct {
	OriginalTierNames []string `json:"originalTierNames"`
	TierNames         []string `json:"tierNames"`
	Structure         string   `json:"structure"`
	Levels            []Level  `json:"levels"`
}

// Build discovers the document's tier chain and gathers statistics for
// each level.
func Build(doc any) (*Report, error) {
	chain, err := tier.DiscoverChain(doc)
	if err != nil {
		return nil, err
	}

	plain, err := plainValue(doc)
	if err != nil {
		return nil, err
	}

	canonical := chain.Canonical()
	report := &Report{
		OriginalTierNames: append([]string{}, chain...),
		TierNames:         canonical,
		Structure:         chain.Structure(),
		Levels:            make([]Level, 0, len(chain)),
	}

	path := "$"
	for i, name := range chain {
		path += fmt.Sprintf("['%s'][*]", escapePathKey(name+"List"))
		x, err := jp.ParseString(path)
		if err != nil {
			return nil, fmt.Errorf("invalid jsonpath '%s': %w", path, err)
		}
		matches := x.Get(plain)

		report.Levels = append(report.Levels, Level{
			Name:         name,
			Canonical:    canonical[i],
			Path:         path,
			Count:        len(matches),
			SampleLabels: sampleLabels(matches),
		})
	}
	return report, nil
}

// plainValue re-parses the ordered document as plain Go values for the
// JSONPath engine, which walks map[string]any and []any.
func plainValue(doc any) (any, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	v, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("reparse document: %w", err)
	}
	return v, nil
}

func sampleLabels(matches []any) []string {
	var labels []string
	for _, m := range matches {
		if len(labels) == maxSampleLabels {
			break
		}
		entry, ok := m.(map[string]any)
		if !ok {
			continue
		}
		if label, ok := entry["Label"]; ok {
			labels = append(labels, fmt.Sprint(label))
		}
	}
	return labels
}

func escapePathKey(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}
