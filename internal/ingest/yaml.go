package ingest

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/structline/tiernorm/tier"
)

// decodeYAML converts a YAML document into the tiered model. Mappings
// become *tier.Object in document order, sequences []any, and numeric
// scalars json.Number so JSON re-serialization round-trips cleanly.
func decodeYAML(data []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil // empty document
	}
	w := &yamlWalker{onPath: make(map[*yaml.Node]bool)}
	v, err := w.value(doc.Content[0])
	if err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return v, nil
}

type yamlWalker struct {
	// onPath guards against recursive aliases (&a referenced inside its
	// own value), which yaml.v3 represents as a cyclic node graph.
	onPath map[*yaml.Node]bool
}

func (w *yamlWalker) value(n *yaml.Node) (any, error) {
	if w.onPath[n] {
		return nil, tier.ErrCyclicStructure
	}
	w.onPath[n] = true
	defer delete(w.onPath, n)

	switch n.Kind {
	case yaml.AliasNode:
		return w.value(n.Alias)
	case yaml.MappingNode:
		obj := tier.NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			val, err := w.value(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			obj.Set(key, val)
		}
		return obj, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := w.value(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.ScalarNode:
		return yamlScalar(n), nil
	default:
		return nil, fmt.Errorf("unexpected yaml node kind %d", n.Kind)
	}
}

func yamlScalar(n *yaml.Node) any {
	switch n.Tag {
	case "!!null":
		return nil
	case "!!bool":
		b, err := strconv.ParseBool(n.Value)
		if err != nil {
			return n.Value
		}
		return b
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return json.Number(strconv.FormatInt(i, 10))
		}
		return json.Number(n.Value)
	case "!!float":
		var f float64
		if err := n.Decode(&f); err == nil {
			return json.Number(strconv.FormatFloat(f, 'g', -1, 64))
		}
		return json.Number(n.Value)
	default:
		return n.Value
	}
}
