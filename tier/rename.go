package tier

import (
	"fmt"
	"slices"
	"strings"
)

// RenameKeys rewrites tier keys throughout data according to the chain
// positions in originalNames and returns a freshly built value. Matching
// is by name, not by tree position: any key "<Name>List" whose stripped
// name occurs in originalNames is renamed wherever it appears. The last
// chain position becomes "BranchesList", position i otherwise becomes
// "Tier{i+1}_List". Everything else passes through unchanged.
//
// Containers are rebuilt; scalars are shared with the input. No input
// shape is an error; the only failure is ErrCyclicStructure.
func RenameKeys(data any, originalNames []string) (any, error) {
	r := &renamer{names: originalNames, onPath: make(map[uintptr]bool)}
	out, err := r.walk(data)
	if err != nil {
		return nil, fmt.Errorf("rename keys: %w", err)
	}
	return out, nil
}

type renamer struct {
	names []string
	// onPath tracks containers on the current descent only, so shared
	// (diamond) substructure is fine and true cycles are not.
	onPath map[uintptr]bool
}

func (r *renamer) walk(v any) (any, error) {
	if id, ok := containerID(v); ok {
		if r.onPath[id] {
			return nil, ErrCyclicStructure
		}
		r.onPath[id] = true
		defer delete(r.onPath, id)
	}

	switch val := v.(type) {
	case *Object:
		out := NewObject()
		for k, child := range val.Pairs() {
			transformed, err := r.walk(child)
			if err != nil {
				return nil, err
			}
			out.Set(r.renameKey(k), transformed)
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			transformed, err := r.walk(child)
			if err != nil {
				return nil, err
			}
			out[r.renameKey(k)] = transformed
		}
		return out, nil
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			transformed, err := r.walk(child)
			if err != nil {
				return nil, err
			}
			out[i] = transformed
		}
		return out, nil
	default:
		return v, nil
	}
}

func (r *renamer) renameKey(key string) string {
	if !strings.HasSuffix(key, listSuffix) {
		return key
	}
	idx := slices.Index(r.names, strings.TrimSuffix(key, listSuffix))
	switch {
	case idx < 0:
		return key
	case idx == len(r.names)-1:
		return branchesName + listSuffix
	default:
		return fmt.Sprintf("Tier%d_%s", idx+1, listSuffix)
	}
}
