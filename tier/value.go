package tier

import (
	"errors"
	"maps"
	"reflect"
	"slices"
)

// ErrCyclicStructure is returned when a value's container graph contains
// a cycle. JSON-decoded values can never trigger it; programmatically
// built ones can.
var ErrCyclicStructure = errors.New("cyclic structure")

// mappingKeys returns the keys of v in its iteration order, or ok=false
// if v is not a mapping. *Object iterates in insertion order; a plain
// map[string]any has no defined order, so its keys are sorted to keep
// discovery deterministic.
func mappingKeys(v any) ([]string, bool) {
	switch m := v.(type) {
	case *Object:
		return m.Keys(), true
	case map[string]any:
		return slices.Sorted(maps.Keys(m)), true
	default:
		return nil, false
	}
}

func mappingGet(v any, key string) (any, bool) {
	switch m := v.(type) {
	case *Object:
		return m.Get(key)
	case map[string]any:
		val, ok := m[key]
		return val, ok
	default:
		return nil, false
	}
}

// containerID returns a stable identity for container values, used by the
// cycle guards. Empty sequences get no identity: they hold no children and
// cannot close a cycle, and their data pointers are not unique.
func containerID(v any) (uintptr, bool) {
	switch v.(type) {
	case *Object, map[string]any:
		return reflect.ValueOf(v).Pointer(), true
	case []any:
		rv := reflect.ValueOf(v)
		if rv.Len() == 0 {
			return 0, false
		}
		return rv.Pointer(), true
	default:
		return 0, false
	}
}
