package tier

import (
	"fmt"
	"strings"
)

const (
	listSuffix = "List"
	labelKey   = "Label"

	// branchesName is the canonical name of the deepest tier.
	branchesName = "Branches"

	structureSeparator = " → " // " → "
)

// Chain is the ordered list of original tier names discovered by walking
// a tiered value from the root. Position in the chain determines the
// canonical replacement name.
type Chain []string

// TierCount is the number of ordinary tiers: the deepest level is always
// "Branches" and excluded. An empty chain yields -1; callers wanting 0
// must special-case it.
func (c Chain) TierCount() int {
	return len(c) - 1
}

// Canonical maps each chain position to its canonical name: Tier1,
// Tier2, ... for all but the last position, which is always Branches.
func (c Chain) Canonical() []string {
	names := make([]string, len(c))
	for i := range c {
		if i == len(c)-1 {
			names[i] = branchesName
		} else {
			names[i] = fmt.Sprintf("Tier%d", i+1)
		}
	}
	return names
}

// Structure renders the canonical names joined with an arrow, for human
// display only.
func (c Chain) Structure() string {
	return strings.Join(c.Canonical(), structureSeparator)
}

// DiscoverChain walks data from the root collecting the tier chain.
//
// At each mapping it takes the first key (iteration order) ending in
// "List", records the suffix-stripped name, and resolves the key's value
// to the next level: the first element if the value is a sequence, the
// value itself otherwise. The walk continues only while that next level
// is a mapping containing a key literally named "Label"; any other shape
// ends the walk with the just-recorded name as the deepest tier. No
// input shape is an error; the only failure is ErrCyclicStructure.
func DiscoverChain(data any) (Chain, error) {
	var chain Chain
	visited := make(map[uintptr]bool)

	cur := data
	for {
		keys, ok := mappingKeys(cur)
		if !ok {
			break
		}
		if id, hasID := containerID(cur); hasID {
			if visited[id] {
				return nil, fmt.Errorf("discover chain: %w", ErrCyclicStructure)
			}
			visited[id] = true
		}

		listKey := ""
		found := false
		for _, k := range keys {
			if strings.HasSuffix(k, listSuffix) {
				listKey = k
				found = true
				break
			}
		}
		if !found {
			break
		}
		chain = append(chain, strings.TrimSuffix(listKey, listSuffix))

		val, _ := mappingGet(cur, listKey)
		next := val
		if seq, isSeq := val.([]any); isSeq {
			if len(seq) == 0 {
				break
			}
			next = seq[0]
		}
		if _, isLabeled := mappingGet(next, labelKey); !isLabeled {
			break
		}
		cur = next
	}
	return chain, nil
}
