package tier

// Result is the outcome of a normalization run.
type Result struct {
	// TierCount is the number of ordinary (non-Branches) tiers.
	// -1 means nothing was discovered; see Chain.TierCount.
	TierCount int `json:"tierCount"`
	// TierNames are the canonical names, Tier1..TierN-1 plus Branches.
	TierNames []string `json:"tierNames"`
	// OriginalTierNames is the discovered chain, in discovery order.
	OriginalTierNames []string `json:"originalTierNames"`
	// Structure is the canonical names joined with " → ", display only.
	Structure string `json:"structure"`
	// TransformedData is the input with tier keys renamed.
	TransformedData any `json:"transformedData"`
}

// Normalize discovers the tier chain of data and renames its tier keys.
// When no chain is discovered the transformed data is structurally equal
// to the input (still freshly built).
func Normalize(data any) (*Result, error) {
	chain, err := DiscoverChain(data)
	if err != nil {
		return nil, err
	}
	transformed, err := RenameKeys(data, chain)
	if err != nil {
		return nil, err
	}
	return &Result{
		TierCount:         chain.TierCount(),
		TierNames:         chain.Canonical(),
		OriginalTierNames: append([]string{}, chain...),
		Structure:         chain.Structure(),
		TransformedData:   transformed,
	}, nil
}
