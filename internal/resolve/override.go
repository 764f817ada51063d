package resolve

import "context"

// OverrideStrategy consults the consolidated hand-curated override table.
// It runs before every other strategy so sentinel ZIPs and known-bad
// directory mappings win unconditionally.
type OverrideStrategy struct {
	tables *Tables
}

// NewOverrideStrategy creates the override strategy.
func NewOverrideStrategy(tables *Tables) *OverrideStrategy {
	return &OverrideStrategy{tables: tables}
}

// Name implements Strategy.
func (s *OverrideStrategy) Name() string { return "direct-override" }

// Resolve implements Strategy.
func (s *OverrideStrategy) Resolve(_ context.Context, q Query) (*Result, error) {
	o, ok := s.tables.Overrides[q.ZIP]
	if !ok {
		return nil, nil
	}
	return &Result{
		City:   o.City,
		State:  o.State,
		Source: SourceDirectOverride,
	}, nil
}
