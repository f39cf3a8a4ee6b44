package graft

// Location resolves any accepted "node or range" argument to a concrete
// Range, rejecting anything else with ErrInvalidArgument as spec.md §7
// requires ("non-node/non-range passed where a node is required").
func Location(v any) (Range, error) {
	switch x := v.(type) {
	case Range:
		if x.Start > x.End {
			return Range{}, invalidArgf("range start %d exceeds end %d", x.Start, x.End)
		}
		return x, nil
	case Node:
		if x == nil {
			return Range{}, invalidArgf("nil node")
		}
		return x.Range(), nil
	case Ranged:
		return x.Range(), nil
	default:
		return Range{}, invalidArgf("expected a Node or Range, got %T", v)
	}
}

// TextOf returns the source bytes an accepted node/range argument covers.
func TextOf(v any, source []byte) ([]byte, error) {
	r, err := Location(v)
	if err != nil {
		return nil, err
	}
	if r.End > uint32(len(source)) || r.Start > r.End {
		return nil, invalidArgf("range [%d,%d) out of bounds for source of length %d", r.Start, r.End, len(source))
	}
	return source[r.Start:r.End], nil
}
