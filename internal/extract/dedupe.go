package extract

// Dedupe collapses fragments sharing a LocationKey, keeping the first
// occurrence. Traversal order within a file is deterministic, so the
// survivor is the one found by the earliest pass. Running Dedupe on an
// already-deduplicated list is a no-op.
func Dedupe(fragments []Fragment) []Fragment {
	if len(fragments) == 0 {
		return fragments
	}
	seen := make(map[string]bool, len(fragments))
	out := make([]Fragment, 0, len(fragments))
	for _, f := range fragments {
		if seen[f.LocationKey] {
			continue
		}
		seen[f.LocationKey] = true
		out = append(out, f)
	}
	return out
}
