package schema

// Deduplicate removes results sharing a (reference, text) key, keeping the
// first occurrence in input order. The input slice is not modified.
func Deduplicate(results []RetrievalResult) []RetrievalResult {
	if len(results) == 0 {
		return nil
	}
	seen := make(map[ResultKey]struct{}, len(results))
	out := make([]RetrievalResult, 0, len(results))
	for _, r := range results {
		key := r.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}
