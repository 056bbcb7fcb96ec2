package compare

import "github.com/sahilm/fuzzy"

// suggest fuzzy-ranks candidates against pattern and returns the best
// matches, capped at limit.
func suggest(candidates []string, pattern string, limit int) []string {
	if pattern == "" || limit <= 0 {
		return nil
	}
	matches := fuzzy.Find(pattern, candidates)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Str
	}
	return out
}
