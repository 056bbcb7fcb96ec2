package compare

import "sort"

// Set is a deduplicated collection of mismatched keys (environment variable
// names or artifact paths). Each key carries the artifact whose comparison
// reported it, so a renderer can look the surrounding action back up; when
// concurrent walker branches report the same key, the first attribution to
// land is kept. Set membership is what the comparison guarantees;
// attribution is auxiliary.
type Set map[string]string

// Add records key as mismatched, attributed to artifact. The first
// attribution for a key wins.
func (s Set) Add(key, artifact string) {
	if _, ok := s[key]; !ok {
		s[key] = artifact
	}
}

// Has reports whether key is in the set.
func (s Set) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Artifact returns the artifact attributed to key.
func (s Set) Artifact(key string) string {
	return s[key]
}

// Sorted returns the keys in sorted order.
func (s Set) Sorted() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// merge folds other into s, keeping existing attributions.
func (s Set) merge(other Set) {
	for k, a := range other {
		s.Add(k, a)
	}
}

// Mismatches holds the three disjoint result sets of a comparison: the
// mismatched environment variable names, input paths, and output paths.
// The sets are unordered and duplicate-free; a result depends only on the
// records compared, never on their arrival order.
type Mismatches struct {
	EnvVars Set
	Inputs  Set
	Outputs Set
}

// NewMismatches returns an empty result.
func NewMismatches() Mismatches {
	return Mismatches{EnvVars: Set{}, Inputs: Set{}, Outputs: Set{}}
}

// Empty reports whether no mismatch of any kind was found.
func (m Mismatches) Empty() bool {
	return len(m.EnvVars) == 0 && len(m.Inputs) == 0 && len(m.Outputs) == 0
}

// Merge folds other into m.
func (m Mismatches) Merge(other Mismatches) {
	m.EnvVars.merge(other.EnvVars)
	m.Inputs.merge(other.Inputs)
	m.Outputs.merge(other.Outputs)
}

// Frontier strips intermediate artifacts from an aggregated result: a path
// present as both a mismatched input and a mismatched output is someone's
// explanation and someone else's symptom, so it is removed from both sets.
// What remains approximates the root-cause frontier of the divergence; it is
// a heuristic, not a proven-minimal cut.
func (m Mismatches) Frontier() Mismatches {
	out := NewMismatches()
	out.EnvVars.merge(m.EnvVars)
	for k, a := range m.Inputs {
		if !m.Outputs.Has(k) {
			out.Inputs.Add(k, a)
		}
	}
	for k, a := range m.Outputs {
		if !m.Inputs.Has(k) {
			out.Outputs.Add(k, a)
		}
	}
	return out
}
