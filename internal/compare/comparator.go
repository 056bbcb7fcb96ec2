package compare

import "github.com/roach88/execdiff/internal/execlog"

// firstSeen tracks, per key, the value observed at first occurrence and how
// many records matched it exactly. A key is mismatched iff its match count
// differs from the number of records compared: either some record recorded a
// different value, or some record lacks the key entirely.
type firstSeen[V any] struct {
	value V
	count int
}

// Compare computes the field-level divergence of one artifact's action
// across logs. records holds the artifact's ActionRecord from each log, in
// any order; the result depends only on the records themselves.
//
// Environment bindings are keyed by name and compared by value. Inputs and
// actual outputs are keyed by path and compared by full digest equality,
// with each record's input list deduplicated by path first (an input
// legitimately repeated within one action counts once for that record).
func Compare(artifact string, records []*execlog.ActionRecord) Mismatches {
	n := len(records)
	envs := make(map[string]*firstSeen[string])
	inputs := make(map[string]*firstSeen[execlog.Digest])
	outputs := make(map[string]*firstSeen[execlog.Digest])

	for _, rec := range records {
		for _, e := range rec.Env {
			seen, ok := envs[e.Name]
			if !ok {
				seen = &firstSeen[string]{value: e.Value}
				envs[e.Name] = seen
			}
			if seen.value == e.Value {
				seen.count++
			}
		}

		countFiles(inputs, dedupeByPath(rec.Inputs))
		countFiles(outputs, rec.ActualOutputs)
	}

	m := NewMismatches()
	for name, seen := range envs {
		if seen.count != n {
			m.EnvVars.Add(name, artifact)
		}
	}
	for path, seen := range inputs {
		if seen.count != n {
			m.Inputs.Add(path, artifact)
		}
	}
	for path, seen := range outputs {
		if seen.count != n {
			m.Outputs.Add(path, artifact)
		}
	}
	return m
}

func countFiles(seen map[string]*firstSeen[execlog.Digest], files []execlog.FileRecord) {
	for _, f := range files {
		s, ok := seen[f.Path]
		if !ok {
			s = &firstSeen[execlog.Digest]{value: f.Digest}
			seen[f.Path] = s
		}
		if s.value.Equal(f.Digest) {
			s.count++
		}
	}
}

// dedupeByPath drops repeated paths from one record's input list, keeping
// the first occurrence of each.
func dedupeByPath(files []execlog.FileRecord) []execlog.FileRecord {
	seen := make(map[string]struct{}, len(files))
	out := make([]execlog.FileRecord, 0, len(files))
	for _, f := range files {
		if _, dup := seen[f.Path]; dup {
			continue
		}
		seen[f.Path] = struct{}{}
		out = append(out, f)
	}
	return out
}
