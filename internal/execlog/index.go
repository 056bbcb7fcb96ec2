package execlog

import "sort"

// LogIndex maps each declared output path in one log to the ActionRecord
// that produced it. When more than one record declares the same output path
// the last record wins and the path is remembered as ambiguous; this is a
// warning condition, not an error, and the index stays usable.
//
// An index is built once at load time and is read-only afterwards, so it may
// be shared freely across goroutines.
type LogIndex struct {
	byOutput  map[string]*ActionRecord
	ambiguous map[string]struct{}
}

// BuildIndex indexes the given records by their declared output paths.
func BuildIndex(records []*ActionRecord) *LogIndex {
	idx := &LogIndex{
		byOutput:  make(map[string]*ActionRecord),
		ambiguous: make(map[string]struct{}),
	}
	for _, rec := range records {
		for _, out := range rec.ListedOutputs {
			if _, exists := idx.byOutput[out]; exists {
				idx.ambiguous[out] = struct{}{}
			}
			idx.byOutput[out] = rec
		}
	}
	return idx
}

// Lookup returns the record owning the given output path.
func (x *LogIndex) Lookup(path string) (*ActionRecord, bool) {
	rec, ok := x.byOutput[path]
	return rec, ok
}

// Len returns the number of distinct output paths in the index.
func (x *LogIndex) Len() int {
	return len(x.byOutput)
}

// Ambiguous returns the sorted set of output paths declared by more than one
// record.
func (x *LogIndex) Ambiguous() []string {
	return sortedKeys(x.ambiguous)
}

// Outputs returns all indexed output paths, sorted.
func (x *LogIndex) Outputs() []string {
	paths := make([]string, 0, len(x.byOutput))
	for p := range x.byOutput {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
