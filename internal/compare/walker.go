package compare

import "sync"

// walker performs the concurrent transitive expansion over the graph induced
// by "artifact → its mismatched input paths".
//
// The visited set and the aggregate result sets are the only mutable shared
// state; both sit behind one mutex held only for a single check-and-insert
// or merge. Two branches may race between lookup and markVisited and compare
// the same artifact twice; that is benign, because Compare is a pure
// function of its records and the aggregates are sets, so the duplicate
// merge is an idempotent union. Termination follows from the visited set
// growing strictly over a finite artifact universe.
type walker struct {
	session *Session

	wg sync.WaitGroup

	mu      sync.Mutex
	visited map[string]struct{}
	agg     Mismatches
}

// TransitiveCompare aggregates every mismatch reachable from root by
// recursively following mismatched-input edges. It never fails: artifacts
// absent from one or more logs (the root included) end their branch
// silently, contributing nothing.
//
// Repeated invocations over the same logs return equal sets regardless of
// goroutine scheduling.
func (s *Session) TransitiveCompare(root string) Mismatches {
	w := &walker{
		session: s,
		visited: make(map[string]struct{}),
		agg:     NewMismatches(),
	}
	w.wg.Add(1)
	go w.walk(root)
	w.wg.Wait()
	return w.agg
}

// Edges approximates the root causes of root's divergence: the transitive
// aggregate with intermediate artifacts (paths that are both a mismatched
// input and a mismatched output) filtered from both file sets.
func (s *Session) Edges(root string) Mismatches {
	return s.TransitiveCompare(root).Frontier()
}

func (w *walker) walk(artifact string) {
	defer w.wg.Done()

	if w.seen(artifact) {
		return
	}

	records, err := w.session.Lookup(artifact)
	if err != nil {
		// Missing from one or more logs: nothing to compare on this branch.
		return
	}

	// Mark before recursing to minimize duplicate concurrent expansion.
	w.markVisited(artifact)

	m := Compare(artifact, records)
	w.merge(m)

	for _, input := range m.Inputs.Sorted() {
		w.wg.Add(1)
		go w.walk(input)
	}
}

func (w *walker) seen(artifact string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.visited[artifact]
	return ok
}

func (w *walker) markVisited(artifact string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.visited[artifact] = struct{}{}
}

func (w *walker) merge(m Mismatches) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.agg.Merge(m)
}
