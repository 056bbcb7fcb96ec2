// Package compare answers "what differs for this artifact across builds?"
// over two or more loaded execution logs.
//
// A Session owns the per-log indexes. Compare reports field-level divergence
// for a single artifact; TransitiveCompare follows mismatched-input edges
// concurrently to collect every divergence reachable from a root artifact;
// Edges narrows that aggregate to the likely root causes.
package compare
