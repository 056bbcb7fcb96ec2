// Package execlog models Bazel-style execution logs: per-action records of
// environment, inputs, and outputs with content digests, serialized as
// concatenated JSON objects with no separator between documents.
//
// The package covers the read path only: splitting a raw log into documents,
// decoding each document into an ActionRecord, and indexing records by the
// output paths they declare. Records are immutable after parse and are shared
// by reference across indexes and concurrent comparisons.
package execlog
