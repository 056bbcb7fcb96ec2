// Package testutil builds synthetic execution logs for tests.
package testutil

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/roach88/execdiff/internal/execlog"
)

// DigestOf derives a deterministic digest from seed: the hash is
// SHA-256(seed) and the size is the seed's length. Different seeds give
// different digests, so tests can say "same content" or "different content"
// without spelling out 64 hex characters.
func DigestOf(seed string) execlog.Digest {
	return execlog.Digest{
		Hash:             sha256.Sum256([]byte(seed)),
		SizeBytes:        uint64(len(seed)),
		HashFunctionName: "SHA-256",
	}
}

// ActionBuilder assembles one ActionRecord fluently.
type ActionBuilder struct {
	rec execlog.ActionRecord
}

// Action starts a record that declares the given output paths and produces
// each of them with a digest seeded by the path itself (override with
// ActualOutput).
func Action(outputs ...string) *ActionBuilder {
	b := &ActionBuilder{}
	b.rec.Remotable = true
	b.rec.Cacheable = true
	for _, out := range outputs {
		b.rec.ListedOutputs = append(b.rec.ListedOutputs, out)
		b.rec.ActualOutputs = append(b.rec.ActualOutputs, execlog.FileRecord{Path: out, Digest: DigestOf(out)})
	}
	return b
}

// Env adds an environment binding.
func (b *ActionBuilder) Env(name, value string) *ActionBuilder {
	b.rec.Env = append(b.rec.Env, execlog.EnvVar{Name: name, Value: value})
	return b
}

// Input adds an input with a digest seeded by contentSeed.
func (b *ActionBuilder) Input(path, contentSeed string) *ActionBuilder {
	b.rec.Inputs = append(b.rec.Inputs, execlog.FileRecord{Path: path, Digest: DigestOf(contentSeed)})
	return b
}

// ActualOutput overrides the produced digest for an already-declared output
// path, or adds an undeclared actual output.
func (b *ActionBuilder) ActualOutput(path, contentSeed string) *ActionBuilder {
	for i, f := range b.rec.ActualOutputs {
		if f.Path == path {
			b.rec.ActualOutputs[i].Digest = DigestOf(contentSeed)
			return b
		}
	}
	b.rec.ActualOutputs = append(b.rec.ActualOutputs, execlog.FileRecord{Path: path, Digest: DigestOf(contentSeed)})
	return b
}

// NotCacheable marks the action non-cacheable.
func (b *ActionBuilder) NotCacheable() *ActionBuilder {
	b.rec.Cacheable = false
	return b
}

// Build returns the record.
func (b *ActionBuilder) Build() *execlog.ActionRecord {
	return &b.rec
}

// LogBytes serializes records as a concatenated-JSON execution log, the
// wire format ParseLog consumes.
func LogBytes(builders ...*ActionBuilder) []byte {
	var out []byte
	for _, b := range builders {
		doc, err := json.Marshal(wireAction(b.Build()))
		if err != nil {
			panic(fmt.Sprintf("marshal test action: %v", err))
		}
		out = append(out, doc...)
	}
	return out
}

// wireAction maps a record onto the external JSON field names.
func wireAction(rec *execlog.ActionRecord) map[string]any {
	env := make([]map[string]string, 0, len(rec.Env))
	for _, e := range rec.Env {
		env = append(env, map[string]string{"name": e.Name, "value": e.Value})
	}
	files := func(fs []execlog.FileRecord) []map[string]any {
		out := make([]map[string]any, 0, len(fs))
		for _, f := range fs {
			out = append(out, map[string]any{
				"path": f.Path,
				"digest": map[string]any{
					"hash":             f.Digest.Hash.String(),
					"sizeBytes":        fmt.Sprintf("%d", f.Digest.SizeBytes),
					"hashFunctionName": f.Digest.HashFunctionName,
				},
			})
		}
		return out
	}
	return map[string]any{
		"environmentVariables": env,
		"inputs":               files(rec.Inputs),
		"listedOutputs":        rec.ListedOutputs,
		"remotable":            rec.Remotable,
		"cacheable":            rec.Cacheable,
		"actualOutputs":        files(rec.ActualOutputs),
	}
}
