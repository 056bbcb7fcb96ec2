package execlog

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
)

// HashSize is the length in bytes of a content hash. Execution logs carry
// SHA-256 digests, rendered on the wire as 64 lowercase hex characters.
const HashSize = 32

// Hash is the fixed-length binary content hash of a file.
type Hash [HashSize]byte

// ParseHash decodes a lowercase hex string into a Hash.
func ParseHash(s string) (Hash, error) {
	var h Hash
	if len(s) != hex.EncodedLen(HashSize) {
		return h, fmt.Errorf("hash must be %d hex characters, got %d", hex.EncodedLen(HashSize), len(s))
	}
	if _, err := hex.Decode(h[:], []byte(s)); err != nil {
		return h, fmt.Errorf("invalid hash %q: %w", s, err)
	}
	return h, nil
}

// String renders the hash as lowercase hex. Parsing and re-rendering a hash
// is a round-trip identity.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Digest identifies a file's exact bytes: content hash, byte size, and the
// name of the hash function that produced the hash. Equality is exact
// structural equality of all three fields.
type Digest struct {
	Hash             Hash
	SizeBytes        uint64
	HashFunctionName string
}

// Equal reports whether two digests are structurally identical.
func (d Digest) Equal(o Digest) bool {
	return d.Hash == o.Hash && d.SizeBytes == o.SizeBytes && d.HashFunctionName == o.HashFunctionName
}

// digestWire mirrors the JSON shape of a digest. sizeBytes arrives as a
// string-encoded integer; bare numbers are accepted too.
type digestWire struct {
	Hash             string   `json:"hash"`
	SizeBytes        wireUint `json:"sizeBytes"`
	HashFunctionName string   `json:"hashFunctionName"`
}

type wireUint uint64

func (u *wireUint) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	n, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("sizeBytes: %w", err)
	}
	*u = wireUint(n)
	return nil
}

// UnmarshalJSON decodes the wire form of a digest.
func (d *Digest) UnmarshalJSON(data []byte) error {
	var w digestWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	h, err := ParseHash(w.Hash)
	if err != nil {
		return err
	}
	d.Hash = h
	d.SizeBytes = uint64(w.SizeBytes)
	d.HashFunctionName = w.HashFunctionName
	return nil
}

// MarshalJSON re-renders the digest in its wire form, sizeBytes as a
// string-encoded integer.
func (d Digest) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Hash             string `json:"hash"`
		SizeBytes        string `json:"sizeBytes"`
		HashFunctionName string `json:"hashFunctionName"`
	}{
		Hash:             d.Hash.String(),
		SizeBytes:        strconv.FormatUint(d.SizeBytes, 10),
		HashFunctionName: d.HashFunctionName,
	})
}

// FileRecord is one input or output reference inside an action.
type FileRecord struct {
	Path   string `json:"path"`
	Digest Digest `json:"digest"`
}

// EnvVar is a single environment binding recorded for an action.
type EnvVar struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ActionRecord is one build step's recorded context. Records are never
// mutated after parse, so concurrent readers need no synchronization.
//
// Inputs may legitimately contain duplicate paths; consumers that count
// inputs deduplicate per record. ListedOutputs are the paths the action
// declares; ActualOutputs are what it produced, with digests.
type ActionRecord struct {
	Env           []EnvVar     `json:"environmentVariables"`
	Inputs        []FileRecord `json:"inputs"`
	ListedOutputs []string     `json:"listedOutputs"`
	Remotable     bool         `json:"remotable"`
	Cacheable     bool         `json:"cacheable"`
	ActualOutputs []FileRecord `json:"actualOutputs"`

	// Raw is the original document slice the record was decoded from,
	// retained for raw-JSON dumps and schema validation.
	Raw json.RawMessage `json:"-"`
}

// EnvValue returns the value bound to name, if the record binds it.
func (a *ActionRecord) EnvValue(name string) (string, bool) {
	for _, e := range a.Env {
		if e.Name == name {
			return e.Value, true
		}
	}
	return "", false
}

// Input returns the first input record with the given path.
func (a *ActionRecord) Input(path string) (FileRecord, bool) {
	return findFile(a.Inputs, path)
}

// ActualOutput returns the actual output record with the given path.
func (a *ActionRecord) ActualOutput(path string) (FileRecord, bool) {
	return findFile(a.ActualOutputs, path)
}

func findFile(files []FileRecord, path string) (FileRecord, bool) {
	for _, f := range files {
		if f.Path == path {
			return f, true
		}
	}
	return FileRecord{}, false
}

// Log is one fully loaded execution log: its parsed records and the index
// from output path to producing record.
type Log struct {
	Name    string
	Records []*ActionRecord
	Index   *LogIndex
}
