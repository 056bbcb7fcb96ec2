package execlog

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHex = "a665a45920422f9d417e4867efdc4fb8a04a1f3fff1fa07e998e86f7f7a27ae3"

func TestParseHash_RoundTrip(t *testing.T) {
	h, err := ParseHash(sampleHex)
	require.NoError(t, err)
	assert.Equal(t, sampleHex, h.String())
}

func TestHash_StringIs64LowercaseHex(t *testing.T) {
	var h Hash
	for i := range h {
		h[i] = byte(255 - i)
	}
	s := h.String()
	assert.Len(t, s, 64)
	assert.Equal(t, strings.ToLower(s), s)
	// And back again.
	parsed, err := ParseHash(s)
	require.NoError(t, err)
	assert.Equal(t, h, parsed)
}

func TestParseHash_Rejects(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"too short", "abcd"},
		{"too long", sampleHex + "00"},
		{"non-hex", strings.Repeat("zz", 32)},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHash(tt.in)
			assert.Error(t, err)
		})
	}
}

func TestDigest_UnmarshalStringSizeBytes(t *testing.T) {
	var d Digest
	err := json.Unmarshal([]byte(`{"hash":"`+sampleHex+`","sizeBytes":"1234","hashFunctionName":"SHA-256"}`), &d)
	require.NoError(t, err)
	assert.Equal(t, uint64(1234), d.SizeBytes)
	assert.Equal(t, "SHA-256", d.HashFunctionName)
	assert.Equal(t, sampleHex, d.Hash.String())
}

func TestDigest_UnmarshalBareNumberSizeBytes(t *testing.T) {
	var d Digest
	err := json.Unmarshal([]byte(`{"hash":"`+sampleHex+`","sizeBytes":1234,"hashFunctionName":"SHA-256"}`), &d)
	require.NoError(t, err)
	assert.Equal(t, uint64(1234), d.SizeBytes)
}

func TestDigest_JSONRoundTrip(t *testing.T) {
	h, err := ParseHash(sampleHex)
	require.NoError(t, err)
	orig := Digest{Hash: h, SizeBytes: 42, HashFunctionName: "SHA-256"}

	data, err := json.Marshal(orig)
	require.NoError(t, err)
	assert.JSONEq(t, `{"hash":"`+sampleHex+`","sizeBytes":"42","hashFunctionName":"SHA-256"}`, string(data))

	var back Digest
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, orig.Equal(back))
}

func TestDigest_Equal(t *testing.T) {
	h, err := ParseHash(sampleHex)
	require.NoError(t, err)
	base := Digest{Hash: h, SizeBytes: 10, HashFunctionName: "SHA-256"}

	same := base
	assert.True(t, base.Equal(same))

	diffSize := base
	diffSize.SizeBytes = 11
	assert.False(t, base.Equal(diffSize))

	diffFn := base
	diffFn.HashFunctionName = "BLAKE3"
	assert.False(t, base.Equal(diffFn))

	diffHash := base
	diffHash.Hash[0] ^= 1
	assert.False(t, base.Equal(diffHash))
}

func TestDigest_UnmarshalRejectsBadHash(t *testing.T) {
	var d Digest
	err := json.Unmarshal([]byte(`{"hash":"abcd","sizeBytes":"1","hashFunctionName":"SHA-256"}`), &d)
	assert.Error(t, err)
}
