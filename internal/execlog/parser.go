package execlog

import "encoding/json"

// progressStride is how many scanned bytes elapse between progress callbacks.
const progressStride = 64 * 1024

// SplitDocuments splits a raw log into its constituent JSON documents.
//
// Execution logs are tricky since they're composed of concatenated JSON
// objects with no separator:
//
//	{ "foo": true, ... }{ "foo": false, ... }
//
// Each occurrence of the two-byte sequence `}{` is treated as the end of one
// document and the start of the next; the final document runs to end of
// input. This heuristic is unsound if a string field's value itself contains
// the literal substring `}{` (for example an artifact path); such logs split
// at the wrong place and fail to decode. An empty input yields a single
// empty document.
func SplitDocuments(data []byte) [][]byte {
	var docs [][]byte
	scanDocuments(data, nil, func(doc []byte, offset int) error {
		docs = append(docs, doc)
		return nil
	})
	return docs
}

// scanDocuments walks data once, invoking emit for each document slice with
// its starting byte offset and progress (if non-nil) roughly every
// progressStride scanned bytes plus once at end of input. Scanning stops at
// the first emit error.
func scanDocuments(data []byte, progress func(offset int), emit func(doc []byte, offset int) error) error {
	prev := 0
	for curr := 0; curr+1 < len(data); curr++ {
		if data[curr] == '}' && data[curr+1] == '{' {
			if err := emit(data[prev:curr+1], prev); err != nil {
				return err
			}
			prev = curr + 1
		}
		if progress != nil && curr%progressStride == 0 && curr > 0 {
			progress(curr)
		}
	}
	if err := emit(data[prev:], prev); err != nil {
		return err
	}
	if progress != nil {
		progress(len(data))
	}
	return nil
}

// ParseLog decodes one log's full byte content into a Log with its index
// built. Any document that fails to decode aborts the whole load with a
// *ParseError; there is no partial recovery. progress is an optional hook
// receiving byte offsets as scanning advances; nil disables it.
//
// The returned Log retains sub-slices of data (record Raw fields), so the
// caller must not mutate data afterwards.
func ParseLog(name string, data []byte, progress func(offset int)) (*Log, error) {
	var records []*ActionRecord
	doc := 0
	err := scanDocuments(data, progress, func(slice []byte, offset int) error {
		rec := &ActionRecord{}
		if err := json.Unmarshal(slice, rec); err != nil {
			return &ParseError{Log: name, Document: doc, Offset: offset, Err: err}
		}
		rec.Raw = json.RawMessage(slice)
		records = append(records, rec)
		doc++
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Log{Name: name, Records: records, Index: BuildIndex(records)}, nil
}
