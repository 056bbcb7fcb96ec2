package execlog

import (
	"errors"
	"fmt"
	"strings"
)

// ParseError reports that one document slice of a log failed to decode.
//
// A ParseError is fatal for the whole log: no partial index is produced,
// and a load session that requires the log cannot proceed.
type ParseError struct {
	// Log is the name of the log file being parsed.
	Log string

	// Document is the zero-based ordinal of the failing document slice.
	Document int

	// Offset is the byte offset of the failing slice within the log.
	Offset int

	// Err is the underlying decode error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: document %d (offset %d): %v", e.Log, e.Document, e.Offset, e.Err)
}

// Unwrap returns the underlying decode error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsParseError reports whether err is (or wraps) a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// NotFoundError reports that a queried artifact is absent from at least one
// log's index. It is non-fatal and scoped to the single query: no comparison
// is performed, and the caller may continue issuing queries.
type NotFoundError struct {
	// Artifact is the queried output path.
	Artifact string

	// Missing lists the log names whose index lacks the artifact.
	Missing []string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("`%s` not found in 1 or more execution logs", e.Artifact)
	if len(e.Missing) > 0 {
		msg += " (missing from: " + strings.Join(e.Missing, ", ") + ")"
	}
	return msg
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
