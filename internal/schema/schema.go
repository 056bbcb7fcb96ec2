// Package schema validates raw execution-log documents against a CUE
// definition of the action-record shape. The JSON decoder in execlog is
// deliberately lenient (unknown fields pass, absent fields zero); this
// package is the strict complement, used by the validate command to explain
// exactly which field of which document is malformed.
package schema

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"
)

// actionSchema is the CUE shape of one execution-log document. Digest hashes
// are 64 lowercase hex characters; sizeBytes is a string-encoded integer
// (bare integers are tolerated, matching the decoder). Unknown top-level
// fields are allowed: log formats grow fields across build-tool versions.
const actionSchema = `
#Digest: {
	hash:             string & =~"^[0-9a-f]{64}$"
	sizeBytes:        string & =~"^[0-9]+$" | int & >=0
	hashFunctionName: string
	...
}

#File: {
	path:   string
	digest: #Digest
	...
}

#EnvVar: {
	name:  string
	value: string
	...
}

#Action: {
	environmentVariables?: [...#EnvVar]
	inputs?: [...#File]
	listedOutputs?: [...string]
	remotable?: bool
	cacheable?: bool
	actualOutputs?: [...#File]
	...
}
`

// Issue is one schema violation in one document.
type Issue struct {
	// Document is the zero-based ordinal of the offending document.
	Document int

	// Message describes the violation, including the CUE path to the
	// offending field where available.
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("document %d: %s", i.Document, i.Message)
}

// Validator checks raw documents against the action-record schema. It is
// immutable after construction and safe for concurrent use.
type Validator struct {
	ctx    *cue.Context
	action cue.Value
}

// NewValidator compiles the embedded schema.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(actionSchema)
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compile action schema: %w", err)
	}
	action := v.LookupPath(cue.ParsePath("#Action"))
	if err := action.Err(); err != nil {
		return nil, fmt.Errorf("lookup #Action: %w", err)
	}
	return &Validator{ctx: ctx, action: action}, nil
}

// CheckDocument validates one raw JSON document. doc is the document's
// ordinal within its log, used only for reporting. A document that fails to
// parse as JSON at all yields a single issue.
func (v *Validator) CheckDocument(doc int, data []byte) []Issue {
	expr, err := cuejson.Extract(fmt.Sprintf("doc-%d.json", doc), data)
	if err != nil {
		return []Issue{{Document: doc, Message: fmt.Sprintf("not valid JSON: %v", err)}}
	}
	val := v.ctx.BuildExpr(expr)
	if err := val.Err(); err != nil {
		return []Issue{{Document: doc, Message: err.Error()}}
	}

	unified := v.action.Unify(val)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		var issues []Issue
		for _, e := range cueerrors.Errors(err) {
			issues = append(issues, Issue{Document: doc, Message: e.Error()})
		}
		return issues
	}
	return nil
}

// CheckDocuments validates a sequence of raw documents (as produced by
// execlog.SplitDocuments) and returns all issues found, in document order.
func (v *Validator) CheckDocuments(docs [][]byte) []Issue {
	var issues []Issue
	for i, d := range docs {
		issues = append(issues, v.CheckDocument(i, d)...)
	}
	return issues
}
