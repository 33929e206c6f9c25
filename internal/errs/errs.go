// Package errs defines the wallet's error taxonomy. Every failure below the
// command router resolves to one of these types and propagates unchanged;
// the router prints a single line and resumes the interactive loop.
package errs

import (
	"fmt"
	"strings"
)

// DecodeError indicates that raw account bytes do not match the expected
// schema. It is fatal to the current operation and never retried.
type DecodeError struct {
	Schema string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s: %v", e.Schema, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode wraps err as a DecodeError for the named schema.
func Decode(schema string, err error) *DecodeError {
	return &DecodeError{Schema: schema, Err: err}
}

// Decodef creates a DecodeError with a formatted cause.
func Decodef(schema string, format string, args ...interface{}) *DecodeError {
	return &DecodeError{Schema: schema, Err: fmt.Errorf(format, args...)}
}

// Detail is one named value attached to a validation rejection. Rejections
// carry the conflicting values (expected vs. supplied authority, required
// vs. current epoch) so the operator can see exactly what mismatched.
type Detail struct {
	Key   string
	Value string
}

// Rejection is a failed precondition check. The rule names which check
// failed; details preserve insertion order for deterministic messages.
type Rejection struct {
	Rule    string
	Details []Detail
}

func (e *Rejection) Error() string {
	if len(e.Details) == 0 {
		return e.Rule
	}
	parts := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		parts = append(parts, d.Key+"="+d.Value)
	}
	return fmt.Sprintf("%s (%s)", e.Rule, strings.Join(parts, ", "))
}

// Detail returns the value recorded under key, or "" if absent.
func (e *Rejection) Detail(key string) string {
	for _, d := range e.Details {
		if d.Key == key {
			return d.Value
		}
	}
	return ""
}

// Reject builds a Rejection from a rule name and alternating key/value pairs.
func Reject(rule string, kv ...string) *Rejection {
	r := &Rejection{Rule: rule}
	for i := 0; i+1 < len(kv); i += 2 {
		r.Details = append(r.Details, Detail{Key: kv[i], Value: kv[i+1]})
	}
	return r
}

// GatewayError indicates a network, transport, or ledger-RPC failure while
// reading state. Surfaced verbatim, never retried automatically.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// Gateway wraps err as a GatewayError for the named RPC operation.
func Gateway(op string, err error) *GatewayError {
	return &GatewayError{Op: op, Err: err}
}

// SubmissionError indicates a transaction rejected at or after broadcast:
// expired blockhash, duplicate signature, insufficient fee-payer balance at
// submission time, or a program-level instruction error. The builder does
// not retry; the first failure surfaces with whatever detail the ledger
// returned.
type SubmissionError struct {
	Signature string
	Err       error
}

func (e *SubmissionError) Error() string {
	if e.Signature != "" {
		return fmt.Sprintf("transaction %s failed: %v", e.Signature, e.Err)
	}
	return fmt.Sprintf("transaction submission failed: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// Submission wraps err as a SubmissionError for the given signature.
func Submission(signature string, err error) *SubmissionError {
	return &SubmissionError{Signature: signature, Err: err}
}
