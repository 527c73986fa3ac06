package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies scan failures. The string values double as the status
// discriminator in API responses and persisted envelopes.
type Kind string

const (
	// KindUnsupportedInput means no recognizable language was found in the
	// source tree; the engine is never invoked.
	KindUnsupportedInput Kind = "unsupported_input"
	// KindBuildFailure means a compiled-language build command failed during
	// database creation.
	KindBuildFailure Kind = "build_failure"
	// KindDatabaseCreationFailure means the engine could not construct an
	// analysis database after the permitted retry.
	KindDatabaseCreationFailure Kind = "database_creation_failure"
	// KindAnalysisFailure means the engine could not produce results after
	// the permitted ruleset fallback.
	KindAnalysisFailure Kind = "analysis_failure"
	// KindTimeout means an engine invocation exceeded its wall-clock budget.
	KindTimeout Kind = "timeout"
	// KindParseFailure means a result document could not be parsed. Soft:
	// aggregate operations skip the document instead of aborting.
	KindParseFailure Kind = "parse_failure"
)

// ScanError is a classified failure of a single scan stage. Output carries
// captured tool output when a subprocess was involved.
type ScanError struct {
	Kind    Kind
	Message string
	Output  string
	Err     error
}

func (e *ScanError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Output != "" {
		msg = fmt.Sprintf("%s. Output: %s", msg, e.Output)
	}
	return msg
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// New creates a ScanError with the given kind and message.
func New(kind Kind, message string) *ScanError {
	return &ScanError{Kind: kind, Message: message}
}

// Newf creates a ScanError with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *ScanError {
	return &ScanError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies an underlying error under the given kind.
func Wrap(kind Kind, err error, message string) *ScanError {
	return &ScanError{Kind: kind, Message: message, Err: err}
}

// WithOutput attaches captured tool output and returns the receiver.
func (e *ScanError) WithOutput(output string) *ScanError {
	e.Output = output
	return e
}

// KindOf extracts the failure kind from an error chain. The second return
// value is false when the chain carries no ScanError.
func KindOf(err error) (Kind, bool) {
	var scanErr *ScanError
	if stderrors.As(err, &scanErr) {
		return scanErr.Kind, true
	}
	return "", false
}

// IsKind reports whether the error chain carries a ScanError of the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// OutputOf extracts captured tool output from an error chain, if any.
func OutputOf(err error) string {
	var scanErr *ScanError
	if stderrors.As(err, &scanErr) {
		return scanErr.Output
	}
	return ""
}
