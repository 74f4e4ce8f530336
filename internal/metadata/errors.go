// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import "fmt"

// MetadataError reports malformed or unsupported input to metadata
// extraction.
type MetadataError struct {
	Message string
	Err     error
}

func (e *MetadataError) Error() string { return e.Message }

func (e *MetadataError) Unwrap() error { return e.Err }

func metadataErrorf(err error, format string, args ...any) *MetadataError {
	msg := fmt.Sprintf(format, args...)
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return &MetadataError{Message: msg, Err: err}
}

// ValidationError is reserved for strict schema enforcement. The field
// validators are currently advisory predicates; callers that want hard
// failures wrap their results in this type.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
