// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"errors"
	"fmt"
)

// StorageError reports a corpus storage failure: package creation,
// read/write I/O, an operation invalid for the storage mode, or a missing
// paper (NotFound set).
type StorageError struct {
	Message  string
	NotFound bool
	Err      error
}

func (e *StorageError) Error() string { return e.Message }

func (e *StorageError) Unwrap() error { return e.Err }

func storageErrorf(err error, format string, args ...any) *StorageError {
	msg := fmt.Sprintf(format, args...)
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return &StorageError{Message: msg, Err: err}
}

func notFoundErrorf(format string, args ...any) *StorageError {
	return &StorageError{Message: fmt.Sprintf(format, args...), NotFound: true}
}

// IsNotFound reports whether err is a StorageError for a missing paper.
func IsNotFound(err error) bool {
	var se *StorageError
	return errors.As(err, &se) && se.NotFound
}
