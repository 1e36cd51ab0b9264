package record

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates no record is stored under the key.
var ErrNotFound = errors.New("record: not found")

// CorruptError indicates the stored text could not be decoded as a record.
type CorruptError struct {
	Err error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("record: corrupt: %v", e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// StoreError wraps a failure of the underlying key-value store.
type StoreError struct {
	Op  string // read or write
	Key string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("record: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
