package customerr

import "fmt"

// CorruptedStoreError reports that the persisted users document could not be
// decoded. Callers are expected to continue with an empty document and warn
// the user instead of crashing.
type CorruptedStoreError struct {
	Err error
}

func (e *CorruptedStoreError) Error() string {
	return fmt.Sprintf("corrupted store: %v", e.Err)
}

func (e *CorruptedStoreError) Unwrap() error {
	return e.Err
}

// StorageWriteError reports a failed store write. It is surfaced to the user
// but never retried.
type StorageWriteError struct {
	Err error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("storage write: %v", e.Err)
}

func (e *StorageWriteError) Unwrap() error {
	return e.Err
}

// InvalidInputError reports user input that cannot be applied, e.g. an empty
// or non-numeric amount. Swallowed at the boundary into a no-op reply.
type InvalidInputError struct {
	Field string
	Value string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Field, e.Value)
}
