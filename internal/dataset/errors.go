package dataset

import "fmt"

// ReferentialError reports an order or event pointing at an entity id
// that is not in the generated pool. Generation order makes this
// structurally impossible, so hitting it is an invariant violation and
// never a retry case.
type ReferentialError struct {
	Collection string
	ID         string
}

func (e *ReferentialError) Error() string {
	return fmt.Sprintf("dataset: %s id %s not found in generated pool", e.Collection, e.ID)
}

// UniquenessViolation reports a duplicate value on a unique index,
// in practice the customer email index.
type UniquenessViolation struct {
	Collection string
	Err        error
}

func (e *UniquenessViolation) Error() string {
	return fmt.Sprintf("dataset: uniqueness violation in %s: %v", e.Collection, e.Err)
}

func (e *UniquenessViolation) Unwrap() error { return e.Err }

// StorageError wraps a rejected batch write with enough position
// information to restart the run; partial results are not resumable.
type StorageError struct {
	Collection string
	Batch      int
	Err        error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("dataset: batch %d of %s failed: %v", e.Batch, e.Collection, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
