// Package storage provides database abstractions.
package storage

import "errors"

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("key not found")

// DB is the interface for key-value storage.
type DB interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	Has(key []byte) (bool, error)
	// ForEach iterates over all keys with the given prefix.
	// The callback receives copies of the key and value; it may retain them.
	// Return a non-nil error from fn to stop iteration early.
	ForEach(prefix []byte, fn func(key, value []byte) error) error
	Close() error
}

// Batch collects writes and applies them all at once on Commit.
// Either every write lands or none does.
type Batch interface {
	Put(key, value []byte) error
	Delete(key []byte) error
	Commit() error
}

// Batcher is implemented by databases that support atomic batches.
type Batcher interface {
	NewBatch() Batch
}

// BatchDB is a DB whose writes can be grouped into atomic batches.
type BatchDB interface {
	DB
	Batcher
}

// batchOp is a buffered write; a nil value means delete.
type batchOp struct {
	key   []byte
	value []byte
}

func newBatchOp(key, value []byte, del bool) batchOp {
	op := batchOp{key: append([]byte(nil), key...)}
	if !del {
		op.value = append([]byte{}, value...)
	}
	return op
}
