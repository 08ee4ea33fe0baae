package storage

import "bytes"

// PrefixDB is a namespace inside a shared database. Every key it reads or
// writes is stored under its prefix, and iteration hides the prefix again.
// Batches are delegated to the inner database, so a namespace keeps the
// all-or-nothing commit of the store it lives in.
type PrefixDB struct {
	inner  BatchDB
	prefix []byte
}

// NewPrefixDB opens the namespace prefix inside inner.
func NewPrefixDB(inner BatchDB, prefix []byte) *PrefixDB {
	return &PrefixDB{inner: inner, prefix: bytes.Clone(prefix)}
}

// Prefix returns the namespace prefix.
func (p *PrefixDB) Prefix() []byte {
	return bytes.Clone(p.prefix)
}

func (p *PrefixDB) key(k []byte) []byte {
	return append(bytes.Clone(p.prefix), k...)
}

func (p *PrefixDB) Get(key []byte) ([]byte, error) {
	return p.inner.Get(p.key(key))
}

func (p *PrefixDB) Put(key, value []byte) error {
	return p.inner.Put(p.key(key), value)
}

func (p *PrefixDB) Delete(key []byte) error {
	return p.inner.Delete(p.key(key))
}

func (p *PrefixDB) Has(key []byte) (bool, error) {
	return p.inner.Has(p.key(key))
}

// ForEach visits the namespace's keys under prefix, with the namespace
// prefix stripped.
func (p *PrefixDB) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	n := len(p.prefix)
	return p.inner.ForEach(p.key(prefix), func(key, value []byte) error {
		return fn(key[n:], value)
	})
}

// Close leaves the inner database open; its owner closes it.
func (p *PrefixDB) Close() error {
	return nil
}

// NewBatch starts an atomic batch on the inner database.
func (p *PrefixDB) NewBatch() Batch {
	return &prefixBatch{ns: p, inner: p.inner.NewBatch()}
}

type prefixBatch struct {
	ns    *PrefixDB
	inner Batch
}

func (b *prefixBatch) Put(key, value []byte) error {
	return b.inner.Put(b.ns.key(key), value)
}

func (b *prefixBatch) Delete(key []byte) error {
	return b.inner.Delete(b.ns.key(key))
}

func (b *prefixBatch) Commit() error {
	return b.inner.Commit()
}
