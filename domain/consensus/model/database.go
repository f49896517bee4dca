package model

// DBReader provides read access to the consensus database
type DBReader interface {
	// Get returns the value stored under key, or ErrNotFound if there
	// is none
	Get(key DBKey) ([]byte, error)

	// Has reports whether key exists in the database
	Has(key DBKey) (bool, error)

	// Cursor opens a cursor over all entries of the given bucket
	Cursor(bucket DBBucket) (DBCursor, error)
}

// DBWriter provides read and write access to the consensus database
type DBWriter interface {
	DBReader

	// Put stores value under key, replacing any existing value
	Put(key DBKey, value []byte) error

	// Delete removes the value under key. Deleting a missing key is not
	// an error
	Delete(key DBKey) error
}

// DBTransaction is a DBWriter whose writes are applied atomically on
// Commit and discarded on Rollback
type DBTransaction interface {
	DBWriter

	// Rollback discards all changes made within this transaction
	Rollback() error

	// Commit atomically applies all changes made within this transaction
	Commit() error

	// RollbackUnlessClosed discards the transaction's changes unless it
	// was already committed or rolled back. Useful in defers
	RollbackUnlessClosed() error
}

// DBManager is the root database handle: a DBWriter that can also open
// transactions
type DBManager interface {
	DBWriter

	// Begin opens a new database transaction
	Begin() (DBTransaction, error)
}

// DBCursor iterates over the entries of a single bucket
type DBCursor interface {
	// Next advances to the next key/value pair and reports whether one
	// exists. Panics if the cursor is closed
	Next() bool

	// First rewinds to the first key/value pair and reports whether one
	// exists. Panics if the cursor is closed
	First() bool

	// Seek positions the cursor at the first pair whose key is greater
	// than or equal to key, returning ErrNotFound if there is none
	Seek(key DBKey) error

	// Key returns the current key, or ErrNotFound once the cursor is
	// exhausted. The returned key must not be modified and may be
	// invalidated by the next call to Next
	Key() (DBKey, error)

	// Value returns the current value, or ErrNotFound once the cursor is
	// exhausted. The returned slice must not be modified and may be
	// invalidated by the next call to Next
	Value() ([]byte, error)

	// Close releases the cursor's resources
	Close() error
}

// DBKey is a fully-qualified database key: a bucket path plus a suffix
type DBKey interface {
	Bytes() []byte
	Bucket() DBBucket
	Suffix() []byte
}

// DBBucket is a hierarchical namespace for database keys
type DBBucket interface {
	Bucket(bucketBytes []byte) DBBucket
	Key(suffix []byte) DBKey
	Path() []byte
}
