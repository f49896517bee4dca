package database

// DataAccessor is the interface shared by a database handle and a
// transaction: plain key/value access plus bucket cursors.
type DataAccessor interface {
	// Put stores value under key, replacing any existing value
	Put(key *Key, value []byte) error

	// Get returns the value stored under key, or ErrNotFound if there
	// is none
	Get(key *Key) ([]byte, error)

	// Has reports whether key exists in the database
	Has(key *Key) (bool, error)

	// Delete removes the value under key. Deleting a missing key is not
	// an error
	Delete(key *Key) error

	// Cursor opens a cursor over all entries of the given bucket
	Cursor(bucket *Bucket) (Cursor, error)
}
