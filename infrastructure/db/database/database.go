package database

// Database defines the interface of a database
// that can begin transactions and close itself.
//
// Important: This is not part of the DataAccessor interface
// because the Transaction and Close methods must not be
// used through a transaction.
type Database interface {
	DataAccessor

	// Begin begins a new database transaction.
	Begin() (Transaction, error)

	// Compact compacts the database instance.
	Compact() error

	// Close closes the database.
	Close() error
}
