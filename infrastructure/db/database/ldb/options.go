package ldb

import "github.com/syndtr/goleveldb/leveldb/opt"

var (
	defaultOptions = opt.Options{
		Compression:            opt.NoCompression,
		DisableSeeksCompaction: true,
	}

	// Options supplies the leveldb options used when opening a database.
	// It is a variable so tests can swap in different options.
	Options = func() opt.Options {
		return defaultOptions
	}
)
