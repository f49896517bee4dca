package constants

import "math"

const (
	// BlockVersion is the current version of a block
	BlockVersion uint16 = 1

	// MaxBlockLevel is the maximum number of block levels a header
	// may carry parents for
	MaxBlockLevel = 225

	// MaxMassAcceptedByBlock is the maximum total transaction mass a
	// block may accept
	MaxMassAcceptedByBlock = 500000

	// MassPerTxByte is the number of grams that any byte
	// adds to a transaction
	MassPerTxByte = 1

	// SompiPerCoin is the number of sompi in one coin
	SompiPerCoin uint64 = 100_000_000

	// CoinbaseSubsidy is the amount a coinbase transaction mints
	CoinbaseSubsidy = 50 * SompiPerCoin

	// LockTimeThreshold is the number below which a transaction lock time is
	// interpreted to be a blue score
	LockTimeThreshold = 5e11

	// SequenceLockTimeDisabled is a flag that if set on a transaction
	// input's sequence number, the sequence number will not be interpreted
	// as a relative lock time
	SequenceLockTimeDisabled uint64 = 1 << 63

	// UnacceptedBlueScore is the blue score of UTXO entries that were not
	// yet accepted by a chain block
	UnacceptedBlueScore uint64 = math.MaxUint64
)
