package hashes

import (
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

const (
	transactionHashDomain = "TransactionHash"
	transactionIDDomain   = "TransactionID"
	blockDomain           = "BlockHash"
	merkleBranchDomain    = "MerkleBranchHash"
)

// NewTransactionHashWriter Returns a new HashWriter used for transaction hashes
func NewTransactionHashWriter() HashWriter {
	blake, err := blake2b.New256([]byte(transactionHashDomain))
	if err != nil {
		panic(errors.Wrapf(err, "this should never happen. %s is less than 64 bytes", transactionHashDomain))
	}
	return HashWriter{blake}
}

// NewTransactionIDWriter Returns a new HashWriter used for transaction IDs
func NewTransactionIDWriter() HashWriter {
	blake, err := blake2b.New256([]byte(transactionIDDomain))
	if err != nil {
		panic(errors.Wrapf(err, "this should never happen. %s is less than 64 bytes", transactionIDDomain))
	}
	return HashWriter{blake}
}

// NewBlockHashWriter Returns a new HashWriter used for hashing blocks
func NewBlockHashWriter() HashWriter {
	blake, err := blake2b.New256([]byte(blockDomain))
	if err != nil {
		panic(errors.Wrapf(err, "this should never happen. %s is less than 64 bytes", blockDomain))
	}
	return HashWriter{blake}
}

// NewMerkleBranchHashWriter Returns a new HashWriter used for merkle tree branches
func NewMerkleBranchHashWriter() HashWriter {
	blake, err := blake2b.New256([]byte(merkleBranchDomain))
	if err != nil {
		panic(errors.Wrapf(err, "this should never happen. %s is less than 64 bytes", merkleBranchDomain))
	}
	return HashWriter{blake}
}
