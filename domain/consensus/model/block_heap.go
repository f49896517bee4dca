package model

import "github.com/dagcore/dagd/domain/consensus/model/externalapi"

// BlockHeap is a priority queue of block hashes. Whether Pop yields the
// highest or the lowest blue work first depends on the constructor used.
type BlockHeap interface {
	Push(blockHash *externalapi.DomainHash) error
	PushSlice(blockHashes []*externalapi.DomainHash) error
	Pop() *externalapi.DomainHash
	Len() int
	ToSlice() []*externalapi.DomainHash
}
